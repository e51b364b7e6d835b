package insights

import (
	"testing"

	"salescope/domain/sales"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{2345678, "$2.35M"},
		{1000000, "$1.00M"},
		{120500, "$120.5K"},
		{1000, "$1.0K"},
		{987, "$987"},
		{999.4, "$999"},
		{0, "$0"},
		{-45678, "-$45.7K"},
		{-3200000, "-$3.20M"},
		{-12, "-$12"},
	}

	for _, test := range tests {
		if got := FormatMoney(test.input); got != test.expected {
			t.Errorf("FormatMoney(%v): expected %s, got %s", test.input, test.expected, got)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		change   sales.Change
		expected string
	}{
		{sales.Change{Ratio: 0.124, Defined: true}, "+12.4%"},
		{sales.Change{Ratio: -0.031, Defined: true}, "-3.1%"},
		{sales.Change{Ratio: 0, Defined: true}, "+0.0%"},
		{sales.Change{}, "n/a"},
	}

	for _, test := range tests {
		if got := FormatPercent(test.change); got != test.expected {
			t.Errorf("FormatPercent(%+v): expected %s, got %s", test.change, test.expected, got)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}

	for _, test := range tests {
		if got := FormatCount(test.input); got != test.expected {
			t.Errorf("FormatCount(%d): expected %s, got %s", test.input, test.expected, got)
		}
	}
}
