package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"salescope/domain/core"
)

// ParseNumeric parses one numeric cell, tolerating currency formatting:
// the configured symbols, thousands separators, parenthesized negatives,
// and European decimal commas. It never guesses: a cell that still fails
// to parse after stripping is an error, not a zero.
func ParseNumeric(raw string, symbols []string) (float64, error) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, fmt.Errorf("empty value")
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimPrefix(cleanVal, "(")
		cleanVal = strings.TrimSuffix(cleanVal, ")")
		isNegative = true
	}

	for _, symbol := range symbols {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")
	cleanVal = strings.TrimSpace(cleanVal)

	cleanVal = normalizeSeparators(cleanVal)

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return val, nil
}

// normalizeSeparators rewrites thousands/decimal separators into plain
// decimal notation. US grouping commas are the common case ("1,200" ->
// 1200, "1,234.50" -> 1234.50); European decimals are recognized when the
// comma clearly acts as the decimal separator ("1.234,56" -> 1234.56).
func normalizeSeparators(s string) string {
	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")

	switch {
	case hasComma && hasPeriod:
		// Whichever separator comes last is the decimal separator.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, " ", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
			s = strings.ReplaceAll(s, " ", "")
		}
	case hasComma:
		if commaIsDecimal(s) {
			s = strings.ReplaceAll(s, " ", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
			s = strings.ReplaceAll(s, " ", "")
		}
	default:
		s = strings.ReplaceAll(s, " ", "")
	}
	return s
}

// commaIsDecimal reports whether a comma-only value uses the comma as a
// decimal separator. Grouping commas always delimit exactly three digits
// ("1,200", "12,345,678"); a single comma followed by one or two digits is
// a European decimal ("1,5", "3,75").
func commaIsDecimal(s string) bool {
	if strings.Count(s, ",") != 1 {
		return false
	}
	after := s[strings.LastIndex(s, ",")+1:]
	if len(after) == 0 || len(after) > 2 {
		return false
	}
	for _, r := range after {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseDate parses one date cell using the first matching layout
func ParseDate(raw string, formats []string) (core.Date, error) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return core.Date{}, fmt.Errorf("empty value")
	}
	for _, format := range formats {
		if t, err := time.Parse(format, cleanVal); err == nil {
			return core.DateOf(t), nil
		}
	}
	return core.Date{}, fmt.Errorf("no layout matches %q", raw)
}
