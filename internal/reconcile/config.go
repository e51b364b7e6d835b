package reconcile

import (
	"salescope/domain/sales"
)

// Config defines the reconciliation rules: which columns must exist, which
// are coerced to numbers, which one carries the transaction date, and how
// currency-formatted text is interpreted.
type Config struct {
	RequiredColumns []string `json:"required_columns"`
	NumericColumns  []string `json:"numeric_columns"`
	DateColumn      string   `json:"date_column"`

	// CurrencySymbols are stripped from numeric cells before parsing.
	// The set is open-ended; $ and ₹ are the floor, not the ceiling.
	CurrencySymbols []string `json:"currency_symbols"`

	// DateFormats are tried in order when parsing the date column.
	DateFormats []string `json:"date_formats"`
}

// DefaultConfig returns the canonical sales schema rules
func DefaultConfig() Config {
	return Config{
		RequiredColumns: sales.DefaultRequiredColumns(),
		NumericColumns:  sales.DefaultNumericColumns(),
		DateColumn:      sales.DefaultDateColumn(),
		CurrencySymbols: []string{"$", "₹", "€", "£", "¥"},
		DateFormats: []string{
			"2006-01-02",
			"1/2/2006",
			"2006/01/02",
			"02-Jan-2006",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
		},
	}
}
