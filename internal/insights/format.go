package insights

import (
	"fmt"
	"strconv"
	"strings"

	"salescope/domain/sales"
)

// FormatMoney renders an amount in compact business notation: $2.30M,
// $120.5K, $987, with a leading minus for losses.
func FormatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.1fK", sign, v/1e3)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// FormatPercent renders a KPI change as a signed percentage, or "n/a" when
// the previous window had no baseline to compare against.
func FormatPercent(c sales.Change) string {
	if !c.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", c.Percent())
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
