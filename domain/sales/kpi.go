package sales

// KPISet is a derived, read-only snapshot of aggregate metrics for one
// period. Computed fresh per filter/period change, never mutated in place.
type KPISet struct {
	TotalSales    float64 `json:"total_sales"`
	TotalProfit   float64 `json:"total_profit"`
	OrderCount    int     `json:"order_count"`
	AvgOrderValue float64 `json:"avg_order_value"`
	AvgDiscount   float64 `json:"avg_discount"`
}

// Change is a percentage delta between two period values. When the previous
// value is zero the change is undefined: not zero, not an error, and callers
// must handle it distinctly from a 0% change.
type Change struct {
	Ratio   float64 `json:"ratio"`
	Defined bool    `json:"defined"`
}

// NewChange computes (cur - prev) / prev, undefined when prev == 0
func NewChange(cur, prev float64) Change {
	if prev == 0 {
		return Change{}
	}
	return Change{Ratio: (cur - prev) / prev, Defined: true}
}

// Percent returns the ratio scaled to percentage points
func (c Change) Percent() float64 {
	return c.Ratio * 100
}

// ChangeSet holds the per-KPI deltas between a current and previous period
type ChangeSet struct {
	Sales         Change `json:"sales"`
	Profit        Change `json:"profit"`
	Orders        Change `json:"orders"`
	AvgOrderValue Change `json:"avg_order_value"`
	AvgDiscount   Change `json:"avg_discount"`
}

// Changes derives the deltas for every KPI in the set
func Changes(cur, prev KPISet) ChangeSet {
	return ChangeSet{
		Sales:         NewChange(cur.TotalSales, prev.TotalSales),
		Profit:        NewChange(cur.TotalProfit, prev.TotalProfit),
		Orders:        NewChange(float64(cur.OrderCount), float64(prev.OrderCount)),
		AvgOrderValue: NewChange(cur.AvgOrderValue, prev.AvgOrderValue),
		AvgDiscount:   NewChange(cur.AvgDiscount, prev.AvgDiscount),
	}
}
