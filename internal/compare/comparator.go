package compare

import (
	"salescope/domain/core"
	"salescope/domain/sales"

	"github.com/montanaflynn/stats"
)

// Comparator derives period-over-period KPI comparisons from a cleaned
// dataset. It is stateless and pure: every call reads the dataset and
// returns fresh values, so independent calls can run in parallel.
type Comparator struct{}

// New creates a comparator
func New() *Comparator {
	return &Comparator{}
}

// Result bundles the KPIs of both windows, the derived previous period,
// and the per-KPI percentage changes.
type Result struct {
	Current        sales.KPISet    `json:"current"`
	Previous       sales.KPISet    `json:"previous"`
	CurrentPeriod  sales.Period    `json:"current_period"`
	PreviousPeriod sales.Period    `json:"previous_period"`
	Changes        sales.ChangeSet `json:"changes"`
}

// Compare computes KPIs for [currentStart, currentEnd] and for the window
// of equal duration immediately preceding it, applying the same categorical
// filters to both so the comparison stays apples-to-apples. A previous
// window reaching before the dataset's earliest date is not an error, just
// sparse: zero matching rows yield an all-zero KPISet and undefined changes.
func (c *Comparator) Compare(ds *sales.Dataset, currentStart, currentEnd core.Date, filters sales.Filters) (*Result, error) {
	current, err := sales.NewPeriod(currentStart, currentEnd)
	if err != nil {
		return nil, err
	}
	previous := current.PreviousPeriod()

	curKPI := ComputeKPIs(ds.SelectPeriod(current, filters))
	prevKPI := ComputeKPIs(ds.SelectPeriod(previous, filters))

	return &Result{
		Current:        curKPI,
		Previous:       prevKPI,
		CurrentPeriod:  current,
		PreviousPeriod: previous,
		Changes:        sales.Changes(curKPI, prevKPI),
	}, nil
}

// ComputeKPIs aggregates one window of rows into a KPI snapshot: summed
// sales and profit, distinct order count, average order value (0 when there
// are no orders), and mean discount.
func ComputeKPIs(rows []sales.Row) sales.KPISet {
	if len(rows) == 0 {
		return sales.KPISet{}
	}

	var totalSales, totalProfit float64
	orders := make(map[string]struct{}, len(rows))
	discounts := make([]float64, 0, len(rows))
	for _, row := range rows {
		totalSales += row.Sales
		totalProfit += row.Profit
		orders[row.OrderID] = struct{}{}
		discounts = append(discounts, row.Discount)
	}

	kpi := sales.KPISet{
		TotalSales:  totalSales,
		TotalProfit: totalProfit,
		OrderCount:  len(orders),
	}
	if kpi.OrderCount > 0 {
		kpi.AvgOrderValue = totalSales / float64(kpi.OrderCount)
	}
	if mean, err := stats.Mean(discounts); err == nil {
		kpi.AvgDiscount = mean
	}
	return kpi
}
