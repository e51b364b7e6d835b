package insights

import (
	"context"
	"math"
	"sort"

	"salescope/domain/sales"
	"salescope/internal"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config tunes the diagnostic boundaries of the analyzer.
type Config struct {
	// LeakDiscountThreshold marks the discount depth at which a money-losing
	// row counts as margin leakage.
	LeakDiscountThreshold float64 `json:"leak_discount_threshold"`
	// TopN caps ranked category listings.
	TopN int `json:"top_n"`
}

// DefaultConfig returns the analyzer settings used for standard reviews.
func DefaultConfig() Config {
	return Config{
		LeakDiscountThreshold: 0.30,
		TopN:                  5,
	}
}

// Analyzer computes descriptive breakdowns over a cleaned dataset: monthly
// trends, categorical slices, discount-band economics, and leak detection.
// Like the comparator it never mutates the dataset, so one dataset can feed
// many analyzers concurrently.
type Analyzer struct {
	config Config
	log    *internal.Logger
}

// New creates an analyzer with the given configuration.
func New(config Config) *Analyzer {
	return &Analyzer{
		config: config,
		log:    internal.DefaultLogger.WithComponent("insights"),
	}
}

// MonthlyPoint is one calendar month of aggregated sales activity.
type MonthlyPoint struct {
	Month  string  `json:"month"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
	Orders int     `json:"orders"`
}

// DimensionSlice aggregates the rows sharing one value of a categorical
// column. Margin is profit over sales, 0 when the slice sold nothing.
type DimensionSlice struct {
	Value  string  `json:"value"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
	Orders int     `json:"orders"`
	Margin float64 `json:"margin"`
}

// DiscountBand buckets rows by discount depth.
type DiscountBand struct {
	Label      string  `json:"label"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Rows       int     `json:"rows"`
	TotalSales float64 `json:"total_sales"`
	AvgProfit  float64 `json:"avg_profit"`
}

// LeakSummary totals the rows discounted at or beyond the configured
// threshold that still lost money.
type LeakSummary struct {
	Rows        int     `json:"rows"`
	Orders      int     `json:"orders"`
	LostProfit  float64 `json:"lost_profit"`
	SalesAtRisk float64 `json:"sales_at_risk"`
}

// DiscountStats summarizes the discount distribution of a dataset slice.
type DiscountStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// CorrelationInsight reports the linear association between discount depth
// and row profit, with a two-tailed significance estimate.
type CorrelationInsight struct {
	Pearson float64 `json:"pearson"`
	PValue  float64 `json:"p_value"`
	Samples int     `json:"samples"`
}

// CategoryInsights collects the category-level findings of one analysis run.
type CategoryInsights struct {
	TopBySales            []DimensionSlice   `json:"top_by_sales"`
	WorstByProfit         []DimensionSlice   `json:"worst_by_profit"`
	HighDiscountLossShare float64            `json:"high_discount_loss_share"`
	DiscountProfit        CorrelationInsight `json:"discount_profit"`
}

// Report is the full diagnostic output for one dataset slice.
type Report struct {
	Monthly       []MonthlyPoint   `json:"monthly"`
	ByCategory    []DimensionSlice `json:"by_category"`
	ByRegion      []DimensionSlice `json:"by_region"`
	BySubCategory []DimensionSlice `json:"by_sub_category"`
	DiscountBands []DiscountBand   `json:"discount_bands"`
	Leaks         LeakSummary      `json:"leaks"`
	Discounts     DiscountStats    `json:"discounts"`
	Categories    CategoryInsights `json:"categories"`
}

// MonthlyTrend buckets the filtered rows by calendar month, in chronological
// order. Orders counts distinct order IDs within each month.
func (a *Analyzer) MonthlyTrend(ds *sales.Dataset, filters sales.Filters) []MonthlyPoint {
	type bucket struct {
		sales  float64
		profit float64
		orders map[string]struct{}
	}

	buckets := make(map[string]*bucket)
	for _, row := range ds.Select(filters) {
		key := row.OrderDate.MonthKey()
		b := buckets[key]
		if b == nil {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[key] = b
		}
		b.sales += row.Sales
		b.profit += row.Profit
		b.orders[row.OrderID] = struct{}{}
	}

	months := make([]string, 0, len(buckets))
	for key := range buckets {
		months = append(months, key)
	}
	sort.Strings(months)

	points := make([]MonthlyPoint, 0, len(months))
	for _, key := range months {
		b := buckets[key]
		points = append(points, MonthlyPoint{
			Month:  key,
			Sales:  b.sales,
			Profit: b.profit,
			Orders: len(b.orders),
		})
	}
	return points
}

// Breakdown aggregates the filtered rows by the values of one categorical
// column, ordered by sales descending. A column the schema does not carry
// yields an empty result.
func (a *Analyzer) Breakdown(ds *sales.Dataset, filters sales.Filters, column string) []DimensionSlice {
	type bucket struct {
		sales  float64
		profit float64
		orders map[string]struct{}
	}

	buckets := make(map[string]*bucket)
	for _, row := range ds.Select(filters) {
		value, ok := row.Field(column)
		if !ok {
			continue
		}
		b := buckets[value]
		if b == nil {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[value] = b
		}
		b.sales += row.Sales
		b.profit += row.Profit
		b.orders[row.OrderID] = struct{}{}
	}

	slices := make([]DimensionSlice, 0, len(buckets))
	for value, b := range buckets {
		slice := DimensionSlice{
			Value:  value,
			Sales:  b.sales,
			Profit: b.profit,
			Orders: len(b.orders),
		}
		if b.sales != 0 {
			slice.Margin = b.profit / b.sales
		}
		slices = append(slices, slice)
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Sales != slices[j].Sales {
			return slices[i].Sales > slices[j].Sales
		}
		return slices[i].Value < slices[j].Value
	})
	return slices
}

var discountBandEdges = []struct {
	label string
	low   float64
	high  float64
}{
	{"0-10%", 0.0, 0.1},
	{"10-20%", 0.1, 0.2},
	{"20-30%", 0.2, 0.3},
	{"30-40%", 0.3, 0.4},
	{"40%+", 0.4, 1.0},
}

// DiscountBands partitions the filtered rows into fixed discount-depth
// buckets. Each band is [low, high) except the last, which also takes its
// upper bound and anything beyond it; negative discounts clamp into the
// first.
func (a *Analyzer) DiscountBands(ds *sales.Dataset, filters sales.Filters) []DiscountBand {
	bands := make([]DiscountBand, len(discountBandEdges))
	profitSums := make([]float64, len(discountBandEdges))
	for i, edge := range discountBandEdges {
		bands[i] = DiscountBand{Label: edge.label, Low: edge.low, High: edge.high}
	}

	for _, row := range ds.Select(filters) {
		for i, edge := range discountBandEdges {
			if row.Discount < edge.high || i == len(discountBandEdges)-1 {
				bands[i].Rows++
				bands[i].TotalSales += row.Sales
				profitSums[i] += row.Profit
				break
			}
		}
	}

	for i := range bands {
		if bands[i].Rows > 0 {
			bands[i].AvgProfit = profitSums[i] / float64(bands[i].Rows)
		}
	}
	return bands
}

// LeakOrders returns the filtered rows discounted at or beyond the
// configured threshold that lost money, along with totals over them.
// LostProfit is reported as a positive magnitude.
func (a *Analyzer) LeakOrders(ds *sales.Dataset, filters sales.Filters) ([]sales.Row, LeakSummary) {
	var leaks []sales.Row
	orders := make(map[string]struct{})
	var summary LeakSummary

	for _, row := range ds.Select(filters) {
		if row.Discount < a.config.LeakDiscountThreshold || row.Profit >= 0 {
			continue
		}
		leaks = append(leaks, row)
		orders[row.OrderID] = struct{}{}
		summary.Rows++
		summary.LostProfit += -row.Profit
		summary.SalesAtRisk += row.Sales
	}
	summary.Orders = len(orders)
	return leaks, summary
}

// DiscountStatistics summarizes the discount distribution of the filtered
// rows. Empty slices report zeros.
func (a *Analyzer) DiscountStatistics(ds *sales.Dataset, filters sales.Filters) DiscountStats {
	rows := ds.Select(filters)
	if len(rows) == 0 {
		return DiscountStats{}
	}
	discounts := make([]float64, len(rows))
	for i, row := range rows {
		discounts[i] = row.Discount
	}

	var out DiscountStats
	if mean, err := stats.Mean(discounts); err == nil {
		out.Mean = mean
	}
	if median, err := stats.Median(discounts); err == nil {
		out.Median = median
	}
	if p90, err := stats.Percentile(discounts, 90); err == nil {
		out.P90 = p90
	}
	return out
}

// AnalyzeCategories ranks categories by sales and by profit and measures how
// deep discounting relates to losses across the filtered rows.
func (a *Analyzer) AnalyzeCategories(ds *sales.Dataset, filters sales.Filters) CategoryInsights {
	byCategory := a.Breakdown(ds, filters, sales.ColCategory)

	topN := a.config.TopN
	if topN <= 0 || topN > len(byCategory) {
		topN = len(byCategory)
	}
	top := make([]DimensionSlice, topN)
	copy(top, byCategory[:topN])

	worst := make([]DimensionSlice, len(byCategory))
	copy(worst, byCategory)
	sort.Slice(worst, func(i, j int) bool {
		if worst[i].Profit != worst[j].Profit {
			return worst[i].Profit < worst[j].Profit
		}
		return worst[i].Value < worst[j].Value
	})
	if topN < len(worst) {
		worst = worst[:topN]
	}

	rows := ds.Select(filters)
	var highDiscount, losing int
	for _, row := range rows {
		if row.Discount >= a.config.LeakDiscountThreshold {
			highDiscount++
			if row.Profit < 0 {
				losing++
			}
		}
	}

	insights := CategoryInsights{
		TopBySales:     top,
		WorstByProfit:  worst,
		DiscountProfit: discountProfitCorrelation(rows),
	}
	if highDiscount > 0 {
		insights.HighDiscountLossShare = float64(losing) / float64(highDiscount)
	}
	return insights
}

// discountProfitCorrelation computes Pearson r between discount depth and
// profit, with a two-tailed p-value from the t-distribution. Fewer than
// three samples, or a zero-variance side, yields no reportable association.
func discountProfitCorrelation(rows []sales.Row) CorrelationInsight {
	if len(rows) < 3 {
		return CorrelationInsight{Samples: len(rows), PValue: 1}
	}

	discounts := make([]float64, len(rows))
	profits := make([]float64, len(rows))
	for i, row := range rows {
		discounts[i] = row.Discount
		profits[i] = row.Profit
	}

	r := stat.Correlation(discounts, profits, nil)
	if math.IsNaN(r) {
		return CorrelationInsight{Samples: len(rows), PValue: 1}
	}

	out := CorrelationInsight{Pearson: r, Samples: len(rows)}
	if r <= -1 || r >= 1 {
		return out
	}
	df := float64(len(rows) - 2)
	t := r * math.Sqrt(df/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	out.PValue = 2 * (1 - tDist.CDF(math.Abs(t)))
	return out
}

// BuildReport computes every report section. Sections are independent and
// read-only over the dataset, so they run concurrently; ctx cancels the
// remaining sections.
func (a *Analyzer) BuildReport(ctx context.Context, ds *sales.Dataset, filters sales.Filters) (*Report, error) {
	report := &Report{}
	g, ctx := errgroup.WithContext(ctx)

	sections := []func(){
		func() { report.Monthly = a.MonthlyTrend(ds, filters) },
		func() { report.ByCategory = a.Breakdown(ds, filters, sales.ColCategory) },
		func() { report.ByRegion = a.Breakdown(ds, filters, sales.ColRegion) },
		func() { report.BySubCategory = a.Breakdown(ds, filters, sales.ColSubCategory) },
		func() { report.DiscountBands = a.DiscountBands(ds, filters) },
		func() { _, report.Leaks = a.LeakOrders(ds, filters) },
		func() { report.Discounts = a.DiscountStatistics(ds, filters) },
		func() { report.Categories = a.AnalyzeCategories(ds, filters) },
	}
	for _, section := range sections {
		section := section // per-iteration copy; required while go.mod targets go < 1.22
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			section()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.log.Debug("report built: %d months, %d categories, %d leak rows",
		len(report.Monthly), len(report.ByCategory), report.Leaks.Rows)
	return report, nil
}
