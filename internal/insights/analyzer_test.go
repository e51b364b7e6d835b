package insights

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"salescope/domain/sales"
	"salescope/internal/testkit"
)

func categoryRow(orderID, category string, day int, amount, profit, discount float64) sales.Row {
	row := testkit.Row(orderID, testkit.Day(2023, time.March, day), amount, profit, discount)
	row.Category = category
	return row
}

func TestMonthlyTrendChronological(t *testing.T) {
	ds := testkit.FixedDataset(
		testkit.Row("C-1", testkit.Day(2023, time.March, 5), 300, 30, 0),
		testkit.Row("A-1", testkit.Day(2023, time.January, 10), 100, 10, 0),
		testkit.Row("B-1", testkit.Day(2023, time.February, 20), 200, 20, 0),
		testkit.Row("A-2", testkit.Day(2023, time.January, 25), 50, 5, 0),
		testkit.Row("A-2", testkit.Day(2023, time.January, 25), 25, 2, 0), // second line, same order
	)

	analyzer := New(DefaultConfig())
	points := analyzer.MonthlyTrend(ds, nil)

	if len(points) != 3 {
		t.Fatalf("Expected 3 months, got %d", len(points))
	}
	expected := []string{"2023-01", "2023-02", "2023-03"}
	for i, month := range expected {
		if points[i].Month != month {
			t.Errorf("Expected month %s at index %d, got %s", month, i, points[i].Month)
		}
	}
	if math.Abs(points[0].Sales-175) > 1e-9 {
		t.Errorf("Expected January sales 175, got %v", points[0].Sales)
	}
	if points[0].Orders != 2 {
		t.Errorf("Expected 2 distinct January orders, got %d", points[0].Orders)
	}
}

func TestBreakdownOrdersBySalesDescending(t *testing.T) {
	ds := testkit.FixedDataset(
		categoryRow("A-1", "Furniture", 1, 100, -50, 0.5),
		categoryRow("A-2", "Technology", 2, 500, 100, 0),
		categoryRow("A-3", "Office Supplies", 3, 300, 50, 0.1),
		categoryRow("A-4", "Technology", 4, 200, 40, 0),
	)

	analyzer := New(DefaultConfig())
	slices := analyzer.Breakdown(ds, nil, sales.ColCategory)

	if len(slices) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(slices))
	}
	if slices[0].Value != "Technology" || math.Abs(slices[0].Sales-700) > 1e-9 {
		t.Errorf("Expected Technology first with 700, got %s with %v", slices[0].Value, slices[0].Sales)
	}
	if slices[2].Value != "Furniture" {
		t.Errorf("Expected Furniture last, got %s", slices[2].Value)
	}
	if math.Abs(slices[0].Margin-140.0/700.0) > 1e-9 {
		t.Errorf("Expected Technology margin 0.2, got %v", slices[0].Margin)
	}

	if got := analyzer.Breakdown(ds, nil, "Warehouse"); len(got) != 0 {
		t.Errorf("Expected empty breakdown for unknown column, got %d slices", len(got))
	}
}

func TestDiscountBandsPartitionRows(t *testing.T) {
	discounts := []float64{0, 0.05, 0.1, 0.25, 0.35, 0.4, 0.7}
	rows := make([]sales.Row, len(discounts))
	for i, d := range discounts {
		rows[i] = testkit.Row("O-"+string(rune('A'+i)), testkit.Day(2023, time.March, i+1), 100, 10, d)
	}
	ds := testkit.FixedDataset(rows...)

	analyzer := New(DefaultConfig())
	bands := analyzer.DiscountBands(ds, nil)

	if len(bands) != 5 {
		t.Fatalf("Expected 5 bands, got %d", len(bands))
	}

	expectedRows := map[string]int{
		"0-10%":  2, // 0, 0.05
		"10-20%": 1, // 0.1 lands on its band's lower edge
		"20-30%": 1,
		"30-40%": 1,
		"40%+":   2, // 0.4, 0.7
	}
	total := 0
	for _, band := range bands {
		if band.Rows != expectedRows[band.Label] {
			t.Errorf("Band %s: expected %d rows, got %d", band.Label, expectedRows[band.Label], band.Rows)
		}
		total += band.Rows
	}
	if total != len(rows) {
		t.Errorf("Bands must partition all rows: expected %d, got %d", len(rows), total)
	}
}

func TestDiscountBandEdges(t *testing.T) {
	ds := testkit.FixedDataset(
		testkit.Row("E-1", testkit.Day(2023, time.March, 1), 100, 10, 0.2),
		testkit.Row("E-2", testkit.Day(2023, time.March, 2), 100, -40, 1.0), // full discount
	)

	analyzer := New(DefaultConfig())
	bands := analyzer.DiscountBands(ds, nil)

	expected := []struct {
		label     string
		low, high float64
	}{
		{"0-10%", 0.0, 0.1},
		{"10-20%", 0.1, 0.2},
		{"20-30%", 0.2, 0.3},
		{"30-40%", 0.3, 0.4},
		{"40%+", 0.4, 1.0},
	}
	if len(bands) != len(expected) {
		t.Fatalf("Expected %d bands, got %d", len(expected), len(bands))
	}
	for i, want := range expected {
		if bands[i].Label != want.label {
			t.Errorf("Band %d: expected label %s, got %s", i, want.label, bands[i].Label)
		}
		if bands[i].Low != want.low || bands[i].High != want.high {
			t.Errorf("Band %s: expected edges [%v, %v], got [%v, %v]",
				want.label, want.low, want.high, bands[i].Low, bands[i].High)
		}
	}
	last := bands[len(bands)-1]
	if last.Rows != 1 {
		t.Errorf("Discount 1.0 must land in the last band: expected 1 row, got %d", last.Rows)
	}
}

func TestReportMarshalsToJSON(t *testing.T) {
	ds := testkit.FixedDataset(
		testkit.Row("J-1", testkit.Day(2023, time.March, 1), 100, 20, 0),
		testkit.Row("J-2", testkit.Day(2023, time.April, 2), 250, -60, 0.5),
		testkit.Row("J-3", testkit.Day(2023, time.May, 3), 80, 8, 0.2),
	)

	analyzer := New(DefaultConfig())
	report, err := analyzer.BuildReport(context.Background(), ds, nil)
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Report must marshal to JSON: %v", err)
	}
	if !strings.Contains(string(data), `"40%+"`) {
		t.Errorf("Encoded report missing the last discount band: %s", data)
	}
}

func TestLeakOrders(t *testing.T) {
	ds := testkit.FixedDataset(
		testkit.Row("L-1", testkit.Day(2023, time.March, 1), 200, -50, 0.4),  // leak
		testkit.Row("L-1", testkit.Day(2023, time.March, 1), 100, -20, 0.35), // leak, same order
		testkit.Row("L-2", testkit.Day(2023, time.March, 2), 150, -10, 0.3),  // leak, at threshold
		testkit.Row("OK1", testkit.Day(2023, time.March, 3), 300, 5, 0.5),    // profitable
		testkit.Row("OK2", testkit.Day(2023, time.March, 4), 400, -100, 0.2), // below threshold
	)

	analyzer := New(DefaultConfig())
	rows, summary := analyzer.LeakOrders(ds, nil)

	if len(rows) != 3 {
		t.Fatalf("Expected 3 leak rows, got %d", len(rows))
	}
	if summary.Rows != 3 {
		t.Errorf("Expected 3 leak rows in summary, got %d", summary.Rows)
	}
	if summary.Orders != 2 {
		t.Errorf("Expected 2 distinct leak orders, got %d", summary.Orders)
	}
	if math.Abs(summary.LostProfit-80) > 1e-9 {
		t.Errorf("Expected lost profit 80, got %v", summary.LostProfit)
	}
	if math.Abs(summary.SalesAtRisk-450) > 1e-9 {
		t.Errorf("Expected sales at risk 450, got %v", summary.SalesAtRisk)
	}
}

func TestDiscountStatistics(t *testing.T) {
	discounts := []float64{0, 0.1, 0.2, 0.3, 0.4}
	rows := make([]sales.Row, len(discounts))
	for i, d := range discounts {
		rows[i] = testkit.Row("O-"+string(rune('A'+i)), testkit.Day(2023, time.March, i+1), 100, 10, d)
	}
	ds := testkit.FixedDataset(rows...)

	analyzer := New(DefaultConfig())
	stats := analyzer.DiscountStatistics(ds, nil)

	if math.Abs(stats.Mean-0.2) > 1e-9 {
		t.Errorf("Expected mean 0.2, got %v", stats.Mean)
	}
	if math.Abs(stats.Median-0.2) > 1e-9 {
		t.Errorf("Expected median 0.2, got %v", stats.Median)
	}
	if math.Abs(stats.P90-0.35) > 1e-9 {
		t.Errorf("Expected P90 0.35, got %v", stats.P90)
	}

	empty := analyzer.DiscountStatistics(testkit.FixedDataset(), nil)
	if empty.Mean != 0 || empty.Median != 0 || empty.P90 != 0 {
		t.Errorf("Expected zeros for empty slice, got %+v", empty)
	}
}

func TestAnalyzeCategories(t *testing.T) {
	ds := testkit.FixedDataset(
		categoryRow("A-1", "Furniture", 1, 100, -50, 0.5),
		categoryRow("A-2", "Technology", 2, 500, 100, 0),
		categoryRow("A-3", "Office Supplies", 3, 300, 50, 0.1),
	)

	analyzer := New(DefaultConfig())
	insights := analyzer.AnalyzeCategories(ds, nil)

	if insights.TopBySales[0].Value != "Technology" {
		t.Errorf("Expected Technology to lead sales, got %s", insights.TopBySales[0].Value)
	}
	if insights.WorstByProfit[0].Value != "Furniture" {
		t.Errorf("Expected Furniture to lose the most, got %s", insights.WorstByProfit[0].Value)
	}
	if math.Abs(insights.HighDiscountLossShare-1.0) > 1e-9 {
		t.Errorf("Expected every deep-discount row to lose money, got %v", insights.HighDiscountLossShare)
	}

	corr := insights.DiscountProfit
	if corr.Samples != 3 {
		t.Errorf("Expected 3 samples, got %d", corr.Samples)
	}
	if corr.Pearson >= 0 {
		t.Errorf("Expected negative discount-profit correlation, got %v", corr.Pearson)
	}
	if corr.PValue < 0 || corr.PValue > 1 {
		t.Errorf("Expected p-value in [0,1], got %v", corr.PValue)
	}
}

func TestBuildReport(t *testing.T) {
	kit := testkit.NewTestKit()
	ds := kit.Dataset()

	analyzer := New(DefaultConfig())
	report, err := analyzer.BuildReport(context.Background(), ds, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(report.Monthly) == 0 {
		t.Error("Expected monthly trend to be populated")
	}
	if len(report.ByCategory) == 0 || len(report.ByRegion) == 0 {
		t.Error("Expected categorical breakdowns to be populated")
	}

	total := 0
	for _, band := range report.DiscountBands {
		total += band.Rows
	}
	if total != ds.RowCount() {
		t.Errorf("Expected discount bands to cover all %d rows, got %d", ds.RowCount(), total)
	}
}

func TestBuildReportHonorsCancellation(t *testing.T) {
	kit := testkit.NewTestKit()
	ds := kit.Dataset()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := New(DefaultConfig())
	if _, err := analyzer.BuildReport(ctx, ds, nil); err == nil {
		t.Error("Expected error from canceled context")
	}
}
