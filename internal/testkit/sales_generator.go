package testkit

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"math/rand"

	"salescope/domain/core"
	"salescope/domain/sales"
)

// SalesGeneratorConfig configures the synthetic sales data generator.
type SalesGeneratorConfig struct {
	OrderCount       int       `json:"order_count"`
	MaxLinesPerOrder int       `json:"max_lines_per_order"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Seed             int64     `json:"seed"`
	// CurrencyCells emits raw Sales cells as "$1,234.56" instead of plain
	// numbers, exercising the coercion path.
	CurrencyCells bool `json:"currency_cells"`
	// HeaderAliases renames emitted raw headers (canonical name to alias),
	// producing tables that need a rename mapping before reconciliation.
	HeaderAliases map[string]string `json:"header_aliases,omitempty"`
}

// DefaultSalesConfig returns a one-year superstore-shaped fixture.
func DefaultSalesConfig() SalesGeneratorConfig {
	return SalesGeneratorConfig{
		OrderCount:       200,
		MaxLinesPerOrder: 3,
		StartDate:        time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		Seed:             42,
		CurrencyCells:    true,
	}
}

// SalesDataGenerator produces deterministic retail order data in the
// superstore export shape, either as raw string tables for the ingestion
// path or as typed datasets for the analytics path.
type SalesDataGenerator struct {
	config SalesGeneratorConfig
	rng    *rand.Rand
}

// NewSalesDataGenerator creates a generator seeded from the config.
func NewSalesDataGenerator(config SalesGeneratorConfig) *SalesDataGenerator {
	return &SalesDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// rawHeaders is the emission order for generated tables.
var rawHeaders = []string{
	sales.ColOrderID,
	sales.ColOrderDate,
	sales.ColShipDate,
	sales.ColShipMode,
	sales.ColSegment,
	sales.ColState,
	sales.ColRegion,
	sales.ColCategory,
	sales.ColSubCategory,
	sales.ColProductName,
	sales.ColSales,
	sales.ColQuantity,
	sales.ColDiscount,
	sales.ColProfit,
}

// GenerateRawTable emits order lines as raw string cells, the way a CSV
// export would arrive: slash dates, optionally currency-formatted amounts,
// optionally aliased headers.
func (g *SalesDataGenerator) GenerateRawTable() *sales.RawTable {
	lines := g.generateLines()

	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = g.headerName(h)
	}

	rows := make([]map[string]string, 0, len(lines))
	for _, line := range lines {
		row := map[string]string{
			g.headerName(sales.ColOrderID):     line.OrderID,
			g.headerName(sales.ColOrderDate):   line.OrderDate.Time().Format("1/2/2006"),
			g.headerName(sales.ColShipDate):    line.shipDate.Format("1/2/2006"),
			g.headerName(sales.ColShipMode):    line.ShipMode,
			g.headerName(sales.ColSegment):     line.Segment,
			g.headerName(sales.ColState):       line.State,
			g.headerName(sales.ColRegion):      line.Region,
			g.headerName(sales.ColCategory):    line.Category,
			g.headerName(sales.ColSubCategory): line.SubCategory,
			g.headerName(sales.ColProductName): line.ProductName,
			g.headerName(sales.ColSales):       g.amountCell(line.Sales),
			g.headerName(sales.ColQuantity):    strconv.Itoa(int(line.Quantity)),
			g.headerName(sales.ColDiscount):    strconv.FormatFloat(line.Discount, 'g', -1, 64),
			g.headerName(sales.ColProfit):      strconv.FormatFloat(line.Profit, 'f', 2, 64),
		}
		rows = append(rows, row)
	}

	return &sales.RawTable{Headers: headers, Rows: rows}
}

// GenerateDataset emits the same order lines as a typed, reconciled dataset,
// skipping the ingestion path entirely.
func (g *SalesDataGenerator) GenerateDataset() *sales.Dataset {
	lines := g.generateLines()

	ds := &sales.Dataset{
		ID:      core.NewID(),
		Columns: append([]string(nil), rawHeaders...),
		Rows:    make([]sales.Row, 0, len(lines)),
	}
	for _, line := range lines {
		row := line.Row
		row.Extra = map[string]string{
			sales.ColShipDate: line.shipDate.Format("2006-01-02"),
		}
		ds.Rows = append(ds.Rows, row)

		if ds.MinDate.IsZero() || row.OrderDate.Before(ds.MinDate) {
			ds.MinDate = row.OrderDate
		}
		if ds.MaxDate.IsZero() || row.OrderDate.After(ds.MaxDate) {
			ds.MaxDate = row.OrderDate
		}
	}
	return ds
}

type orderLine struct {
	sales.Row
	shipDate time.Time
}

func (g *SalesDataGenerator) generateLines() []orderLine {
	var lines []orderLine
	year := g.config.StartDate.Year()

	for i := 0; i < g.config.OrderCount; i++ {
		orderID := fmt.Sprintf("US-%d-%06d", year, 100000+i)
		orderDate := g.randomDateInRange(g.config.StartDate, g.config.EndDate)
		shipDate := orderDate.Add(time.Duration(1+g.rng.Intn(7)) * 24 * time.Hour)

		region := g.randomRegion()
		state := g.randomState(region)
		segment := g.randomSegment()
		shipMode := g.randomShipMode()

		lineCount := 1
		if g.config.MaxLinesPerOrder > 1 {
			lineCount = 1 + g.rng.Intn(g.config.MaxLinesPerOrder)
		}
		for l := 0; l < lineCount; l++ {
			category, subCategory := g.randomCategory()
			quantity := float64(1 + g.rng.Intn(5))
			unitPrice := g.unitPrice(subCategory)
			discount := g.randomDiscount()

			salesAmt := roundCents(unitPrice * quantity)
			margin := g.baseMargin(category) + g.rng.Float64()*0.10 - 1.8*discount
			profit := roundCents(salesAmt * margin)

			lines = append(lines, orderLine{
				Row: sales.Row{
					OrderID:     orderID,
					OrderDate:   core.DateOf(orderDate),
					Sales:       salesAmt,
					Profit:      profit,
					Discount:    discount,
					Quantity:    quantity,
					Region:      region,
					Category:    category,
					SubCategory: subCategory,
					State:       state,
					Segment:     segment,
					ShipMode:    shipMode,
					ProductName: g.productName(subCategory),
				},
				shipDate: shipDate,
			})
		}
	}
	return lines
}

func (g *SalesDataGenerator) headerName(canonical string) string {
	if alias, ok := g.config.HeaderAliases[canonical]; ok {
		return alias
	}
	return canonical
}

// amountCell renders a sales amount the way exports do: "$1,234.56" when
// currency cells are enabled, otherwise a plain decimal.
func (g *SalesDataGenerator) amountCell(v float64) string {
	plain := strconv.FormatFloat(v, 'f', 2, 64)
	if !g.config.CurrencyCells {
		return plain
	}

	intPart := plain
	fracPart := ""
	if dot := len(plain) - 3; dot > 0 && plain[dot] == '.' {
		intPart, fracPart = plain[:dot], plain[dot:]
	}
	var grouped []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}
	return "$" + string(grouped) + fracPart
}

func (g *SalesDataGenerator) randomDateInRange(start, end time.Time) time.Time {
	if start.After(end) {
		start, end = end, start
	}
	days := int(end.Sub(start).Hours()/24) + 1
	return start.AddDate(0, 0, g.rng.Intn(days))
}

func (g *SalesDataGenerator) randomRegion() string {
	regions := []string{"West", "East", "Central", "South"}
	weights := []float64{0.32, 0.28, 0.23, 0.17}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return regions[i]
		}
	}
	return regions[0]
}

func (g *SalesDataGenerator) randomState(region string) string {
	states := map[string][]string{
		"West":    {"California", "Washington", "Arizona", "Colorado"},
		"East":    {"New York", "Pennsylvania", "Ohio", "Massachusetts"},
		"Central": {"Texas", "Illinois", "Michigan", "Minnesota"},
		"South":   {"Florida", "Georgia", "Virginia", "Tennessee"},
	}
	pool, ok := states[region]
	if !ok {
		return "California"
	}
	return pool[g.rng.Intn(len(pool))]
}

func (g *SalesDataGenerator) randomSegment() string {
	segments := []string{"Consumer", "Corporate", "Home Office"}
	weights := []float64{0.52, 0.30, 0.18}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return segments[i]
		}
	}
	return segments[0]
}

func (g *SalesDataGenerator) randomShipMode() string {
	modes := []string{"Standard Class", "Second Class", "First Class", "Same Day"}
	weights := []float64{0.60, 0.20, 0.15, 0.05}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return modes[i]
		}
	}
	return modes[0]
}

var categoryCatalog = map[string][]string{
	"Furniture":       {"Chairs", "Tables", "Bookcases", "Furnishings"},
	"Office Supplies": {"Binders", "Paper", "Storage", "Appliances"},
	"Technology":      {"Phones", "Accessories", "Machines", "Copiers"},
}

func (g *SalesDataGenerator) randomCategory() (string, string) {
	categories := []string{"Office Supplies", "Furniture", "Technology"}
	weights := []float64{0.55, 0.25, 0.20}

	r := g.rng.Float64()
	cumulative := 0.0
	category := categories[0]
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			category = categories[i]
			break
		}
	}
	subs := categoryCatalog[category]
	return category, subs[g.rng.Intn(len(subs))]
}

func (g *SalesDataGenerator) unitPrice(subCategory string) float64 {
	base := map[string]float64{
		"Chairs": 180, "Tables": 320, "Bookcases": 140, "Furnishings": 45,
		"Binders": 12, "Paper": 8, "Storage": 60, "Appliances": 110,
		"Phones": 250, "Accessories": 35, "Machines": 900, "Copiers": 1600,
	}
	price, ok := base[subCategory]
	if !ok {
		price = 50
	}
	return price * (0.7 + g.rng.Float64()*0.6)
}

func (g *SalesDataGenerator) baseMargin(category string) float64 {
	margins := map[string]float64{
		"Furniture":       0.08,
		"Office Supplies": 0.22,
		"Technology":      0.17,
	}
	margin, ok := margins[category]
	if !ok {
		margin = 0.15
	}
	return margin
}

func (g *SalesDataGenerator) randomDiscount() float64 {
	discounts := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.7}
	weights := []float64{0.45, 0.10, 0.25, 0.08, 0.06, 0.04, 0.02}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return discounts[i]
		}
	}
	return 0
}

func (g *SalesDataGenerator) productName(subCategory string) string {
	brands := []string{"Acme", "Northwind", "Summit", "Pinnacle", "Harbor"}
	return fmt.Sprintf("%s %s %d", brands[g.rng.Intn(len(brands))], subCategory, 100+g.rng.Intn(900))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
