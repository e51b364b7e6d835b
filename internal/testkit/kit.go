package testkit

import (
	"time"

	"salescope/domain/core"
	"salescope/domain/sales"
)

// TestKit bundles deterministic fixtures for package tests: a seeded
// generator plus hand-built dataset helpers for exact-arithmetic cases.
type TestKit struct {
	Generator *SalesDataGenerator
}

// NewTestKit creates a kit with the default generator configuration.
func NewTestKit() *TestKit {
	return NewTestKitWithConfig(DefaultSalesConfig())
}

// NewTestKitWithConfig creates a kit with a custom generator configuration.
func NewTestKitWithConfig(config SalesGeneratorConfig) *TestKit {
	return &TestKit{Generator: NewSalesDataGenerator(config)}
}

// RawTable returns a fresh raw string table from the kit's generator.
func (k *TestKit) RawTable() *sales.RawTable {
	return k.Generator.GenerateRawTable()
}

// Dataset returns a fresh typed dataset from the kit's generator.
func (k *TestKit) Dataset() *sales.Dataset {
	return k.Generator.GenerateDataset()
}

// FixedDataset builds a dataset directly from hand-written rows, for tests
// that assert exact KPI arithmetic.
func FixedDataset(rows ...sales.Row) *sales.Dataset {
	ds := &sales.Dataset{
		ID:      core.NewID(),
		Columns: append([]string(nil), rawHeaders...),
		Rows:    rows,
	}
	for _, row := range rows {
		if ds.MinDate.IsZero() || row.OrderDate.Before(ds.MinDate) {
			ds.MinDate = row.OrderDate
		}
		if ds.MaxDate.IsZero() || row.OrderDate.After(ds.MaxDate) {
			ds.MaxDate = row.OrderDate
		}
	}
	return ds
}

// Row builds a sales row with the fields most tests vary; the categorical
// fields default to common superstore values.
func Row(orderID string, date core.Date, salesAmt, profit, discount float64) sales.Row {
	return sales.Row{
		OrderID:     orderID,
		OrderDate:   date,
		Sales:       salesAmt,
		Profit:      profit,
		Discount:    discount,
		Quantity:    1,
		Region:      "West",
		Category:    "Furniture",
		SubCategory: "Chairs",
		State:       "California",
		Segment:     "Consumer",
		ShipMode:    "Standard Class",
		ProductName: "Acme Chairs 100",
	}
}

// Day is shorthand for building a date in fixtures.
func Day(year int, month time.Month, day int) core.Date {
	return core.NewDate(year, month, day)
}
