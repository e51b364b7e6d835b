package sales

import (
	"salescope/domain/core"
)

// Row is one sales transaction line. Many rows may share one order ID.
// After a successful reconciliation every Row carries a parseable date and
// numeric sales/profit/discount values.
type Row struct {
	OrderID     string    `json:"order_id"`
	OrderDate   core.Date `json:"order_date"`
	Sales       float64   `json:"sales"`
	Profit      float64   `json:"profit"`
	Discount    float64   `json:"discount"`
	Quantity    float64   `json:"quantity"`
	Region      string    `json:"region"`
	Category    string    `json:"category"`
	SubCategory string    `json:"sub_category"`
	State       string    `json:"state"`
	Segment     string    `json:"segment"`
	ShipMode    string    `json:"ship_mode"`
	ProductName string    `json:"product_name"`

	// Extra holds passthrough columns outside the canonical set, untouched.
	Extra map[string]string `json:"extra,omitempty"`
}

// Field returns the row's string value for a categorical column by its
// canonical name. Unknown names fall back to the passthrough columns.
func (r Row) Field(column string) (string, bool) {
	switch column {
	case ColOrderID:
		return r.OrderID, true
	case ColRegion:
		return r.Region, true
	case ColCategory:
		return r.Category, true
	case ColSubCategory:
		return r.SubCategory, true
	case ColState:
		return r.State, true
	case ColSegment:
		return r.Segment, true
	case ColShipMode:
		return r.ShipMode, true
	case ColProductName:
		return r.ProductName, true
	}
	v, ok := r.Extra[column]
	return v, ok
}

// RawTable is a pre-reconciliation table: header names plus rows of cell
// text keyed by header. File adapters produce it; the reconciler consumes it.
type RawTable struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// HasColumn checks whether a header is present
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ColumnSet returns the headers as a set
func (t *RawTable) ColumnSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Headers))
	for _, h := range t.Headers {
		set[h] = struct{}{}
	}
	return set
}

// RowCount returns the number of data rows
func (t *RawTable) RowCount() int {
	return len(t.Rows)
}

// Dataset is a cleaned, ordered collection of rows sharing the canonical
// schema. Treat it as read-only: derivations return new values and never
// mutate the rows in place.
type Dataset struct {
	ID      core.ID  `json:"id"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`

	// DroppedRows counts rows lost to row-level date parse failures.
	DroppedRows int       `json:"dropped_rows"`
	MinDate     core.Date `json:"min_date"`
	MaxDate     core.Date `json:"max_date"`
}

// RowCount returns the number of cleaned rows
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// Select returns the rows matching the given categorical filters.
func (d *Dataset) Select(filters Filters) []Row {
	if len(filters) == 0 {
		out := make([]Row, len(d.Rows))
		copy(out, d.Rows)
		return out
	}
	var out []Row
	for _, row := range d.Rows {
		if filters.Match(row) {
			out = append(out, row)
		}
	}
	return out
}

// SelectPeriod returns the rows whose date falls inside the period and
// which match the categorical filters.
func (d *Dataset) SelectPeriod(p Period, filters Filters) []Row {
	var out []Row
	for _, row := range d.Rows {
		if !p.Contains(row.OrderDate) {
			continue
		}
		if !filters.Match(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// ColumnMapping maps required logical column names to the raw column names
// actually present in an input table. Built by the caller when the raw
// schema does not match; must cover every missing required column 1:1
// before reconciliation will apply it.
type ColumnMapping map[string]string

// Filters restricts rows by categorical column values: column name to the
// set of allowed values. An empty Filters matches every row; a column with
// an empty allowed set matches none.
type Filters map[string][]string

// Match reports whether the row satisfies every filtered column
func (f Filters) Match(row Row) bool {
	for column, allowed := range f {
		value, ok := row.Field(column)
		if !ok {
			return false
		}
		found := false
		for _, a := range allowed {
			if value == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
