package reconcile

import (
	"salescope/domain/core"
	"salescope/domain/sales"
	"salescope/internal"
)

// Reconciler aligns a raw table to the canonical sales schema: verifies
// required columns (applying a caller-supplied rename mapping when the raw
// schema does not match), coerces numeric columns, and parses the date
// column.
//
// Failure policy is asymmetric on purpose: column-level structural problems
// (unfinished mapping, collisions, any unparseable numeric cell, a date
// column that never parses) fail the whole attempt with no partial result,
// while row-level date failures drop just those rows and continue.
type Reconciler struct {
	config Config
	log    *internal.Logger
}

// New creates a reconciler with the given rules
func New(config Config) *Reconciler {
	return &Reconciler{
		config: config,
		log:    internal.DefaultLogger.WithComponent("reconcile"),
	}
}

// Reconcile validates and cleans a raw table into a Dataset. The input
// table is never mutated; the mapping is only consulted for columns the
// table is missing. Calling it again on already-clean data yields an
// equivalent dataset.
func (r *Reconciler) Reconcile(raw *sales.RawTable, mapping sales.ColumnMapping) (*sales.Dataset, error) {
	missing := r.missingColumns(raw)

	table := raw
	if len(missing) > 0 {
		if err := r.validateMapping(missing, mapping, raw); err != nil {
			return nil, err
		}
		table = applyMapping(raw, mapping)

		// Re-validate: renaming can consume a column another requirement
		// needed (mapping "Profit" onto a raw column named "Sales" leaves
		// no "Sales" behind).
		if still := r.missingColumns(table); len(still) > 0 {
			return nil, sales.NewIncompleteMappingError(still[0])
		}
	}

	numeric, err := r.coerceNumericColumns(table)
	if err != nil {
		return nil, err
	}

	dates, kept, dropped, err := r.parseDateColumn(table)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		r.log.Warn("dropped %d of %d rows with unparseable %q values",
			dropped, table.RowCount(), r.config.DateColumn)
	}

	ds := r.buildDataset(table, numeric, dates, kept)
	ds.DroppedRows = dropped
	r.log.Info("reconciled %d rows (%d columns, %d dropped)",
		ds.RowCount(), len(ds.Columns), dropped)
	return ds, nil
}

// missingColumns returns the required columns absent from the table, in
// required order so error reporting is deterministic.
func (r *Reconciler) missingColumns(table *sales.RawTable) []string {
	present := table.ColumnSet()
	var missing []string
	for _, col := range r.config.RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// validateMapping enforces the two mapping rules before any rename runs:
// every missing required column must be assigned to an existing raw column,
// and no raw column may be claimed by two required columns.
func (r *Reconciler) validateMapping(missing []string, mapping sales.ColumnMapping, raw *sales.RawTable) error {
	present := raw.ColumnSet()

	for _, col := range missing {
		target, ok := mapping[col]
		if !ok || target == "" {
			return sales.NewIncompleteMappingError(col)
		}
		if _, exists := present[target]; !exists {
			return sales.NewIncompleteMappingError(col)
		}
	}

	claimed := make(map[string]string, len(mapping))
	for _, col := range r.config.RequiredColumns {
		target, ok := mapping[col]
		if !ok || target == "" {
			continue
		}
		if first, dup := claimed[target]; dup {
			return sales.NewColumnCollisionError(target, first, col)
		}
		claimed[target] = col
	}
	return nil
}

// applyMapping renames raw columns to their logical names, returning a new
// table and leaving the input untouched.
func applyMapping(raw *sales.RawTable, mapping sales.ColumnMapping) *sales.RawTable {
	rename := make(map[string]string, len(mapping))
	for logical, rawName := range mapping {
		rename[rawName] = logical
	}

	headers := make([]string, len(raw.Headers))
	for i, h := range raw.Headers {
		if logical, ok := rename[h]; ok {
			headers[i] = logical
		} else {
			headers[i] = h
		}
	}

	rows := make([]map[string]string, len(raw.Rows))
	for i, row := range raw.Rows {
		newRow := make(map[string]string, len(row))
		for k, v := range row {
			if logical, ok := rename[k]; ok {
				newRow[logical] = v
			} else {
				newRow[k] = v
			}
		}
		rows[i] = newRow
	}

	return &sales.RawTable{Headers: headers, Rows: rows}
}

// coerceNumericColumns parses every configured numeric column. Any cell in
// any numeric column that fails to parse fails the whole attempt: this is a
// validation gate, and zero-filling here would silently corrupt every KPI
// computed downstream. Numeric columns outside the required set are coerced
// only when the table actually has them.
func (r *Reconciler) coerceNumericColumns(table *sales.RawTable) (map[string][]float64, error) {
	required := make(map[string]struct{}, len(r.config.RequiredColumns))
	for _, col := range r.config.RequiredColumns {
		required[col] = struct{}{}
	}

	numeric := make(map[string][]float64, len(r.config.NumericColumns))
	for _, col := range r.config.NumericColumns {
		if !table.HasColumn(col) {
			if _, req := required[col]; !req {
				continue
			}
			// Required numeric columns exist by the time we get here;
			// a custom config naming an absent one reads as all-invalid.
			return nil, sales.NewInvalidNumericDataError(col, 0, "")
		}

		values := make([]float64, len(table.Rows))
		for i, row := range table.Rows {
			val, err := ParseNumeric(row[col], r.config.CurrencySymbols)
			if err != nil {
				r.log.Debug("numeric gate failed: column %q row %d value %q", col, i, row[col])
				return nil, sales.NewInvalidNumericDataError(col, i, row[col])
			}
			values[i] = val
		}
		numeric[col] = values
	}
	return numeric, nil
}

// parseDateColumn parses the date column. A column where no value parses is
// a structural failure; individual unparseable rows are dropped.
func (r *Reconciler) parseDateColumn(table *sales.RawTable) ([]core.Date, []bool, int, error) {
	dates := make([]core.Date, len(table.Rows))
	kept := make([]bool, len(table.Rows))
	parsedAny := false
	dropped := 0

	for i, row := range table.Rows {
		d, err := ParseDate(row[r.config.DateColumn], r.config.DateFormats)
		if err != nil {
			dropped++
			continue
		}
		dates[i] = d
		kept[i] = true
		parsedAny = true
	}

	if !parsedAny {
		return nil, nil, 0, sales.NewUnparseableDateColumnError(r.config.DateColumn)
	}
	return dates, kept, dropped, nil
}

// canonicalColumns are the columns stored as typed Row fields. Everything
// else a table carries passes through untouched in Row.Extra.
var canonicalColumns = map[string]struct{}{
	sales.ColOrderID:     {},
	sales.ColOrderDate:   {},
	sales.ColSales:       {},
	sales.ColProfit:      {},
	sales.ColDiscount:    {},
	sales.ColQuantity:    {},
	sales.ColRegion:      {},
	sales.ColCategory:    {},
	sales.ColSubCategory: {},
	sales.ColState:       {},
	sales.ColSegment:     {},
	sales.ColShipMode:    {},
	sales.ColProductName: {},
}

// buildDataset assembles the cleaned rows in input order
func (r *Reconciler) buildDataset(table *sales.RawTable, numeric map[string][]float64, dates []core.Date, kept []bool) *sales.Dataset {
	var passthrough []string
	for _, h := range table.Headers {
		if _, canonical := canonicalColumns[h]; !canonical && h != r.config.DateColumn {
			passthrough = append(passthrough, h)
		}
	}

	var minDate, maxDate core.Date
	rows := make([]sales.Row, 0, len(table.Rows))
	for i, rawRow := range table.Rows {
		if !kept[i] {
			continue
		}

		row := sales.Row{
			OrderID:     rawRow[sales.ColOrderID],
			OrderDate:   dates[i],
			Region:      rawRow[sales.ColRegion],
			Category:    rawRow[sales.ColCategory],
			SubCategory: rawRow[sales.ColSubCategory],
			State:       rawRow[sales.ColState],
			Segment:     rawRow[sales.ColSegment],
			ShipMode:    rawRow[sales.ColShipMode],
			ProductName: rawRow[sales.ColProductName],
		}
		if vals, ok := numeric[sales.ColSales]; ok {
			row.Sales = vals[i]
		}
		if vals, ok := numeric[sales.ColProfit]; ok {
			row.Profit = vals[i]
		}
		if vals, ok := numeric[sales.ColDiscount]; ok {
			row.Discount = vals[i]
		}
		if vals, ok := numeric[sales.ColQuantity]; ok {
			row.Quantity = vals[i]
		}

		for _, h := range passthrough {
			v, ok := rawRow[h]
			if !ok {
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string, len(passthrough))
			}
			row.Extra[h] = v
		}

		if minDate.IsZero() || dates[i].Before(minDate) {
			minDate = dates[i]
		}
		if maxDate.IsZero() || dates[i].After(maxDate) {
			maxDate = dates[i]
		}
		rows = append(rows, row)
	}

	columns := make([]string, len(table.Headers))
	copy(columns, table.Headers)

	return &sales.Dataset{
		ID:      core.NewID(),
		Columns: columns,
		Rows:    rows,
		MinDate: minDate,
		MaxDate: maxDate,
	}
}
