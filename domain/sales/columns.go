package sales

// Canonical column names for the sales transaction schema.
// Raw inputs are reconciled onto these names before any derivation runs.
const (
	ColOrderDate   = "Order Date"
	ColSales       = "Sales"
	ColProfit      = "Profit"
	ColDiscount    = "Discount"
	ColRegion      = "Region"
	ColCategory    = "Category"
	ColSubCategory = "Sub-Category"
	ColState       = "State"
	ColOrderID     = "Order ID"

	// Passthrough columns: recognized but not validated by reconciliation.
	ColSegment     = "Segment"
	ColShipMode    = "Ship Mode"
	ColProductName = "Product Name"
	ColQuantity    = "Quantity"
	ColShipDate    = "Ship Date"
)

// DefaultRequiredColumns returns the canonical columns every dataset must
// provide, directly or through a rename mapping.
func DefaultRequiredColumns() []string {
	return []string{
		ColOrderDate,
		ColSales,
		ColProfit,
		ColDiscount,
		ColRegion,
		ColCategory,
		ColSubCategory,
		ColState,
		ColOrderID,
	}
}

// DefaultNumericColumns returns the columns coerced to decimal values.
// Quantity is optional: coerced when present, never demanded.
func DefaultNumericColumns() []string {
	return []string{ColSales, ColProfit, ColDiscount, ColQuantity}
}

// DefaultDateColumn returns the column parsed as the transaction date.
func DefaultDateColumn() string {
	return ColOrderDate
}
