package ports

import (
	"context"

	"salescope/domain/sales"
)

// TableSource provides raw tabular data to the core. File-format adapters
// implement it; the engine and the reconciler consume it. Implementations
// must not retain or mutate the returned table after handing it over.
type TableSource interface {
	ReadTable(ctx context.Context) (*sales.RawTable, error)
}
