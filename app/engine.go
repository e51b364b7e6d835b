package app

import (
	"context"
	"fmt"
	"time"

	"salescope/adapters/tabular"
	"salescope/domain/core"
	"salescope/domain/sales"
	"salescope/internal"
	"salescope/internal/compare"
	"salescope/internal/insights"
	"salescope/internal/reconcile"
	"salescope/ports"
)

// Engine wires ingestion, reconciliation, comparison, and insight analysis
// into one entry point. Datasets it returns are read-only snapshots, so a
// single loaded dataset can serve many comparisons and reports concurrently.
type Engine struct {
	config     EngineConfig
	reconciler *reconcile.Reconciler
	comparator *compare.Comparator
	analyzer   *insights.Analyzer
	log        *internal.Logger
}

// EngineConfig aggregates the configuration of every engine stage.
type EngineConfig struct {
	Reader    tabular.ReaderConfig `json:"reader"`
	Reconcile reconcile.Config     `json:"reconcile"`
	Insights  insights.Config      `json:"insights"`
}

// DefaultEngineConfig returns the stock configuration for superstore-style
// exports: latin-1 CSV input, canonical column schema, standard thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Reader:    tabular.DefaultReaderConfig(),
		Reconcile: reconcile.DefaultConfig(),
		Insights:  insights.DefaultConfig(),
	}
}

// NewEngine creates an engine from the given configuration.
func NewEngine(config EngineConfig) *Engine {
	return &Engine{
		config:     config,
		reconciler: reconcile.New(config.Reconcile),
		comparator: compare.New(),
		analyzer:   insights.New(config.Insights),
		log:        internal.DefaultLogger.WithComponent("engine"),
	}
}

// LoadDataset reads a raw table from the source and reconciles it against
// the canonical schema. The mapping assigns raw column names to the required
// logical columns the source is missing; pass nil when the source already
// carries every required column.
func (e *Engine) LoadDataset(ctx context.Context, src ports.TableSource, mapping sales.ColumnMapping) (*sales.Dataset, error) {
	startTime := time.Now()

	table, err := src.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("table read failed: %w", err)
	}

	ds, err := e.reconciler.Reconcile(table, mapping)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}

	e.log.Info("dataset %s loaded: %d rows, %d dropped, %dms",
		ds.ID, ds.RowCount(), ds.DroppedRows, time.Since(startTime).Milliseconds())
	return ds, nil
}

// LoadDatasetFromFile loads path with the engine's reader configuration,
// picking the CSV or Excel adapter from the file extension.
func (e *Engine) LoadDatasetFromFile(ctx context.Context, path string, mapping sales.ColumnMapping) (*sales.Dataset, error) {
	cfg := e.config.Reader
	cfg.Path = path
	return e.LoadDataset(ctx, tabular.NewReader(cfg), mapping)
}

// ComparePeriods computes KPI deltas between [start, end] and the equal
// window immediately before it, with the same filters on both.
func (e *Engine) ComparePeriods(ds *sales.Dataset, start, end core.Date, filters sales.Filters) (*compare.Result, error) {
	return e.comparator.Compare(ds, start, end, filters)
}

// Report builds the full diagnostic report for the filtered dataset.
func (e *Engine) Report(ctx context.Context, ds *sales.Dataset, filters sales.Filters) (*insights.Report, error) {
	return e.analyzer.BuildReport(ctx, ds, filters)
}
