package engine

import (
	"context"

	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/datasource"
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
)

// Lifecycle callback types for backtest phases.
// Callbacks with an error return can abort the run by returning an error.

// OnRunStartCallback is called once before the first bar is processed.
// runID is a unique identifier generated for this run.
type OnRunStartCallback func(runID string, symbol string, totalBars int) error

// OnProcessBarCallback is called for each bar processed.
type OnProcessBarCallback func(current int, total int) error

// OnRunEndCallback is called with the finished report (always called via
// defer when the run started successfully).
type OnRunEndCallback func(report types.BacktestReport)

// LifecycleCallbacks holds all lifecycle callback functions for the backtest
// engine. All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart   *OnRunStartCallback
	OnProcessBar *OnProcessBarCallback
	OnRunEnd     *OnRunEndCallback
}

type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetDataSource sets the price-data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// LoadStrategy loads a validated strategy graph.
	LoadStrategy(graph *strategy.Graph) error
	// LoadStrategyFromFile loads a strategy document from a JSON or YAML file.
	LoadStrategyFromFile(path string) error
	// SetResultsFolder sets the output directory for the run report. Leave
	// unset to skip writing a report file.
	SetResultsFolder(folder string) error
	// Run executes the backtest. The context can be used to cancel the run.
	Run(ctx context.Context, callbacks LifecycleCallbacks) error
	// Report returns the report of the last completed run.
	Report() (types.BacktestReport, error)
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
