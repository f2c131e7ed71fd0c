// package tasks implements the spreadsheet pipeline stages: merge, reconcile and export.
//
// The core abstraction is Engine, which runs each stage over in-memory tables loaded by the workbook package.
// Long-running steps emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/markx/internal/services"
	"github.com/desertthunder/markx/internal/shared"
)

// Pipeline defines the stages that turn the two raw exports into per-category CSV files.
type Pipeline interface {
	// Merge rolls the status worksheets of in up into one worksheet per category and writes them to out.
	Merge(ctx context.Context, in, out string) (*MergeResult, error)

	// Reconcile copies the transferable fields of secondary onto primary by key and writes the result to out.
	Reconcile(ctx context.Context, primary, secondary, out string) (*ReconcileResult, error)

	// Export filters, cleans, enriches and writes every category worksheet of in as CSV.
	Export(ctx context.Context, in string, cutoff time.Time, progress chan<- ProgressUpdate) (*ExportResult, error)
}

// EngineOpts configures an [Engine].
type EngineOpts struct {
	OutputDir    string  // Directory for exported CSV files (default: ".")
	OutputPrefix string  // CSV file name prefix (default: "zout_final_")
	Workers      int     // Concurrent cover fetches (default: 10)
	RateLimit    float64 // Cover requests per second, 0 for unlimited
}

// Engine implements [Pipeline].
type Engine struct {
	covers services.CoverFetcher
	logger *log.Logger
	opts   EngineOpts
}

// CategoryError records a category that failed or was skipped during a stage.
type CategoryError struct {
	Category string
	Err      error
}

func (c CategoryError) Error() string { return c.Category + ": " + c.Err.Error() }

func (c CategoryError) Unwrap() error { return c.Err }

// NewEngine creates a new Engine with the provided cover fetcher.
func NewEngine(covers services.CoverFetcher, logger *log.Logger, opts EngineOpts) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.OutputPrefix == "" {
		opts.OutputPrefix = "zout_final_"
	}
	if opts.Workers <= 0 {
		opts.Workers = 10
	}
	if opts.RateLimit < 0 {
		opts.RateLimit = 0
	}

	return &Engine{covers: covers, logger: logger, opts: opts}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
