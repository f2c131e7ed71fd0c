package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/desertthunder/markx/internal/formatter"
	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
	"github.com/desertthunder/markx/internal/workbook"
)

// ExportResult summarizes one export run.
type ExportResult struct {
	Input   string
	Cutoff  time.Time
	Exports []CategoryExport // One entry per category worksheet found, in category order
}

// CategoryExport is the outcome of exporting one category.
type CategoryExport struct {
	Category      string
	Rows          int    // Rows written after the date filter
	CoversFound   int    // Rows with a cover URL
	CoversMissing int    // Rows without a cover URL
	File          string // CSV path, empty when the category failed
	FilterErr     error  // Why the date filter was skipped, nil when it ran
	Warnings      []error
	Err           error
}

// Succeeded returns the exports that produced a CSV file.
func (r *ExportResult) Succeeded() []CategoryExport {
	var out []CategoryExport
	for _, e := range r.Exports {
		if e.Err == nil {
			out = append(out, e)
		}
	}
	return out
}

// Errors returns the per-category failures.
func (r *ExportResult) Errors() []CategoryError {
	var out []CategoryError
	for _, e := range r.Exports {
		if e.Err != nil {
			out = append(out, CategoryError{Category: e.Category, Err: e.Err})
		}
	}
	return out
}

// Export reads the reconciled workbook at in and writes one CSV per category worksheet.
//
// Only a load failure of in is returned as an error. Failures inside a category are logged,
// recorded on its [CategoryExport] and do not stop the remaining categories.
func (e *Engine) Export(ctx context.Context, in string, cutoff time.Time, progress chan<- ProgressUpdate) (*ExportResult, error) {
	wb, err := workbook.Read(in)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{Input: in, Cutoff: cutoff}

	var present []models.Category
	for _, c := range models.Categories() {
		if _, ok := wb.Sheet(c.Name); ok {
			present = append(present, c)
		} else {
			e.logger.Debug("no worksheet for category", "category", c.Name)
		}
	}

	for i, c := range present {
		sheet, _ := wb.Sheet(c.Name)
		step, total := i+1, len(present)
		e.sendProgress(progress, exportingCategoryUpdate(step, total, c.Name, sheet.Len()))

		export := e.ExportCategory(ctx, c, sheet, cutoff, progress)
		result.Exports = append(result.Exports, export)

		if export.Err != nil {
			shared.WithCategory(e.logger, c.Name).Error("failed to export category", "error", export.Err)
			e.sendProgress(progress, exportFailedUpdate(step, total, c.Name, export.Err))
			continue
		}
		e.sendProgress(progress, csvWrittenUpdate(step, total, export))
	}

	return result, nil
}

// ExportCategory runs the export steps on a copy of table and writes the CSV:
// date filter, text cleanup, description split, cover lookup.
func (e *Engine) ExportCategory(ctx context.Context, c models.Category, table *models.Table, cutoff time.Time, progress chan<- ProgressUpdate) CategoryExport {
	export := CategoryExport{Category: c.Name}
	logger := shared.WithCategory(e.logger, c.Name)

	filtered, err := formatter.FilterSince(table.Clone(), cutoff)
	if err != nil {
		logger.Warn("skipping date filter", "error", err)
		export.FilterErr = err
		export.Warnings = append(export.Warnings, err)
	} else {
		e.sendProgress(progress, filteredRowsUpdate(c.Name, filtered.Len(), table.Len()))
	}

	formatter.SanitizeTable(filtered)

	if err := formatter.SplitTable(filtered, c.Fields); err != nil {
		if !errors.Is(err, shared.ErrMissingColumn) {
			export.Err = err
			return export
		}
		logger.Warn("description column missing, structured fields left empty", "error", err)
		export.Warnings = append(export.Warnings, err)
	}

	links, ok := filtered.Column(models.ColumnNeoDBLink)
	if !ok {
		err := fmt.Errorf("%w: %s", shared.ErrMissingColumn, models.ColumnNeoDBLink)
		logger.Warn("catalog link column missing, covers left empty", "error", err)
		export.Warnings = append(export.Warnings, err)
		links = make([]models.Cell, filtered.Len())
	}

	covers := e.FetchCovers(ctx, c.Name, links, progress)
	if err := filtered.Set(models.ColumnCover, covers); err != nil {
		export.Err = err
		return export
	}
	for _, cover := range covers {
		if cover.Valid {
			export.CoversFound++
		} else {
			export.CoversMissing++
		}
	}

	path := filepath.Join(e.opts.OutputDir, c.FileName(e.opts.OutputPrefix))
	if err := formatter.WriteCSV(filtered, path); err != nil {
		export.Err = err
		return export
	}

	export.Rows = filtered.Len()
	export.File = path
	logger.Info("exported category", "file", path, "rows", export.Rows, "covers", export.CoversFound)
	return export
}
