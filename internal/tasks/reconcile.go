package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
	"github.com/desertthunder/markx/internal/workbook"
)

// ReconcileResult summarizes one reconcile run.
type ReconcileResult struct {
	Primary    string
	Secondary  string
	Output     string
	Categories []ReconciledCategory // Categories written, in category order
	Skipped    []CategoryError      // Categories skipped because a table was empty or failed
}

// ReconciledCategory is one output worksheet of a reconcile.
type ReconciledCategory struct {
	Name    string
	Rows    int
	Fields  []string // Transferable fields found in the secondary table
	Matched int      // Primary rows whose key was found in the secondary table
}

// ErrEmptyTable marks a category skipped because one side had no rows or no columns.
var ErrEmptyTable = errors.New("empty table")

// Reconcile reads both merged workbooks, fills the transferable fields of every primary category
// from the secondary one and writes the result to out.
//
// Both inputs must load. A category that fails is logged and skipped; if no category survives,
// [shared.ErrNothingToWrite] is returned.
func (e *Engine) Reconcile(ctx context.Context, primary, secondary, out string) (*ReconcileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pwb, err := workbook.Read(primary)
	if err != nil {
		return nil, err
	}
	swb, err := workbook.Read(secondary)
	if err != nil {
		return nil, err
	}

	reconciled, result := e.ReconcileWorkbooks(pwb, swb)
	result.Primary, result.Secondary, result.Output = primary, secondary, out

	if reconciled.Len() == 0 {
		return result, fmt.Errorf("%w: no category could be reconciled", shared.ErrNothingToWrite)
	}
	if err := workbook.Write(out, reconciled); err != nil {
		return result, err
	}

	e.logger.Info("reconciled workbooks", "primary", primary, "secondary", secondary, "out", out)
	return result, nil
}

// ReconcileWorkbooks reconciles every category present in both workbooks. Input tables are not modified.
func (e *Engine) ReconcileWorkbooks(primary, secondary *models.Workbook) (*models.Workbook, *ReconcileResult) {
	result := &ReconcileResult{}
	out := models.NewWorkbook()

	for _, c := range models.Categories() {
		logger := shared.WithCategory(e.logger, c.Name)

		p := sheetOrEmpty(primary, c.Name)
		s := sheetOrEmpty(secondary, c.Name)
		if p.Empty() || s.Empty() {
			logger.Info("skipping category", "reason", "empty table", "primary_rows", p.Len(), "secondary_rows", s.Len())
			result.Skipped = append(result.Skipped, CategoryError{Category: c.Name, Err: ErrEmptyTable})
			continue
		}

		table, summary, err := ReconcileTable(p, s)
		if err != nil {
			logger.Error("failed to reconcile category", "error", err)
			result.Skipped = append(result.Skipped, CategoryError{Category: c.Name, Err: err})
			continue
		}

		out.Add(table)
		result.Categories = append(result.Categories, summary)
		logger.Debug("reconciled category", "rows", summary.Rows, "matched", summary.Matched, "fields", summary.Fields)
	}

	return out, result
}

// ReconcileTable returns a copy of primary with every [models.TransferFields] column present in
// secondary set by key lookup. Keys are trimmed text; rows whose key is null or unknown get a null
// value. With duplicate secondary keys the last row wins.
func ReconcileTable(primary, secondary *models.Table) (*models.Table, ReconciledCategory, error) {
	summary := ReconciledCategory{Name: primary.Name}

	if !primary.Has(models.ColumnKey) {
		return nil, summary, fmt.Errorf("%w: %s in primary table", shared.ErrMissingColumn, models.ColumnKey)
	}
	if !secondary.Has(models.ColumnKey) {
		return nil, summary, fmt.Errorf("%w: %s in secondary table", shared.ErrMissingColumn, models.ColumnKey)
	}

	p := primary.Clone()
	p.Update(models.ColumnKey, normalizeKey)
	pkeys, _ := p.Column(models.ColumnKey)

	skeys, _ := secondary.Column(models.ColumnKey)
	for i, k := range skeys {
		skeys[i] = normalizeKey(k)
	}

	index := make(map[string]int, len(skeys))
	for i, k := range skeys {
		if k.Valid {
			index[k.Value] = i
		}
	}

	for _, field := range models.TransferFields {
		values, ok := secondary.Column(field)
		if !ok {
			continue
		}

		cells := make([]models.Cell, p.Len())
		for i, k := range pkeys {
			if !k.Valid {
				continue
			}
			if j, found := index[k.Value]; found {
				cells[i] = values[j]
			}
		}
		if err := p.Set(field, cells); err != nil {
			return nil, summary, err
		}
		summary.Fields = append(summary.Fields, field)
	}

	for _, k := range pkeys {
		if _, found := index[k.Value]; k.Valid && found {
			summary.Matched++
		}
	}
	summary.Rows = p.Len()
	return p, summary, nil
}

// normalizeKey coerces a key cell to trimmed text. Blank keys become null.
func normalizeKey(c models.Cell) models.Cell {
	if !c.Valid {
		return c
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return models.Cell{}
	}
	return models.Text(v)
}

func sheetOrEmpty(wb *models.Workbook, name string) *models.Table {
	if t, ok := wb.Sheet(name); ok {
		return t
	}
	return models.NewTable(name)
}
