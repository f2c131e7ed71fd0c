package tasks

import (
	"context"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/workbook"
)

// MergeResult summarizes one merge run.
type MergeResult struct {
	Input      string
	Output     string
	Categories []MergedCategory // Categories written, in category order
	Ignored    []string         // Worksheets that match no status
}

// MergedCategory is one output worksheet of a merge.
type MergedCategory struct {
	Name     string
	Statuses []string // Status worksheets that were stacked, in order
	Rows     int
}

// Merge reads in, rolls status worksheets up into categories and writes the result to out.
//
// A missing or unreadable input is fatal. When no status worksheet is present the output cannot be
// written and [shared.ErrNothingToWrite] is returned.
func (e *Engine) Merge(ctx context.Context, in, out string) (*MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := workbook.Read(in)
	if err != nil {
		return nil, err
	}

	merged, result := e.MergeWorkbook(src)
	result.Input, result.Output = in, out

	if err := workbook.Write(out, merged); err != nil {
		return result, err
	}

	e.logger.Info("merged workbook", "in", in, "out", out, "categories", len(result.Categories))
	return result, nil
}

// MergeWorkbook tags every status worksheet with a [models.ColumnStatus] column and stacks the
// worksheets of each category in status order. Categories without any status worksheet are omitted.
func (e *Engine) MergeWorkbook(src *models.Workbook) (*models.Workbook, *MergeResult) {
	result := &MergeResult{}

	for _, name := range src.Names() {
		if _, ok := models.CategoryForStatus(name); !ok {
			e.logger.Debug("ignoring worksheet", "sheet", name)
			result.Ignored = append(result.Ignored, name)
		}
	}

	out := models.NewWorkbook()
	for _, c := range models.Categories() {
		var stacked *models.Table
		var statuses []string

		for _, status := range c.Statuses {
			sheet, ok := src.Sheet(status)
			if !ok {
				continue
			}

			tagged := sheet.Clone()
			tagged.Fill(models.ColumnStatus, models.Text(status))
			statuses = append(statuses, status)

			if stacked == nil {
				stacked = tagged
				stacked.Name = c.Name
				continue
			}
			stacked.Append(tagged)
		}

		if stacked == nil {
			e.logger.Debug("no worksheets for category", "category", c.Name)
			continue
		}

		out.Add(stacked)
		result.Categories = append(result.Categories, MergedCategory{
			Name:     c.Name,
			Statuses: statuses,
			Rows:     stacked.Len(),
		})
	}

	return out, result
}
