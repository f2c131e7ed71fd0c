// Package workbook reads and writes multi-worksheet xlsx files as [models.Workbook] values.
//
// The first row of every worksheet is the header. Empty cells become null cells and null cells are
// left unwritten, so a read after a write returns the same tables.
package workbook

import (
	"fmt"
	"strconv"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Read loads every worksheet of the xlsx file at path, in workbook order.
func Read(path string) (*models.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrMissingInput, path, err)
	}
	defer f.Close()

	wb := models.NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read worksheet %q in %s: %w", name, path, err)
		}
		wb.Add(toTable(name, rows))
	}
	return wb, nil
}

// toTable converts raw rows (header first) into a table. Blank rows are skipped.
func toTable(name string, rows [][]string) *models.Table {
	if len(rows) == 0 {
		return models.NewTable(name)
	}

	header := headerNames(rows[0])
	table := models.NewTable(name, header...)
	for _, raw := range rows[1:] {
		values := make(map[string]models.Cell, len(header))
		for i, v := range raw {
			if i >= len(header) || v == "" {
				continue
			}
			values[header[i]] = models.Text(v)
		}
		if len(values) == 0 {
			continue
		}
		table.AppendRow(values)
	}
	return table
}

// headerNames names blank header cells "Unnamed: i" and suffixes repeated names with ".n".
func headerNames(raw []string) []string {
	seen := make(map[string]int, len(raw))
	names := make([]string, len(raw))
	for i, name := range raw {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// Write saves the workbook to path, one worksheet per table in order.
func Write(path string, wb *models.Workbook) error {
	if wb == nil || wb.Len() == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNothingToWrite, path)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range wb.Sheets() {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, table.Name); err != nil {
				return fmt.Errorf("failed to name worksheet %q: %w", table.Name, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("failed to create worksheet %q: %w", table.Name, err)
		}

		if err := writeTable(f, table); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, table *models.Table) error {
	for col, name := range table.Columns() {
		if err := setCell(f, table.Name, col+1, 1, name); err != nil {
			return err
		}
	}

	for row := 0; row < table.Len(); row++ {
		for col, cell := range table.Row(row) {
			if !cell.Valid {
				continue
			}
			if err := setCell(f, table.Name, col+1, row+2, cell.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates (%d, %d): %w", col, row, err)
	}
	if err := f.SetCellStr(sheet, ref, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, ref, err)
	}
	return nil
}
