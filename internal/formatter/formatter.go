// package formatter shapes exported tables (date filter, text cleanup, description split) and writes them as CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Sanitize removes every rune that is neither ASCII (U+0000–U+007F) nor a CJK Unified Ideograph (U+4E00–U+9FFF).
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= 0x7F || (r >= 0x4E00 && r <= 0x9FFF) {
			return r
		}
		return -1
	}, s)
}

// SanitizeTable applies [Sanitize] to every non-null cell of the table.
func SanitizeTable(t *models.Table) {
	for _, col := range t.Columns() {
		t.Update(col, func(c models.Cell) models.Cell {
			if !c.Valid {
				return c
			}
			return models.Text(Sanitize(c.Value))
		})
	}
}

// SplitDescription splits a description on " / " into exactly n cells.
//
// Missing trailing parts are null and parts beyond n are discarded. A null description yields n nulls.
func SplitDescription(c models.Cell, n int) []models.Cell {
	out := make([]models.Cell, n)
	if !c.Valid {
		return out
	}
	for i, part := range strings.Split(c.Value, models.DescriptionSeparator) {
		if i >= n {
			break
		}
		out[i] = models.Text(part)
	}
	return out
}

// SplitTable replaces the description column with one column per field.
//
// Without a description column every field column is null. The description column is dropped either way.
func SplitTable(t *models.Table, fields []string) error {
	desc, ok := t.Column(models.ColumnDescription)
	if !ok {
		desc = make([]models.Cell, t.Len())
	}

	columns := make([][]models.Cell, len(fields))
	for i := range columns {
		columns[i] = make([]models.Cell, t.Len())
	}
	for row, c := range desc {
		for i, part := range SplitDescription(c, len(fields)) {
			columns[i][row] = part
		}
	}

	for i, field := range fields {
		if err := t.Set(field, columns[i]); err != nil {
			return err
		}
	}
	t.Drop(models.ColumnDescription)

	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrMissingColumn, models.ColumnDescription)
	}
	return nil
}

// FilterSince keeps the rows whose creation timestamp is at or after cutoff.
//
// When the column is missing or any value fails to parse, the table is returned unfiltered together
// with the error so the caller can report it; rows with an empty timestamp never pass the filter.
func FilterSince(t *models.Table, cutoff time.Time) (*models.Table, error) {
	cells, ok := t.Column(models.ColumnCreatedAt)
	if !ok {
		return t, fmt.Errorf("%w: %s", shared.ErrMissingColumn, models.ColumnCreatedAt)
	}

	keep := make([]bool, len(cells))
	for i, c := range cells {
		if !c.Valid {
			continue
		}
		ts, err := time.ParseInLocation(models.TimestampLayout, c.Value, cutoff.Location())
		if err != nil {
			return t, fmt.Errorf("row %d: %w", i+1, err)
		}
		keep[i] = !ts.Before(cutoff)
	}

	return t.Filter(func(i int) bool { return keep[i] }), nil
}

// ExportToCSV converts a table to CSV: one header row, then one line per row, no index column.
func ExportToCSV(t *models.Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Columns()); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	record := make([]string, len(t.Columns()))
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Row(i) {
			record[j] = c.String()
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSV writes the table to path as UTF-8 CSV with a byte order mark, creating parent directories.
func WriteCSV(t *models.Table, path string) error {
	data, err := ExportToCSV(t)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	return f.Close()
}
