package models

import (
	"fmt"
	"slices"
)

// Cell is a single optional worksheet value. The zero value is null.
type Cell struct {
	Value string
	Valid bool
}

// Text returns a non-null cell holding s.
func Text(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// String returns the cell value, or "" for a null cell.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

// Table is a named worksheet: ordered column names, each mapped to exactly Len() cells.
type Table struct {
	Name    string
	columns []string
	data    map[string][]Cell
	rows    int
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns ...string) *Table {
	t := &Table{Name: name, data: make(map[string][]Cell)}
	for _, col := range columns {
		t.ensure(col)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool { return t.rows == 0 || len(t.columns) == 0 }

// Columns returns the column names in order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Has reports whether the column exists.
func (t *Table) Has(col string) bool {
	_, ok := t.data[col]
	return ok
}

// Column returns a copy of the column's cells and whether the column exists.
func (t *Table) Column(col string) ([]Cell, bool) {
	cells, ok := t.data[col]
	if !ok {
		return nil, false
	}
	return slices.Clone(cells), true
}

// Cell returns the value at row i of col and whether the column exists.
func (t *Table) Cell(i int, col string) (Cell, bool) {
	cells, ok := t.data[col]
	if !ok || i < 0 || i >= t.rows {
		return Cell{}, false
	}
	return cells[i], true
}

// Row returns row i in column order.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.columns))
	for j, col := range t.columns {
		row[j] = t.data[col][i]
	}
	return row
}

// AppendRow adds one row. Unknown columns are created and back-filled with nulls; columns missing
// from values are null for this row.
func (t *Table) AppendRow(values map[string]Cell) {
	for col := range values {
		t.ensure(col)
	}
	for _, col := range t.columns {
		t.data[col] = append(t.data[col], values[col])
	}
	t.rows++
}

// Set replaces the column's cells, appending the column when it does not exist yet.
func (t *Table) Set(col string, cells []Cell) error {
	if len(cells) != t.rows {
		return fmt.Errorf("column %q has %d values, table %q has %d rows", col, len(cells), t.Name, t.rows)
	}
	t.ensure(col)
	t.data[col] = slices.Clone(cells)
	return nil
}

// Fill sets every row of col to c.
func (t *Table) Fill(col string, c Cell) {
	cells := make([]Cell, t.rows)
	for i := range cells {
		cells[i] = c
	}
	t.ensure(col)
	t.data[col] = cells
}

// Update rewrites every cell of an existing column in place.
func (t *Table) Update(col string, fn func(Cell) Cell) bool {
	cells, ok := t.data[col]
	if !ok {
		return false
	}
	for i, c := range cells {
		cells[i] = fn(c)
	}
	return true
}

// Drop removes a column. Dropping a missing column is a no-op.
func (t *Table) Drop(col string) {
	if !t.Has(col) {
		return
	}
	delete(t.data, col)
	t.columns = slices.DeleteFunc(t.columns, func(c string) bool { return c == col })
}

// Filter returns a new table containing the rows for which keep returns true, in order.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := NewTable(t.Name, t.columns...)
	for i := 0; i < t.rows; i++ {
		if !keep(i) {
			continue
		}
		for _, col := range t.columns {
			out.data[col] = append(out.data[col], t.data[col][i])
		}
		out.rows++
	}
	return out
}

// Append stacks the rows of other below the rows of t. The column set becomes the union in order of
// first appearance; values missing on either side are null.
func (t *Table) Append(other *Table) {
	for _, col := range other.columns {
		t.ensure(col)
	}
	for _, col := range t.columns {
		src, ok := other.data[col]
		if !ok {
			src = make([]Cell, other.rows)
		}
		t.data[col] = append(t.data[col], src...)
	}
	t.rows += other.rows
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Name, t.columns...)
	for col, cells := range t.data {
		out.data[col] = slices.Clone(cells)
	}
	out.rows = t.rows
	return out
}

// ensure adds col as a new all-null column if it does not exist.
func (t *Table) ensure(col string) {
	if t.Has(col) {
		return
	}
	t.columns = append(t.columns, col)
	t.data[col] = make([]Cell, t.rows)
}

// Workbook is an ordered set of tables addressed by name.
type Workbook struct {
	sheets []*Table
}

// NewWorkbook creates a workbook from tables, in order.
func NewWorkbook(tables ...*Table) *Workbook {
	w := &Workbook{}
	for _, t := range tables {
		w.Add(t)
	}
	return w
}

// Add appends a table, replacing an existing table with the same name in place.
func (w *Workbook) Add(t *Table) {
	for i, s := range w.sheets {
		if s.Name == t.Name {
			w.sheets[i] = t
			return
		}
	}
	w.sheets = append(w.sheets, t)
}

// Sheet looks up a table by name.
func (w *Workbook) Sheet(name string) (*Table, bool) {
	for _, s := range w.sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Sheets returns the tables in order.
func (w *Workbook) Sheets() []*Table { return slices.Clone(w.sheets) }

// Names returns the worksheet names in order.
func (w *Workbook) Names() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of worksheets.
func (w *Workbook) Len() int { return len(w.sheets) }
