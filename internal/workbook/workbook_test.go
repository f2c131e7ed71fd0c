package workbook

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	t.Run("Write Then Read", func(t *testing.T) {
		movies := models.NewTable("看过", models.ColumnKey, models.ColumnTags)
		movies.AppendRow(map[string]models.Cell{
			models.ColumnKey:  models.Text("https://example.com/1"),
			models.ColumnTags: models.Text("科幻"),
		})
		movies.AppendRow(map[string]models.Cell{
			models.ColumnKey: models.Text("https://example.com/2"),
		})
		books := models.NewTable("读过", models.ColumnKey)
		books.AppendRow(map[string]models.Cell{models.ColumnKey: models.Text("https://example.com/3")})

		path := filepath.Join(t.TempDir(), "out.xlsx")
		if err := Write(path, models.NewWorkbook(movies, books)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		wb, err := Read(path)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}

		if got := wb.Names(); !slices.Equal(got, []string{"看过", "读过"}) {
			t.Fatalf("expected sheets [看过 读过], got %v", got)
		}

		got, _ := wb.Sheet("看过")
		if got.Len() != 2 {
			t.Fatalf("expected 2 rows, got %d", got.Len())
		}
		if !slices.Equal(got.Columns(), []string{models.ColumnKey, models.ColumnTags}) {
			t.Errorf("unexpected columns %v", got.Columns())
		}
		if c, _ := got.Cell(0, models.ColumnTags); c.Value != "科幻" {
			t.Errorf("expected 科幻, got %q", c.Value)
		}
		if c, _ := got.Cell(1, models.ColumnTags); c.Valid {
			t.Errorf("expected null tag on row 2, got %q", c.Value)
		}
	})

	t.Run("Header Only Sheet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "header.xlsx")
		if err := Write(path, models.NewWorkbook(models.NewTable("想看", "a", "b"))); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		wb, err := Read(path)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		sheet, _ := wb.Sheet("想看")
		if sheet.Len() != 0 || !slices.Equal(sheet.Columns(), []string{"a", "b"}) {
			t.Errorf("expected empty table with columns [a b], got %d rows %v", sheet.Len(), sheet.Columns())
		}
	})

	t.Run("Skips Blank Rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blank.xlsx")
		f := excelize.NewFile()
		f.SetCellStr("Sheet1", "A1", "k")
		f.SetCellStr("Sheet1", "A2", "1")
		f.SetCellStr("Sheet1", "A4", "2")
		if err := f.SaveAs(path); err != nil {
			t.Fatalf("failed to save fixture: %v", err)
		}
		f.Close()

		wb, err := Read(path)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		sheet, _ := wb.Sheet("Sheet1")
		if sheet.Len() != 2 {
			t.Errorf("expected blank row to be skipped, got %d rows", sheet.Len())
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "missing.xlsx"))
		if !errors.Is(err, shared.ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("Empty Workbook", func(t *testing.T) {
		err := Write(filepath.Join(t.TempDir(), "empty.xlsx"), models.NewWorkbook())
		if !errors.Is(err, shared.ErrNothingToWrite) {
			t.Errorf("expected ErrNothingToWrite, got %v", err)
		}
	})
}

func TestHeaderNames(t *testing.T) {
	got := headerNames([]string{"a", "", "a", "b", "a"})
	want := []string{"a", "Unnamed: 1", "a.1", "b", "a.2"}
	if !slices.Equal(got, want) {
		t.Errorf("headerNames() = %v, want %v", got, want)
	}
}
