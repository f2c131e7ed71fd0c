package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
	th "github.com/desertthunder/markx/internal/testing"
	"github.com/desertthunder/markx/internal/workbook"
)

func statusWorkbook() *models.Workbook {
	return models.NewWorkbook(
		th.NewTable("想看", []string{"链接", "标题", "备注"},
			[]string{"https://m/3", "沙丘", "IMAX"},
		),
		th.NewTable("看过", []string{"链接", "标题"},
			[]string{"https://m/1", "银翼杀手"},
			[]string{"https://m/2", "攻壳机动队"},
		),
		th.NewTable("在听", []string{"链接", "标题"},
			[]string{"https://a/1", "OK Computer"},
		),
		th.NewTable("Notes", []string{"x"}, []string{"1"}),
	)
}

func TestMergeWorkbook(t *testing.T) {
	e := newTestEngine(t, EngineOpts{})
	merged, result := e.MergeWorkbook(statusWorkbook())

	t.Run("Category Order And Omission", func(t *testing.T) {
		if got := merged.Names(); !slices.Equal(got, []string{"看过", "听过"}) {
			t.Errorf("expected [看过 听过], got %v", got)
		}
		if len(result.Categories) != 2 {
			t.Fatalf("expected 2 merged categories, got %d", len(result.Categories))
		}
		if !slices.Equal(result.Ignored, []string{"Notes"}) {
			t.Errorf("expected Notes to be ignored, got %v", result.Ignored)
		}
	})

	t.Run("Rows Stack In Status Order", func(t *testing.T) {
		watched, _ := merged.Sheet("看过")
		if watched.Len() != 3 {
			t.Fatalf("expected 3 rows, got %d", watched.Len())
		}
		if got := th.ColumnValues(t, watched, models.ColumnStatus); !slices.Equal(got, []string{"看过", "看过", "想看"}) {
			t.Errorf("unexpected status column %v", got)
		}
		if got := th.ColumnValues(t, watched, "链接"); !slices.Equal(got, []string{"https://m/1", "https://m/2", "https://m/3"}) {
			t.Errorf("unexpected key order %v", got)
		}
		if !slices.Equal(result.Categories[0].Statuses, []string{"看过", "想看"}) {
			t.Errorf("unexpected statuses %v", result.Categories[0].Statuses)
		}
	})

	t.Run("Column Union", func(t *testing.T) {
		watched, _ := merged.Sheet("看过")
		if got := watched.Columns(); !slices.Equal(got, []string{"链接", "标题", models.ColumnStatus, "备注"}) {
			t.Errorf("unexpected columns %v", got)
		}
		if got := th.ColumnValues(t, watched, "备注"); !slices.Equal(got, []string{"", "", "IMAX"}) {
			t.Errorf("expected missing values to be null, got %v", got)
		}
	})

	t.Run("Row Count Equals Sum Of Statuses", func(t *testing.T) {
		for _, mc := range result.Categories {
			sheet, _ := merged.Sheet(mc.Name)
			if sheet.Len() != mc.Rows {
				t.Errorf("%s: result reports %d rows, sheet has %d", mc.Name, mc.Rows, sheet.Len())
			}
		}
		music, _ := merged.Sheet("听过")
		if got := th.ColumnValues(t, music, models.ColumnStatus); !slices.Equal(got, []string{"在听"}) {
			t.Errorf("unexpected status column %v", got)
		}
	})

	t.Run("Source Untouched", func(t *testing.T) {
		src := statusWorkbook()
		e.MergeWorkbook(src)
		sheet, _ := src.Sheet("看过")
		if sheet.Has(models.ColumnStatus) {
			t.Error("merge should not modify the source worksheets")
		}
	})
}

func TestMerge(t *testing.T) {
	e := newTestEngine(t, EngineOpts{})
	dir := t.TempDir()

	t.Run("Writes Category Workbook", func(t *testing.T) {
		in := filepath.Join(dir, "marks.xlsx")
		out := filepath.Join(dir, "mark.xlsx")
		if err := workbook.Write(in, statusWorkbook()); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		result, err := e.Merge(context.Background(), in, out)
		if err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		if result.Input != in || result.Output != out {
			t.Errorf("unexpected paths %q -> %q", result.Input, result.Output)
		}

		th.AssertFileExists(t, out)
		wb, err := workbook.Read(out)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if got := wb.Names(); !slices.Equal(got, []string{"看过", "听过"}) {
			t.Errorf("expected [看过 听过], got %v", got)
		}
	})

	t.Run("Missing Input", func(t *testing.T) {
		_, err := e.Merge(context.Background(), filepath.Join(dir, "nope.xlsx"), filepath.Join(dir, "x.xlsx"))
		if !errors.Is(err, shared.ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("No Status Worksheets", func(t *testing.T) {
		in := filepath.Join(dir, "other.xlsx")
		out := filepath.Join(dir, "other_out.xlsx")
		if err := workbook.Write(in, models.NewWorkbook(th.NewTable("Notes", []string{"x"}, []string{"1"}))); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		_, err := e.Merge(context.Background(), in, out)
		if !errors.Is(err, shared.ErrNothingToWrite) {
			t.Errorf("expected ErrNothingToWrite, got %v", err)
		}
		th.AssertFileNotExists(t, out)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := e.Merge(ctx, "a.xlsx", "b.xlsx"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
