package formatter

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
	th "github.com/desertthunder/markx/internal/testing"
)

func TestSanitize(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ascii untouched", input: "Blade Runner 2049 / 8.3", want: "Blade Runner 2049 / 8.3"},
		{name: "cjk kept", input: "银翼杀手", want: "银翼杀手"},
		{name: "emoji dropped", input: "好看🎬 movie👍", want: "好看 movie"},
		{name: "kana and full-width dropped", input: "アニメ：日本", want: "日本"},
		{name: "latin-1 dropped", input: "Amélie", want: "Amlie"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTable(t *testing.T) {
	tbl := models.NewTable("t", "a", "b")
	tbl.AppendRow(map[string]models.Cell{"a": models.Text("作者😀")})

	SanitizeTable(tbl)

	if c, _ := tbl.Cell(0, "a"); c.Value != "作者" {
		t.Errorf("expected 作者, got %q", c.Value)
	}
	if c, _ := tbl.Cell(0, "b"); c.Valid {
		t.Error("null cells should stay null")
	}
}

func TestSplitDescription(t *testing.T) {
	values := func(cells []models.Cell) []string {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = c.String()
		}
		return out
	}

	t.Run("Exact Parts", func(t *testing.T) {
		got := SplitDescription(models.Text("Author / 2020-01-01 / Publisher"), 3)
		if !slices.Equal(values(got), []string{"Author", "2020-01-01", "Publisher"}) {
			t.Errorf("unexpected parts %v", values(got))
		}
	})

	t.Run("Pads Missing Parts", func(t *testing.T) {
		got := SplitDescription(models.Text("Author"), 3)
		if len(got) != 3 || got[0].Value != "Author" || got[1].Valid || got[2].Valid {
			t.Errorf("expected [Author null null], got %+v", got)
		}
	})

	t.Run("Truncates Extra Parts", func(t *testing.T) {
		got := SplitDescription(models.Text("a / b / c / d / e"), 2)
		if !slices.Equal(values(got), []string{"a", "b"}) {
			t.Errorf("unexpected parts %v", values(got))
		}
	})

	t.Run("Separator Needs Spaces", func(t *testing.T) {
		got := SplitDescription(models.Text("AC/DC / 1980"), 2)
		if !slices.Equal(values(got), []string{"AC/DC", "1980"}) {
			t.Errorf("unexpected parts %v", values(got))
		}
	})

	t.Run("Null Description", func(t *testing.T) {
		for _, c := range SplitDescription(models.Cell{}, 5) {
			if c.Valid {
				t.Error("expected every part to be null")
			}
		}
	})
}

func TestSplitTable(t *testing.T) {
	fields := []string{"作者", "出版日期", "出版社"}

	t.Run("Replaces Description", func(t *testing.T) {
		tbl := models.NewTable("读过", models.ColumnKey, models.ColumnDescription)
		tbl.AppendRow(map[string]models.Cell{
			models.ColumnKey:         models.Text("k"),
			models.ColumnDescription: models.Text("Author / 2020-01-01 / Publisher"),
		})

		if err := SplitTable(tbl, fields); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{models.ColumnKey, "作者", "出版日期", "出版社"}
		if !slices.Equal(tbl.Columns(), want) {
			t.Errorf("expected columns %v, got %v", want, tbl.Columns())
		}
		if c, _ := tbl.Cell(0, "出版社"); c.Value != "Publisher" {
			t.Errorf("expected Publisher, got %q", c.Value)
		}
	})

	t.Run("Missing Description", func(t *testing.T) {
		tbl := models.NewTable("读过", models.ColumnKey)
		tbl.AppendRow(map[string]models.Cell{models.ColumnKey: models.Text("k")})

		err := SplitTable(tbl, fields)
		if !errors.Is(err, shared.ErrMissingColumn) {
			t.Errorf("expected ErrMissingColumn, got %v", err)
		}
		for _, f := range fields {
			if c, ok := tbl.Cell(0, f); !ok || c.Valid {
				t.Errorf("expected null %s column, got ok=%v %+v", f, ok, c)
			}
		}
	})
}

func TestFilterSince(t *testing.T) {
	cutoff := time.Date(2023, 10, 26, 0, 0, 0, 0, time.Local)

	newTable := func(stamps ...string) *models.Table {
		tbl := models.NewTable("t", models.ColumnKey, models.ColumnCreatedAt)
		for i, s := range stamps {
			row := map[string]models.Cell{models.ColumnKey: models.Text(string(rune('a' + i)))}
			if s != "" {
				row[models.ColumnCreatedAt] = models.Text(s)
			}
			tbl.AppendRow(row)
		}
		return tbl
	}

	t.Run("Boundary", func(t *testing.T) {
		tbl := newTable("2023-10-25 23:59:59", "2023-10-26 00:00:00", "2024-01-01 08:00:00", "")

		got, err := FilterSince(tbl, cutoff)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		keys, _ := got.Column(models.ColumnKey)
		if len(keys) != 2 || keys[0].Value != "b" || keys[1].Value != "c" {
			t.Errorf("expected rows b and c, got %+v", keys)
		}
	})

	t.Run("Missing Column", func(t *testing.T) {
		tbl := models.NewTable("t", models.ColumnKey)
		tbl.AppendRow(map[string]models.Cell{models.ColumnKey: models.Text("a")})

		got, err := FilterSince(tbl, cutoff)
		if !errors.Is(err, shared.ErrMissingColumn) {
			t.Errorf("expected ErrMissingColumn, got %v", err)
		}
		if got.Len() != 1 {
			t.Errorf("expected table unfiltered, got %d rows", got.Len())
		}
	})

	t.Run("Unparseable Value Skips Filter", func(t *testing.T) {
		tbl := newTable("2020-01-01 00:00:00", "10/26/23 12:00")

		got, err := FilterSince(tbl, cutoff)
		if err == nil {
			t.Error("expected parse error")
		}
		if got.Len() != 2 {
			t.Errorf("expected table unfiltered, got %d rows", got.Len())
		}
	})
}

func TestExporters(t *testing.T) {
	tbl := models.NewTable("看过", "标题", models.ColumnCover)
	tbl.AppendRow(map[string]models.Cell{"标题": models.Text("银翼杀手, 2049"), models.ColumnCover: models.Text("https://neodb.social/m/1.jpg")})
	tbl.AppendRow(map[string]models.Cell{"标题": models.Text("沙丘")})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(tbl)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		want := "标题,封面\n\"银翼杀手, 2049\",https://neodb.social/m/1.jpg\n沙丘,\n"
		if string(data) != want {
			t.Errorf("unexpected CSV:\n%s\nwant:\n%s", data, want)
		}
	})

	t.Run("WriteCSV", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "zout_final_看过.csv")
		if err := WriteCSV(tbl, path); err != nil {
			t.Fatalf("WriteCSV failed: %v", err)
		}

		th.AssertFileExists(t, path)
		content := th.MustReadFile(t, path)
		if !strings.HasPrefix(content, "\ufeff标题,封面\n") {
			t.Errorf("expected BOM followed by header, got %q", content[:min(len(content), 20)])
		}
		if strings.Count(content, "\ufeff") != 1 {
			t.Error("expected exactly one byte order mark")
		}
	})
}
