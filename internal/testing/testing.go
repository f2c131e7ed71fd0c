// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/markx/internal/models"
)

// MockCoverFetcher is a test double for [services.CoverFetcher].
//
// Links present in Covers resolve to their value, links present in Errors fail with their error,
// anything else fails with errors.New("not found").
type MockCoverFetcher struct {
	Covers map[string]string
	Errors map[string]error

	mu    sync.Mutex
	calls []string
}

func (m *MockCoverFetcher) CoverURL(ctx context.Context, link string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, link)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := m.Errors[link]; ok {
		return "", err
	}
	if url, ok := m.Covers[link]; ok {
		return url, nil
	}
	return "", errors.New("not found")
}

func (m *MockCoverFetcher) Name() string { return "mock" }

// Calls returns the links requested so far, in arrival order.
func (m *MockCoverFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// NewTable builds a table from a header and rows of values. Empty strings become null cells.
func NewTable(name string, header []string, rows ...[]string) *models.Table {
	t := models.NewTable(name, header...)
	for _, row := range rows {
		values := make(map[string]models.Cell, len(row))
		for i, v := range row {
			if i < len(header) && v != "" {
				values[header[i]] = models.Text(v)
			}
		}
		t.AppendRow(values)
	}
	return t
}

// ColumnValues returns the string form of every cell in col, failing the test when col is missing.
func ColumnValues(t *testing.T, tbl *models.Table, col string) []string {
	t.Helper()
	cells, ok := tbl.Column(col)
	if !ok {
		t.Fatalf("table %q has no column %q (columns: %v)", tbl.Name, col, tbl.Columns())
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
