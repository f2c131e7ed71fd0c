package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase    Phase  // Operation phase
	Category string // Category being processed, if any
	Step     int    // Current step number within phase
	Total    int    // Total steps in this phase
	Message  string // Human-readable message for display
	Data     any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ExportCategory Phase = iota
	FilterRows
	FetchCovers
	WriteCSV
)

func (p Phase) String() string {
	switch p {
	case ExportCategory:
		return "export_category"
	case FilterRows:
		return "filter_rows"
	case FetchCovers:
		return "fetch_covers"
	case WriteCSV:
		return "write_csv"
	default:
		return ""
	}
}

func exportingCategoryUpdate(step, total int, category string, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:    ExportCategory,
		Category: category,
		Step:     step,
		Total:    total,
		Message:  fmt.Sprintf("[%d/%d] Exporting %s (%d rows)...", step, total, category, rows),
	}
}

func filteredRowsUpdate(category string, kept, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:    FilterRows,
		Category: category,
		Step:     kept,
		Total:    total,
		Message:  fmt.Sprintf("%s: %d of %d rows on or after cutoff", category, kept, total),
	}
}

func coverFetchedUpdate(step, total int, category, link string, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:    FetchCovers,
			Category: category,
			Step:     step,
			Total:    total,
			Message:  fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, link, err),
		}
	}
	return ProgressUpdate{
		Phase:    FetchCovers,
		Category: category,
		Step:     step,
		Total:    total,
		Message:  fmt.Sprintf("[%d/%d] ✓ %s", step, total, link),
	}
}

func csvWrittenUpdate(step, total int, export CategoryExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:    WriteCSV,
		Category: export.Category,
		Step:     step,
		Total:    total,
		Message:  fmt.Sprintf("[%d/%d] Saved %s (%d rows)", step, total, export.File, export.Rows),
		Data:     export,
	}
}

func exportFailedUpdate(step, total int, category string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:    ExportCategory,
		Category: category,
		Step:     step,
		Total:    total,
		Message:  fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, category, err),
	}
}
