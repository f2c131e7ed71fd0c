package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/repositories"
	"github.com/desertthunder/markx/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists recorded runs newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer db.Close()

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}

	runs, err := repositories.NewRunRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		r.writePlain("No runs recorded in %s\n", r.config.Database.Path)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Run history (%d)", len(runs)))
	for _, run := range runs {
		r.writeRun(run)
	}
	return nil
}

func (r *Runner) writeRun(run *models.Run) {
	r.writePlain("#%d %s  cutoff %s  %s\n",
		run.Sequence(), run.StartedAt().Format(time.DateTime), run.Cutoff().Format(time.DateOnly), run.Status())
	if msg := run.ErrorMessage(); msg != "" {
		r.writePlain("   error: %s\n", msg)
	}
	for _, e := range run.Exports() {
		if e.Error != "" {
			r.writePlain("   ✗ %s: %s\n", e.Category, e.Error)
			continue
		}
		r.writePlain("   ✓ %s: %d rows, %d covers, %d missing → %s\n", e.Category, e.Rows, e.CoversFound, e.CoversMissing, e.File)
	}
}
