package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/repositories"
	"github.com/desertthunder/markx/internal/shared"
	"github.com/desertthunder/markx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Pipeline runs every stage with the configured file names: merge the secondary and primary exports,
// reconcile them, ask for the cutoff and export.
func (r *Runner) Pipeline(ctx context.Context, cmd *cli.Command) error {
	files := r.config.Files

	if err := r.runMerge(ctx, files.SecondarySource, files.SecondaryMerged); err != nil {
		return err
	}
	if err := r.runMerge(ctx, files.PrimarySource, files.PrimaryMerged); err != nil {
		return err
	}
	if err := r.runReconcile(ctx, files.PrimaryMerged, files.SecondaryMerged, files.Reconciled); err != nil {
		return err
	}

	cutoff, err := r.prompter().Cutoff(ctx)
	if err != nil {
		return err
	}
	if err := r.runExport(ctx, files.Reconciled, cutoff); err != nil {
		return err
	}

	r.writePlain("所有处理已完成！\n")
	return nil
}

// Merge runs the merge stage on the given files.
func (r *Runner) Merge(ctx context.Context, cmd *cli.Command) error {
	return r.runMerge(ctx, cmd.String("in"), cmd.String("out"))
}

// Reconcile runs the reconcile stage on the given files.
func (r *Runner) Reconcile(ctx context.Context, cmd *cli.Command) error {
	return r.runReconcile(ctx, cmd.String("primary"), cmd.String("secondary"), cmd.String("out"))
}

// Export runs the export stage. The cutoff comes from --since or, when absent, from the prompt.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	var cutoff time.Time
	if since := cmd.String("since"); since != "" {
		parsed, err := shared.ParseCutoff(since, r.now())
		if err != nil {
			return fmt.Errorf("%w: --since: %w", shared.ErrInvalidArgument, err)
		}
		cutoff = parsed
	} else {
		parsed, err := r.prompter().Cutoff(ctx)
		if err != nil {
			return err
		}
		cutoff = parsed
	}

	if err := r.runExport(ctx, cmd.String("in"), cutoff); err != nil {
		return err
	}
	r.writePlain("所有处理已完成！\n")
	return nil
}

func (r *Runner) runMerge(ctx context.Context, in, out string) error {
	r.logger.Info("merging status worksheets", "in", in, "out", out)

	result, err := r.engine.Merge(ctx, in, out)
	if err != nil {
		return fmt.Errorf("merge %s: %w", in, err)
	}

	r.writePlain("已合并 '%s' → '%s'\n", result.Input, result.Output)
	for _, c := range result.Categories {
		r.writePlain("  %s: %d 行 (%v)\n", c.Name, c.Rows, c.Statuses)
	}
	return nil
}

func (r *Runner) runReconcile(ctx context.Context, primary, secondary, out string) error {
	r.logger.Info("reconciling workbooks", "primary", primary, "secondary", secondary, "out", out)

	result, err := r.engine.Reconcile(ctx, primary, secondary, out)
	if result != nil {
		for _, skipped := range result.Skipped {
			if errors.Is(skipped.Err, tasks.ErrEmptyTable) {
				continue
			}
			r.writePlain("处理分类 %s 时出错: %v\n", skipped.Category, skipped.Err)
		}
	}
	if err != nil {
		return fmt.Errorf("reconcile %s: %w", primary, err)
	}

	r.writePlain("已更新 '%s' → '%s'\n", result.Primary, result.Output)
	for _, c := range result.Categories {
		r.writePlain("  %s: %d/%d 行匹配\n", c.Name, c.Matched, c.Rows)
	}
	return nil
}

func (r *Runner) runExport(ctx context.Context, in string, cutoff time.Time) error {
	r.logger.Info("exporting categories", "in", in, "cutoff", cutoff.Format(time.DateOnly))

	history, closeHistory := r.openHistory()
	defer closeHistory()

	run := models.NewRun(cutoff)
	if history != nil {
		if err := history.Create(run); err != nil {
			r.logger.Warn("failed to record run, continuing without history", "error", err)
			history = nil
		}
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ExportCategory:
				r.writePlain("\n%s\n", update.Message)
			case tasks.FetchCovers:
				r.logger.Debug(update.Message)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase)
			}
		}
	}()

	result, err := r.engine.Export(ctx, in, cutoff, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		r.finishRun(history, run, err)
		return fmt.Errorf("export %s: %w", in, err)
	}

	for _, export := range result.Exports {
		if export.FilterErr != nil {
			if errors.Is(export.FilterErr, shared.ErrMissingColumn) {
				r.writePlain("%s 中没有 '%s' 列，跳过筛选。\n", export.Category, models.ColumnCreatedAt)
			} else {
				r.writePlain("转换 %s 中的'%s'列出错：%v。跳过筛选。\n", export.Category, models.ColumnCreatedAt, export.FilterErr)
			}
		}
		if export.Err != nil {
			r.writePlain("处理 %s 时出错: %v\n", export.Category, export.Err)
			continue
		}
		r.writePlain("更新后的数据已保存到'%s'文件中。\n", export.File)
	}

	run.SetExports(runExports(result))
	r.finishRun(history, run, nil)
	return nil
}

// openHistory returns the run repository when history is enabled. The returned func closes it.
func (r *Runner) openHistory() (*repositories.RunRepository, func()) {
	if r.config.Database.Path == "" {
		return nil, func() {}
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		r.logger.Warn("failed to open run history, continuing without it", "path", r.config.Database.Path, "error", err)
		return nil, func() {}
	}
	return repositories.NewRunRepository(db), func() { db.Close() }
}

func (r *Runner) finishRun(history *repositories.RunRepository, run *models.Run, err error) {
	if history == nil {
		return
	}
	if err != nil {
		run.Fail(err)
	} else {
		run.Complete()
	}
	if err := history.Update(run); err != nil {
		r.logger.Warn("failed to update run history", "run", run.ID(), "error", err)
		return
	}
	r.logger.Debug("recorded run", "run", run.ID(), "sequence", run.Sequence(), "status", run.Status())
}

func runExports(result *tasks.ExportResult) []models.RunExport {
	exports := make([]models.RunExport, 0, len(result.Exports))
	for _, e := range result.Exports {
		export := models.RunExport{
			Category:      e.Category,
			Rows:          e.Rows,
			CoversFound:   e.CoversFound,
			CoversMissing: e.CoversMissing,
			File:          e.File,
		}
		if e.Err != nil {
			export.Error = e.Err.Error()
		}
		exports = append(exports, export)
	}
	return exports
}
