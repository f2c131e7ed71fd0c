package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/markx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		Logger: logger,
		Input:  os.Stdin,
	})

	app := newApp(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrCancelled) {
			logger.Warn("cancelled")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command with the pipeline as its default action.
func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:  "markx",
		Usage: "Merge media-tracking exports, copy NeoDB fields and export per-category CSV files",
		Description: "Without a subcommand every stage runs in order: merge both exports, reconcile them, " +
			"ask for the creation date cutoff and export one CSV per category.",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   runner.Before,
		Action:   runner.Pipeline,
		Commands: runner.register(),
	}
}
