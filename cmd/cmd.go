// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand writes the config template and prepares the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml from the template and run history migrations",
		Action: r.Setup,
	}
}

// mergeCommand rolls status worksheets up into categories
func mergeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "merge",
		Usage: "Merge status worksheets (看过, 在看, 想看, ...) into one worksheet per category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Usage:    "Workbook with one worksheet per status",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Workbook to write with one worksheet per category",
				Required: true,
			},
		},
		Action: r.Merge,
	}
}

// reconcileCommand copies fields from the secondary export onto the primary one
func reconcileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Copy tags, rating, description and NeoDB link from the secondary export by 链接",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "primary",
				Aliases:  []string{"p"},
				Usage:    "Merged primary workbook (rows kept)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "secondary",
				Aliases:  []string{"s"},
				Usage:    "Merged secondary workbook (fields copied)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Workbook to write",
				Required: true,
			},
		},
		Action: r.Reconcile,
	}
}

// exportCommand writes one CSV per category
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Filter by creation date, clean, fetch covers and write one CSV per category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Usage:    "Reconciled workbook",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "since",
				Usage: "Creation date cutoff as YYMMDD (prompted when omitted)",
			},
		},
		Action: r.Export,
	}
}

// historyCommand lists recorded runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded export runs (requires database.path)",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 10,
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Only show runs with this status (running, completed, failed)",
			},
		},
		Action: r.History,
	}
}
