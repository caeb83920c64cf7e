// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

// outputFlags are shared by commands that can print JSON
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func thresholdFlag() cli.Flag {
	return &cli.FloatFlag{
		Name:  "threshold",
		Usage: "Alias similarity threshold (ratio must exceed it)",
		Value: 0.8,
	}
}

// fetchCommand runs the harvest
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "fetch",
		Aliases: []string{"harvest"},
		Usage:   "Fetch popular tunes, filter their aliases and write the dataset",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "target",
				Aliases: []string{"n"},
				Usage:   "Number of popular tunes to collect",
				Value:   1500,
			},
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Only list tunes of this type (jig, reel, polka, ...)",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Pause after every request",
				Value: time.Second,
			},
			&cli.IntFlag{
				Name:  "per-page",
				Usage: "Listing page size",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "checkpoint-every",
				Usage: "Write the dataset after this many saved tunes",
				Value: 10,
			},
			thresholdFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Dataset path",
				Value:   "public/tunes.json",
			},
			&cli.BoolFlag{
				Name:  "db",
				Usage: "Mirror saved tunes and the run into the SQLite database",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show an interactive progress view",
			},
		},
		Action: r.Fetch,
	}
}

// aliasesCommand handles alias filter operations
func aliasesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "aliases",
		Usage: "Inspect and re-run the alias filter",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Explain which aliases of a name survive the filter",
				Arguments: []cli.Argument{
					&cli.StringArgs{
						Name: "aliases",
						Min:  0,
						Max:  -1,
					},
				},
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Main tune name",
						Required: true,
					},
					thresholdFlag(),
				}, outputFlags()...),
				Action: r.AliasesCheck,
			},
			{
				Name:  "refilter",
				Usage: "Re-apply the alias filter to an existing dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Dataset to read (defaults to the configured output)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the result (defaults to the input)",
					},
					thresholdFlag(),
				},
				Action: r.AliasesRefilter,
			},
		},
	}
}

// exportCommand renders a dataset to other formats
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a dataset to CSV, Markdown or plain text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Dataset to read (defaults to the configured output)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, markdown, txt",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (defaults to tunes.<ext> next to the input)",
			},
		},
		Action: r.Export,
	}
}

// setupCommand creates the config file and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create configuration and initialize the database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the default config.toml",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:    "database",
				Aliases: []string{"db"},
				Usage:   "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the latest migration after applying pending ones",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// runsCommand inspects the run history
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect harvest runs recorded in the database",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				}, outputFlags()...),
				Action: r.RunsList,
			},
		},
	}
}

// tunesCommand inspects mirrored tunes
func tunesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tunes",
		Usage: "Inspect tunes mirrored in the database",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show a tune by archive id",
				Arguments: []cli.Argument{
					&cli.IntArg{
						Name: "id",
					},
				},
				Flags:  outputFlags(),
				Action: r.TunesShow,
			},
			{
				Name:  "list",
				Usage: "List tunes by popularity",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Only list tunes of this type",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tunes to show",
						Value: 50,
					},
				}, outputFlags()...),
				Action: r.TunesList,
			},
		},
	}
}
