// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are accepted before any subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   defaultConfigPath,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

func urlFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "url",
		Usage: "Page containing the movie table (default: source.url from config)",
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: "SQLite store path (default: database.path from config)",
	}
}

func jsonFlags(pretty bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: pretty,
		},
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Write config.toml from the template if missing, then create the store schema",
				Flags:  []cli.Flag{dbFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent schema migration",
				Flags:  []cli.Flag{dbFlag()},
				Action: r.SetupRollback,
			},
		},
	}
}

// fetchCommand downloads and parses the movie table without touching the store.
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "fetch",
		Usage:  "Fetch and print the movie table without writing to the store",
		Flags:  append([]cli.Flag{urlFlag()}, jsonFlags(false)...),
		Action: r.Fetch,
	}
}

// syncCommand handles fetch → dedupe → insert runs.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync new movies into the store",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch the page once and insert movies whose titles are not stored yet",
				Flags:  append([]cli.Flag{urlFlag(), dbFlag()}, jsonFlags(false)...),
				Action: r.SyncRun,
			},
			{
				Name:  "watch",
				Usage: "Repeat sync runs on an interval until interrupted",
				Flags: []cli.Flag{
					urlFlag(),
					dbFlag(),
					&cli.DurationFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Time between runs (default: sync.watch_interval from config)",
					},
				},
				Action: r.SyncWatch,
			},
			{
				Name:  "history",
				Usage: "List recorded sync runs, most recent first",
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of runs to list (0 for all)",
						Value:   10,
					},
				}, jsonFlags(false)...),
				Action: r.SyncHistory,
			},
		},
	}
}

// moviesCommand reads the store.
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "movies",
		Usage: "Inspect stored movies",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored movies",
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "order",
						Usage: "Sort by 'inserted' or 'title'",
						Value: "inserted",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of movies to list (0 for all)",
					},
				}, jsonFlags(false)...),
				Action: r.MoviesList,
			},
			{
				Name:  "show",
				Usage: "Show one stored movie by exact title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags:  append([]cli.Flag{dbFlag()}, jsonFlags(true)...),
				Action: r.MoviesShow,
			},
			{
				Name:  "export",
				Usage: "Export stored movies as csv, json, markdown or txt",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: csv, json, markdown, txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				},
				Action: r.MoviesExport,
			},
		},
	}
}

// serveCommand exposes the store over HTTP.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve stored movies and sync runs as JSON over HTTP",
		Flags: []cli.Flag{
			urlFlag(),
			dbFlag(),
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address (defaults to server.addr from config)",
			},
			&cli.BoolFlag{
				Name:  "read-only",
				Usage: "Do not expose POST /sync",
			},
		},
		Action: r.Serve,
	}
}

// browseCommand returns the top-level TUI command for browsing the store.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch interactive TUI for browsing stored movies",
		Flags: []cli.Flag{
			urlFlag(),
			dbFlag(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where TUI log lines are written",
				Value: "./tmp/moviesync-tui.log",
			},
		},
		Action: r.Browse,
	}
}

