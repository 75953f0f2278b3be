// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// airportsCommand looks up airport suggestions
func airportsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "airports",
		Aliases: []string{"air"},
		Usage:   "Look up airports, cities, and countries by name",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Airports,
	}
}

// searchCommand runs a flight search from flags
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search flights",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "from",
				Usage: "Origin airport code (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "to",
				Usage: "Destination airport code (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "everywhere",
				Usage: "Search all destinations",
			},
			&cli.StringFlag{
				Name:     "date",
				Usage:    "Departure date (DD/MM/YYYY)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "return-date",
				Usage: "Return date for a round trip (DD/MM/YYYY)",
			},
			&cli.FloatFlag{
				Name:  "max-price",
				Usage: "Maximum price in euros",
			},
			&cli.IntFlag{
				Name:  "min-hour",
				Usage: "Earliest departure hour (0-24)",
			},
			&cli.IntFlag{
				Name:  "max-hour",
				Usage: "Latest departure hour (0-24)",
				Value: 24,
			},
			&cli.IntFlag{
				Name:  "min-arrival-hour",
				Usage: "Earliest arrival hour (0-24)",
			},
			&cli.IntFlag{
				Name:  "max-arrival-hour",
				Usage: "Latest arrival hour (0-24)",
				Value: 24,
			},
			&cli.BoolFlag{
				Name:  "direct",
				Usage: "Direct flights only",
			},
			&cli.BoolFlag{
				Name:  "same-day",
				Usage: "Require same-day arrival",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: price, time, or duration",
				Value: "price",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of flights to print",
			},
			&cli.BoolFlag{
				Name:  "stream",
				Usage: "Consume the incremental stream with live progress",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the results to history",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export results: csv, markdown, or text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export file path",
			},
		},
		Action: r.Search,
	}
}

// tuiCommand launches the interactive client
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}

// historyCommand manages saved searches
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Saved search history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved searches",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "everywhere",
						Usage: "Only everywhere searches",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one saved search",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the search page in the browser",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:   "clear",
				Usage:  "Delete all saved searches",
				Action: r.HistoryClear,
			},
		},
	}
}

// exportCommand re-exports a saved search
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a saved search to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Saved search ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: csv, markdown, or text",
				Value: "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
		},
		Action: r.Export,
	}
}

// setupCommand writes and inspects the config file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file and history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: r.Setup,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the active configuration",
				Action: r.SetupShow,
			},
		},
	}
}

// apiCommand handles direct (proxy) API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the search proxy",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the proxy, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST to the proxy",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON request body",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
