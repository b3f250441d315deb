package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "fedsurvey"

// Engine CLI invoked for each query file
const defaultEngineScript = "comunica/engines/query-sparql/bin/query-dynamic.js"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Automation harness for federated SPARQL query-engine experiments",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "configure",
		Usage:  "Swap engine config files for a named experiment preset",
		Action: app.configure,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "experiment",
				Aliases:  []string{"e"},
				Usage:    "Experiment preset (EX1, EX1g, EX2, EX3, EX4)",
				Required: true,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "queries",
		Usage:  "Generate per-query .rq files from the canonical corpus",
		Action: app.generateQueries,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Corpus JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "type",
				Aliases:  []string{"t"},
				Usage:    "Query variant to generate (service or no-service)",
				Required: true,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Execute a batch of query files against the engine CLI",
		Action: app.run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Experiment run name (no spaces)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Query variant to execute (service or no-service)",
			},
			&cli.StringFlag{
				Name:  "queries",
				Usage: "Query directory (overrides --type)",
			},
			&cli.StringFlag{
				Name:  "engine",
				Usage: "Path to the engine CLI script",
				Value: defaultEngineScript,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "summarize",
		Usage:  "Parse batch logs into an aggregated CSV/JSON summary",
		Action: app.summarize,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Batch log file (repeatable)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV file",
				Value:   "summary.csv",
			},
			&cli.StringFlag{
				Name:  "json",
				Usage: "Also write a JSON summary to this file",
			},
			&cli.StringFlag{
				Name:  "label",
				Usage: "Label for the synthetic summary row (default: first log's directory)",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "interpret",
		Usage:  "Summarize a raw engine-CLI output log as a status table",
		Action: app.interpret,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "comunica-cli",
				Aliases:  []string{"c"},
				Usage:    "Output log from a run of the engine CLI",
				Required: true,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "reconcile",
		Usage:  "Match endpoint-log queries against the canonical corpus",
		Action: app.reconcile,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "sparql-endpoint",
				Aliases:  []string{"s"},
				Usage:    "SPARQL endpoint log file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "corpus",
				Usage:    "Corpus JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "crash-endpoint",
				Usage: "Endpoint whose known crash to attribute",
				Value: "https://biosoda.unil.ch/emi/sparql",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "visualize",
		Usage:  "Render bar charts from summary CSVs",
		Action: app.visualize,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "summary",
				Usage:    "Summary CSV as label=path (repeatable)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "Directory for the generated figures",
				Value: "figures",
			},
			&cli.IntFlag{
				Name:  "parts",
				Usage: "Number of figures per metric",
				Value: 4,
			},
			&cli.Float64Flag{
				Name:  "max-duration",
				Usage: "Y-axis cap for the duration charts (seconds)",
				Value: 2700,
			},
			&cli.Float64Flag{
				Name:  "max-requests",
				Usage: "Y-axis cap for the HTTP request charts",
				Value: 1000,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List recorded experiment runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
