package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-walkforward/internal/version"
	"github.com/urfave/cli/v3"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "Path to the run config `FILE` (see the schema command)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the full result as YAML to `FILE`",
		},
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "walkforward",
		Usage:   "Backtest trading strategies and grade them with walk-forward analysis",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "backtest",
				Usage: "Run one simulation over the configured bars",
				Flags: append(runFlags(),
					&cli.TimestampFlag{
						Name:   "start",
						Usage:  "Trade from `YYYY-MM-DD`; earlier bars only warm up indicators",
						Config: cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
					},
					&cli.TimestampFlag{
						Name:   "end",
						Usage:  "Stop trading after `YYYY-MM-DD`",
						Config: cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
					},
				),
				Action: backtestAction,
			},
			{
				Name:    "walkforward",
				Aliases: []string{"wf"},
				Usage:   "Run a walk-forward evaluation and grade the strategy",
				Flags: append(runFlags(),
					&cli.BoolFlag{
						Name:  "optimize",
						Usage: "Enable per-window parameter optimization",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Evaluate up to `N` windows at once",
						Value: 1,
					},
				),
				Action: walkForwardAction,
			},
			{
				Name:      "init",
				Usage:     "Write the config schema and a sample config into DIR (default ./config)",
				ArgsUsage: "DIR",
				Action:    initAction,
			},
			{
				Name:   "generate",
				Usage:  "Write synthetic daily bars to a parquet or CSV file",
				Flags:  generateFlags(),
				Action: generateAction,
			},
			{
				Name:   "strategies",
				Usage:  "List the built-in strategies and their parameters",
				Action: strategiesAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the run config",
				Action: schemaAction,
			},
			{
				Name:      "view",
				Usage:     "Browse a walk-forward report interactively",
				ArgsUsage: "REPORT",
				Action:    viewAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
