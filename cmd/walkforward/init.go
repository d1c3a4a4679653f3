package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/config"
	"github.com/rxtech-lab/argo-walkforward/internal/datasource"
	"github.com/rxtech-lab/argo-walkforward/mocks"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "walkforward-config.json"
	sampleConfigName = "walkforward-config.yaml"
)

// initAction writes the config schema and, if missing, a sample config into a directory.
func initAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = "config"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfg := config.Default()
	cfg.Data.Path = filepath.Join("data", "bars.parquet")

	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	schemaPath := filepath.Join(dir, schemaName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "Schema written to %s\n", schemaPath)

	samplePath := filepath.Join(dir, sampleConfigName)
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode sample config: %w", err)
	}

	body = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), body...)
	if err := os.WriteFile(samplePath, body, 0o644); err != nil {
		return fmt.Errorf("failed to write sample config: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "Sample config written to %s\n", samplePath)

	return nil
}

// generateAction writes synthetic daily bars for trying the tool without market data.
func generateAction(_ context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	bars := mocks.GenerateYears(int64(cmd.Int("seed")), cmd.Timestamp("start"), int(cmd.Int("years")))

	writer := datasource.NewDuckDBWriter(cmd.String("output"), log)
	defer writer.Close()

	if err := writer.Initialize(); err != nil {
		return err
	}

	symbol := cmd.String("symbol")
	for _, bar := range bars {
		if err := writer.Write(symbol, bar); err != nil {
			return err
		}
	}

	path, err := writer.Finalize()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Wrote %d bars for %s to %s\n", len(bars), symbol, path)

	return nil
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output `FILE` (.parquet or .csv)",
			Value:   filepath.Join("data", "bars.parquet"),
		},
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "Symbol stored with every bar",
			Value: "SYNTH",
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "First date in `YYYY-MM-DD` format",
			Value:  time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
			Config: cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
		},
		&cli.IntFlag{
			Name:  "years",
			Usage: "Number of calendar years to generate",
			Value: 7,
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "Random seed",
			Value: 42,
		},
	}
}
