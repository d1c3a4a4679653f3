package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-walkforward/internal/config"
	"github.com/rxtech-lab/argo-walkforward/internal/datasource"
	"github.com/rxtech-lab/argo-walkforward/internal/logger"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/internal/version"
	"github.com/rxtech-lab/argo-walkforward/internal/walkforward"
	"github.com/rxtech-lab/argo-walkforward/pkg/evaluator"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	level, err := zapcore.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	return logger.NewLoggerWithLevel(level)
}

// loadRun reads the config document and the bars it points at.
func loadRun(cmd *cli.Command, log *logger.Logger) (config.Config, []types.Bar, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}

	loader, err := datasource.NewDuckDBLoader(cfg.Data.Database, log)
	if err != nil {
		return config.Config{}, nil, err
	}
	defer loader.Close()

	bars, err := config.LoadBars(loader, cfg.Data)
	if err != nil {
		return config.Config{}, nil, err
	}

	log.Info("Bars loaded",
		zap.String("path", cfg.Data.Path),
		zap.Int("bars", len(bars)),
		zap.Time("first", bars[0].Date),
		zap.Time("last", bars[len(bars)-1].Date),
	)

	return cfg, bars, nil
}

func writeYAML(path string, v any) error {
	if path == "" {
		return nil
	}

	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, bars, err := loadRun(cmd, log)
	if err != nil {
		return err
	}

	req := evaluator.BacktestRequest{
		Bars:           bars,
		Config:         cfg.Strategy,
		PeriodsPerYear: cfg.WalkForward.PeriodsPerYear,
		RiskFreeAnnual: cfg.WalkForward.RiskFreeAnnual,
	}

	if cmd.IsSet("start") {
		req.Range.Start = cmd.Timestamp("start")
		req.Range.End = bars[len(bars)-1].Date
	}

	if cmd.IsSet("end") {
		if req.Range.Start.IsZero() {
			req.Range.Start = bars[0].Date
		}

		req.Range.End = cmd.Timestamp("end")
	}

	resp := evaluator.Backtest(ctx, req, evaluator.WithLogger(log))

	fmt.Fprintln(cmd.Root().Writer, RenderSimulation("Backtest", resp.Result))

	if err := writeYAML(cmd.String("output"), resp); err != nil {
		return err
	}

	if resp.Error != "" {
		return cli.Exit(resp.Error, 1)
	}

	return nil
}

// progressCallbacks drives a progress bar from the run lifecycle.
func progressCallbacks(w io.Writer) evaluator.Callbacks {
	var bar *progressbar.ProgressBar

	onRunStart := walkforward.OnRunStartCallback(func(runID string, windows []types.Window) error {
		bar = progressbar.NewOptions(len(windows),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(fmt.Sprintf("Run %s", runID[:8])),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)

		return nil
	})

	onStage := walkforward.OnStageCallback(func(window types.Window, stage walkforward.Stage) {
		if bar != nil {
			bar.Describe(fmt.Sprintf("Window %d: %s", window.Index, stage))
		}
	})

	onWindowEnd := walkforward.OnWindowEndCallback(func(types.WindowResult) {
		if bar != nil {
			_ = bar.Add(1)
		}
	})

	onRunEnd := walkforward.OnRunEndCallback(func(types.WalkForwardReport) {
		if bar != nil {
			_ = bar.Finish()
		}
	})

	return evaluator.Callbacks{
		OnRunStart:  &onRunStart,
		OnStage:     &onStage,
		OnWindowEnd: &onWindowEnd,
		OnRunEnd:    &onRunEnd,
	}
}

func walkForwardAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, bars, err := loadRun(cmd, log)
	if err != nil {
		return err
	}

	wf := cfg.WalkForward
	if cmd.IsSet("concurrency") {
		wf.MaxConcurrentWindows = int(cmd.Int("concurrency"))
	}

	if cmd.Bool("optimize") {
		wf.Optimization.Enabled = true
	}

	resp := evaluator.WalkForward(ctx, evaluator.WalkForwardRequest{
		Bars:        bars,
		Strategy:    cfg.Strategy,
		WalkForward: wf,
	}, evaluator.WithLogger(log), evaluator.WithCallbacks(progressCallbacks(cmd.Root().ErrWriter)))

	fmt.Fprintln(cmd.Root().Writer, RenderWalkForward(resp.Report))

	if err := writeYAML(cmd.String("output"), resp.Report); err != nil {
		return err
	}

	if resp.Error != "" {
		return cli.Exit(resp.Error, 1)
	}

	return nil
}

func strategiesAction(_ context.Context, cmd *cli.Command) error {
	fmt.Fprint(cmd.Root().Writer, RenderStrategies(evaluator.Strategies()))

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	cfg := &config.Config{}

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Fprintln(cmd.Root().Writer, schema)

	return nil
}

// loadReport reads a report written by the walkforward command.
func loadReport(path string) (types.WalkForwardReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.WalkForwardReport{}, fmt.Errorf("failed to read report: %w", err)
	}

	var report types.WalkForwardReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return types.WalkForwardReport{}, fmt.Errorf("failed to parse report: %w", err)
	}

	if err := version.CheckReportCompatibility(version.GetVersion(), report.Version); err != nil {
		return types.WalkForwardReport{}, fmt.Errorf("cannot view %s: %w", path, err)
	}

	return report, nil
}

func viewAction(ctx context.Context, cmd *cli.Command) error {
	report, err := loadReport(cmd.Args().First())
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(report), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}

	return nil
}
