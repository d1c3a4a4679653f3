package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/config"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/mocks"
	"github.com/rxtech-lab/argo-walkforward/pkg/evaluator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) types.WalkForwardReport {
	t.Helper()

	resp := evaluator.WalkForward(context.Background(), evaluator.WalkForwardRequest{
		Bars:        mocks.GenerateYears(42, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), 7),
		Strategy:    types.DefaultStrategyConfig(),
		WalkForward: types.DefaultWalkForwardConfig(),
	})
	require.Empty(t, resp.Error)

	return resp.Report
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		value    types.Number
		expected string
	}{
		{name: "finite", value: 1.23456, expected: "1.23"},
		{name: "undefined", value: types.Undefined, expected: "n/a"},
		{name: "positive infinity", value: types.Number(math.Inf(1)), expected: "+inf"},
		{name: "negative infinity", value: types.Number(math.Inf(-1)), expected: "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.value, 2))
		})
	}
}

func TestWindowRows(t *testing.T) {
	report := sampleReport(t)

	rows := WindowRows(report.Windows)
	require.Len(t, rows, len(report.Windows))

	for i, row := range rows {
		assert.Len(t, row, len(WindowColumns()))
		assert.Equal(t, report.Windows[i].Window.TestingStart.Format(dateLayout)+".."+report.Windows[i].Window.TestingEnd.Format(dateLayout), row[1])
		assert.Contains(t, []string{"pass", "fail", "insufficient", "error"}, row[len(row)-1])
	}

	failed := []types.WindowResult{{Error: "boom"}}
	assert.Equal(t, "error", WindowRows(failed)[0][10])
}

func TestRenderWalkForward(t *testing.T) {
	report := sampleReport(t)

	out := RenderWalkForward(report)
	assert.Contains(t, out, "Walk-forward summary")
	assert.Contains(t, out, report.RunID)
	assert.Contains(t, out, "Testing")

	failed := types.WalkForwardReport{
		Error:      "1 of 1 planned windows cannot be evaluated",
		ErrorCode:  900,
		PlanIssues: []types.PlanIssue{{WindowIndex: 0, Reason: "testing range has no bars"}},
		Aggregate:  types.AggregateReport{Grade: types.GradeFail},
	}

	out = RenderWalkForward(failed)
	assert.Contains(t, out, "testing range has no bars")
	assert.Contains(t, out, "FAIL")
}

func TestRenderSimulationFailed(t *testing.T) {
	out := RenderSimulation("Backtest", types.SimulationResult{Insufficient: true, Error: "need 21 bars"})
	assert.Contains(t, out, "need 21 bars")
}

func TestReportRoundTrip(t *testing.T) {
	report := sampleReport(t)

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, writeYAML(path, report))

	loaded, err := loadReport(path)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, loaded.RunID)
	assert.Len(t, loaded.Windows, len(report.Windows))
	assert.Equal(t, report.Aggregate.Grade, loaded.Aggregate.Grade)

	_, err = loadReport(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	t.Run("schema", func(t *testing.T) {
		var out bytes.Buffer

		cmd := newCommand()
		cmd.Writer = &out

		require.NoError(t, cmd.Run(context.Background(), []string{"walkforward", "schema"}))
		assert.Contains(t, out.String(), "argo-walkforward-config")
	})

	t.Run("strategies", func(t *testing.T) {
		var out bytes.Buffer

		cmd := newCommand()
		cmd.Writer = &out

		require.NoError(t, cmd.Run(context.Background(), []string{"walkforward", "strategies"}))
		assert.Contains(t, out.String(), "ma_cross")
		assert.Contains(t, out.String(), "shortPeriod")
	})

	t.Run("init", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "config")

		var out bytes.Buffer

		cmd := newCommand()
		cmd.Writer = &out

		require.NoError(t, cmd.Run(context.Background(), []string{"walkforward", "init", dir}))
		assert.FileExists(t, filepath.Join(dir, schemaName))

		body, err := os.ReadFile(filepath.Join(dir, sampleConfigName))
		require.NoError(t, err)
		assert.Contains(t, string(body), "# yaml-language-server: $schema="+schemaName)

		cfg, err := config.Parse(body)
		require.NoError(t, err)
		assert.Equal(t, config.Default().Strategy, cfg.Strategy)
	})

	t.Run("generate then backtest", func(t *testing.T) {
		dir := t.TempDir()
		bars := filepath.Join(dir, "bars.parquet")

		var out bytes.Buffer

		cmd := newCommand()
		cmd.Writer = &out

		require.NoError(t, cmd.Run(context.Background(), []string{"walkforward", "generate", "-o", bars, "--years", "2"}))
		assert.Contains(t, out.String(), "SYNTH")

		cfgPath := filepath.Join(dir, "run.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("data:\n  path: "+bars+"\n"), 0o600))

		out.Reset()

		cmd = newCommand()
		cmd.Writer = &out

		require.NoError(t, cmd.Run(context.Background(), []string{"walkforward", "backtest", "-c", cfgPath}))
		assert.Contains(t, out.String(), "Annualized return")
	})

	t.Run("walkforward from config", func(t *testing.T) {
		dir := t.TempDir()
		bars := filepath.Join(dir, "bars.csv")
		writeBarsCSV(t, bars, mocks.GenerateYears(7, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), 7))

		cfgPath := filepath.Join(dir, "run.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("data:\n  path: "+bars+"\n"), 0o600))

		reportPath := filepath.Join(dir, "report.yaml")

		var out, errOut bytes.Buffer

		cmd := newCommand()
		cmd.Writer = &out
		cmd.ErrWriter = &errOut

		require.NoError(t, cmd.Run(context.Background(), []string{"walkforward", "walkforward", "-c", cfgPath, "-o", reportPath}))
		assert.Contains(t, out.String(), "Walk-forward summary")

		report, err := loadReport(reportPath)
		require.NoError(t, err)
		assert.Len(t, report.Windows, 4)
	})
}

func writeBarsCSV(t *testing.T, path string, bars []types.Bar) {
	t.Helper()

	var b bytes.Buffer

	b.WriteString("time,open,high,low,close,volume\n")

	for _, bar := range bars {
		b.WriteString(bar.Date.Format(dateLayout))
		b.WriteString(",")
		b.WriteString(formatFloat(bar.Open) + "," + formatFloat(bar.High) + "," + formatFloat(bar.Low) + "," + formatFloat(bar.Close) + "," + formatFloat(bar.Volume))
		b.WriteString("\n")
	}

	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o600))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
