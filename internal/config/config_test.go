package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/datasource"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/mocks"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

const document = `
strategy:
  entry_strategy: rsi
  entry_params:
    period: 10
  exit_strategy: trailing_stop
  stop_loss_pct: 5
walk_forward:
  mode: manual
  window_count: 3
  training_months: 12
  testing_months: 6
  step_months: 6
  optimization:
    enabled: true
data:
  path: bars.parquet
  symbol: SPY
  start: 2015-01-01
`

func (suite *ConfigTestSuite) TestParseOverlaysDefaults() {
	cfg, err := Parse([]byte(document))
	suite.Require().NoError(err)

	suite.Equal(types.StrategyRSI, cfg.Strategy.EntryStrategy)
	suite.Equal(types.Params{"period": 10}, cfg.Strategy.EntryParams)
	suite.Equal(types.StrategyTrailingStop, cfg.Strategy.ExitStrategy)
	suite.Equal(5.0, cfg.Strategy.StopLossPct)
	// untouched fields keep their defaults
	suite.Equal(100.0, cfg.Strategy.PositionSizePct)
	suite.Equal(100000.0, cfg.Strategy.InitialCapital)
	suite.Equal(types.TradeTimingClose, cfg.Strategy.TradeTiming)

	suite.Equal(types.PlanModeManual, cfg.WalkForward.Mode)
	suite.Equal(3, cfg.WalkForward.WindowCount)
	suite.Equal(12, cfg.WalkForward.TrainingMonths)
	suite.True(cfg.WalkForward.Optimization.Enabled)
	suite.Equal(types.TargetSharpeRatio, cfg.WalkForward.Optimization.TargetMetric)
	suite.Equal(252, cfg.WalkForward.PeriodsPerYear)
	suite.Equal(types.DefaultThresholds(), cfg.WalkForward.Thresholds)

	suite.Equal("bars.parquet", cfg.Data.Path)
	suite.Equal(":memory:", cfg.Data.Database)
	suite.True(cfg.Data.Symbol.IsSome())
	suite.Equal("SPY", cfg.Data.Symbol.Unwrap())
	suite.True(cfg.Data.Start.IsSome())
	suite.Equal(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Data.Start.Unwrap())
	suite.True(cfg.Data.End.IsNone())
}

func (suite *ConfigTestSuite) TestParseErrors() {
	tests := []struct {
		name string
		doc  string
		code errors.ErrorCode
	}{
		{
			name: "malformed yaml",
			doc:  "strategy: [",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "missing data path",
			doc:  "strategy:\n  entry_strategy: rsi\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "unknown plan mode",
			doc:  "walk_forward:\n  mode: sideways\ndata:\n  path: x.csv\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "shorting without short strategies",
			doc:  "strategy:\n  enable_shorting: true\ndata:\n  path: x.csv\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "end before start",
			doc:  "data:\n  path: x.csv\n  start: 2020-01-01\n  end: 2019-01-01\n",
			code: errors.ErrCodeInvalidDateRange,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := Parse([]byte(tc.doc))
			suite.Require().Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (suite *ConfigTestSuite) TestLoad() {
	path := filepath.Join(suite.T().TempDir(), "run.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(document), 0o600))

	cfg, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal("bars.parquet", cfg.Data.Path)

	_, err = Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *ConfigTestSuite) TestDataConfigRoundTrip() {
	cfg, err := Parse([]byte(document))
	suite.Require().NoError(err)

	out, err := yaml.Marshal(cfg.Data)
	suite.Require().NoError(err)
	suite.NotContains(string(out), "end:")

	var data DataConfig
	suite.Require().NoError(yaml.Unmarshal(out, &data))
	suite.Equal(cfg.Data, data)
}

func (suite *ConfigTestSuite) TestLoadBars() {
	ctrl := gomock.NewController(suite.T())
	loader := mocks.NewMockLoader(ctrl)

	cfg, err := Parse([]byte(document))
	suite.Require().NoError(err)

	bars := mocks.Line(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), 3, 100, 1)

	gomock.InOrder(
		loader.EXPECT().Initialize("bars.parquet").Return(nil),
		loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(q datasource.Query) ([]types.Bar, error) {
			suite.Equal("SPY", q.Symbol.Unwrap())
			suite.True(q.End.IsNone())

			return bars, nil
		}),
	)

	got, err := LoadBars(loader, cfg.Data)
	suite.Require().NoError(err)
	suite.Equal(bars, got)
}

func (suite *ConfigTestSuite) TestLoadBarsInitializeError() {
	ctrl := gomock.NewController(suite.T())
	loader := mocks.NewMockLoader(ctrl)

	loader.EXPECT().Initialize("missing.parquet").Return(errors.New(errors.ErrCodeDataNotFound, "missing"))

	_, err := LoadBars(loader, DataConfig{Path: "missing.parquet"})
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeDataNotFound, errors.GetCode(err))
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	cfg := &Config{}

	schema, err := cfg.GenerateSchemaJSON()
	suite.Require().NoError(err)

	suite.Contains(schema, `"title": "argo-walkforward-config"`)
	suite.Contains(schema, `"walkForward"`)
	suite.Contains(schema, `"entryStrategy"`)
	suite.Contains(schema, `"format": "date-time"`)
}
