package walkforward

import (
	"context"
	"math"
	"testing"

	"github.com/rxtech-lab/argo-walkforward/internal/strategy"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/mocks"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OptimizerTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	sim      *mocks.MockSimulator
	training types.DateRange
}

func TestOptimizerSuite(t *testing.T) {
	suite.Run(t, new(OptimizerTestSuite))
}

func (suite *OptimizerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.sim = mocks.NewMockSimulator(suite.ctrl)
	suite.training = types.DateRange{Start: date(2010, 1, 1), End: date(2012, 12, 31)}
}

func param(p types.Params, name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}

	return def
}

// scoring makes Simulate report a Sharpe ratio computed from the entry params.
func (suite *OptimizerTestSuite) scoring(score func(cfg types.StrategyConfig) float64) {
	suite.sim.EXPECT().Simulate(gomock.Any(), suite.training).DoAndReturn(
		func(cfg types.StrategyConfig, r types.DateRange) types.SimulationResult {
			v := types.Number(score(cfg))

			return types.SimulationResult{Range: r, SharpeRatio: v, MaxDrawdownPct: v}
		}).AnyTimes()
}

func optimization(scopes ...types.OptimizationScope) types.OptimizationConfig {
	return types.OptimizationConfig{
		Enabled:            true,
		TargetMetric:       types.TargetSharpeRatio,
		TrialsPerParameter: 5,
		IterationLimit:     3,
		Scopes:             scopes,
		Workers:            1,
	}
}

func (suite *OptimizerTestSuite) TestCoordinateAscent() {
	suite.scoring(func(cfg types.StrategyConfig) float64 {
		short := param(cfg.EntryParams, "shortPeriod", 5)
		long := param(cfg.EntryParams, "longPeriod", 20)

		return -(short-10)*(short-10) - (long-65)*(long-65)/100
	})

	base := types.DefaultStrategyConfig()
	opt := NewOptimizer(nil, nil)

	tests := []struct {
		name    string
		workers int
	}{
		{name: "sequential", workers: 1},
		{name: "parallel", workers: 4},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			cfg := optimization(types.ScopeEntry)
			cfg.Workers = tc.workers

			got, summary, err := opt.Optimize(context.Background(), suite.sim, base, suite.training, cfg)
			suite.Require().NoError(err)

			suite.Equal(10.0, got.EntryParams["shortPeriod"])
			suite.Equal(65.0, got.EntryParams["longPeriod"])
			suite.Nil(base.EntryParams, "base must not be mutated")

			suite.Equal(2, summary.Iterations)
			suite.Equal(20, summary.Trials)
			suite.Equal(0, summary.Failures)
			suite.Equal(1, summary.TargetedGroups)
			suite.Equal(1, summary.ChangedGroups)
			suite.InDelta(-45.25, summary.BaselineScore.Float(), 1e-9)
			suite.InDelta(0, summary.BestScore.Float(), 1e-9)
			suite.Equal([]types.ParamChange{
				{Scope: types.ScopeEntry, Name: "shortPeriod", From: 5, To: 10},
				{Scope: types.ScopeEntry, Name: "longPeriod", From: 20, To: 65},
			}, summary.Changes)
		})
	}
}

func (suite *OptimizerTestSuite) TestMinimizesDrawdown() {
	suite.scoring(func(cfg types.StrategyConfig) float64 {
		return math.Abs(param(cfg.EntryParams, "shortPeriod", 5) - 17)
	})

	cfg := optimization(types.ScopeEntry)
	cfg.TargetMetric = types.TargetMaxDrawdownPct

	got, summary, err := NewOptimizer(nil, nil).Optimize(context.Background(), suite.sim, types.DefaultStrategyConfig(), suite.training, cfg)
	suite.Require().NoError(err)
	suite.Equal(17.0, got.EntryParams["shortPeriod"])
	suite.Len(summary.Changes, 1)
	suite.Equal(0.0, summary.BestScore.Float())
}

func (suite *OptimizerTestSuite) TestRiskScope() {
	suite.scoring(func(cfg types.StrategyConfig) float64 {
		return -math.Abs(cfg.StopLossPct - 10)
	})

	got, summary, err := NewOptimizer(nil, nil).Optimize(context.Background(), suite.sim, types.DefaultStrategyConfig(), suite.training, optimization(types.ScopeRisk))
	suite.Require().NoError(err)
	suite.Equal(10.0, got.StopLossPct)
	suite.Equal(0.0, got.TakeProfitPct)
	suite.Equal(1, summary.ChangedGroups)
}

func (suite *OptimizerTestSuite) TestFailedCandidatesAreSkipped() {
	suite.sim.EXPECT().Simulate(gomock.Any(), suite.training).DoAndReturn(
		func(cfg types.StrategyConfig, r types.DateRange) types.SimulationResult {
			short := param(cfg.EntryParams, "shortPeriod", 5)

			switch short {
			case 10:
				panic("candidate blew up")
			case 17:
				return types.SimulationResult{Error: "boom", ErrorCode: int(errors.ErrCodeStrategyRuntimeError)}
			}

			return types.SimulationResult{SharpeRatio: types.Number(-(short - 10) * (short - 10))}
		}).AnyTimes()

	base := types.DefaultStrategyConfig()

	got, summary, err := NewOptimizer(nil, nil).Optimize(context.Background(), suite.sim, base, suite.training, optimization(types.ScopeEntry))
	suite.Require().NoError(err)
	suite.Equal(base, got)
	suite.Equal(1, summary.Iterations)
	suite.Equal(10, summary.Trials)
	suite.Equal(2, summary.Failures)
	suite.Equal(0, summary.ChangedGroups)
	suite.Empty(summary.Changes)
	suite.Empty(summary.Error)
	suite.Zero(summary.ErrorCode)
}

func (suite *OptimizerTestSuite) TestAllCandidatesFail() {
	suite.sim.EXPECT().Simulate(gomock.Any(), suite.training).Return(types.SimulationResult{Insufficient: true}).AnyTimes()

	base := types.DefaultStrategyConfig()

	got, summary, err := NewOptimizer(nil, nil).Optimize(context.Background(), suite.sim, base, suite.training, optimization(types.ScopeEntry, types.ScopeExit))
	suite.Require().NoError(err)
	suite.Equal(base, got)
	suite.False(summary.BaselineScore.IsDefined())
	suite.False(summary.BestScore.IsDefined())
	suite.Equal(summary.Trials, summary.Failures)
	suite.Equal(2, summary.TargetedGroups)
	suite.Equal(int(errors.ErrCodeOptimizationFailed), summary.ErrorCode)
	suite.Contains(summary.Error, "candidates failed")
}

func (suite *OptimizerTestSuite) TestShortScopesNeedShorting() {
	suite.scoring(func(types.StrategyConfig) float64 { return 1 })

	_, summary, err := NewOptimizer(nil, nil).Optimize(context.Background(), suite.sim, types.DefaultStrategyConfig(), suite.training,
		optimization(types.ScopeShortEntry, types.ScopeShortExit))
	suite.Require().NoError(err)
	suite.Equal(0, summary.TargetedGroups)
	suite.Equal(0, summary.Trials)
}

func (suite *OptimizerTestSuite) TestCancelled() {
	suite.scoring(func(types.StrategyConfig) float64 { return 1 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewOptimizer(nil, nil).Optimize(ctx, suite.sim, types.DefaultStrategyConfig(), suite.training, optimization(types.ScopeEntry))
	suite.True(errors.HasCode(err, errors.ErrCodeCancelled))
}

func (suite *OptimizerTestSuite) TestCandidates() {
	tests := []struct {
		name string
		spec strategy.ParamSpec
		n    int
		want []float64
	}{
		{name: "integer range", spec: strategy.ParamSpec{Min: 3, Max: 30, Integer: true}, n: 5, want: []float64{3, 10, 17, 23, 30}},
		{name: "integer dedupe", spec: strategy.ParamSpec{Min: 1, Max: 3, Integer: true}, n: 5, want: []float64{1, 2, 3}},
		{name: "continuous", spec: strategy.ParamSpec{Min: 0, Max: 20}, n: 5, want: []float64{0, 5, 10, 15, 20}},
		{name: "degenerate", spec: strategy.ParamSpec{Min: 4, Max: 4}, n: 5, want: []float64{4}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.want, Candidates(tc.spec, tc.n))
		})
	}
}
