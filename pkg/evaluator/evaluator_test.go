package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/strategy"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/internal/walkforward"
	"github.com/rxtech-lab/argo-walkforward/mocks"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EvaluatorTestSuite struct {
	suite.Suite
	bars []Bar
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (suite *EvaluatorTestSuite) SetupSuite() {
	suite.bars = mocks.GenerateYears(42, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), 7)
}

func (suite *EvaluatorTestSuite) TestBacktest() {
	resp := Backtest(context.Background(), BacktestRequest{
		Bars:   suite.bars,
		Config: types.DefaultStrategyConfig(),
	})

	suite.Empty(resp.Error)
	suite.Zero(resp.ErrorCode)
	suite.False(resp.Result.Failed())
	suite.Len(resp.Result.EquityCurve, len(suite.bars))
}

func (suite *EvaluatorTestSuite) TestBacktestErrors() {
	invalid := types.DefaultStrategyConfig()
	invalid.PositionSizePct = 0

	unsorted := []Bar{suite.bars[1], suite.bars[0]}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		req  BacktestRequest
		code errors.ErrorCode
	}{
		{
			name: "no bars",
			ctx:  context.Background(),
			req:  BacktestRequest{Config: types.DefaultStrategyConfig()},
			code: errors.ErrCodeInsufficientData,
		},
		{
			name: "unsorted bars",
			ctx:  context.Background(),
			req:  BacktestRequest{Bars: unsorted, Config: types.DefaultStrategyConfig()},
			code: errors.ErrCodeInvalidParameter,
		},
		{
			name: "invalid config",
			ctx:  context.Background(),
			req:  BacktestRequest{Bars: suite.bars, Config: invalid},
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "too few bars for the lookback",
			ctx:  context.Background(),
			req:  BacktestRequest{Bars: suite.bars[:10], Config: types.DefaultStrategyConfig()},
			code: errors.ErrCodeInsufficientData,
		},
		{
			name: "cancelled",
			ctx:  cancelled,
			req:  BacktestRequest{Bars: suite.bars, Config: types.DefaultStrategyConfig()},
			code: errors.ErrCodeCancelled,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			resp := Backtest(tc.ctx, tc.req)
			suite.NotEmpty(resp.Error)
			suite.Equal(int(tc.code), resp.ErrorCode)
		})
	}
}

func (suite *EvaluatorTestSuite) TestBacktestWithRegistry() {
	resp := Backtest(context.Background(), BacktestRequest{
		Bars:   suite.bars,
		Config: types.DefaultStrategyConfig(),
	}, WithRegistry(strategy.NewRegistry()))

	suite.Equal(int(errors.ErrCodeStrategyNotFound), resp.ErrorCode)
}

func (suite *EvaluatorTestSuite) TestWalkForward() {
	var ended []int

	onWindowEnd := walkforward.OnWindowEndCallback(func(result types.WindowResult) {
		ended = append(ended, result.Window.Index)
	})

	var final *WalkForwardReport

	onRunEnd := walkforward.OnRunEndCallback(func(report types.WalkForwardReport) {
		final = &report
	})

	resp := WalkForward(context.Background(), WalkForwardRequest{
		Bars:        suite.bars,
		Strategy:    types.DefaultStrategyConfig(),
		WalkForward: types.DefaultWalkForwardConfig(),
	}, WithCallbacks(Callbacks{OnWindowEnd: &onWindowEnd, OnRunEnd: &onRunEnd}))

	suite.Empty(resp.Error)
	suite.Len(resp.Report.Windows, 4)
	suite.Equal([]int{0, 1, 2, 3}, ended)
	suite.Require().NotNil(final)
	suite.Equal(resp.Report.RunID, final.RunID)
	suite.Contains([]types.Grade{types.GradePass, types.GradeObserve, types.GradeFail}, resp.Report.Aggregate.Grade)
}

func (suite *EvaluatorTestSuite) TestWalkForwardErrors() {
	resp := WalkForward(context.Background(), WalkForwardRequest{
		Strategy:    types.DefaultStrategyConfig(),
		WalkForward: types.DefaultWalkForwardConfig(),
	})
	suite.Equal(int(errors.ErrCodeInsufficientData), resp.ErrorCode)

	wf := types.DefaultWalkForwardConfig()
	wf.WindowCount = 0

	resp = WalkForward(context.Background(), WalkForwardRequest{
		Bars:        suite.bars,
		Strategy:    types.DefaultStrategyConfig(),
		WalkForward: wf,
	})
	suite.Equal(int(errors.ErrCodeInvalidConfiguration), resp.ErrorCode)
	suite.Equal(resp.Report.Error, resp.Error)
}

func (suite *EvaluatorTestSuite) TestStrategies() {
	infos := Strategies()
	suite.Len(infos, 11)

	found := false

	for _, info := range infos {
		if info.ID != types.StrategyMACross {
			continue
		}

		found = true

		suite.Contains(info.Roles, strategy.RoleEntry)
		suite.Len(info.Params, 2)
	}

	suite.True(found)

	suite.Empty(Strategies(WithRegistry(strategy.NewRegistry())))
}
