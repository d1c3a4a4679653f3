// Package evaluator is the request/response surface of the backtest simulator
// and the walk-forward evaluator. Every call returns a fully formed response;
// problems with the data or the configuration are reported on the response's
// Error and ErrorCode fields and never panic.
package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/backtest"
	"github.com/rxtech-lab/argo-walkforward/internal/logger"
	"github.com/rxtech-lab/argo-walkforward/internal/metrics"
	"github.com/rxtech-lab/argo-walkforward/internal/strategy"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/internal/walkforward"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"go.uber.org/zap"
)

// Aliases so collaborators outside this module can build requests.
type (
	Bar               = types.Bar
	DateRange         = types.DateRange
	StrategyConfig    = types.StrategyConfig
	WalkForwardConfig = types.WalkForwardConfig
	SimulationResult  = types.SimulationResult
	WalkForwardReport = types.WalkForwardReport
	Callbacks         = walkforward.Callbacks
	Stage             = walkforward.Stage
)

// BacktestRequest asks for one simulation.
type BacktestRequest struct {
	Bars   []Bar          `json:"bars" yaml:"bars"`
	Config StrategyConfig `json:"config" yaml:"config"`
	// Range limits trading to a sub-range; the zero value means every bar.
	Range DateRange `json:"range" yaml:"range"`
	// PeriodsPerYear and RiskFreeAnnual default to 252 and 1% when zero.
	PeriodsPerYear int     `json:"periodsPerYear" yaml:"periods_per_year"`
	RiskFreeAnnual float64 `json:"riskFreeAnnual" yaml:"risk_free_annual"`
}

// BacktestResponse carries the simulation result.
type BacktestResponse struct {
	Result    SimulationResult `json:"result" yaml:"result"`
	Error     string           `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode int              `json:"errorCode,omitempty" yaml:"error_code,omitempty"`
}

// WalkForwardRequest asks for a full walk-forward evaluation.
type WalkForwardRequest struct {
	Bars        []Bar             `json:"bars" yaml:"bars"`
	Strategy    StrategyConfig    `json:"strategy" yaml:"strategy"`
	WalkForward WalkForwardConfig `json:"walkForward" yaml:"walk_forward"`
}

// WalkForwardResponse carries the run report.
type WalkForwardResponse struct {
	Report    WalkForwardReport `json:"report" yaml:"report"`
	Error     string            `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode int               `json:"errorCode,omitempty" yaml:"error_code,omitempty"`
}

type options struct {
	logger    *logger.Logger
	callbacks walkforward.Callbacks
	registry  strategy.Registry
}

// Option configures an evaluation.
type Option func(*options)

// WithLogger sets the logger used by the simulator and the runner.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCallbacks sets the walk-forward lifecycle hooks.
func WithCallbacks(c Callbacks) Option {
	return func(o *options) {
		o.callbacks = c
	}
}

// WithRegistry replaces the built-in strategy registry.
func WithRegistry(r strategy.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:   logger.NewNopLogger(),
		registry: strategy.DefaultRegistry(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = logger.NewNopLogger()
	}

	if o.registry == nil {
		o.registry = strategy.DefaultRegistry()
	}

	return o
}

// Backtest runs one simulation of req.Config over req.Bars.
func Backtest(ctx context.Context, req BacktestRequest, opts ...Option) (resp BacktestResponse) {
	o := newOptions(opts)

	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error("Backtest panicked", zap.String("panic", fmt.Sprint(rec)))
			resp.setError(errors.Newf(errors.ErrCodeSimulationFailed, "backtest panicked: %v", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		resp.setError(errors.Wrap(errors.ErrCodeCancelled, "backtest cancelled", err))

		return resp
	}

	if err := checkBars(req.Bars); err != nil {
		resp.setError(err)

		return resp
	}

	cfg := metrics.DefaultConfig()
	if req.PeriodsPerYear > 0 {
		cfg.PeriodsPerYear = req.PeriodsPerYear
	}

	if req.RiskFreeAnnual != 0 {
		cfg.RiskFreeAnnual = req.RiskFreeAnnual
	}

	session := backtest.NewSession(req.Bars,
		backtest.WithLogger(o.logger),
		backtest.WithRegistry(o.registry),
		backtest.WithMetricsConfig(cfg),
	)

	resp.Result = session.Simulate(req.Config, req.Range)
	resp.Error = resp.Result.Error
	resp.ErrorCode = resp.Result.ErrorCode

	return resp
}

// WalkForward plans windows over req.Bars, evaluates req.Strategy on each one
// and grades the run.
func WalkForward(ctx context.Context, req WalkForwardRequest, opts ...Option) (resp WalkForwardResponse) {
	o := newOptions(opts)

	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error("Walk-forward panicked", zap.String("panic", fmt.Sprint(rec)))
			resp.setError(errors.Newf(errors.ErrCodeWindowFailed, "walk-forward panicked: %v", rec))
		}
	}()

	if err := checkBars(req.Bars); err != nil {
		resp.setError(err)

		return resp
	}

	session := backtest.NewSession(req.Bars,
		backtest.WithLogger(o.logger),
		backtest.WithRegistry(o.registry),
		backtest.WithMetricsConfig(metrics.Config{
			PeriodsPerYear: req.WalkForward.PeriodsPerYear,
			RiskFreeAnnual: req.WalkForward.RiskFreeAnnual,
		}),
	)

	runner := walkforward.NewRunner(
		walkforward.WithRunnerLogger(o.logger),
		walkforward.WithCallbacks(o.callbacks),
		walkforward.WithStrategyRegistry(o.registry),
	)

	resp.Report = runner.Run(ctx, session, req.Strategy, req.WalkForward)
	resp.Error = resp.Report.Error
	resp.ErrorCode = resp.Report.ErrorCode

	return resp
}

// StrategyInfo describes one registered strategy.
type StrategyInfo struct {
	ID     types.StrategyID     `json:"id" yaml:"id"`
	Roles  []strategy.Role      `json:"roles" yaml:"roles"`
	Params []strategy.ParamSpec `json:"params" yaml:"params"`
}

// Strategies lists the registered strategies in id order.
func Strategies(opts ...Option) []StrategyInfo {
	o := newOptions(opts)

	ids := o.registry.List()
	out := make([]StrategyInfo, 0, len(ids))

	for _, id := range ids {
		s, err := o.registry.Get(id)
		if err != nil {
			continue
		}

		out = append(out, StrategyInfo{ID: id, Roles: s.Roles(), Params: s.Params()})
	}

	return out
}

func checkBars(bars []Bar) error {
	if len(bars) == 0 {
		return errors.NewInsufficientDataError(1, 0, "no bars supplied")
	}

	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return errors.Newf(errors.ErrCodeInvalidParameter,
				"bars must have ascending unique dates: bar %d (%s) does not follow %s",
				i, bars[i].Date.Format(time.DateOnly), bars[i-1].Date.Format(time.DateOnly))
		}
	}

	return nil
}

func (r *BacktestResponse) setError(err error) {
	r.Error = err.Error()
	r.ErrorCode = int(errors.GetCode(err))
}

func (r *WalkForwardResponse) setError(err error) {
	r.Error = err.Error()
	r.ErrorCode = int(errors.GetCode(err))
}
