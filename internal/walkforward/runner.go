package walkforward

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-walkforward/internal/logger"
	"github.com/rxtech-lab/argo-walkforward/internal/strategy"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/internal/version"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stage names a step inside one window.
type Stage string

const (
	StageTraining     Stage = "training"
	StageOptimization Stage = "optimization"
	StageTesting      Stage = "testing"
	StageAnalysis     Stage = "analysis"
)

// OnRunStartCallback is called once the windows are planned, before any runs.
// Returning an error aborts the run.
type OnRunStartCallback func(runID string, windows []types.Window) error

// OnWindowStartCallback is called before a window is evaluated. Returning an
// error skips the window and every window not yet started.
type OnWindowStartCallback func(window types.Window, total int) error

// OnStageCallback is called on every stage transition inside a window.
type OnStageCallback func(window types.Window, stage Stage)

// OnWindowEndCallback is called after a window is evaluated or has failed.
type OnWindowEndCallback func(result types.WindowResult)

// OnRunEndCallback is called when the run completes (always called via defer).
type OnRunEndCallback func(report types.WalkForwardReport)

// Callbacks holds the lifecycle hooks of a walk-forward run.
// All fields are pointers - nil means no callback will be invoked.
type Callbacks struct {
	OnRunStart    *OnRunStartCallback
	OnWindowStart *OnWindowStartCallback
	OnStage       *OnStageCallback
	OnWindowEnd   *OnWindowEndCallback
	OnRunEnd      *OnRunEndCallback
}

// Runner evaluates a strategy configuration over walk-forward windows.
type Runner struct {
	optimizer *Optimizer
	logger    *logger.Logger
	callbacks Callbacks
	validate  *validator.Validate
	// callbackMu serializes callbacks when windows run concurrently.
	callbackMu sync.Mutex
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger.
func WithRunnerLogger(l *logger.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCallbacks sets the lifecycle hooks.
func WithCallbacks(c Callbacks) RunnerOption {
	return func(r *Runner) {
		r.callbacks = c
	}
}

// WithStrategyRegistry sets the registry the optimizer reads parameter specs from.
func WithStrategyRegistry(reg strategy.Registry) RunnerOption {
	return func(r *Runner) {
		if reg != nil {
			r.optimizer.registry = reg
		}
	}
}

// NewRunner creates a runner with the default registry and a no-op logger.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:   logger.NewNopLogger(),
		validate: validator.New(),
	}
	r.optimizer = NewOptimizer(nil, r.logger)

	for _, opt := range opts {
		opt(r)
	}

	r.optimizer.logger = r.logger

	return r
}

// Run plans the windows, evaluates each one and grades the run. It never
// panics or returns an error: failures are reported on the returned report.
// A plan with issues is reported without evaluating any window. Cancellation
// is checked before each window starts.
func (r *Runner) Run(ctx context.Context, sim Simulator, cfg types.StrategyConfig, wf types.WalkForwardConfig) (report types.WalkForwardReport) {
	report = types.WalkForwardReport{
		RunID:   uuid.New().String(),
		Version: version.GetVersion(),
		Windows: []types.WindowResult{},
	}
	report.Aggregate = Aggregate(nil, wf)

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Walk-forward run panicked", zap.String("run_id", report.RunID), zap.String("panic", fmt.Sprint(rec)))
			fail(&report, errors.Newf(errors.ErrCodeWindowFailed, "walk-forward run panicked: %v", rec))
		}

		if r.callbacks.OnRunEnd != nil {
			(*r.callbacks.OnRunEnd)(report)
		}
	}()

	if err := r.validate.Struct(wf); err != nil {
		fail(&report, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid walk-forward configuration", err))

		return report
	}

	if err := r.validate.Struct(cfg); err != nil {
		fail(&report, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy configuration", err))

		return report
	}

	windows, durations, issues, err := Plan(sim, wf)
	if err != nil {
		fail(&report, err)

		return report
	}

	if len(issues) > 0 {
		report.PlanIssues = issues
		fail(&report, errors.Newf(errors.ErrCodeWindowPlanningFailed, "%d of %d planned windows cannot be evaluated", len(issues), max(len(windows), 1)))

		r.logger.Warn("Walk-forward plan rejected", zap.String("run_id", report.RunID), zap.Int("issues", len(issues)))

		return report
	}

	r.logger.Info("Walk-forward run started",
		zap.String("run_id", report.RunID),
		zap.Int("windows", len(windows)),
		zap.Int("training_months", durations.TrainingMonths),
		zap.Int("testing_months", durations.TestingMonths),
		zap.Int("step_months", durations.StepMonths),
	)

	if r.callbacks.OnRunStart != nil {
		if err := (*r.callbacks.OnRunStart)(report.RunID, windows); err != nil {
			fail(&report, errors.Wrap(errors.ErrCodeCallbackFailed, "run start callback failed", err))

			return report
		}
	}

	results := make([]types.WindowResult, len(windows))
	started := make([]bool, len(windows))

	var (
		stopMu  sync.Mutex
		stopErr error
	)

	stopped := func() error {
		stopMu.Lock()
		defer stopMu.Unlock()

		if stopErr == nil {
			if err := ctx.Err(); err != nil {
				stopErr = errors.Wrap(errors.ErrCodeCancelled, "walk-forward run cancelled", err)
			}
		}

		return stopErr
	}

	g := new(errgroup.Group)
	g.SetLimit(max(wf.MaxConcurrentWindows, 1))

	for i, w := range windows {
		if stopped() != nil {
			break
		}

		g.Go(func() error {
			if stopped() != nil {
				return nil
			}

			if r.callbacks.OnWindowStart != nil {
				if err := r.notifyWindowStart(w, len(windows)); err != nil {
					stopMu.Lock()
					if stopErr == nil {
						stopErr = errors.Wrap(errors.ErrCodeCallbackFailed, "window start callback failed", err)
					}
					stopMu.Unlock()

					return nil
				}
			}

			started[i] = true
			results[i] = r.evaluate(ctx, sim, cfg, wf, w)

			if r.callbacks.OnWindowEnd != nil {
				r.callbackMu.Lock()
				(*r.callbacks.OnWindowEnd)(results[i])
				r.callbackMu.Unlock()
			}

			return nil
		})
	}

	_ = g.Wait()

	for i, ok := range started {
		if ok {
			report.Windows = append(report.Windows, results[i])
		}
	}

	report.Aggregate = Aggregate(report.Windows, wf)

	if stopErr != nil {
		report.Cancelled = true
		fail(&report, stopErr)
	}

	r.logger.Info("Walk-forward run finished",
		zap.String("run_id", report.RunID),
		zap.Int("evaluated", report.Aggregate.EvaluatedWindows),
		zap.Float64("total_score", report.Aggregate.TotalScore),
		zap.String("grade", string(report.Aggregate.Grade)),
		zap.Bool("cancelled", report.Cancelled),
	)

	return report
}

func (r *Runner) notifyWindowStart(w types.Window, total int) error {
	r.callbackMu.Lock()
	defer r.callbackMu.Unlock()

	return (*r.callbacks.OnWindowStart)(w, total)
}

func (r *Runner) stage(w types.Window, s Stage) {
	if r.callbacks.OnStage == nil {
		return
	}

	r.callbackMu.Lock()
	defer r.callbackMu.Unlock()

	(*r.callbacks.OnStage)(w, s)
}

// evaluate runs one window: optimize on training (optional), simulate the
// chosen configuration on training and testing, then analyze. A panic is
// confined to the window.
func (r *Runner) evaluate(ctx context.Context, sim Simulator, base types.StrategyConfig, wf types.WalkForwardConfig, w types.Window) (result types.WindowResult) {
	cfg := base.Clone()
	result = types.WindowResult{Window: w, Config: cfg}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("Window panicked", zap.Int("window", w.Index), zap.String("panic", fmt.Sprint(rec)))

			result.Error = fmt.Sprintf("window %d panicked: %v", w.Index, rec)
			result.ErrorCode = int(errors.ErrCodeStrategyRuntimeError)
		}
	}()

	if wf.Optimization.Enabled {
		r.stage(w, StageOptimization)

		optimized, summary, err := r.optimizer.Optimize(ctx, sim, cfg, w.Training(), wf.Optimization)
		result.Optimization = &summary

		if err != nil {
			r.logger.Warn("Optimization stopped", zap.Int("window", w.Index), zap.Error(err))
		} else {
			cfg = optimized
		}

		result.Config = cfg
	}

	r.stage(w, StageTraining)
	result.Training = sim.Simulate(cfg, w.Training())

	r.stage(w, StageTesting)
	result.Testing = sim.Simulate(cfg, w.Testing())

	r.stage(w, StageAnalysis)
	result.Analysis = AnalyzeWindow(result, wf)

	// An insufficient testing slice is a zeroed result, not a window failure.
	if result.Testing.Error != "" && !result.Testing.Insufficient {
		result.Error = result.Testing.Error
		result.ErrorCode = result.Testing.ErrorCode
	}

	r.logger.Debug("Window evaluated",
		zap.Int("window", w.Index),
		zap.Float64("quality", result.Analysis.OOSQuality.Value),
		zap.Float64("psr", result.Analysis.PSRProbability),
		zap.Float64("window_score", result.Analysis.WindowScore),
		zap.Bool("insufficient", result.Analysis.Insufficient),
	)

	return result
}

func fail(report *types.WalkForwardReport, err error) {
	report.Error = err.Error()
	report.ErrorCode = int(errors.GetCode(err))
}
