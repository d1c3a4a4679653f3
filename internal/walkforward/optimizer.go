package walkforward

import (
	"context"
	"math"

	"github.com/rxtech-lab/argo-walkforward/internal/logger"
	"github.com/rxtech-lab/argo-walkforward/internal/strategy"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Risk parameters the optimizer scans when the risk scope is targeted.
// Zero disables the override, so both ranges start at 0.
var riskSpecs = []strategy.ParamSpec{
	{Name: "stopLossPct", Min: 0, Max: 20, Lower: 0, Upper: 99, Optimizable: true},
	{Name: "takeProfitPct", Min: 0, Max: 50, Lower: 0, Upper: 1000, Optimizable: true},
}

// paramGroup is the set of parameters one scope owns in a configuration.
type paramGroup struct {
	scope types.OptimizationScope
	specs []strategy.ParamSpec
}

// Optimizer searches parameter values on a training range by coordinate ascent.
type Optimizer struct {
	registry strategy.Registry
	logger   *logger.Logger
}

// NewOptimizer creates an optimizer that looks strategies up in registry.
func NewOptimizer(registry strategy.Registry, log *logger.Logger) *Optimizer {
	if registry == nil {
		registry = strategy.DefaultRegistry()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Optimizer{registry: registry, logger: log}
}

type candidate struct {
	value  float64
	score  float64
	failed bool
}

// Optimize returns a copy of base with every targeted parameter set to the
// best value found on training. Groups are visited in scope order and later
// groups see the values already chosen for earlier ones; passes repeat until
// nothing changes or the iteration limit is hit. Candidates that fail are
// skipped. If every candidate fails, base is returned unchanged and the
// summary carries ErrCodeOptimizationFailed.
func (o *Optimizer) Optimize(
	ctx context.Context,
	sim Simulator,
	base types.StrategyConfig,
	training types.DateRange,
	cfg types.OptimizationConfig,
) (types.StrategyConfig, types.OptimizationSummary, error) {
	target := cfg.TargetMetric
	if target == "" {
		target = types.TargetSharpeRatio
	}

	trials := max(cfg.TrialsPerParameter, 2)
	iterations := max(cfg.IterationLimit, 1)
	workers := max(cfg.Workers, 1)

	current := base.Clone()
	groups := o.groups(current, cfg.Scopes)

	summary := types.OptimizationSummary{
		Changes:        []types.ParamChange{},
		TargetedGroups: len(groups),
		BaselineScore:  types.Undefined,
		BestScore:      types.Undefined,
	}

	best, ok := o.score(sim, current, training, target)
	if ok {
		summary.BaselineScore = types.Number(best)
	} else {
		best = math.NaN()
	}

	if len(groups) == 0 {
		summary.BestScore = summary.BaselineScore

		return current, summary, nil
	}

	for iteration := 0; iteration < iterations; iteration++ {
		summary.Iterations++
		changed := false

		for _, g := range groups {
			for _, spec := range g.specs {
				if err := ctx.Err(); err != nil {
					return base.Clone(), summary, errors.Wrap(errors.ErrCodeCancelled, "optimization cancelled", err)
				}

				now := readParam(current, g.scope, spec)
				results := o.scan(ctx, sim, current, g.scope, spec, training, target, trials, workers)

				summary.Trials += len(results)

				pick, pickScore := now, best

				for _, c := range results {
					if c.failed {
						summary.Failures++

						continue
					}

					if better(c.score, pickScore, target.Minimize()) {
						pick, pickScore = c.value, c.score
					}
				}

				if pick != now {
					writeParam(&current, g.scope, spec.Name, pick)
					best = pickScore
					changed = true

					o.logger.Debug("Parameter improved",
						zap.String("scope", string(g.scope)),
						zap.String("param", spec.Name),
						zap.Float64("from", now),
						zap.Float64("to", pick),
						zap.Float64("score", pickScore),
					)
				}
			}
		}

		if !changed {
			break
		}
	}

	changedGroups := 0

	for _, g := range groups {
		groupChanged := false

		for _, spec := range g.specs {
			from, to := readParam(base, g.scope, spec), readParam(current, g.scope, spec)
			if from == to {
				continue
			}

			groupChanged = true
			summary.Changes = append(summary.Changes, types.ParamChange{Scope: g.scope, Name: spec.Name, From: from, To: to})
		}

		if groupChanged {
			changedGroups++
		}
	}

	summary.ChangedGroups = changedGroups

	if !math.IsNaN(best) {
		summary.BestScore = types.Number(best)
	}

	if summary.Trials > 0 && summary.Failures == summary.Trials {
		err := errors.Newf(errors.ErrCodeOptimizationFailed, "all %d candidates failed on training", summary.Trials)
		summary.Error = err.Error()
		summary.ErrorCode = int(errors.ErrCodeOptimizationFailed)

		o.logger.Warn("Optimization kept the baseline", zap.Error(err))

		return base.Clone(), summary, nil
	}

	return current, summary, nil
}

// scan simulates every candidate of spec in parallel and returns the results
// in candidate order.
func (o *Optimizer) scan(
	ctx context.Context,
	sim Simulator,
	current types.StrategyConfig,
	scope types.OptimizationScope,
	spec strategy.ParamSpec,
	training types.DateRange,
	target types.TargetMetric,
	trials, workers int,
) []candidate {
	values := Candidates(spec, trials)
	results := make([]candidate, len(values))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range values {
		g.Go(func() error {
			cfg := current.Clone()
			writeParam(&cfg, scope, spec.Name, v)

			score, ok := o.score(sim, cfg, training, target)
			results[i] = candidate{value: v, score: score, failed: !ok}

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// score runs one simulation and extracts the target metric. A panic, an
// error marker or an undefined metric all count as a failed candidate.
func (o *Optimizer) score(sim Simulator, cfg types.StrategyConfig, r types.DateRange, target types.TargetMetric) (score float64, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Warn("Optimization candidate panicked",
				zap.Error(errors.Newf(errors.ErrCodeOptimizationFailed, "candidate panicked: %v", rec)),
				zap.Time("training_start", r.Start),
			)

			score, ok = 0, false
		}
	}()

	result := sim.Simulate(cfg, r)
	if result.Failed() {
		o.logger.Warn("Optimization candidate failed",
			zap.String("error", result.Error),
			zap.Bool("insufficient", result.Insufficient),
		)

		return 0, false
	}

	v := target.Value(result)
	if !v.IsDefined() {
		return 0, false
	}

	return v.Float(), true
}

// groups lists the parameter groups a configuration exposes for scopes, in
// scope order, skipping scopes with nothing to tune.
func (o *Optimizer) groups(cfg types.StrategyConfig, scopes []types.OptimizationScope) []paramGroup {
	var out []paramGroup

	seen := make(map[types.OptimizationScope]bool, len(scopes))

	for _, scope := range scopes {
		if seen[scope] {
			continue
		}

		seen[scope] = true

		var specs []strategy.ParamSpec

		switch scope {
		case types.ScopeRisk:
			specs = riskSpecs
		case types.ScopeEntry:
			specs = o.specsOf(cfg.EntryStrategy)
		case types.ScopeExit:
			specs = o.specsOf(cfg.ExitStrategy)
		case types.ScopeShortEntry:
			if cfg.EnableShorting {
				specs = o.specsOf(cfg.ShortEntryStrategy)
			}
		case types.ScopeShortExit:
			if cfg.EnableShorting {
				specs = o.specsOf(cfg.ShortExitStrategy)
			}
		}

		if len(specs) > 0 {
			out = append(out, paramGroup{scope: scope, specs: specs})
		}
	}

	return out
}

func (o *Optimizer) specsOf(id types.StrategyID) []strategy.ParamSpec {
	s, err := o.registry.Get(id)
	if err != nil {
		return nil
	}

	var specs []strategy.ParamSpec

	for _, spec := range s.Params() {
		if spec.Optimizable && spec.Max > spec.Min {
			specs = append(specs, spec)
		}
	}

	return specs
}

// Candidates spreads n values evenly over [spec.Min, spec.Max]. Integer
// parameters are rounded and deduplicated.
func Candidates(spec strategy.ParamSpec, n int) []float64 {
	if n < 2 || spec.Max <= spec.Min {
		return []float64{spec.Min}
	}

	out := make([]float64, 0, n)
	step := (spec.Max - spec.Min) / float64(n-1)

	for i := 0; i < n; i++ {
		v := spec.Min + step*float64(i)
		if i == n-1 {
			v = spec.Max
		}

		if spec.Integer {
			v = math.Round(v)
		}

		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}

		out = append(out, v)
	}

	return out
}

func better(candidate, incumbent float64, minimize bool) bool {
	if math.IsNaN(incumbent) {
		return true
	}

	if minimize {
		return candidate < incumbent
	}

	return candidate > incumbent
}

func paramsOf(cfg *types.StrategyConfig, scope types.OptimizationScope) *types.Params {
	switch scope {
	case types.ScopeEntry:
		return &cfg.EntryParams
	case types.ScopeExit:
		return &cfg.ExitParams
	case types.ScopeShortEntry:
		return &cfg.ShortEntryParams
	case types.ScopeShortExit:
		return &cfg.ShortExitParams
	default:
		return nil
	}
}

func readParam(cfg types.StrategyConfig, scope types.OptimizationScope, spec strategy.ParamSpec) float64 {
	if scope == types.ScopeRisk {
		if spec.Name == "stopLossPct" {
			return cfg.StopLossPct
		}

		return cfg.TakeProfitPct
	}

	if p := paramsOf(&cfg, scope); p != nil {
		if v, ok := (*p)[spec.Name]; ok {
			return v
		}
	}

	return spec.Default
}

func writeParam(cfg *types.StrategyConfig, scope types.OptimizationScope, name string, v float64) {
	if scope == types.ScopeRisk {
		if name == "stopLossPct" {
			cfg.StopLossPct = v
		} else {
			cfg.TakeProfitPct = v
		}

		return
	}

	p := paramsOf(cfg, scope)
	if p == nil {
		return
	}

	if *p == nil {
		*p = types.Params{}
	}

	(*p)[name] = v
}
