// Package walkforward partitions history into rolling training/testing
// windows, re-optimizes parameters on each training window, evaluates the
// result out of sample and grades the run.
package walkforward

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// Simulator runs one backtest over a date range. backtest.Session implements it.
// Implementations must be safe for concurrent use when windows or optimization
// candidates run in parallel.
type Simulator interface {
	Simulate(cfg types.StrategyConfig, r types.DateRange) types.SimulationResult
	CountBars(r types.DateRange) int
	Span() types.DateRange
}
