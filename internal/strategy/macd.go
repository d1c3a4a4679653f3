package strategy

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// NewMACD trades the MACD line crossing its signal line.
func NewMACD() Strategy {
	cross := func(up bool) rule {
		return func(ctx EvalContext, p resolved) Decision {
			short, long := p.intOf("shortPeriod"), p.intOf("longPeriod")
			if short >= long {
				return Decision{}
			}

			m := ctx.Cache.MACD(short, long, p.intOf("signalPeriod"))
			i := ctx.Index

			ok := crossBelow(m.DIF, m.Signal, i)
			if up {
				ok = crossAbove(m.DIF, m.Signal, i)
			}

			return fired(ok, snapshot(
				"dif", valueAt(m.DIF, i),
				"signal", valueAt(m.Signal, i),
				"histogram", valueAt(m.Histogram, i),
			))
		}
	}

	return &tagged{
		id: types.StrategyMACD,
		specs: []ParamSpec{
			period("shortPeriod", 12, 5, 20),
			period("longPeriod", 26, 20, 60),
			period("signalPeriod", 9, 5, 20),
		},
		rules: map[Role]rule{
			RoleEntry:      cross(true),
			RoleExit:       cross(false),
			RoleShortEntry: cross(false),
			RoleShortExit:  cross(true),
		},
		lookback: func(p resolved) int {
			return p.intOf("longPeriod") + p.intOf("signalPeriod") - 1
		},
	}
}
