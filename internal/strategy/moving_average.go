package strategy

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// NewMACross fires when the short moving average crosses the long one.
// Long entry and short exit on a cross above, long exit and short entry on a
// cross below.
func NewMACross() Strategy {
	cross := func(up bool) rule {
		return func(ctx EvalContext, p resolved) Decision {
			short, long := p.intOf("shortPeriod"), p.intOf("longPeriod")
			if short >= long {
				return Decision{}
			}

			s := ctx.Cache.MA(short)
			l := ctx.Cache.MA(long)

			ok := crossBelow(s, l, ctx.Index)
			if up {
				ok = crossAbove(s, l, ctx.Index)
			}

			return fired(ok, snapshot(
				"shortMA", valueAt(s, ctx.Index),
				"longMA", valueAt(l, ctx.Index),
			))
		}
	}

	return &tagged{
		id: types.StrategyMACross,
		specs: []ParamSpec{
			period("shortPeriod", 5, 3, 30),
			period("longPeriod", 20, 10, 120),
		},
		rules: map[Role]rule{
			RoleEntry:      cross(true),
			RoleExit:       cross(false),
			RoleShortEntry: cross(false),
			RoleShortExit:  cross(true),
		},
		lookback: func(p resolved) int { return p.intOf("longPeriod") },
	}
}
