package strategy

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// NewPriceBreakout compares the close with the extremes of the previous
// period bars. Long entry and short exit on a new high, long exit and short
// entry on a new low.
func NewPriceBreakout() Strategy {
	newHigh := func(ctx EvalContext, p resolved) Decision {
		hh := ctx.Cache.Highest(p.intOf("period"))
		prior, okH := hh.At(ctx.Index - 1)
		cur, okC := ctx.Cache.Closes().At(ctx.Index)

		return fired(okH && okC && cur > prior, snapshot("close", cur, "highest", prior))
	}

	newLow := func(ctx EvalContext, p resolved) Decision {
		ll := ctx.Cache.Lowest(p.intOf("period"))
		prior, okL := ll.At(ctx.Index - 1)
		cur, okC := ctx.Cache.Closes().At(ctx.Index)

		return fired(okL && okC && cur < prior, snapshot("close", cur, "lowest", prior))
	}

	return &tagged{
		id:    types.StrategyPriceBreakout,
		specs: []ParamSpec{period("period", 20, 5, 60)},
		rules: map[Role]rule{
			RoleEntry:      newHigh,
			RoleExit:       newLow,
			RoleShortEntry: newLow,
			RoleShortExit:  newHigh,
		},
		lookback: func(p resolved) int { return p.intOf("period") },
	}
}

// NewVolumeSpike fires when volume exceeds multiplier times its average over
// the previous period bars. The direction of the close decides the side.
func NewVolumeSpike() Strategy {
	spike := func(up bool) rule {
		return func(ctx EvalContext, p resolved) Decision {
			i := ctx.Index
			avg, okA := ctx.Cache.VolumeMA(p.intOf("period")).At(i - 1)
			vol, okV := ctx.Cache.Volumes().At(i)
			closes := ctx.Cache.Closes()
			prev, okP := closes.At(i - 1)
			cur, okC := closes.At(i)

			if !okA || !okV || !okP || !okC || avg <= 0 {
				return Decision{}
			}

			ok := vol > p["multiplier"]*avg
			if up {
				ok = ok && cur > prev
			} else {
				ok = ok && cur < prev
			}

			return fired(ok, snapshot("volume", vol, "averageVolume", avg, "close", cur))
		}
	}

	return &tagged{
		id: types.StrategyVolumeSpike,
		specs: []ParamSpec{
			period("period", 20, 5, 60),
			level("multiplier", 2, 1.2, 4, 1, 100),
		},
		rules: map[Role]rule{
			RoleEntry:      spike(true),
			RoleExit:       spike(false),
			RoleShortEntry: spike(false),
			RoleShortExit:  spike(true),
		},
		lookback: func(p resolved) int { return p.intOf("period") },
	}
}
