package strategy

import (
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// threshold rules shared by RSI and Williams %R: long entry when the
// oscillator climbs out of oversold, long exit when it climbs into overbought.
// The short side mirrors with downward crosses.
func thresholdRules(name string, series func(ctx EvalContext, p resolved) types.Series) map[Role]rule {
	cross := func(levelName string, up bool) rule {
		return func(ctx EvalContext, p resolved) Decision {
			if p["oversold"] >= p["overbought"] {
				return Decision{}
			}

			s := series(ctx, p)
			lvl := p[levelName]

			ok := levelCrossDown(s, lvl, ctx.Index)
			if up {
				ok = levelCrossUp(s, lvl, ctx.Index)
			}

			return fired(ok, snapshot(name, valueAt(s, ctx.Index), levelName, lvl))
		}
	}

	return map[Role]rule{
		RoleEntry:      cross("oversold", true),
		RoleExit:       cross("overbought", true),
		RoleShortEntry: cross("overbought", false),
		RoleShortExit:  cross("oversold", false),
	}
}

// NewRSI trades RSI threshold crosses.
func NewRSI() Strategy {
	return &tagged{
		id: types.StrategyRSI,
		specs: []ParamSpec{
			period("period", 14, 5, 30),
			level("oversold", 30, 10, 40, 0, 100),
			level("overbought", 70, 60, 90, 0, 100),
		},
		rules: thresholdRules("rsi", func(ctx EvalContext, p resolved) types.Series {
			return ctx.Cache.RSI(p.intOf("period"))
		}),
		lookback: func(p resolved) int { return p.intOf("period") },
	}
}

// NewWilliamsR trades Williams %R threshold crosses. Levels are negative.
func NewWilliamsR() Strategy {
	return &tagged{
		id: types.StrategyWilliamsR,
		specs: []ParamSpec{
			period("period", 14, 5, 30),
			level("oversold", -80, -95, -70, -100, 0),
			level("overbought", -20, -30, -5, -100, 0),
		},
		rules: thresholdRules("williamsR", func(ctx EvalContext, p resolved) types.Series {
			return ctx.Cache.WilliamsR(p.intOf("period"))
		}),
		lookback: func(p resolved) int { return p.intOf("period") },
	}
}

// NewKDCross trades K crossing D. Long entries are ignored when K is already
// overbought and long exits when K is already oversold; the short side mirrors.
func NewKDCross() Strategy {
	cross := func(up bool, guard func(k float64, p resolved) bool) rule {
		return func(ctx EvalContext, p resolved) Decision {
			if p["oversold"] >= p["overbought"] {
				return Decision{}
			}

			kd := ctx.Cache.Stochastic(p.intOf("period"))
			i := ctx.Index

			ok := crossBelow(kd.K, kd.D, i)
			if up {
				ok = crossAbove(kd.K, kd.D, i)
			}

			k := valueAt(kd.K, i)

			return fired(ok && guard(k, p), snapshot("k", k, "d", valueAt(kd.D, i)))
		}
	}

	belowOverbought := func(k float64, p resolved) bool { return k < p["overbought"] }
	aboveOversold := func(k float64, p resolved) bool { return k > p["oversold"] }

	return &tagged{
		id: types.StrategyKDCross,
		specs: []ParamSpec{
			period("period", 9, 5, 30),
			level("oversold", 20, 10, 40, 0, 100),
			level("overbought", 80, 60, 90, 0, 100),
		},
		rules: map[Role]rule{
			RoleEntry:      cross(true, belowOverbought),
			RoleExit:       cross(false, aboveOversold),
			RoleShortEntry: cross(false, aboveOversold),
			RoleShortExit:  cross(true, belowOverbought),
		},
		lookback: func(p resolved) int { return p.intOf("period") },
	}
}
