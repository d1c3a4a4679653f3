package strategy

import (
	"github.com/rxtech-lab/argo-walkforward/internal/indicator"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

func bollingerSpecs() []ParamSpec {
	return []ParamSpec{
		period("period", 20, 10, 50),
		level("stdDev", 2, 1, 3, 0.1, 10),
	}
}

func bands(ctx EvalContext, p resolved) indicator.BollingerResult {
	return ctx.Cache.Bollinger(p.intOf("period"), p["stdDev"])
}

func bandRule(pick func(b indicator.BollingerResult) types.Series, up bool) rule {
	return func(ctx EvalContext, p resolved) Decision {
		b := bands(ctx, p)
		line := pick(b)
		closes := ctx.Cache.Closes()
		i := ctx.Index

		ok := crossBelow(closes, line, i)
		if up {
			ok = crossAbove(closes, line, i)
		}

		return fired(ok, snapshot(
			"close", valueAt(closes, i),
			"upper", valueAt(b.Upper, i),
			"middle", valueAt(b.Middle, i),
			"lower", valueAt(b.Lower, i),
		))
	}
}

func upper(b indicator.BollingerResult) types.Series  { return b.Upper }
func middle(b indicator.BollingerResult) types.Series { return b.Middle }
func lower(b indicator.BollingerResult) types.Series  { return b.Lower }

// NewBollingerBreakout follows breakouts: long when the close breaks above the
// upper band, out when it falls back through the middle band.
func NewBollingerBreakout() Strategy {
	return &tagged{
		id:    types.StrategyBollingerBreakout,
		specs: bollingerSpecs(),
		rules: map[Role]rule{
			RoleEntry:      bandRule(upper, true),
			RoleExit:       bandRule(middle, false),
			RoleShortEntry: bandRule(lower, false),
			RoleShortExit:  bandRule(middle, true),
		},
		lookback: func(p resolved) int { return p.intOf("period") },
	}
}

// NewBollingerReversal fades the bands: long when the close recovers above
// the lower band, out when it reaches the upper band.
func NewBollingerReversal() Strategy {
	return &tagged{
		id:    types.StrategyBollingerReversal,
		specs: bollingerSpecs(),
		rules: map[Role]rule{
			RoleEntry:      recoverRule(lower, true),
			RoleExit:       touchRule(upper, true),
			RoleShortEntry: recoverRule(upper, false),
			RoleShortExit:  touchRule(lower, false),
		},
		lookback: func(p resolved) int { return p.intOf("period") },
	}
}

// recoverRule fires when the previous close was outside the band and the
// current close is back inside it.
func recoverRule(pick func(b indicator.BollingerResult) types.Series, fromBelow bool) rule {
	return func(ctx EvalContext, p resolved) Decision {
		line := pick(bands(ctx, p))
		closes := ctx.Cache.Closes()
		i := ctx.Index

		prevClose, okPC := closes.At(i - 1)
		prevBand, okPB := line.At(i - 1)
		cur, okC := closes.At(i)
		band, okB := line.At(i)

		if !okPC || !okPB || !okC || !okB {
			return Decision{}
		}

		ok := prevClose > prevBand && cur <= band
		if fromBelow {
			ok = prevClose < prevBand && cur >= band
		}

		return fired(ok, snapshot("close", cur, "band", band))
	}
}

// touchRule fires while the close is at or beyond the band.
func touchRule(pick func(b indicator.BollingerResult) types.Series, atOrAbove bool) rule {
	return func(ctx EvalContext, p resolved) Decision {
		line := pick(bands(ctx, p))
		cur, okC := ctx.Cache.Closes().At(ctx.Index)
		band, okB := line.At(ctx.Index)

		if !okC || !okB {
			return Decision{}
		}

		ok := cur <= band
		if atOrAbove {
			ok = cur >= band
		}

		return fired(ok, snapshot("close", cur, "band", band))
	}
}
