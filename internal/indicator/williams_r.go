package indicator

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// WilliamsR returns (highest high - close) / (highest high - lowest low) * -100,
// ranging from -100 to 0. A flat window carries the previous value or -50.
func WilliamsR(bars []types.Bar, period int) types.Series {
	out := types.NewSeries(len(bars))
	if period <= 0 {
		return out
	}

	highs, lows := rangeSeries(bars)
	hh := Highest(highs, period)
	ll := Lowest(lows, period)
	closes := types.CloseSeries(bars)

	prev := -50.0
	live := false

	for i := range bars {
		h, okH := hh.At(i)
		l, okL := ll.At(i)
		c, okC := closes.At(i)

		if !okH || !okL || !okC {
			live = false

			continue
		}

		if !live {
			prev = -50
			live = true
		}

		if span := h - l; span > 0 {
			prev = clamp((h-c)/span*-100, -100, 0)
		}

		out.Set(i, prev)
	}

	return out
}
