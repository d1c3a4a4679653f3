package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Highest returns the maximum of the last period values.
func Highest(values types.Series, period int) types.Series {
	return extreme(values, period, math.Max)
}

// Lowest returns the minimum of the last period values.
func Lowest(values types.Series, period int) types.Series {
	return extreme(values, period, math.Min)
}

func extreme(values types.Series, period int, pick func(a, b float64) float64) types.Series {
	out := types.NewSeries(len(values))
	if period <= 0 {
		return out
	}

	var run runLength

	for i := range values {
		_, ok := values.At(i)
		if run.observe(ok) < period {
			continue
		}

		w := window(values, i, period)
		best := w[0]

		for _, v := range w[1:] {
			best = pick(best, v)
		}

		out.Set(i, best)
	}

	return out
}

// rangeSeries returns high and low series where a bar missing either field
// uses its close, so only gap bars are missing.
func rangeSeries(bars []types.Bar) (types.Series, types.Series) {
	highs := types.HighSeries(bars)
	lows := types.LowSeries(bars)

	for i, b := range bars {
		if !b.Valid() {
			continue
		}

		if _, ok := highs.At(i); !ok {
			highs.Set(i, b.Close)
		}

		if _, ok := lows.At(i); !ok {
			lows.Set(i, b.Close)
		}
	}

	return highs, lows
}
