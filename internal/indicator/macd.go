package indicator

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// MACDResult holds the MACD line (DIF), its signal line and the histogram.
type MACDResult struct {
	DIF       types.Series
	Signal    types.Series
	Histogram types.Series
}

// TypicalPrice returns (high + low + 2*close) / 4 per bar. Missing high or low
// falls back to the close.
func TypicalPrice(bars []types.Bar) types.Series {
	out := types.NewSeries(len(bars))
	highs := types.HighSeries(bars)
	lows := types.LowSeries(bars)

	for i, b := range bars {
		if !b.Valid() {
			continue
		}

		h, ok := highs.At(i)
		if !ok {
			h = b.Close
		}

		l, ok := lows.At(i)
		if !ok {
			l = b.Close
		}

		out.Set(i, (h+l+2*b.Close)/4)
	}

	return out
}

// MACD computes the MACD of the typical price.
func MACD(bars []types.Bar, short, long, signal int) MACDResult {
	n := len(bars)
	result := MACDResult{
		DIF:       types.NewSeries(n),
		Signal:    types.NewSeries(n),
		Histogram: types.NewSeries(n),
	}

	if short <= 0 || long <= 0 || signal <= 0 || short >= long {
		return result
	}

	tp := TypicalPrice(bars)
	fast := EMA(tp, short)
	slow := EMA(tp, long)

	for i := range n {
		f, okF := fast.At(i)
		s, okS := slow.At(i)

		if okF && okS {
			result.DIF.Set(i, f-s)
		}
	}

	result.Signal = EMA(result.DIF, signal)

	for i := range n {
		d, okD := result.DIF.At(i)
		s, okS := result.Signal.At(i)

		if okD && okS {
			result.Histogram.Set(i, d-s)
		}
	}

	return result
}
