package indicator

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// StochasticResult holds the raw stochastic value and its K/D smoothings.
type StochasticResult struct {
	RSV types.Series
	K   types.Series
	D   types.Series
}

const stochasticNeutral = 50.0

// Stochastic computes the K/D oscillator:
//
//	RSV = (close - lowest low) / (highest high - lowest low) * 100
//	K   = 2/3 * K[prev] + 1/3 * RSV
//	D   = 2/3 * D[prev] + 1/3 * K
//
// K and D start at 50. A flat window carries the previous RSV, or 50 when there
// is none. K and D restart from 50 after a gap.
func Stochastic(bars []types.Bar, period int) StochasticResult {
	n := len(bars)
	result := StochasticResult{
		RSV: types.NewSeries(n),
		K:   types.NewSeries(n),
		D:   types.NewSeries(n),
	}

	if period <= 0 {
		return result
	}

	highs, lows := rangeSeries(bars)
	hh := Highest(highs, period)
	ll := Lowest(lows, period)
	closes := types.CloseSeries(bars)

	var (
		prevRSV, k, d float64
		live          bool
	)

	for i := range n {
		h, okH := hh.At(i)
		l, okL := ll.At(i)
		c, okC := closes.At(i)

		if !okH || !okL || !okC {
			live = false

			continue
		}

		if !live {
			prevRSV, k, d = stochasticNeutral, stochasticNeutral, stochasticNeutral
			live = true
		}

		rsv := prevRSV
		if span := h - l; span > 0 {
			rsv = clamp((c-l)/span*100, 0, 100)
		}

		k = clamp(2.0/3.0*k+1.0/3.0*rsv, 0, 100)
		d = clamp(2.0/3.0*d+1.0/3.0*k, 0, 100)
		prevRSV = rsv

		result.RSV.Set(i, rsv)
		result.K.Set(i, k)
		result.D.Set(i, d)
	}

	return result
}
