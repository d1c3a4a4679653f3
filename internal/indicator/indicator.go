// Package indicator implements technical indicators as pure functions over a
// bar series. Every function returns a series of the same length as its input
// with missing values wherever the indicator is undefined: during warm-up, and
// for any bar whose lookback window contains a missing input. After a gap the
// recurrence re-seeds as soon as a full contiguous window is available again.
package indicator

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// Kind names an indicator for cache keys and snapshots.
type Kind string

const (
	KindMA         Kind = "ma"
	KindEMA        Kind = "ema"
	KindRSI        Kind = "rsi"
	KindMACD       Kind = "macd"
	KindBollinger  Kind = "bollinger"
	KindStochastic Kind = "stochastic"
	KindWilliamsR  Kind = "williams_r"
	KindHighest    Kind = "highest"
	KindLowest     Kind = "lowest"
	KindVolumeMA   Kind = "volume_ma"
)

// runLength tracks how many consecutive present values end at the current index.
type runLength struct {
	n int
}

func (r *runLength) observe(ok bool) int {
	if ok {
		r.n++
	} else {
		r.n = 0
	}

	return r.n
}

// window copies values[i-period+1 .. i]. The caller guarantees they are present.
func window(values types.Series, i, period int) []float64 {
	out := make([]float64, 0, period)

	for j := i - period + 1; j <= i; j++ {
		v, _ := values.At(j)
		out = append(out, v)
	}

	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
