package indicator

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// EMA returns the exponential moving average of values. The first output is the
// simple mean of the first period values; after that
// ema[i] = (v[i] - ema[i-1]) * 2/(period+1) + ema[i-1].
// A missing input resets the recurrence, which re-seeds from the next full window.
func EMA(values types.Series, period int) types.Series {
	out := types.NewSeries(len(values))
	if period <= 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)

	var (
		run    runLength
		prev   float64
		seeded bool
	)

	for i := range values {
		v, ok := values.At(i)
		if run.observe(ok) < period {
			seeded = false

			continue
		}

		if seeded {
			prev = (v-prev)*alpha + prev
		} else {
			sum := 0.0
			for _, x := range window(values, i, period) {
				sum += x
			}

			prev = sum / float64(period)
			seeded = true
		}

		out.Set(i, prev)
	}

	return out
}
