package indicator

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// MA returns the simple moving average of values over period.
func MA(values types.Series, period int) types.Series {
	out := types.NewSeries(len(values))
	if period <= 0 {
		return out
	}

	var (
		run    runLength
		sum    float64
		seeded bool
	)

	for i := range values {
		v, ok := values.At(i)
		if run.observe(ok) < period {
			seeded = false

			continue
		}

		if seeded {
			old, _ := values.At(i - period)
			sum += v - old
		} else {
			sum = 0
			for _, x := range window(values, i, period) {
				sum += x
			}

			seeded = true
		}

		out.Set(i, sum/float64(period))
	}

	return out
}
