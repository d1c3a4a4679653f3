package indicator

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// RSI returns the Wilder relative strength index. The first value needs period
// consecutive valid deltas. With no losses the RSI is 100, and a series with
// neither gains nor losses reads 50.
func RSI(values types.Series, period int) types.Series {
	out := types.NewSeries(len(values))
	if period <= 0 {
		return out
	}

	var (
		run              runLength
		avgGain, avgLoss float64
		seeded           bool
		gains, losses    float64
	)

	p := float64(period)

	for i := range values {
		v, ok := values.At(i)
		prev, prevOK := values.At(i - 1)

		n := run.observe(ok && prevOK)
		if n == 0 {
			seeded = false
			gains, losses = 0, 0

			continue
		}

		delta := v - prev
		gain, loss := 0.0, 0.0

		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		switch {
		case seeded:
			avgGain = (avgGain*(p-1) + gain) / p
			avgLoss = (avgLoss*(p-1) + loss) / p
		case n < period:
			gains += gain
			losses += loss

			continue
		default:
			avgGain = (gains + gain) / p
			avgLoss = (losses + loss) / p
			seeded = true
		}

		out.Set(i, rsiValue(avgGain, avgLoss))
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
