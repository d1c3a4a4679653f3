package indicator

import (
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"gonum.org/v1/gonum/stat"
)

// BollingerResult holds the middle, upper and lower bands.
type BollingerResult struct {
	Middle types.Series
	Upper  types.Series
	Lower  types.Series
}

// BollingerBands returns MA(period) ± k·σ where σ is the population standard
// deviation over the same window.
func BollingerBands(values types.Series, period int, k float64) BollingerResult {
	n := len(values)
	result := BollingerResult{
		Middle: types.NewSeries(n),
		Upper:  types.NewSeries(n),
		Lower:  types.NewSeries(n),
	}

	if period <= 0 || k < 0 {
		return result
	}

	var run runLength

	for i := range values {
		_, ok := values.At(i)
		if run.observe(ok) < period {
			continue
		}

		mean, std := stat.PopMeanStdDev(window(values, i, period), nil)

		result.Middle.Set(i, mean)
		result.Upper.Set(i, mean+k*std)
		result.Lower.Set(i, mean-k*std)
	}

	return result
}
