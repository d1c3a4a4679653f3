package walkforward

import (
	"math"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Metric weights of the OOS quality score.
const (
	weightAnnualizedReturn = 0.35
	weightSharpe           = 0.25
	weightSortino          = 0.20
	weightMaxDrawdown      = 0.10
	weightWinRate          = 0.10

	// minPassedMetrics is how many of the five metrics must meet their
	// threshold, the annualized return among them, for a window to pass.
	minPassedMetrics = 3
)

// ScoreQuality grades a testing result against thresholds. RawValue uses the
// thresholds as configured; Value, Passed and Components replace the return
// threshold with the window's own buy-and-hold return when it is finite.
func ScoreQuality(testing types.SimulationResult, thresholds types.Thresholds) types.OOSQuality {
	if testing.Failed() {
		return types.OOSQuality{Components: []types.QualityComponent{}}
	}

	raw := qualityComponents(testing, thresholds)

	adjusted := thresholds
	if testing.BuyHoldAnnualizedReturn.IsFinite() {
		adjusted.AnnualizedReturn = testing.BuyHoldAnnualizedReturn.Float()
	}

	components := qualityComponents(testing, adjusted)

	passed := 0
	for _, c := range components {
		if c.Passed {
			passed++
		}
	}

	return types.OOSQuality{
		Value:      weightedScore(components),
		RawValue:   weightedScore(raw),
		PassRatio:  float64(passed) / float64(len(components)),
		Passed:     components[0].Passed && passed >= minPassedMetrics,
		Components: components,
	}
}

func qualityComponents(r types.SimulationResult, t types.Thresholds) []types.QualityComponent {
	return []types.QualityComponent{
		atLeast("annualizedReturn", r.AnnualizedReturn, t.AnnualizedReturn, weightAnnualizedReturn),
		atLeast("sharpeRatio", r.SharpeRatio, t.SharpeRatio, weightSharpe),
		atLeast("sortinoRatio", r.SortinoRatio, t.SortinoRatio, weightSortino),
		atMost("maxDrawdownPct", r.MaxDrawdownPct, t.MaxDrawdownPct, weightMaxDrawdown),
		atLeast("winRatePct", r.WinRatePct, t.WinRatePct, weightWinRate),
	}
}

func weightedScore(components []types.QualityComponent) float64 {
	var sum, weights float64

	for _, c := range components {
		sum += c.Score * c.Weight
		weights += c.Weight
	}

	if weights == 0 {
		return 0
	}

	return sum / weights
}

// span is the distance over which a sub-score falls from 1 to 0: the
// threshold's own magnitude, or 1 when the threshold is zero.
func span(threshold float64) float64 {
	if m := math.Abs(threshold); m > 0 {
		return m
	}

	return 1
}

// atLeast scores 1 at or above threshold, falling linearly to 0 at
// threshold - |threshold|.
func atLeast(name string, value types.Number, threshold, weight float64) types.QualityComponent {
	c := types.QualityComponent{Metric: name, Value: value, Threshold: types.Number(threshold), Weight: weight}
	if !value.IsDefined() {
		return c
	}

	v := value.Float()
	if v >= threshold {
		c.Score, c.Passed = 1, true

		return c
	}

	c.Score = clamp01(1 - (threshold-v)/span(threshold))

	return c
}

// atMost is the mirror of atLeast for metrics where smaller is better.
func atMost(name string, value types.Number, threshold, weight float64) types.QualityComponent {
	c := types.QualityComponent{Metric: name, Value: value, Threshold: types.Number(threshold), Weight: weight}
	if !value.IsDefined() {
		return c
	}

	v := value.Float()
	if v <= threshold {
		c.Score, c.Passed = 1, true

		return c
	}

	c.Score = clamp01(1 - (v-threshold)/span(threshold))

	return c
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
