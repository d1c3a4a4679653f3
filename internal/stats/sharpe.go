package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// varianceTerm is 1 - γ₃·SR + (γ₄-1)/4·SR², the variance factor of the
// Sharpe estimator. Non-positive values are floored to keep the z-score finite.
func varianceTerm(sr, skew, kurt float64) float64 {
	v := 1 - skew*sr + (kurt-1)/4*sr*sr

	return math.Max(v, 1e-12)
}

// ZScore is the test statistic of SR_hat against benchmark with nEff observations.
func ZScore(sr, benchmark, nEff, skew, kurt float64) float64 {
	if nEff <= 1 {
		return 0
	}

	return (sr - benchmark) * math.Sqrt(nEff-1) / math.Sqrt(varianceTerm(sr, skew, kurt))
}

// PSR is the probability that the true Sharpe ratio exceeds benchmark.
func PSR(sr, benchmark, nEff, skew, kurt float64) float64 {
	return distuv.UnitNormal.CDF(ZScore(sr, benchmark, nEff, skew, kurt))
}

// TrialPenalty is Φ⁻¹(1 - 1/(2N)), zero for a single trial.
func TrialPenalty(trials float64) float64 {
	if trials <= 1 || math.IsNaN(trials) {
		return 0
	}

	return distuv.UnitNormal.Quantile(1 - 1/(2*trials))
}

// DeflatedZ is the PSR z-score less the multiple-trials penalty.
func DeflatedZ(sr, benchmark, nEff, skew, kurt, trials float64) float64 {
	return ZScore(sr, benchmark, nEff, skew, kurt) - TrialPenalty(trials)
}

// DSR is PSR deflated for the number of effective trials. It never exceeds PSR.
func DSR(sr, benchmark, nEff, skew, kurt, trials float64) float64 {
	return distuv.UnitNormal.CDF(DeflatedZ(sr, benchmark, nEff, skew, kurt, trials))
}

// MinTRL is the number of observations needed for PSR to reach confidence,
// +Inf when SR_hat does not beat benchmark.
func MinTRL(sr, benchmark, skew, kurt, confidence float64) float64 {
	if sr <= benchmark {
		return math.Inf(1)
	}

	z := distuv.UnitNormal.Quantile(confidence)
	k := z / (sr - benchmark)

	return 1 + varianceTerm(sr, skew, kurt)*k*k
}

// EffectiveTrials discounts the raw trial count by the share of parameter
// groups the search actually moved: 1 + (trials-1)·changed/targeted.
func EffectiveTrials(trials, changedGroups, targetedGroups int) float64 {
	if trials <= 1 || targetedGroups <= 0 || changedGroups <= 0 {
		return 1
	}

	share := math.Min(1, float64(changedGroups)/float64(targetedGroups))

	return 1 + float64(trials-1)*share
}
