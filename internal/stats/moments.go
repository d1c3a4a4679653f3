// Package stats estimates how much confidence a return series deserves:
// distribution moments, autocorrelation-adjusted sample size, and the
// probabilistic and deflated Sharpe ratios with the minimum track record
// length they imply.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PowerSums accumulates Σr, Σr², Σr³ and Σr⁴. Sums from different windows can
// be merged to get moments of the combined series.
type PowerSums struct {
	N  int     `json:"n" yaml:"n"`
	S1 float64 `json:"s1" yaml:"s1"`
	S2 float64 `json:"s2" yaml:"s2"`
	S3 float64 `json:"s3" yaml:"s3"`
	S4 float64 `json:"s4" yaml:"s4"`
}

// Moments are sample statistics of a return series.
type Moments struct {
	N        int
	Mean     float64
	Variance float64
	StdDev   float64
	Skewness float64
	// ExcessKurtosis is kurtosis minus 3.
	ExcessKurtosis float64
	Kurtosis       float64
}

// SumsOf returns the power sums of returns. Non-finite values are skipped.
func SumsOf(returns []float64) PowerSums {
	var p PowerSums
	p.AddAll(returns)

	return p
}

// Add accumulates one return.
func (p *PowerSums) Add(r float64) {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return
	}

	r2 := r * r
	p.N++
	p.S1 += r
	p.S2 += r2
	p.S3 += r2 * r
	p.S4 += r2 * r2
}

// AddAll accumulates every return.
func (p *PowerSums) AddAll(returns []float64) {
	for _, r := range returns {
		p.Add(r)
	}
}

// Merge returns the sums of both series.
func (p PowerSums) Merge(o PowerSums) PowerSums {
	return PowerSums{
		N:  p.N + o.N,
		S1: p.S1 + o.S1,
		S2: p.S2 + o.S2,
		S3: p.S3 + o.S3,
		S4: p.S4 + o.S4,
	}
}

// Moments computes mean, sample variance, and bias-corrected skewness and
// excess kurtosis. Undefined higher moments fall back to those of a normal
// distribution.
func (p PowerSums) Moments() Moments {
	m := Moments{N: p.N, Kurtosis: 3}
	if p.N == 0 {
		return m
	}

	n := float64(p.N)
	mean := p.S1 / n
	m.Mean = mean

	// central moments with the population denominator
	m2 := p.S2/n - mean*mean
	m3 := p.S3/n - 3*mean*p.S2/n + 2*mean*mean*mean
	m4 := p.S4/n - 4*mean*p.S3/n + 6*mean*mean*p.S2/n - 3*mean*mean*mean*mean

	if m2 <= 1e-18 || p.N < 2 {
		return m
	}

	m.Variance = m2 * n / (n - 1)
	m.StdDev = math.Sqrt(m.Variance)

	if p.N >= 3 {
		g1 := m3 / math.Pow(m2, 1.5)
		m.Skewness = math.Sqrt(n*(n-1)) / (n - 2) * g1
	}

	if p.N >= 4 {
		g2 := m4/(m2*m2) - 3
		m.ExcessKurtosis = ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
	}

	m.Kurtosis = m.ExcessKurtosis + 3

	return m
}

// LagOneAutocorrelation is the lag-1 autocorrelation of returns, 0 when undefined.
func LagOneAutocorrelation(returns []float64) float64 {
	if len(returns) < 3 {
		return 0
	}

	mean := stat.Mean(returns, nil)
	num, den := 0.0, 0.0

	for i, r := range returns {
		d := r - mean
		den += d * d

		if i > 0 {
			num += d * (returns[i-1] - mean)
		}
	}

	if den == 0 {
		return 0
	}

	return num / den
}

// EffectiveSampleSize discounts n for serial correlation, n·(1-ρ)/(1+ρ), and
// for fat tails by 3/kurtosis when kurtosis exceeds 3. The result lies in [1, n].
func EffectiveSampleSize(n int, rho, kurtosis float64) float64 {
	if n <= 0 {
		return 0
	}

	rho = math.Max(-0.99, math.Min(0.99, rho))
	eff := float64(n) * (1 - rho) / (1 + rho)
	eff = math.Min(eff, float64(n))

	if kurtosis > 3 {
		eff *= 3 / kurtosis
	}

	return math.Max(1, eff)
}

// SampleSharpe is the per-period Sharpe ratio, 0 without variation.
func SampleSharpe(mean, stdDev, riskFreePerPeriod float64) float64 {
	if stdDev <= 0 || math.IsNaN(stdDev) {
		return 0
	}

	return (mean - riskFreePerPeriod) / stdDev
}
