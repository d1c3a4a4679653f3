package stats

import (
	"math"

	"github.com/rxtech-lab/argo-walkforward/internal/metrics"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Config controls the benchmarks of an analysis.
type Config struct {
	metrics.Config
	// TargetConfidence is the PSR level MinTRL solves for.
	TargetConfidence float64
	// Strict makes the annual Sharpe of 1 the active benchmark.
	Strict bool
	// Trials is the effective number of parameter trials behind the series.
	Trials float64
}

// DefaultConfig uses daily bars, 95% confidence and one trial.
func DefaultConfig() Config {
	return Config{Config: metrics.DefaultConfig(), TargetConfidence: 0.95, Trials: 1}
}

// StrictBenchmark is the per-period Sharpe equivalent to an annual Sharpe of 1.
func (c Config) StrictBenchmark() float64 {
	ppy := c.PeriodsPerYear
	if ppy <= 0 {
		ppy = 252
	}

	return 1 / math.Sqrt(float64(ppy))
}

// Analysis is the statistical record of one return series.
type Analysis struct {
	Moments              Moments
	Autocorrelation      float64
	EffectiveSampleCount float64
	SampleSharpe         float64
	Loose                types.SharpeInference
	Strict               types.SharpeInference
	// Active is Strict in strict mode and Loose otherwise.
	Active            types.SharpeInference
	Credibility       float64
	StatWeight        float64
	InsufficientTrack bool
}

// Analyze runs the full analysis on returns.
func Analyze(returns []float64, cfg Config) Analysis {
	return AnalyzeSums(SumsOf(returns), LagOneAutocorrelation(returns), cfg)
}

// AnalyzeSums runs the analysis from power sums and a lag-1 autocorrelation,
// which lets callers analyze a merged series without re-reading it.
func AnalyzeSums(sums PowerSums, rho float64, cfg Config) Analysis {
	m := sums.Moments()
	a := Analysis{
		Moments:              m,
		Autocorrelation:      rho,
		EffectiveSampleCount: EffectiveSampleSize(m.N, rho, m.Kurtosis),
		SampleSharpe:         SampleSharpe(m.Mean, m.StdDev, cfg.DailyRiskFree()),
	}

	confidence := cfg.TargetConfidence
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	a.Loose = a.infer(0, cfg.Trials, confidence)
	a.Strict = a.infer(cfg.StrictBenchmark(), cfg.Trials, confidence)

	a.Active = a.Loose
	if cfg.Strict {
		a.Active = a.Strict
	}

	a.Credibility = math.Sqrt(a.Active.PSR * a.Active.DSR)
	a.StatWeight = StatWeight(a.Credibility, a.EffectiveSampleCount, a.Active.MinTRL.Float())
	a.InsufficientTrack = a.EffectiveSampleCount < a.Active.MinTRL.Float()

	return a
}

func (a Analysis) infer(benchmark, trials, confidence float64) types.SharpeInference {
	sr := a.SampleSharpe
	nEff := a.EffectiveSampleCount
	skew, kurt := a.Moments.Skewness, a.Moments.Kurtosis

	psr := PSR(sr, benchmark, nEff, skew, kurt)
	dsr := math.Min(psr, DSR(sr, benchmark, nEff, skew, kurt, trials))

	return types.SharpeInference{
		Benchmark: benchmark,
		ZScore:    types.Number(ZScore(sr, benchmark, nEff, skew, kurt)),
		PSR:       psr,
		DeflatedZ: types.Number(DeflatedZ(sr, benchmark, nEff, skew, kurt, trials)),
		DSR:       dsr,
		MinTRL:    types.Number(MinTRL(sr, benchmark, skew, kurt, confidence)),
	}
}

// StatWeight maps credibility to clamp(0.2 + 0.8·c, 0.2, 1), capped at 0.3
// when the effective sample is shorter than MinTRL.
func StatWeight(credibility, nEff, minTRL float64) float64 {
	w := math.Max(0.2, math.Min(1, 0.2+0.8*credibility))
	if nEff < minTRL {
		w = math.Min(w, 0.3)
	}

	return w
}
