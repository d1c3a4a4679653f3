package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/stat"
)

type StatsTestSuite struct {
	suite.Suite
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}

func drift(n int, seed int64, mean, std float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)

	for i := range out {
		out[i] = mean + std*rng.NormFloat64()
	}

	return out
}

func (suite *StatsTestSuite) TestMomentsMatchSampleEstimators() {
	returns := drift(500, 1, 0.001, 0.02)
	m := SumsOf(returns).Moments()
	mean, variance := stat.MeanVariance(returns, nil)

	suite.Equal(500, m.N)
	suite.InDelta(mean, m.Mean, 1e-12)
	suite.InDelta(variance, m.Variance, 1e-10)
	suite.InDelta(math.Sqrt(variance), m.StdDev, 1e-10)
}

func (suite *StatsTestSuite) TestHigherMoments() {
	suite.Run("symmetric", func() {
		m := SumsOf([]float64{1, 2, 3, 4, 5}).Moments()
		suite.InDelta(0, m.Skewness, 1e-9)
		suite.InDelta(-1.2, m.ExcessKurtosis, 1e-9)
		suite.InDelta(1.8, m.Kurtosis, 1e-9)
	})

	suite.Run("right skewed", func() {
		m := SumsOf([]float64{1, 2, 3, 4, 10}).Moments()
		suite.InDelta(1.69706, m.Skewness, 1e-4)
	})

	suite.Run("constant falls back to normal", func() {
		m := SumsOf([]float64{0.01, 0.01, 0.01, 0.01}).Moments()
		suite.Equal(0.0, m.StdDev)
		suite.Equal(0.0, m.Skewness)
		suite.Equal(3.0, m.Kurtosis)
	})

	suite.Run("empty", func() {
		m := PowerSums{}.Moments()
		suite.Equal(0, m.N)
		suite.Equal(3.0, m.Kurtosis)
	})
}

func (suite *StatsTestSuite) TestMergeEqualsConcatenation() {
	a := drift(100, 2, 0.001, 0.01)
	b := drift(150, 3, -0.002, 0.03)

	merged := SumsOf(a).Merge(SumsOf(b)).Moments()
	whole := SumsOf(append(append([]float64{}, a...), b...)).Moments()

	suite.Equal(whole.N, merged.N)
	suite.InDelta(whole.Mean, merged.Mean, 1e-12)
	suite.InDelta(whole.Variance, merged.Variance, 1e-12)
	suite.InDelta(whole.Skewness, merged.Skewness, 1e-9)
	suite.InDelta(whole.ExcessKurtosis, merged.ExcessKurtosis, 1e-9)
}

func (suite *StatsTestSuite) TestAddSkipsNonFinite() {
	sums := SumsOf([]float64{1, math.NaN(), math.Inf(1), 2})
	suite.Equal(2, sums.N)
	suite.Equal(3.0, sums.S1)
}

func (suite *StatsTestSuite) TestLagOneAutocorrelation() {
	suite.InDelta(-0.75, LagOneAutocorrelation([]float64{1, -1, 1, -1}), 1e-12)
	suite.Equal(0.0, LagOneAutocorrelation([]float64{1, 1, 1}))
	suite.Equal(0.0, LagOneAutocorrelation([]float64{1, 2}))
}

func (suite *StatsTestSuite) TestEffectiveSampleSize() {
	tests := []struct {
		name     string
		n        int
		rho      float64
		kurtosis float64
		expected float64
	}{
		{"positive autocorrelation", 100, 0.5, 3, 100.0 / 3},
		{"negative autocorrelation is capped at n", 100, -0.5, 3, 100},
		{"fat tails", 100, 0, 6, 50},
		{"floored at one", 1, 0.9, 3, 1},
		{"empty", 0, 0, 3, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, EffectiveSampleSize(tc.n, tc.rho, tc.kurtosis), 1e-9)
		})
	}
}

func (suite *StatsTestSuite) TestSampleSharpe() {
	suite.InDelta(0.5, SampleSharpe(0.011, 0.02, 0.001), 1e-12)
	suite.Equal(0.0, SampleSharpe(0.01, 0, 0))
}

func (suite *StatsTestSuite) TestPSRAndDSRBounds() {
	for _, sr := range []float64{-1, -0.1, 0, 0.05, 0.2, 2} {
		for _, nEff := range []float64{0, 1, 2, 30, 1000} {
			for _, skew := range []float64{-2, 0, 1.5} {
				for _, kurt := range []float64{1.5, 3, 12} {
					for _, trials := range []float64{1, 3, 50} {
						psr := PSR(sr, 0, nEff, skew, kurt)
						dsr := DSR(sr, 0, nEff, skew, kurt, trials)

						suite.GreaterOrEqual(psr, 0.0)
						suite.LessOrEqual(psr, 1.0)
						suite.GreaterOrEqual(dsr, 0.0)
						suite.LessOrEqual(dsr, psr)
					}
				}
			}
		}
	}
}

func (suite *StatsTestSuite) TestPSRValues() {
	suite.InDelta(0.5, PSR(0.1, 0.1, 100, 0, 3), 1e-12)
	suite.InDelta(PSR(0.1, 0, 100, 0, 3), DSR(0.1, 0, 100, 0, 3, 1), 1e-12)

	z := 0.1 * math.Sqrt(99) / math.Sqrt(1.005)
	suite.InDelta(z, ZScore(0.1, 0, 100, 0, 3), 1e-12)
	suite.Greater(PSR(0.1, 0, 100, 0, 3), 0.8)
}

func (suite *StatsTestSuite) TestTrialPenalty() {
	suite.Equal(0.0, TrialPenalty(1))
	suite.Equal(0.0, TrialPenalty(0.5))
	suite.InDelta(1.959964, TrialPenalty(20), 1e-5)
}

func (suite *StatsTestSuite) TestMinTRL() {
	suite.True(math.IsInf(MinTRL(0, 0, 0, 3, 0.95), 1))
	suite.True(math.IsInf(MinTRL(0.05, 0.1, 0, 3, 0.95), 1))
	suite.InDelta(272.907, MinTRL(0.1, 0, 0, 3, 0.95), 1e-2)
}

func (suite *StatsTestSuite) TestEffectiveTrials() {
	suite.InDelta(5.5, EffectiveTrials(10, 2, 4), 1e-12)
	suite.Equal(1.0, EffectiveTrials(10, 0, 4))
	suite.Equal(1.0, EffectiveTrials(1, 3, 4))
	suite.Equal(1.0, EffectiveTrials(10, 2, 0))
	suite.Equal(10.0, EffectiveTrials(10, 6, 4))
}

func (suite *StatsTestSuite) TestStatWeight() {
	suite.Equal(1.0, StatWeight(1, 100, 10))
	suite.Equal(0.2, StatWeight(0, 100, 10))
	suite.Equal(0.3, StatWeight(1, 5, 10))
	suite.InDelta(0.6, StatWeight(0.5, 100, math.Inf(1)), 1e-12)
}

func (suite *StatsTestSuite) TestAnalyze() {
	returns := drift(750, 4, 0.002, 0.01)
	a := Analyze(returns, DefaultConfig())

	suite.Equal(750, a.Moments.N)
	suite.Greater(a.SampleSharpe, 0.0)
	suite.Greater(a.Loose.PSR, 0.5)
	suite.Less(a.Strict.PSR, a.Loose.PSR)
	suite.Equal(a.Loose, a.Active)
	suite.InDelta(1/math.Sqrt(252), a.Strict.Benchmark, 1e-12)
	suite.GreaterOrEqual(a.Credibility, 0.0)
	suite.LessOrEqual(a.Credibility, 1.0)
	suite.GreaterOrEqual(a.StatWeight, 0.2)
	suite.LessOrEqual(a.StatWeight, 1.0)

	strict := DefaultConfig()
	strict.Strict = true
	suite.Equal(a.Strict, Analyze(returns, strict).Active)
}

func (suite *StatsTestSuite) TestAnalyzeShortTrack() {
	a := Analyze([]float64{0.001, -0.002, 0.0015, 0.0005}, DefaultConfig())

	suite.True(a.InsufficientTrack)
	suite.LessOrEqual(a.StatWeight, 0.3)
}

func (suite *StatsTestSuite) TestAnalyzeTrialsDeflate() {
	returns := drift(300, 5, 0.001, 0.01)
	cfg := DefaultConfig()
	one := Analyze(returns, cfg)

	cfg.Trials = 20
	many := Analyze(returns, cfg)

	suite.Equal(one.Loose.PSR, many.Loose.PSR)
	suite.Less(many.Loose.DSR, one.Loose.DSR)
	suite.LessOrEqual(many.Credibility, one.Credibility)
}

func (suite *StatsTestSuite) TestAnalyzeDeterministic() {
	returns := drift(200, 6, 0.0005, 0.012)
	suite.Equal(Analyze(returns, DefaultConfig()), Analyze(returns, DefaultConfig()))
}
