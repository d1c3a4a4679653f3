package walkforward

import (
	"math"
	"slices"

	"github.com/rxtech-lab/argo-walkforward/internal/stats"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Grade gates. Efficiency gates compare medianWFE/100.
const (
	passScore       = 0.70
	passEfficiency  = 0.8
	passPSRRatio    = 0.5
	passMedianDSR   = 0.7
	observeScore    = 0.50
	observeEffRatio = 0.6
	observePSRRatio = 0.3

	psrConfidence = 0.95

	minEfficiencyAdjustment = 0.8
	maxEfficiencyAdjustment = 1.2
)

// WalkForwardEfficiency is testing/training annualized return in percent.
// It is undefined when either return is undefined or training is zero.
func WalkForwardEfficiency(training, testing types.Number) types.Number {
	if !training.IsFinite() || !testing.IsFinite() || training.Float() == 0 {
		return types.Undefined
	}

	return types.Number(testing.Float() / training.Float() * 100)
}

// WindowScore is quality·statWeight, halved for a failing window.
func WindowScore(quality, statWeight float64, passed bool) float64 {
	score := clamp01(quality) * clamp01(statWeight)
	if !passed {
		score /= 2
	}

	return score
}

// AnalyzeWindow builds the statistical record of one evaluated window.
func AnalyzeWindow(w types.WindowResult, wf types.WalkForwardConfig) types.WindowAnalysis {
	efficiency := WalkForwardEfficiency(w.Training.AnnualizedReturn, w.Testing.AnnualizedReturn)
	quality := ScoreQuality(w.Testing, withDefaults(wf.Thresholds))
	trials := trialsOf(w.Optimization)

	if w.Testing.Failed() {
		return types.WindowAnalysis{
			OOSQuality:            quality,
			MinTrackRecordLength:  types.Undefined,
			SampleSharpe:          types.Undefined,
			Skewness:              types.Undefined,
			Kurtosis:              types.Undefined,
			Autocorrelation:       types.Undefined,
			Loose:                 undefinedInference(),
			Strict:                undefinedInference(),
			EffectiveTrials:       trials,
			WalkForwardEfficiency: efficiency,
			Insufficient:          true,
		}
	}

	cfg := statsConfig(wf, trials)
	a := stats.Analyze(w.Testing.DailyReturns, cfg)

	return types.WindowAnalysis{
		OOSQuality:            quality,
		PSRProbability:        a.Active.PSR,
		DSRProbability:        a.Active.DSR,
		Loose:                 a.Loose,
		Strict:                a.Strict,
		Credibility:           a.Credibility,
		StatWeight:            a.StatWeight,
		WindowScore:           WindowScore(quality.Value, a.StatWeight, quality.Passed),
		MinTrackRecordLength:  a.Active.MinTRL,
		SampleCount:           a.Moments.N,
		EffectiveSampleCount:  a.EffectiveSampleCount,
		SampleSharpe:          types.Number(a.SampleSharpe),
		Skewness:              types.Number(a.Moments.Skewness),
		Kurtosis:              types.Number(a.Moments.Kurtosis),
		Autocorrelation:       types.Number(a.Autocorrelation),
		EffectiveTrials:       trials,
		WalkForwardEfficiency: efficiency,
		InsufficientTrack:     a.InsufficientTrack,
	}
}

// Aggregate folds evaluated windows into the run report. Windows carrying an
// error are counted but excluded from every median; insufficient windows stay
// in with a zero score. The combined inference
// uses the testing returns of all evaluated windows as one series.
func Aggregate(windows []types.WindowResult, wf types.WalkForwardConfig) types.AggregateReport {
	report := types.AggregateReport{
		WindowCount:                   len(windows),
		MedianWFE:                     types.Undefined,
		WFEAdjustment:                 minEfficiencyAdjustment,
		MedianTestingAnnualizedReturn: types.Undefined,
		MedianTestingSharpe:           types.Undefined,
		Combined:                      undefinedInference(),
		Grade:                         types.GradeFail,
	}

	var (
		quality, scores, psr, dsr, credibility, weights []float64
		wfe, testingReturn, testingSharpe               []float64
		psrPassed                                       int
		concatenated                                    []float64
		sums                                            stats.PowerSums
		trials                                          = 1.0
	)

	for _, w := range windows {
		if w.Failed() {
			continue
		}

		a := w.Analysis
		report.EvaluatedWindows++

		quality = append(quality, a.OOSQuality.Value)
		scores = append(scores, a.WindowScore)
		psr = append(psr, a.PSRProbability)
		dsr = append(dsr, a.DSRProbability)
		credibility = append(credibility, a.Credibility)
		weights = append(weights, a.StatWeight)

		if a.PSRProbability >= psrConfidence {
			psrPassed++
		}

		if a.WalkForwardEfficiency.IsFinite() {
			wfe = append(wfe, a.WalkForwardEfficiency.Float())
		}

		if w.Testing.AnnualizedReturn.IsFinite() {
			testingReturn = append(testingReturn, w.Testing.AnnualizedReturn.Float())
		}

		if w.Testing.SharpeRatio.IsFinite() {
			testingSharpe = append(testingSharpe, w.Testing.SharpeRatio.Float())
		}

		if !w.Testing.Failed() {
			sums = sums.Merge(stats.SumsOf(w.Testing.DailyReturns))
			concatenated = append(concatenated, w.Testing.DailyReturns...)
		}

		trials = math.Max(trials, a.EffectiveTrials)
	}

	if report.EvaluatedWindows == 0 {
		return report
	}

	report.MedianQuality = median(quality)
	report.MedianWindowScore = median(scores)
	report.MedianPSR = median(psr)
	report.MedianDSR = median(dsr)
	report.MedianCredibility = median(credibility)
	report.MedianStatWeight = median(weights)
	report.PSRPassRatio = float64(psrPassed) / float64(report.EvaluatedWindows)
	report.MedianWFE = medianNumber(wfe)
	report.MedianTestingAnnualizedReturn = medianNumber(testingReturn)
	report.MedianTestingSharpe = medianNumber(testingSharpe)

	if report.MedianWFE.IsFinite() {
		report.WFEAdjustment = math.Max(minEfficiencyAdjustment,
			math.Min(maxEfficiencyAdjustment, report.MedianWFE.Float()/100))
	}

	report.TotalScore = clamp01(report.MedianWindowScore * report.WFEAdjustment)

	if sums.N > 0 {
		combined := stats.AnalyzeSums(sums, stats.LagOneAutocorrelation(concatenated), statsConfig(wf, trials))
		report.Combined = combined.Active
		report.CombinedSampleCount = sums.N
		report.CombinedEffectiveSampleCount = combined.EffectiveSampleCount
	}

	report.Grade = grade(report)

	if report.Grade != types.GradeFail && combinedDeflated(report) {
		report.Grade = report.Grade.Downgrade()
		report.Downgraded = true
	}

	return report
}

func grade(r types.AggregateReport) types.Grade {
	efficiency := math.NaN()
	if r.MedianWFE.IsFinite() {
		efficiency = r.MedianWFE.Float() / 100
	}

	switch {
	case r.TotalScore >= passScore && efficiency >= passEfficiency &&
		r.PSRPassRatio >= passPSRRatio && r.MedianDSR >= passMedianDSR:
		return types.GradePass
	case r.TotalScore >= observeScore && efficiency >= observeEffRatio &&
		r.PSRPassRatio >= observePSRRatio:
		return types.GradeObserve
	default:
		return types.GradeFail
	}
}

// combinedDeflated reports whether the merged series has no positive
// deflated z-score, or none could be computed.
func combinedDeflated(r types.AggregateReport) bool {
	z := r.Combined.DeflatedZ
	if !z.IsDefined() {
		return true
	}

	return z.Float() <= 0
}

func statsConfig(wf types.WalkForwardConfig, trials float64) stats.Config {
	cfg := stats.DefaultConfig()
	if wf.PeriodsPerYear > 0 {
		cfg.PeriodsPerYear = wf.PeriodsPerYear
	}

	cfg.RiskFreeAnnual = wf.RiskFreeAnnual
	if wf.TargetConfidence > 0 && wf.TargetConfidence < 1 {
		cfg.TargetConfidence = wf.TargetConfidence
	}

	cfg.Strict = wf.StrictMode
	cfg.Trials = math.Max(1, trials)

	return cfg
}

func trialsOf(summary *types.OptimizationSummary) float64 {
	if summary == nil {
		return 1
	}

	return stats.EffectiveTrials(summary.Trials, summary.ChangedGroups, summary.TargetedGroups)
}

func withDefaults(t types.Thresholds) types.Thresholds {
	if t == (types.Thresholds{}) {
		return types.DefaultThresholds()
	}

	return t
}

func undefinedInference() types.SharpeInference {
	return types.SharpeInference{
		ZScore:    types.Undefined,
		DeflatedZ: types.Undefined,
		MinTRL:    types.Undefined,
	}
}

// median averages the two middle values of an even-length sample.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}

func medianNumber(values []float64) types.Number {
	if len(values) == 0 {
		return types.Undefined
	}

	return types.Number(median(values))
}
