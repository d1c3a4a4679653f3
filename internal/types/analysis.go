package types

// QualityComponent is one per-metric sub-score of the OOS quality score.
type QualityComponent struct {
	Metric    string  `yaml:"metric" json:"metric"`
	Value     Number  `yaml:"value" json:"value"`
	Threshold Number  `yaml:"threshold" json:"threshold"`
	Score     float64 `yaml:"score" json:"score"`
	Weight    float64 `yaml:"weight" json:"weight"`
	Passed    bool    `yaml:"passed" json:"passed"`
}

// OOSQuality is the weighted quality of a testing window.
type OOSQuality struct {
	Value      float64            `yaml:"value" json:"value"`
	RawValue   float64            `yaml:"raw_value" json:"rawValue"`
	PassRatio  float64            `yaml:"pass_ratio" json:"passRatio"`
	Passed     bool               `yaml:"passed" json:"passed"`
	Components []QualityComponent `yaml:"components" json:"components"`
}

// SharpeInference holds PSR/DSR/MinTRL against one benchmark Sharpe.
type SharpeInference struct {
	// Benchmark is the per-period SR*.
	Benchmark float64 `yaml:"benchmark" json:"benchmark"`
	ZScore    Number  `yaml:"z_score" json:"zScore"`
	PSR       float64 `yaml:"psr" json:"psr"`
	DeflatedZ Number  `yaml:"deflated_z" json:"deflatedZ"`
	DSR       float64 `yaml:"dsr" json:"dsr"`
	MinTRL    Number  `yaml:"min_trl" json:"minTrl"`
}

// WindowAnalysis is the statistical record of one walk-forward window.
type WindowAnalysis struct {
	OOSQuality           OOSQuality      `yaml:"oos_quality" json:"oosQuality"`
	PSRProbability       float64         `yaml:"psr_probability" json:"psrProbability"`
	DSRProbability       float64         `yaml:"dsr_probability" json:"dsrProbability"`
	Loose                SharpeInference `yaml:"loose" json:"loose"`
	Strict               SharpeInference `yaml:"strict" json:"strict"`
	Credibility          float64         `yaml:"credibility" json:"credibility"`
	StatWeight           float64         `yaml:"stat_weight" json:"statWeight"`
	WindowScore          float64         `yaml:"window_score" json:"windowScore"`
	MinTrackRecordLength Number          `yaml:"min_track_record_length" json:"minTrackRecordLength"`
	SampleCount          int             `yaml:"sample_count" json:"sampleCount"`
	EffectiveSampleCount float64         `yaml:"effective_sample_count" json:"effectiveSampleCount"`
	SampleSharpe         Number          `yaml:"sample_sharpe" json:"sampleSharpe"`
	Skewness             Number          `yaml:"skewness" json:"skewness"`
	Kurtosis             Number          `yaml:"kurtosis" json:"kurtosis"`
	Autocorrelation      Number          `yaml:"autocorrelation" json:"autocorrelation"`
	EffectiveTrials      float64         `yaml:"effective_trials" json:"effectiveTrials"`
	// WalkForwardEfficiency is testing/training annualized return in percent.
	WalkForwardEfficiency Number `yaml:"walk_forward_efficiency" json:"walkForwardEfficiency"`
	InsufficientTrack     bool   `yaml:"insufficient_track" json:"insufficientTrack"`
	Insufficient          bool   `yaml:"insufficient" json:"insufficient"`
}

// Grade is the categorical outcome of a walk-forward run.
type Grade string

const (
	GradeFail    Grade = "fail"
	GradeObserve Grade = "observe"
	GradePass    Grade = "pass"
)

// Downgrade returns the grade one level below g.
func (g Grade) Downgrade() Grade {
	switch g {
	case GradePass:
		return GradeObserve
	default:
		return GradeFail
	}
}

// AggregateReport summarizes every window of a walk-forward run.
type AggregateReport struct {
	WindowCount       int     `yaml:"window_count" json:"windowCount"`
	EvaluatedWindows  int     `yaml:"evaluated_windows" json:"evaluatedWindows"`
	MedianQuality     float64 `yaml:"median_quality" json:"medianQuality"`
	MedianWindowScore float64 `yaml:"median_window_score" json:"medianWindowScore"`
	MedianPSR         float64 `yaml:"median_psr" json:"medianPsr"`
	MedianDSR         float64 `yaml:"median_dsr" json:"medianDsr"`
	MedianCredibility float64 `yaml:"median_credibility" json:"medianCredibility"`
	MedianStatWeight  float64 `yaml:"median_stat_weight" json:"medianStatWeight"`
	// MedianWFE is in percent.
	MedianWFE     Number  `yaml:"median_wfe" json:"medianWfe"`
	WFEAdjustment float64 `yaml:"wfe_adjustment" json:"wfeAdjustment"`
	// PSRPassRatio is the share of windows whose active PSR reached 95%.
	PSRPassRatio                  float64         `yaml:"psr_pass_ratio" json:"psrPassRatio"`
	MedianTestingAnnualizedReturn Number          `yaml:"median_testing_annualized_return" json:"medianTestingAnnualizedReturn"`
	MedianTestingSharpe           Number          `yaml:"median_testing_sharpe" json:"medianTestingSharpe"`
	Combined                      SharpeInference `yaml:"combined" json:"combined"`
	CombinedSampleCount           int             `yaml:"combined_sample_count" json:"combinedSampleCount"`
	CombinedEffectiveSampleCount  float64         `yaml:"combined_effective_sample_count" json:"combinedEffectiveSampleCount"`
	TotalScore                    float64         `yaml:"total_score" json:"totalScore"`
	Grade                         Grade           `yaml:"grade" json:"grade"`
	Downgraded                    bool            `yaml:"downgraded" json:"downgraded"`
}
