package types

// PlanMode chooses how window durations are obtained.
type PlanMode string

const (
	// PlanModeAuto derives durations from WindowCount and the available span.
	PlanModeAuto PlanMode = "auto"
	// PlanModeManual uses TrainingMonths/TestingMonths/StepMonths as given.
	PlanModeManual PlanMode = "manual"
)

// TargetMetric is the simulation metric the optimizer ranks candidates by.
type TargetMetric string

const (
	TargetAnnualizedReturn TargetMetric = "annualizedReturn"
	TargetSharpeRatio      TargetMetric = "sharpeRatio"
	TargetSortinoRatio     TargetMetric = "sortinoRatio"
	TargetMaxDrawdownPct   TargetMetric = "maxDrawdownPct"
	TargetWinRatePct       TargetMetric = "winRatePct"
)

// Minimize reports whether smaller values of the metric are better.
func (m TargetMetric) Minimize() bool {
	return m == TargetMaxDrawdownPct
}

// Value extracts the metric from a simulation result.
func (m TargetMetric) Value(r SimulationResult) Number {
	switch m {
	case TargetAnnualizedReturn:
		return r.AnnualizedReturn
	case TargetSharpeRatio:
		return r.SharpeRatio
	case TargetSortinoRatio:
		return r.SortinoRatio
	case TargetMaxDrawdownPct:
		return r.MaxDrawdownPct
	case TargetWinRatePct:
		return r.WinRatePct
	default:
		return Undefined
	}
}

// OptimizationScope is one parameter group the optimizer may touch.
type OptimizationScope string

const (
	ScopeEntry      OptimizationScope = "entry"
	ScopeExit       OptimizationScope = "exit"
	ScopeShortEntry OptimizationScope = "shortEntry"
	ScopeShortExit  OptimizationScope = "shortExit"
	// ScopeRisk covers stop-loss and take-profit percentages.
	ScopeRisk OptimizationScope = "risk"
)

// Thresholds are the per-metric bars a testing window is graded against.
type Thresholds struct {
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualizedReturn"`
	SharpeRatio      float64 `yaml:"sharpe_ratio" json:"sharpeRatio"`
	SortinoRatio     float64 `yaml:"sortino_ratio" json:"sortinoRatio"`
	MaxDrawdownPct   float64 `yaml:"max_drawdown_pct" json:"maxDrawdownPct" validate:"gt=0"`
	WinRatePct       float64 `yaml:"win_rate_pct" json:"winRatePct" validate:"gte=0,lte=100"`
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AnnualizedReturn: 10,
		SharpeRatio:      1,
		SortinoRatio:     1.5,
		MaxDrawdownPct:   20,
		WinRatePct:       50,
	}
}

// OptimizationConfig controls per-window parameter search.
type OptimizationConfig struct {
	Enabled            bool                `yaml:"enabled" json:"enabled"`
	TargetMetric       TargetMetric        `yaml:"target_metric" json:"targetMetric" validate:"omitempty,oneof=annualizedReturn sharpeRatio sortinoRatio maxDrawdownPct winRatePct"`
	TrialsPerParameter int                 `yaml:"trials_per_parameter" json:"trialsPerParameter" validate:"omitempty,min=2"`
	IterationLimit     int                 `yaml:"iteration_limit" json:"iterationLimit" validate:"omitempty,min=1"`
	Scopes             []OptimizationScope `yaml:"scopes" json:"scopes" validate:"dive,oneof=entry exit shortEntry shortExit risk"`
	// Workers bounds concurrent candidate simulations; 1 is sequential.
	Workers int `yaml:"workers" json:"workers" validate:"omitempty,min=1"`
}

// WalkForwardConfig is the walk-forward request from the collaborator.
type WalkForwardConfig struct {
	Mode           PlanMode           `yaml:"mode" json:"mode" validate:"oneof=auto manual"`
	WindowCount    int                `yaml:"window_count" json:"windowCount" validate:"min=1"`
	TrainingMonths int                `yaml:"training_months" json:"trainingMonths" validate:"omitempty,min=1"`
	TestingMonths  int                `yaml:"testing_months" json:"testingMonths" validate:"omitempty,min=1"`
	StepMonths     int                `yaml:"step_months" json:"stepMonths" validate:"omitempty,min=1"`
	Thresholds     Thresholds         `yaml:"thresholds" json:"thresholds"`
	Optimization   OptimizationConfig `yaml:"optimization" json:"optimization"`
	// StrictMode makes SR* = 1 annualized the active benchmark instead of 0.
	StrictMode bool `yaml:"strict_mode" json:"strictMode"`
	// PeriodsPerYear converts between per-bar and annual figures (252 for daily bars).
	PeriodsPerYear   int     `yaml:"periods_per_year" json:"periodsPerYear" validate:"min=1"`
	RiskFreeAnnual   float64 `yaml:"risk_free_annual" json:"riskFreeAnnual" validate:"gte=0,lt=1"`
	TargetConfidence float64 `yaml:"target_confidence" json:"targetConfidence" validate:"gt=0,lt=1"`
	// MaxConcurrentWindows bounds concurrently evaluated windows; 1 is sequential.
	MaxConcurrentWindows int `yaml:"max_concurrent_windows" json:"maxConcurrentWindows" validate:"min=1"`
	// Span restricts planning to this range; zero means the full bar series.
	Span DateRange `yaml:"span,omitempty" json:"span"`
}

// DefaultWalkForwardConfig returns an auto-mode configuration with the 36:12:6 ratio.
func DefaultWalkForwardConfig() WalkForwardConfig {
	return WalkForwardConfig{
		Mode:           PlanModeAuto,
		WindowCount:    4,
		TrainingMonths: 36,
		TestingMonths:  12,
		StepMonths:     6,
		Thresholds:     DefaultThresholds(),
		Optimization: OptimizationConfig{
			Enabled:            false,
			TargetMetric:       TargetSharpeRatio,
			TrialsPerParameter: 5,
			IterationLimit:     3,
			Scopes:             []OptimizationScope{ScopeEntry, ScopeExit},
			Workers:            1,
		},
		StrictMode:           false,
		PeriodsPerYear:       252,
		RiskFreeAnnual:       0.01,
		TargetConfidence:     0.95,
		MaxConcurrentWindows: 1,
	}
}
