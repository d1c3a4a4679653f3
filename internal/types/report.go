package types

// ParamChange records one parameter moved by the optimizer.
type ParamChange struct {
	Scope OptimizationScope `yaml:"scope" json:"scope"`
	Name  string            `yaml:"name" json:"name"`
	From  float64           `yaml:"from" json:"from"`
	To    float64           `yaml:"to" json:"to"`
}

// OptimizationSummary describes the search performed on a training window.
type OptimizationSummary struct {
	Changes        []ParamChange `yaml:"changes" json:"changes"`
	Iterations     int           `yaml:"iterations" json:"iterations"`
	Trials         int           `yaml:"trials" json:"trials"`
	Failures       int           `yaml:"failures" json:"failures"`
	TargetedGroups int           `yaml:"targeted_groups" json:"targetedGroups"`
	ChangedGroups  int           `yaml:"changed_groups" json:"changedGroups"`
	BaselineScore  Number        `yaml:"baseline_score" json:"baselineScore"`
	BestScore      Number        `yaml:"best_score" json:"bestScore"`

	// Error is set when no candidate could be scored; the configuration is
	// left unchanged.
	Error     string `yaml:"error,omitempty" json:"error,omitempty"`
	ErrorCode int    `yaml:"error_code,omitempty" json:"errorCode,omitempty"`
}

// WindowResult is everything produced for one window.
type WindowResult struct {
	Window       Window               `yaml:"window" json:"window"`
	Config       StrategyConfig       `yaml:"config" json:"config"`
	Training     SimulationResult     `yaml:"training" json:"training"`
	Testing      SimulationResult     `yaml:"testing" json:"testing"`
	Analysis     WindowAnalysis       `yaml:"analysis" json:"analysis"`
	Optimization *OptimizationSummary `yaml:"optimization,omitempty" json:"optimization,omitempty"`
	Error        string               `yaml:"error,omitempty" json:"error,omitempty"`
	ErrorCode    int                  `yaml:"error_code,omitempty" json:"errorCode,omitempty"`
}

// Failed reports whether the window could not be evaluated.
func (w WindowResult) Failed() bool {
	return w.Error != ""
}

// WalkForwardReport is the full output of a walk-forward run.
type WalkForwardReport struct {
	RunID      string          `yaml:"run_id" json:"runId"`
	Version    string          `yaml:"version" json:"version"`
	Windows    []WindowResult  `yaml:"windows" json:"windows"`
	Aggregate  AggregateReport `yaml:"aggregate" json:"aggregate"`
	PlanIssues []PlanIssue     `yaml:"plan_issues,omitempty" json:"planIssues,omitempty"`
	Cancelled  bool            `yaml:"cancelled" json:"cancelled"`
	Error      string          `yaml:"error,omitempty" json:"error,omitempty"`
	ErrorCode  int             `yaml:"error_code,omitempty" json:"errorCode,omitempty"`
}
