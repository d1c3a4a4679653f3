package types

import "time"

// HalfPeriodRatios compares the second half of a simulated span to the first.
// Ratios near 1 indicate stable behaviour.
type HalfPeriodRatios struct {
	FirstHalfReturn  Number `yaml:"first_half_return" json:"firstHalfReturn"`
	SecondHalfReturn Number `yaml:"second_half_return" json:"secondHalfReturn"`
	FirstHalfSharpe  Number `yaml:"first_half_sharpe" json:"firstHalfSharpe"`
	SecondHalfSharpe Number `yaml:"second_half_sharpe" json:"secondHalfSharpe"`
	ReturnRatio      Number `yaml:"return_ratio" json:"returnRatio"`
	SharpeRatio      Number `yaml:"sharpe_ratio" json:"sharpeRatio"`
}

// SimulationResult is the output of one backtest call. Percent metrics are in percent.
type SimulationResult struct {
	Range             DateRange        `yaml:"range" json:"range"`
	Dates             []time.Time      `yaml:"dates" json:"dates"`
	EquityCurve       []float64        `yaml:"equity_curve" json:"equityCurve"`
	StrategyReturnPct []float64        `yaml:"strategy_return_pct" json:"strategyReturnPct"`
	BuyHoldReturnPct  Series           `yaml:"-" json:"buyHoldReturnPct"`
	DailyReturns      []float64        `yaml:"daily_returns" json:"dailyReturns"`
	Trades            []TradeRecord    `yaml:"trades" json:"trades"`
	CompletedTrades   []CompletedTrade `yaml:"completed_trades" json:"completedTrades"`

	AnnualizedReturn        Number `yaml:"annualized_return" json:"annualizedReturn"`
	BuyHoldAnnualizedReturn Number `yaml:"buy_hold_annualized_return" json:"buyHoldAnnualizedReturn"`
	MaxDrawdownPct          Number `yaml:"max_drawdown_pct" json:"maxDrawdownPct"`
	SharpeRatio             Number `yaml:"sharpe_ratio" json:"sharpeRatio"`
	SortinoRatio            Number `yaml:"sortino_ratio" json:"sortinoRatio"`
	WinRatePct              Number `yaml:"win_rate_pct" json:"winRatePct"`
	TradesCount             int    `yaml:"trades_count" json:"tradesCount"`
	MaxConsecutiveLosses    int    `yaml:"max_consecutive_losses" json:"maxConsecutiveLosses"`

	HalfPeriod HalfPeriodRatios `yaml:"half_period" json:"halfPeriod"`

	// Insufficient is set when the series is shorter than the longest lookback.
	Insufficient bool   `yaml:"insufficient" json:"insufficient"`
	Error        string `yaml:"error,omitempty" json:"error,omitempty"`
	ErrorCode    int    `yaml:"error_code,omitempty" json:"errorCode,omitempty"`
}

// Failed reports whether the result carries an error marker.
func (r SimulationResult) Failed() bool {
	return r.Insufficient || r.Error != ""
}

// FinalEquity returns the last equity value, or fallback for an empty curve.
func (r SimulationResult) FinalEquity(fallback float64) float64 {
	if len(r.EquityCurve) == 0 {
		return fallback
	}

	return r.EquityCurve[len(r.EquityCurve)-1]
}
