package types

// StrategyID names a registered entry/exit rule.
type StrategyID string

const (
	StrategyMACross           StrategyID = "ma_cross"
	StrategyRSI               StrategyID = "rsi"
	StrategyMACD              StrategyID = "macd"
	StrategyBollingerBreakout StrategyID = "bollinger_breakout"
	StrategyBollingerReversal StrategyID = "bollinger_reversal"
	StrategyKDCross           StrategyID = "kd_cross"
	StrategyWilliamsR         StrategyID = "williams_r"
	StrategyPriceBreakout     StrategyID = "price_breakout"
	StrategyVolumeSpike       StrategyID = "volume_spike"
	StrategyTrailingStop      StrategyID = "trailing_stop"
	StrategyFixedPeriod       StrategyID = "fixed_period"
)

// TradeTiming selects the execution price for a signal raised on a bar.
type TradeTiming string

const (
	// TradeTimingClose fills at the signal bar's close.
	TradeTimingClose TradeTiming = "close"
	// TradeTimingNextOpen fills at the following bar's open.
	TradeTimingNextOpen TradeTiming = "nextOpen"
)

// PositionBasis selects the capital that position sizing is a percentage of.
type PositionBasis string

const (
	PositionBasisInitialCapital PositionBasis = "initialCapital"
	PositionBasisRollingCapital PositionBasis = "rollingCapital"
)

// Params holds numeric strategy parameters by name.
type Params map[string]float64

// Clone returns an independent copy.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}

	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// StrategyConfig is the full input of one simulation. All *Pct fields are percentages.
type StrategyConfig struct {
	EntryStrategy      StrategyID    `yaml:"entry_strategy" json:"entryStrategy" validate:"required" jsonschema:"title=Entry Strategy"`
	EntryParams        Params        `yaml:"entry_params,omitempty" json:"entryParams,omitempty"`
	ExitStrategy       StrategyID    `yaml:"exit_strategy" json:"exitStrategy" validate:"required" jsonschema:"title=Exit Strategy"`
	ExitParams         Params        `yaml:"exit_params,omitempty" json:"exitParams,omitempty"`
	EnableShorting     bool          `yaml:"enable_shorting" json:"enableShorting"`
	ShortEntryStrategy StrategyID    `yaml:"short_entry_strategy" json:"shortEntryStrategy,omitempty" validate:"required_if=EnableShorting true"`
	ShortEntryParams   Params        `yaml:"short_entry_params,omitempty" json:"shortEntryParams,omitempty"`
	ShortExitStrategy  StrategyID    `yaml:"short_exit_strategy" json:"shortExitStrategy,omitempty" validate:"required_if=EnableShorting true"`
	ShortExitParams    Params        `yaml:"short_exit_params,omitempty" json:"shortExitParams,omitempty"`
	StopLossPct        float64       `yaml:"stop_loss_pct" json:"stopLossPct" validate:"gte=0,lt=100" jsonschema:"minimum=0"`
	TakeProfitPct      float64       `yaml:"take_profit_pct" json:"takeProfitPct" validate:"gte=0" jsonschema:"minimum=0"`
	TradeTiming        TradeTiming   `yaml:"trade_timing" json:"tradeTiming" validate:"oneof=close nextOpen" jsonschema:"enum=close,enum=nextOpen"`
	PositionSizePct    float64       `yaml:"position_size_pct" json:"positionSizePct" validate:"gt=0,lte=100" jsonschema:"minimum=0,maximum=100"`
	PositionBasis      PositionBasis `yaml:"position_basis" json:"positionBasis" validate:"oneof=initialCapital rollingCapital" jsonschema:"enum=initialCapital,enum=rollingCapital"`
	BuyFeePct          float64       `yaml:"buy_fee_pct" json:"buyFeePct" validate:"gte=0,lt=100"`
	SellFeePct         float64       `yaml:"sell_fee_pct" json:"sellFeePct" validate:"gte=0,lt=100"`
	InitialCapital     float64       `yaml:"initial_capital" json:"initialCapital" validate:"gt=0" jsonschema:"minimum=0"`
}

// DefaultStrategyConfig returns a long-only configuration with full sizing and no fees.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		EntryStrategy:   StrategyMACross,
		ExitStrategy:    StrategyMACross,
		TradeTiming:     TradeTimingClose,
		PositionSizePct: 100,
		PositionBasis:   PositionBasisInitialCapital,
		InitialCapital:  100000,
	}
}

// Clone returns a deep copy so per-window parameter mutation never leaks.
func (c StrategyConfig) Clone() StrategyConfig {
	out := c
	out.EntryParams = c.EntryParams.Clone()
	out.ExitParams = c.ExitParams.Clone()
	out.ShortEntryParams = c.ShortEntryParams.Clone()
	out.ShortExitParams = c.ShortExitParams.Clone()

	return out
}
