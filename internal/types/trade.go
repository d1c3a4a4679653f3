package types

import "time"

// TradeKind is one side of a position lifecycle.
type TradeKind string

const (
	TradeKindBuy   TradeKind = "buy"
	TradeKindSell  TradeKind = "sell"
	TradeKindShort TradeKind = "short"
	TradeKindCover TradeKind = "cover"
)

// Book identifies the long or the short position book.
type Book string

const (
	BookLong  Book = "long"
	BookShort Book = "short"
)

// Book returns the book a trade kind belongs to.
func (k TradeKind) Book() Book {
	if k == TradeKindShort || k == TradeKindCover {
		return BookShort
	}

	return BookLong
}

// IsEntry reports whether the kind opens a position.
func (k TradeKind) IsEntry() bool {
	return k == TradeKindBuy || k == TradeKindShort
}

const (
	// SourceStopLoss marks an exit forced by the stop-loss override.
	SourceStopLoss = "stop_loss"
	// SourceTakeProfit marks an exit forced by the take-profit override.
	SourceTakeProfit = "take_profit"
	// SourceEndOfPeriod marks the forced close on the last bar.
	SourceEndOfPeriod = "end_of_period"
)

// TradeRecord is one executed simulated trade.
type TradeRecord struct {
	Kind  TradeKind `yaml:"kind" json:"kind" csv:"kind"`
	Date  time.Time `yaml:"date" json:"date" csv:"date"`
	Price float64   `yaml:"price" json:"price" csv:"price"`
	// Shares is always a whole number.
	Shares float64 `yaml:"shares" json:"shares" csv:"shares"`
	// FeeAdjustedValue is the cash cost of a buy/cover or the cash proceeds of a sell/short.
	FeeAdjustedValue      float64            `yaml:"fee_adjusted_value" json:"feeAdjustedValue" csv:"fee_adjusted_value"`
	TriggeredByStopLoss   bool               `yaml:"triggered_by_stop_loss" json:"triggeredByStopLoss" csv:"triggered_by_stop_loss"`
	TriggeredByTakeProfit bool               `yaml:"triggered_by_take_profit" json:"triggeredByTakeProfit" csv:"triggered_by_take_profit"`
	StrategySource        string             `yaml:"strategy_source" json:"strategySource" csv:"strategy_source"`
	Snapshot              map[string]float64 `yaml:"snapshot,omitempty" json:"snapshot,omitempty" csv:"-"`
}

// CompletedTrade pairs an entry with the exit that closed it.
type CompletedTrade struct {
	Entry     TradeRecord `yaml:"entry" json:"entry"`
	Exit      TradeRecord `yaml:"exit" json:"exit"`
	Profit    float64     `yaml:"profit" json:"profit"`
	ProfitPct float64     `yaml:"profit_pct" json:"profitPct"`
}

// Book returns the book of the pair.
func (t CompletedTrade) Book() Book {
	return t.Entry.Kind.Book()
}
