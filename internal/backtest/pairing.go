package backtest

import (
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/shopspring/decimal"
)

// PairTrades matches each exit with the oldest open entry of the same book.
// Unmatched entries are dropped.
func PairTrades(trades []types.TradeRecord) []types.CompletedTrade {
	open := map[types.Book][]types.TradeRecord{}
	completed := make([]types.CompletedTrade, 0, len(trades)/2)

	for _, t := range trades {
		book := t.Kind.Book()

		if t.Kind.IsEntry() {
			open[book] = append(open[book], t)

			continue
		}

		queue := open[book]
		if len(queue) == 0 {
			continue
		}

		entry := queue[0]
		open[book] = queue[1:]

		completed = append(completed, complete(entry, t))
	}

	return completed
}

func complete(entry, exit types.TradeRecord) types.CompletedTrade {
	in := decimal.NewFromFloat(entry.FeeAdjustedValue)
	out := decimal.NewFromFloat(exit.FeeAdjustedValue)

	profit := out.Sub(in)
	if entry.Kind.Book() == types.BookShort {
		profit = in.Sub(out)
	}

	pct := decimal.Zero
	if !in.IsZero() {
		pct = profit.Div(in).Mul(hundred)
	}

	return types.CompletedTrade{
		Entry:     entry,
		Exit:      exit,
		Profit:    profit.InexactFloat64(),
		ProfitPct: pct.InexactFloat64(),
	}
}
