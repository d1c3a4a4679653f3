package backtest

import "github.com/shopspring/decimal"

// FeeModel prices the cash side of a trade.
type FeeModel interface {
	// BuyCost is the cash paid to buy (or cover) shares at price, fees included.
	BuyCost(shares, price float64) decimal.Decimal
	// SellProceeds is the cash received selling (or shorting) shares at price, net of fees.
	SellProceeds(shares, price float64) decimal.Decimal
	// UnitCost is the cash needed per share bought at price.
	UnitCost(price float64) float64
}

// PercentageFee charges a percentage of notional on each side. Any transaction
// tax is folded into the sell rate.
type PercentageFee struct {
	buy  decimal.Decimal
	sell decimal.Decimal
}

// ZeroFee charges nothing.
type ZeroFee struct{}

var hundred = decimal.NewFromInt(100)

// NewFeeModel returns the fee model for the given percentages.
func NewFeeModel(buyPct, sellPct float64) FeeModel {
	if buyPct == 0 && sellPct == 0 {
		return ZeroFee{}
	}

	return &PercentageFee{
		buy:  decimal.NewFromFloat(buyPct).Div(hundred),
		sell: decimal.NewFromFloat(sellPct).Div(hundred),
	}
}

func notional(shares, price float64) decimal.Decimal {
	return decimal.NewFromFloat(shares).Mul(decimal.NewFromFloat(price))
}

// BuyCost implements FeeModel.
func (f *PercentageFee) BuyCost(shares, price float64) decimal.Decimal {
	return notional(shares, price).Mul(decimal.NewFromInt(1).Add(f.buy))
}

// SellProceeds implements FeeModel.
func (f *PercentageFee) SellProceeds(shares, price float64) decimal.Decimal {
	return notional(shares, price).Mul(decimal.NewFromInt(1).Sub(f.sell))
}

// UnitCost implements FeeModel.
func (f *PercentageFee) UnitCost(price float64) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(1).Add(f.buy)).InexactFloat64()
}

// BuyCost implements FeeModel.
func (ZeroFee) BuyCost(shares, price float64) decimal.Decimal {
	return notional(shares, price)
}

// SellProceeds implements FeeModel.
func (ZeroFee) SellProceeds(shares, price float64) decimal.Decimal {
	return notional(shares, price)
}

// UnitCost implements FeeModel.
func (ZeroFee) UnitCost(price float64) float64 {
	return price
}
