// Package metrics derives portfolio statistics from a simulated equity curve
// and its completed trades. Returns and drawdowns are in percent; Sharpe and
// Sortino are annualized ratios.
package metrics

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"gonum.org/v1/gonum/stat"
)

// minYears is half a day. Shorter spans report the raw return instead of an
// annualized one.
const minYears = 0.5 / 365.25

// Config carries the annualization constants.
type Config struct {
	PeriodsPerYear int
	RiskFreeAnnual float64
}

// DefaultConfig assumes daily bars and a 1% risk-free rate.
func DefaultConfig() Config {
	return Config{PeriodsPerYear: 252, RiskFreeAnnual: 0.01}
}

// DailyRiskFree converts the annual risk-free rate to a per-period rate.
func (c Config) DailyRiskFree() float64 {
	return math.Pow(1+c.RiskFreeAnnual, 1/float64(c.periods())) - 1
}

func (c Config) periods() int {
	if c.PeriodsPerYear <= 0 {
		return 252
	}

	return c.PeriodsPerYear
}

// AnnualizedReturn returns (final/initial)^(1/years) - 1 in percent. Spans
// under half a day return the raw total return.
func AnnualizedReturn(initial, final, years float64) float64 {
	if initial <= 0 {
		return 0
	}

	ratio := final / initial
	if ratio <= 0 {
		return -100
	}

	if years < minYears {
		return (ratio - 1) * 100
	}

	return (math.Pow(ratio, 1/years) - 1) * 100
}

// BuyHoldAnnualizedReturn annualizes the move from the first to the last
// present close. It is undefined when fewer than one close is present.
func BuyHoldAnnualizedReturn(closes types.Series, years float64) types.Number {
	first, last := math.NaN(), math.NaN()

	for i := range closes {
		v, ok := closes.At(i)
		if !ok {
			continue
		}

		if math.IsNaN(first) {
			first = v
		}

		last = v
	}

	if math.IsNaN(first) {
		return types.Undefined
	}

	return types.Number(AnnualizedReturn(first, last, years))
}

// MaxDrawdownPct is the largest fall from a running peak, in percent of that peak.
func MaxDrawdownPct(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0]
	worst := 0.0

	for _, v := range equity {
		if v > peak {
			peak = v
		}

		if peak > 0 {
			if dd := (peak - v) / peak; dd > worst {
				worst = dd
			}
		}
	}

	return worst * 100
}

// DailyReturns returns the simple period-over-period returns of equity.
func DailyReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return []float64{}
	}

	out := make([]float64, 0, len(equity)-1)

	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			out = append(out, 0)

			continue
		}

		out = append(out, equity[i]/equity[i-1]-1)
	}

	return out
}

// Sharpe returns (annualized return - risk-free) / (σ_daily·√periods). It is 0
// with fewer than two returns or no variation.
func Sharpe(annualizedPct float64, daily []float64, cfg Config) float64 {
	if len(daily) < 2 {
		return 0
	}

	std := stat.StdDev(daily, nil)
	if std == 0 || math.IsNaN(std) {
		return 0
	}

	return (annualizedPct/100 - cfg.RiskFreeAnnual) / (std * math.Sqrt(float64(cfg.periods())))
}

// Sortino is Sharpe with the downside deviation below the daily risk-free
// target as denominator. Varying returns that never fall below the target
// give +Inf when the excess return is positive and 0 otherwise.
func Sortino(annualizedPct float64, daily []float64, cfg Config) float64 {
	if len(daily) < 2 {
		return 0
	}

	std := stat.StdDev(daily, nil)
	if std == 0 || math.IsNaN(std) {
		return 0
	}

	target := cfg.DailyRiskFree()
	sum := 0.0

	for _, r := range daily {
		if d := r - target; d < 0 {
			sum += d * d
		}
	}

	numerator := annualizedPct/100 - cfg.RiskFreeAnnual
	if sum == 0 {
		if numerator > 0 {
			return math.Inf(1)
		}

		return 0
	}

	downside := math.Sqrt(sum / float64(len(daily)))

	return numerator / (downside * math.Sqrt(float64(cfg.periods())))
}

// WinRatePct is the share of completed trades with positive profit.
func WinRatePct(trades []types.CompletedTrade) float64 {
	if len(trades) == 0 {
		return 0
	}

	wins := 0

	for _, t := range trades {
		if t.Profit > 0 {
			wins++
		}
	}

	return float64(wins) / float64(len(trades)) * 100
}

// MaxConsecutiveLosses is the longest run of losing completed trades.
func MaxConsecutiveLosses(trades []types.CompletedTrade) int {
	longest, run := 0, 0

	for _, t := range trades {
		if t.Profit < 0 {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}

	return longest
}

// HalfPeriodRatios splits the curve at its midpoint and compares the second
// half's annualized return and Sharpe with the first's.
func HalfPeriodRatios(dates []time.Time, equity []float64, cfg Config) types.HalfPeriodRatios {
	out := types.HalfPeriodRatios{
		FirstHalfReturn:  types.Undefined,
		SecondHalfReturn: types.Undefined,
		FirstHalfSharpe:  types.Undefined,
		SecondHalfSharpe: types.Undefined,
		ReturnRatio:      types.Undefined,
		SharpeRatio:      types.Undefined,
	}

	if len(equity) < 4 || len(dates) != len(equity) {
		return out
	}

	mid := len(equity) / 2

	half := func(from, to int) (float64, float64) {
		years := dates[to].Sub(dates[from]).Hours() / 24 / 365.25
		ret := AnnualizedReturn(equity[from], equity[to], years)

		return ret, Sharpe(ret, DailyReturns(equity[from:to+1]), cfg)
	}

	r1, s1 := half(0, mid)
	r2, s2 := half(mid, len(equity)-1)

	out.FirstHalfReturn = types.Number(r1)
	out.SecondHalfReturn = types.Number(r2)
	out.FirstHalfSharpe = types.Number(s1)
	out.SecondHalfSharpe = types.Number(s2)
	out.ReturnRatio = ratio(r2, r1)
	out.SharpeRatio = ratio(s2, s1)

	return out
}

func ratio(a, b float64) types.Number {
	if b == 0 {
		return types.Undefined
	}

	return types.Number(a / b)
}
