package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// DataGenerator generates daily OHLCV bars for tests and benchmarks.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// StartDate is the first trading day of the series
	StartDate time.Time
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility is the daily standard deviation of returns (0.01 = 1%)
	Volatility float64
	// Drift is the mean daily return
	Drift float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// SkipWeekends leaves Saturdays and Sundays out of the calendar
	SkipWeekends bool
}

// DefaultConfig returns one year of weekday bars with 1% daily volatility.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartDate:      time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.01,
		Drift:          0.0003,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
		SkipWeekends:   true,
	}
}

// Generate creates bars following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentDate := tradingDay(config.StartDate, config.SkipWeekends)

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a standard normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		closePrice := open * (1 + config.Drift + config.Volatility*z)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, closePrice) + highExtension
		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Date:   currentDate,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(volume, 0),
		}

		currentPrice = closePrice
		currentDate = tradingDay(currentDate.AddDate(0, 0, 1), config.SkipWeekends)
	}

	return bars
}

// GenerateYears generates weekday bars covering the given number of calendar
// years from start with the default price process.
func GenerateYears(seed int64, start time.Time, years int) []types.Bar {
	config := DefaultConfig()
	config.StartDate = start

	end := start.AddDate(years, 0, 0)
	config.Count = 0

	for d := tradingDay(start, true); d.Before(end); d = tradingDay(d.AddDate(0, 0, 1), true) {
		config.Count++
	}

	return NewDataGenerator(seed).Generate(config)
}

// Line returns one bar per calendar day whose close moves by step each day.
// Open, high and low equal the close.
func Line(start time.Time, n int, first, step float64) []types.Bar {
	bars := make([]types.Bar, n)
	for i := range bars {
		c := first + step*float64(i)
		bars[i] = types.Bar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}

	return bars
}

func tradingDay(d time.Time, skipWeekends bool) time.Time {
	if !skipWeekends {
		return d
	}

	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}

	return d
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
