package indicator

import (
	"fmt"
	"sync"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Cache memoizes indicator series computed over one bar series. It is safe for
// concurrent use, so candidate simulations of one session can share it.
type Cache struct {
	bars   []types.Bar
	closes types.Series
	volume types.Series
	mu     sync.Mutex
	data   map[string]any
}

// NewCache creates a cache bound to bars. The bars must not be modified afterwards.
func NewCache(bars []types.Bar) *Cache {
	return &Cache{
		bars:   bars,
		closes: types.CloseSeries(bars),
		volume: types.VolumeSeries(bars),
		data:   make(map[string]any),
	}
}

// Bars returns the underlying bar series.
func (c *Cache) Bars() []types.Bar {
	return c.bars
}

// Closes returns the close series with gaps missing.
func (c *Cache) Closes() types.Series {
	return c.closes
}

// Volumes returns the volume series.
func (c *Cache) Volumes() types.Series {
	return c.volume
}

// Reset drops every memoized series.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]any)
}

// Len reports the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.data)
}

func memo[T any](c *Cache, kind Kind, compute func() T, params ...any) T {
	key := fmt.Sprint(kind, params)

	c.mu.Lock()
	if v, ok := c.data[key]; ok {
		c.mu.Unlock()

		return v.(T)
	}
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.data[key]; ok {
		return existing.(T)
	}

	c.data[key] = v

	return v
}

// MA returns the close moving average.
func (c *Cache) MA(period int) types.Series {
	return memo(c, KindMA, func() types.Series { return MA(c.closes, period) }, period)
}

// EMA returns the close exponential moving average.
func (c *Cache) EMA(period int) types.Series {
	return memo(c, KindEMA, func() types.Series { return EMA(c.closes, period) }, period)
}

// RSI returns the close RSI.
func (c *Cache) RSI(period int) types.Series {
	return memo(c, KindRSI, func() types.Series { return RSI(c.closes, period) }, period)
}

// MACD returns the typical-price MACD.
func (c *Cache) MACD(short, long, signal int) MACDResult {
	return memo(c, KindMACD, func() MACDResult { return MACD(c.bars, short, long, signal) }, short, long, signal)
}

// Bollinger returns close Bollinger bands.
func (c *Cache) Bollinger(period int, k float64) BollingerResult {
	return memo(c, KindBollinger, func() BollingerResult { return BollingerBands(c.closes, period, k) }, period, k)
}

// Stochastic returns the K/D oscillator.
func (c *Cache) Stochastic(period int) StochasticResult {
	return memo(c, KindStochastic, func() StochasticResult { return Stochastic(c.bars, period) }, period)
}

// WilliamsR returns Williams %R.
func (c *Cache) WilliamsR(period int) types.Series {
	return memo(c, KindWilliamsR, func() types.Series { return WilliamsR(c.bars, period) }, period)
}

// Highest returns the highest high over period bars.
func (c *Cache) Highest(period int) types.Series {
	return memo(c, KindHighest, func() types.Series {
		highs, _ := rangeSeries(c.bars)

		return Highest(highs, period)
	}, period)
}

// Lowest returns the lowest low over period bars.
func (c *Cache) Lowest(period int) types.Series {
	return memo(c, KindLowest, func() types.Series {
		_, lows := rangeSeries(c.bars)

		return Lowest(lows, period)
	}, period)
}

// VolumeMA returns the moving average of volume.
func (c *Cache) VolumeMA(period int) types.Series {
	return memo(c, KindVolumeMA, func() types.Series { return MA(c.volume, period) }, period)
}
