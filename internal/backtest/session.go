// Package backtest replays a strategy configuration bar by bar over a price
// series and records trades, equity and performance metrics.
package backtest

import (
	"sort"

	"github.com/rxtech-lab/argo-walkforward/internal/indicator"
	"github.com/rxtech-lab/argo-walkforward/internal/logger"
	"github.com/rxtech-lab/argo-walkforward/internal/metrics"
	"github.com/rxtech-lab/argo-walkforward/internal/strategy"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Session is the explicit run context of a series of simulations over the same
// bars. Indicator series are computed once per session and shared by every
// Simulate call, which is safe to run concurrently.
type Session struct {
	bars     []types.Bar
	cache    *indicator.Cache
	registry strategy.Registry
	logger   *logger.Logger
	metrics  metrics.Config
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry replaces the default strategy registry.
func WithRegistry(r strategy.Registry) Option {
	return func(s *Session) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithMetricsConfig sets the annualization constants.
func WithMetricsConfig(cfg metrics.Config) Option {
	return func(s *Session) {
		s.metrics = cfg
	}
}

// NewSession creates a session over bars, which must be sorted by date and
// must not be modified afterwards.
func NewSession(bars []types.Bar, opts ...Option) *Session {
	s := &Session{
		bars:     bars,
		cache:    indicator.NewCache(bars),
		registry: strategy.DefaultRegistry(),
		logger:   logger.NewNopLogger(),
		metrics:  metrics.DefaultConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Bars returns the session bars.
func (s *Session) Bars() []types.Bar {
	return s.bars
}

// Cache returns the shared indicator cache.
func (s *Session) Cache() *indicator.Cache {
	return s.cache
}

// Registry returns the strategy registry.
func (s *Session) Registry() strategy.Registry {
	return s.registry
}

// MetricsConfig returns the annualization constants.
func (s *Session) MetricsConfig() metrics.Config {
	return s.metrics
}

// Logger returns the session logger.
func (s *Session) Logger() *logger.Logger {
	return s.logger
}

// Span is the range from the first to the last bar.
func (s *Session) Span() types.DateRange {
	if len(s.bars) == 0 {
		return types.DateRange{}
	}

	return types.DateRange{Start: s.bars[0].Date, End: s.bars[len(s.bars)-1].Date}
}

// CountBars returns the number of valid bars inside r.
func (s *Session) CountBars(r types.DateRange) int {
	lo, hi, ok := s.indexRange(r)
	if !ok {
		return 0
	}

	count := 0

	for i := lo; i <= hi; i++ {
		if s.bars[i].Valid() {
			count++
		}
	}

	return count
}

// indexRange returns the inclusive bar index bounds of r. A zero range covers
// every bar.
func (s *Session) indexRange(r types.DateRange) (int, int, bool) {
	n := len(s.bars)
	if n == 0 {
		return 0, 0, false
	}

	if r.IsZero() {
		return 0, n - 1, true
	}

	lo := sort.Search(n, func(i int) bool { return !s.bars[i].Date.Before(r.Start) })
	hi := sort.Search(n, func(i int) bool { return s.bars[i].Date.After(r.End) }) - 1

	return lo, hi, lo <= hi && lo < n && hi >= 0
}
