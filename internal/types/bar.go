package types

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
)

// Bar is one OHLCV observation. A bar whose close is not a positive finite
// number is treated as a gap.
type Bar struct {
	Date   time.Time `yaml:"date" json:"date" csv:"date"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// Valid reports whether the bar carries a usable close price.
func (b Bar) Valid() bool {
	return isPositiveFinite(b.Close)
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Series is a per-bar sequence of values where each value may be absent.
type Series []optional.Option[float64]

// NewSeries returns a series of length n with every value missing.
func NewSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = optional.None[float64]()
	}

	return s
}

// At returns the value at i and whether it is present. Out-of-range indices are missing.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || s[i].IsNone() {
		return 0, false
	}

	return s[i].Unwrap(), true
}

// Set stores v at i, or marks i missing when v is not finite.
func (s Series) Set(i int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s[i] = optional.None[float64]()

		return
	}

	s[i] = optional.Some(v)
}

// Clear marks i missing.
func (s Series) Clear(i int) {
	s[i] = optional.None[float64]()
}

// FromFloats builds a series treating NaN and ±Inf as missing.
func FromFloats(values []float64) Series {
	s := NewSeries(len(values))
	for i, v := range values {
		s.Set(i, v)
	}

	return s
}

// CloseSeries extracts closes, missing for gap bars.
func CloseSeries(bars []Bar) Series {
	return extract(bars, func(b Bar) float64 { return b.Close }, isPositiveFinite)
}

// OpenSeries extracts opens, missing when the open is not positive.
func OpenSeries(bars []Bar) Series {
	return extract(bars, func(b Bar) float64 { return b.Open }, isPositiveFinite)
}

// HighSeries extracts highs. A gap bar has no high even if the field is set.
func HighSeries(bars []Bar) Series {
	return extract(bars, func(b Bar) float64 { return b.High }, isPositiveFinite)
}

// LowSeries extracts lows.
func LowSeries(bars []Bar) Series {
	return extract(bars, func(b Bar) float64 { return b.Low }, isPositiveFinite)
}

// VolumeSeries extracts volumes; zero volume is a valid observation.
func VolumeSeries(bars []Bar) Series {
	return extract(bars, func(b Bar) float64 { return b.Volume }, func(v float64) bool {
		return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
	})
}

func extract(bars []Bar, field func(Bar) float64, ok func(float64) bool) Series {
	s := NewSeries(len(bars))

	for i, b := range bars {
		if !b.Valid() {
			continue
		}

		if v := field(b); ok(v) {
			s[i] = optional.Some(v)
		}
	}

	return s
}

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time `yaml:"start" json:"start"`
	End   time.Time `yaml:"end" json:"end"`
}

// Contains reports whether t falls inside the range, both ends inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Years is the calendar span of the range in days/365.25.
func (r DateRange) Years() float64 {
	return r.End.Sub(r.Start).Hours() / 24 / 365.25
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}
