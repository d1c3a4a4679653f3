package walkforward

import (
	"fmt"
	"math"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
)

// Durations are window lengths in months.
type Durations struct {
	TrainingMonths int `json:"trainingMonths" yaml:"training_months"`
	TestingMonths  int `json:"testingMonths" yaml:"testing_months"`
	StepMonths     int `json:"stepMonths" yaml:"step_months"`
}

// DefaultRatio is the training:testing:step shape auto mode scales.
var DefaultRatio = Durations{TrainingMonths: 36, TestingMonths: 12, StepMonths: 6}

// Valid reports whether every length is at least one month.
func (d Durations) Valid() bool {
	return d.TrainingMonths >= 1 && d.TestingMonths >= 1 && d.StepMonths >= 1
}

const (
	minTrainingBarsPerMonth = 5
	minTestingBarsPerMonth  = 3
	maxPlannedWindows       = 10000
)

// PlanWindows lays out up to count windows over span. Window k trains from
// span.Start plus k·step months; testing starts the day after training ends.
// Month offsets are taken from span.Start with the day clamped to the target
// month, so a span starting on the 31st steps through every month.
// Planning stops at the first window whose testing end passes span.End.
func PlanWindows(span types.DateRange, count int, d Durations) []types.Window {
	if !d.Valid() || count <= 0 || span.End.Before(span.Start) {
		return []types.Window{}
	}

	windows := make([]types.Window, 0, min(count, 64))

	for k := 0; k < count; k++ {
		offset := k * d.StepMonths
		trainingStart := addMonths(span.Start, offset)
		trainingEnd := addMonths(span.Start, offset+d.TrainingMonths).AddDate(0, 0, -1)
		testingStart := trainingEnd.AddDate(0, 0, 1)
		testingEnd := addMonths(span.Start, offset+d.TrainingMonths+d.TestingMonths).AddDate(0, 0, -1)

		if testingEnd.After(span.End) {
			break
		}

		windows = append(windows, types.Window{
			Index:         k,
			TrainingStart: trainingStart,
			TrainingEnd:   trainingEnd,
			TestingStart:  testingStart,
			TestingEnd:    testingEnd,
		})
	}

	return windows
}

// addMonths moves t by n calendar months, clamping the day to the last day of
// the target month instead of overflowing into the next one.
func addMonths(t time.Time, n int) time.Time {
	anchor := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).AddDate(0, n, 0)
	last := anchor.AddDate(0, 1, -1).Day()

	return anchor.AddDate(0, 0, min(t.Day(), last)-1)
}

func scaled(ratio Durations, factor float64) Durations {
	round := func(months int) int {
		return max(1, int(math.Round(float64(months)*factor)))
	}

	return Durations{
		TrainingMonths: round(ratio.TrainingMonths),
		TestingMonths:  round(ratio.TestingMonths),
		StepMonths:     round(ratio.StepMonths),
	}
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month()) + 1
}

// AutoDurations binary-searches a scale factor on ratio so that the span holds
// as close to count windows as possible, preferring the longest windows that
// still reach count.
func AutoDurations(span types.DateRange, count int, ratio Durations) Durations {
	if !ratio.Valid() {
		ratio = DefaultRatio
	}

	fits := func(factor float64) int {
		return len(PlanWindows(span, maxPlannedWindows, scaled(ratio, factor)))
	}

	lo := 0.0
	hi := float64(monthsBetween(span.Start, span.End))/float64(ratio.TrainingMonths+ratio.TestingMonths) + 1

	for range 60 {
		mid := (lo + hi) / 2
		if fits(mid) >= count {
			lo = mid
		} else {
			hi = mid
		}
	}

	return scaled(ratio, lo)
}

// Plan resolves durations for cfg over span, lays out the windows and checks
// each window holds enough bars. Any issue means the plan must not run.
func Plan(sim Simulator, cfg types.WalkForwardConfig) ([]types.Window, Durations, []types.PlanIssue, error) {
	span := cfg.Span
	if span.IsZero() {
		span = sim.Span()
	}

	if span.IsZero() || span.End.Before(span.Start) {
		return nil, Durations{}, nil, errors.New(errors.ErrCodeInvalidDateRange, "no data span to plan windows over")
	}

	var d Durations

	switch cfg.Mode {
	case types.PlanModeManual:
		d = Durations{TrainingMonths: cfg.TrainingMonths, TestingMonths: cfg.TestingMonths, StepMonths: cfg.StepMonths}
		if !d.Valid() {
			return nil, d, nil, errors.Newf(errors.ErrCodeInvalidParameter,
				"manual durations must be at least one month, got %d/%d/%d", d.TrainingMonths, d.TestingMonths, d.StepMonths)
		}
	default:
		ratio := DefaultRatio
		if cfg.TrainingMonths > 0 && cfg.TestingMonths > 0 && cfg.StepMonths > 0 {
			ratio = Durations{TrainingMonths: cfg.TrainingMonths, TestingMonths: cfg.TestingMonths, StepMonths: cfg.StepMonths}
		}

		d = AutoDurations(span, cfg.WindowCount, ratio)
	}

	windows := PlanWindows(span, cfg.WindowCount, d)
	if len(windows) == 0 {
		return windows, d, []types.PlanIssue{{
			WindowIndex: -1,
			Reason: fmt.Sprintf("span %s to %s is shorter than one %d+%d month window",
				span.Start.Format(time.DateOnly), span.End.Format(time.DateOnly), d.TrainingMonths, d.TestingMonths),
		}}, nil
	}

	return windows, d, ValidateCoverage(sim, windows, d), nil
}

// ValidateCoverage reports windows whose sub-ranges hold fewer bars than
// 5 per training month or 3 per testing month.
func ValidateCoverage(sim Simulator, windows []types.Window, d Durations) []types.PlanIssue {
	var issues []types.PlanIssue

	minTraining := minTrainingBarsPerMonth * d.TrainingMonths
	minTesting := minTestingBarsPerMonth * d.TestingMonths

	for _, w := range windows {
		trainingBars := sim.CountBars(w.Training())
		testingBars := sim.CountBars(w.Testing())

		var reason string

		switch {
		case trainingBars == 0:
			reason = "training range has no bars"
		case testingBars == 0:
			reason = "testing range has no bars"
		case trainingBars < minTraining:
			reason = fmt.Sprintf("training range has %d bars, need at least %d", trainingBars, minTraining)
		case testingBars < minTesting:
			reason = fmt.Sprintf("testing range has %d bars, need at least %d", testingBars, minTesting)
		default:
			continue
		}

		issues = append(issues, types.PlanIssue{
			WindowIndex:  w.Index,
			Reason:       reason,
			TrainingBars: trainingBars,
			TestingBars:  testingBars,
		})
	}

	return issues
}
