package walkforward

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/mocks"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PlannerTestSuite struct {
	suite.Suite
}

func TestPlannerSuite(t *testing.T) {
	suite.Run(t, new(PlannerTestSuite))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (suite *PlannerTestSuite) TestWindowTiling() {
	span := types.DateRange{Start: date(2010, 1, 1), End: date(2019, 12, 31)}
	d := Durations{TrainingMonths: 36, TestingMonths: 12, StepMonths: 6}

	windows := PlanWindows(span, 4, d)
	suite.Require().Len(windows, 4)

	suite.Equal(date(2010, 1, 1), windows[0].TrainingStart)
	suite.Equal(date(2012, 12, 31), windows[0].TrainingEnd)
	suite.Equal(date(2013, 1, 1), windows[0].TestingStart)
	suite.Equal(date(2013, 12, 31), windows[0].TestingEnd)

	for i, w := range windows {
		suite.Equal(i, w.Index)
		suite.Equal(w.TrainingEnd.AddDate(0, 0, 1), w.TestingStart)
		suite.False(w.TestingEnd.After(span.End))

		if i > 0 {
			suite.Equal(windows[i-1].TrainingStart.AddDate(0, d.StepMonths, 0), w.TrainingStart)
		}
	}
}

func (suite *PlannerTestSuite) TestWindowTilingFromMonthEnd() {
	span := types.DateRange{Start: date(2021, 1, 31), End: date(2022, 12, 31)}
	d := Durations{TrainingMonths: 2, TestingMonths: 1, StepMonths: 1}

	windows := PlanWindows(span, 6, d)
	suite.Require().Len(windows, 6)

	starts := []time.Time{
		date(2021, 1, 31), date(2021, 2, 28), date(2021, 3, 31),
		date(2021, 4, 30), date(2021, 5, 31), date(2021, 6, 30),
	}

	for i, w := range windows {
		suite.Equal(starts[i], w.TrainingStart, "window %d", i)
		suite.Equal(w.TrainingEnd.AddDate(0, 0, 1), w.TestingStart)
	}

	suite.Equal(date(2021, 3, 30), windows[0].TrainingEnd)
	suite.Equal(date(2021, 4, 29), windows[0].TestingEnd)
	suite.Equal(date(2021, 4, 29), windows[1].TrainingEnd)
	suite.Equal(date(2021, 4, 30), windows[1].TestingStart)
	suite.Equal(date(2021, 5, 30), windows[1].TestingEnd)
}

func (suite *PlannerTestSuite) TestAddMonthsClampsDay() {
	suite.Equal(date(2021, 2, 28), addMonths(date(2021, 1, 31), 1))
	suite.Equal(date(2024, 2, 29), addMonths(date(2024, 1, 31), 1))
	suite.Equal(date(2021, 3, 31), addMonths(date(2021, 1, 31), 2))
	suite.Equal(date(2020, 11, 30), addMonths(date(2021, 1, 31), -2))
	suite.Equal(date(2013, 1, 1), addMonths(date(2010, 1, 1), 36))
}

func (suite *PlannerTestSuite) TestStopsAtSpanEnd() {
	span := types.DateRange{Start: date(2010, 1, 1), End: date(2014, 6, 30)}

	windows := PlanWindows(span, 10, Durations{TrainingMonths: 36, TestingMonths: 12, StepMonths: 6})
	suite.Require().Len(windows, 2)
	suite.Equal(date(2014, 6, 30), windows[1].TestingEnd)
}

func (suite *PlannerTestSuite) TestInvalidInputs() {
	span := types.DateRange{Start: date(2010, 1, 1), End: date(2019, 12, 31)}

	suite.Empty(PlanWindows(span, 4, Durations{TrainingMonths: 0, TestingMonths: 12, StepMonths: 6}))
	suite.Empty(PlanWindows(span, 0, DefaultRatio))
	suite.Empty(PlanWindows(types.DateRange{Start: span.End, End: span.Start}, 4, DefaultRatio))
}

func (suite *PlannerTestSuite) TestAutoDurations() {
	span := types.DateRange{Start: date(2010, 1, 1), End: date(2019, 12, 31)}

	for _, count := range []int{1, 2, 4, 8} {
		d := AutoDurations(span, count, DefaultRatio)
		suite.True(d.Valid())
		suite.GreaterOrEqual(d.TrainingMonths, d.TestingMonths)
		suite.GreaterOrEqual(d.TestingMonths, d.StepMonths)
		suite.Len(PlanWindows(span, count, d), count, "count %d", count)
	}
}

func (suite *PlannerTestSuite) TestAutoDurationsPrefersLongestWindows() {
	span := types.DateRange{Start: date(2010, 1, 1), End: date(2019, 12, 31)}

	short := AutoDurations(span, 8, DefaultRatio)
	long := AutoDurations(span, 2, DefaultRatio)
	suite.Greater(long.TrainingMonths, short.TrainingMonths)
}

func (suite *PlannerTestSuite) TestValidateCoverage() {
	ctrl := gomock.NewController(suite.T())
	sim := mocks.NewMockSimulator(ctrl)

	d := Durations{TrainingMonths: 12, TestingMonths: 3, StepMonths: 3}
	windows := PlanWindows(types.DateRange{Start: date(2010, 1, 1), End: date(2012, 12, 31)}, 4, d)
	suite.Require().Len(windows, 4)

	counts := map[types.DateRange]int{
		windows[0].Training(): 250, windows[0].Testing(): 60,
		windows[1].Training(): 0, windows[1].Testing(): 60,
		windows[2].Training(): 40, windows[2].Testing(): 60,
		windows[3].Training(): 250, windows[3].Testing(): 5,
	}

	sim.EXPECT().CountBars(gomock.Any()).DoAndReturn(func(r types.DateRange) int {
		return counts[r]
	}).Times(8)

	issues := ValidateCoverage(sim, windows, d)
	suite.Require().Len(issues, 3)

	suite.Equal(1, issues[0].WindowIndex)
	suite.Contains(issues[0].Reason, "no bars")
	suite.Equal(2, issues[1].WindowIndex)
	suite.Contains(issues[1].Reason, "need at least 60")
	suite.Equal(3, issues[2].WindowIndex)
	suite.Contains(issues[2].Reason, "need at least 9")
	suite.Equal(5, issues[2].TestingBars)
}

func (suite *PlannerTestSuite) TestPlanManual() {
	ctrl := gomock.NewController(suite.T())
	sim := mocks.NewMockSimulator(ctrl)
	sim.EXPECT().Span().Return(types.DateRange{Start: date(2010, 1, 1), End: date(2013, 12, 31)}).AnyTimes()
	sim.EXPECT().CountBars(gomock.Any()).Return(500).AnyTimes()

	cfg := types.DefaultWalkForwardConfig()
	cfg.Mode = types.PlanModeManual
	cfg.WindowCount = 3
	cfg.TrainingMonths, cfg.TestingMonths, cfg.StepMonths = 12, 6, 6

	windows, d, issues, err := Plan(sim, cfg)
	suite.NoError(err)
	suite.Empty(issues)
	suite.Equal(Durations{TrainingMonths: 12, TestingMonths: 6, StepMonths: 6}, d)
	suite.Len(windows, 3)
}

func (suite *PlannerTestSuite) TestPlanRejectsShortSpan() {
	ctrl := gomock.NewController(suite.T())
	sim := mocks.NewMockSimulator(ctrl)
	sim.EXPECT().Span().Return(types.DateRange{Start: date(2010, 1, 1), End: date(2010, 12, 31)}).AnyTimes()

	cfg := types.DefaultWalkForwardConfig()
	cfg.Mode = types.PlanModeManual

	windows, _, issues, err := Plan(sim, cfg)
	suite.NoError(err)
	suite.Empty(windows)
	suite.Require().Len(issues, 1)
	suite.Equal(-1, issues[0].WindowIndex)
}

func (suite *PlannerTestSuite) TestPlanErrors() {
	ctrl := gomock.NewController(suite.T())
	sim := mocks.NewMockSimulator(ctrl)
	sim.EXPECT().Span().Return(types.DateRange{}).Times(1)

	_, _, _, err := Plan(sim, types.DefaultWalkForwardConfig())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))

	cfg := types.DefaultWalkForwardConfig()
	cfg.Mode = types.PlanModeManual
	cfg.StepMonths = 0
	cfg.Span = types.DateRange{Start: date(2010, 1, 1), End: date(2019, 12, 31)}

	_, _, _, err = Plan(sim, cfg)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
