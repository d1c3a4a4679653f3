package types

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TypesTestSuite struct {
	suite.Suite
}

func TestTypesSuite(t *testing.T) {
	suite.Run(t, new(TypesTestSuite))
}

func (suite *TypesTestSuite) TestNumberJSON() {
	tests := []struct {
		name  string
		value Number
		json  string
	}{
		{name: "finite", value: 1.5, json: "1.5"},
		{name: "zero", value: 0, json: "0"},
		{name: "undefined", value: Undefined, json: "null"},
		{name: "positive infinity", value: Number(math.Inf(1)), json: `"Infinity"`},
		{name: "negative infinity", value: Number(math.Inf(-1)), json: `"-Infinity"`},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			out, err := json.Marshal(tc.value)
			suite.Require().NoError(err)
			suite.Equal(tc.json, string(out))

			var back Number
			suite.Require().NoError(json.Unmarshal(out, &back))

			if tc.value.IsDefined() {
				suite.Equal(tc.value, back)
			} else {
				suite.False(back.IsDefined())
			}
		})
	}
}

func (suite *TypesTestSuite) TestNumberPredicates() {
	suite.True(Number(2).IsFinite())
	suite.False(Number(math.Inf(1)).IsFinite())
	suite.True(Number(math.Inf(1)).IsDefined())
	suite.False(Undefined.IsDefined())
	suite.False(Undefined.IsFinite())
}

func (suite *TypesTestSuite) TestStrategyConfigClone() {
	cfg := DefaultStrategyConfig()
	cfg.EntryParams = Params{"shortPeriod": 5}

	clone := cfg.Clone()
	clone.EntryParams["shortPeriod"] = 10
	clone.ExitParams = Params{"longPeriod": 30}

	suite.Equal(5.0, cfg.EntryParams["shortPeriod"])
	suite.Nil(cfg.ExitParams)
}

func (suite *TypesTestSuite) TestGradeDowngrade() {
	suite.Equal(GradeObserve, GradePass.Downgrade())
	suite.Equal(GradeFail, GradeObserve.Downgrade())
	suite.Equal(GradeFail, GradeFail.Downgrade())
}

func (suite *TypesTestSuite) TestWindowRanges() {
	w := Window{
		TrainingStart: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		TrainingEnd:   time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC),
		TestingStart:  time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
		TestingEnd:    time.Date(2013, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	suite.True(w.Training().Contains(w.TrainingEnd))
	suite.False(w.Training().Contains(w.TestingStart))
	suite.True(w.Testing().Contains(w.TestingStart))
	suite.InDelta(1.0, w.Testing().Years(), 0.01)
	suite.True(DateRange{}.IsZero())
	suite.False(w.Testing().IsZero())
}

func (suite *TypesTestSuite) TestTradeKind() {
	suite.Equal(BookLong, TradeKindBuy.Book())
	suite.Equal(BookLong, TradeKindSell.Book())
	suite.Equal(BookShort, TradeKindShort.Book())
	suite.Equal(BookShort, TradeKindCover.Book())
	suite.True(TradeKindShort.IsEntry())
	suite.False(TradeKindCover.IsEntry())
}

func (suite *TypesTestSuite) TestSeries() {
	s := NewSeries(3)
	s.Set(1, 2.5)

	_, ok := s.At(0)
	suite.False(ok)

	v, ok := s.At(1)
	suite.True(ok)
	suite.Equal(2.5, v)

	_, ok = s.At(5)
	suite.False(ok)
}
