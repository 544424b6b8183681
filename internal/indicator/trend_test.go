package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

type TrendTestSuite struct {
	suite.Suite
}

func TestTrendSuite(t *testing.T) {
	suite.Run(t, new(TrendTestSuite))
}

func trendParams(period int, mode strategy.Mode, dir strategy.Direction) *strategy.ConditionParams {
	return &strategy.ConditionParams{
		Timeframe: types.Timeframe1d,
		Period:    period,
		Mode:      mode,
		Direction: dir,
	}
}

func (suite *TrendTestSuite) TestKind() {
	suite.Equal(types.IndicatorKindTrend, NewTrend().Kind())
}

func (suite *TrendTestSuite) TestSlopeUpOnRisingSeries() {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	bars := barsFromCloses(closes...)

	result, err := NewTrend().Evaluate(bars, 29, trendParams(20, strategy.ModeSlope, strategy.DirectionUp))
	suite.NoError(err)
	suite.True(result.Signal.Unwrap())
	suite.InDelta(1.0, result.Value, 1e-9)

	result, err = NewTrend().Evaluate(bars, 29, trendParams(20, strategy.ModeSlope, strategy.DirectionDown))
	suite.NoError(err)
	suite.False(result.Signal.Unwrap())
}

func (suite *TrendTestSuite) TestSlopeFlatSeriesFiresNeither() {
	bars := barsFromCloses(constantCloses(30, 100)...)

	up, err := NewTrend().Evaluate(bars, 29, trendParams(20, strategy.ModeSlope, strategy.DirectionUp))
	suite.NoError(err)
	suite.False(up.Signal.Unwrap())

	down, err := NewTrend().Evaluate(bars, 29, trendParams(20, strategy.ModeSlope, strategy.DirectionDown))
	suite.NoError(err)
	suite.False(down.Signal.Unwrap())
}

func (suite *TrendTestSuite) TestPriceAboveAverage() {
	closes := constantCloses(25, 100)
	closes[24] = 110

	bars := barsFromCloses(closes...)

	result, err := NewTrend().Evaluate(bars, 24, trendParams(20, strategy.ModePrice, strategy.DirectionUp))
	suite.NoError(err)
	suite.True(result.Signal.Unwrap())
}

func (suite *TrendTestSuite) TestInsufficientLookback() {
	bars := barsFromCloses(constantCloses(20, 100)...)

	// Slope mode needs period+1 bars.
	_, err := NewTrend().Evaluate(bars, 19, trendParams(20, strategy.ModeSlope, strategy.DirectionUp))
	suite.True(errors.IsInsufficientDataError(err))

	// Price mode is defined with exactly period bars.
	_, err = NewTrend().Evaluate(bars, 19, trendParams(20, strategy.ModePrice, strategy.DirectionUp))
	suite.NoError(err)
}
