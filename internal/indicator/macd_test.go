package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func macdParams(mode strategy.Mode, dir strategy.Direction) *strategy.ConditionParams {
	return &strategy.ConditionParams{
		Timeframe:    types.Timeframe1d,
		FastPeriod:   12,
		SlowPeriod:   26,
		SignalPeriod: 9,
		Threshold:    0,
		Operator:     types.OperatorGreater,
		Mode:         mode,
		Direction:    dir,
	}
}

func (suite *MACDTestSuite) TestKind() {
	suite.Equal(types.IndicatorKindMACD, NewMACD().Kind())
}

func (suite *MACDTestSuite) TestFlatSeriesHistogramIsZero() {
	bars := barsFromCloses(constantCloses(60, 100)...)

	result, err := NewMACD().Evaluate(bars, 59, macdParams(strategy.ModeThreshold, strategy.DirectionNone))
	suite.NoError(err)
	suite.InDelta(0.0, result.Value, 1e-9)
	suite.True(result.Signal.IsNone())
}

func (suite *MACDTestSuite) TestInsufficientLookback() {
	bars := barsFromCloses(constantCloses(20, 100)...)

	_, err := NewMACD().Evaluate(bars, 19, macdParams(strategy.ModeThreshold, strategy.DirectionNone))
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *MACDTestSuite) TestGoldenCrossOnUpturn() {
	// A long decline followed by a sharp rally drives the histogram from
	// negative to positive; the cross must fire on exactly one bar.
	closes := make([]float64, 0, 80)
	price := 200.0

	for i := 0; i < 50; i++ {
		closes = append(closes, price)
		price -= 1.0
	}

	for i := 0; i < 30; i++ {
		closes = append(closes, price)
		price += 4.0
	}

	bars := barsFromCloses(closes...)
	macd := NewMACD()
	params := macdParams(strategy.ModeCross, strategy.DirectionUp)

	fired := 0

	for i := params.SlowPeriod + params.SignalPeriod; i < len(bars); i++ {
		result, err := macd.Evaluate(bars, i, params)
		suite.NoError(err)
		suite.True(result.Signal.IsSome())

		if result.Signal.Unwrap() {
			fired++
			suite.Greater(result.Value, 0.0)
		}
	}

	suite.Equal(1, fired)
}

func (suite *MACDTestSuite) TestDeathCrossNotFiredOnRally() {
	closes := make([]float64, 0, 60)
	price := 100.0

	for i := 0; i < 60; i++ {
		closes = append(closes, price)
		price += 2.0
	}

	bars := barsFromCloses(closes...)
	params := macdParams(strategy.ModeCross, strategy.DirectionDown)

	result, err := NewMACD().Evaluate(bars, 59, params)
	suite.NoError(err)
	suite.False(result.Signal.Unwrap())
}
