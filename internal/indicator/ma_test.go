package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestKind() {
	suite.Equal(types.IndicatorKindMA, NewMA().Kind())
}

func (suite *MATestSuite) TestValueOverWindow() {
	bars := barsFromCloses(1, 2, 3, 4, 5, 6)
	ma := NewMA()

	result, err := ma.Evaluate(bars, 4, maParams(5, types.OperatorGreater, 0))
	suite.NoError(err)
	suite.InDelta(3.0, result.Value, 1e-9)
	suite.True(result.Signal.IsNone())

	result, err = ma.Evaluate(bars, 5, maParams(5, types.OperatorGreater, 0))
	suite.NoError(err)
	suite.InDelta(4.0, result.Value, 1e-9)
}

func (suite *MATestSuite) TestConstantSeries() {
	bars := barsFromCloses(constantCloses(30, 100)...)

	result, err := NewMA().Evaluate(bars, 25, maParams(20, types.OperatorGreater, 50))
	suite.NoError(err)
	suite.InDelta(100.0, result.Value, 1e-9)
}

func (suite *MATestSuite) TestInsufficientLookback() {
	bars := barsFromCloses(1, 2, 3)

	_, err := NewMA().Evaluate(bars, 2, maParams(5, types.OperatorGreater, 0))
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *MATestSuite) TestFirstEligibleBar() {
	bars := barsFromCloses(1, 2, 3, 4, 5)
	params := maParams(5, types.OperatorGreater, 0)

	_, err := NewMA().Evaluate(bars, 3, params)
	suite.True(errors.IsInsufficientDataError(err))

	result, err := NewMA().Evaluate(bars, 4, params)
	suite.NoError(err)
	suite.InDelta(3.0, result.Value, 1e-9)
}
