package engine

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestUnmarshalAppliesDefaults() {
	var config BacktestEngineV1Config

	err := yaml.Unmarshal([]byte(`
initial_capital: 10000
commission_rate: 0.001
symbol: AAPL
timeframe: 1d
`), &config)
	suite.Require().NoError(err)

	suite.Equal(commission_fee.BrokerRate, config.Broker)
	suite.EqualValues(1, config.LotSize)
	suite.Equal(SizingFull, config.Sizing)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestUnmarshalParsesTimeRange() {
	var config BacktestEngineV1Config

	err := yaml.Unmarshal([]byte(`
initial_capital: 10000
symbol: AAPL
timeframe: 1h
start_time: 2024-01-01T00:00:00Z
end_time: 2024-06-30T00:00:00Z
`), &config)
	suite.Require().NoError(err)

	suite.True(config.StartTime.IsSome())
	suite.True(config.EndTime.IsSome())
	suite.Equal(2024, config.StartTime.Unwrap().Year())
}

func (suite *ConfigTestSuite) TestNegativeCapitalFails() {
	config := DefaultConfig()
	config.Symbol = "AAPL"
	config.InitialCapital = -100

	err := config.Validate()
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError))
}

func (suite *ConfigTestSuite) TestNegativeCommissionFails() {
	config := DefaultConfig()
	config.Symbol = "AAPL"
	config.CommissionRate = -0.01

	err := config.Validate()
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError))
}

func (suite *ConfigTestSuite) TestUnknownTimeframeFails() {
	config := DefaultConfig()
	config.Symbol = "AAPL"
	config.Timeframe = types.Timeframe("3d")

	err := config.Validate()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimeframe))
}

func (suite *ConfigTestSuite) TestMissingSymbolFails() {
	config := DefaultConfig()

	suite.Error(config.Validate())
}

func (suite *ConfigTestSuite) TestUnknownSizingFails() {
	config := DefaultConfig()
	config.Symbol = "AAPL"
	config.Sizing = Sizing("double")

	err := config.Validate()
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError))
}

func (suite *ConfigTestSuite) TestSizingFractions() {
	suite.InDelta(1.0, SizingFull.Fraction(), 1e-9)
	suite.InDelta(0.5, SizingHalf.Fraction(), 1e-9)
	suite.InDelta(1.0/3.0, SizingThird.Fraction(), 1e-9)
	suite.InDelta(0.25, SizingQuarter.Fraction(), 1e-9)
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	config := DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(schema, "initial_capital")
	suite.Contains(schema, "zero_commission")
	suite.Contains(schema, "quarter")
}
