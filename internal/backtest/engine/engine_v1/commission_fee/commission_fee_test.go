package commission_fee

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommissionFeeTestSuite struct {
	suite.Suite
}

func TestCommissionFeeSuite(t *testing.T) {
	suite.Run(t, new(CommissionFeeTestSuite))
}

func (suite *CommissionFeeTestSuite) TestRateCommissionFee() {
	fee := NewRateCommissionFee(0.001)
	suite.NotNil(fee)

	tests := []struct {
		name     string
		quantity float64
		price    float64
		expected float64
	}{
		{"zero quantity", 0, 100, 0},
		{"typical fill", 100, 100, 10},
		{"fractional notional", 9, 100, 0.9},
		{"high price", 10, 2000, 20},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, fee.Calculate(tc.quantity, tc.price), 1e-9)
		})
	}
}

func (suite *CommissionFeeTestSuite) TestZeroCommissionFee() {
	fee := NewZeroCommissionFee()
	suite.Equal(0.0, fee.Calculate(10000, 500))
	suite.Equal(0.0, fee.Calculate(0, 0))
}

func (suite *CommissionFeeTestSuite) TestInteractiveBrokerCommissionFee() {
	fee := NewInteractiveBrokerCommissionFee()

	tests := []struct {
		name     string
		quantity float64
		expected float64
	}{
		{"minimum fee", 10, 1.0},
		{"at threshold", 200, 1.0},
		{"per share above minimum", 1000, 5.0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, fee.Calculate(tc.quantity, 100))
		})
	}
}

func (suite *CommissionFeeTestSuite) TestGetCommissionFeeHandler() {
	suite.IsType(&RateCommissionFee{}, GetCommissionFeeHandler(BrokerRate, 0.001))
	suite.IsType(&ZeroCommissionFee{}, GetCommissionFeeHandler(BrokerZero, 0))
	suite.IsType(&InteractiveBrokerCommissionFee{}, GetCommissionFeeHandler(BrokerInteractiveBroker, 0))
	suite.IsType(&RateCommissionFee{}, GetCommissionFeeHandler(Broker("unknown"), 0.002))
}

func (suite *CommissionFeeTestSuite) TestAllBrokers() {
	suite.Len(AllBrokers, 3)
	suite.Contains(AllBrokers, BrokerRate)
	suite.Contains(AllBrokers, BrokerZero)
	suite.Contains(AllBrokers, BrokerInteractiveBroker)
}
