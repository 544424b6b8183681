package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/commission_fee"
)

type PortfolioTestSuite struct {
	suite.Suite
}

func TestPortfolioSuite(t *testing.T) {
	suite.Run(t, new(PortfolioTestSuite))
}

func (suite *PortfolioTestSuite) now() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func newTestPortfolio(capital float64, rate float64) *Portfolio {
	fee := commission_fee.GetCommissionFeeHandler(commission_fee.BrokerRate, rate)

	return NewPortfolio("TEST", capital, fee, 1, SizingFull)
}

func (suite *PortfolioTestSuite) TestBuyClipsToAffordableQuantity() {
	p := newTestPortfolio(10000, 0.001)

	trade := p.Buy(suite.now(), 100, 100)
	suite.True(trade.IsSome())

	t := trade.Unwrap()
	suite.EqualValues(99, t.Quantity)
	suite.InDelta(9900.0, t.Amount, 1e-9)
	suite.InDelta(9.9, t.Commission, 1e-9)
	suite.True(t.RealizedPnL.IsNone())

	suite.EqualValues(99, p.Position())
	suite.InDelta(90.1, p.Cash(), 1e-9)
	suite.InDelta(100.0, p.AvgCost(), 1e-9)
}

func (suite *PortfolioTestSuite) TestBuyWithSmallCapital() {
	p := newTestPortfolio(1000, 0.001)

	trade := p.Buy(suite.now(), 100, 100)
	suite.True(trade.IsSome())
	suite.EqualValues(9, trade.Unwrap().Quantity)
	suite.InDelta(1000-900-0.9, p.Cash(), 1e-9)
}

func (suite *PortfolioTestSuite) TestBuyWithNoCashFillsNothing() {
	p := newTestPortfolio(10, 0.001)

	trade := p.Buy(suite.now(), 100, 100)
	suite.True(trade.IsNone())
	suite.EqualValues(0, p.Position())
	suite.InDelta(10.0, p.Cash(), 1e-9)
}

func (suite *PortfolioTestSuite) TestSellWithNoPositionIsNoTrade() {
	p := newTestPortfolio(10000, 0.001)

	trade := p.Sell(suite.now(), 100, 50)
	suite.True(trade.IsNone())
	suite.InDelta(10000.0, p.Cash(), 1e-9)
}

func (suite *PortfolioTestSuite) TestSellClipsToPosition() {
	p := newTestPortfolio(10000, 0)

	suite.True(p.Buy(suite.now(), 100, 50).IsSome())

	trade := p.Sell(suite.now(), 110, 80)
	suite.True(trade.IsSome())
	suite.EqualValues(50, trade.Unwrap().Quantity)
	suite.EqualValues(0, p.Position())
}

func (suite *PortfolioTestSuite) TestAverageCostIsVolumeWeighted() {
	p := newTestPortfolio(10000, 0)

	suite.True(p.Buy(suite.now(), 100, 10).IsSome())
	suite.True(p.Buy(suite.now(), 200, 10).IsSome())

	suite.InDelta(150.0, p.AvgCost(), 1e-9)

	trade := p.Sell(suite.now(), 180, 20)
	suite.True(trade.IsSome())

	t := trade.Unwrap()
	suite.True(t.RealizedPnL.IsSome())
	suite.InDelta((180.0-150.0)*20, t.RealizedPnL.Unwrap(), 1e-9)

	// A flat position resets the basis.
	suite.InDelta(0.0, p.AvgCost(), 1e-9)
}

func (suite *PortfolioTestSuite) TestSellRealizedPnlIncludesCommission() {
	p := newTestPortfolio(10000, 0.001)

	suite.True(p.Buy(suite.now(), 100, 10).IsSome())

	trade := p.Sell(suite.now(), 110, 10)
	suite.True(trade.IsSome())

	commission := 10 * 110 * 0.001
	suite.InDelta((110.0-100.0)*10-commission, trade.Unwrap().RealizedPnL.Unwrap(), 1e-9)
}

func (suite *PortfolioTestSuite) TestSizingRestrictsBuy() {
	fee := commission_fee.GetCommissionFeeHandler(commission_fee.BrokerRate, 0.001)
	p := NewPortfolio("TEST", 10000, fee, 1, SizingHalf)

	trade := p.Buy(suite.now(), 100, 1000)
	suite.True(trade.IsSome())
	suite.EqualValues(49, trade.Unwrap().Quantity)
}

func (suite *PortfolioTestSuite) TestLotSizeFloorsFill() {
	fee := commission_fee.GetCommissionFeeHandler(commission_fee.BrokerRate, 0.001)
	p := NewPortfolio("TEST", 10000, fee, 10, SizingFull)

	trade := p.Buy(suite.now(), 100, 1000)
	suite.True(trade.IsSome())
	suite.EqualValues(90, trade.Unwrap().Quantity)
}

func (suite *PortfolioTestSuite) TestEquityValuesPositionAtClose() {
	p := newTestPortfolio(10000, 0)

	suite.True(p.Buy(suite.now(), 100, 50).IsSome())
	suite.InDelta(5000.0+50*120.0, p.Equity(120), 1e-9)
}

func (suite *PortfolioTestSuite) TestUnrealizedLoss() {
	p := newTestPortfolio(10000, 0)

	suite.True(p.Buy(suite.now(), 100, 50).IsSome())

	suite.InDelta(0.0, p.UnrealizedLoss(110), 1e-9)
	suite.InDelta(50*10.0, p.UnrealizedLoss(90), 1e-9)
	suite.InDelta(0.1, p.UnrealizedLossFraction(90), 1e-9)
}

func (suite *PortfolioTestSuite) TestCashNeverGoesNegative() {
	p := newTestPortfolio(10000, 0.001)

	for i := 0; i < 5; i++ {
		p.Buy(suite.now(), 100, 1000)
	}

	suite.GreaterOrEqual(p.Cash(), 0.0)
}
