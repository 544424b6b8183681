package datasource

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"github.com/testback-lab/testback/internal/logger"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

func dailyBars(symbol string, n int, startPrice float64) []types.PriceBar {
	bars := make([]types.PriceBar, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range bars {
		price := startPrice + float64(i)
		bars[i] = types.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Symbol: symbol,
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}

	return bars
}

type InMemoryDataSourceTestSuite struct {
	suite.Suite
	source *InMemoryDataSource
}

func TestInMemoryDataSourceSuite(t *testing.T) {
	suite.Run(t, new(InMemoryDataSourceTestSuite))
}

func (suite *InMemoryDataSourceTestSuite) SetupTest() {
	suite.source = NewInMemoryDataSource(types.Timeframe1d, dailyBars("AAPL", 10, 100))
}

func (suite *InMemoryDataSourceTestSuite) TestGetPriceSeries() {
	bars, err := suite.source.GetPriceSeries("AAPL", types.Timeframe1d, optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Len(bars, 10)

	for i := 1; i < len(bars); i++ {
		suite.True(bars[i].Time.After(bars[i-1].Time))
	}
}

func (suite *InMemoryDataSourceTestSuite) TestRangeFilter() {
	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	bars, err := suite.source.GetPriceSeries("AAPL", types.Timeframe1d, optional.Some(start), optional.Some(end))
	suite.NoError(err)
	suite.Len(bars, 4)
	suite.Equal(start, bars[0].Time)
}

func (suite *InMemoryDataSourceTestSuite) TestUnknownSymbol() {
	_, err := suite.source.GetPriceSeries("MSFT", types.Timeframe1d, optional.None[time.Time](), optional.None[time.Time]())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *InMemoryDataSourceTestSuite) TestWrongTimeframe() {
	_, err := suite.source.GetPriceSeries("AAPL", types.Timeframe1h, optional.None[time.Time](), optional.None[time.Time]())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *InMemoryDataSourceTestSuite) TestCount() {
	count, err := suite.source.Count("AAPL", types.Timeframe1d, optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(10, count)

	count, err = suite.source.Count("MSFT", types.Timeframe1d, optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(0, count)
}

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	source *DuckDBDataSource
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	log := logger.NewNopLogger()

	source, err := NewDuckDBDataSource(":memory:", log)
	suite.Require().NoError(err)
	suite.source = source
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	suite.source.Close()
}

func (suite *DuckDBDataSourceTestSuite) TestInsertAndQuery() {
	suite.NoError(suite.source.InsertBars(types.Timeframe1d, dailyBars("SPY", 5, 400)))

	bars, err := suite.source.GetPriceSeries("SPY", types.Timeframe1d, optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Len(bars, 5)
	suite.Equal("SPY", bars[0].Symbol)
	suite.InDelta(400.0, bars[0].Close, 1e-9)

	count, err := suite.source.Count("SPY", types.Timeframe1d, optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(5, count)
}

func (suite *DuckDBDataSourceTestSuite) TestEmptyRangeIsDataUnavailable() {
	suite.NoError(suite.source.InsertBars(types.Timeframe1d, dailyBars("SPY", 5, 400)))

	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.source.GetPriceSeries("SPY", types.Timeframe1d, optional.Some(start), optional.None[time.Time]())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}
