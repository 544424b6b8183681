package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"github.com/testback-lab/testback/pkg/marketdata/provider"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) TestNewClientRequiresDataPath() {
	_, err := NewClient(ClientConfig{
		Provider: provider.TypeBinance,
	}, nil)
	suite.Error(err)
}

func (suite *ClientTestSuite) TestNewClientPolygonRequiresAPIKey() {
	_, err := NewClient(ClientConfig{
		Provider: provider.TypePolygon,
		DataPath: suite.T().TempDir(),
	}, nil)
	suite.Error(err)
}

func (suite *ClientTestSuite) TestNewClientUnknownProvider() {
	_, err := NewClient(ClientConfig{
		Provider: provider.Type("csvfiles"),
		DataPath: suite.T().TempDir(),
	}, nil)
	suite.Error(err)
}

func (suite *ClientTestSuite) TestNewClientBinance() {
	client, err := NewClient(ClientConfig{
		Provider: provider.TypeBinance,
		DataPath: suite.T().TempDir(),
	}, nil)
	suite.NoError(err)
	suite.NotNil(client)
}

func (suite *ClientTestSuite) TestDownloadValidatesParams() {
	client, err := NewClient(ClientConfig{
		Provider: provider.TypeBinance,
		DataPath: suite.T().TempDir(),
	}, nil)
	suite.Require().NoError(err)

	// End before start.
	_, err = client.Download(context.Background(), DownloadParams{
		Symbol:    "BTCUSDT",
		Timeframe: types.Timeframe1d,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.Error(err)

	// Missing symbol.
	_, err = client.Download(context.Background(), DownloadParams{
		Timeframe: types.Timeframe1d,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.Error(err)
}

func (suite *ClientTestSuite) TestDownloadRejectsUnknownTimeframe() {
	client, err := NewClient(ClientConfig{
		Provider: provider.TypeBinance,
		DataPath: suite.T().TempDir(),
	}, nil)
	suite.Require().NoError(err)

	_, err = client.Download(context.Background(), DownloadParams{
		Symbol:    "BTCUSDT",
		Timeframe: types.Timeframe("3d"),
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimeframe))
}

func (suite *ClientTestSuite) TestOutputFileName() {
	client := &Client{config: ClientConfig{DataPath: "/tmp"}}

	name := client.outputFileName(DownloadParams{
		Symbol:    "AAPL",
		Timeframe: types.Timeframe1h,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	suite.Equal("AAPL_1h_2024-01-01_2024-01-31.parquet", name)
}
