// Package marketdata downloads historical price bars from external providers
// and stores them as Parquet files the backtest engine can import.
package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"github.com/testback-lab/testback/pkg/marketdata/provider"
	"github.com/testback-lab/testback/pkg/marketdata/writer"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	Provider      provider.Type `validate:"required,oneof=polygon binance"`
	DataPath      string        `validate:"required"`
	PolygonAPIKey string        `validate:"required_if=Provider polygon"`
}

// DownloadParams holds the parameters for one download request.
type DownloadParams struct {
	Symbol    string          `validate:"required"`
	Timeframe types.Timeframe `validate:"required"`
	StartDate time.Time       `validate:"required"`
	EndDate   time.Time       `validate:"required,gtfield=StartDate"`
}

// Client downloads bars from a provider and stores them under DataPath.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
}

// NewClient creates a market data client. onProgress may be nil.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProvider, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewProvider(config.Provider, config.PolygonAPIKey)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
	}, nil
}

// Download fetches the requested bars and writes them to a Parquet file
// named SYMBOL_TIMEFRAME_START_END.parquet under DataPath. It returns the
// output path.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "invalid download parameters", err)
	}

	if !params.Timeframe.IsValid() {
		return "", errors.Newf(errors.ErrCodeInvalidTimeframe, "unknown timeframe %q", params.Timeframe)
	}

	if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create data directory", err)
	}

	outputPath := filepath.Join(c.config.DataPath, c.outputFileName(params))
	c.provider.ConfigWriter(writer.NewDuckDBWriter(outputPath, params.Timeframe))

	return c.provider.Download(ctx, params.Symbol, params.Timeframe, params.StartDate, params.EndDate, c.onProgress)
}

func (c *Client) outputFileName(params DownloadParams) string {
	return fmt.Sprintf("%s_%s_%s_%s.parquet",
		params.Symbol,
		params.Timeframe,
		params.StartDate.Format("2006-01-02"),
		params.EndDate.Format("2006-01-02"))
}
