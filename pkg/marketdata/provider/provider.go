// Package provider fetches historical price bars from external market data
// APIs and feeds them to a writer.
package provider

import (
	"context"
	"time"

	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"github.com/testback-lab/testback/pkg/marketdata/writer"
)

// Type identifies a market data provider.
type Type string

const (
	TypePolygon Type = "polygon"
	TypeBinance Type = "binance"
)

// OnDownloadProgress reports download progress; current and total are in
// provider-specific units (bars or milliseconds).
type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// ConfigWriter sets the writer that receives downloaded bars.
	ConfigWriter(writer writer.BarWriter)
	// Download fetches bars for the symbol and date range at the given
	// timeframe and writes them through the configured writer. It returns
	// the output path produced by the writer. Cancel the context to abort.
	Download(ctx context.Context, symbol string, timeframe types.Timeframe, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (path string, err error)
}

// NewProvider creates a market data provider. The Polygon provider requires
// an API key; Binance serves public kline data without one.
func NewProvider(providerType Type, apiKey string) (Provider, error) {
	switch providerType {
	case TypePolygon:
		return NewPolygonClient(apiKey)
	case TypeBinance:
		return NewBinanceClient()
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider %q", providerType)
	}
}
