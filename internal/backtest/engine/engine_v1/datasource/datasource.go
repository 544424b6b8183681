// Package datasource supplies ordered price series to the backtest engine.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/testback-lab/testback/internal/types"
)

// DataSource is the engine's price-data collaborator. Implementations must
// return bars ordered by strictly increasing timestamp and never fabricate
// substitute data: an empty result is reported as ErrCodeDataUnavailable.
type DataSource interface {
	// GetPriceSeries returns the ordered bars for the symbol at the given
	// timeframe, optionally restricted to [start, end].
	GetPriceSeries(symbol string, timeframe types.Timeframe, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.PriceBar, error)
	// Count returns the number of bars the same query would yield.
	Count(symbol string, timeframe types.Timeframe, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases any resources held by the data source.
	Close() error
}
