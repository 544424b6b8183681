package datasource

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// InMemoryDataSource serves bars from a slice. The HTTP API uses it for
// request-supplied series and the tests use it everywhere.
type InMemoryDataSource struct {
	bars      map[string][]types.PriceBar
	timeframe types.Timeframe
}

// NewInMemoryDataSource builds a data source over the given bars, keyed by
// symbol and sorted by time.
func NewInMemoryDataSource(timeframe types.Timeframe, bars []types.PriceBar) *InMemoryDataSource {
	bySymbol := make(map[string][]types.PriceBar)
	for _, bar := range bars {
		bySymbol[bar.Symbol] = append(bySymbol[bar.Symbol], bar)
	}

	for symbol := range bySymbol {
		series := bySymbol[symbol]
		sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
		bySymbol[symbol] = series
	}

	return &InMemoryDataSource{bars: bySymbol, timeframe: timeframe}
}

// GetPriceSeries implements DataSource.
func (s *InMemoryDataSource) GetPriceSeries(symbol string, timeframe types.Timeframe, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.PriceBar, error) {
	if timeframe != s.timeframe {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "no data for %s at %s", symbol, timeframe)
	}

	series := s.bars[symbol]

	var out []types.PriceBar

	for _, bar := range series {
		if start.IsSome() && bar.Time.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && bar.Time.After(end.Unwrap()) {
			continue
		}

		out = append(out, bar)
	}

	if len(out) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "no data for %s at %s in the requested range", symbol, timeframe)
	}

	return out, nil
}

// Count implements DataSource.
func (s *InMemoryDataSource) Count(symbol string, timeframe types.Timeframe, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	bars, err := s.GetPriceSeries(symbol, timeframe, start, end)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeDataUnavailable) {
			return 0, nil
		}

		return 0, err
	}

	return len(bars), nil
}

// Close implements DataSource.
func (s *InMemoryDataSource) Close() error {
	return nil
}
