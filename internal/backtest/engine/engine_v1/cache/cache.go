// Package cache holds the per-run resampled series cache. Each backtest run
// owns one SeriesCache; nothing is shared across concurrent runs.
package cache

import (
	"github.com/testback-lab/testback/internal/types"
)

type Cache interface {
	Reset()
}

// SeriesCache lazily resamples the base series to the timeframes the
// strategy's nodes declare and memoizes the result for the rest of the run.
type SeriesCache struct {
	base          []types.PriceBar
	baseTimeframe types.Timeframe
	series        map[types.Timeframe]*ResampledSeries
}

// NewSeriesCache creates a cache over the given base series.
func NewSeriesCache(baseTimeframe types.Timeframe, base []types.PriceBar) *SeriesCache {
	return &SeriesCache{
		base:          base,
		baseTimeframe: baseTimeframe,
		series:        make(map[types.Timeframe]*ResampledSeries),
	}
}

// Get returns the resampled series for the timeframe, computing it on first
// use.
func (c *SeriesCache) Get(timeframe types.Timeframe) (*ResampledSeries, error) {
	if rs, ok := c.series[timeframe]; ok {
		return rs, nil
	}

	rs, err := Resample(c.base, c.baseTimeframe, timeframe)
	if err != nil {
		return nil, err
	}

	c.series[timeframe] = rs

	return rs, nil
}

// BaseTimeframe returns the timeframe of the underlying series.
func (c *SeriesCache) BaseTimeframe() types.Timeframe {
	return c.baseTimeframe
}

// Reset implements Cache.
func (c *SeriesCache) Reset() {
	c.series = make(map[types.Timeframe]*ResampledSeries)
}
