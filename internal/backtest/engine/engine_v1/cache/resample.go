package cache

import (
	"time"

	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// ResampledSeries is a coarse view of a base price series. Bars holds the
// aggregated bars; lastCompleted maps each base bar index to the index of the
// last coarse bar that is fully closed at that point, or -1 when none is.
//
// A coarse bucket only becomes visible once a base bar belonging to a later
// bucket has been seen. The in-progress bucket is never exposed, so a node at
// a coarser timeframe cannot read values that would still change.
type ResampledSeries struct {
	Bars          []types.PriceBar
	lastCompleted []int
}

// VisibleAt returns the completed coarse bars at base index baseIdx and the
// index of the last one. The index is -1 when no bucket has completed yet.
func (r *ResampledSeries) VisibleAt(baseIdx int) ([]types.PriceBar, int) {
	last := r.lastCompleted[baseIdx]
	if last < 0 {
		return nil, -1
	}

	return r.Bars[:last+1], last
}

// Resample aggregates the base series into target timeframe buckets.
// Open is the first bar's open, close the last bar's close, high/low the
// extremes, volume the sum. Bucket timestamps are the bucket start.
func Resample(base []types.PriceBar, baseTimeframe, targetTimeframe types.Timeframe) (*ResampledSeries, error) {
	if targetTimeframe == baseTimeframe {
		last := make([]int, len(base))
		for i := range base {
			last[i] = i
		}

		return &ResampledSeries{Bars: base, lastCompleted: last}, nil
	}

	if !targetTimeframe.CoarserThan(baseTimeframe) {
		return nil, errors.Newf(errors.ErrCodeInvalidTimeframe,
			"cannot resample %s series to finer timeframe %s", baseTimeframe, targetTimeframe)
	}

	var (
		bars       []types.PriceBar
		currentKey time.Time
		open       bool
	)

	lastCompleted := make([]int, len(base))

	for i, bar := range base {
		key := bucketStart(bar.Time, targetTimeframe)

		if !open || !key.Equal(currentKey) {
			bars = append(bars, types.PriceBar{
				Time:   key,
				Symbol: bar.Symbol,
				Open:   bar.Open,
				High:   bar.High,
				Low:    bar.Low,
				Close:  bar.Close,
				Volume: bar.Volume,
			})
			currentKey = key
			open = true
		} else {
			last := &bars[len(bars)-1]
			if bar.High > last.High {
				last.High = bar.High
			}

			if bar.Low < last.Low {
				last.Low = bar.Low
			}

			last.Close = bar.Close
			last.Volume += bar.Volume
		}

		// Every bucket before the one this bar falls into is closed.
		lastCompleted[i] = len(bars) - 2
	}

	return &ResampledSeries{Bars: bars, lastCompleted: lastCompleted}, nil
}

// bucketStart truncates t to the start of its bucket. Weeks start on Monday
// 00:00 UTC; other timeframes truncate on their duration.
func bucketStart(t time.Time, timeframe types.Timeframe) time.Time {
	t = t.UTC()

	if timeframe == types.Timeframe1w {
		day := t.Truncate(24 * time.Hour)
		offset := (int(day.Weekday()) + 6) % 7

		return day.AddDate(0, 0, -offset)
	}

	return t.Truncate(timeframe.Duration())
}
