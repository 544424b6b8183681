package types

import (
	"time"

	"github.com/testback-lab/testback/pkg/errors"
)

// Timeframe is a bar aggregation unit.
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
	Timeframe1w  Timeframe = "1w"
)

// AllTimeframes lists the supported timeframes in ascending duration order.
var AllTimeframes = []Timeframe{
	Timeframe1m,
	Timeframe5m,
	Timeframe15m,
	Timeframe30m,
	Timeframe1h,
	Timeframe4h,
	Timeframe1d,
	Timeframe1w,
}

var timeframeDurations = map[Timeframe]time.Duration{
	Timeframe1m:  time.Minute,
	Timeframe5m:  5 * time.Minute,
	Timeframe15m: 15 * time.Minute,
	Timeframe30m: 30 * time.Minute,
	Timeframe1h:  time.Hour,
	Timeframe4h:  4 * time.Hour,
	Timeframe1d:  24 * time.Hour,
	Timeframe1w:  7 * 24 * time.Hour,
}

// Periods per year used for Sharpe annualization. Intraday values assume a
// 6.5 hour US equity session over 252 trading days.
var timeframePeriodsPerYear = map[Timeframe]float64{
	Timeframe1m:  98280,
	Timeframe5m:  19656,
	Timeframe15m: 6552,
	Timeframe30m: 3276,
	Timeframe1h:  1638,
	Timeframe4h:  504,
	Timeframe1d:  252,
	Timeframe1w:  52,
}

// ParseTimeframe validates the given string and returns it as a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if _, ok := timeframeDurations[tf]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidTimeframe, "unsupported timeframe %q", s)
	}

	return tf, nil
}

// Duration returns the length of one bar at this timeframe.
func (tf Timeframe) Duration() time.Duration {
	return timeframeDurations[tf]
}

// PeriodsPerYear returns the number of bars in one year at this timeframe,
// used by the Sharpe ratio annualization.
func (tf Timeframe) PeriodsPerYear() float64 {
	if p, ok := timeframePeriodsPerYear[tf]; ok {
		return p
	}

	return 252
}

// IsValid reports whether the timeframe is one of the supported units.
func (tf Timeframe) IsValid() bool {
	_, ok := timeframeDurations[tf]

	return ok
}

// CoarserThan reports whether tf aggregates more base bars than other.
func (tf Timeframe) CoarserThan(other Timeframe) bool {
	return tf.Duration() > other.Duration()
}
