package indicator

import (
	"time"

	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
)

// barsFromCloses builds a daily series where each bar opens at the previous
// close. Volume defaults to 1000.
func barsFromCloses(closes ...float64) []types.PriceBar {
	bars := make([]types.PriceBar, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		high := open
		if c > high {
			high = c
		}

		low := open
		if c < low {
			low = c
		}

		bars[i] = types.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Symbol: "TEST",
			Open:   open,
			High:   high,
			Low:    low,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

func constantCloses(n int, value float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}

	return out
}

func maParams(period int, op types.Operator, threshold float64) *strategy.ConditionParams {
	return &strategy.ConditionParams{
		Timeframe: types.Timeframe1d,
		Period:    period,
		Operator:  op,
		Threshold: threshold,
	}
}
