package indicator

import (
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// MACD is fast EMA minus slow EMA with a signal EMA of that difference.
//
// Threshold mode exposes the histogram (MACD line minus signal line) as a
// value for the node's operator/threshold comparison. Cross mode detects the
// histogram changing sign between the previous and current bar: direction up
// is the golden cross (histogram moves from <=0 to >0), direction down the
// death cross.
type MACD struct{}

func NewMACD() Indicator {
	return &MACD{}
}

// Kind implements Indicator.
func (m *MACD) Kind() types.IndicatorKind {
	return types.IndicatorKindMACD
}

// MinLookback implements Indicator.
func (m *MACD) MinLookback(params *strategy.ConditionParams) int {
	lookback := params.SlowPeriod + params.SignalPeriod
	if params.Mode == strategy.ModeCross {
		lookback++
	}

	return lookback
}

// Evaluate implements Indicator.
func (m *MACD) Evaluate(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (Result, error) {
	lookback := m.MinLookback(params)
	if idx+1 < lookback {
		return Result{}, errors.NewInsufficientDataErrorf(lookback, idx+1, seriesSymbol(bars),
			"MACD(%d,%d,%d) needs %d bars, have %d",
			params.FastPeriod, params.SlowPeriod, params.SignalPeriod, lookback, idx+1)
	}

	hist := macdHistogram(bars, idx, params)

	if params.Mode == strategy.ModeCross {
		prev := macdHistogram(bars, idx-1, params)

		var crossed bool

		switch params.Direction {
		case strategy.DirectionUp:
			crossed = prev <= 0 && hist > 0
		case strategy.DirectionDown:
			crossed = prev >= 0 && hist < 0
		}

		return SignalResult(hist, crossed)
	}

	return ValueResult(hist)
}

func macdHistogram(bars []types.PriceBar, idx int, params *strategy.ConditionParams) float64 {
	series := closes(bars, 0, idx)
	fast := emaSeries(series, params.FastPeriod)
	slow := emaSeries(series, params.SlowPeriod)

	diff := make([]float64, len(series))
	for i := range series {
		diff[i] = fast[i] - slow[i]
	}

	signal := emaSeries(diff, params.SignalPeriod)

	return diff[idx] - signal[idx]
}

// emaSeries computes the exponential moving average of the whole series with
// smoothing 2/(period+1), seeded at the first value.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(period) + 1.0)
	out[0] = values[0]

	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}

	return out
}
