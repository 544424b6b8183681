package indicator

import (
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// RSI is the relative strength index with Wilder's smoothing, in [0,100].
//
// With a direction parameter the node's threshold comparison is combined with
// a current-vs-previous RSI check, so the result carries a Signal. Without a
// direction the plain value is returned for the evaluator to compare.
type RSI struct{}

func NewRSI() Indicator {
	return &RSI{}
}

// Kind implements Indicator.
func (r *RSI) Kind() types.IndicatorKind {
	return types.IndicatorKindRSI
}

// MinLookback implements Indicator.
func (r *RSI) MinLookback(params *strategy.ConditionParams) int {
	// period deltas need period+1 closes.
	lookback := params.Period + 1
	if params.Direction != strategy.DirectionNone {
		lookback++
	}

	return lookback
}

// Evaluate implements Indicator.
func (r *RSI) Evaluate(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (Result, error) {
	lookback := r.MinLookback(params)
	if idx+1 < lookback {
		return Result{}, errors.NewInsufficientDataErrorf(lookback, idx+1, seriesSymbol(bars),
			"RSI(%d) needs %d bars, have %d", params.Period, lookback, idx+1)
	}

	value := wilderRSI(bars, idx, params.Period)

	if params.Direction == strategy.DirectionNone {
		return ValueResult(value)
	}

	prev := wilderRSI(bars, idx-1, params.Period)
	ok := params.Operator.Apply(value, params.Threshold)

	switch params.Direction {
	case strategy.DirectionRising:
		ok = ok && value > prev
	case strategy.DirectionFalling:
		ok = ok && value < prev
	}

	return SignalResult(value, ok)
}

// wilderRSI computes RSI at idx: the seed averages are simple means of the
// first period deltas, then Wilder's recursive smoothing runs up to idx.
func wilderRSI(bars []types.PriceBar, idx int, period int) float64 {
	var gainSum, lossSum float64

	for i := 1; i <= period; i++ {
		delta := bars[i].Close - bars[i-1].Close
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	for i := period + 1; i <= idx; i++ {
		delta := bars[i].Close - bars[i-1].Close

		var gain, loss float64
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
