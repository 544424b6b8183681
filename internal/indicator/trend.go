package indicator

import (
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// Trend detects the direction of the market.
//
// Slope mode compares MA(period) at the current bar against the previous bar:
// direction up means the average is rising. Price mode compares the close
// against MA(period): up means close above the average. Both yield a Signal.
type Trend struct{}

func NewTrend() Indicator {
	return &Trend{}
}

// Kind implements Indicator.
func (t *Trend) Kind() types.IndicatorKind {
	return types.IndicatorKindTrend
}

// MinLookback implements Indicator.
func (t *Trend) MinLookback(params *strategy.ConditionParams) int {
	if params.Mode == strategy.ModeSlope {
		return params.Period + 1
	}

	return params.Period
}

// Evaluate implements Indicator.
func (t *Trend) Evaluate(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (Result, error) {
	lookback := t.MinLookback(params)
	if idx+1 < lookback {
		return Result{}, errors.NewInsufficientDataErrorf(lookback, idx+1, seriesSymbol(bars),
			"trend(%d) needs %d bars, have %d", params.Period, lookback, idx+1)
	}

	ma := mean(closes(bars, idx-params.Period+1, idx))

	switch params.Mode {
	case strategy.ModeSlope:
		prev := mean(closes(bars, idx-params.Period, idx-1))
		slope := ma - prev

		if params.Direction == strategy.DirectionUp {
			return SignalResult(slope, slope > 0)
		}

		return SignalResult(slope, slope < 0)
	case strategy.ModePrice:
		close := bars[idx].Close

		if params.Direction == strategy.DirectionUp {
			return SignalResult(close-ma, close > ma)
		}

		return SignalResult(close-ma, close < ma)
	default:
		return Result{}, errors.Newf(errors.ErrCodeIndicatorCalculation, "trend: unsupported mode %q", params.Mode)
	}
}
