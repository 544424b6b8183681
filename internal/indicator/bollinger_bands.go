package indicator

import (
	"math"

	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// BollingerBands computes middle = MA(period) and bands at middle plus/minus
// stdDevMultiplier rolling standard deviations.
//
// Modes:
//   - position: close is currently beyond the band (up: above upper,
//     down: below lower); no cross required.
//   - breakout: close crossed outside the band between the previous and
//     current bar.
//   - narrow: band width as a fraction of the middle is below the node's
//     threshold (squeeze detection).
//
// All modes yield a boolean Signal; the node's operator is not consulted.
type BollingerBands struct{}

func NewBollingerBands() Indicator {
	return &BollingerBands{}
}

// Kind implements Indicator.
func (b *BollingerBands) Kind() types.IndicatorKind {
	return types.IndicatorKindBollinger
}

// MinLookback implements Indicator.
func (b *BollingerBands) MinLookback(params *strategy.ConditionParams) int {
	if params.Mode == strategy.ModeBreakout {
		// The previous bar needs a full window too.
		return params.Period + 1
	}

	return params.Period
}

// Evaluate implements Indicator.
func (b *BollingerBands) Evaluate(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (Result, error) {
	lookback := b.MinLookback(params)
	if idx+1 < lookback {
		return Result{}, errors.NewInsufficientDataErrorf(lookback, idx+1, seriesSymbol(bars),
			"Bollinger(%d) needs %d bars, have %d", params.Period, lookback, idx+1)
	}

	upper, middle, lower := bands(bars, idx, params)
	close := bars[idx].Close

	switch params.Mode {
	case strategy.ModePosition:
		if params.Direction == strategy.DirectionUp {
			return SignalResult(close, close > upper)
		}

		return SignalResult(close, close < lower)
	case strategy.ModeBreakout:
		prevUpper, _, prevLower := bands(bars, idx-1, params)
		prevClose := bars[idx-1].Close

		if params.Direction == strategy.DirectionUp {
			return SignalResult(close, prevClose <= prevUpper && close > upper)
		}

		return SignalResult(close, prevClose >= prevLower && close < lower)
	case strategy.ModeNarrow:
		if middle == 0 {
			return SignalResult(0, false)
		}

		width := (upper - lower) / middle

		return SignalResult(width, width < params.Threshold)
	default:
		return Result{}, errors.Newf(errors.ErrCodeIndicatorCalculation, "bollinger: unsupported mode %q", params.Mode)
	}
}

func bands(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (upper, middle, lower float64) {
	window := closes(bars, idx-params.Period+1, idx)
	middle = mean(window)

	var variance float64
	for _, v := range window {
		d := v - middle
		variance += d * d
	}

	variance /= float64(len(window))
	std := math.Sqrt(variance)

	upper = middle + params.StdDevMultiplier*std
	lower = middle - params.StdDevMultiplier*std

	return upper, middle, lower
}
