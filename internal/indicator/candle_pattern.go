package indicator

import (
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// CandlePattern matches the current bar only: bullish when close > open,
// bearish when close < open. A doji matches neither.
type CandlePattern struct{}

func NewCandlePattern() Indicator {
	return &CandlePattern{}
}

// Kind implements Indicator.
func (c *CandlePattern) Kind() types.IndicatorKind {
	return types.IndicatorKindCandle
}

// MinLookback implements Indicator.
func (c *CandlePattern) MinLookback(params *strategy.ConditionParams) int {
	return 1
}

// Evaluate implements Indicator.
func (c *CandlePattern) Evaluate(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (Result, error) {
	if idx < 0 || idx >= len(bars) {
		return Result{}, errors.NewInsufficientDataErrorf(1, 0, seriesSymbol(bars), "candle pattern needs one bar")
	}

	bar := bars[idx]

	switch params.Pattern {
	case strategy.CandleBullish:
		return SignalResult(bar.Close-bar.Open, bar.IsBullish())
	case strategy.CandleBearish:
		return SignalResult(bar.Close-bar.Open, bar.IsBearish())
	default:
		return Result{}, errors.Newf(errors.ErrCodeIndicatorCalculation, "candle: unsupported pattern %q", params.Pattern)
	}
}
