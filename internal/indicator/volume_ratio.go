package indicator

import (
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// VolumeRatio compares the current bar's volume against the rolling average
// volume of the previous avgPeriod bars. The node's operator compares the
// ratio against the multiplier, so the result is a Signal.
type VolumeRatio struct{}

func NewVolumeRatio() Indicator {
	return &VolumeRatio{}
}

// Kind implements Indicator.
func (v *VolumeRatio) Kind() types.IndicatorKind {
	return types.IndicatorKindVolume
}

// MinLookback implements Indicator.
func (v *VolumeRatio) MinLookback(params *strategy.ConditionParams) int {
	// avgPeriod bars before the current one.
	return params.AvgPeriod + 1
}

// Evaluate implements Indicator.
func (v *VolumeRatio) Evaluate(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (Result, error) {
	lookback := v.MinLookback(params)
	if idx+1 < lookback {
		return Result{}, errors.NewInsufficientDataErrorf(lookback, idx+1, seriesSymbol(bars),
			"volume ratio needs %d bars, have %d", lookback, idx+1)
	}

	var sum float64
	for i := idx - params.AvgPeriod; i < idx; i++ {
		sum += bars[i].Volume
	}

	avg := sum / float64(params.AvgPeriod)
	if avg == 0 {
		return SignalResult(0, false)
	}

	ratio := bars[idx].Volume / avg

	return SignalResult(ratio, params.Operator.Apply(ratio, params.Multiplier))
}
