package indicator

import (
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// MA is the arithmetic moving average of the last period closes.
type MA struct{}

func NewMA() Indicator {
	return &MA{}
}

// Kind implements Indicator.
func (m *MA) Kind() types.IndicatorKind {
	return types.IndicatorKindMA
}

// MinLookback implements Indicator.
func (m *MA) MinLookback(params *strategy.ConditionParams) int {
	return params.Period
}

// Evaluate implements Indicator.
func (m *MA) Evaluate(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (Result, error) {
	period := params.Period
	if idx+1 < period {
		return Result{}, errors.NewInsufficientDataErrorf(period, idx+1, seriesSymbol(bars),
			"MA(%d) needs %d bars, have %d", period, period, idx+1)
	}

	return ValueResult(mean(closes(bars, idx-period+1, idx)))
}
