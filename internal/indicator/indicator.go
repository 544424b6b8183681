// Package indicator implements the technical indicators a condition node can
// reference. Every indicator is a pure function of the bars at or before the
// evaluation index; none of them reads past it.
package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
)

// Result is the outcome of evaluating an indicator at one bar.
//
// When Signal is present the indicator has already decided the condition
// (cross detection, band breakout, pattern match) and the node's
// operator/threshold pair is ignored. Otherwise Value is compared against the
// node's threshold by the condition evaluator.
type Result struct {
	Value  float64
	Signal optional.Option[bool]
}

// ValueResult wraps a plain numeric result.
func ValueResult(v float64) (Result, error) {
	return Result{Value: v, Signal: optional.None[bool]()}, nil
}

// SignalResult wraps a boolean result.
func SignalResult(v float64, ok bool) (Result, error) {
	return Result{Value: v, Signal: optional.Some(ok)}, nil
}

// Indicator is one technical indicator evaluated per bar.
//
// Evaluate must return an InsufficientDataError (pkg/errors) when fewer than
// MinLookback bars exist at or before idx; the caller treats that as
// "condition false", never as a run failure.
type Indicator interface {
	// Kind returns the indicator kind this implementation handles.
	Kind() types.IndicatorKind
	// MinLookback returns the number of bars required at or before the
	// evaluation index for the indicator to be defined.
	MinLookback(params *strategy.ConditionParams) int
	// Evaluate computes the indicator at bars[idx] using only bars[0..idx].
	Evaluate(bars []types.PriceBar, idx int, params *strategy.ConditionParams) (Result, error)
}

// closes returns the close prices of bars[from..to] inclusive.
func closes(bars []types.PriceBar, from, to int) []float64 {
	out := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, bars[i].Close)
	}

	return out
}

func seriesSymbol(bars []types.PriceBar) string {
	if len(bars) == 0 {
		return ""
	}

	return bars[0].Symbol
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
