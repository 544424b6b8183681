package strategy

import (
	"github.com/testback-lab/testback/internal/types"
)

// kindDefaults is the canonical default-parameter table, consulted exactly
// once per document when it is loaded. Values follow the product defaults of
// the original strategy builder.
var kindDefaults = map[types.IndicatorKind]ConditionParams{
	types.IndicatorKindMA: {
		Period:    20,
		Threshold: 0,
		Operator:  types.OperatorGreater,
	},
	types.IndicatorKindRSI: {
		Period:    14,
		Threshold: 30,
		Operator:  types.OperatorLess,
	},
	types.IndicatorKindMACD: {
		FastPeriod:   12,
		SlowPeriod:   26,
		SignalPeriod: 9,
		Threshold:    0,
		Operator:     types.OperatorGreater,
		Mode:         ModeThreshold,
	},
	types.IndicatorKindBollinger: {
		Period:           20,
		StdDevMultiplier: 2.0,
		Mode:             ModePosition,
		Direction:        DirectionDown,
	},
	types.IndicatorKindVolume: {
		AvgPeriod:  5,
		Multiplier: 1.5,
		Operator:   types.OperatorGreater,
	},
	types.IndicatorKindTrend: {
		Period:    20,
		Mode:      ModeSlope,
		Direction: DirectionUp,
	},
	types.IndicatorKindCandle: {
		Pattern: CandleBullish,
	},
}

// ApplyDefaults fills the zero-valued parameters of every condition node from
// the per-kind table, and normalizes missing timeframes to the base series
// timeframe. Action nodes default to market price type.
func ApplyDefaults(g *Graph, baseTimeframe types.Timeframe) {
	for i := range g.Nodes {
		node := &g.Nodes[i]

		switch node.Kind {
		case NodeKindCondition:
			if node.Params == nil {
				node.Params = &ConditionParams{}
			}

			applyConditionDefaults(node.Indicator, node.Params, baseTimeframe)
		case NodeKindAction:
			if node.PriceType == "" {
				node.PriceType = types.PriceTypeMarket
			}

			if node.Quantity == 0 {
				node.Quantity = 100
			}
		case NodeKindLogic:
		}
	}
}

func applyConditionDefaults(kind types.IndicatorKind, p *ConditionParams, baseTimeframe types.Timeframe) {
	defaults, ok := kindDefaults[kind]
	if !ok {
		return
	}

	if p.Timeframe == "" {
		p.Timeframe = baseTimeframe
	}

	if p.Period == 0 {
		p.Period = defaults.Period
	}

	if p.Threshold == 0 {
		p.Threshold = defaults.Threshold
	}

	if p.Operator == "" {
		p.Operator = defaults.Operator
	}

	if p.Mode == ModeDefault {
		p.Mode = defaults.Mode
	}

	if p.Direction == DirectionNone {
		p.Direction = defaults.Direction
	}

	if p.FastPeriod == 0 {
		p.FastPeriod = defaults.FastPeriod
	}

	if p.SlowPeriod == 0 {
		p.SlowPeriod = defaults.SlowPeriod
	}

	if p.SignalPeriod == 0 {
		p.SignalPeriod = defaults.SignalPeriod
	}

	if p.StdDevMultiplier == 0 {
		p.StdDevMultiplier = defaults.StdDevMultiplier
	}

	if p.AvgPeriod == 0 {
		p.AvgPeriod = defaults.AvgPeriod
	}

	if p.Multiplier == 0 {
		p.Multiplier = defaults.Multiplier
	}

	if p.Pattern == "" {
		p.Pattern = defaults.Pattern
	}
}
