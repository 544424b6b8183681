package strategy

import (
	"github.com/go-playground/validator/v10"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/internal/version"
	"github.com/testback-lab/testback/pkg/errors"
)

// Validate checks the whole document: struct tags, schema version, node
// parameters, edge references and acyclicity. The graph must already have
// defaults applied.
func (g *Graph) Validate() error {
	validate := validator.New()
	if err := validate.Struct(g); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy document", err)
	}

	if g.SchemaVersion != "" {
		if err := version.CheckSchemaCompatibility(version.GetVersion(), g.SchemaVersion); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(g.Nodes))

	for i := range g.Nodes {
		node := &g.Nodes[i]
		if seen[node.ID] {
			return errors.Newf(errors.ErrCodeInvalidConfiguration, "duplicate node id %q", node.ID)
		}

		seen[node.ID] = true

		if err := validateNode(node); err != nil {
			return err
		}
	}

	for _, e := range g.Edges {
		if !seen[e.Source] {
			return errors.Newf(errors.ErrCodeDanglingEdge, "edge %q references unknown source node %q", e.ID, e.Source)
		}

		if !seen[e.Target] {
			return errors.Newf(errors.ErrCodeDanglingEdge, "edge %q references unknown target node %q", e.ID, e.Target)
		}
	}

	for i := range g.Nodes {
		node := &g.Nodes[i]
		if node.Kind == NodeKindLogic && node.Op == LogicNot && len(g.IncomingEdges(node.ID)) != 1 {
			return errors.Newf(errors.ErrCodeInvalidNodeParams, "NOT node %q must have exactly one input", node.ID)
		}
	}

	if _, err := g.TopologicalOrder(); err != nil {
		return err
	}

	return nil
}

func validateNode(node *Node) error {
	switch node.Kind {
	case NodeKindCondition:
		return validateConditionNode(node)
	case NodeKindLogic:
		switch node.Op {
		case LogicAnd, LogicOr, LogicNot:
			return nil
		default:
			return errors.Newf(errors.ErrCodeInvalidNodeParams, "logic node %q has unknown op %q", node.ID, node.Op)
		}
	case NodeKindAction:
		switch node.Action {
		case ActionBuy, ActionSell, ActionHold:
		default:
			return errors.Newf(errors.ErrCodeInvalidNodeParams, "action node %q has unknown action %q", node.ID, node.Action)
		}

		if node.Quantity <= 0 {
			return errors.Newf(errors.ErrCodeInvalidNodeParams, "action node %q has non-positive quantity %d", node.ID, node.Quantity)
		}

		if node.PriceType != types.PriceTypeMarket && node.PriceType != types.PriceTypeLimit {
			return errors.Newf(errors.ErrCodeInvalidNodeParams, "action node %q has unknown price type %q", node.ID, node.PriceType)
		}

		return nil
	default:
		return errors.Newf(errors.ErrCodeUnknownNode, "node %q has unknown kind %q", node.ID, node.Kind)
	}
}

func validateConditionNode(node *Node) error {
	p := node.Params
	if p == nil {
		return errors.Newf(errors.ErrCodeMissingParameter, "condition node %q has no parameters", node.ID)
	}

	if !p.Timeframe.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidTimeframe, "condition node %q has invalid timeframe %q", node.ID, p.Timeframe)
	}

	// Exhaustive over indicator kinds so a new kind fails loudly here until
	// its parameter rules are added.
	switch node.Indicator {
	case types.IndicatorKindMA:
		if p.Period < 1 {
			return invalidPeriod(node.ID, p.Period)
		}

		return requireOperator(node.ID, p.Operator)
	case types.IndicatorKindRSI:
		if p.Period < 1 {
			return invalidPeriod(node.ID, p.Period)
		}

		if p.Threshold < 0 || p.Threshold > 100 {
			return errors.Newf(errors.ErrCodeInvalidThreshold, "condition node %q: RSI threshold %.2f out of [0,100]", node.ID, p.Threshold)
		}

		if p.Direction != DirectionNone && p.Direction != DirectionRising && p.Direction != DirectionFalling {
			return invalidDirection(node.ID, p.Direction)
		}

		return requireOperator(node.ID, p.Operator)
	case types.IndicatorKindMACD:
		if p.FastPeriod < 1 || p.SlowPeriod < 1 || p.SignalPeriod < 1 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "condition node %q: MACD periods must be positive", node.ID)
		}

		if p.FastPeriod >= p.SlowPeriod {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "condition node %q: MACD fast period %d must be below slow period %d", node.ID, p.FastPeriod, p.SlowPeriod)
		}

		switch p.Mode {
		case ModeThreshold:
			return requireOperator(node.ID, p.Operator)
		case ModeCross:
			if p.Direction != DirectionUp && p.Direction != DirectionDown {
				return invalidDirection(node.ID, p.Direction)
			}

			return nil
		default:
			return invalidMode(node.ID, p.Mode)
		}
	case types.IndicatorKindBollinger:
		if p.Period < 1 {
			return invalidPeriod(node.ID, p.Period)
		}

		if p.StdDevMultiplier <= 0 {
			return errors.Newf(errors.ErrCodeInvalidStdDev, "condition node %q: std dev multiplier %.2f must be positive", node.ID, p.StdDevMultiplier)
		}

		switch p.Mode {
		case ModeBreakout, ModePosition:
			if p.Direction != DirectionUp && p.Direction != DirectionDown {
				return invalidDirection(node.ID, p.Direction)
			}

			return nil
		case ModeNarrow:
			if p.Threshold <= 0 {
				return errors.Newf(errors.ErrCodeInvalidThreshold, "condition node %q: narrow-band threshold must be positive", node.ID)
			}

			return nil
		default:
			return invalidMode(node.ID, p.Mode)
		}
	case types.IndicatorKindVolume:
		if p.AvgPeriod < 1 {
			return invalidPeriod(node.ID, p.AvgPeriod)
		}

		if p.Multiplier <= 0 {
			return errors.Newf(errors.ErrCodeInvalidMultiplier, "condition node %q: volume multiplier %.2f must be positive", node.ID, p.Multiplier)
		}

		return requireOperator(node.ID, p.Operator)
	case types.IndicatorKindTrend:
		if p.Period < 1 {
			return invalidPeriod(node.ID, p.Period)
		}

		if p.Mode != ModeSlope && p.Mode != ModePrice {
			return invalidMode(node.ID, p.Mode)
		}

		if p.Direction != DirectionUp && p.Direction != DirectionDown {
			return invalidDirection(node.ID, p.Direction)
		}

		return nil
	case types.IndicatorKindCandle:
		if p.Pattern != CandleBullish && p.Pattern != CandleBearish {
			return errors.Newf(errors.ErrCodeInvalidNodeParams, "condition node %q has unknown pattern %q", node.ID, p.Pattern)
		}

		return nil
	default:
		return errors.Newf(errors.ErrCodeInvalidType, "condition node %q has unknown indicator kind %q", node.ID, node.Indicator)
	}
}

func requireOperator(nodeID string, op types.Operator) error {
	if !op.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidOperator, "condition node %q has invalid operator %q", nodeID, op)
	}

	return nil
}

func invalidPeriod(nodeID string, period int) error {
	return errors.Newf(errors.ErrCodeInvalidPeriod, "condition node %q has invalid period %d", nodeID, period)
}

func invalidDirection(nodeID string, d Direction) error {
	return errors.Newf(errors.ErrCodeInvalidNodeParams, "condition node %q has invalid direction %q", nodeID, d)
}

func invalidMode(nodeID string, m Mode) error {
	return errors.Newf(errors.ErrCodeInvalidNodeParams, "condition node %q has invalid mode %q", nodeID, m)
}

// TopologicalOrder returns node ids in an order where every edge source
// precedes its target. Fails with ErrCodeCyclicGraph when the graph has a
// cycle. Document order breaks ties so the result is deterministic.
func (g *Graph) TopologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.Nodes))
	for i := range g.Nodes {
		indegree[g.Nodes[i].ID] = 0
	}

	for _, e := range g.Edges {
		indegree[e.Target]++
	}

	order := make([]string, 0, len(g.Nodes))
	done := make(map[string]bool, len(g.Nodes))

	for len(order) < len(g.Nodes) {
		progressed := false

		for i := range g.Nodes {
			id := g.Nodes[i].ID
			if done[id] || indegree[id] != 0 {
				continue
			}

			done[id] = true
			order = append(order, id)
			progressed = true

			for _, e := range g.Edges {
				if e.Source == id {
					indegree[e.Target]--
				}
			}
		}

		if !progressed {
			return nil, errors.New(errors.ErrCodeCyclicGraph, "strategy graph contains a cycle")
		}
	}

	return order, nil
}
