package engine

import (
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/cache"
	"github.com/testback-lab/testback/internal/indicator"
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/pkg/errors"
)

// GraphEvaluator walks a validated strategy graph once per base bar. Nodes
// are visited in topological order so every logic node sees its inputs
// already decided.
type GraphEvaluator struct {
	graph    *strategy.Graph
	order    []string
	registry indicator.IndicatorRegistry
	series   *cache.SeriesCache
}

// NewGraphEvaluator builds an evaluator over the graph. The graph must
// already be validated; a cyclic graph is rejected here as well.
func NewGraphEvaluator(graph *strategy.Graph, registry indicator.IndicatorRegistry, series *cache.SeriesCache) (*GraphEvaluator, error) {
	order, err := graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	return &GraphEvaluator{
		graph:    graph,
		order:    order,
		registry: registry,
		series:   series,
	}, nil
}

// EvaluateBar returns the action nodes that fire at the base bar index, in
// document order. An action fires when at least one incoming edge carries
// true. Both BUY and SELL firing on the same bar is legal; ordering them is
// the execution engine's concern.
func (e *GraphEvaluator) EvaluateBar(baseIdx int) ([]*strategy.Node, error) {
	values := make(map[string]bool, len(e.graph.Nodes))

	for _, id := range e.order {
		node := e.graph.NodeByID(id)

		switch node.Kind {
		case strategy.NodeKindCondition:
			v, err := e.evaluateCondition(node, baseIdx)
			if err != nil {
				return nil, err
			}

			values[id] = v
		case strategy.NodeKindLogic:
			values[id] = e.evaluateLogic(node, values)
		case strategy.NodeKindAction:
			// Decided below from the incoming edges.
		}
	}

	var fired []*strategy.Node

	for _, node := range e.graph.ActionNodes() {
		for _, edge := range e.graph.IncomingEdges(node.ID) {
			if values[edge.Source] {
				fired = append(fired, node)

				break
			}
		}
	}

	return fired, nil
}

// evaluateCondition computes the node's indicator on the series resampled to
// the node's timeframe. Insufficient lookback and a not-yet-completed coarse
// bucket both evaluate to false, never to an error.
func (e *GraphEvaluator) evaluateCondition(node *strategy.Node, baseIdx int) (bool, error) {
	rs, err := e.series.Get(node.Params.Timeframe)
	if err != nil {
		return false, err
	}

	visible, last := rs.VisibleAt(baseIdx)
	if last < 0 {
		return false, nil
	}

	ind, err := e.registry.GetIndicator(node.Indicator)
	if err != nil {
		return false, err
	}

	result, err := ind.Evaluate(visible, last, node.Params)
	if err != nil {
		if errors.IsInsufficientDataError(err) {
			return false, nil
		}

		return false, err
	}

	if result.Signal.IsSome() {
		return result.Signal.Unwrap(), nil
	}

	return node.Params.Operator.Apply(result.Value, node.Params.Threshold), nil
}

func (e *GraphEvaluator) evaluateLogic(node *strategy.Node, values map[string]bool) bool {
	incoming := e.graph.IncomingEdges(node.ID)

	switch node.Op {
	case strategy.LogicAnd:
		if len(incoming) == 0 {
			return false
		}

		for _, edge := range incoming {
			if !values[edge.Source] {
				return false
			}
		}

		return true
	case strategy.LogicOr:
		for _, edge := range incoming {
			if values[edge.Source] {
				return true
			}
		}

		return false
	case strategy.LogicNot:
		if len(incoming) != 1 {
			return false
		}

		return !values[incoming[0].Source]
	default:
		return false
	}
}
