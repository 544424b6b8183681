// Package strategy defines the strategy graph document: condition, logic and
// action nodes connected by directed edges, evaluated once per price bar.
package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/testback-lab/testback/internal/types"
)

// NodeKind is the top-level category of a graph node.
type NodeKind string

const (
	NodeKindCondition NodeKind = "condition"
	NodeKindLogic     NodeKind = "logic"
	NodeKindAction    NodeKind = "action"
)

// LogicOp combines boolean inputs of a logic node.
type LogicOp string

const (
	LogicAnd LogicOp = "AND"
	LogicOr  LogicOp = "OR"
	LogicNot LogicOp = "NOT"
)

// ActionKind is what an action node does when it fires.
type ActionKind string

const (
	ActionBuy  ActionKind = "BUY"
	ActionSell ActionKind = "SELL"
	ActionHold ActionKind = "HOLD"
)

// Direction refines a condition beyond the plain threshold comparison.
// Valid values depend on the indicator kind: rsi accepts rising/falling,
// bollinger and trend accept up/down.
type Direction string

const (
	DirectionNone    Direction = ""
	DirectionRising  Direction = "rising"
	DirectionFalling Direction = "falling"
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
)

// Mode selects the evaluation variant of an indicator.
// macd: threshold|cross, bollinger: breakout|position|narrow,
// trend: slope|price.
type Mode string

const (
	ModeDefault   Mode = ""
	ModeThreshold Mode = "threshold"
	ModeCross     Mode = "cross"
	ModeBreakout  Mode = "breakout"
	ModePosition  Mode = "position"
	ModeNarrow    Mode = "narrow"
	ModeSlope     Mode = "slope"
	ModePrice     Mode = "price"
)

// CandlePattern is the pattern a candle condition looks for on the current bar.
type CandlePattern string

const (
	CandleBullish CandlePattern = "bullish"
	CandleBearish CandlePattern = "bearish"
)

// ConditionParams holds the parameters of a condition node. Which fields are
// meaningful depends on the node's indicator kind; ApplyDefaults fills the
// missing ones from the canonical per-kind table and Validate checks the rest
// with an exhaustive switch over the kind.
type ConditionParams struct {
	// Timeframe is the bar aggregation unit this node is evaluated at. The
	// base series is resampled to it before the indicator is computed.
	Timeframe types.Timeframe `json:"timeframe,omitempty" yaml:"timeframe,omitempty" jsonschema:"title=Timeframe,description=Bar aggregation unit for this node,enum=1m,enum=5m,enum=15m,enum=30m,enum=1h,enum=4h,enum=1d,enum=1w"`

	// Period is the main lookback window (ma, rsi, bollinger, trend).
	Period int `json:"period,omitempty" yaml:"period,omitempty" jsonschema:"title=Period,minimum=1"`

	// Threshold is compared against the indicator value via Operator.
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty" jsonschema:"title=Threshold"`

	// Operator compares the indicator value to Threshold. Ignored by modes
	// that already yield a boolean (cross, breakout, candle patterns).
	Operator types.Operator `json:"operator,omitempty" yaml:"operator,omitempty" jsonschema:"title=Operator,enum=>,enum=<,enum=>=,enum=<=,enum===,enum=!="`

	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty" jsonschema:"title=Direction"`
	Mode      Mode      `json:"mode,omitempty" yaml:"mode,omitempty" jsonschema:"title=Mode"`

	// MACD periods.
	FastPeriod   int `json:"fast_period,omitempty" yaml:"fast_period,omitempty" jsonschema:"title=Fast Period,minimum=1"`
	SlowPeriod   int `json:"slow_period,omitempty" yaml:"slow_period,omitempty" jsonschema:"title=Slow Period,minimum=1"`
	SignalPeriod int `json:"signal_period,omitempty" yaml:"signal_period,omitempty" jsonschema:"title=Signal Period,minimum=1"`

	// Bollinger band width in standard deviations.
	StdDevMultiplier float64 `json:"std_dev,omitempty" yaml:"std_dev,omitempty" jsonschema:"title=Std Dev Multiplier"`

	// Volume ratio parameters.
	AvgPeriod  int     `json:"avg_period,omitempty" yaml:"avg_period,omitempty" jsonschema:"title=Average Period,minimum=1"`
	Multiplier float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty" jsonschema:"title=Volume Multiplier"`

	// Candlestick pattern.
	Pattern CandlePattern `json:"pattern,omitempty" yaml:"pattern,omitempty" jsonschema:"title=Pattern,enum=bullish,enum=bearish"`
}

// Node is one vertex of the strategy graph. The Kind field selects which of
// the remaining fields are meaningful.
type Node struct {
	ID   string   `json:"id" yaml:"id" validate:"required"`
	Kind NodeKind `json:"type" yaml:"type" validate:"required,oneof=condition logic action"`

	// Condition nodes.
	Indicator types.IndicatorKind `json:"indicator,omitempty" yaml:"indicator,omitempty"`
	Params    *ConditionParams    `json:"params,omitempty" yaml:"params,omitempty"`

	// Logic nodes.
	Op LogicOp `json:"op,omitempty" yaml:"op,omitempty"`

	// Action nodes.
	Action    ActionKind      `json:"action,omitempty" yaml:"action,omitempty"`
	Quantity  int64           `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	PriceType types.PriceType `json:"price_type,omitempty" yaml:"price_type,omitempty"`
	// LimitPrice, when present on a limit action, caps the execution price.
	// A limit action without it degrades to market.
	LimitPrice optional.Option[float64] `json:"limit_price,omitempty" yaml:"limit_price,omitempty"`
}

// Edge is a directed connection carrying a boolean signal from Source to
// Target.
type Edge struct {
	ID     string `json:"id" yaml:"id" validate:"required"`
	Source string `json:"source" yaml:"source" validate:"required"`
	Target string `json:"target" yaml:"target" validate:"required"`
}

const (
	StopLossTypePct    = "pct"
	StopLossTypeAmount = "amount"

	StopLossSellAll    = "sell_all"
	StopLossReduceHalf = "reduce_half"
)

// StopLossRule is an engine-level overlay checked after each bar's actions.
type StopLossRule struct {
	// Type is "pct" (fraction of cost basis) or "amount" (absolute loss).
	Type string `json:"type" yaml:"type" validate:"required,oneof=pct amount"`
	// Value is the loss threshold, positive.
	Value float64 `json:"value" yaml:"value" validate:"required,gt=0"`
	// Action is "sell_all" or "reduce_half".
	Action string `json:"action" yaml:"action" validate:"required,oneof=sell_all reduce_half"`
}

// Meta carries document-level settings outside the node graph itself.
type Meta struct {
	StopLoss *StopLossRule `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
}

// Graph is a complete strategy document.
type Graph struct {
	SchemaVersion string `json:"schema_version,omitempty" yaml:"schema_version,omitempty"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes         []Node `json:"nodes" yaml:"nodes" validate:"required,min=1"`
	Edges         []Edge `json:"edges" yaml:"edges"`
	Meta          Meta   `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}

	return nil
}

// ConditionNodes returns the condition nodes in document order.
func (g *Graph) ConditionNodes() []*Node {
	return g.nodesOfKind(NodeKindCondition)
}

// ActionNodes returns the action nodes in document order.
func (g *Graph) ActionNodes() []*Node {
	return g.nodesOfKind(NodeKindAction)
}

func (g *Graph) nodesOfKind(kind NodeKind) []*Node {
	var out []*Node

	for i := range g.Nodes {
		if g.Nodes[i].Kind == kind {
			out = append(out, &g.Nodes[i])
		}
	}

	return out
}

// IncomingEdges returns the edges whose target is the given node id.
func (g *Graph) IncomingEdges(nodeID string) []Edge {
	var out []Edge

	for _, e := range g.Edges {
		if e.Target == nodeID {
			out = append(out, e)
		}
	}

	return out
}
