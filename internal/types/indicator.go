package types

// IndicatorKind identifies a technical indicator family.
type IndicatorKind string

const (
	IndicatorKindMA        IndicatorKind = "ma"
	IndicatorKindRSI       IndicatorKind = "rsi"
	IndicatorKindMACD      IndicatorKind = "macd"
	IndicatorKindBollinger IndicatorKind = "bollinger"
	IndicatorKindVolume    IndicatorKind = "volume"
	IndicatorKindTrend     IndicatorKind = "trend"
	IndicatorKindCandle    IndicatorKind = "candle"
)

// AllIndicatorKinds lists every supported indicator kind.
var AllIndicatorKinds = []IndicatorKind{
	IndicatorKindMA,
	IndicatorKindRSI,
	IndicatorKindMACD,
	IndicatorKindBollinger,
	IndicatorKindVolume,
	IndicatorKindTrend,
	IndicatorKindCandle,
}

// Operator is a comparison operator applied between an indicator value and a
// node threshold.
type Operator string

const (
	OperatorGreater      Operator = ">"
	OperatorLess         Operator = "<"
	OperatorGreaterEqual Operator = ">="
	OperatorLessEqual    Operator = "<="
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
)

const floatEqualityEpsilon = 1e-9

// Apply evaluates the comparison between a and b. Unknown operators evaluate
// to false rather than panicking; document validation rejects them up front.
func (op Operator) Apply(a, b float64) bool {
	switch op {
	case OperatorGreater:
		return a > b
	case OperatorLess:
		return a < b
	case OperatorGreaterEqual:
		return a >= b
	case OperatorLessEqual:
		return a <= b
	case OperatorEqual:
		return a-b < floatEqualityEpsilon && b-a < floatEqualityEpsilon
	case OperatorNotEqual:
		return a-b >= floatEqualityEpsilon || b-a >= floatEqualityEpsilon
	default:
		return false
	}
}

// IsValid reports whether op is a supported comparison operator.
func (op Operator) IsValid() bool {
	switch op {
	case OperatorGreater, OperatorLess, OperatorGreaterEqual,
		OperatorLessEqual, OperatorEqual, OperatorNotEqual:
		return true
	default:
		return false
	}
}
