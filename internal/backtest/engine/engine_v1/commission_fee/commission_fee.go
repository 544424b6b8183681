package commission_fee

type CommissionFee interface {
	// Calculate the commission fee for a fill of the given quantity at the
	// given price, in USD.
	Calculate(quantity float64, price float64) float64
}

type Broker string

const (
	BrokerRate              Broker = "rate"
	BrokerZero              Broker = "zero_commission"
	BrokerInteractiveBroker Broker = "interactive_broker"
)

var AllBrokers = []any{
	BrokerRate,
	BrokerZero,
	BrokerInteractiveBroker,
}

// GetCommissionFeeHandler returns the fee model for the broker. The rate
// broker charges rate*quantity*price; unknown brokers fall back to it.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerZero:
		return NewZeroCommissionFee()
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	default:
		return NewRateCommissionFee(rate)
	}
}
