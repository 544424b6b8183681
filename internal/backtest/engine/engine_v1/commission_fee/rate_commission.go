package commission_fee

// RateCommissionFee charges a fixed fraction of the traded notional.
type RateCommissionFee struct {
	rate float64
}

// NewRateCommissionFee creates a commission model charging rate*quantity*price.
func NewRateCommissionFee(rate float64) CommissionFee {
	return &RateCommissionFee{rate: rate}
}

// Calculate implements CommissionFee.
func (c *RateCommissionFee) Calculate(quantity float64, price float64) float64 {
	return c.rate * quantity * price
}

// Rate returns the configured commission rate.
func (c *RateCommissionFee) Rate() float64 {
	return c.rate
}
