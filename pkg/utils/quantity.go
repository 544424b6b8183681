package utils

import (
	"math"

	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/commission_fee"
)

// MaxAffordableQuantity returns the largest whole quantity whose notional
// plus commission fits in cash. The initial estimate floor(cash/price) is
// walked down until the all-in cost fits, which terminates quickly for every
// fee model whose fee grows with quantity.
func MaxAffordableQuantity(cash float64, price float64, fee commission_fee.CommissionFee) int64 {
	if price <= 0 || cash <= 0 {
		return 0
	}

	quantity := int64(math.Floor(cash / price))

	for quantity > 0 {
		cost := float64(quantity)*price + fee.Calculate(float64(quantity), price)
		if cost <= cash {
			break
		}

		// Jump straight to the quantity the remaining cash can cover.
		next := int64(math.Floor((cash - fee.Calculate(float64(quantity), price)) / price))
		if next >= quantity {
			next = quantity - 1
		}

		quantity = next
	}

	if quantity < 0 {
		return 0
	}

	return quantity
}

// FloorToLot rounds quantity down to a multiple of lotSize. A lot size below
// one is treated as one.
func FloorToLot(quantity int64, lotSize int64) int64 {
	if lotSize <= 1 {
		return quantity
	}

	return quantity - quantity%lotSize
}
