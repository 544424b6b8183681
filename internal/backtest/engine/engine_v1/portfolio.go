package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/utils"
)

// Portfolio is the mutable state of one run: cash, position size and
// volume-weighted average cost. It is owned by a single run and never shared.
//
// Funding and position shortfalls are normal zero-fill outcomes, not errors:
// a BUY is clipped to the affordable quantity and a SELL to the held
// position, and a zero fill emits no trade.
type Portfolio struct {
	symbol   string
	cash     decimal.Decimal
	position int64
	avgCost  decimal.Decimal
	fee      commission_fee.CommissionFee
	lotSize  int64
	sizing   Sizing
}

// NewPortfolio creates a portfolio holding initialCapital in cash and no
// position.
func NewPortfolio(symbol string, initialCapital float64, fee commission_fee.CommissionFee, lotSize int64, sizing Sizing) *Portfolio {
	if lotSize < 1 {
		lotSize = 1
	}

	return &Portfolio{
		symbol:  symbol,
		cash:    decimal.NewFromFloat(initialCapital),
		fee:     fee,
		lotSize: lotSize,
		sizing:  sizing,
	}
}

// Buy fills up to quantity at price, clipped to what the sizing-restricted
// cash affords and floored to a lot multiple. Returns None on a zero fill.
func (p *Portfolio) Buy(timestamp time.Time, price float64, quantity int64) optional.Option[types.Trade] {
	if price <= 0 || quantity <= 0 {
		return optional.None[types.Trade]()
	}

	available, _ := p.cash.Mul(decimal.NewFromFloat(p.sizing.Fraction())).Float64()

	filled := utils.MaxAffordableQuantity(available, price, p.fee)
	if quantity < filled {
		filled = quantity
	}

	filled = utils.FloorToLot(filled, p.lotSize)
	if filled <= 0 {
		return optional.None[types.Trade]()
	}

	priceDec := decimal.NewFromFloat(price)
	filledDec := decimal.NewFromInt(filled)
	commission := decimal.NewFromFloat(p.fee.Calculate(float64(filled), price))
	notional := priceDec.Mul(filledDec)

	p.cash = p.cash.Sub(notional).Sub(commission)

	// New volume-weighted cost basis.
	held := decimal.NewFromInt(p.position)
	totalCost := p.avgCost.Mul(held).Add(notional)
	p.position += filled
	p.avgCost = totalCost.Div(decimal.NewFromInt(p.position))

	amount, _ := notional.Float64()
	commissionF, _ := commission.Float64()

	return optional.Some(types.Trade{
		ID:          uuid.New().String(),
		Timestamp:   timestamp,
		Symbol:      p.symbol,
		Action:      types.TradeActionBuy,
		Price:       price,
		Quantity:    filled,
		Amount:      amount,
		Commission:  commissionF,
		RealizedPnL: optional.None[float64](),
	})
}

// Sell fills up to quantity at price, clipped to the held position. Returns
// None on a zero fill. Selling never changes the cost basis; when the
// position reaches zero the basis resets to zero.
func (p *Portfolio) Sell(timestamp time.Time, price float64, quantity int64) optional.Option[types.Trade] {
	if price <= 0 || quantity <= 0 {
		return optional.None[types.Trade]()
	}

	filled := quantity
	if p.position < filled {
		filled = p.position
	}

	if filled <= 0 {
		return optional.None[types.Trade]()
	}

	priceDec := decimal.NewFromFloat(price)
	filledDec := decimal.NewFromInt(filled)
	commission := decimal.NewFromFloat(p.fee.Calculate(float64(filled), price))
	notional := priceDec.Mul(filledDec)

	realized := priceDec.Sub(p.avgCost).Mul(filledDec).Sub(commission)

	p.cash = p.cash.Add(notional).Sub(commission)
	p.position -= filled

	if p.position == 0 {
		p.avgCost = decimal.Zero
	}

	amount, _ := notional.Float64()
	commissionF, _ := commission.Float64()
	realizedF, _ := realized.Float64()

	return optional.Some(types.Trade{
		ID:          uuid.New().String(),
		Timestamp:   timestamp,
		Symbol:      p.symbol,
		Action:      types.TradeActionSell,
		Price:       price,
		Quantity:    filled,
		Amount:      amount,
		Commission:  commissionF,
		RealizedPnL: optional.Some(realizedF),
	})
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() float64 {
	v, _ := p.cash.Float64()

	return v
}

// Position returns the currently held quantity.
func (p *Portfolio) Position() int64 {
	return p.position
}

// AvgCost returns the volume-weighted average purchase price of the held
// position, zero when flat.
func (p *Portfolio) AvgCost() float64 {
	v, _ := p.avgCost.Float64()

	return v
}

// Equity returns cash plus the position valued at the given close.
func (p *Portfolio) Equity(close float64) float64 {
	v, _ := p.cash.Add(decimal.NewFromInt(p.position).Mul(decimal.NewFromFloat(close))).Float64()

	return v
}

// UnrealizedLoss returns how far the position is under water against its
// cost basis at the given close. Zero when flat or in profit.
func (p *Portfolio) UnrealizedLoss(close float64) float64 {
	if p.position == 0 {
		return 0
	}

	loss := p.avgCost.Sub(decimal.NewFromFloat(close)).Mul(decimal.NewFromInt(p.position))
	if loss.IsNegative() {
		return 0
	}

	v, _ := loss.Float64()

	return v
}

// UnrealizedLossFraction returns the unrealized loss as a fraction of the
// position's cost basis. Zero when flat, in profit, or with a zero basis.
func (p *Portfolio) UnrealizedLossFraction(close float64) float64 {
	if p.position == 0 || p.avgCost.IsZero() {
		return 0
	}

	basis := p.avgCost.Mul(decimal.NewFromInt(p.position))
	loss := p.UnrealizedLoss(close)
	basisF, _ := basis.Float64()

	if basisF <= 0 {
		return 0
	}

	return loss / basisF
}
