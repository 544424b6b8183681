package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/testback-lab/testback/pkg/errors"
)

// TradeAction is the side of an executed trade.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// PriceType selects how an action resolves its execution price.
type PriceType string

const (
	PriceTypeMarket PriceType = "market"
	PriceTypeLimit  PriceType = "limit"
)

// Trade is an immutable record of one fill. Trades are appended to the run's
// trade list and never mutated afterwards.
type Trade struct {
	ID        string      `yaml:"id" json:"id" csv:"id" validate:"required,uuid"`
	Timestamp time.Time   `yaml:"timestamp" json:"timestamp" csv:"timestamp" validate:"required"`
	Symbol    string      `yaml:"symbol" json:"symbol" csv:"symbol" validate:"required"`
	Action    TradeAction `yaml:"action" json:"action" csv:"action" validate:"required,oneof=BUY SELL"`
	Price     float64     `yaml:"price" json:"price" csv:"price" validate:"required,gt=0"`
	Quantity  int64       `yaml:"quantity" json:"quantity" csv:"quantity" validate:"required,gt=0"`
	// Amount is price*quantity before commission.
	Amount     float64 `yaml:"amount" json:"amount" csv:"amount" validate:"gte=0"`
	Commission float64 `yaml:"commission" json:"commission" csv:"commission" validate:"gte=0"`
	// RealizedPnL is set for SELL trades only: (price - avgCost)*quantity - commission.
	RealizedPnL optional.Option[float64] `yaml:"realized_pnl" json:"pnl" csv:"realized_pnl"`
}

// Validate validates the Trade struct.
func (t *Trade) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeOrderFailed, "invalid trade", err)
	}

	return nil
}

// IsWinning reports whether this is a SELL trade with positive realized PnL.
func (t *Trade) IsWinning() bool {
	if t.Action != TradeActionSell || t.RealizedPnL.IsNone() {
		return false
	}

	return t.RealizedPnL.Unwrap() > 0
}

// IsLosing reports whether this is a SELL trade with negative realized PnL.
func (t *Trade) IsLosing() bool {
	if t.Action != TradeActionSell || t.RealizedPnL.IsNone() {
		return false
	}

	return t.RealizedPnL.Unwrap() < 0
}

// EquityPoint is one sample of the equity curve, taken at a bar's close.
type EquityPoint struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Cash      float64   `yaml:"cash" json:"cash" csv:"cash"`
	// PositionValue is position*close at the sample bar.
	PositionValue float64 `yaml:"position_value" json:"position_value" csv:"position_value"`
	// TotalAssets is cash + position value.
	TotalAssets float64 `yaml:"total_assets" json:"equity" csv:"total_assets"`
	// PeriodReturn is the fractional change of TotalAssets since the previous point.
	PeriodReturn float64 `yaml:"period_return" json:"returns" csv:"period_return"`
}
