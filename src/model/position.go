package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SideCall = "CALL"
	SidePut  = "PUT"

	ActionBuy  = "BUY"
	ActionSell = "SELL"

	PositionStatusOpen   = "OPEN"
	PositionStatusClosed = "CLOSED"
)

// Position is a single option leg held by a strategy execution.
type Position struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ExecutionID  string          `gorm:"size:36;index" json:"execution_id"`
	Instrument   string          `json:"instrument"`
	Side         string          `gorm:"size:10" json:"side"`
	Action       string          `gorm:"size:10" json:"action"`
	Quantity     int             `json:"quantity"`
	EntryPrice   decimal.Decimal `gorm:"type:numeric" json:"entry_price"`
	CurrentPrice decimal.Decimal `gorm:"type:numeric" json:"current_price"`
	Pnl          decimal.Decimal `gorm:"type:numeric" json:"pnl"`
	StopLoss     decimal.Decimal `gorm:"type:numeric" json:"stop_loss"`
	StopLossPct  int             `json:"stop_loss_pct"`
	Status       string          `gorm:"size:10;not null;default:OPEN" json:"status"`
	OpenedAt     time.Time       `json:"opened_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ComputePnL returns the profit of the leg at its current price. Short legs
// profit when the premium falls, long legs when it rises.
func (p Position) ComputePnL() decimal.Decimal {
	diff := p.CurrentPrice.Sub(p.EntryPrice)
	if p.Action == ActionSell {
		diff = p.EntryPrice.Sub(p.CurrentPrice)
	}
	return diff.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
