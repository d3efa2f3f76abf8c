package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ExecutionStatusActive  = "ACTIVE"
	ExecutionStatusStopped = "STOPPED"
)

// StrategyExecution is one run of a straddle strategy. A running strategy
// instance owns exactly one ACTIVE execution at a time.
type StrategyExecution struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	StrategyID      uint            `gorm:"index" json:"strategy_id"`
	InitialPrice    decimal.Decimal `gorm:"type:numeric" json:"initial_price"`
	CurrentPrice    decimal.Decimal `gorm:"type:numeric" json:"current_price"`
	CurrentPnL      decimal.Decimal `gorm:"type:numeric" json:"current_pnl"`
	PositionCount   int             `json:"position_count"`
	MaxLossPerTrade int             `json:"max_loss_per_trade"`
	Status          string          `gorm:"size:10;not null;default:ACTIVE" json:"status"`
	StartedAt       time.Time       `json:"started_at"`
	StoppedAt       *time.Time      `json:"stopped_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (e StrategyExecution) Active() bool {
	return e.Status == ExecutionStatusActive
}

func (StrategyExecution) TableName() string {
	return "strategy_executions"
}
