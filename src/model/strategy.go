package model

import "time"

// StraddleStrategy is the stored configuration of a Sensex option straddle:
// a simultaneous call+put sell around the ATM strike, adjusted when the index
// moves by TriggerPoints.
type StraddleStrategy struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             string    `gorm:"size:36;index" json:"user_id"`
	TriggerPoints      int       `json:"trigger_points"`
	MaxLossPerTrade    int       `json:"max_loss_per_trade"`
	ExecutionDay       string    `gorm:"size:10" json:"execution_day"`
	ExecutionTime      string    `gorm:"size:5" json:"execution_time"`
	AutoStart          bool      `json:"auto_start"`
	StopLossPercentage int       `json:"stop_loss_percentage"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (StraddleStrategy) TableName() string {
	return "sensex_straddle_strategies"
}
