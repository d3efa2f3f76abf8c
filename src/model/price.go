package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotSource marks where a price snapshot came from: the live backend or
// a synthesized fallback produced while the backend was unreachable.
type SnapshotSource string

const (
	SourceLive      SnapshotSource = "live"
	SourceSimulated SnapshotSource = "simulated"
)

// PriceSnapshot is a point-in-time read of the index price. Snapshots replace
// each other wholesale; they are never merged.
type PriceSnapshot struct {
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Volume        int64           `json:"volume"`
	Source        SnapshotSource  `json:"source"`
	ObservedAt    time.Time       `json:"observed_at"`
}

func (s PriceSnapshot) Live() bool {
	return s.Source == SourceLive
}
