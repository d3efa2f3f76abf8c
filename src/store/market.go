package store

// MarketStore owns the dashboard's market slice: the latest price snapshot,
// the connection flag, and the positions/orders/executions collections.
// Collections are replaced wholesale (copy-on-write) so readers never observe
// a torn update; derived aggregates are computed on read.

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/model"
)

type MarketStore struct {
	mu sync.RWMutex

	snapshot   *model.PriceSnapshot
	positions  []model.Position
	orders     []model.OrderResult
	executions []model.StrategyExecution

	connected  bool
	lastUpdate time.Time
}

func NewMarketStore() *MarketStore {
	return &MarketStore{}
}

// ApplyPriceSnapshot replaces the current snapshot. A snapshot observed
// before the one already held is dropped, keeping ObservedAt non-decreasing
// across writes. The connection flag follows the snapshot's provenance.
// Returns false when the write was dropped.
func (s *MarketStore) ApplyPriceSnapshot(snap model.PriceSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && snap.ObservedAt.Before(s.snapshot.ObservedAt) {
		logger.WithFields(map[string]interface{}{
			"observed_at": snap.ObservedAt,
			"current":     s.snapshot.ObservedAt,
		}).Warn("dropping out-of-order price snapshot")
		return false
	}

	copied := snap
	s.snapshot = &copied
	s.connected = snap.Live()
	s.lastUpdate = snap.ObservedAt
	return true
}

// Snapshot returns the current price snapshot, if one has been applied.
func (s *MarketStore) Snapshot() (model.PriceSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return model.PriceSnapshot{}, false
	}
	return *s.snapshot, true
}

func (s *MarketStore) ReplacePositions(positions []model.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append([]model.Position(nil), positions...)
}

func (s *MarketStore) Positions() []model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Position(nil), s.positions...)
}

func (s *MarketStore) ReplaceOrders(orders []model.OrderResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]model.OrderResult(nil), orders...)
}

func (s *MarketStore) Orders() []model.OrderResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.OrderResult(nil), s.orders...)
}

func (s *MarketStore) ReplaceExecutions(executions []model.StrategyExecution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions = append([]model.StrategyExecution(nil), executions...)
}

func (s *MarketStore) Executions() []model.StrategyExecution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.StrategyExecution(nil), s.executions...)
}

// TotalPnL folds the pnl of every held position. Empty set sums to zero.
func (s *MarketStore) TotalPnL() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, p := range s.positions {
		total = total.Add(p.Pnl)
	}
	return total
}

// ActiveExecutionsCount counts executions currently in ACTIVE status.
func (s *MarketStore) ActiveExecutionsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.executions {
		if e.Active() {
			count++
		}
	}
	return count
}

// SetConnectionStatus sets the presentation flag only. It is not a guarantee
// about the next fetch.
func (s *MarketStore) SetConnectionStatus(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

func (s *MarketStore) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *MarketStore) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}
