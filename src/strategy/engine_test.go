package strategy

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algotrader/src/clock"
	"algotrader/src/model"
	"algotrader/src/store"
)

type stubRepos struct {
	mu sync.Mutex

	strategies []model.StraddleStrategy
	executions []model.StrategyExecution
	updates    int
	closed     []string
	created    int
}

func (s *stubRepos) Create(ctx context.Context, strat *model.StraddleStrategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	strat.ID = uint(len(s.strategies) + 1)
	s.strategies = append(s.strategies, *strat)
	return nil
}

type stubExecutionRepo struct{ parent *stubRepos }

func (s *stubExecutionRepo) Create(ctx context.Context, exec *model.StrategyExecution) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.executions = append(s.parent.executions, *exec)
	return nil
}

func (s *stubExecutionRepo) Update(ctx context.Context, exec *model.StrategyExecution) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.updates++
	return nil
}

type stubPositionRepo struct{ parent *stubRepos }

func (s *stubPositionRepo) Create(ctx context.Context, position *model.Position) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.created++
	return nil
}

func (s *stubPositionRepo) CloseByExecution(ctx context.Context, executionID string) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.closed = append(s.parent.closed, executionID)
	return nil
}

func validConfig() *model.StraddleStrategy {
	return &model.StraddleStrategy{
		UserID:             "user-1",
		TriggerPoints:      300,
		MaxLossPerTrade:    10000,
		ExecutionDay:       "Wednesday",
		ExecutionTime:      "09:30",
		StopLossPercentage: 200,
	}
}

func newTestEngine(t *testing.T) (*Engine, *stubRepos, *store.MarketStore, *clock.Fake) {
	t.Helper()

	log, _ := logrustest.NewNullLogger()
	repos := &stubRepos{}
	market := store.NewMarketStore()
	fake := clock.NewFake(time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC))

	engine := NewEngine(
		logrus.NewEntry(log),
		repos,
		&stubExecutionRepo{parent: repos},
		&stubPositionRepo{parent: repos},
		market,
		fake,
	)
	return engine, repos, market, fake
}

func TestStartCreatesActiveExecution(t *testing.T) {
	engine, repos, market, _ := newTestEngine(t)

	market.ApplyPriceSnapshot(model.PriceSnapshot{
		Price:      decimal.NewFromInt(65432),
		Source:     model.SourceLive,
		ObservedAt: time.Now(),
	})

	exec, err := engine.Start(context.Background(), validConfig())
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionStatusActive, exec.Status)
	assert.True(t, exec.InitialPrice.Equal(decimal.NewFromInt(65432)))
	assert.Equal(t, 1, market.ActiveExecutionsCount())
	assert.Len(t, repos.strategies, 1)
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	engine, repos, _, _ := newTestEngine(t)

	cfg := validConfig()
	cfg.TriggerPoints = 10

	_, err := engine.Start(context.Background(), cfg)
	require.Error(t, err)

	var valErr *model.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "trigger_points", valErr.Field)
	assert.Empty(t, repos.strategies, "invalid config must not be saved")
}

func TestPopulateOpensFourShortLegs(t *testing.T) {
	engine, repos, market, fake := newTestEngine(t)

	exec, err := engine.Start(context.Background(), validConfig())
	require.NoError(t, err)

	fake.Advance(populateDelay)

	require.Eventually(t, func() bool {
		return len(market.Positions()) == 4
	}, time.Second, 5*time.Millisecond)

	calls, puts := 0, 0
	for _, p := range market.Positions() {
		assert.Equal(t, model.ActionSell, p.Action)
		assert.Equal(t, exec.ID, p.ExecutionID)
		assert.True(t, p.EntryPrice.GreaterThanOrEqual(decimal.NewFromInt(50)))
		switch p.Side {
		case model.SideCall:
			calls++
		case model.SidePut:
			puts++
		}
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, puts)

	require.Eventually(t, func() bool {
		for _, e := range market.Executions() {
			if e.ID == exec.ID && e.PositionCount == 4 {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	repos.mu.Lock()
	defer repos.mu.Unlock()
	assert.Equal(t, 4, repos.created)
}

func TestPopulateCancelledOnTeardown(t *testing.T) {
	engine, repos, market, fake := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := engine.Start(ctx, validConfig())
	require.NoError(t, err)

	cancel()
	fake.Advance(populateDelay)

	// Late work after teardown must be discarded, not applied.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, market.Positions())

	repos.mu.Lock()
	defer repos.mu.Unlock()
	assert.Zero(t, repos.created)
}

func TestStopMarksStoppedAndRemovesPositions(t *testing.T) {
	engine, repos, market, fake := newTestEngine(t)

	exec, err := engine.Start(context.Background(), validConfig())
	require.NoError(t, err)

	fake.Advance(populateDelay)
	require.Eventually(t, func() bool {
		return len(market.Positions()) == 4
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, engine.Stop(context.Background(), exec.ID))

	assert.Equal(t, 0, market.ActiveExecutionsCount())
	assert.Empty(t, market.Positions())

	repos.mu.Lock()
	defer repos.mu.Unlock()
	assert.Contains(t, repos.closed, exec.ID)
}

func TestStopUnknownExecution(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	err := engine.Stop(context.Background(), "missing")
	assert.Error(t, err)
}
