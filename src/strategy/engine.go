package strategy

// Engine runs the straddle lifecycle: save the configuration, open an ACTIVE
// execution seeded with the current index price, populate the four short legs
// after a fixed delay, and stop by marking the execution STOPPED and closing
// its positions. Sub-steps of one action run in program order; unrelated
// actions (a price poll finishing mid-start) may interleave, which the market
// store tolerates.

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"algotrader/src/clock"
	"algotrader/src/model"
	"algotrader/src/risk"
	"algotrader/src/store"
)

const (
	populateDelay = 2 * time.Second
	legQuantity   = 10
	legsPerSide   = 2
)

var fallbackPrice = decimal.NewFromInt(65000)

type StrategyRepo interface {
	Create(ctx context.Context, strat *model.StraddleStrategy) error
}

type ExecutionRepo interface {
	Create(ctx context.Context, exec *model.StrategyExecution) error
	Update(ctx context.Context, exec *model.StrategyExecution) error
}

type PositionRepo interface {
	Create(ctx context.Context, position *model.Position) error
	CloseByExecution(ctx context.Context, executionID string) error
}

type Engine struct {
	log        *logrus.Entry
	strategies StrategyRepo
	executions ExecutionRepo
	positions  PositionRepo
	market     *store.MarketStore
	clk        clock.Clock

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewEngine(
	log *logrus.Entry,
	strategies StrategyRepo,
	executions ExecutionRepo,
	positions PositionRepo,
	market *store.MarketStore,
	clk clock.Clock,
) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if clk == nil {
		clk = clock.New()
	}

	return &Engine{
		log:        log,
		strategies: strategies,
		executions: executions,
		positions:  positions,
		market:     market,
		clk:        clk,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start validates and saves the configuration, then opens an execution. The
// position legs are populated asynchronously after a fixed delay.
func (e *Engine) Start(ctx context.Context, strat *model.StraddleStrategy) (*model.StrategyExecution, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}
	if err := Validate(*strat); err != nil {
		return nil, err
	}

	if session := risk.DetectSession(e.clk.Now()); session != risk.SessionRegular {
		e.log.WithField("session", session).Warn("starting strategy outside the regular session")
	}

	if err := e.strategies.Create(ctx, strat); err != nil {
		e.log.WithError(err).Error("failed to save strategy")
		return nil, fmt.Errorf("save strategy: %w", err)
	}

	price := e.currentPrice()

	exec := model.StrategyExecution{
		ID:              uuid.NewString(),
		StrategyID:      strat.ID,
		InitialPrice:    price,
		CurrentPrice:    price,
		CurrentPnL:      decimal.Zero,
		MaxLossPerTrade: strat.MaxLossPerTrade,
		Status:          model.ExecutionStatusActive,
		StartedAt:       e.clk.Now(),
	}

	if err := e.executions.Create(ctx, &exec); err != nil {
		e.log.WithError(err).Error("failed to create execution")
		return nil, fmt.Errorf("create execution: %w", err)
	}

	e.market.ReplaceExecutions(append(e.market.Executions(), exec))

	e.log.WithFields(logrus.Fields{
		"execution_id": exec.ID,
		"strategy_id":  strat.ID,
		"price":        price,
	}).Info("strategy execution started")

	// The delay channel is acquired here, not in the goroutine, so the wait
	// starts counting from the moment Start returns.
	delay := e.clk.After(populateDelay)
	go e.populatePositions(ctx, exec.ID, strat.StopLossPercentage, delay)

	return &exec, nil
}

// populatePositions opens the four short legs (two calls, two puts at the
// ATM strike) once the populate delay elapses. A cancelled context means the
// owning view was torn down; the late result is discarded, not applied.
func (e *Engine) populatePositions(ctx context.Context, executionID string, stopLossPct int, delay <-chan time.Time) {
	select {
	case <-ctx.Done():
		e.log.WithField("execution_id", executionID).Warn("position populate cancelled")
		return
	case <-delay:
	}

	price := e.currentPrice()
	strike := ATMStrike(price)
	distance := price.Sub(strike)

	var legs []model.Position
	for _, side := range []string{model.SideCall, model.SidePut} {
		for i := 0; i < legsPerSide; i++ {
			premium := e.estimatePremium(distance)
			legs = append(legs, model.Position{
				ExecutionID:  executionID,
				Instrument:   fmt.Sprintf("SENSEX %s %s", strike.StringFixed(0), optionSuffix(side)),
				Side:         side,
				Action:       model.ActionSell,
				Quantity:     legQuantity,
				EntryPrice:   premium,
				CurrentPrice: premium,
				Pnl:          decimal.Zero,
				StopLoss:     StopLossPremium(premium, stopLossPct),
				StopLossPct:  stopLossPct,
				Status:       model.PositionStatusOpen,
				OpenedAt:     e.clk.Now(),
			})
		}
	}

	for i := range legs {
		if err := e.positions.Create(ctx, &legs[i]); err != nil {
			e.log.WithError(err).Error("failed to persist position leg")
		}
	}

	if ctx.Err() != nil {
		return
	}

	e.market.ReplacePositions(append(e.market.Positions(), legs...))

	executions := e.market.Executions()
	for i := range executions {
		if executions[i].ID != executionID {
			continue
		}
		executions[i].PositionCount = len(legs)
		executions[i].CurrentPrice = price
		if err := e.executions.Update(ctx, &executions[i]); err != nil {
			e.log.WithError(err).Error("failed to update execution after populate")
		}
	}
	e.market.ReplaceExecutions(executions)

	e.log.WithFields(logrus.Fields{
		"execution_id": executionID,
		"legs":         len(legs),
		"strike":       strike,
	}).Info("straddle legs populated")
}

// Stop transitions the execution to STOPPED and removes its positions.
func (e *Engine) Stop(ctx context.Context, executionID string) error {
	executions := e.market.Executions()

	found := false
	for i := range executions {
		if executions[i].ID != executionID {
			continue
		}
		found = true
		if executions[i].Status == model.ExecutionStatusStopped {
			return nil
		}
		stoppedAt := e.clk.Now()
		executions[i].Status = model.ExecutionStatusStopped
		executions[i].StoppedAt = &stoppedAt

		if err := e.executions.Update(ctx, &executions[i]); err != nil {
			e.log.WithError(err).Error("failed to persist stopped execution")
			return fmt.Errorf("stop execution: %w", err)
		}
	}
	if !found {
		return fmt.Errorf("execution %s not found", executionID)
	}

	if err := e.positions.CloseByExecution(ctx, executionID); err != nil {
		e.log.WithError(err).Error("failed to close positions for execution")
	}

	var remaining []model.Position
	for _, p := range e.market.Positions() {
		if p.ExecutionID != executionID {
			remaining = append(remaining, p)
		}
	}

	e.market.ReplaceExecutions(executions)
	e.market.ReplacePositions(remaining)

	e.log.WithField("execution_id", executionID).Info("strategy execution stopped")
	return nil
}

func (e *Engine) currentPrice() decimal.Decimal {
	if snap, found := e.market.Snapshot(); found {
		return snap.Price
	}
	return fallbackPrice
}

func (e *Engine) estimatePremium(distance decimal.Decimal) decimal.Decimal {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return EstimatePremium(e.rng, distance)
}

func optionSuffix(side string) string {
	if side == model.SideCall {
		return "CE"
	}
	return "PE"
}
