package poller

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/clock"
	"algotrader/src/model"
	"algotrader/src/risk"
	"algotrader/src/store"
	"algotrader/src/tp_sl"
)

// Premiums drift up to ±0.5% per tick.
const simulationDriftBps = 50

// RunSimulationLoop random-walks the premium of every open position on each
// tick, recomputes leg and execution P&L from the walked prices, trails the
// stop of each short leg and closes legs whose stop gets hit.
func RunSimulationLoop(ctx context.Context, clk clock.Clock, market *store.MarketStore) error {
	config := GetConfig()

	ticker := clk.NewTicker(config.SimulationPeriod)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("position simulation loop stopped")
			return nil

		case <-ticker.C():
			simulateTick(rng, market)
		}
	}
}

func simulateTick(rng *rand.Rand, market *store.MarketStore) {
	positions := market.Positions()
	if len(positions) == 0 {
		return
	}

	pnlByExecution := make(map[string]decimal.Decimal)

	for i := range positions {
		if positions[i].Status != model.PositionStatusOpen {
			continue
		}

		driftBps := int64(rng.Intn(2*simulationDriftBps+1) - simulationDriftBps)
		drift := decimal.NewFromInt(driftBps).Div(decimal.NewFromInt(10000))

		positions[i].CurrentPrice = positions[i].CurrentPrice.
			Mul(decimal.NewFromInt(1).Add(drift)).
			Round(2)
		positions[i].Pnl = positions[i].ComputePnL()

		if positions[i].Action == model.ActionSell {
			if newSL, moved := tp_sl.NextShortStop(positions[i].StopLoss, positions[i].CurrentPrice, positions[i].StopLossPct); moved {
				positions[i].StopLoss = newSL
			}
			if tp_sl.Triggered(positions[i].CurrentPrice, positions[i].StopLoss) {
				logger.WithFields(map[string]interface{}{
					"instrument": positions[i].Instrument,
					"premium":    positions[i].CurrentPrice,
					"stop_loss":  positions[i].StopLoss,
				}).Warn("stop loss hit, closing leg")
				positions[i].Status = model.PositionStatusClosed
			}
		}

		pnlByExecution[positions[i].ExecutionID] = pnlByExecution[positions[i].ExecutionID].
			Add(positions[i].Pnl)
	}

	market.ReplacePositions(positions)

	executions := market.Executions()
	changed := false
	for i := range executions {
		if !executions[i].Active() {
			continue
		}
		if pnl, ok := pnlByExecution[executions[i].ID]; ok {
			executions[i].CurrentPnL = pnl
			changed = true

			if risk.ExceedsMaxLoss(pnl, executions[i].MaxLossPerTrade) {
				logger.WithFields(map[string]interface{}{
					"execution_id": executions[i].ID,
					"pnl":          pnl,
					"max_loss":     executions[i].MaxLossPerTrade,
				}).Warn("execution past its per-trade loss cap")
			}
		}
	}
	if changed {
		market.ReplaceExecutions(executions)
	}
}
