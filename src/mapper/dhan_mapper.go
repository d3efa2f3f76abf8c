package mapper

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/externalmodel"
	"algotrader/src/model"
)

// MapDhanPositions converts broker position rows into dashboard positions.
// Closed rows are dropped.
func MapDhanPositions(rows []externalmodel.DhanPosition) []model.Position {
	positions := make([]model.Position, 0, len(rows))

	for _, p := range rows {
		if strings.EqualFold(p.PositionType, "CLOSED") {
			continue
		}

		action := model.ActionBuy
		entry := p.BuyAvg
		if strings.EqualFold(p.PositionType, "SHORT") {
			action = model.ActionSell
			entry = p.SellAvg
		}

		qty := p.NetQty
		if qty < 0 {
			qty = -qty
		}

		positions = append(positions, model.Position{
			Instrument:   p.TradingSymbol,
			Side:         sideFromSymbol(p.TradingSymbol),
			Action:       action,
			Quantity:     qty,
			EntryPrice:   entry,
			CurrentPrice: p.CostPrice,
			Pnl:          p.UnrealizedProfit,
			Status:       model.PositionStatusOpen,
		})
	}
	return positions
}

func sideFromSymbol(symbol string) string {
	if strings.HasSuffix(strings.ToUpper(strings.TrimSpace(symbol)), "PE") {
		return model.SidePut
	}
	return model.SideCall
}

// MapDhanOptionChain converts a raw chain response into the dashboard's
// chain, sorted by strike. Unparseable strike keys are skipped.
func MapDhanOptionChain(resp externalmodel.DhanChainResponse, underlying, expiry string) *model.OptionChain {
	chain := &model.OptionChain{
		Index:  underlying,
		Expiry: expiry,
		Calls:  []model.OptionQuote{},
		Puts:   []model.OptionQuote{},
	}

	for strikeKey, row := range resp.Data.OC {
		strike, err := decimal.NewFromString(strikeKey)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"mapper": "MapDhanOptionChain",
				"strike": strikeKey,
			}).Warn("skipping unparseable strike in dhan option chain")
			continue
		}
		if row.CE != nil {
			chain.Calls = append(chain.Calls, model.OptionQuote{
				StrikePrice:  strike,
				LastPrice:    row.CE.LastPrice,
				OpenInterest: row.CE.OpenInterest,
			})
		}
		if row.PE != nil {
			chain.Puts = append(chain.Puts, model.OptionQuote{
				StrikePrice:  strike,
				LastPrice:    row.PE.LastPrice,
				OpenInterest: row.PE.OpenInterest,
			})
		}
	}

	sort.Slice(chain.Calls, func(i, j int) bool {
		return chain.Calls[i].StrikePrice.LessThan(chain.Calls[j].StrikePrice)
	})
	sort.Slice(chain.Puts, func(i, j int) bool {
		return chain.Puts[i].StrikePrice.LessThan(chain.Puts[j].StrikePrice)
	})

	return chain
}

// MapDhanOrderAck converts a broker order acknowledgement into an order
// result, filling the gaps the sandbox sometimes leaves.
func MapDhanOrderAck(ack externalmodel.DhanOrderAck, placedAt time.Time) *model.OrderResult {
	orderID := ack.OrderID
	if orderID == "" {
		orderID = ack.OrderIDSnake
	}
	if orderID == "" {
		orderID = uuid.NewString()
	}

	status := ack.OrderStatus
	if status == "" {
		status = "PLACED"
	}

	return &model.OrderResult{
		OrderID:  orderID,
		Status:   status,
		PlacedAt: placedAt,
	}
}
