package controller

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"algotrader/src/model"
	"algotrader/src/store"
)

type orderGateway interface {
	PlaceOrder(ctx context.Context, order model.OrderRequest) (*model.OrderResult, error)
}

// OrderController executes the manual order flow: validate the request, hand
// it to the gateway, and record the acknowledgement in the market store so
// the dashboard's order history picks it up.
type OrderController struct {
	gateway orderGateway
	market  *store.MarketStore
	maxQty  int
}

func NewOrderController(gateway orderGateway, market *store.MarketStore) *OrderController {
	return &OrderController{
		gateway: gateway,
		market:  market,
		maxQty:  GetConfig().MaxOrderQuantity,
	}
}

// PlaceOrder validates and forwards a single order. A gateway failure is
// returned to the caller untouched so the UI can show it; nothing is recorded
// for failed placements.
func (c *OrderController) PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.OrderResult, error) {
	if strings.TrimSpace(req.Instrument) == "" {
		return nil, fmt.Errorf("order instrument is required")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("order quantity must be positive, got %d", req.Quantity)
	}

	txType, ok := NormalizeTransactionType(req.TransactionType)
	if !ok {
		return nil, fmt.Errorf("unknown transaction type %q", req.TransactionType)
	}
	req.TransactionType = txType
	req.Quantity = ClampQuantity(req.Quantity, c.maxQty)
	if req.OrderType == "" {
		req.OrderType = model.OrderTypeMarket
	}

	logger.WithFields(map[string]interface{}{
		"instrument":       req.Instrument,
		"transaction_type": req.TransactionType,
		"quantity":         req.Quantity,
	}).Info("placing order")

	result, err := c.gateway.PlaceOrder(ctx, req)
	if err != nil {
		logger.WithError(err).WithField("instrument", req.Instrument).
			Error("order placement failed")
		return nil, err
	}

	c.market.ReplaceOrders(append(c.market.Orders(), *result))

	logger.WithFields(map[string]interface{}{
		"order_id": result.OrderID,
		"status":   result.Status,
	}).Info("order acknowledged")

	return result, nil
}
