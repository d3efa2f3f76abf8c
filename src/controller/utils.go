package controller

import (
	"strings"

	logger "github.com/sirupsen/logrus"

	"algotrader/src/model"
)

// NormalizeTransactionType maps free-form input to BUY or SELL.
// Examples:
//
//	buy  -> BUY
//	Sell -> SELL
//	S    -> SELL
func NormalizeTransactionType(raw string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY", "B":
		return model.ActionBuy, true
	case "SELL", "S":
		return model.ActionSell, true
	}
	return "", false
}

// ClampQuantity caps an order quantity at max. Out-of-range values are
// adjusted and logged, not rejected.
func ClampQuantity(quantity, max int) int {
	if max <= 0 || quantity <= max {
		return quantity
	}
	logger.WithFields(map[string]interface{}{
		"original_qty": quantity,
		"adjusted_qty": max,
	}).Warn("order quantity above maximum, clamped")
	return max
}
