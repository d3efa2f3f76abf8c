package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"
)

// OrderRequest is the payload the dashboard sends when placing an order
// through the backend proxy.
type OrderRequest struct {
	RequestID       string          `json:"request_id"`
	Instrument      string          `json:"instrument"`
	TransactionType string          `json:"transaction_type"`
	OrderType       string          `json:"order_type"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
}

// OrderResult is the broker acknowledgement returned by the proxy.
type OrderResult struct {
	OrderID  string    `json:"order_id"`
	Status   string    `json:"status"`
	Message  string    `json:"message,omitempty"`
	PlacedAt time.Time `json:"placed_at"`
}
