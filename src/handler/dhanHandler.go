package handler

// Proxy endpoints for the DhanHQ sandbox. The dashboard never talks to the
// broker directly; these handlers keep the sandbox token server-side and
// answer in the dashboard's own shapes.

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/connectors"
	"algotrader/src/model"
	"algotrader/src/repository"
)

type priceSource interface {
	SensexPrice(ctx context.Context) (decimal.Decimal, error)
}

type brokerPositionLister interface {
	Positions(ctx context.Context) ([]model.Position, error)
}

type openPositionLister interface {
	ListOpen(ctx context.Context) ([]model.Position, error)
}

type chainFetcher interface {
	OptionChain(ctx context.Context, underlying, expiry string) (*model.OptionChain, error)
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, order model.OrderRequest) (*model.OrderResult, error)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

// SensexPriceHandler returns the current index price with a timestamp. A
// broker outage surfaces as 502 so the dashboard can switch to its fallback.
func SensexPriceHandler(source priceSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err := source.SensexPrice(r.Context())
		if err != nil {
			logger.WithError(err).Error("sensex price fetch failed")
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}

		priceFloat, _ := price.Float64()
		writeJSON(w, http.StatusOK, map[string]any{
			"sensex":    priceFloat,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// DefaultSensexPriceHandler wires the handler to the sandbox client.
func DefaultSensexPriceHandler() http.HandlerFunc {
	return SensexPriceHandler(connectors.NewDhanClient())
}

// PositionsHandler lists open positions. Broker positions win; when the
// broker is unreachable the handler falls back to the positions this backend
// persisted itself.
func PositionsHandler(broker brokerPositionLister, repo openPositionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		positions, err := broker.Positions(r.Context())
		if err == nil {
			writeJSON(w, http.StatusOK, positions)
			return
		}
		logger.WithError(err).Warn("broker positions unavailable, serving persisted positions")

		positions, err = repo.ListOpen(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to list persisted positions")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if positions == nil {
			positions = []model.Position{}
		}
		writeJSON(w, http.StatusOK, positions)
	}
}

// DefaultPositionsHandler wires the handler to the sandbox client and the
// production repository.
func DefaultPositionsHandler() http.HandlerFunc {
	return PositionsHandler(connectors.NewDhanClient(), repository.NewPositionRepository())
}

// OptionChainHandler serves the option chain for an index and expiry.
func OptionChainHandler(broker chainFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index := r.URL.Query().Get("index")
		if index == "" {
			index = "SENSEX"
		}
		expiry := r.URL.Query().Get("expiry")

		chain, err := broker.OptionChain(r.Context(), index, expiry)
		if err != nil {
			logger.WithError(err).Error("option chain fetch failed")
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, chain)
	}
}

// DefaultOptionChainHandler wires the handler to the sandbox client.
func DefaultOptionChainHandler() http.HandlerFunc {
	return OptionChainHandler(connectors.NewDhanClient())
}

// PlaceOrderHandler forwards an order to the broker. Validation failures are
// the caller's fault (400); broker failures are upstream's (502).
func PlaceOrderHandler(broker orderPlacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var order model.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			http.Error(w, "invalid order payload", http.StatusBadRequest)
			return
		}
		if order.Instrument == "" {
			http.Error(w, "instrument is required", http.StatusBadRequest)
			return
		}
		if order.Quantity <= 0 {
			http.Error(w, "quantity must be positive", http.StatusBadRequest)
			return
		}

		result, err := broker.PlaceOrder(r.Context(), order)
		if err != nil {
			logger.WithError(err).Error("order placement failed")
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// DefaultPlaceOrderHandler wires the handler to the sandbox client.
func DefaultPlaceOrderHandler() http.HandlerFunc {
	return PlaceOrderHandler(connectors.NewDhanClient())
}
