package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"algotrader/src/model"
)

type mockPriceSource struct {
	price decimal.Decimal
	err   error
}

func (m *mockPriceSource) SensexPrice(ctx context.Context) (decimal.Decimal, error) {
	return m.price, m.err
}

func TestSensexPriceHandler_Success(t *testing.T) {
	handler := SensexPriceHandler(&mockPriceSource{price: decimal.NewFromFloat(65210.45)})

	req := httptest.NewRequest(http.MethodGet, "/api/dhanhq/sensex-price", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body struct {
		Sensex    float64 `json:"sensex"`
		Timestamp string  `json:"timestamp"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Sensex != 65210.45 {
		t.Fatalf("expected sensex 65210.45, got %f", body.Sensex)
	}
	if body.Timestamp == "" {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestSensexPriceHandler_UpstreamError(t *testing.T) {
	handler := SensexPriceHandler(&mockPriceSource{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/api/dhanhq/sensex-price", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rr.Code)
	}
}

type mockBrokerPositions struct {
	positions []model.Position
	err       error
}

func (m *mockBrokerPositions) Positions(ctx context.Context) ([]model.Position, error) {
	return m.positions, m.err
}

type mockOpenPositions struct {
	positions   []model.Position
	err         error
	calledCount int
}

func (m *mockOpenPositions) ListOpen(ctx context.Context) ([]model.Position, error) {
	m.calledCount++
	return m.positions, m.err
}

func TestPositionsHandler_BrokerWins(t *testing.T) {
	broker := &mockBrokerPositions{positions: []model.Position{{Instrument: "SENSEX 65000 CE"}}}
	repo := &mockOpenPositions{}
	handler := PositionsHandler(broker, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/dhanhq/positions", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if repo.calledCount != 0 {
		t.Fatalf("repository must not be consulted when the broker answers")
	}
}

func TestPositionsHandler_FallsBackToRepository(t *testing.T) {
	broker := &mockBrokerPositions{err: assert.AnError}
	repo := &mockOpenPositions{positions: []model.Position{{Instrument: "SENSEX 64000 PE"}}}
	handler := PositionsHandler(broker, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/dhanhq/positions", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if repo.calledCount != 1 {
		t.Fatalf("expected repository fallback, called %d times", repo.calledCount)
	}

	var positions []model.Position
	if err := json.Unmarshal(rr.Body.Bytes(), &positions); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(positions) != 1 || positions[0].Instrument != "SENSEX 64000 PE" {
		t.Fatalf("unexpected positions payload: %+v", positions)
	}
}

func TestPositionsHandler_BothSidesFail(t *testing.T) {
	handler := PositionsHandler(&mockBrokerPositions{err: assert.AnError}, &mockOpenPositions{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/api/dhanhq/positions", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

type mockChainFetcher struct {
	chain      *model.OptionChain
	err        error
	underlying string
	expiry     string
}

func (m *mockChainFetcher) OptionChain(ctx context.Context, underlying, expiry string) (*model.OptionChain, error) {
	m.underlying = underlying
	m.expiry = expiry
	return m.chain, m.err
}

func TestOptionChainHandler_DefaultsIndex(t *testing.T) {
	fetcher := &mockChainFetcher{chain: &model.OptionChain{Index: "SENSEX"}}
	handler := OptionChainHandler(fetcher)

	req := httptest.NewRequest(http.MethodGet, "/api/dhanhq/option-chain?expiry=2026-09-04", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if fetcher.underlying != "SENSEX" {
		t.Fatalf("expected default index SENSEX, got %s", fetcher.underlying)
	}
	if fetcher.expiry != "2026-09-04" {
		t.Fatalf("expected expiry passthrough, got %s", fetcher.expiry)
	}
}

func TestOptionChainHandler_UpstreamError(t *testing.T) {
	handler := OptionChainHandler(&mockChainFetcher{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/api/dhanhq/option-chain", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rr.Code)
	}
}

type mockOrderPlacer struct {
	result      *model.OrderResult
	err         error
	calledCount int
}

func (m *mockOrderPlacer) PlaceOrder(ctx context.Context, order model.OrderRequest) (*model.OrderResult, error) {
	m.calledCount++
	return m.result, m.err
}

func TestPlaceOrderHandler_Success(t *testing.T) {
	placer := &mockOrderPlacer{result: &model.OrderResult{OrderID: "ord-1", Status: "PLACED"}}
	handler := PlaceOrderHandler(placer)

	body := `{"instrument": "SENSEX 65000 CE", "transaction_type": "SELL", "order_type": "MARKET", "quantity": 10}`
	req := httptest.NewRequest(http.MethodPost, "/api/dhanhq/place-order", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if placer.calledCount != 1 {
		t.Fatalf("expected broker to be called once, got %d", placer.calledCount)
	}
}

func TestPlaceOrderHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `garbage`},
		{name: "missing instrument", body: `{"quantity": 10}`},
		{name: "zero quantity", body: `{"instrument": "SENSEX 65000 CE", "quantity": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placer := &mockOrderPlacer{}
			handler := PlaceOrderHandler(placer)

			req := httptest.NewRequest(http.MethodPost, "/api/dhanhq/place-order", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rr.Code)
			}
			if placer.calledCount != 0 {
				t.Fatalf("invalid orders must not reach the broker")
			}
		})
	}
}

func TestPlaceOrderHandler_UpstreamError(t *testing.T) {
	handler := PlaceOrderHandler(&mockOrderPlacer{err: assert.AnError})

	body := `{"instrument": "SENSEX 65000 CE", "quantity": 10}`
	req := httptest.NewRequest(http.MethodPost, "/api/dhanhq/place-order", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rr.Code)
	}
}
