package connectors

// REST client for the DhanHQ sandbox API. The backend proxies the dashboard's
// market-data and order traffic through this client so the sandbox token
// stays server-side. Raw payload shapes live in src/externalmodel; mapping
// into the dashboard's own shapes lives in src/mapper.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/externalmodel"
	"algotrader/src/mapper"
	"algotrader/src/model"
)

const (
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 4 * time.Second

	sensexSecurityID = "51"
	idxSegment       = "IDX_I"
)

type DhanClient struct {
	http *resty.Client
}

func NewDhanClient() *DhanClient {
	return newDhanClient(GetConfig())
}

func newDhanClient(config Config) *DhanClient {
	baseURL := strings.TrimRight(config.DhanBaseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableDhanResp).
		SetHeader("access-token", config.DhanToken)

	return &DhanClient{http: httpClient}
}

// Orders must never be replayed. Only idempotent reads retry.
func isRetryableDhanResp(resp *resty.Response, err error) bool {
	if resp != nil && resp.Request != nil && resp.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == 429 || code >= 500
}

// SensexPrice fetches the SENSEX last traded price. The sandbox has shipped
// several response shapes over time, so extraction is deliberately tolerant.
func (c *DhanClient) SensexPrice(ctx context.Context) (decimal.Decimal, error) {
	body := map[string]any{
		idxSegment: []string{sensexSecurityID},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/v2/marketfeed/ltp")

	if err != nil {
		return decimal.Zero, fmt.Errorf("dhan ltp request failed: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("dhan ltp HTTP %d: %s", resp.StatusCode(), resp.Body())
	}

	price, ok := extractPrice(resp.Body())
	if !ok {
		logger.WithFields(map[string]interface{}{"raw": string(resp.Body())}).
			Warn("could not find a price field in dhan ltp response")
		return decimal.Zero, fmt.Errorf("dhan ltp response carried no recognizable price")
	}
	return price, nil
}

var priceKeys = []string{"lastTradedPrice", "last_price", "ltp", "price"}

// extractPrice walks a decoded ltp payload looking for a price under any of
// the known key spellings, descending into "data" wrappers and entries keyed
// by security id.
func extractPrice(raw []byte) (decimal.Decimal, bool) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return decimal.Zero, false
	}
	return walkForPrice(decoded, 0)
}

func walkForPrice(node any, depth int) (decimal.Decimal, bool) {
	if depth > 4 {
		return decimal.Zero, false
	}

	switch v := node.(type) {
	case float64:
		if v > 0 {
			return decimal.NewFromFloat(v), true
		}
	case string:
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			return d, true
		}
	case map[string]any:
		for _, key := range priceKeys {
			if inner, ok := v[key]; ok {
				if price, found := walkForPrice(inner, depth+1); found {
					return price, true
				}
			}
		}
		if inner, ok := v["data"]; ok {
			if price, found := walkForPrice(inner, depth+1); found {
				return price, true
			}
		}
		for _, inner := range v {
			if _, isMap := inner.(map[string]any); isMap {
				if price, found := walkForPrice(inner, depth+1); found {
					return price, true
				}
			}
		}
	case []any:
		for _, inner := range v {
			if price, found := walkForPrice(inner, depth+1); found {
				return price, true
			}
		}
	}
	return decimal.Zero, false
}

// Positions lists the broker's open positions mapped into dashboard shape.
func (c *DhanClient) Positions(ctx context.Context) ([]model.Position, error) {
	var out []externalmodel.DhanPosition

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v2/positions")

	if err != nil {
		return nil, fmt.Errorf("dhan positions request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dhan positions HTTP %d: %s", resp.StatusCode(), resp.Body())
	}

	return mapper.MapDhanPositions(out), nil
}

// OptionChain loads the option chain for the given underlying and expiry,
// sorted by strike.
func (c *DhanClient) OptionChain(ctx context.Context, underlying, expiry string) (*model.OptionChain, error) {
	body := map[string]any{
		"UnderlyingScrip": underlying,
		"UnderlyingSeg":   idxSegment,
		"Expiry":          expiry,
	}

	var out externalmodel.DhanChainResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/v2/optionchain")

	if err != nil {
		return nil, fmt.Errorf("dhan option chain request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dhan option chain HTTP %d: %s", resp.StatusCode(), resp.Body())
	}

	return mapper.MapDhanOptionChain(out, underlying, expiry), nil
}

// PlaceOrder forwards an order to the sandbox. Never retried.
func (c *DhanClient) PlaceOrder(ctx context.Context, order model.OrderRequest) (*model.OrderResult, error) {
	logger.WithFields(map[string]interface{}{
		"instrument":       order.Instrument,
		"transaction_type": order.TransactionType,
		"quantity":         order.Quantity,
	}).Info("forwarding order to dhan sandbox")

	var out externalmodel.DhanOrderAck
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(order).
		SetResult(&out).
		Post("/v2/orders")

	if err != nil {
		return nil, fmt.Errorf("dhan order request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dhan order HTTP %d: %s", resp.StatusCode(), resp.Body())
	}

	return mapper.MapDhanOrderAck(out, time.Now()), nil
}
