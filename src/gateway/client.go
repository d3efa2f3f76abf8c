package gateway

// Dashboard-side client for the backend proxy. Read paths never fail: price
// falls back to a simulated snapshot and positions degrade to an empty list,
// so the dashboard always has something to render. Order placement is the one
// call that propagates failure.

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/model"
)

const (
	defaultTimeout    = 10 * time.Second
	retryAttempts     = 3
	retryBaseDelay    = 500 * time.Millisecond
	retryMaxBackoff   = 4 * time.Second
	simulatedMaxStep  = 150
	simulatedMaxDrift = 1000
)

type Client struct {
	http *resty.Client

	simMu     sync.Mutex
	rng       *rand.Rand
	refPrice  decimal.Decimal
	lastPrice decimal.Decimal
}

func NewClient(baseURL string) *Client {
	config := GetConfig()

	if strings.TrimSpace(baseURL) == "" {
		baseURL = config.BaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(retryAttempts - 1).
		SetRetryWaitTime(retryBaseDelay).
		SetRetryMaxWaitTime(retryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	ref := decimal.NewFromInt(config.ReferencePrice)

	return &Client{
		http:      httpClient,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		refPrice:  ref,
		lastPrice: ref,
	}
}

// Retries are limited to GETs. Replaying an order placement could fill twice.
func isRetryableResp(resp *resty.Response, err error) bool {
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

type priceResponse struct {
	Sensex    float64 `json:"sensex"`
	Timestamp string  `json:"timestamp"`
}

// FetchPrice returns the latest index price. On any transport or upstream
// failure it returns a simulated snapshot instead of an error; the Source tag
// tells consumers which one they got.
func (c *Client) FetchPrice(ctx context.Context) model.PriceSnapshot {
	var out priceResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/dhanhq/sensex-price")

	if err != nil {
		logger.WithError(err).Warn("sensex price fetch failed, serving simulated snapshot")
		return c.simulatedSnapshot()
	}
	if resp.IsError() {
		logger.WithField("status", resp.StatusCode()).
			Warn("sensex price fetch non-2xx, serving simulated snapshot")
		return c.simulatedSnapshot()
	}

	observedAt := time.Now()
	if parsed, perr := time.Parse(time.RFC3339, out.Timestamp); perr == nil {
		observedAt = parsed
	}

	price := decimal.NewFromFloat(out.Sensex)
	spread := decimal.NewFromInt(200)

	return model.PriceSnapshot{
		Price:      price,
		Open:       price,
		High:       price.Add(spread),
		Low:        price.Sub(spread),
		Volume:     1000000,
		Source:     model.SourceLive,
		ObservedAt: observedAt,
	}
}

// simulatedSnapshot produces a bounded random walk around the reference
// price. Change and change percent always carry the same sign.
func (c *Client) simulatedSnapshot() model.PriceSnapshot {
	c.simMu.Lock()
	defer c.simMu.Unlock()

	step := decimal.NewFromInt(int64(c.rng.Intn(2*simulatedMaxStep+1) - simulatedMaxStep))
	next := c.lastPrice.Add(step)

	floor := c.refPrice.Sub(decimal.NewFromInt(simulatedMaxDrift))
	ceil := c.refPrice.Add(decimal.NewFromInt(simulatedMaxDrift))
	if next.LessThan(floor) {
		next = floor
	}
	if next.GreaterThan(ceil) {
		next = ceil
	}

	change := next.Sub(c.lastPrice)
	changePercent := decimal.Zero
	if !next.IsZero() {
		changePercent = change.Div(next).Mul(decimal.NewFromInt(100)).Round(4)
	}

	c.lastPrice = next
	spread := decimal.NewFromInt(200)

	return model.PriceSnapshot{
		Price:         next,
		Change:        change,
		ChangePercent: changePercent,
		Open:          c.refPrice,
		High:          next.Add(spread),
		Low:           next.Sub(spread),
		Volume:        1000000,
		Source:        model.SourceSimulated,
		ObservedAt:    time.Now(),
	}
}

// FetchPositions lists open positions. Failures degrade to an empty list so a
// backend outage never takes the positions table down with it.
func (c *Client) FetchPositions(ctx context.Context) []model.Position {
	var out []model.Position

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/dhanhq/positions")

	if err != nil {
		logger.WithError(err).Warn("positions fetch failed, returning empty list")
		return []model.Position{}
	}
	if resp.IsError() {
		logger.WithField("status", resp.StatusCode()).
			Warn("positions fetch non-2xx, returning empty list")
		return []model.Position{}
	}
	if out == nil {
		out = []model.Position{}
	}
	return out
}

// FetchOptionChain loads the option chain for an index and expiry. Failures
// degrade to an empty chain.
func (c *Client) FetchOptionChain(ctx context.Context, index, expiry string) model.OptionChain {
	empty := model.OptionChain{
		Index:  index,
		Expiry: expiry,
		Calls:  []model.OptionQuote{},
		Puts:   []model.OptionQuote{},
	}

	var out model.OptionChain
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetQueryParam("index", index).
		SetQueryParam("expiry", expiry).
		Get("/api/dhanhq/option-chain")

	if err != nil {
		logger.WithError(err).Warn("option chain fetch failed, returning empty chain")
		return empty
	}
	if resp.IsError() {
		logger.WithField("status", resp.StatusCode()).
			Warn("option chain fetch non-2xx, returning empty chain")
		return empty
	}
	if out.Calls == nil {
		out.Calls = []model.OptionQuote{}
	}
	if out.Puts == nil {
		out.Puts = []model.OptionQuote{}
	}
	return out
}

// PlaceOrder submits an order through the proxy. Unlike the read paths this
// propagates failure: a swallowed error here would hide a financial action
// from the user.
func (c *Client) PlaceOrder(ctx context.Context, order model.OrderRequest) (*model.OrderResult, error) {
	if order.RequestID == "" {
		order.RequestID = uuid.NewString()
	}

	var out model.OrderResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(order).
		SetResult(&out).
		Post("/api/dhanhq/place-order")

	if err != nil {
		return nil, &Error{Op: "place order", Err: err}
	}
	if resp.IsError() {
		return nil, &Error{Op: "place order", StatusCode: resp.StatusCode()}
	}

	logger.WithFields(map[string]interface{}{
		"order_id":   out.OrderID,
		"instrument": order.Instrument,
		"qty":        order.Quantity,
	}).Info("order placed")

	return &out, nil
}
