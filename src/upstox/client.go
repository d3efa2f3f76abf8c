package upstox

// OAuth token client for the Upstox broker. The code exchange goes through
// the backend proxy so the client secret never reaches the dashboard; the
// authenticated profile and quote calls go to the broker directly.
//
// No call here retries automatically. Replays against the broker API count
// toward its rate limit, so retrying is the caller's decision.

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/model"
)

const oauthScope = "read"

// TokenBundle is the token payload returned by a successful code exchange.
type TokenBundle struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// MarketQuote is one instrument row from the broker quote endpoint.
type MarketQuote struct {
	InstrumentToken string          `json:"instrument_token"`
	LastPrice       decimal.Decimal `json:"last_price"`
	NetChange       decimal.Decimal `json:"net_change"`
	Volume          int64           `json:"volume"`
}

type Client struct {
	http        *resty.Client
	proxy       *resty.Client
	baseURL     string
	clientID    string
	redirectURI string
}

func NewClient() *Client {
	config := GetConfig()
	return newClient(config)
}

func newClient(config Config) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	proxyURL := strings.TrimRight(config.ProxyURL, "/")

	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
		proxy: resty.New().
			SetBaseURL(proxyURL).
			SetTimeout(10 * time.Second),
		baseURL:     baseURL,
		clientID:    config.ClientID,
		redirectURI: config.RedirectURI,
	}
}

// BuildAuthorizationURL constructs the broker OAuth authorize URL. Pure
// construction, no network call.
func (c *Client) BuildAuthorizationURL() (string, error) {
	if strings.TrimSpace(c.clientID) == "" {
		return "", &ConfigurationError{Missing: "UPSTOX_CLIENT_ID"}
	}
	if strings.TrimSpace(c.redirectURI) == "" {
		return "", &ConfigurationError{Missing: "UPSTOX_REDIRECT_URI"}
	}

	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", oauthScope)

	return c.baseURL + "/oauth/authorize?" + params.Encode(), nil
}

type callbackRequest struct {
	Code        string `json:"code"`
	ClientID    string `json:"client_id"`
	RedirectURI string `json:"redirect_uri"`
}

type callbackResponse struct {
	Success   bool        `json:"success"`
	TokenData TokenBundle `json:"token_data"`
	Timestamp string      `json:"timestamp"`
}

// ExchangeCode posts the authorization code to the backend proxy and returns
// the token bundle.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenBundle, error) {
	if strings.TrimSpace(code) == "" {
		return nil, &model.ValidationError{Field: "code", Reason: "must not be empty"}
	}

	var out callbackResponse
	resp, err := c.proxy.R().
		SetContext(ctx).
		SetBody(callbackRequest{Code: code, ClientID: c.clientID, RedirectURI: c.redirectURI}).
		SetResult(&out).
		Post("/api/upstox/callback")

	if err != nil {
		return nil, &TokenExchangeError{Err: err}
	}
	if resp.IsError() {
		return nil, &TokenExchangeError{StatusCode: resp.StatusCode()}
	}
	if out.TokenData.AccessToken == "" {
		return nil, &TokenExchangeError{StatusCode: resp.StatusCode()}
	}

	logger.Info("upstox token exchange successful")
	return &out.TokenData, nil
}

// FetchUserProfile loads the broker profile for a connected account.
func (c *Client) FetchUserProfile(ctx context.Context, accessToken string) (*model.BrokerProfile, error) {
	var out model.BrokerProfile
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&out).
		Get("/user/profile")

	if err != nil {
		return nil, &UpstreamError{Op: "user profile", Err: err}
	}
	if resp.IsError() {
		return nil, &UpstreamError{Op: "user profile", StatusCode: resp.StatusCode()}
	}
	return &out, nil
}

type quotesRequest struct {
	Instruments []string `json:"instruments"`
}

// FetchMarketData loads broker quotes for the given instruments.
func (c *Client) FetchMarketData(ctx context.Context, accessToken string, instruments []string) (map[string]MarketQuote, error) {
	var out map[string]MarketQuote
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(quotesRequest{Instruments: instruments}).
		SetResult(&out).
		Post("/market-data/quotes")

	if err != nil {
		return nil, &UpstreamError{Op: "market data", Err: err}
	}
	if resp.IsError() {
		return nil, &UpstreamError{Op: "market data", StatusCode: resp.StatusCode()}
	}
	if out == nil {
		out = map[string]MarketQuote{}
	}
	return out, nil
}
