package connectors

// Server side of the Upstox OAuth code exchange. The dashboard never sees
// UPSTOX_API_SECRET; it posts the authorization code to the backend, and the
// backend completes the exchange here.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

// TokenData is the token payload Upstox returns on a successful exchange.
type TokenData struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

type UpstoxConnector struct {
	http      *resty.Client
	apiSecret string
}

func NewUpstoxConnector() *UpstoxConnector {
	return newUpstoxConnector(GetConfig())
}

func newUpstoxConnector(config Config) *UpstoxConnector {
	// Token exchanges are never retried: each replay burns the one-shot
	// authorization code and counts toward the broker rate limit.
	return &UpstoxConnector{
		http: resty.New().
			SetBaseURL(strings.TrimRight(config.UpstoxTokenURL, "/")).
			SetTimeout(10 * time.Second),
		apiSecret: config.UpstoxAPISecret,
	}
}

// ExchangeAuthorizationCode swaps an authorization code for an access token.
func (c *UpstoxConnector) ExchangeAuthorizationCode(ctx context.Context, code, clientID, redirectURI string) (*TokenData, error) {
	if strings.TrimSpace(c.apiSecret) == "" {
		return nil, fmt.Errorf("UPSTOX_API_SECRET is not configured")
	}

	var out TokenData
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"code":          code,
			"client_id":     clientID,
			"client_secret": c.apiSecret,
			"redirect_uri":  redirectURI,
			"grant_type":    "authorization_code",
		}).
		SetResult(&out).
		Post("")

	if err != nil {
		return nil, fmt.Errorf("upstox token request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("upstox token HTTP %d: %s", resp.StatusCode(), resp.Body())
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("upstox token response carried no access token")
	}

	logger.WithFields(map[string]interface{}{"client_id": clientID}).
		Info("upstox authorization code exchanged")
	return &out, nil
}
