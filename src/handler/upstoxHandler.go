package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"

	"algotrader/src/connectors"
)

type codeExchanger interface {
	ExchangeAuthorizationCode(ctx context.Context, code, clientID, redirectURI string) (*connectors.TokenData, error)
}

type upstoxCallbackRequest struct {
	Code        string `json:"code"`
	ClientID    string `json:"client_id"`
	RedirectURI string `json:"redirect_uri"`
}

// UpstoxCallbackHandler completes the OAuth code exchange on behalf of the
// dashboard. The client secret is applied here so it never leaves the backend.
func UpstoxCallbackHandler(exchanger codeExchanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upstoxCallbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid callback payload", http.StatusBadRequest)
			return
		}
		if req.Code == "" {
			http.Error(w, "code is required", http.StatusBadRequest)
			return
		}

		token, err := exchanger.ExchangeAuthorizationCode(r.Context(), req.Code, req.ClientID, req.RedirectURI)
		if err != nil {
			logger.WithError(err).Error("upstox code exchange failed")
			http.Error(w, "token exchange failed", http.StatusBadGateway)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"token_data": token,
			"timestamp":  time.Now().Format(time.RFC3339),
		})
	}
}

// DefaultUpstoxCallbackHandler wires the handler to the production connector.
func DefaultUpstoxCallbackHandler() http.HandlerFunc {
	return UpstoxCallbackHandler(connectors.NewUpstoxConnector())
}
