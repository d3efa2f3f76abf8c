package connectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeAuthorizationCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.FormValue("code"))
		assert.Equal(t, "client-1", r.FormValue("client_id"))
		assert.Equal(t, "secret-1", r.FormValue("client_secret"))
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "broker-token", "token_type": "Bearer", "expires_in": 86400}`))
	}))
	defer server.Close()

	connector := newUpstoxConnector(Config{UpstoxTokenURL: server.URL, UpstoxAPISecret: "secret-1"})

	token, err := connector.ExchangeAuthorizationCode(context.Background(), "auth-code", "client-1", "https://app/callback")
	require.NoError(t, err)
	assert.Equal(t, "broker-token", token.AccessToken)
	assert.Equal(t, int64(86400), token.ExpiresIn)
}

func TestExchangeAuthorizationCodeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	connector := newUpstoxConnector(Config{UpstoxTokenURL: server.URL, UpstoxAPISecret: "secret-1"})

	_, err := connector.ExchangeAuthorizationCode(context.Background(), "bad-code", "client-1", "https://app/callback")
	require.Error(t, err)
}

func TestExchangeAuthorizationCodeWithoutSecret(t *testing.T) {
	connector := newUpstoxConnector(Config{UpstoxTokenURL: "https://api.upstox.com/oauth/token"})

	_, err := connector.ExchangeAuthorizationCode(context.Background(), "auth-code", "client-1", "https://app/callback")
	require.Error(t, err)
}
