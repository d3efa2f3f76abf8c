package store

// BrokerStore holds the Upstox connection: the access token, the derived
// connected flag, and the profile/market payloads fetched with the token.
// ClearData resets it to the initial unauthenticated state; the dashboard
// composition layer calls that on sign-out so a broker session never
// survives a session boundary.

import (
	"context"
	"sync"

	logger "github.com/sirupsen/logrus"

	"algotrader/src/model"
	"algotrader/src/upstox"
)

// BrokerAPI is the slice of the upstox client the broker store needs.
type BrokerAPI interface {
	FetchUserProfile(ctx context.Context, accessToken string) (*model.BrokerProfile, error)
	FetchMarketData(ctx context.Context, accessToken string, instruments []string) (map[string]upstox.MarketQuote, error)
}

type BrokerStore struct {
	mu sync.RWMutex

	api BrokerAPI

	accessToken string
	connected   bool
	profile     *model.BrokerProfile
	marketData  map[string]upstox.MarketQuote
	lastError   string
}

func NewBrokerStore(api BrokerAPI) *BrokerStore {
	return &BrokerStore{api: api}
}

// SetAccessToken stores the token from the OAuth callback. The connected
// flag is derived from token presence and any previous error is cleared.
func (s *BrokerStore) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = token
	s.connected = token != ""
	s.lastError = ""
}

// SetError records a connect failure for the UI to render.
func (s *BrokerStore) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = message
}

// LoadUserProfile fetches the broker profile with the held token. Without a
// token it is a no-op.
func (s *BrokerStore) LoadUserProfile(ctx context.Context) {
	token := s.AccessToken()
	if token == "" {
		return
	}

	profile, err := s.api.FetchUserProfile(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.WithError(err).Error("failed to fetch broker user profile")
		s.lastError = err.Error()
		return
	}
	s.profile = profile
	s.lastError = ""
}

// LoadMarketData fetches broker quotes for the given instruments with the
// held token. Without a token it is a no-op.
func (s *BrokerStore) LoadMarketData(ctx context.Context, instruments []string) {
	token := s.AccessToken()
	if token == "" {
		return
	}

	quotes, err := s.api.FetchMarketData(ctx, token, instruments)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.WithError(err).Error("failed to fetch broker market data")
		s.lastError = err.Error()
		return
	}
	s.marketData = quotes
	s.lastError = ""
}

// ClearData resets the store to its initial unauthenticated state.
func (s *BrokerStore) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = ""
	s.connected = false
	s.profile = nil
	s.marketData = nil
	s.lastError = ""
}

func (s *BrokerStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *BrokerStore) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *BrokerStore) Profile() *model.BrokerProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	copied := *s.profile
	return &copied
}

func (s *BrokerStore) MarketData() map[string]upstox.MarketQuote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]upstox.MarketQuote, len(s.marketData))
	for k, v := range s.marketData {
		out[k] = v
	}
	return out
}

func (s *BrokerStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
