package store

// SessionStore holds the authenticated identity and moves through
// Anonymous -> Authenticating -> Authenticated. Every action returns a
// Result instead of raising past the call boundary, so the UI can render an
// inline message.

import (
	"context"
	"regexp"
	"sync"

	logger "github.com/sirupsen/logrus"

	"algotrader/src/account"
	"algotrader/src/model"
)

type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
)

const defaultSubscriptionTier = "free"

// Result is the uniform outcome of an asynchronous store action.
type Result struct {
	Success bool
	Err     error
}

func ok() Result {
	return Result{Success: true}
}

func failed(err error) Result {
	return Result{Success: false, Err: err}
}

// AccountAPI is the slice of the account client the session store needs.
type AccountAPI interface {
	SignIn(ctx context.Context, email, password string) (*account.Credentials, error)
	SignUp(ctx context.Context, email, password string) (*account.Credentials, error)
	SignOut(ctx context.Context, accessToken string) error
	GetProfile(ctx context.Context, accessToken, userID string) (*model.UserProfile, error)
	CreateProfile(ctx context.Context, accessToken string, profile model.UserProfile) error
}

type SessionStore struct {
	mu sync.RWMutex

	api AccountAPI

	state       SessionState
	user        *model.User
	profile     *model.UserProfile
	accessToken string
}

func NewSessionStore(api AccountAPI) *SessionStore {
	return &SessionStore{api: api, state: StateAnonymous}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return &model.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(password) < 6 {
		return &model.ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	return nil
}

// SignIn authenticates against the account API. Format validation happens
// before any network call; remote rejection returns the store to Anonymous.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) Result {
	if err := validateCredentials(email, password); err != nil {
		return failed(err)
	}

	s.setState(StateAuthenticating)

	creds, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		logger.WithError(err).Warn("sign in rejected")
		s.setState(StateAnonymous)
		return failed(err)
	}

	profile, err := s.api.GetProfile(ctx, creds.AccessToken, creds.User.ID)
	if err != nil {
		logger.WithError(err).Warn("profile fetch failed after sign in")
		profile = nil
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = &creds.User
	s.profile = profile
	s.accessToken = creds.AccessToken
	s.mu.Unlock()

	return ok()
}

// SignUp registers an account and creates its profile record. When profile
// creation fails after auth succeeded, the session stays Authenticated with a
// nil profile rather than being rolled back.
func (s *SessionStore) SignUp(ctx context.Context, email, password, firstName, lastName string) Result {
	if err := validateCredentials(email, password); err != nil {
		return failed(err)
	}

	s.setState(StateAuthenticating)

	creds, err := s.api.SignUp(ctx, email, password)
	if err != nil {
		logger.WithError(err).Warn("sign up rejected")
		s.setState(StateAnonymous)
		return failed(err)
	}

	profile := &model.UserProfile{
		ID:               creds.User.ID,
		FirstName:        firstName,
		LastName:         lastName,
		SubscriptionTier: defaultSubscriptionTier,
	}
	if err := s.api.CreateProfile(ctx, creds.AccessToken, *profile); err != nil {
		logger.WithError(err).Warn("profile creation failed after sign up, continuing without profile")
		profile = nil
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = &creds.User
	s.profile = profile
	s.accessToken = creds.AccessToken
	s.mu.Unlock()

	return ok()
}

// SignOut clears the session. Calling it while already Anonymous is a no-op
// success.
func (s *SessionStore) SignOut(ctx context.Context) Result {
	s.mu.Lock()
	if s.state == StateAnonymous {
		s.mu.Unlock()
		return ok()
	}
	token := s.accessToken
	s.mu.Unlock()

	if err := s.api.SignOut(ctx, token); err != nil {
		logger.WithError(err).Warn("remote sign out failed")
		return failed(err)
	}

	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.profile = nil
	s.accessToken = ""
	s.mu.Unlock()

	return ok()
}

func (s *SessionStore) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SessionStore) Authenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *SessionStore) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

func (s *SessionStore) Profile() *model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	copied := *s.profile
	return &copied
}

func (s *SessionStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}
