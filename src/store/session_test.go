package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algotrader/src/account"
	"algotrader/src/model"
)

type fakeAccountAPI struct {
	signInCalls  int
	signUpCalls  int
	signOutCalls int

	signInErr        error
	signUpErr        error
	signOutErr       error
	getProfileErr    error
	createProfileErr error

	profile *model.UserProfile
}

func (f *fakeAccountAPI) SignIn(ctx context.Context, email, password string) (*account.Credentials, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &account.Credentials{
		AccessToken: "jwt-token",
		User:        model.User{ID: "user-1", Email: email},
	}, nil
}

func (f *fakeAccountAPI) SignUp(ctx context.Context, email, password string) (*account.Credentials, error) {
	f.signUpCalls++
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &account.Credentials{
		AccessToken: "jwt-token",
		User:        model.User{ID: "user-2", Email: email},
	}, nil
}

func (f *fakeAccountAPI) SignOut(ctx context.Context, accessToken string) error {
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeAccountAPI) GetProfile(ctx context.Context, accessToken, userID string) (*model.UserProfile, error) {
	if f.getProfileErr != nil {
		return nil, f.getProfileErr
	}
	return f.profile, nil
}

func (f *fakeAccountAPI) CreateProfile(ctx context.Context, accessToken string, profile model.UserProfile) error {
	return f.createProfileErr
}

func TestSignInMalformedEmailFailsBeforeNetwork(t *testing.T) {
	api := &fakeAccountAPI{}
	s := NewSessionStore(api)

	result := s.SignIn(context.Background(), "not-an-email", "secret123")

	assert.False(t, result.Success)

	var valErr *model.ValidationError
	require.ErrorAs(t, result.Err, &valErr)
	assert.Equal(t, "email", valErr.Field)

	assert.Equal(t, 0, api.signInCalls, "validation must reject before any network call")
	assert.Equal(t, StateAnonymous, s.State())
}

func TestSignInRemoteRejectionReturnsToAnonymous(t *testing.T) {
	api := &fakeAccountAPI{signInErr: errors.New("invalid login credentials")}
	s := NewSessionStore(api)

	result := s.SignIn(context.Background(), "trader@example.com", "secret123")

	assert.False(t, result.Success)
	assert.Error(t, result.Err)
	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.User())
}

func TestSignInSuccessLoadsProfile(t *testing.T) {
	api := &fakeAccountAPI{profile: &model.UserProfile{ID: "user-1", FirstName: "Asha"}}
	s := NewSessionStore(api)

	result := s.SignIn(context.Background(), "trader@example.com", "secret123")

	require.True(t, result.Success)
	assert.Equal(t, StateAuthenticated, s.State())
	require.NotNil(t, s.User())
	assert.Equal(t, "user-1", s.User().ID)
	require.NotNil(t, s.Profile())
	assert.Equal(t, "Asha", s.Profile().FirstName)
}

func TestSignUpProfileCreationFailureKeepsSession(t *testing.T) {
	api := &fakeAccountAPI{createProfileErr: errors.New("insert failed")}
	s := NewSessionStore(api)

	result := s.SignUp(context.Background(), "new@example.com", "secret123", "Asha", "Rao")

	// Auth succeeded, so the session stays Authenticated with a nil profile.
	require.True(t, result.Success)
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Nil(t, s.Profile())
}

func TestSignOutIsIdempotent(t *testing.T) {
	api := &fakeAccountAPI{profile: &model.UserProfile{ID: "user-1"}}
	s := NewSessionStore(api)

	require.True(t, s.SignIn(context.Background(), "trader@example.com", "secret123").Success)

	first := s.SignOut(context.Background())
	second := s.SignOut(context.Background())

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, s.AccessToken())
	assert.Equal(t, 1, api.signOutCalls, "second sign out must be a local no-op")
}

func TestSignOutWhileAnonymousIsNoOpSuccess(t *testing.T) {
	api := &fakeAccountAPI{}
	s := NewSessionStore(api)

	result := s.SignOut(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 0, api.signOutCalls)
}
