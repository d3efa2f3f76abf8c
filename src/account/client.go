package account

// Client for the Supabase-style account API: password auth plus the
// user_profiles table. Remote rejections come back as *RequestError so the
// session store can surface them as inline form messages instead of crashing
// an action.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/model"
)

// RequestError is a non-2xx response from the account API.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("account %s failed: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("account %s failed: status=%d", e.Op, e.StatusCode)
}

// Credentials is the authenticated session returned by sign-in or sign-up.
type Credentials struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, anonKey string) *Client {
	config := GetConfig()

	if strings.TrimSpace(baseURL) == "" {
		baseURL = config.BaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	if anonKey == "" {
		anonKey = config.AnonKey
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second).
		SetHeader("apikey", anonKey)

	return &Client{http: httpClient}
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type apiError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorDescription
}

// SignIn exchanges email+password for an access token and user identity.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	var out Credentials
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(passwordGrant{Email: email, Password: password}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/auth/v1/token")

	if err != nil {
		return nil, fmt.Errorf("sign in request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &RequestError{Op: "sign in", StatusCode: resp.StatusCode(), Message: apiErr.text()}
	}
	return &out, nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Credentials, error) {
	var out Credentials
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(passwordGrant{Email: email, Password: password}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/auth/v1/signup")

	if err != nil {
		return nil, fmt.Errorf("sign up request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &RequestError{Op: "sign up", StatusCode: resp.StatusCode(), Message: apiErr.text()}
	}
	return &out, nil
}

// SignOut revokes the access token server-side.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Post("/auth/v1/logout")

	if err != nil {
		return fmt.Errorf("sign out request failed: %w", err)
	}
	if resp.IsError() {
		return &RequestError{Op: "sign out", StatusCode: resp.StatusCode()}
	}
	return nil
}

type profileRecord struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	SubscriptionTier string `json:"subscription_tier"`
}

// CreateProfile inserts the user_profiles row for a new account.
func (c *Client) CreateProfile(ctx context.Context, accessToken string, profile model.UserProfile) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(profileRecord{
			ID:               profile.ID,
			FirstName:        profile.FirstName,
			LastName:         profile.LastName,
			SubscriptionTier: profile.SubscriptionTier,
		}).
		Post("/rest/v1/user_profiles")

	if err != nil {
		return fmt.Errorf("create profile request failed: %w", err)
	}
	if resp.IsError() {
		return &RequestError{Op: "create profile", StatusCode: resp.StatusCode()}
	}
	return nil
}

// GetProfile fetches the user_profiles row for a user id. Returns (nil, nil)
// when the account has no profile row.
func (c *Client) GetProfile(ctx context.Context, accessToken, userID string) (*model.UserProfile, error) {
	var rows []profileRecord

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("id", "eq."+userID).
		SetQueryParam("select", "*").
		SetResult(&rows).
		Get("/rest/v1/user_profiles")

	if err != nil {
		return nil, fmt.Errorf("get profile request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &RequestError{Op: "get profile", StatusCode: resp.StatusCode()}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &model.UserProfile{
		ID:               row.ID,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		SubscriptionTier: row.SubscriptionTier,
	}, nil
}
