package upstox

import "fmt"

// ConfigurationError reports a missing required setting. It disables the
// broker connect feature but is not fatal to the application.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("upstox configuration missing: %s", e.Missing)
}

// TokenExchangeError is a failed authorization-code exchange. It is always
// surfaced: silently degrading an auth failure would corrupt trust state.
type TokenExchangeError struct {
	StatusCode int
	Err        error
}

func (e *TokenExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("token exchange failed: status=%d", e.StatusCode)
}

func (e *TokenExchangeError) Unwrap() error {
	return e.Err
}

// UpstreamError is a broker-side failure on an authenticated call.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstox %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("upstox %s failed: status=%d", e.Op, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
