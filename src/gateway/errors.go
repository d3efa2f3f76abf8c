package gateway

import "fmt"

// Error is a backend proxy failure on a write-path call. Read paths degrade
// to fallback data instead of returning it.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway %s failed: status=%d", e.Op, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}
