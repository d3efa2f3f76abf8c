package model

import "fmt"

// ValidationError reports input rejected locally, before any network call.
// The user can recover by correcting the field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
