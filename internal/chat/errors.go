// internal/chat/errors.go
package chat

import "errors"

var (
	// ErrValidation marks malformed or missing entity fields.
	ErrValidation = errors.New("invalid entity fields")
	// ErrForbidden marks ownership mismatches. It never reaches the user
	// as-is; replies stay indistinguishable from not-found.
	ErrForbidden = errors.New("not allowed for this user")
)
