// Package apperrors defines the sentinel errors shared by services and
// handlers. Services wrap these with context via fmt.Errorf and %w; handlers
// map them to HTTP status codes with errors.Is. Anything that does not match
// a sentinel surfaces as a generic 500 with the real error logged server-side.
package apperrors

import "errors"

var (
	// ErrValidation signals missing or malformed input (400)
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail signals an email already registered to another user (400)
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials signals a failed login. The same error is returned
	// for an unknown email and a wrong password so callers cannot enumerate
	// registered accounts (401).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated signals a missing, malformed or expired session token (401)
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden signals an authenticated caller without the required role (403)
	ErrForbidden = errors.New("insufficient permissions")
	// ErrNotFound signals a missing record (404)
	ErrNotFound = errors.New("not found")
)
