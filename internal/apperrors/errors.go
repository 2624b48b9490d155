package apperrors

import "errors"

// Sentinel errors for the domain failure taxonomy. Services return these
// (possibly wrapped with fmt.Errorf and %w); handlers translate them to HTTP
// statuses with errors.Is instead of sniffing message substrings.
var (
	// ErrInvalidInput marks a request missing a required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict marks a unique-key violation (duplicate email).
	ErrConflict = errors.New("already exists")
	// ErrNotFound marks a missing user, report or reset code target.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials marks a failed password comparison on login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidCode marks an absent or mismatched password-reset code.
	ErrInvalidCode = errors.New("invalid reset code")
	// ErrCodeExpired marks a reset code presented past its expiry instant.
	ErrCodeExpired = errors.New("reset code expired")
	// ErrUnauthenticated marks a request with no usable bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden marks a token that is invalid, expired, or bound to a
	// user that no longer exists.
	ErrForbidden = errors.New("forbidden")
)
