package service

import "errors"

// Sentinel errors for the identity service; the handler maps them to HTTP
// status codes. Anything else that bubbles out is an opaque internal failure
// and must not reach clients with collaborator detail attached.
var (
	// ErrReservedUsername is a client-input error, distinct from a conflict:
	// the name is blocked by policy, not held by another account.
	ErrReservedUsername = errors.New("username is reserved")
	ErrEmailTaken       = errors.New("email already taken")
	ErrUsernameTaken    = errors.New("username already taken")
	// ErrInvalidCredentials is the single generic login failure. Unknown
	// email, federated-only account, and wrong password all return this same
	// value so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("identity not found")
)
