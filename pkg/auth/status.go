// Package auth tracks who is signed in and reports sign-in outcomes.
// The session is the bridge consumed by the plant repository to stamp
// and scope documents; the reporter is a conflated stream of status
// transitions for a UI to render.
package auth

import "errors"

// Status is the outcome of the most recent authentication attempt.
type Status string

const (
	StatusUninitialized   Status = "uninitialized"
	StatusAuthenticated   Status = "authenticated"
	StatusSignedOut       Status = "signed-out"
	StatusInvalidEmail    Status = "invalid-email"
	StatusUserNotFound    Status = "user-not-found"
	StatusWrongCredential Status = "wrong-credentials"
	StatusTooManyRequests Status = "too-many-requests"
	StatusNetworkFailure  Status = "network-failure"
	StatusWeakPassword    Status = "weak-password"
	StatusEmailInUse      Status = "email-in-use"
	StatusUnknown         Status = "unknown"
)

// Sentinel errors an identity backend returns for failed attempts.
var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongCredential = errors.New("wrong credentials")
	ErrTooManyRequests = errors.New("too many requests")
	ErrNetworkFailure  = errors.New("network failure")
	ErrWeakPassword    = errors.New("password too weak")
	ErrEmailInUse      = errors.New("email already in use")
)

// Classify maps an authentication error to its status. A nil error is
// a successful attempt; an unrecognized error maps to StatusUnknown so
// a new backend failure mode never crashes the caller.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusAuthenticated
	case errors.Is(err, ErrInvalidEmail):
		return StatusInvalidEmail
	case errors.Is(err, ErrUserNotFound):
		return StatusUserNotFound
	case errors.Is(err, ErrWrongCredential):
		return StatusWrongCredential
	case errors.Is(err, ErrTooManyRequests):
		return StatusTooManyRequests
	case errors.Is(err, ErrNetworkFailure):
		return StatusNetworkFailure
	case errors.Is(err, ErrWeakPassword):
		return StatusWeakPassword
	case errors.Is(err, ErrEmailInUse):
		return StatusEmailInUse
	default:
		return StatusUnknown
	}
}
