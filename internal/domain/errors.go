package domain

import "errors"

// Lookup and verification errors.
var (
	// ErrNotFound covers both "never existed" and "exists under another
	// tenant"; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidCredentials is deliberately as uninformative as ErrNotFound:
	// wrong password and out-of-tenant account produce the same result.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Remote account API errors.
var (
	ErrAuthUnavailable = errors.New("account directory authentication unavailable")
	ErrRemoteProtocol  = errors.New("account directory returned a malformed response")

	// ErrInterrupted means the call was cancelled or ran out of budget before
	// the remote system answered. Surfaced distinctly so operators raise the
	// host's execution budget instead of suspecting the remote system.
	ErrInterrupted = errors.New("account directory call interrupted")
)

// Integrity errors.
var (
	// ErrMissingExternalID marks a record whose external id is empty. The
	// external id is the federation primary key; a record without one is a
	// fatal integrity error and must never be silently dropped.
	ErrMissingExternalID = errors.New("user record has no external id")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
