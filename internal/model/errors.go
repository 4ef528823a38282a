package model

import "errors"

var (
	// ErrNotFound indicates an absent token or content-store path.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a content-store write with a stale revision tag.
	ErrConflict = errors.New("revision conflict")
	// ErrRateLimited indicates the per-identity request budget is exhausted.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrInvalidToken covers every magic-link or session failure flavor:
	// absent, expired, already consumed, malformed, bad signature. Callers
	// must not distinguish these externally.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthorized is the single externally visible authentication failure.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput indicates a request that failed validation. Wrapped
	// errors carry the field-level detail shown to the caller.
	ErrInvalidInput = errors.New("invalid input")
)
