package models

import "errors"

// Error taxonomy shared by the services and mapped to status codes at the HTTP edge.
var (
	// ErrValidation marks user-correctable input problems rejected before any I/O.
	ErrValidation = errors.New("validation failed")
	// ErrUpstreamUnavailable marks store connection or query failures. Callers may retry.
	ErrUpstreamUnavailable = errors.New("upstream store unavailable")
	// ErrWriteFailure marks a failed ledger append. Nothing was written.
	ErrWriteFailure = errors.New("ledger write failed")
	// ErrUnauthorized marks rejected credentials or a role the user may not assume.
	ErrUnauthorized = errors.New("unauthorized")
)
