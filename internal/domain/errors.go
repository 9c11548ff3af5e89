package domain

import "errors"

// Sentinel errors shared across adapters. Conversational conditions travel
// as Outcome values, never as errors; these cover hard failures and the
// store contract only.
var (
	ErrNotFound             = errors.New("not found")
	ErrKeyConflict          = errors.New("order id already exists")
	ErrExternalTimeout      = errors.New("external service timeout")
	ErrIDCollisionExhausted = errors.New("order id collision persisted after retry")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
