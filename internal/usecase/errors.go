package usecase

import "errors"

// Sentinel errors for the sync pipeline. Callers classify failures with
// errors.Is; everything upstream wraps one of these.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfiguration = errors.New("configuration rejected by upstream")
	ErrTransport     = errors.New("upstream transport failure")
	ErrEmptyUpstream = errors.New("upstream returned no teams")
	ErrWrite         = errors.New("collection write failure")
)
