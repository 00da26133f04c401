package billing

import "errors"

var (
	// ErrInvalidInput covers malformed checkout requests.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateSession indicates the checkout session was already recorded.
	ErrDuplicateSession = errors.New("session already recorded")
)
