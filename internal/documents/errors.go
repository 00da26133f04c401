package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist or belongs to another account.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates a malformed upload or request.
	ErrInvalidInput = errors.New("invalid input")
)
