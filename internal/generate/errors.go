package generate

import "errors"

var (
	// ErrInvalidInput covers malformed request bodies and unknown fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProviderFailed signals the model provider rejected the request
	// before any content was streamed.
	ErrProviderFailed = errors.New("generation provider failed")
)
