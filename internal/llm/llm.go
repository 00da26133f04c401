package llm

import (
	"context"
	"errors"
)

// StreamClient abstracts LLM providers for streamed text generation.
type StreamClient interface {
	StreamGenerate(ctx context.Context, prompt string) (Stream, error)
}

// Stream yields incremental text fragments in arrival order. Recv returns
// io.EOF when the provider finishes normally; any other error is terminal.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient stands in when no provider API key is configured.
type PlaceholderClient struct{}

// StreamGenerate returns ErrNotConfigured.
func (PlaceholderClient) StreamGenerate(ctx context.Context, prompt string) (Stream, error) {
	_ = ctx
	_ = prompt
	return nil, ErrNotConfigured
}
