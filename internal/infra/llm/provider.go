package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when the provider credential is missing.
var ErrNotConfigured = errors.New("provider API key not configured")

// LLMProvider is the model-agnostic completion interface the relay forwards through.
type LLMProvider interface {
	// ChatCompletion performs exactly one non-streaming completion call.
	// Non-2xx provider responses are returned as *UpstreamError; any other
	// error is a transport failure.
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Configured reports whether a credential is available.
	Configured() bool

	// ModelInfo returns the provider name and the model used when a request names none.
	ModelInfo() ModelMeta
}
