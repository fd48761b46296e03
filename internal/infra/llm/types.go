// Package llm defines the provider-agnostic completion types and the OpenRouter adapter.
package llm

import (
	"encoding/json"
	"fmt"

	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

// Message is a single turn sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a non-streaming completion request.
// Absent optional numerics are left out of the upstream body entirely.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature optional.Optional[float64]
	TopP        optional.Optional[float64]
	MaxTokens   optional.Optional[int]
}

// ChatResponse is a normalized first-choice reply.
// ID, Model and Usage are passed through verbatim and may be empty.
type ChatResponse struct {
	Content string
	Role    string
	ID      json.RawMessage
	Model   json.RawMessage
	Usage   json.RawMessage
}

// ModelMeta describes the provider and its default model.
type ModelMeta struct {
	ID       string // e.g. "openai/gpt-4o-mini"
	Provider string // e.g. "openrouter"
}

// UpstreamError is a non-2xx response from the provider.
// ProviderMessage is the provider-supplied error text, empty when none could be extracted.
type UpstreamError struct {
	StatusCode      int
	ProviderMessage string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}
