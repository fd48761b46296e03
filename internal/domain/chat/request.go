package chat

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

// MessagesRequiredMessage is returned when messages is missing, not a list, or empty.
const MessagesRequiredMessage = "Invalid request: messages array is required"

// Request is an inbound chat exchange. Optional numerics that are absent are
// never sent upstream.
type Request struct {
	Messages    []Message                  `json:"messages"`
	Model       string                     `json:"model,omitempty"`
	Temperature optional.Optional[float64] `json:"temperature,omitzero"`
	TopP        optional.Optional[float64] `json:"top_p,omitzero"`
	MaxTokens   optional.Optional[int]     `json:"max_tokens,omitzero"`
}

// ValidationError describes malformed client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: "Invalid request: " + fmt.Sprintf(format, args...)}
}

// Validate checks the request. The returned error, when non-nil, is a *ValidationError.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return &ValidationError{Message: MessagesRequiredMessage}
	}
	if err := ValidateMessages(r.Messages); err != nil {
		return invalid("%v", err)
	}
	if v, ok := r.Temperature.Get(); ok && !unitInterval(v) {
		return invalid("temperature must be between 0 and 1")
	}
	if v, ok := r.TopP.Get(); ok && !unitInterval(v) {
		return invalid("top_p must be between 0 and 1")
	}
	if v, ok := r.MaxTokens.Get(); ok && v < 1 {
		return invalid("max_tokens must be a positive integer")
	}
	return nil
}

func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// DecodeRequest parses a JSON request body. A body that is not an object, or whose
// messages field is not a list of messages, fails with MessagesRequiredMessage.
// Optional numerics that are null or not JSON numbers are treated as absent.
func DecodeRequest(body []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Request{}, &ValidationError{Message: MessagesRequiredMessage}
	}

	var req Request
	if err := json.Unmarshal(fields["messages"], &req.Messages); err != nil || len(req.Messages) == 0 {
		return Request{}, &ValidationError{Message: MessagesRequiredMessage}
	}

	if raw, ok := fields["model"]; ok {
		var model *string
		if err := json.Unmarshal(raw, &model); err != nil {
			return Request{}, invalid("model must be a string")
		}
		if model != nil {
			req.Model = *model
		}
	}

	if v, ok := numberField(fields, "temperature"); ok {
		req.Temperature = optional.Some(v)
	}
	if v, ok := numberField(fields, "top_p"); ok {
		req.TopP = optional.Some(v)
	}
	if v, ok := numberField(fields, "max_tokens"); ok {
		// JSON has no integer type: 256 and 256.0 are the same number.
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return Request{}, invalid("max_tokens must be an integer")
		}
		req.MaxTokens = optional.Some(int(v))
	}
	return req, nil
}

// numberField reports the value of name when it holds a JSON number.
func numberField(fields map[string]json.RawMessage, name string) (float64, bool) {
	raw, ok := fields[name]
	if !ok {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}
