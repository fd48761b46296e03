package chat

import (
	"encoding/json"
	"net/http"
)

// FailureKind classifies why an exchange did not produce an assistant reply.
type FailureKind string

const (
	// KindConfiguration is a deployment fault (missing provider credential).
	KindConfiguration FailureKind = "configuration_error"
	// KindValidation is malformed client input; nothing was forwarded.
	KindValidation FailureKind = "validation_error"
	// KindUpstream is a non-success status reported by the provider.
	KindUpstream FailureKind = "upstream_error"
	// KindNetwork is a timeout or transport failure with no upstream status.
	KindNetwork FailureKind = "network_error"
)

// DefaultFailureStatus is used when no upstream status is available.
const DefaultFailureStatus = http.StatusInternalServerError

// GenericFailureMessage is the last-resort failure text.
const GenericFailureMessage = "Request failed"

// Result is the outcome of one exchange: either Success or *Failure.
// Callers branch with a type switch.
type Result interface {
	isResult()
}

// ProviderMeta carries provider metadata verbatim. Fields are raw JSON and
// are empty when the provider omitted them.
type ProviderMeta struct {
	ID    json.RawMessage `json:"id,omitempty"`
	Model json.RawMessage `json:"model,omitempty"`
	Usage json.RawMessage `json:"usage,omitempty"`
}

// Success is a normalized provider reply.
type Success struct {
	Content      string
	Role         string
	ProviderMeta ProviderMeta
}

func (Success) isResult() {}

// Failure is a classified exchange failure.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Message    string
}

func (*Failure) isResult() {}

// Error lets a Failure travel as an error where convenient.
func (f *Failure) Error() string { return f.Message }

// NewFailure builds a Failure, falling back to the generic message and default status.
func NewFailure(kind FailureKind, status int, message string) *Failure {
	if status == 0 {
		status = DefaultFailureStatus
	}
	if message == "" {
		message = GenericFailureMessage
	}
	return &Failure{Kind: kind, StatusCode: status, Message: message}
}
