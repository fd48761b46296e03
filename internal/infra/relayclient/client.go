// Package relayclient posts chat requests to a running relay over HTTP.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
	"github.com/matiasleandrokruk/relaychat/internal/infra/logging"
)

const (
	// ChatPath is the relay endpoint for one exchange.
	ChatPath = "/api/chat"
	// DefaultTimeout leaves headroom over the relay's own upstream timeout.
	DefaultTimeout = 65 * time.Second

	maxResponseSize = 10 << 20
)

// ErrorBody is the relay's failure payload. Kind is optional.
type ErrorBody struct {
	Error string           `json:"error"`
	Kind  chat.FailureKind `json:"kind,omitempty"`
}

// SuccessBody is the relay's success payload.
type SuccessBody struct {
	Content string            `json:"content"`
	Role    string            `json:"role"`
	Raw     chat.ProviderMeta `json:"raw"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts req to the relay and maps the reply onto a chat.Result.
// It never returns nil.
func (c *Client) Send(ctx context.Context, req chat.Request) chat.Result {
	body, err := json.Marshal(req)
	if err != nil {
		return chat.NewFailure(chat.KindValidation, http.StatusBadRequest, fmt.Sprintf("encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ChatPath, bytes.NewReader(body))
	if err != nil {
		return chat.NewFailure(chat.KindNetwork, 0, err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("relay", c.baseURL).Msg("relay unreachable")
		return chat.NewFailure(chat.KindNetwork, 0, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return chat.NewFailure(chat.KindNetwork, 0, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failureFromBody(resp.StatusCode, data)
	}

	var ok SuccessBody
	if err := json.Unmarshal(data, &ok); err != nil {
		return chat.Success{Role: string(chat.RoleAssistant)}
	}
	if ok.Role == "" {
		ok.Role = string(chat.RoleAssistant)
	}
	return chat.Success{Content: ok.Content, Role: ok.Role, ProviderMeta: ok.Raw}
}

// failureFromBody prefers the relay's error text and falls back to a status line.
func failureFromBody(status int, data []byte) *chat.Failure {
	var eb ErrorBody
	_ = json.Unmarshal(data, &eb)

	msg := eb.Error
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", status)
	}
	kind := eb.Kind
	if kind == "" {
		kind = kindForStatus(status)
	}
	return chat.NewFailure(kind, status, msg)
}

func kindForStatus(status int) chat.FailureKind {
	if status == http.StatusBadRequest {
		return chat.KindValidation
	}
	return chat.KindUpstream
}
