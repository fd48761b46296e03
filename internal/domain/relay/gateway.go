// Package relay validates inbound chat requests, forwards them to the completion
// provider and classifies the outcome into a chat.Result.
package relay

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
	"github.com/matiasleandrokruk/relaychat/internal/infra/llm"
	"github.com/matiasleandrokruk/relaychat/internal/infra/logging"
)

// NotConfiguredMessage is returned when the provider credential is missing.
const NotConfiguredMessage = "Server not configured: missing OPENROUTER_API_KEY"

const (
	timeoutMessage   = "Upstream request timed out"
	transportMessage = "Upstream request failed"
)

type Gateway struct {
	provider llm.LLMProvider
	now      func() time.Time
}

func NewGateway(p llm.LLMProvider) *Gateway {
	return &Gateway{provider: p, now: time.Now}
}

// Configured reports whether exchanges can be forwarded at all.
func (g *Gateway) Configured() bool { return g.provider.Configured() }

// DefaultModel is the model applied when a request names none.
func (g *Gateway) DefaultModel() string { return g.provider.ModelInfo().ID }

// HandleJSON decodes a raw request body and handles it. The credential check
// runs before decoding so that a misconfigured relay answers the same way
// regardless of payload.
func (g *Gateway) HandleJSON(ctx context.Context, body []byte) chat.Result {
	if !g.Configured() {
		return g.configFailure(ctx)
	}
	req, err := chat.DecodeRequest(body)
	if err != nil {
		return g.validationFailure(ctx, err)
	}
	return g.Handle(ctx, req)
}

// Handle runs one exchange. It never returns nil and never panics on provider
// output; every failure is a *chat.Failure.
func (g *Gateway) Handle(ctx context.Context, req chat.Request) chat.Result {
	if !g.Configured() {
		return g.configFailure(ctx)
	}
	if err := req.Validate(); err != nil {
		return g.validationFailure(ctx, err)
	}

	model := req.Model
	if model == "" {
		model = g.DefaultModel()
	}

	exchangeID := newExchangeID()
	logger := logging.FromContext(ctx)
	started := g.now()

	resp, err := g.provider.ChatCompletion(ctx, llm.ChatRequest{
		Model:       model,
		Messages:    toProviderMessages(req.Messages),
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		f := classify(err)
		logger.Error().Err(err).
			Str("exchange_id", exchangeID).
			Str("model", model).
			Str("kind", string(f.Kind)).
			Int("status", f.StatusCode).
			Msg("openrouter exchange failed")
		return f
	}

	logger.Debug().
		Str("exchange_id", exchangeID).
		Str("model", model).
		Int("messages", len(req.Messages)).
		Dur("elapsed", g.now().Sub(started)).
		Msg("openrouter exchange completed")

	return chat.Success{
		Content: resp.Content,
		Role:    resp.Role,
		ProviderMeta: chat.ProviderMeta{
			ID:    resp.ID,
			Model: resp.Model,
			Usage: resp.Usage,
		},
	}
}

func (g *Gateway) configFailure(ctx context.Context) *chat.Failure {
	logging.FromContext(ctx).Error().Msg("relay rejected request: provider credential missing")
	return chat.NewFailure(chat.KindConfiguration, http.StatusInternalServerError, NotConfiguredMessage)
}

func (g *Gateway) validationFailure(ctx context.Context, err error) *chat.Failure {
	logging.FromContext(ctx).Debug().Err(err).Msg("relay rejected invalid request")
	return chat.NewFailure(chat.KindValidation, http.StatusBadRequest, err.Error())
}

// classify maps a provider error onto the failure taxonomy. Non-2xx replies keep
// their status; anything without an upstream status is a network failure.
func classify(err error) *chat.Failure {
	var upErr *llm.UpstreamError
	if errors.As(err, &upErr) {
		msg := upErr.ProviderMessage
		if msg == "" {
			msg = upErr.Error()
		}
		return chat.NewFailure(chat.KindUpstream, upErr.StatusCode, msg)
	}
	if errors.Is(err, llm.ErrNotConfigured) {
		return chat.NewFailure(chat.KindConfiguration, http.StatusInternalServerError, NotConfiguredMessage)
	}
	if isTimeout(err) {
		return chat.NewFailure(chat.KindNetwork, chat.DefaultFailureStatus, timeoutMessage)
	}
	return chat.NewFailure(chat.KindNetwork, chat.DefaultFailureStatus, transportMessage)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// newExchangeID returns a time-ordered id so log lines sort by exchange start.
func newExchangeID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func toProviderMessages(msgs []chat.Message) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, m := range msgs {
		out[i] = llm.Message{Role: string(m.Role), Content: m.Content}
	}
	return out
}
