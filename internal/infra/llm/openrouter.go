package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	// DefaultOpenRouterURL is the OpenRouter API base.
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
	// DefaultModel is used when a request does not name a model.
	DefaultModel = "openai/gpt-4o-mini"
	// DefaultTimeout bounds a single upstream exchange.
	DefaultTimeout = 60 * time.Second
	// DefaultReferer and DefaultTitle are the descriptive headers OpenRouter uses for attribution.
	DefaultReferer = "http://localhost:5173"
	DefaultTitle   = "Local ChatGPT via OpenRouter"

	maxResponseSize = 10 << 20
)

// OpenRouterConfig configures OpenRouterProvider. Zero values fall back to the defaults above.
type OpenRouterConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Referer      string
	Title        string
	Timeout      time.Duration
}

// OpenRouterProvider implements LLMProvider against the OpenRouter chat-completions API.
// It never retries: one ChatCompletion call is one upstream request.
type OpenRouterProvider struct {
	apiKey     string
	baseURL    string
	model      string
	referer    string
	title      string
	httpClient *http.Client
}

// NewOpenRouterProvider builds a provider from cfg.
func NewOpenRouterProvider(cfg OpenRouterConfig) *OpenRouterProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenRouterProvider{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimSuffix(orDefault(cfg.BaseURL, DefaultOpenRouterURL), "/"),
		model:      orDefault(cfg.DefaultModel, DefaultModel),
		referer:    orDefault(cfg.Referer, DefaultReferer),
		title:      orDefault(cfg.Title, DefaultTitle),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ─── wire types ──────────────────────────────────────────────────────────────

type openRouterRequest struct {
	Model       string                     `json:"model"`
	Messages    []Message                  `json:"messages"`
	Temperature optional.Optional[float64] `json:"temperature,omitzero"`
	TopP        optional.Optional[float64] `json:"top_p,omitzero"`
	MaxTokens   optional.Optional[int]     `json:"max_tokens,omitzero"`
}

// ─── LLMProvider implementation ─────────────────────────────────────────────

func (p *OpenRouterProvider) Configured() bool { return p.apiKey != "" }

func (p *OpenRouterProvider) ModelInfo() ModelMeta {
	return ModelMeta{ID: p.model, Provider: "openrouter"}
}

// ChatCompletion posts to /chat/completions and normalizes the first choice.
func (p *OpenRouterProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	model := req.Model
	if model == "" {
		model = p.model
	}
	body, err := json.Marshal(openRouterRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openrouter: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openrouter: build request: %w", err)
	}
	p.setHeaders(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("openrouter: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, ProviderMessage: extractErrorMessage(data)}
	}
	return normalizeResponse(data), nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (p *OpenRouterProvider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("HTTP-Referer", p.referer)
	req.Header.Set("X-Title", p.title)
	req.Header.Set(headerContentType, mimeJSON)
}

// normalizeResponse extracts the first choice, tolerating any shape.
// Role and content are read independently: a missing or non-string content
// becomes "" and a missing or non-string role becomes "assistant".
func normalizeResponse(data []byte) *ChatResponse {
	out := &ChatResponse{Role: "assistant"}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return out
	}
	out.ID = fields["id"]
	out.Model = fields["model"]
	out.Usage = fields["usage"]

	var choices []json.RawMessage
	if err := json.Unmarshal(fields["choices"], &choices); err != nil || len(choices) == 0 {
		return out
	}
	var first struct {
		Message map[string]json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(choices[0], &first); err != nil {
		return out
	}
	if content, ok := stringField(first.Message, "content"); ok {
		out.Content = content
	}
	if role, ok := stringField(first.Message, "role"); ok {
		out.Role = role
	}
	return out
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	var s *string
	if err := json.Unmarshal(fields[name], &s); err != nil || s == nil {
		return "", false
	}
	return *s, true
}

// extractErrorMessage reads {"error": "..."} or {"error": {"message": "..."}}.
// Any other shape yields "", and the caller falls back to the status-code text
// of UpstreamError.Error.
func extractErrorMessage(data []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Error) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Error, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &obj); err == nil {
		return obj.Message
	}
	return ""
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
