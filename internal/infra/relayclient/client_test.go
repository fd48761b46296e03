package relayclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

func newRelay(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 0)
}

func hiRequest() chat.Request {
	return chat.Request{
		Messages:    []chat.Message{chat.UserMessage("Hi")},
		Temperature: optional.Some(0.7),
	}
}

func TestSend_PostsRequestAndMapsSuccess(t *testing.T) {
	t.Parallel()

	c := newRelay(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ChatPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.InDelta(t, 0.7, got["temperature"], 1e-9)
		assert.NotContains(t, got, "top_p")
		assert.NotContains(t, got, "model")

		w.Write([]byte(`{"content":"Hello!","role":"assistant","raw":{"id":"gen-9","model":"openai/gpt-4o-mini","usage":{"total_tokens":4}}}`)) //nolint:errcheck
	})

	res := c.Send(context.Background(), hiRequest())
	s, ok := res.(chat.Success)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "Hello!", s.Content)
	assert.Equal(t, "assistant", s.Role)
	assert.JSONEq(t, `"gen-9"`, string(s.ProviderMeta.ID))
	assert.JSONEq(t, `{"total_tokens":4}`, string(s.ProviderMeta.Usage))
}

func TestSend_ErrorBodyMessageWins(t *testing.T) {
	t.Parallel()

	c := newRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited","kind":"upstream_error"}`)) //nolint:errcheck
	})

	f, ok := c.Send(context.Background(), hiRequest()).(*chat.Failure)
	require.True(t, ok)
	assert.Equal(t, chat.KindUpstream, f.Kind)
	assert.Equal(t, http.StatusTooManyRequests, f.StatusCode)
	assert.Equal(t, "rate limited", f.Message)
}

func TestSend_KindInferredFromStatus(t *testing.T) {
	t.Parallel()

	c := newRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid request: messages array is required"}`)) //nolint:errcheck
	})

	f, ok := c.Send(context.Background(), hiRequest()).(*chat.Failure)
	require.True(t, ok)
	assert.Equal(t, chat.KindValidation, f.Kind)
	assert.Equal(t, "Invalid request: messages array is required", f.Message)
}

func TestSend_NoErrorBodyFallsBackToStatusLine(t *testing.T) {
	t.Parallel()

	c := newRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	f, ok := c.Send(context.Background(), hiRequest()).(*chat.Failure)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, f.StatusCode)
	assert.Equal(t, "Request failed with status code 502", f.Message)
}

func TestSend_NonJSONSuccessIsEmptyReply(t *testing.T) {
	t.Parallel()

	c := newRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html></html>`)) //nolint:errcheck
	})

	s, ok := c.Send(context.Background(), hiRequest()).(chat.Success)
	require.True(t, ok)
	assert.Empty(t, s.Content)
	assert.Equal(t, "assistant", s.Role)
}

func TestSend_UnreachableRelayIsNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f, ok := New(url, time.Second).Send(context.Background(), hiRequest()).(*chat.Failure)
	require.True(t, ok)
	assert.Equal(t, chat.KindNetwork, f.Kind)
	assert.Equal(t, chat.DefaultFailureStatus, f.StatusCode)
	assert.NotEmpty(t, f.Message)
}
