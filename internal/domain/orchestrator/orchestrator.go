// Package orchestrator drives one conversation: it turns user input into relay
// exchanges and writes their outcome back into the conversation store.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
	"github.com/matiasleandrokruk/relaychat/internal/domain/conversation"
	"github.com/matiasleandrokruk/relaychat/internal/domain/settings"
	"github.com/matiasleandrokruk/relaychat/internal/infra/eventbus"
	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

var (
	// ErrBusy is returned by Submit while an exchange is in flight.
	ErrBusy = errors.New("an exchange is already pending")
	// ErrEmptyInput is returned by Submit when the trimmed text is empty.
	ErrEmptyInput = errors.New("input is empty")
	// ErrCleared is returned when the conversation was cleared while the exchange
	// was pending. The late result is not recorded.
	ErrCleared = errors.New("conversation cleared while the exchange was pending")
)

// EmptyReplyText stands in for an assistant reply with no content.
const EmptyReplyText = "No response"

type State string

const (
	StateIdle          State = "idle"
	StatePending       State = "pending"
	StateIdleWithError State = "idle_with_error"
)

// TopicStateChanged carries a StateChange after every transition and after Clear.
const TopicStateChanged = "chat.state"

// StateChange is the payload published on TopicStateChanged.
type StateChange struct {
	State    State
	Error    string
	Messages int
}

// Relay performs one exchange. Implementations must return a non-nil Result.
type Relay interface {
	Send(ctx context.Context, req chat.Request) chat.Result
}

// RelayFunc adapts a function to Relay.
type RelayFunc func(ctx context.Context, req chat.Request) chat.Result

func (f RelayFunc) Send(ctx context.Context, req chat.Request) chat.Result { return f(ctx, req) }

// Snapshot is a consistent view for rendering.
type Snapshot struct {
	State       State
	Error       string
	Input       string
	Messages    []chat.Message
	Temperature float64
}

type Orchestrator struct {
	conv     *conversation.Store
	settings *settings.Store
	relay    Relay
	model    string
	events   eventbus.EventBus

	mu    sync.Mutex
	state State
	err   string
	input string
	epoch uint64
}

type Option func(*Orchestrator)

// WithModel names the model sent with every request. Empty leaves the choice to the relay.
func WithModel(model string) Option {
	return func(o *Orchestrator) { o.model = model }
}

// WithEvents publishes state transitions on bus.
func WithEvents(bus eventbus.EventBus) Option {
	return func(o *Orchestrator) { o.events = bus }
}

// New builds an orchestrator over already-loaded stores.
func New(conv *conversation.Store, st *settings.Store, relay Relay, opts ...Option) *Orchestrator {
	o := &Orchestrator{conv: conv, settings: st, relay: relay, state: StateIdle}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit sends text as the next user turn and blocks until the relay answers.
// At most one exchange is in flight; a concurrent call gets ErrBusy and changes nothing.
// A relay failure is reported through the returned Result, not the error.
func (o *Orchestrator) Submit(ctx context.Context, text string) (chat.Result, error) {
	text = strings.TrimSpace(text)

	o.mu.Lock()
	if o.state == StatePending {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	if text == "" {
		o.mu.Unlock()
		return nil, ErrEmptyInput
	}

	o.err = ""
	o.conv.Append(chat.UserMessage(text))
	o.state = StatePending
	o.input = ""
	o.publish()
	epoch := o.epoch
	req := chat.Request{
		Messages:    o.conv.Messages(),
		Model:       o.model,
		Temperature: optional.Some(o.settings.Get().Temperature),
	}
	o.mu.Unlock()

	res := o.relay.Send(ctx, req)
	if res == nil {
		res = chat.NewFailure(chat.KindNetwork, 0, "")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.publish()

	if o.epoch != epoch {
		o.state = StateIdle
		return res, ErrCleared
	}

	switch r := res.(type) {
	case chat.Success:
		content := r.Content
		if content == "" {
			content = EmptyReplyText
		}
		o.conv.Append(chat.AssistantMessage(content))
		o.state = StateIdle
	case *chat.Failure:
		o.err = r.Message
		o.state = StateIdleWithError
	}
	return res, nil
}

// SubmitInput submits the current input buffer.
func (o *Orchestrator) SubmitInput(ctx context.Context) (chat.Result, error) {
	return o.Submit(ctx, o.Input())
}

// Clear empties the conversation and the error. A pending exchange keeps
// running but its result is discarded.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.conv.Clear()
	o.err = ""
	o.epoch++
	if o.state == StateIdleWithError {
		o.state = StateIdle
	}
	o.publish()
}

// publish must be called with o.mu held.
func (o *Orchestrator) publish() {
	if o.events == nil {
		return
	}
	o.events.Publish(TopicStateChanged, StateChange{State: o.state, Error: o.err, Messages: o.conv.Len()})
}

func (o *Orchestrator) SetInput(s string) {
	o.mu.Lock()
	o.input = s
	o.mu.Unlock()
}

func (o *Orchestrator) Input() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.input
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Error returns the message of the last failed exchange, or "".
func (o *Orchestrator) Error() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// CanSubmit mirrors the send-button rule: non-blank input and nothing pending.
func (o *Orchestrator) CanSubmit() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.TrimSpace(o.input) != "" && o.state != StatePending
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		State:       o.state,
		Error:       o.err,
		Input:       o.input,
		Messages:    o.conv.Messages(),
		Temperature: o.settings.Get().Temperature,
	}
}
