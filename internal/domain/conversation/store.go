// Package conversation owns the ordered message log of the single active conversation.
package conversation

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
	"github.com/matiasleandrokruk/relaychat/internal/infra/kv"
)

// Store is append-only: entries are never edited or reordered, only cleared as a whole.
// Every mutation is mirrored to storage; write failures are logged and swallowed.
type Store struct {
	mu       sync.RWMutex
	storage  kv.Storage
	messages []chat.Message
}

// NewStore returns an empty Store. Call Load to rehydrate from storage.
func NewStore(storage kv.Storage) *Store {
	return &Store{storage: storage}
}

// Load replaces the in-memory log with the persisted one. Missing, unreadable or
// non-list content yields an empty conversation; Load never fails.
func (s *Store) Load() []chat.Message {
	loaded := s.read()

	s.mu.Lock()
	s.messages = loaded
	s.mu.Unlock()
	return clone(loaded)
}

// Append adds m at the tail and persists the log.
func (s *Store) Append(m chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, m)
	s.persist(s.messages)
}

// Clear discards every message and persists the empty log.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	s.persist(s.messages)
}

// Messages returns a copy of the log in turn order.
func (s *Store) Messages() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.messages)
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func (s *Store) read() []chat.Message {
	raw, found, err := s.storage.Get(kv.KeyHistory)
	if err != nil {
		log.Warn().Err(err).Msg("conversation: read failed, starting empty")
		return nil
	}
	if !found {
		return nil
	}

	var msgs []chat.Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		log.Debug().Err(err).Msg("conversation: stored history is not a message list, starting empty")
		return nil
	}
	if err := chat.ValidateMessages(msgs); err != nil {
		log.Debug().Err(err).Msg("conversation: stored history is malformed, starting empty")
		return nil
	}
	return msgs
}

func (s *Store) persist(msgs []chat.Message) {
	if msgs == nil {
		msgs = []chat.Message{}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		log.Warn().Err(err).Msg("conversation: encode failed")
		return
	}
	if err := s.storage.Set(kv.KeyHistory, string(b)); err != nil {
		log.Warn().Err(err).Msg("conversation: write failed")
	}
}

func clone(msgs []chat.Message) []chat.Message {
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}
