// Package settings owns the generation parameters a client sends with each exchange.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/matiasleandrokruk/relaychat/internal/infra/kv"
	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

// DefaultTemperature applies when no usable value was persisted.
const DefaultTemperature = 0.7

// ErrTemperatureOutOfRange rejects temperatures outside [0, 1].
var ErrTemperatureOutOfRange = errors.New("temperature must be between 0 and 1")

// Settings are the persisted generation parameters.
type Settings struct {
	Temperature float64 `json:"temperature"`
}

// Default returns the settings used when nothing valid is stored.
func Default() Settings {
	return Settings{Temperature: DefaultTemperature}
}

// Patch is a partial update; absent fields keep their current value.
type Patch struct {
	Temperature optional.Optional[float64]
}

// Store keeps Settings in memory and mirrors every change to storage.
// Storage failures are logged and swallowed: memory stays authoritative.
type Store struct {
	mu      sync.RWMutex
	storage kv.Storage
	current Settings
}

// NewStore returns a Store holding defaults. Call Load to rehydrate.
func NewStore(storage kv.Storage) *Store {
	return &Store{storage: storage, current: Default()}
}

// Load reads persisted settings. Missing or malformed content yields defaults; it never fails.
func (s *Store) Load() Settings {
	loaded := s.read()

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return loaded
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update merges p into the current settings and persists the result.
// Out-of-range values are rejected and nothing changes.
func (s *Store) Update(p Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	next.Temperature = p.Temperature.ValueOr(s.current.Temperature)
	if !validTemperature(next.Temperature) {
		return s.current, fmt.Errorf("%w: got %v", ErrTemperatureOutOfRange, next.Temperature)
	}

	s.current = next
	s.persist(next)
	return next, nil
}

func (s *Store) read() Settings {
	raw, found, err := s.storage.Get(kv.KeySettings)
	if err != nil {
		log.Warn().Err(err).Msg("settings: read failed, using defaults")
		return Default()
	}
	if !found {
		return Default()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		log.Debug().Err(err).Msg("settings: stored value is not an object, using defaults")
		return Default()
	}

	var t *float64
	if err := json.Unmarshal(fields["temperature"], &t); err != nil || t == nil || !validTemperature(*t) {
		return Default()
	}
	return Settings{Temperature: *t}
}

func (s *Store) persist(v Settings) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Msg("settings: encode failed")
		return
	}
	if err := s.storage.Set(kv.KeySettings, string(b)); err != nil {
		log.Warn().Err(err).Msg("settings: write failed")
	}
}

func validTemperature(t float64) bool {
	return !math.IsNaN(t) && t >= 0 && t <= 1
}
