package settings

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matiasleandrokruk/relaychat/internal/infra/kv"
	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

type brokenStorage struct{}

func (brokenStorage) Get(string) (string, bool, error) { return "", false, errors.New("disk on fire") }
func (brokenStorage) Set(string, string) error { return errors.New("disk on fire") }

func TestStore_LoadDefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	s := NewStore(kv.NewMemory())
	assert.Equal(t, Default(), s.Load())
	assert.Equal(t, 0.7, s.Get().Temperature)
}

func TestStore_LoadMalformedFallsBackToDefault(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":     `{{{`,
		"list":         `[0.2]`,
		"null":         `null`,
		"string temp":  `{"temperature":"0.2"}`,
		"null temp":    `{"temperature":null}`,
		"missing temp": `{"top_p":0.2}`,
		"above range":  `{"temperature":3}`,
		"below range":  `{"temperature":-0.5}`,
		"bare number":  `0.2`,
		"empty string": ``,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := kv.NewMemory()
			require.NoError(t, mem.Set(kv.KeySettings, raw))
			assert.Equal(t, Default(), NewStore(mem).Load())
		})
	}
}

func TestStore_LoadPersistedValue(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemory()
	require.NoError(t, mem.Set(kv.KeySettings, `{"temperature":0}`))

	assert.Equal(t, Settings{Temperature: 0}, NewStore(mem).Load())
}

func TestStore_UpdatePersists(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemory()
	s := NewStore(mem)

	got, err := s.Update(Patch{Temperature: optional.Some(0.25)})
	require.NoError(t, err)
	assert.Equal(t, 0.25, got.Temperature)

	raw, found, err := mem.Get(kv.KeySettings)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"temperature":0.25}`, raw)

	assert.Equal(t, 0.25, NewStore(mem).Load().Temperature)
}

func TestStore_UpdateEmptyPatchKeepsValue(t *testing.T) {
	t.Parallel()

	s := NewStore(kv.NewMemory())
	got, err := s.Update(Patch{})
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestStore_UpdateRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemory()
	s := NewStore(mem)

	for _, bad := range []float64{1.5, -0.01, math.NaN(), math.Inf(1)} {
		got, err := s.Update(Patch{Temperature: optional.Some(bad)})
		require.ErrorIs(t, err, ErrTemperatureOutOfRange)
		assert.Equal(t, Default(), got)
	}

	assert.Equal(t, Default(), s.Get())
	_, found, _ := mem.Get(kv.KeySettings)
	assert.False(t, found, "a rejected update must not be persisted")
}

func TestStore_StorageFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	s := NewStore(brokenStorage{})
	assert.Equal(t, Default(), s.Load())

	got, err := s.Update(Patch{Temperature: optional.Some(0.1)})
	require.NoError(t, err)
	assert.Equal(t, 0.1, got.Temperature)
	assert.Equal(t, 0.1, s.Get().Temperature)
}
