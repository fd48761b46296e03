package conversation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
	"github.com/matiasleandrokruk/relaychat/internal/infra/kv"
	"github.com/matiasleandrokruk/relaychat/internal/infra/sqlite"
)

type brokenStorage struct{}

func (brokenStorage) Get(string) (string, bool, error) { return "", false, errors.New("quota exceeded") }
func (brokenStorage) Set(string, string) error { return errors.New("quota exceeded") }

func TestStore_LoadMissingIsEmpty(t *testing.T) {
	t.Parallel()

	s := NewStore(kv.NewMemory())
	assert.Empty(t, s.Load())
	assert.Zero(t, s.Len())
}

func TestStore_RoundTripPreservesOrder(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemory()
	m1 := chat.UserMessage("what is a monad?")
	m2 := chat.AssistantMessage("a monoid in the category of endofunctors")

	s := NewStore(mem)
	s.Append(m1)
	s.Append(m2)

	reloaded := NewStore(mem).Load()
	assert.Equal(t, []chat.Message{m1, m2}, reloaded)
}

func TestStore_RoundTripThroughSQLite(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/state.db"
	m1 := chat.UserMessage("first")
	m2 := chat.AssistantMessage("second")

	db, err := sqlite.Open(path)
	require.NoError(t, err)
	s := NewStore(kv.NewSQLite(db))
	s.Append(m1)
	s.Append(m2)
	require.NoError(t, db.Close())

	db, err = sqlite.Open(path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, []chat.Message{m1, m2}, NewStore(kv.NewSQLite(db)).Load())
}

func TestStore_MalformedContentLoadsEmpty(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"object":       `{"role":"user","content":"hi"}`,
		"not json":     `[{"role":`,
		"numbers":      `[1,2,3]`,
		"unknown role": `[{"role":"robot","content":"beep"}]`,
		"string":       `"hello"`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := kv.NewMemory()
			require.NoError(t, mem.Set(kv.KeyHistory, raw))

			var got []chat.Message
			assert.NotPanics(t, func() { got = NewStore(mem).Load() })
			assert.Empty(t, got)
		})
	}
}

func TestStore_ClearEmptiesAndPersists(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemory()
	s := NewStore(mem)
	s.Append(chat.UserMessage("hello"))
	s.Clear()

	assert.Empty(t, s.Messages())
	raw, found, err := mem.Get(kv.KeyHistory)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[]`, raw)
	assert.Empty(t, NewStore(mem).Load())
}

func TestStore_MessagesReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore(kv.NewMemory())
	s.Append(chat.UserMessage("original"))

	msgs := s.Messages()
	msgs[0].Content = "tampered"

	assert.Equal(t, "original", s.Messages()[0].Content)
}

func TestStore_StorageFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	s := NewStore(brokenStorage{})
	assert.Empty(t, s.Load())

	s.Append(chat.UserMessage("still here"))
	assert.Equal(t, []chat.Message{chat.UserMessage("still here")}, s.Messages())
}
