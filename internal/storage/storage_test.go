package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("redis", "somewhere")
	assert.Error(t, err)
}

func TestFlatFileCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := OpenFlatFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("a", []byte(`{"n":1}`)))
	require.NoError(t, s.Set("b", []byte(`"two"`)))

	v, ok, err := s.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"n":1}`, string(v))

	_, ok, err = s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Delete("a"))
	_, ok, _ = s.Get("a")
	assert.False(t, ok)

	require.NoError(t, s.Close())
}

func TestFlatFileRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := OpenFlatFile(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Error(t, s.Set("bad", []byte("not json")))
}

func TestFlatFilePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := OpenFlatFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("a", []byte(`{"n":1}`)))
	require.NoError(t, s.Close())

	s, err = OpenFlatFile(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"n":1}`, string(v))
}

func TestSQLiteCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("a", []byte("one")))
	require.NoError(t, s.Set("a", []byte("one again")))
	require.NoError(t, s.Set("b", []byte("two")))

	v, ok, err := s.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "one again", string(v))

	_, ok, err = s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Delete("a"))
	_, ok, _ = s.Get("a")
	assert.False(t, ok)
}

func TestCommandHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := OpenFlatFile(path)
	require.NoError(t, err)
	defer store.Close()

	s := New(store)

	history, err := s.CommandHistory("guild1")
	require.NoError(t, err)
	assert.Empty(t, history)

	rec := CommandHistoryRecord{
		ChannelID: "chan1",
		UserID:    "user1",
		Username:  "someone",
		Command:   "ping",
		Datetime:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.AppendCommandHistory("guild1", rec))

	history, err = s.CommandHistory("guild1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ping", history[0].Command)

	// Other guilds are unaffected.
	history, err = s.CommandHistory("guild2")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, s.ClearCommandHistory("guild1"))
	history, err = s.CommandHistory("guild1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCommandHistoryBounded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := OpenFlatFile(path)
	require.NoError(t, err)
	defer store.Close()

	s := New(store)
	for i := 0; i < commandHistoryLimit+10; i++ {
		require.NoError(t, s.AppendCommandHistory("guild1", CommandHistoryRecord{Command: "ping"}))
	}

	history, err := s.CommandHistory("guild1")
	require.NoError(t, err)
	assert.Len(t, history, commandHistoryLimit)
}
