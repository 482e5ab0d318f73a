package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get(KeyToken)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyToken, "abc"))
	v, ok := s.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Delete(KeyToken, KeyDemoUser))
	_, ok = s.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyToken, "tok"))
	require.NoError(t, s.Set(KeyDemoUser, `{"id":"demo-user-1"}`))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok := reopened.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	require.NoError(t, reopened.Delete(KeyToken))
	again, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok = again.Get(KeyToken)
	assert.False(t, ok)
	_, ok = again.Get(KeyDemoUser)
	assert.True(t, ok)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	_, ok := s.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenFileStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse session file")
}

func TestFileStore_NullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.NoError(t, s.Set(KeyToken, "x"))
}
