package durable

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeperkv/keeper/core"
)

// Interface compliance (compile-time assertion)
var _ core.Backend = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "keeper.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_SetGetDelete(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v1"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	// Upsert overwrites.
	require.NoError(t, s.Set("k", "v2"))
	v, _, _ = s.Get("k")
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Delete("k"))
	_, ok, _ = s.Get("k")
	assert.False(t, ok)

	// Deleting again is a no-op.
	require.NoError(t, s.Delete("k"))
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keeper.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestStore_ClosedIsUnavailable(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())

	assert.False(t, s.Available())

	_, _, err := s.Get("k")
	assert.True(t, errors.Is(err, core.ErrUnavailable))
	assert.True(t, errors.Is(s.Set("k", "v"), core.ErrUnavailable))
	assert.True(t, errors.Is(s.Delete("k"), core.ErrUnavailable))

	// Close is idempotent.
	require.NoError(t, s.Close())
}
