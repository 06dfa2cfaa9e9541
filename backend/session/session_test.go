package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeperkv/keeper/core"
)

// Interface compliance (compile-time assertion)
var _ core.Backend = (*Store)(nil)

func TestStore_SetGetDelete(t *testing.T) {
	s := New()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v1"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	require.NoError(t, s.Set("k", "v2"))
	v, _, _ = s.Get("k")
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Delete("k"))
	_, ok, _ = s.Get("k")
	assert.False(t, ok)

	// Deleting again is a no-op.
	require.NoError(t, s.Delete("k"))
}

func TestStore_ResetEndsSession(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("k", "v"))
	before := s.SessionID()

	s.Reset()

	_, ok, _ := s.Get("k")
	assert.False(t, ok)
	assert.NotEqual(t, before, s.SessionID())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	done := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_ = s.Set("k", "v")
			_, _, _ = s.Get("k")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
