package cookiejar

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeperkv/keeper/core"
)

// Interface compliance (compile-time assertion)
var _ core.Backend = (*Jar)(nil)

type manualClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

func newTestJar(t *testing.T) (*Jar, *manualClock) {
	t.Helper()
	clk := &manualClock{at: time.UnixMilli(1700000000000)}
	return New(filepath.Join(t.TempDir(), "cookies.txt"), WithClock(clk)), clk
}

func TestJar_SetGet(t *testing.T) {
	jar, _ := newTestJar(t)

	_, ok, err := jar.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, jar.Set("k", `{"data":"v","expiration":1700000100000}`))
	v, ok, err := jar.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"data":"v","expiration":1700000100000}`, v)
}

func TestJar_LineFormat(t *testing.T) {
	jar, _ := newTestJar(t)
	require.NoError(t, jar.Set("k", `{"data":"a b","expiration":1700000100000}`))

	raw, err := os.ReadFile(jar.path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(raw))

	assert.True(t, strings.HasPrefix(line, "k="), line)
	assert.Contains(t, line, "; expires=")
	assert.True(t, strings.HasSuffix(line, "; path=/"), line)
	// Value is URL-encoded on disk.
	assert.Contains(t, line, "%22data%22")

	// Non-persistent entries carry no expires attribute.
	require.NoError(t, jar.Set("s", `{"data":1,"expiration":"session"}`))
	raw, err = os.ReadFile(jar.path)
	require.NoError(t, err)
	for _, l := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(l, "s=") {
			assert.NotContains(t, l, "expires=")
		}
	}
}

func TestJar_ExpiredEntriesDropped(t *testing.T) {
	jar, clk := newTestJar(t)
	require.NoError(t, jar.Set("k", `{"data":"v","expiration":1700000001000}`))

	clk.Advance(2 * time.Second)

	_, ok, err := jar.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJar_DeleteWritesExpiredEntry(t *testing.T) {
	jar, _ := newTestJar(t)
	require.NoError(t, jar.Set("k", `{"data":"v","expiration":1700000100000}`))
	require.NoError(t, jar.Delete("k"))

	// The tombstone is present in the file but never served.
	raw, err := os.ReadFile(jar.path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "expires=Thu, 01 Jan 1970 00:00:00 GMT")

	_, ok, err := jar.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key succeeds.
	require.NoError(t, jar.Delete("never-stored"))
}

func TestJar_MalformedLinesSkipped(t *testing.T) {
	jar, _ := newTestJar(t)
	require.NoError(t, os.WriteFile(jar.path, []byte("garbage without equals\nk=v; path=/\n"), 0o600))

	v, ok, err := jar.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestJar_Available(t *testing.T) {
	jar, _ := newTestJar(t)
	assert.True(t, jar.Available())

	assert.False(t, New(filepath.Join(t.TempDir(), "no", "such", "dir", "c.txt")).Available())
	assert.False(t, New("").Available())
}
