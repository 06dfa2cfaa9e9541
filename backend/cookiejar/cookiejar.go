package cookiejar

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/keeperkv/keeper/core"
)

// expiresLayout is the cookie expires attribute format (RFC 1123 with an
// explicit GMT zone).
const expiresLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// cookie is one jar entry. A zero expires means the entry is non-persistent:
// it carries no expires attribute and is never dropped by wall clock, the
// closest a cookie channel gets to session-sentinel semantics.
type cookie struct {
	name    string
	value   string
	expires time.Time
}

// Jar is a file-backed cookie-jar backend. All mutations rewrite the jar
// file atomically (temp file + rename). Safe for concurrent use within one
// process; cross-process writers race last-write-wins like any cookie store.
type Jar struct {
	mu    sync.Mutex
	path  string
	clock core.Clock
}

// Option customizes a Jar.
type Option func(*Jar)

// WithClock overrides the time source used for expiry checks.
func WithClock(clk core.Clock) Option {
	return func(j *Jar) { j.clock = clk }
}

// New creates a jar persisting to the given file path. The file is created
// lazily on first write.
func New(path string, optFns ...Option) *Jar {
	j := &Jar{path: path, clock: core.SystemClock{}}
	for _, fn := range optFns {
		fn(j)
	}
	return j
}

// Name identifies the tier in logs.
func (j *Jar) Name() string { return "cookie" }

// Available reports whether the jar file can be opened for writing.
func (j *Jar) Available() bool {
	if j == nil || j.path == "" {
		return false
	}
	f, err := os.OpenFile(j.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Get scans the jar for a live entry matching key and returns its decoded
// value.
func (j *Jar) Get(key string) (string, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	cookies, err := j.load()
	if err != nil {
		return "", false, err
	}
	for _, c := range cookies {
		if c.name == key {
			return c.value, true, nil
		}
	}
	return "", false, nil
}

// Set stores value under key. If the value is a record envelope carrying a
// numeric expiration, that instant becomes the entry's expires attribute;
// otherwise the entry is non-persistent.
func (j *Jar) Set(key, value string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	cookies, err := j.load()
	if err != nil {
		return err
	}
	c := cookie{name: key, value: value}
	if exp := gjson.Get(value, "expiration"); exp.Type == gjson.Number {
		c.expires = time.UnixMilli(int64(exp.Num))
	}
	return j.save(upsert(cookies, c))
}

// Delete neutralizes any entry under key by writing an immediately expired
// cookie with the same name. The expired entry is dropped on the next load.
func (j *Jar) Delete(key string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	cookies, err := j.load()
	if err != nil {
		return err
	}
	tombstone := cookie{name: key, expires: time.Unix(0, 0).UTC()}
	return j.save(upsert(cookies, tombstone))
}

// load reads the jar file and returns its live entries. Expired and
// malformed lines are dropped. A missing file is an empty jar.
func (j *Jar) load() ([]cookie, error) {
	raw, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cookie jar: %w", err)
	}
	now := j.clock.Now()
	var cookies []cookie
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c, ok := parseLine(line)
		if !ok {
			continue
		}
		if !c.expires.IsZero() && c.expires.Before(now) {
			continue
		}
		cookies = append(cookies, c)
	}
	return cookies, nil
}

// save rewrites the jar file atomically with the given entries.
func (j *Jar) save(cookies []cookie) error {
	var b strings.Builder
	for _, c := range cookies {
		b.WriteString(formatLine(c))
		b.WriteByte('\n')
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write cookie jar: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("replace cookie jar: %w", err)
	}
	return nil
}

// upsert replaces the entry named c.name or appends it.
func upsert(cookies []cookie, c cookie) []cookie {
	for i := range cookies {
		if cookies[i].name == c.name {
			cookies[i] = c
			return cookies
		}
	}
	return append(cookies, c)
}

// formatLine renders "name=value; expires=...; path=/" with URL-encoded name
// and value. The expires attribute is omitted for non-persistent entries.
func formatLine(c cookie) string {
	var b strings.Builder
	b.WriteString(url.QueryEscape(c.name))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(c.value))
	if !c.expires.IsZero() {
		b.WriteString("; expires=")
		b.WriteString(c.expires.UTC().Format(expiresLayout))
	}
	b.WriteString("; path=/")
	return b.String()
}

func parseLine(line string) (cookie, bool) {
	parts := strings.Split(line, ";")
	nameValue := strings.SplitN(strings.TrimSpace(parts[0]), "=", 2)
	if len(nameValue) != 2 {
		return cookie{}, false
	}
	name, err := url.QueryUnescape(nameValue[0])
	if err != nil || name == "" {
		return cookie{}, false
	}
	value, err := url.QueryUnescape(nameValue[1])
	if err != nil {
		return cookie{}, false
	}
	c := cookie{name: name, value: value}
	for _, attr := range parts[1:] {
		attr = strings.TrimSpace(attr)
		if rest, ok := strings.CutPrefix(attr, "expires="); ok {
			at, err := time.Parse(expiresLayout, rest)
			if err != nil {
				return cookie{}, false
			}
			c.expires = at
		}
	}
	return c, true
}
