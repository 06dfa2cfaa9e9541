package core

import (
	"fmt"
	"strconv"
	"time"
)

// sessionSentinel is the literal wire marker meaning "expires when the
// session ends". It must round-trip unchanged for interoperability with
// records written by earlier deployments.
const sessionSentinel = "session"

// Expiration is either an absolute instant (epoch milliseconds) after which
// a record is invalid, or the session sentinel tying the record to the
// lifetime of the session tier. The zero value is invalid and rejected at
// encode time.
type Expiration struct {
	session bool
	unixMs  int64
}

// Session returns the session-sentinel expiration.
func Session() Expiration { return Expiration{session: true} }

// At returns an absolute expiration at the given instant.
func At(t time.Time) Expiration { return Expiration{unixMs: t.UnixMilli()} }

// In returns an absolute expiration ttl from the clock's current time.
func In(ttl time.Duration, clk Clock) Expiration { return At(clk.Now().Add(ttl)) }

// IsSession reports whether this is the session sentinel.
func (e Expiration) IsSession() bool { return e.session }

// IsZero reports whether the expiration is the invalid zero value.
func (e Expiration) IsZero() bool { return !e.session && e.unixMs == 0 }

// UnixMilli returns the absolute instant in epoch milliseconds. It is zero
// for the session sentinel.
func (e Expiration) UnixMilli() int64 { return e.unixMs }

// Time returns the absolute instant. Only meaningful for numeric expirations.
func (e Expiration) Time() time.Time { return time.UnixMilli(e.unixMs) }

// Expired reports whether the expiration instant lies before now. The
// session sentinel never expires by wall clock.
func (e Expiration) Expired(now time.Time) bool {
	if e.session || e.IsZero() {
		return false
	}
	return e.unixMs < now.UnixMilli()
}

// String renders the wire form without quotes, for logs.
func (e Expiration) String() string {
	if e.session {
		return sessionSentinel
	}
	return strconv.FormatInt(e.unixMs, 10)
}

// MarshalJSON emits the literal sentinel string or the epoch-millisecond
// number, exactly as the stored wire format requires.
func (e Expiration) MarshalJSON() ([]byte, error) {
	if e.session {
		return []byte(`"` + sessionSentinel + `"`), nil
	}
	if e.IsZero() {
		return nil, fmt.Errorf("marshal expiration: zero value")
	}
	return strconv.AppendInt(nil, e.unixMs, 10), nil
}

// UnmarshalJSON accepts the sentinel string or a numeric instant. Any other
// shape is rejected so corrupt blobs surface as decode failures.
func (e *Expiration) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("unmarshal expiration: empty input")
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil || s != sessionSentinel {
			return fmt.Errorf("unmarshal expiration: unknown sentinel %s", data)
		}
		*e = Session()
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// Tolerate a float instant; some writers serialize Date arithmetic
		// results without truncation.
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil {
			return fmt.Errorf("unmarshal expiration: %w", err)
		}
		ms = int64(f)
	}
	*e = Expiration{unixMs: ms}
	return nil
}
