// Package keeper provides a best-effort persistence helper storing keyed,
// optionally-expiring values across three storage tiers in priority order:
// a volatile session tier, a durable tier and a cookie-jar fallback. Most
// applications interact with this package by:
//  1. Creating a Keeper via New() (optionally overriding default backends)
//  2. Calling Store / Get / Remove with plain keys and JSON-serializable values
//
// Writes go to exactly one tier chosen by expiration policy; reads scan all
// tiers. Failures never propagate to callers: every backend fault, corrupt
// record or invalid input degrades to a silent no-op or a nil read,
// observable only through the injected logger. Keeper is a convenience
// cache, not a durable store of record.
package keeper

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keeperkv/keeper/backend/cookiejar"
	"github.com/keeperkv/keeper/backend/durable"
	"github.com/keeperkv/keeper/backend/session"
	"github.com/keeperkv/keeper/core"
	"github.com/keeperkv/keeper/logging"
)

// DefaultTTL is the expiration applied when Store is called without one:
// seven days from the moment of the write.
const DefaultTTL = 7 * 24 * time.Hour

// Options configures a Keeper instance.
type Options struct {
	// DefaultTTL applies when Store receives no expiration (defaults to
	// DefaultTTL, seven days).
	DefaultTTL time.Duration

	// Backends (defaults: in-memory session tier, sqlite durable tier opened
	// from DurablePath, file cookie jar at CookiePath).
	Session core.Backend
	Durable core.Backend
	Cookie  core.Backend

	// DurablePath locates the sqlite database backing the default durable
	// tier. Empty leaves the durable tier unavailable, pushing numeric-TTL
	// writes to the cookie fallback.
	DurablePath string

	// CookiePath locates the fallback jar file (defaults to keeper_cookies.txt
	// in the OS temp directory).
	CookiePath string

	// Clock supplies "now" for expiry computation (defaults to the system
	// wall clock).
	Clock core.Clock

	// Logger receives operation logs (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Keeper is the persistence facade aggregating the storage tiers. Its
// methods never return errors; see the package documentation for the
// degradation policy.
type Keeper struct {
	opts   Options
	clock  core.Clock
	logger logging.Logger

	initOnce sync.Once
	session  core.Backend
	durable  core.Backend
	cookie   core.Backend

	closeMu sync.Mutex
	closed  bool
}

// New creates a Keeper with optional overrides. Backends materialize lazily,
// exactly once, on the first operation.
func New(optFns ...func(o *Options)) *Keeper {
	opts := Options{
		DefaultTTL: DefaultTTL,
		Clock:      core.SystemClock{},
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = core.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Keeper{opts: opts, clock: opts.Clock, logger: opts.Logger}
}

// init wires the tiers on first use. Failures to open the durable tier are
// logged and leave it unavailable; the cookie fallback keeps the facade
// operational.
func (k *Keeper) init() {
	k.initOnce.Do(func() {
		k.session = k.opts.Session
		if k.session == nil {
			k.session = session.New()
		}

		k.durable = k.opts.Durable
		if k.durable == nil && k.opts.DurablePath != "" {
			store, err := durable.Open(k.opts.DurablePath, durable.WithClock(k.clock))
			if err != nil {
				k.logger.Warn("durable tier unavailable", "path", k.opts.DurablePath, "error", err)
			} else {
				k.durable = store
			}
		}

		k.cookie = k.opts.Cookie
		if k.cookie == nil {
			path := k.opts.CookiePath
			if path == "" {
				path = filepath.Join(os.TempDir(), "keeper_cookies.txt")
			}
			k.cookie = cookiejar.New(path, cookiejar.WithClock(k.clock))
		}
	})
}

// ForSession returns the session-sentinel expiration: the record lives until
// EndSession and is never expired by wall clock.
func ForSession() core.Expiration { return core.Session() }

// TTL returns an absolute expiration ttl from now on the keeper's clock.
func (k *Keeper) TTL(ttl time.Duration) core.Expiration { return core.In(ttl, k.clock) }

// Store writes data under key into exactly one tier: the session tier when
// expiration is the session sentinel, otherwise the durable tier, with the
// cookie jar as fallback when the chosen tier cannot serve the write. When
// no expiration is given, the configured default TTL applies. Invalid keys
// and serialization failures are logged no-ops.
func (k *Keeper) Store(key string, data any, expiration ...core.Expiration) {
	k.init()
	opID := uuid.NewString()

	if key == "" {
		k.logger.Warn("store rejected: empty key", "op_id", opID)
		return
	}

	exp := core.Expiration{}
	if len(expiration) > 0 {
		exp = expiration[0]
	}
	if exp.IsZero() {
		exp = core.In(k.opts.DefaultTTL, k.clock)
	}

	blob, err := core.EncodeRecord(core.Record{Data: data, Expiration: exp})
	if err != nil {
		k.logger.Error("store rejected: unserializable data", "key", key, "op_id", opID, "error", err)
		return
	}

	tier := k.durable
	if exp.IsSession() {
		tier = k.session
	}

	if tier != nil && tier.Available() {
		if err := tier.Set(key, blob); err == nil {
			k.logger.Debug("record stored", "key", key, "tier", tier.Name(), "expiration", exp.String(), "op_id", opID)
			return
		}
		k.logger.Warn("tier write failed, trying cookie fallback", "key", key, "tier", tier.Name(), "op_id", opID)
	}

	if k.cookie != nil && k.cookie.Available() {
		if err := k.cookie.Set(key, blob); err != nil {
			k.logger.Error("cookie fallback write failed", "key", key, "op_id", opID, "error", err)
			return
		}
		k.logger.Debug("record stored", "key", key, "tier", k.cookie.Name(), "expiration", exp.String(), "op_id", opID)
		return
	}

	k.logger.Error("store dropped: no tier available", "key", key, "op_id", opID)
}

// Get returns the payload stored under key, or nil when no tier yields a
// live record. Reading an expired record removes it everywhere before
// reporting absence.
func (k *Keeper) Get(key string) any {
	rec, ok := k.GetRecord(key)
	if !ok {
		return nil
	}
	return rec.Data
}

// GetRecord is the envelope-level read: it exposes the record's expiration
// alongside its payload for callers that need to distinguish session-scoped
// values from expiring ones.
//
// Scan order: session tier first, where a session-sentinel record
// short-circuits regardless of other tiers and any other expiration marks
// the record as foreign and is skipped; then the durable tier; then the
// cookie jar. Corrupt blobs are logged and treated as absent without
// aborting the scan.
func (k *Keeper) GetRecord(key string) (core.Record, bool) {
	k.init()
	opID := uuid.NewString()

	if key == "" {
		k.logger.Warn("get rejected: empty key", "op_id", opID)
		return core.Record{}, false
	}

	if k.session != nil && k.session.Available() {
		blob, ok, err := k.session.Get(key)
		switch {
		case err != nil:
			k.logger.Warn("session tier read failed", "key", key, "op_id", opID, "error", err)
		case ok:
			rec, derr := core.DecodeRecord(blob)
			if derr != nil {
				k.logger.Warn("session tier record corrupt", "key", key, "op_id", opID, "error", derr)
			} else if rec.Expiration.IsSession() {
				k.logger.Debug("record read", "key", key, "tier", k.session.Name(), "op_id", opID)
				return rec, true
			}
			// A non-sentinel record in the session tier is foreign; keep
			// scanning the other tiers.
		}
	}

	candidate, tierName := k.scanCandidate(key, opID)
	if candidate == nil {
		k.logger.Debug("record not found", "key", key, "op_id", opID)
		return core.Record{}, false
	}

	if candidate.Expiration.Expired(k.clock.Now()) {
		k.logger.Debug("record expired on read", "key", key, "tier", tierName, "op_id", opID)
		k.Remove(key)
		return core.Record{}, false
	}

	k.logger.Debug("record read", "key", key, "tier", tierName, "op_id", opID)
	return *candidate, true
}

// scanCandidate checks the durable then cookie tiers for a parseable record.
func (k *Keeper) scanCandidate(key, opID string) (*core.Record, string) {
	for _, tier := range []core.Backend{k.durable, k.cookie} {
		if tier == nil || !tier.Available() {
			continue
		}
		blob, ok, err := tier.Get(key)
		if err != nil {
			k.logger.Warn("tier read failed", "key", key, "tier", tier.Name(), "op_id", opID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		rec, derr := core.DecodeRecord(blob)
		if derr != nil {
			k.logger.Warn("tier record corrupt", "key", key, "tier", tier.Name(), "op_id", opID, "error", derr)
			continue
		}
		return &rec, tier.Name()
	}
	return nil, ""
}

// Remove deletes key from the session and durable tiers unconditionally and
// neutralizes any cookie-tier copy with an immediately expired entry.
// Removing an absent key is a silent no-op.
func (k *Keeper) Remove(key string) {
	k.init()
	opID := uuid.NewString()

	if key == "" {
		k.logger.Warn("remove rejected: empty key", "op_id", opID)
		return
	}

	for _, tier := range []core.Backend{k.session, k.durable, k.cookie} {
		if tier == nil || !tier.Available() {
			continue
		}
		if err := tier.Delete(key); err != nil {
			k.logger.Warn("tier delete failed", "key", key, "tier", tier.Name(), "op_id", opID, "error", err)
			continue
		}
	}
	k.logger.Debug("record removed", "key", key, "op_id", opID)
}

// EndSession drops every session-tier record and starts a fresh logical
// session, if the session backend supports it.
func (k *Keeper) EndSession() {
	k.init()
	if resettable, ok := k.session.(interface{ Reset() }); ok {
		resettable.Reset()
		k.logger.Debug("session ended")
	}
}

// Close releases resources held by the tiers (notably the sqlite handle).
// Closing twice is a no-op; operations after Close degrade per tier
// availability.
func (k *Keeper) Close() error {
	k.init()
	k.closeMu.Lock()
	defer k.closeMu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true

	var firstErr error
	for _, tier := range []core.Backend{k.session, k.durable, k.cookie} {
		closer, ok := tier.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
