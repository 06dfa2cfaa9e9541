// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. Persistence operations log through this channel and
// never surface errors to callers, so the PredicateLogger mirrors the
// original gate: logging is active only while an injected predicate holds.
package logging
