// Package session implements the session tier: a volatile, process-local
// backend whose records live exactly as long as the logical session. Ending
// the session (Reset) drops every record at once, which is how
// session-sentinel expirations are realized without any wall-clock check.
//
// Swap in a different core.Backend via keeper.Options to scope sessions to
// something other than process lifetime; only the wiring layer needs to
// change.
package session
