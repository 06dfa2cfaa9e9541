// Package core provides the foundational domain types and interfaces used by
// keeper. It defines the core abstractions for:
//
//   - Backends (uniform get/set/delete capability over a storage tier)
//   - Records (the serialized payload + expiration envelope)
//   - Expirations (absolute instants or the session sentinel)
//   - Clocks (injectable time source for expiry decisions)
//
// The package intentionally keeps implementation concerns (concrete storage
// tiers, the facade's tier policy) out of scope, exposing small interfaces to
// enable custom backends and deterministic tests.
package core
