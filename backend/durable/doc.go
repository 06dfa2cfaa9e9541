// Package durable implements the durable tier: a SQLite-backed backend whose
// records outlive the process until explicitly removed. Expiry is not swept
// here; the facade checks record expirations lazily at read time, so this
// tier only ever sees opaque values.
package durable
