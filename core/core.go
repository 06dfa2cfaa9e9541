package core

// Backend is the uniform capability contract implemented by every storage
// tier. Values are opaque strings; serialization happens at the boundary so
// that a backend never needs to understand record contents.
//
// Get reports (value, true, nil) on a hit and ("", false, nil) on a clean
// miss; errors are reserved for backend faults (I/O failure, closed handle).
// Implementations must be safe for concurrent use.
type Backend interface {
	// Name identifies the tier in logs ("session", "durable", "cookie").
	Name() string
	// Available reports whether the tier can currently serve operations.
	Available() bool
	// Get retrieves the raw value stored under key.
	Get(key string) (string, bool, error)
	// Set stores (or overwrites) the raw value under key.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
