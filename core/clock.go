package core

import "time"

// Clock abstracts the wall-clock time source so expiry decisions can be
// tested deterministically. Production code uses SystemClock; tests inject a
// manually advanced fake.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
