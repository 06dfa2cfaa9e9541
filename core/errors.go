package core

import "fmt"

var (
	// ErrCorruptRecord is returned when a stored blob does not match the
	// expected record envelope and cannot be adopted as a candidate.
	ErrCorruptRecord = fmt.Errorf("corrupt record")

	// ErrUnavailable is returned by backends that cannot currently serve
	// operations (never opened, or already closed).
	ErrUnavailable = fmt.Errorf("backend unavailable")
)
