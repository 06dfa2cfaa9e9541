// Package testutil contains helpers shared by keeper's test suites. It is
// internal so the helpers never leak into the public API surface.
package testutil
