// Package debounce coalesces bursts of calls into a single trailing
// invocation: the wrapped function runs once the trigger has been quiet for
// the full wait interval.
package debounce

import (
	"sync"
	"time"
)

// New wraps fn with trailing-edge debounce semantics. Each trigger call
// restarts the wait interval; fn runs on the timer queue once the interval
// elapses without another trigger. stop cancels any pending invocation and
// is safe to call multiple times.
func New(fn func(), wait time.Duration) (trigger func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer

	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, fn)
	}

	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}

	return trigger, stop
}
