package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounce_CoalescesBurst(t *testing.T) {
	var calls atomic.Int32
	trigger, stop := New(func() { calls.Add(1) }, 20*time.Millisecond)
	defer stop()

	for i := 0; i < 5; i++ {
		trigger()
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 },
		time.Second, 5*time.Millisecond)

	// Quiet period over; a new trigger fires again.
	trigger()
	assert.Eventually(t, func() bool { return calls.Load() == 2 },
		time.Second, 5*time.Millisecond)
}

func TestDebounce_StopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	trigger, stop := New(func() { calls.Add(1) }, 10*time.Millisecond)

	trigger()
	stop()
	stop() // safe to repeat

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebounce_NoTriggerNoCall(t *testing.T) {
	var calls atomic.Int32
	_, stop := New(func() { calls.Add(1) }, time.Millisecond)
	defer stop()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
