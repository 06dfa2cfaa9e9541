package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DispatchReachesListeners(t *testing.T) {
	d := NewDispatcher()

	ch1, stop1 := d.Listen("change")
	ch2, stop2 := d.Listen("change")
	defer stop1()
	defer stop2()

	d.Dispatch("change", map[string]any{"field": "name"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "change", ev.Name)
			assert.Equal(t, map[string]any{"field": "name"}, ev.Detail)
			assert.NotEmpty(t, ev.ID)
		case <-time.After(time.Second):
			t.Fatal("listener did not receive event")
		}
	}
}

func TestDispatcher_NameIsolation(t *testing.T) {
	d := NewDispatcher()

	ch, stop := d.Listen("a")
	defer stop()

	d.Dispatch("b", nil)

	select {
	case ev := <-ch:
		t.Fatalf("listener for %q received foreign event %q", "a", ev.Name)
	default:
	}
}

func TestDispatcher_UnsubscribeClosesChannel(t *testing.T) {
	d := NewDispatcher()

	ch, stop := d.Listen("change")
	stop()
	stop() // idempotent

	_, open := <-ch
	assert.False(t, open)

	// Dispatch after unsubscribe does not panic or deliver.
	d.Dispatch("change", nil)
}

func TestDispatcher_FullBufferDropsNotBlocks(t *testing.T) {
	d := NewDispatcher(func(o *DispatcherOptions) { o.Buffer = 1 })

	ch, stop := d.Listen("tick")
	defer stop()

	done := make(chan struct{})
	go func() {
		d.Dispatch("tick", 1)
		d.Dispatch("tick", 2) // buffer full, dropped
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on full listener buffer")
	}

	ev := <-ch
	assert.Equal(t, 1, ev.Detail)
}

func TestDispatcher_DispatchDelayed(t *testing.T) {
	d := NewDispatcher()

	ch, stop := d.Listen("later")
	defer stop()

	d.DispatchDelayed("later", "payload", 5*time.Millisecond)

	select {
	case ev := <-ch:
		assert.Equal(t, "payload", ev.Detail)
	case <-time.After(time.Second):
		t.Fatal("delayed event never arrived")
	}
}

func TestDispatcher_DispatchDelayedCancel(t *testing.T) {
	d := NewDispatcher()

	ch, stop := d.Listen("later")
	defer stop()

	cancel := d.DispatchDelayed("later", nil, 10*time.Millisecond)
	cancel()

	select {
	case <-ch:
		t.Fatal("cancelled event was delivered")
	case <-time.After(50 * time.Millisecond):
	}

	require.NotPanics(t, cancel) // cancelling twice is safe
}
