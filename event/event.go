package event

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keeperkv/keeper/core"
	"github.com/keeperkv/keeper/logging"
)

// Event is one dispatched occurrence. After emission it should be treated as
// immutable.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Detail    any       `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Dispatcher fans named events out to registered listeners. It is safe for
// concurrent use. The zero value is not usable; construct via NewDispatcher.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string]map[int]chan Event
	nextID    int
	buffer    int
	clock     core.Clock
	logger    logging.Logger
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// Buffer is the per-listener channel capacity (defaults to 16). When a
	// listener's buffer is full the event is dropped for that listener.
	Buffer int
	// Clock stamps event timestamps (defaults to the system wall clock).
	Clock core.Clock
	// Logger records dropped deliveries (defaults to NoOp logger).
	Logger logging.Logger
}

// NewDispatcher creates a Dispatcher with optional overrides.
func NewDispatcher(optFns ...func(o *DispatcherOptions)) *Dispatcher {
	opts := DispatcherOptions{
		Buffer: 16,
		Clock:  core.SystemClock{},
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 16
	}
	return &Dispatcher{
		listeners: make(map[string]map[int]chan Event),
		buffer:    opts.Buffer,
		clock:     opts.Clock,
		logger:    opts.Logger,
	}
}

// Listen registers a listener for the named event and returns its channel
// together with an unsubscribe function. The channel is closed on
// unsubscribe.
func (d *Dispatcher) Listen(name string) (<-chan Event, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.listeners[name]; !ok {
		d.listeners[name] = make(map[int]chan Event)
	}
	id := d.nextID
	d.nextID++
	ch := make(chan Event, d.buffer)
	d.listeners[name][id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			if set, ok := d.listeners[name]; ok {
				delete(set, id)
				if len(set) == 0 {
					delete(d.listeners, name)
				}
			}
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Dispatch delivers the named event with its detail payload to all current
// listeners. Delivery is non-blocking: full listener buffers drop the event.
func (d *Dispatcher) Dispatch(name string, detail any) {
	ev := Event{
		ID:        uuid.NewString(),
		Name:      name,
		Detail:    detail,
		Timestamp: d.clock.Now(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, ch := range d.listeners[name] {
		select {
		case ch <- ev:
		default:
			d.logger.Warn("event dropped: listener buffer full", "event", name, "event_id", ev.ID)
		}
	}
}

// DispatchDelayed schedules the named event after delay on the timer queue
// and returns a cancel handle. Cancelling after delivery is a no-op.
func (d *Dispatcher) DispatchDelayed(name string, detail any, delay time.Duration) (cancel func()) {
	timer := time.AfterFunc(delay, func() { d.Dispatch(name, detail) })
	return func() { timer.Stop() }
}
