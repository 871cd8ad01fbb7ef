package watch

import (
	"sync"
	"time"
)

// debouncer coalesces rapid events on the same path. Each new event for a
// pending path folds its op in and restarts the path's timer.
type debouncer struct {
	delay time.Duration
	out   chan<- Event
	done  <-chan struct{}

	mu       sync.Mutex
	pending  map[string]*pendingEvent
	stopped  bool
	inflight sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration, out chan<- Event, done <-chan struct{}) *debouncer {
	return &debouncer{
		delay:   delay,
		out:     out,
		done:    done,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules event, merging it with any pending event for the same path.
func (d *debouncer) add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if p, ok := d.pending[event.Path]; ok {
		p.event.Op |= event.Op
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(d.delay)
		return
	}

	path := event.Path
	p := &pendingEvent{event: event}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(path) })
	d.pending[path] = p
}

// fire delivers the pending event for path.
func (d *debouncer) fire(path string) {
	d.mu.Lock()
	p, ok := d.pending[path]
	if !ok || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	event := p.event
	d.inflight.Add(1)
	d.mu.Unlock()
	defer d.inflight.Done()

	select {
	case d.out <- event:
	case <-d.done:
	}
}

// stop cancels all pending events and waits for deliveries already in
// progress. The done channel must be closed first.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
	d.mu.Unlock()
	d.inflight.Wait()
}
