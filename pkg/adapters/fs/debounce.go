package fs

import (
	"sync"
	"time"

	"github.com/aretw0/pph/pkg/core"
)

// debouncer coalesces bursts of events per key: an atomic write shows up as
// create+rename+chmod, and only the last event should reach subscribers.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules fn(e) after the delay, replacing a pending event for the same key.
func (d *debouncer) add(e core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.schedule(e, fn)
}

// schedule must be called with d.mu held.
func (d *debouncer) schedule(e core.Event, fn func(core.Event)) {
	if t, ok := d.timers[e.Key]; ok {
		if t.Stop() {
			d.wg.Done()
		}
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		// A timer that fired while add was replacing it must leave the
		// newer entry alone; that entry carries the key's latest event.
		cur, ok := d.timers[e.Key]
		superseded := ok && cur != t
		if !superseded {
			delete(d.timers, e.Key)
		}
		d.mu.Unlock()
		if !superseded {
			fn(e)
		}
	})
	d.timers[e.Key] = t
}

// stopAndWait rejects new events and waits for running callbacks, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
