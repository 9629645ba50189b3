package client

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is how long change events coalesce before a save.
const DefaultDebounceWindow = 500 * time.Millisecond

// Debouncer coalesces rapid field edits into one save call. Change events
// reset a timer; when it fires, the latest value is saved. A blur flushes
// whatever is pending immediately, so leaving a field never loses the edit.
type Debouncer struct {
	window time.Duration
	save   func(value string)

	mu      sync.Mutex
	timer   *time.Timer
	latest  string
	dirty   bool
	stopped bool
}

// NewDebouncer creates a Debouncer that calls save with the latest value.
// A non-positive window uses DefaultDebounceWindow.
func NewDebouncer(window time.Duration, save func(value string)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window, save: save}
}

// Change records an edit and (re)starts the debounce window.
func (d *Debouncer) Change(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.latest = value
	d.dirty = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Blur flushes the pending value immediately, bypassing the window.
func (d *Debouncer) Blur() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	value, dirty := d.latest, d.dirty
	d.dirty = false
	d.mu.Unlock()

	if dirty {
		d.save(value)
	}
}

// Stop cancels any pending save. Edits after Stop are dropped.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.dirty = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || !d.dirty {
		d.mu.Unlock()
		return
	}
	value := d.latest
	d.dirty = false
	d.timer = nil
	d.mu.Unlock()

	d.save(value)
}
