package template

import (
	"sync"
	"time"
)

// DefaultDebounce is how long the editor waits after the last edit before
// publishing a new snapshot for preview rendering.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer coalesces bursts of edits into a single snapshot publication.
// The callback runs on a timer goroutine after the quiet period elapses.
type Debouncer struct {
	interval time.Duration
	publish  func(map[string]any)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]any
}

// NewDebouncer creates a debouncer that calls publish once edits settle.
func NewDebouncer(interval time.Duration, publish func(map[string]any)) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{interval: interval, publish: publish}
}

// Update records the latest document and restarts the quiet-period timer.
func (d *Debouncer) Update(doc map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = doc
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	doc := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if doc != nil {
		d.publish(doc)
	}
}

// Flush publishes any pending snapshot immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fire()
}

// Stop cancels any pending publication.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
