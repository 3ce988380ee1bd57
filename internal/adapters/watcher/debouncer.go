package watcher

import (
	"slices"
	"sync"
	"time"

	"go.trai.ch/shade/internal/core/domain"
)

// Debouncer collects changed paths and hands them over in one sorted batch
// once no new path arrived for the window.
type Debouncer struct {
	mu      sync.Mutex
	pending map[domain.InternedString]struct{}
	timer   *time.Timer
	window  time.Duration
	flush   func(paths []string)
}

// NewDebouncer creates a debouncer that calls flush with each batch.
func NewDebouncer(window time.Duration, flush func(paths []string)) *Debouncer {
	return &Debouncer{
		pending: make(map[domain.InternedString]struct{}),
		window:  window,
		flush:   flush,
	}
}

// Add records path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[domain.NewInternedString(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	paths := d.takeLocked()
	d.mu.Unlock()

	d.deliver(paths)
}

// Flush delivers pending paths now and waits for the callback to return.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// fire is already running and owns the batch.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.takeLocked()
	d.mu.Unlock()

	d.deliver(paths)
}

// Stop drops pending paths without delivering them.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

func (d *Debouncer) takeLocked() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p.String())
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}

func (d *Debouncer) deliver(paths []string) {
	if len(paths) > 0 && d.flush != nil {
		d.flush(paths)
	}
}
