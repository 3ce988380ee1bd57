package artifacts

import (
	"sync"

	"go.trai.ch/shade/internal/core/domain"
)

// Outbox is an unbounded queue of reload signals, deduplicated by artifact.
// Push never blocks, so the poller can never stall on the consumer.
type Outbox struct {
	mu      sync.Mutex
	pending []domain.ReloadSignal
	keys    map[domain.ArtifactID]struct{}
	ready   chan struct{}
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{
		keys:  make(map[domain.ArtifactID]struct{}),
		ready: make(chan struct{}, 1),
	}
}

// Push queues sig unless a signal for the same artifact is already pending.
// It reports whether sig was queued.
func (o *Outbox) Push(sig domain.ReloadSignal) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.keys[sig.Artifact]; ok {
		return false
	}
	o.keys[sig.Artifact] = struct{}{}
	o.pending = append(o.pending, sig)

	select {
	case o.ready <- struct{}{}:
	default:
	}
	return true
}

// Drain returns every pending signal in push order and empties the outbox.
func (o *Outbox) Drain() []domain.ReloadSignal {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.pending) == 0 {
		return nil
	}
	out := o.pending
	o.pending = nil
	clear(o.keys)
	return out
}

// Len returns the number of pending signals.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Ready fires after a push. A receive does not guarantee a non-empty Drain,
// since another consumer may have drained first.
func (o *Outbox) Ready() <-chan struct{} {
	return o.ready
}
