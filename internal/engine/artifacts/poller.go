package artifacts

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/shade/internal/core/domain"
)

// Start launches the change poller. It runs until ctx is canceled or
// Shutdown is called.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return domain.ErrManagerStarted
	}
	m.started = true

	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.poll(ctx)
	}()
	return nil
}

// Wake makes the poller scan now instead of at its next tick.
// It never blocks; wake-ups requested while one is pending coalesce.
func (m *Manager) Wake() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Shutdown stops the poller and waits for it to exit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *Manager) poll(ctx context.Context) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-m.wake:
		}
		if ctx.Err() != nil {
			return
		}
		m.Scan()
	}
}

// Scan stats every file an artifact was built from and queues a reload signal
// for every artifact with a file newer on disk than the copy its last build
// attempt used. Each artifact keeps its own record, so a shared include
// refreshed by one artifact's reload still signals the others. Files that
// failed to load are watched too, so creating or fixing them triggers a retry.
// Scan never calls the backend and returns the number of signals queued.
func (m *Manager) Scan() int {
	type statResult struct {
		modTime time.Time
		ok      bool
	}
	stats := make(map[string]statResult)
	stat := func(path string) (time.Time, bool) {
		if r, ok := stats[path]; ok {
			return r.modTime, r.ok
		}
		modTime, err := m.fs.ModTime(path)
		if err != nil {
			m.logger.Debug(fmt.Sprintf("skipping %s: %v", path, err))
		}
		stats[path] = statResult{modTime: modTime, ok: err == nil}
		return modTime, err == nil
	}

	queued := 0
	for _, s := range m.registry.all() {
		w, ok := s.changed(stat)
		if !ok {
			continue
		}

		art := s.current.Load()
		sig := domain.ReloadSignal{
			Artifact:   art.ID,
			Generation: art.Generation,
			Source:     w.ID,
			Path:       w.Path,
			DetectedAt: time.Now(),
		}
		s.markPending()
		if m.outbox.Push(sig) {
			queued++
		}
	}

	if queued > 0 {
		m.metrics.SignalsQueued(queued)
	}
	return queued
}
