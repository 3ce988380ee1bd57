package ports

import (
	"time"

	"go.trai.ch/shade/internal/core/domain"
)

// Metrics records engine counters.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// BuildFinished counts an initial build. err is nil on success.
	BuildFinished(err error)
	// ReloadFinished counts one reload attempt and its duration.
	ReloadFinished(outcome domain.ReloadOutcome, d time.Duration)
	// SignalsQueued counts reload signals pushed by the poller.
	SignalsQueued(n int)
}
