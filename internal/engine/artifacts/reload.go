package artifacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/zerr"
)

// ReloadResult describes one reload attempt.
type ReloadResult struct {
	Artifact   domain.ArtifactID
	Name       string
	Outcome    domain.ReloadOutcome
	Generation uint64
	Duration   time.Duration
	Err        error
}

// ReloadReport summarizes one drain.
type ReloadReport struct {
	Results []ReloadResult
}

// Count returns the number of results with the given outcome.
func (r ReloadReport) Count(outcome domain.ReloadOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Err joins the errors of every failed reload.
func (r ReloadReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// PollAndApplyReloads drains the outbox and reloads every flagged artifact
// once. A failed reload keeps the previous artifact live. Errors are logged
// and reported, never returned, so the caller's frame always proceeds.
func (m *Manager) PollAndApplyReloads(ctx context.Context) ReloadReport {
	signals := m.outbox.Drain()
	if len(signals) == 0 {
		return ReloadReport{}
	}

	var report ReloadReport
	seen := make(map[domain.ArtifactID]struct{}, len(signals))
	for _, sig := range signals {
		if _, ok := seen[sig.Artifact]; ok {
			continue
		}
		seen[sig.Artifact] = struct{}{}

		s, ok := m.registry.slot(sig.Artifact)
		if !ok {
			m.logger.Debug(fmt.Sprintf("dropping stale reload signal for artifact %d", sig.Artifact))
			report.Results = append(report.Results, ReloadResult{Artifact: sig.Artifact, Outcome: domain.OutcomeStale})
			m.metrics.ReloadFinished(domain.OutcomeStale, 0)
			continue
		}

		res := m.reload(ctx, s, sig)
		m.metrics.ReloadFinished(res.Outcome, res.Duration)
		report.Results = append(report.Results, res)
	}
	return report
}

func (m *Manager) reload(ctx context.Context, s *slot, sig domain.ReloadSignal) ReloadResult {
	start := time.Now()
	prev := s.current.Load()

	ctx, span := m.tracer.Start(ctx, "artifact.reload")
	defer span.End()
	span.SetAttribute("artifact.id", uint64(prev.ID))
	span.SetAttribute("artifact.name", prev.Name)
	span.SetAttribute("trigger", sig.Path)

	res := ReloadResult{Artifact: prev.ID, Name: prev.Name, Generation: prev.Generation}

	fail := func(err error) ReloadResult {
		err = zerr.With(zerr.Wrap(err, "reload of "+prev.Name+" failed"), "trigger", sig.Path)
		span.RecordError(err)
		s.setStatus(domain.StatusCompileFailed, err)
		m.logger.Error(err)

		res.Outcome = domain.OutcomeFailed
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	paths := prev.Paths()
	stages, err := m.prepare(paths)
	s.setWatch(m.watched(paths))
	if err != nil {
		return fail(err)
	}

	if m.fingerprint(stages) == prev.Fingerprint {
		s.setStatus(domain.StatusCompiled, nil)
		m.logger.Debug(fmt.Sprintf("artifact %s unchanged", prev.Name))
		res.Outcome = domain.OutcomeUnchanged
		res.Duration = time.Since(start)
		return res
	}

	next, err := m.compile(ctx, prev.Name, stages)
	if err != nil {
		return fail(err)
	}

	next.ID = prev.ID
	next.Generation = prev.Generation + 1
	s.current.Store(next)
	s.setStatus(domain.StatusCompiled, nil)
	m.backend.Dispose(prev.Handle)

	m.logger.Info(fmt.Sprintf("reloaded artifact %s (generation %d)", next.Name, next.Generation))
	res.Outcome = domain.OutcomeApplied
	res.Generation = next.Generation
	res.Duration = time.Since(start)
	return res
}
