package app

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/shade/internal/adapters/watcher"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/engine/artifacts"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	ConfigOptions
	// MetricsAddr overrides the configured metrics address when set.
	MetricsAddr string
}

// Watch builds every configured program, then keeps them current until ctx
// is canceled. The frame loop drains reloads at the configured frame interval,
// the way a render loop would between frames.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	project, err := a.loadProject(opts.ConfigOptions)
	if err != nil {
		return err
	}
	mgr, err := a.newManager(project)
	if err != nil {
		return err
	}
	defer a.release(mgr)

	if err := a.buildAll(ctx, mgr, project); err != nil {
		return err
	}

	if err := mgr.Start(ctx); err != nil {
		return err
	}
	defer mgr.Shutdown()

	metricsAddr := project.MetricsAddr
	if opts.MetricsAddr != "" {
		metricsAddr = opts.MetricsAddr
	}

	g, ctx := errgroup.WithContext(ctx)

	if project.Watch && a.watcher != nil {
		if err := a.startWatcher(ctx, g, mgr, project.Debounce); err != nil {
			return err
		}
	}

	if metricsAddr != "" {
		g.Go(func() error {
			a.logger.Info("serving metrics on " + metricsAddr)
			return a.metrics.Serve(ctx, metricsAddr)
		})
	}

	g.Go(func() error {
		return a.frameLoop(ctx, mgr, project.FrameInterval)
	})

	a.logger.Info(fmt.Sprintf("watching %d programs", len(project.Programs)))
	return g.Wait()
}

// startWatcher forwards file system events on watched sources to the poller.
// Events for files that do not exist yet count when a build tried to read them.
func (a *App) startWatcher(ctx context.Context, g *errgroup.Group, mgr *artifacts.Manager, window time.Duration) error {
	if err := a.watcher.Start(ctx, mgr.Dirs()); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		a.logger.Debug(fmt.Sprintf("change notification for %d files", len(paths)))
		mgr.Wake()
	})

	g.Go(func() error {
		<-ctx.Done()
		debouncer.Stop()
		return a.watcher.Stop()
	})

	g.Go(func() error {
		for ev := range a.watcher.Events() {
			if mgr.Watching(ev.Path) {
				debouncer.Add(ev.Path)
			}
		}
		return nil
	})
	return nil
}

func (a *App) frameLoop(ctx context.Context, mgr *artifacts.Manager, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		report := mgr.PollAndApplyReloads(ctx)
		if a.watcher == nil {
			continue
		}
		// Reloads, failed ones included, may read includes from new directories.
		if report.Count(domain.OutcomeApplied)+report.Count(domain.OutcomeFailed) > 0 {
			for _, dir := range mgr.Dirs() {
				if err := a.watcher.Add(dir); err != nil {
					a.logger.Warn(err.Error())
				}
			}
		}
	}
}
