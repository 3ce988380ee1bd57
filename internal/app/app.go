// Package app implements the application layer for shade.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.trai.ch/shade/internal/adapters/backend"
	"go.trai.ch/shade/internal/adapters/fs"
	"go.trai.ch/shade/internal/adapters/metrics"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/shade/internal/engine/artifacts"
	"go.trai.ch/shade/internal/engine/sourcedb"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	fs           ports.FileSystem
	hasher       ports.Hasher
	logger       ports.Logger
	tracer       ports.Tracer
	metrics      *metrics.Prometheus
	watcher      ports.Watcher
	walker       *fs.Walker
	newBackend   backend.Factory
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	fileSystem ports.FileSystem,
	hasher ports.Hasher,
	log ports.Logger,
	tracer ports.Tracer,
	m *metrics.Prometheus,
	watcher ports.Watcher,
	walker *fs.Walker,
	newBackend backend.Factory,
) *App {
	return &App{
		configLoader: loader,
		fs:           fileSystem,
		hasher:       hasher,
		logger:       log,
		tracer:       tracer,
		metrics:      m,
		watcher:      watcher,
		walker:       walker,
		newBackend:   newBackend,
	}
}

// ConfigOptions selects the configuration file.
type ConfigOptions struct {
	// ConfigPath is an explicit config file. Empty means discovery from the working directory.
	ConfigPath string
}

// logSettings is implemented by loggers that follow the project's log settings.
type logSettings interface {
	SetJSON(enable bool)
	SetLevel(level domain.LogLevel)
}

// loadProject reads the configuration and applies its log settings.
func (a *App) loadProject(opts ConfigOptions) (*domain.Project, error) {
	var (
		project *domain.Project
		err     error
	)
	if opts.ConfigPath != "" {
		project, err = a.configLoader.LoadFile(opts.ConfigPath)
	} else {
		var cwd string
		cwd, err = os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
		project, err = a.configLoader.Load(cwd)
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if ls, ok := a.logger.(logSettings); ok {
		ls.SetJSON(project.LogFormat == domain.LogFormatJSON)
		ls.SetLevel(project.LogLevel)
	}
	return project, nil
}

// newManager creates an artifact manager over the project's backend.
func (a *App) newManager(project *domain.Project) (*artifacts.Manager, error) {
	b, err := a.newBackend(project, a.logger)
	if err != nil {
		return nil, err
	}
	return artifacts.New(
		sourcedb.New(a.fs, a.hasher),
		a.fs,
		b,
		a.hasher,
		a.logger,
		a.tracer,
		a.metrics,
		artifacts.Options{PollInterval: project.PollInterval},
	), nil
}

// buildAll builds every configured program. Every program is attempted; the
// returned error joins domain.ErrBuildFailed with each failure.
func (a *App) buildAll(ctx context.Context, mgr *artifacts.Manager, project *domain.Project) error {
	var errs []error
	for _, prog := range project.Programs {
		if _, err := mgr.Build(ctx, prog.Name, prog.Paths); err != nil {
			err = zerr.With(zerr.Wrap(err, "failed to build "+prog.Name), "program", prog.Name)
			a.logger.Error(err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrBuildFailed}, errs...)...)
	}
	return nil
}

// release removes every artifact of mgr and disposes its program.
func (a *App) release(mgr *artifacts.Manager) {
	for _, art := range mgr.Artifacts() {
		mgr.Remove(art.ID)
	}
}

// CheckResult summarizes a check run.
type CheckResult struct {
	Programs int
	Failed   int
	Duration time.Duration
}

// Check builds every configured program once and releases the results.
func (a *App) Check(ctx context.Context, opts ConfigOptions) (CheckResult, error) {
	start := time.Now()
	project, err := a.loadProject(opts)
	if err != nil {
		return CheckResult{}, err
	}
	mgr, err := a.newManager(project)
	if err != nil {
		return CheckResult{}, err
	}

	err = a.buildAll(ctx, mgr, project)
	res := CheckResult{
		Programs: len(project.Programs),
		Failed:   len(project.Programs) - len(mgr.Artifacts()),
	}
	a.release(mgr)
	res.Duration = time.Since(start)

	if err == nil {
		a.logger.Info(fmt.Sprintf("checked %d programs", res.Programs))
	}
	return res, err
}
