// Package artifacts builds shader programs from tracked sources and keeps
// them current while the sources change on disk.
//
// A Manager has two sides. The poller goroutine started by Start only stats
// files and queues reload signals. Every backend call happens on the consumer
// goroutine, inside Build, PollAndApplyReloads, Remove and SetUniform.
package artifacts

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/shade/internal/engine/sourcedb"
	"go.trai.ch/zerr"
)

// Options configures a Manager.
type Options struct {
	// PollInterval is the cadence of the change poller. Zero means domain.DefaultPollInterval.
	PollInterval time.Duration
}

// Manager owns the artifact registry, the change poller and the reload outbox.
type Manager struct {
	sources *sourcedb.DB
	fs      ports.FileSystem
	backend ports.Backend
	hasher  ports.Hasher
	logger  ports.Logger
	tracer  ports.Tracer
	metrics ports.Metrics

	pollInterval time.Duration
	registry     registry
	outbox       *Outbox
	wake         chan struct{}

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Manager over an existing source database.
func New(
	sources *sourcedb.DB,
	fs ports.FileSystem,
	backend ports.Backend,
	hasher ports.Hasher,
	logger ports.Logger,
	tracer ports.Tracer,
	metrics ports.Metrics,
	opts Options,
) *Manager {
	if opts.PollInterval <= 0 {
		opts.PollInterval = domain.DefaultPollInterval
	}
	return &Manager{
		sources:      sources,
		fs:           fs,
		backend:      backend,
		hasher:       hasher,
		logger:       logger,
		tracer:       tracer,
		metrics:      metrics,
		pollInterval: opts.PollInterval,
		outbox:       NewOutbox(),
		wake:         make(chan struct{}, 1),
	}
}

// Sources returns the source database the manager builds from.
func (m *Manager) Sources() *sourcedb.DB {
	return m.sources
}

// Outbox returns the queue the poller feeds.
func (m *Manager) Outbox() *Outbox {
	return m.outbox
}

// Build loads, links, compiles and links the given stage files into a new
// artifact and registers it. Nothing is registered on failure.
// An empty name defaults to the base name of the first path.
func (m *Manager) Build(ctx context.Context, name string, paths []string) (domain.ArtifactID, error) {
	if len(paths) == 0 {
		return 0, zerr.With(domain.ErrNoSources, "artifact", name)
	}
	if name == "" {
		name = filepath.Base(paths[0])
	}

	ctx, span := m.tracer.Start(ctx, "artifact.build")
	defer span.End()
	span.SetAttribute("artifact.name", name)

	art, err := m.build(ctx, name, paths)
	m.metrics.BuildFinished(err)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	art.Generation = 1
	id := m.registry.add(art, m.watched(paths))
	span.SetAttribute("artifact.id", uint64(id))

	m.logger.Info(fmt.Sprintf("built artifact %s (%d stages, %d sources, %d bindings)",
		name, len(art.Stages), len(art.SourceIDs), len(art.Bindings)))
	return id, nil
}

// watched records every file reachable from paths with the modification time
// of the copy in use. Files that never loaded are stamped with their current
// disk time, or zero when missing, so only a later write or their creation
// counts as a change.
func (m *Manager) watched(paths []string) []sourcedb.Watched {
	watch := m.sources.Watched(paths)
	for i, w := range watch {
		if w.Loaded {
			continue
		}
		if modTime, err := m.fs.ModTime(w.Path); err == nil {
			watch[i].ModTime = modTime
		}
	}
	return watch
}

// Dirs returns the sorted, distinct directories of every file an artifact
// reads or tried to read.
func (m *Manager) Dirs() []string {
	var dirs []string
	for _, s := range m.registry.all() {
		s.mu.Lock()
		for _, w := range s.watch {
			dirs = append(dirs, filepath.Dir(w.Path))
		}
		s.mu.Unlock()
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

// Watching reports whether any artifact depends on path.
func (m *Manager) Watching(path string) bool {
	path = filepath.Clean(path)
	for _, s := range m.registry.all() {
		if s.watches(path) {
			return true
		}
	}
	return false
}

// linkedStage is one stage after include resolution and linking.
type linkedStage struct {
	stage   domain.Stage
	text    string
	closure []domain.NodeID
}

// prepare loads every path, resolves its includes and links it.
func (m *Manager) prepare(paths []string) ([]linkedStage, error) {
	stages := make([]linkedStage, 0, len(paths))
	for _, path := range paths {
		kind, err := domain.KindFromPath(path)
		if err != nil {
			return nil, err
		}

		id, err := m.sources.Load(path)
		if err != nil {
			return nil, err
		}
		if err := m.sources.ResolveIncludes(id); err != nil {
			return nil, err
		}
		text, err := m.sources.Link(id)
		if err != nil {
			return nil, err
		}
		closure, err := m.sources.Closure(id)
		if err != nil {
			return nil, err
		}

		src, _ := m.sources.Source(id)
		stages = append(stages, linkedStage{
			stage:   domain.Stage{Path: src.Path, Kind: kind, Root: id},
			text:    text,
			closure: closure,
		})
	}
	return stages, nil
}

// fingerprint identifies the linked input of an artifact.
func (m *Manager) fingerprint(stages []linkedStage) uint64 {
	parts := make([]string, 0, 2*len(stages))
	for _, s := range stages {
		parts = append(parts, s.stage.Path.String(), s.text)
	}
	return m.hasher.SumAll(parts...)
}

func (m *Manager) build(ctx context.Context, name string, paths []string) (*domain.Artifact, error) {
	stages, err := m.prepare(paths)
	if err != nil {
		return nil, err
	}
	return m.compile(ctx, name, stages)
}

// compile runs the backend over prepared stages. Stage handles are disposed
// once the program is linked, or on failure.
func (m *Manager) compile(ctx context.Context, name string, stages []linkedStage) (*domain.Artifact, error) {
	handles := make([]domain.Handle, 0, len(stages))
	defer func() {
		for _, h := range handles {
			m.backend.Dispose(h)
		}
	}()

	for _, s := range stages {
		h, err := m.backend.Compile(ctx, s.text, s.stage.Kind)
		if err != nil {
			return nil, asCompileError(err, s.stage)
		}
		handles = append(handles, h)
	}

	program, err := m.backend.Link(ctx, handles)
	if err != nil {
		return nil, asLinkError(err, stages)
	}

	art := &domain.Artifact{
		Name:        name,
		Handle:      program,
		Stages:      make([]domain.Stage, 0, len(stages)),
		Bindings:    m.bindings(program, stages),
		Fingerprint: m.fingerprint(stages),
		BuiltAt:     time.Now(),
	}
	seen := make(map[domain.NodeID]struct{})
	for _, s := range stages {
		art.Stages = append(art.Stages, s.stage)
		for _, id := range s.closure {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			art.SourceIDs = append(art.SourceIDs, id)
		}
	}
	return art, nil
}

// bindings resolves every scanned or reflected binding name against the program.
// Names the program does not expose are cached as unbound.
func (m *Manager) bindings(program domain.Handle, stages []linkedStage) map[string]domain.BindingLocation {
	var names []string
	for _, s := range stages {
		names = append(names, sourcedb.ScanBindings(s.text)...)
	}
	if r, ok := m.backend.(ports.BindingReflector); ok {
		names = append(names, r.Bindings(program)...)
	}

	out := make(map[string]domain.BindingLocation, len(names))
	for _, name := range names {
		if _, ok := out[name]; ok {
			continue
		}
		loc, ok := m.backend.BindingLocation(program, name)
		out[name] = domain.BindingLocation{Location: loc, Bound: ok}
	}
	return out
}

func asCompileError(err error, stage domain.Stage) error {
	if _, ok := err.(*domain.CompileError); ok { //nolint:errorlint // backends return the typed error unwrapped
		return err
	}
	return &domain.CompileError{Path: stage.Path.String(), Kind: stage.Kind, Log: err.Error()}
}

func asLinkError(err error, stages []linkedStage) error {
	if le, ok := err.(*domain.LinkError); ok { //nolint:errorlint // backends return the typed error unwrapped
		if len(le.Paths) == 0 {
			le.Paths = stagePaths(stages)
		}
		return le
	}
	return &domain.LinkError{Paths: stagePaths(stages), Log: err.Error()}
}

func stagePaths(stages []linkedStage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.stage.Path.String()
	}
	return out
}

// Get returns the latest successfully built state of id. It never blocks.
func (m *Manager) Get(id domain.ArtifactID) (*domain.Artifact, bool) {
	s, ok := m.registry.slot(id)
	if !ok {
		return nil, false
	}
	return s.current.Load(), true
}

// Artifacts returns every registered artifact ordered by id.
func (m *Manager) Artifacts() []*domain.Artifact {
	return m.registry.snapshot()
}

// State is the reload state of one artifact.
type State struct {
	Status domain.ArtifactStatus
	// LastError is the error of the last failed reload, kept until a reload succeeds.
	LastError error
}

// Status returns the reload state of id.
func (m *Manager) Status(id domain.ArtifactID) (State, bool) {
	s, ok := m.registry.slot(id)
	if !ok {
		return State{}, false
	}
	status, err := s.state()
	return State{Status: status, LastError: err}, true
}

// Remove unregisters id and disposes its program. Sources stay loaded, and
// pending signals for id are dropped as stale. Removed ids are never reissued.
func (m *Manager) Remove(id domain.ArtifactID) bool {
	s, ok := m.registry.remove(id)
	if !ok {
		return false
	}
	art := s.current.Load()
	m.backend.Dispose(art.Handle)
	m.logger.Info(fmt.Sprintf("removed artifact %s", art.Name))
	return true
}

// SetUniform forwards a binding value to the backend.
// Names that were scanned but not exposed by the program, and names never
// scanned, fail with domain.ErrBindingUnbound.
func (m *Manager) SetUniform(id domain.ArtifactID, name string, value any) error {
	art, ok := m.Get(id)
	if !ok {
		return zerr.With(domain.ErrArtifactNotFound, "artifact", uint64(id))
	}

	loc, ok := art.Binding(name)
	if !ok || !loc.Bound {
		return zerr.With(zerr.With(domain.ErrBindingUnbound, "artifact", art.Name), "binding", name)
	}

	setter, ok := m.backend.(ports.UniformSetter)
	if !ok {
		return domain.ErrUniformsUnsupported
	}
	if err := setter.SetUniform(art.Handle, loc.Location, value); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set uniform"), "binding", name)
	}
	return nil
}
