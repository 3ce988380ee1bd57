package artifacts_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/internal/adapters/fs"
	"go.trai.ch/shade/internal/adapters/metrics"
	"go.trai.ch/shade/internal/adapters/telemetry"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/shade/internal/core/ports/mocks"
	"go.trai.ch/shade/internal/engine/artifacts"
	"go.trai.ch/shade/internal/engine/sourcedb"
	"go.uber.org/mock/gomock"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	t       *testing.T
	dir     string
	backend *mocks.MockBackend
	metrics *metrics.Prometheus
	mgr     *artifacts.Manager
	next    domain.Handle
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	return newHarnessWithBackend(t, ctrl, backend, backend)
}

// newHarnessWithBackend builds a manager over impl, with expectations set on backend.
func newHarnessWithBackend(t *testing.T, ctrl *gomock.Controller, backend *mocks.MockBackend, impl ports.Backend) *harness {
	t.Helper()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	osfs := fs.NewFileSystem()
	hasher := fs.NewHasher()
	m := metrics.New()

	mgr := artifacts.New(
		sourcedb.New(osfs, hasher),
		osfs,
		impl,
		hasher,
		log,
		telemetry.NewNoOpTracer(),
		m,
		artifacts.Options{PollInterval: time.Second},
	)
	t.Cleanup(mgr.Shutdown)

	return &harness{
		t:       t,
		dir:     t.TempDir(),
		backend: backend,
		metrics: m,
		mgr:     mgr,
		next:    100,
	}
}

// write creates or rewrites a file and sets its modification time.
func (h *harness) write(name, content string, mtime time.Time) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(h.t, os.Chtimes(path, mtime, mtime))
	return path
}

// touch advances the modification time of a file without changing it.
func (h *harness) touch(name string, mtime time.Time) {
	h.t.Helper()
	require.NoError(h.t, os.Chtimes(filepath.Join(h.dir, name), mtime, mtime))
}

func (h *harness) remove(name string) {
	h.t.Helper()
	require.NoError(h.t, os.Remove(filepath.Join(h.dir, name)))
}

func (h *harness) handle() domain.Handle {
	h.next++
	return h.next
}

// expectProgram expects one successful compile of every stage followed by a
// link, and returns the program handle. Stage handles must be disposed.
// locations maps exposed binding names; every other name is absent.
func (h *harness) expectProgram(stages int, locations map[string]int32) domain.Handle {
	h.t.Helper()

	stageHandles := make([]domain.Handle, stages)
	calls := make([]any, 0, stages)
	for i := range stages {
		stageHandles[i] = h.handle()
		calls = append(calls, h.backend.EXPECT().
			Compile(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(stageHandles[i], nil))
	}
	program := h.handle()
	calls = append(calls, h.backend.EXPECT().Link(gomock.Any(), stageHandles).Return(program, nil))
	gomock.InOrder(calls...)

	for _, sh := range stageHandles {
		h.backend.EXPECT().Dispose(sh)
	}
	h.backend.EXPECT().BindingLocation(program, gomock.Any()).DoAndReturn(
		func(_ domain.Handle, name string) (int32, bool) {
			loc, ok := locations[name]
			if !ok {
				return -1, false
			}
			return loc, true
		}).AnyTimes()

	return program
}

func (h *harness) build(name string, paths ...string) domain.ArtifactID {
	h.t.Helper()
	id, err := h.mgr.Build(context.Background(), name, paths)
	require.NoError(h.t, err)
	return id
}
