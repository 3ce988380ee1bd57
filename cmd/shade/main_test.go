package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/shade/internal/adapters/backend"
	"go.trai.ch/shade/internal/adapters/fs"
	"go.trai.ch/shade/internal/adapters/logger"
	"go.trai.ch/shade/internal/adapters/metrics"
	"go.trai.ch/shade/internal/adapters/telemetry"
	"go.trai.ch/shade/internal/app"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/shade/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newApp(loader ports.ConfigLoader, log ports.Logger) *app.App {
	return app.New(
		loader,
		fs.NewFileSystem(),
		fs.NewHasher(),
		log,
		telemetry.NewNoOpTracer(),
		metrics.New(),
		nil,
		fs.NewWalker(),
		backend.New,
	)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	application := newApp(mocks.NewMockConfigLoader(ctrl), mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, io.Discard, provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "shade version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, io.Discard, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that errors escaping the command are logged.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockLoader.EXPECT().LoadFile("missing.yaml").Return(nil, errors.New("load failed"))
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	application := newApp(mockLoader, mockLogger)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"check", "--config", "missing.yaml"}, io.Discard, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_BuildFailure verifies that build failures exit non-zero without being logged twice.
func TestRun_BuildFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockConfigLoader(ctrl)

	logs := new(bytes.Buffer)
	log := logger.New()
	log.SetOutput(logs)

	dir := t.TempDir()
	project := domain.DefaultProject(dir)
	project.Watch = false
	project.Programs = []domain.Program{{Name: "broken", Paths: []string{filepath.Join(dir, "missing.fs")}}}
	mockLoader.EXPECT().LoadFile("shade.yaml").Return(project, nil)

	application := newApp(mockLoader, log)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"check", "-c", "shade.yaml"}, stdout, io.Discard, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout.String(), "1 of 1 programs failed")
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("failed to build broken")))
}

// TestRun_Signal verifies that canceling the context stops a running watch.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockConfigLoader(ctrl)

	log := logger.New()
	log.SetOutput(io.Discard)

	dir := t.TempDir()
	project := domain.DefaultProject(dir)
	project.Watch = false
	mockLoader.EXPECT().LoadFile("shade.yaml").Return(project, nil)

	application := newApp(mockLoader, log)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"watch", "-c", "shade.yaml"}, io.Discard, io.Discard,
			func(context.Context) (*app.Components, func(), error) {
				return &app.Components{App: application, Logger: log}, func() {}, nil
			})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case ret := <-errCh:
		assert.Equal(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
