package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/cmd/shade/commands"
	"go.trai.ch/shade/internal/app"
	"go.trai.ch/shade/internal/build"
	"go.trai.ch/shade/internal/core/domain"
)

type mockApp struct {
	watchFunc    func(ctx context.Context, opts app.WatchOptions) error
	checkFunc    func(ctx context.Context, opts app.ConfigOptions) (app.CheckResult, error)
	linkFunc     func(path string) (string, error)
	bindingsFunc func(path string) ([]string, error)
	listFunc     func(opts app.ListOptions) ([]app.ShaderEntry, error)
}

func (m *mockApp) Watch(ctx context.Context, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Check(ctx context.Context, opts app.ConfigOptions) (app.CheckResult, error) {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, opts)
	}
	return app.CheckResult{}, nil
}

func (m *mockApp) Link(path string) (string, error) {
	if m.linkFunc != nil {
		return m.linkFunc(path)
	}
	return "", nil
}

func (m *mockApp) Bindings(path string) ([]string, error) {
	if m.bindingsFunc != nil {
		return m.bindingsFunc(path)
	}
	return nil, nil
}

func (m *mockApp) List(opts app.ListOptions) ([]app.ShaderEntry, error) {
	if m.listFunc != nil {
		return m.listFunc(opts)
	}
	return nil, nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Watch(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.WatchOptions
		mock := &mockApp{
			watchFunc: func(_ context.Context, opts app.WatchOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "watch", "--config", "demo/shade.yaml", "--metrics-addr", ":9090")
		require.NoError(t, err)
		assert.Equal(t, "demo/shade.yaml", captured.ConfigPath)
		assert.Equal(t, ":9090", captured.MetricsAddr)
	})

	t.Run("returns error on watch failure", func(t *testing.T) {
		mock := &mockApp{
			watchFunc: func(context.Context, app.WatchOptions) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "watch")
		require.ErrorContains(t, err, "simulated error")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "watch", "extra")
		require.Error(t, err)
	})
}

func TestCommands_Check(t *testing.T) {
	t.Run("prints summary on success", func(t *testing.T) {
		mock := &mockApp{
			checkFunc: func(context.Context, app.ConfigOptions) (app.CheckResult, error) {
				return app.CheckResult{Programs: 3, Duration: 42 * time.Millisecond}, nil
			},
		}

		out, err := execute(t, mock, "check")
		require.NoError(t, err)
		assert.Equal(t, "✓ 3 programs compiled in 42ms\n", out)
	})

	t.Run("prints failures and returns the build error", func(t *testing.T) {
		mock := &mockApp{
			checkFunc: func(context.Context, app.ConfigOptions) (app.CheckResult, error) {
				return app.CheckResult{Programs: 3, Failed: 2}, domain.ErrBuildFailed
			},
		}

		out, err := execute(t, mock, "check")
		require.ErrorIs(t, err, domain.ErrBuildFailed)
		assert.Equal(t, "✗ 2 of 3 programs failed\n", out)
	})

	t.Run("config errors print no summary", func(t *testing.T) {
		mock := &mockApp{
			checkFunc: func(context.Context, app.ConfigOptions) (app.CheckResult, error) {
				return app.CheckResult{}, domain.ErrConfigNotFound
			},
		}

		out, err := execute(t, mock, "check")
		require.ErrorIs(t, err, domain.ErrConfigNotFound)
		assert.Empty(t, out)
	})
}

func TestCommands_Link(t *testing.T) {
	var captured string
	mock := &mockApp{
		linkFunc: func(path string) (string, error) {
			captured = path
			return "uniform float time;\nvoid main() {}\n", nil
		},
	}

	out, err := execute(t, mock, "link", "post.fs")
	require.NoError(t, err)
	assert.Equal(t, "post.fs", captured)
	assert.Equal(t, "uniform float time;\nvoid main() {}\n", out)

	_, err = execute(t, mock, "link")
	require.Error(t, err)
}

func TestCommands_Bindings(t *testing.T) {
	mock := &mockApp{
		bindingsFunc: func(string) ([]string, error) {
			return []string{"mvp", "time"}, nil
		},
	}

	out, err := execute(t, mock, "bindings", "post.vs")
	require.NoError(t, err)
	assert.Equal(t, "mvp\ntime\n", out)

	mock.bindingsFunc = func(string) ([]string, error) {
		return nil, domain.ErrCyclicInclude
	}
	_, err = execute(t, mock, "bindings", "post.vs")
	require.ErrorIs(t, err, domain.ErrCyclicInclude)
}

func TestCommands_List(t *testing.T) {
	var captured app.ListOptions
	mock := &mockApp{
		listFunc: func(opts app.ListOptions) ([]app.ShaderEntry, error) {
			captured = opts
			return []app.ShaderEntry{
				{Path: "post.fs", Kind: domain.KindFragment, Includes: []string{"lib/common.glsl"}},
				{Path: "broken.vs", Err: errors.New("cyclic include\nmore detail")},
			}, nil
		},
	}

	out, err := execute(t, mock, "ls", "shaders", "--ignore", "vendor", "--ignore", "*.tmp", "-c", "shade.yaml")
	require.NoError(t, err)
	assert.Equal(t, "shaders", captured.Dir)
	assert.Equal(t, []string{"vendor", "*.tmp"}, captured.Ignores)
	assert.Equal(t, "shade.yaml", captured.ConfigPath)
	assert.Equal(t, "● post.fs fragment\n  → lib/common.glsl\n✗ broken.vs cyclic include\n", out)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "shade version "+build.Version)
}
