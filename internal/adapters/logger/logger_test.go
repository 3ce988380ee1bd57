package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/internal/adapters/logger"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden")
	lg.Info("built artifact post")
	lg.Warn("reload of post failed")

	g := goldie.New(t)
	g.Assert(t, "levels_info", buf.Bytes())
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetLevel(domain.LogLevelDebug)
	lg.Debug("stat failed")
	assert.Equal(t, "● stat failed\n", buf.String())

	buf.Reset()
	lg.SetLevel(domain.LogLevelError)
	lg.Info("dropped")
	lg.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestLogger_Error(t *testing.T) {
	lg, buf := newTestLogger(t)

	err := zerr.Wrap(errors.New("0:3: syntax error"), "reload of post failed")
	lg.Error(err)

	g := goldie.New(t)
	g.Assert(t, "error_chain", buf.Bytes())
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")
	lg.Error(errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "hello", first["msg"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "boom", second["error"])
}

func TestLogger_SetOutputKeepsJSON(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	other := &bytes.Buffer{}
	lg.SetOutput(other)
	lg.Info("moved")

	assert.Contains(t, other.String(), `"msg":"moved"`)
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name: "two entries with caused by",
			entries: []logger.ErrorEntry{
				{Message: "outer error"},
				{Message: "inner error"},
			},
			want: "Error: outer error\n\n  Caused by:\n    → inner error",
		},
		{
			name: "metadata sorted alphabetically",
			entries: []logger.ErrorEntry{
				{Message: "error", Metadata: map[string]any{"path": "/s/a.fs", "extension": ".glsl"}},
			},
			want: "Error: error\n       extension: .glsl\n       path: /s/a.fs",
		},
		{
			name: "multiline cause with metadata",
			entries: []logger.ErrorEntry{
				{Message: "main"},
				{Message: "compile failed\n0:1: error", Metadata: map[string]any{"stage": "FRAGMENT"}},
			},
			want: "Error: main\n\n  Caused by:\n    → compile failed\n      0:1: error\n      stage: FRAGMENT",
		},
		{
			name:    "empty entries",
			entries: []logger.ErrorEntry{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}

func TestCollectErrorEntries(t *testing.T) {
	t.Run("standard error", func(t *testing.T) {
		entries := logger.CollectErrorEntriesExported(errors.New("simple"))
		require.Len(t, entries, 1)
		assert.Equal(t, "simple", entries[0].Message)
		assert.Nil(t, entries[0].Metadata)
	})

	t.Run("zerr chain with metadata", func(t *testing.T) {
		inner := zerr.With(zerr.New("unknown shader kind"), "path", "/s/a.glsl")
		outer := zerr.Wrap(inner, "build failed")

		entries := logger.CollectErrorEntriesExported(outer)
		require.Len(t, entries, 2)
		assert.Equal(t, "build failed", entries[0].Message)
		assert.Equal(t, "unknown shader kind", entries[1].Message)
		assert.Equal(t, "/s/a.glsl", entries[1].Metadata["path"])
	})

	t.Run("typed error ends the chain", func(t *testing.T) {
		err := zerr.Wrap(&domain.LinkError{Paths: []string{"/a.vs"}, Log: "no main"}, "reload failed")

		entries := logger.CollectErrorEntriesExported(err)
		require.Len(t, entries, 2)
		assert.Equal(t, "program link failed: /a.vs\nno main", entries[1].Message)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, logger.CollectErrorEntriesExported(nil))
	})
}
