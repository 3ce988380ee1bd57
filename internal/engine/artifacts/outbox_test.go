package artifacts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/engine/artifacts"
)

func TestOutbox_DeduplicatesByArtifact(t *testing.T) {
	o := artifacts.NewOutbox()

	assert.True(t, o.Push(domain.ReloadSignal{Artifact: 1, Path: "a.fs"}))
	assert.True(t, o.Push(domain.ReloadSignal{Artifact: 2, Path: "b.fs"}))
	assert.False(t, o.Push(domain.ReloadSignal{Artifact: 1, Path: "common.glsl"}))
	assert.Equal(t, 2, o.Len())

	got := o.Drain()
	assert.Equal(t, []domain.ReloadSignal{
		{Artifact: 1, Path: "a.fs"},
		{Artifact: 2, Path: "b.fs"},
	}, got)
	assert.Equal(t, 0, o.Len())
	assert.Nil(t, o.Drain())

	// Draining clears the dedup keys.
	assert.True(t, o.Push(domain.ReloadSignal{Artifact: 1}))
}

func TestOutbox_Ready(t *testing.T) {
	o := artifacts.NewOutbox()

	select {
	case <-o.Ready():
		t.Fatal("empty outbox must not be ready")
	default:
	}

	o.Push(domain.ReloadSignal{Artifact: 1})
	o.Push(domain.ReloadSignal{Artifact: 2})

	<-o.Ready()
	select {
	case <-o.Ready():
		t.Fatal("ready notifications coalesce")
	default:
	}
}
