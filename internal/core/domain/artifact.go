package domain

import (
	"slices"
	"time"
)

// ArtifactID identifies a registered artifact. IDs are never reused.
type ArtifactID uint64

// Handle is an opaque backend resource (a compiled stage or a linked program).
// The zero Handle is never issued by a backend.
type Handle uint64

// BindingLocation is the cached backend location of a named binding.
// Bound is false when the backend reported the name as absent.
type BindingLocation struct {
	Location int32
	Bound    bool
}

// Stage is one source file of an artifact together with its kind.
type Stage struct {
	Path InternedString
	Kind ShaderKind
	Root NodeID
}

// Artifact is a compiled, linked program built from one or more source files.
// Published artifacts are immutable; a reload publishes a new value.
type Artifact struct {
	ID         ArtifactID
	Generation uint64
	Name       string
	Handle     Handle
	Stages     []Stage
	// SourceIDs lists every source node that contributed to the linked text,
	// in link order, without duplicates.
	SourceIDs   []NodeID
	Bindings    map[string]BindingLocation
	Fingerprint uint64
	BuiltAt     time.Time
}

// DependsOn reports whether the source node contributed to the artifact.
func (a *Artifact) DependsOn(id NodeID) bool {
	return slices.Contains(a.SourceIDs, id)
}

// Binding returns the cached location for name.
// ok is false when the name was never scanned; a scanned but absent name
// returns ok with Bound set to false.
func (a *Artifact) Binding(name string) (BindingLocation, bool) {
	loc, ok := a.Bindings[name]
	return loc, ok
}

// Paths returns the stage paths in declaration order.
func (a *Artifact) Paths() []string {
	out := make([]string, len(a.Stages))
	for i, s := range a.Stages {
		out[i] = s.Path.String()
	}
	return out
}

// ReloadSignal asks the consumer to rebuild an artifact.
type ReloadSignal struct {
	Artifact   ArtifactID
	Generation uint64
	Source     NodeID
	Path       string
	DetectedAt time.Time
}
