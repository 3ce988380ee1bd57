package ports

import (
	"context"

	"go.trai.ch/shade/internal/core/domain"
)

// Backend compiles and links shader stages. Every call happens on the
// goroutine that drives the artifact manager.
//
//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Compile compiles the linked text of one stage.
	// Rejections are reported as *domain.CompileError carrying the diagnostics.
	Compile(ctx context.Context, text string, kind domain.ShaderKind) (domain.Handle, error)

	// Link links compiled stages, in order, into a program.
	// Failures are reported as *domain.LinkError carrying the diagnostics.
	Link(ctx context.Context, stages []domain.Handle) (domain.Handle, error)

	// BindingLocation looks up a named binding of a linked program.
	// ok is false when the program has no such binding.
	BindingLocation(program domain.Handle, name string) (location int32, ok bool)

	// Dispose releases a stage or program handle.
	Dispose(handle domain.Handle)
}

// BindingReflector is implemented by backends that can enumerate the bindings
// of a linked program themselves.
type BindingReflector interface {
	Bindings(program domain.Handle) []string
}

// UniformSetter is implemented by backends that accept binding values.
// Accepted values are float32, int32, [2]float32, [3]float32, [4]float32 and [16]float32.
type UniformSetter interface {
	SetUniform(program domain.Handle, location int32, value any) error
}
