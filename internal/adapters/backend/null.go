package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/shade/internal/engine/sourcedb"
	"go.trai.ch/zerr"
)

var (
	_ ports.Backend          = (*Null)(nil)
	_ ports.BindingReflector = (*Null)(nil)
	_ ports.UniformSetter    = (*Null)(nil)
)

// Null is a headless backend. Every non-empty stage compiles, and a linked
// program exposes the `uniform` names declared in its stages, numbered in
// order of first declaration.
type Null struct {
	mu       sync.Mutex
	next     domain.Handle
	stages   map[domain.Handle]string
	programs map[domain.Handle]*nullProgram
}

type nullProgram struct {
	names     []string
	locations map[string]int32
	values    map[int32]any
}

// NewNull creates a Null backend.
func NewNull() *Null {
	return &Null{
		stages:   make(map[domain.Handle]string),
		programs: make(map[domain.Handle]*nullProgram),
	}
}

// Compile accepts any stage with non-blank text.
func (n *Null) Compile(ctx context.Context, text string, kind domain.ShaderKind) (domain.Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, &domain.CompileError{Kind: kind, Log: "empty shader source"}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.next++
	n.stages[n.next] = text
	return n.next, nil
}

// Link combines live stage handles into a program.
func (n *Null) Link(ctx context.Context, stages []domain.Handle) (domain.Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(stages) == 0 {
		return 0, &domain.LinkError{Log: "no stages to link"}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	prog := &nullProgram{
		locations: make(map[string]int32),
		values:    make(map[int32]any),
	}
	for _, h := range stages {
		text, ok := n.stages[h]
		if !ok {
			return 0, &domain.LinkError{Log: fmt.Sprintf("unknown stage handle %d", h)}
		}
		for _, name := range sourcedb.ScanBindings(text) {
			if _, ok := prog.locations[name]; ok {
				continue
			}
			prog.locations[name] = int32(len(prog.names)) //nolint:gosec // bounded by the number of declarations
			prog.names = append(prog.names, name)
		}
	}

	n.next++
	n.programs[n.next] = prog
	return n.next, nil
}

// BindingLocation returns the location of name in program.
func (n *Null) BindingLocation(program domain.Handle, name string) (int32, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prog, ok := n.programs[program]
	if !ok {
		return -1, false
	}
	loc, ok := prog.locations[name]
	if !ok {
		return -1, false
	}
	return loc, true
}

// Bindings returns the binding names of program in declaration order.
func (n *Null) Bindings(program domain.Handle) []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if prog, ok := n.programs[program]; ok {
		return append([]string(nil), prog.names...)
	}
	return nil
}

// SetUniform stores value at location of program.
func (n *Null) SetUniform(program domain.Handle, location int32, value any) error {
	if err := checkUniformValue(value); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	prog, ok := n.programs[program]
	if !ok {
		return zerr.With(errUnknownProgram, "program", uint64(program))
	}
	if location < 0 || int(location) >= len(prog.names) {
		return zerr.With(errUnknownLocation, "location", location)
	}
	prog.values[location] = value
	return nil
}

// Uniform returns the value last set for name in program.
func (n *Null) Uniform(program domain.Handle, name string) (any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prog, ok := n.programs[program]
	if !ok {
		return nil, false
	}
	loc, ok := prog.locations[name]
	if !ok {
		return nil, false
	}
	v, ok := prog.values[loc]
	return v, ok
}

// Dispose releases a stage or program handle. Unknown handles are ignored.
func (n *Null) Dispose(h domain.Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.stages, h)
	delete(n.programs, h)
}

// Live returns the number of handles not yet disposed.
func (n *Null) Live() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stages) + len(n.programs)
}
