package backend

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Backend          = (*Naga)(nil)
	_ ports.BindingReflector = (*Naga)(nil)
	_ ports.UniformSetter    = (*Naga)(nil)
)

// NagaOptions configures the naga backend.
type NagaOptions struct {
	// Validate runs IR validation before code generation.
	Validate bool
	// Debug emits SPIR-V debug names.
	Debug bool
}

// Naga compiles WGSL modules to SPIR-V with the pure Go naga compiler.
// A binding location packs the resource group into the upper 16 bits and the
// binding index into the lower 16 bits.
type Naga struct {
	opts NagaOptions

	mu       sync.Mutex
	next     domain.Handle
	modules  map[domain.Handle]*nagaModule
	programs map[domain.Handle]*nagaProgram
}

type nagaModule struct {
	entryPoints []entryPoint
	globals     map[string]int32
	spirv       []byte
}

type entryPoint struct {
	name  string
	stage ir.ShaderStage
}

type nagaProgram struct {
	modules   [][]byte
	entries   []entryPoint
	locations map[string]int32
	values    map[int32]any
}

// NewNaga creates a naga backend.
func NewNaga(opts NagaOptions) *Naga {
	return &Naga{
		opts:     opts,
		modules:  make(map[domain.Handle]*nagaModule),
		programs: make(map[domain.Handle]*nagaProgram),
	}
}

// Compile parses, lowers and generates SPIR-V for one WGSL module.
func (n *Naga) Compile(ctx context.Context, text string, kind domain.ShaderKind) (domain.Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if kind != domain.KindModule {
		return 0, &domain.CompileError{Kind: kind, Log: "the naga backend only compiles WGSL modules"}
	}

	fail := func(err error) (domain.Handle, error) {
		return 0, &domain.CompileError{Kind: kind, Log: err.Error()}
	}

	ast, err := naga.Parse(text)
	if err != nil {
		return fail(err)
	}
	module, err := naga.LowerWithSource(ast, text)
	if err != nil {
		return fail(err)
	}
	if n.opts.Validate {
		issues, err := naga.Validate(module)
		if err != nil {
			return fail(err)
		}
		if len(issues) > 0 {
			msgs := make([]string, len(issues))
			for i, issue := range issues {
				msgs[i] = issue.Error()
			}
			return 0, &domain.CompileError{Kind: kind, Log: strings.Join(msgs, "\n")}
		}
	}
	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3, Debug: n.opts.Debug})
	if err != nil {
		return fail(err)
	}

	compiled := &nagaModule{
		globals: make(map[string]int32),
		spirv:   code,
	}
	for _, ep := range module.EntryPoints {
		compiled.entryPoints = append(compiled.entryPoints, entryPoint{name: ep.Name, stage: ep.Stage})
	}
	for _, g := range module.GlobalVariables {
		if g.Binding == nil || g.Name == "" {
			continue
		}
		compiled.globals[g.Name] = packBinding(g.Binding)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.next++
	n.modules[n.next] = compiled
	return n.next, nil
}

// Link checks that the modules form a usable program: at least one entry
// point, no entry point declared twice for the same stage, and no resource
// binding claimed by two names or a name bound twice differently.
func (n *Naga) Link(ctx context.Context, stages []domain.Handle) (domain.Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	prog := &nagaProgram{
		locations: make(map[string]int32),
		values:    make(map[int32]any),
	}
	owners := make(map[int32]string)
	for _, h := range stages {
		m, ok := n.modules[h]
		if !ok {
			return 0, &domain.LinkError{Log: fmt.Sprintf("unknown module handle %d", h)}
		}
		for _, ep := range m.entryPoints {
			if slices.Contains(prog.entries, ep) {
				return 0, &domain.LinkError{Log: fmt.Sprintf("entry point %s declared twice", ep.name)}
			}
			prog.entries = append(prog.entries, ep)
		}
		for name, loc := range m.globals {
			if prev, ok := prog.locations[name]; ok && prev != loc {
				return 0, &domain.LinkError{Log: fmt.Sprintf("%s is bound to %s and %s", name, formatBinding(prev), formatBinding(loc))}
			}
			if owner, ok := owners[loc]; ok && owner != name {
				return 0, &domain.LinkError{Log: fmt.Sprintf("%s is claimed by %s and %s", formatBinding(loc), owner, name)}
			}
			prog.locations[name] = loc
			owners[loc] = name
		}
		prog.modules = append(prog.modules, m.spirv)
	}
	if len(prog.entries) == 0 {
		return 0, &domain.LinkError{Log: "program has no entry point"}
	}

	n.next++
	n.programs[n.next] = prog
	return n.next, nil
}

// BindingLocation returns the packed group and binding of name.
func (n *Naga) BindingLocation(program domain.Handle, name string) (int32, bool) {
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

// Bindings returns the sorted names of every bound global variable.
func (n *Naga) Bindings(program domain.Handle) []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	prog, ok := n.programs[program]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(prog.locations))
	for name := range prog.locations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetUniform records the value for a bound resource.
func (n *Naga) SetUniform(program domain.Handle, location int32, value any) error {
	if err := checkUniformValue(value); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	prog, ok := n.programs[program]
	if !ok {
		return zerr.With(errUnknownProgram, "program", uint64(program))
	}
	if !slices.Contains(slices.Collect(maps.Values(prog.locations)), location) {
		return zerr.With(errUnknownLocation, "location", formatBinding(location))
	}
	prog.values[location] = value
	return nil
}

// SPIRV returns the SPIR-V binaries of a linked program, one per module.
func (n *Naga) SPIRV(program domain.Handle) ([][]byte, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prog, ok := n.programs[program]
	if !ok {
		return nil, false
	}
	return slices.Clone(prog.modules), true
}

// Dispose releases a module or program handle. Unknown handles are ignored.
func (n *Naga) Dispose(h domain.Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.modules, h)
	delete(n.programs, h)
}

func packBinding(b *ir.ResourceBinding) int32 {
	return int32((b.Group&0x7fff)<<16 | (b.Binding & 0xffff)) //nolint:gosec // both halves are masked
}

func formatBinding(loc int32) string {
	return fmt.Sprintf("@group(%d) @binding(%d)", loc>>16, loc&0xffff)
}
