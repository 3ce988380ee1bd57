package backend

import (
	"context"

	"go.trai.ch/shade/internal/adapters/shell"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
)

var (
	_ ports.Backend          = (*Command)(nil)
	_ ports.BindingReflector = (*Command)(nil)
	_ ports.UniformSetter    = (*Command)(nil)
)

// Command validates every stage with an external compiler and keeps
// handles, links and binding locations the way the Null backend does.
type Command struct {
	*Null
	compiler *shell.Compiler
}

// NewCommand creates a Command backend that runs compiler on each stage.
func NewCommand(compiler *shell.Compiler) *Command {
	return &Command{Null: NewNull(), compiler: compiler}
}

// Compile runs the external compiler, then registers the stage.
func (c *Command) Compile(ctx context.Context, text string, kind domain.ShaderKind) (domain.Handle, error) {
	if err := c.compiler.Check(ctx, text, kind); err != nil {
		return 0, err
	}
	return c.Null.Compile(ctx, text, kind)
}
