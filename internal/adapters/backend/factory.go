package backend

import (
	"go.trai.ch/shade/internal/adapters/shell"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

// Factory creates the backend named by a project's configuration.
type Factory func(project *domain.Project, logger ports.Logger) (ports.Backend, error)

// New creates the backend selected by project. An empty name selects the null backend.
func New(project *domain.Project, logger ports.Logger) (ports.Backend, error) {
	switch project.Backend {
	case "", domain.BackendNull:
		return NewNull(), nil
	case domain.BackendNaga:
		return NewNaga(NagaOptions{}), nil
	case domain.BackendCommand:
		if len(project.Compiler.Command) == 0 {
			return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed, "key", "compiler.command"), "backend", project.Backend)
		}
		return NewCommand(shell.NewCompiler(project.Compiler, logger)), nil
	default:
		return nil, zerr.With(domain.ErrUnknownBackend, "backend", project.Backend)
	}
}
