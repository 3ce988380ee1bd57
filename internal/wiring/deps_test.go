package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/internal/app"
	_ "go.trai.ch/shade/internal/wiring"
)

// TestGraftDependencies validates the declared dependencies of every node.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers dependency ids from the package of the type
	// passed to Dep[T], and every port lives in the shared ports package.
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}

// TestComponentsResolve builds the whole graph.
func TestComponentsResolve(t *testing.T) {
	c, _, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)
	require.NotNil(t, c.App)
	require.NotNil(t, c.Logger)
}
