package backend

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the backend factory Graft node.
const NodeID graft.ID = "adapter.backend"

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return New, nil
		},
	})
}
