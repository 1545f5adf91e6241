package process

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quarry/internal/core/ports"
)

// NodeID is the unique identifier for the process launcher Graft node.
const NodeID graft.ID = "adapter.process"

func init() {
	graft.Register(graft.Node[ports.ProcessLauncher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProcessLauncher, error) {
			return New(), nil
		},
	})
}
