package natives

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
)

// NodeID is the unique identifier for the native extractor Graft node.
const NodeID graft.ID = "adapter.natives"

func init() {
	graft.Register(graft.Node[ports.NativeExtractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.NativeExtractor, error) {
			return New(domain.CurrentPlatform()), nil
		},
	})
}
