package libraries

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quarry/internal/adapters/config"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/adapters/fetch"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/adapters/natives" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
)

// NodeID is the unique identifier for the library resolver Graft node.
const NodeID graft.ID = "engine.libraries"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.LayoutNodeID,
			fetch.NodeID,
			natives.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Resolver, error) {
			layout, err := graft.Dep[domain.Layout](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}

			extractor, err := graft.Dep[ports.NativeExtractor](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewResolver(layout, fetcher, extractor, log), nil
		},
	})
}
