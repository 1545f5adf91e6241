package jre

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quarry/internal/adapters/config"
	"go.trai.ch/quarry/internal/adapters/fetch"
	"go.trai.ch/quarry/internal/adapters/logger"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
)

// NodeID is the unique identifier for the runtime provisioner Graft node.
const NodeID graft.ID = "adapter.jre"

func init() {
	graft.Register(graft.Node[ports.RuntimeProvisioner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.LayoutNodeID, fetch.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.RuntimeProvisioner, error) {
			layout, err := graft.Dep[domain.Layout](ctx)
			if err != nil {
				return nil, err
			}
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(layout, fetcher, log), nil
		},
	})
}
