package store

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quarry/internal/adapters/config"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
)

const (
	// SessionNodeID is the unique identifier for the session store Graft node.
	SessionNodeID graft.ID = "adapter.session_store"
	// MetadataNodeID is the unique identifier for the instance metadata Graft node.
	MetadataNodeID graft.ID = "adapter.metadata_store"
)

func init() {
	graft.Register(graft.Node[ports.SessionStore]{
		ID:        SessionNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.LayoutNodeID},
		Run: func(ctx context.Context) (ports.SessionStore, error) {
			layout, err := graft.Dep[domain.Layout](ctx)
			if err != nil {
				return nil, err
			}
			return LoadSessions(layout.SessionPath())
		},
	})

	graft.Register(graft.Node[ports.MetadataStore]{
		ID:        MetadataNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.LayoutNodeID},
		Run: func(ctx context.Context) (ports.MetadataStore, error) {
			layout, err := graft.Dep[domain.Layout](ctx)
			if err != nil {
				return nil, err
			}
			return LoadMetadata(layout.InstancesPath())
		},
	})
}
