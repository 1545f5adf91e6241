package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
)

const (
	// LayoutNodeID is the unique identifier for the cache layout Graft node.
	LayoutNodeID graft.ID = "adapter.layout"
	// NodeID is the unique identifier for the settings Graft node.
	NodeID graft.ID = "adapter.settings"
)

func init() {
	graft.Register(graft.Node[domain.Layout]{
		ID:        LayoutNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (domain.Layout, error) {
			return ResolveLayout()
		},
	})

	graft.Register(graft.Node[ports.SettingsStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{LayoutNodeID},
		Run: func(ctx context.Context) (ports.SettingsStore, error) {
			layout, err := graft.Dep[domain.Layout](ctx)
			if err != nil {
				return nil, err
			}
			return LoadSettings(layout.SettingsPath())
		},
	})
}
