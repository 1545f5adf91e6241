package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quarry/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/adapters/manifest" //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/adapters/modpack"  //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/adapters/store"    //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/quarry/internal/engine/launch"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components is everything the CLI needs from the graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.LayoutNodeID,
			config.NodeID,
			launch.NodeID,
			manifest.NodeID,
			modpack.NodeID,
			store.SessionNodeID,
			store.MetadataNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	layout, err := graft.Dep[domain.Layout](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[ports.SettingsStore](ctx)
	if err != nil {
		return nil, err
	}

	assembler, err := graft.Dep[*launch.Assembler](ctx)
	if err != nil {
		return nil, err
	}

	manifests, err := graft.Dep[ports.ManifestStore](ctx)
	if err != nil {
		return nil, err
	}

	installer, err := graft.Dep[ports.ModpackInstaller](ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := graft.Dep[ports.SessionStore](ctx)
	if err != nil {
		return nil, err
	}

	metadata, err := graft.Dep[ports.MetadataStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(layout, assembler, manifests, installer, settings, sessions, metadata, log), nil
}
