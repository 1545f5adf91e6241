package launch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quarry/internal/adapters/config"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/adapters/fetch"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/adapters/jre"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/adapters/manifest" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/adapters/process"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/quarry/internal/engine/libraries"
)

// NodeID is the unique identifier for the launch assembler Graft node.
const NodeID graft.ID = "engine.launch"

func init() {
	graft.Register(graft.Node[*Assembler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.LayoutNodeID,
			manifest.NodeID,
			libraries.NodeID,
			fetch.NodeID,
			jre.NodeID,
			process.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Assembler, error) {
			layout, err := graft.Dep[domain.Layout](ctx)
			if err != nil {
				return nil, err
			}

			manifests, err := graft.Dep[ports.ManifestStore](ctx)
			if err != nil {
				return nil, err
			}

			libs, err := graft.Dep[*libraries.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}

			runtime, err := graft.Dep[ports.RuntimeProvisioner](ctx)
			if err != nil {
				return nil, err
			}

			launcher, err := graft.Dep[ports.ProcessLauncher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewAssembler(layout, manifests, libs, fetcher, runtime, launcher, log), nil
		},
	})
}
