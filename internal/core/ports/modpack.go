package ports

import (
	"context"

	"go.trai.ch/quarry/internal/core/domain"
)

// ModpackInstaller ingests modpack archives into the cache tree.
//
//go:generate mockgen -source=modpack.go -destination=mocks/mock_modpack.go -package=mocks
type ModpackInstaller interface {
	// Install installs a local archive as the modpack destID.
	// A failed install leaves no destination directory behind.
	Install(ctx context.Context, archive, destID string, events chan<- domain.StatusEvent) (domain.VersionDescriptor, error)

	// Catalog fetches the remote modpack catalog.
	Catalog(ctx context.Context) ([]domain.RemoteModpack, error)

	// InstallRemote downloads and installs a catalog entry.
	InstallRemote(ctx context.Context, pack domain.RemoteModpack, events chan<- domain.StatusEvent) (domain.VersionDescriptor, error)
}
