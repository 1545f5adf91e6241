package ports

import (
	"context"

	"go.trai.ch/quarry/internal/core/domain"
)

// ManifestStore reads version manifests from the cache tree and the remote index.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestStore interface {
	// Resolve returns the manifest of d merged with all its ancestors.
	Resolve(ctx context.Context, d domain.VersionDescriptor) (*domain.Manifest, error)

	// Describe returns the descriptor of an installed or published version.
	Describe(ctx context.Context, id string) (domain.VersionDescriptor, error)

	// Versions returns the remote version list, falling back to the cached copy.
	Versions(ctx context.Context) (*domain.VersionList, error)

	// Installed lists versions and modpacks present in the cache tree.
	Installed() ([]domain.VersionDescriptor, error)
}
