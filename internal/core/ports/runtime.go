package ports

import "context"

// RuntimeProvisioner locates or installs a Java runtime.
//
//go:generate mockgen -source=runtime.go -destination=mocks/mock_runtime.go -package=mocks
type RuntimeProvisioner interface {
	// Resolve returns the java executable for the given major version.
	// On failure it still returns a usable command name together with
	// domain.ErrRuntimeProvisionFailed.
	Resolve(ctx context.Context, major int) (string, error)
}
