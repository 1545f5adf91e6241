package app_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quarry/internal/app"
	_ "go.trai.ch/quarry/internal/wiring" // Register providers
)

func TestAppWiring(t *testing.T) {
	t.Setenv("QUARRY_GAME_DIR", t.TempDir())

	// Verify that the application graph can be constructed
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
