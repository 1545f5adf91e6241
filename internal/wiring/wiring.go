// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/quarry/internal/adapters/config"
	_ "go.trai.ch/quarry/internal/adapters/fetch"
	_ "go.trai.ch/quarry/internal/adapters/jre"
	_ "go.trai.ch/quarry/internal/adapters/logger"
	_ "go.trai.ch/quarry/internal/adapters/manifest"
	_ "go.trai.ch/quarry/internal/adapters/modpack"
	_ "go.trai.ch/quarry/internal/adapters/natives"
	_ "go.trai.ch/quarry/internal/adapters/process"
	_ "go.trai.ch/quarry/internal/adapters/store"
	// Register app and engine nodes.
	_ "go.trai.ch/quarry/internal/app"
	_ "go.trai.ch/quarry/internal/engine/launch"
	_ "go.trai.ch/quarry/internal/engine/libraries"
)
