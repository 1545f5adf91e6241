package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic,
// allowing the same event stream to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called with the ordered stage names of a run.
	OnPlanEmit(stages []string)

	// OnTaskStart is called when a stage begins.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a stage emits status output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a stage finishes; err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
