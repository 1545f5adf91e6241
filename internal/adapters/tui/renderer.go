package tui

import (
	"context"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/quarry/internal/ui/output"
)

// NewModel creates a model that follows the running stage and sets the
// lipgloss color profile for w.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.New(w).Profile)

	return Model{
		StageMap:   make(map[string]*StageNode),
		SpanMap:    make(map[string]*StageNode),
		FollowMode: true,
	}
}

// Renderer wraps the Bubble Tea program as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit resets the stage list.
func (r *Renderer) OnPlanEmit(stages []string) {
	r.program.Send(MsgInitStages{Stages: stages})
}

// OnTaskStart forwards stage start events to the TUI.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.program.Send(MsgStageStart{SpanID: spanID, Name: name, StartTime: startTime})
}

// OnTaskLog forwards stage output to the TUI.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.program.Send(MsgStageLog{SpanID: spanID, Data: data})
}

// OnTaskComplete forwards stage completion events to the TUI.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgStageComplete{SpanID: spanID, EndTime: endTime, Err: err})
}
