package tui_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quarry/internal/adapters/tui"
)

func headless(t *testing.T) (*tui.Model, *tui.Renderer) {
	t.Helper()
	model := tui.NewModel(io.Discard)
	r := tui.NewRenderer(&model,
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
	return &model, r
}

func TestRenderer_Lifecycle(t *testing.T) {
	_, r := headless(t)
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())
}

func TestRenderer_ForwardsEvents(t *testing.T) {
	model, r := headless(t)
	require.NoError(t, r.Start(context.Background()))

	now := time.Now()
	r.OnPlanEmit([]string{"directories", "manifest"})
	r.OnTaskStart("s1", "", "directories", now)
	r.OnTaskLog("s1", []byte("Preparing to launch 1.20.1...\n"))
	r.OnTaskComplete("s1", now.Add(time.Millisecond), nil)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	require.Len(t, model.Stages, 2)
	require.Equal(t, tui.StatusDone, model.Stages[0].Status)
	require.Equal(t, []string{"Preparing to launch 1.20.1..."}, model.Stages[0].Output())
	require.Equal(t, tui.StatusPending, model.Stages[1].Status)
}
