package tui_test

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/quarry/internal/adapters/tui"
)

func TestView_Initialization(t *testing.T) {
	m := tui.Model{}
	assert.Equal(t, "Initializing...", m.View())
}

func TestView_StageList(t *testing.T) {
	m := initModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	start := time.Now()
	m, _ = update(t, m, tui.MsgStageStart{SpanID: "a", Name: "directories", StartTime: start})
	m, _ = update(t, m, tui.MsgStageComplete{SpanID: "a", EndTime: start.Add(time.Second)})
	m, _ = update(t, m, tui.MsgStageStart{SpanID: "b", Name: "manifest", StartTime: start})
	m, _ = update(t, m, tui.MsgStageLog{SpanID: "b", Data: []byte("Fetching version info...\n")})

	out := m.View()
	assert.Contains(t, out, "STAGES")
	assert.Contains(t, out, "✓ directories 1s")
	assert.Contains(t, out, "● manifest")
	assert.Contains(t, out, "○ libraries")
	assert.Contains(t, out, "OUTPUT: manifest (Following)")
	assert.Contains(t, out, "Fetching version info...")
}

func TestView_FailedStage(t *testing.T) {
	m := initModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	now := time.Now()
	m, _ = update(t, m, tui.MsgStageStart{SpanID: "a", Name: "libraries", StartTime: now})
	m, _ = update(t, m, tui.MsgStageComplete{SpanID: "a", EndTime: now, Err: errors.New("no network")})

	out := m.View()
	assert.Contains(t, out, "✗ libraries")
	assert.Contains(t, out, "FAILED: libraries")
	assert.Contains(t, out, "no network")
}
