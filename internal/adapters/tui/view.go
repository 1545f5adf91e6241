package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/quarry/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.Height == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		listStyle.Width(m.ListWidth).Render(m.stageList()),
		logStyle.Render(m.logPane()),
	)
}

func (m *Model) stageList() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("STAGES") + "\n\n")
	for i, node := range m.Stages {
		s.WriteString(m.renderStageRow(i, node) + "\n")
	}
	return s.String()
}

func (m *Model) renderStageRow(index int, node *StageNode) string {
	rowStyle := stageStyle(node.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if node.Status != StatusDone && node.Status != StatusError {
			rowStyle = selectedStyle
		}
	}

	content := fmt.Sprintf("%s %s", stageIcon(node.Status), node.Name)
	if !node.Ended.IsZero() {
		content += " " + node.Ended.Sub(node.Started).Round(100*time.Millisecond).String()
	}
	return cursor + rowStyle.Render(content)
}

func stageIcon(status StageStatus) string {
	switch status {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusError:
		return style.Cross
	default:
		return style.Circle
	}
}

func stageStyle(status StageStatus) lipgloss.Style {
	switch status {
	case StatusRunning:
		return stageRunningStyle
	case StatusDone:
		return stageDoneStyle
	case StatusError:
		return stageErrorStyle
	default:
		return stagePendingStyle
	}
}

func (m *Model) logPane() string {
	node := m.Selected()
	if node == nil {
		return titleStyle.Render("OUTPUT (Waiting...)")
	}

	mode := " (Manual)"
	if m.FollowMode {
		mode = " (Following)"
	}
	header := titleStyle.Render("OUTPUT: " + node.Name + mode)
	if node.Status == StatusError {
		header = failureTitleStyle.Render("FAILED: " + node.Name)
	}

	lines := node.Output()
	if visible := m.Height - lipgloss.Height(header) - 1; visible > 0 && len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	if node.Err != nil {
		lines = append(lines, stageErrorStyle.Render(node.Err.Error()))
	}

	body := lipgloss.NewStyle().MaxWidth(max(m.LogWidth, 1)).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}
