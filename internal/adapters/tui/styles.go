package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/quarry/internal/ui/style"
)

var (
	stagePendingStyle = lipgloss.NewStyle().
				Foreground(style.Stone)

	stageRunningStyle = lipgloss.NewStyle().
				Foreground(style.Lapis).
				Bold(true)

	stageDoneStyle = lipgloss.NewStyle().
			Foreground(style.Moss)

	stageErrorStyle = lipgloss.NewStyle().
			Foreground(style.Rust)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Lapis).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Lapis).
			Foreground(style.Chalk)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Rust).
				Foreground(style.Chalk)

	listStyle = lipgloss.NewStyle().
			PaddingRight(2)

	logStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(style.Stone).
			PaddingLeft(1)
)
