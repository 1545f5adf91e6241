// Package tui renders launch progress as an interactive terminal view.
package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	stageListWidthRatio = 0.3
	logPaneBorderWidth  = 4
	// defaultMaxLines bounds the output kept per stage.
	defaultMaxLines = 500
)

// StageStatus represents the current state of a stage.
type StageStatus string

const (
	// StatusPending indicates the stage has not started.
	StatusPending StageStatus = "Pending"
	// StatusRunning indicates the stage is in progress.
	StatusRunning StageStatus = "Running"
	// StatusDone indicates the stage completed.
	StatusDone StageStatus = "Done"
	// StatusError indicates the stage failed.
	StatusError StageStatus = "Error"
)

// StageNode is one row of the stage list.
type StageNode struct {
	Name    string
	Status  StageStatus
	Lines   []string
	Err     error
	Started time.Time
	Ended   time.Time

	partial string
}

func (n *StageNode) write(data []byte, maxLines int) {
	text := n.partial + string(data)
	parts := strings.Split(text, "\n")
	n.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		n.Lines = append(n.Lines, line)
	}
	if over := len(n.Lines) - maxLines; over > 0 {
		n.Lines = n.Lines[over:]
	}
}

// Output returns the complete lines followed by any pending partial line.
func (n *StageNode) Output() []string {
	if n.partial == "" {
		return n.Lines
	}
	return append(append([]string(nil), n.Lines...), n.partial)
}

// Model is the TUI state.
type Model struct {
	Stages      []*StageNode
	StageMap    map[string]*StageNode
	SpanMap     map[string]*StageNode
	SelectedIdx int
	FollowMode  bool
	ListWidth   int
	LogWidth    int
	Height      int
	MaxLines    int
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) maxLines() int {
	if m.MaxLines <= 0 {
		return defaultMaxLines
	}
	return m.MaxLines
}

// Selected returns the stage whose output is shown, or nil.
func (m *Model) Selected() *StageNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Stages) {
		return m.Stages[m.SelectedIdx]
	}
	return nil
}

func (m *Model) stage(name string) *StageNode {
	if m.StageMap == nil {
		m.StageMap = make(map[string]*StageNode)
	}
	if node, ok := m.StageMap[name]; ok {
		return node
	}
	node := &StageNode{Name: name, Status: StatusPending}
	m.Stages = append(m.Stages, node)
	m.StageMap[name] = node
	return node
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.FollowMode = false
			}
		case "j", "down":
			if m.SelectedIdx < len(m.Stages)-1 {
				m.SelectedIdx++
				m.FollowMode = false
			}
		case "esc":
			m.FollowMode = true
			for i, s := range m.Stages {
				if s.Status == StatusRunning {
					m.SelectedIdx = i
					break
				}
			}
		}

	case tea.WindowSizeMsg:
		m.ListWidth = int(float64(msg.Width) * stageListWidthRatio)
		m.LogWidth = msg.Width - m.ListWidth - logPaneBorderWidth
		m.Height = msg.Height

	case MsgInitStages:
		m.Stages = make([]*StageNode, 0, len(msg.Stages))
		m.StageMap = make(map[string]*StageNode, len(msg.Stages))
		m.SpanMap = make(map[string]*StageNode)
		m.SelectedIdx = 0
		for _, name := range msg.Stages {
			m.stage(name)
		}

	case MsgStageStart:
		if m.SpanMap == nil {
			m.SpanMap = make(map[string]*StageNode)
		}
		node := m.stage(msg.Name)
		node.Status = StatusRunning
		node.Started = msg.StartTime
		m.SpanMap[msg.SpanID] = node
		if m.FollowMode {
			for i, s := range m.Stages {
				if s == node {
					m.SelectedIdx = i
					break
				}
			}
		}

	case MsgStageLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.write(msg.Data, m.maxLines())
		}

	case MsgStageComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.Ended = msg.EndTime
			node.Err = msg.Err
			if msg.Err != nil {
				node.Status = StatusError
			} else {
				node.Status = StatusDone
			}
		}
	}

	return m, nil
}
