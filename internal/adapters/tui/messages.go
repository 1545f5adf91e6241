package tui

import "time"

// MsgInitStages resets the stage list.
type MsgInitStages struct {
	Stages []string
}

// MsgStageStart indicates a stage span has started.
type MsgStageStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgStageLog carries a chunk of stage output.
type MsgStageLog struct {
	SpanID string
	Data   []byte
}

// MsgStageComplete indicates a stage span has ended.
type MsgStageComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
