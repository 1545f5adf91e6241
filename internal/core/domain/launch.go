package domain

import (
	"context"
	"time"
)

// LaunchState is a state of the launch pipeline.
type LaunchState int

const (
	// StateIdle is the initial state.
	StateIdle LaunchState = iota
	// StateDirectoriesReady means the cache tree exists.
	StateDirectoriesReady
	// StateManifestReady means the merged manifest is resolved.
	StateManifestReady
	// StateLibrariesReady means the classpath and natives are materialized.
	StateLibrariesReady
	// StateAssetsReady means the asset store is populated.
	StateAssetsReady
	// StateJavaReady means a runtime executable is selected.
	StateJavaReady
	// StateCommandBuilt means the process specification is assembled.
	StateCommandBuilt
	// StateRunning means the game process started.
	StateRunning
	// StateFailed is terminal and carries the triggering error.
	StateFailed
)

var launchStateNames = [...]string{
	StateIdle:             "idle",
	StateDirectoriesReady: "directories",
	StateManifestReady:    "manifest",
	StateLibrariesReady:   "libraries",
	StateAssetsReady:      "assets",
	StateJavaReady:        "java",
	StateCommandBuilt:     "command",
	StateRunning:          "running",
	StateFailed:           "failed",
}

func (s LaunchState) String() string {
	if s < 0 || int(s) >= len(launchStateNames) {
		return "unknown"
	}
	return launchStateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s LaunchState) Terminal() bool {
	return s == StateRunning || s == StateFailed
}

// StatusEvent is one human-readable progress report of a pipeline run.
type StatusEvent struct {
	RunID   string
	Stage   string
	Message string
	Err     error
	Time    time.Time
	// Done and Total carry batch progress when non-zero.
	Done  int
	Total int
}

// Send delivers ev on events, stamping its time. A nil channel discards the
// event and a done context abandons the send.
func Send(ctx context.Context, events chan<- StatusEvent, ev StatusEvent) {
	if events == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// Session is the identity the game is launched with.
type Session struct {
	Username    string `json:"username"`
	UUID        string `json:"uuid,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	Offline     bool   `json:"offline"`
}

// Offline-mode placeholders substituted for an absent uuid or token.
const (
	OfflineUUID  = "00000000-0000-0000-0000-000000000000"
	OfflineToken = "0"
)

// Settings are the user preferences the pipeline consumes.
type Settings struct {
	JavaPath      string `mapstructure:"java_path" yaml:"java_path"`
	RAM           int    `mapstructure:"ram" yaml:"ram"`
	Width         int    `mapstructure:"width" yaml:"width"`
	Height        int    `mapstructure:"height" yaml:"height"`
	Fullscreen    bool   `mapstructure:"fullscreen" yaml:"fullscreen"`
	RepoURL       string `mapstructure:"repo_url" yaml:"repo_url"`
	AutoClose     bool   `mapstructure:"auto_close" yaml:"auto_close"`
	LastVersionID string `mapstructure:"last_version_id" yaml:"last_version_id,omitempty"`
}

// JavaOverride returns the configured executable, or "" when the runtime
// should be provisioned automatically.
func (s *Settings) JavaOverride() string {
	if s.JavaPath == "" || s.JavaPath == "java" {
		return ""
	}
	return s.JavaPath
}

// ProcessSpec is a fully assembled game invocation.
type ProcessSpec struct {
	Path string
	Args []string
	Dir  string
}
