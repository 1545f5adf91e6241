// Package detector chooses between the interactive and the linear renderer.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// DetectEnvironment returns the recommended output mode. A non-terminal
// stdout or a set CI variable selects the linear renderer.
func DetectEnvironment() OutputMode {
	if isCI() || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeLinear
	}
	return ModeTUI
}

func isCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// ResolveMode applies the user's flag to the detected mode.
// userFlag is one of "auto", "tui", "linear", "ci" or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
