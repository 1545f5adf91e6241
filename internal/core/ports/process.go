package ports

import "go.trai.ch/quarry/internal/core/domain"

//go:generate mockgen -source=process.go -destination=mocks/mock_process.go -package=mocks

// ProcessLauncher starts the game process.
type ProcessLauncher interface {
	Start(spec domain.ProcessSpec) (Process, error)
}

// Process is a started game process. The caller owns it.
type Process interface {
	// Wait blocks until the process exits.
	Wait() error
	// Kill terminates the process.
	Kill() error
	// Pid returns the operating system process id.
	Pid() int
}
