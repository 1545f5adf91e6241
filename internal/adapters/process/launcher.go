// Package process starts the game as a child process with inherited I/O.
package process

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/zerr"
)

// Launcher implements ports.ProcessLauncher.
type Launcher struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithIO replaces the inherited standard streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// New creates a Launcher that hands the parent's standard streams to the game.
func New(opts ...Option) *Launcher {
	l := &Launcher{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start runs spec in its working directory and returns the live process.
func (l *Launcher) Start(spec domain.ProcessSpec) (ports.Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...) //nolint:gosec // command is assembled from the resolved manifest
	cmd.Dir = spec.Dir
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	if err := cmd.Start(); err != nil {
		return nil, errors.Join(domain.ErrProcessStartFailed, zerr.With(zerr.Wrap(err, "exec"), "path", spec.Path))
	}
	return &gameProcess{cmd: cmd}, nil
}

type gameProcess struct {
	cmd *exec.Cmd
}

func (p *gameProcess) Wait() error {
	return p.cmd.Wait()
}

func (p *gameProcess) Kill() error {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *gameProcess) Pid() int {
	return p.cmd.Process.Pid
}
