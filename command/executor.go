package command

import (
	"context"
	"os/exec"
)

// Executor creates exec.Cmd instances. Tests substitute one that points at
// stub binaries.
type Executor interface {
	Command(name string, args ...string) *exec.Cmd
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
	LookPath(file string) (string, error)
}

// RealExecutor uses os/exec directly.
type RealExecutor struct{}

func (e *RealExecutor) Command(name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...)
}

func (e *RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
