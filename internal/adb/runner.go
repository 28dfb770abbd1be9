package adb

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Result is the outcome of one external command.
type Result struct {
	OK     bool
	Stdout string
	Stderr string
}

// Runner executes an external command and captures its output.
// A command that cannot be started yields OK=false with the error text in Stderr.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Result
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run blocks until the command exits or ctx is cancelled.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) Result {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return Result{Stdout: stdout.String(), Stderr: msg}
	}
	return Result{OK: true, Stdout: stdout.String(), Stderr: stderr.String()}
}
