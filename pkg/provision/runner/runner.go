// Package runner wraps external process invocation behind a small interface
// so provisioning steps can be exercised against a fake in tests.
package runner

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes a command with stdout/stderr attached to the process.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// RunInput executes a command feeding input on stdin. Used for tools
	// that read confirmation prompts from standard input.
	RunInput(ctx context.Context, input string, name string, args ...string) error

	// LookPath reports whether a command is available on PATH.
	LookPath(name string) bool
}

// ExecRunner runs commands on the host via os/exec.
type ExecRunner struct{}

// New returns a host-backed Runner.
func New() *ExecRunner {
	return &ExecRunner{}
}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (ExecRunner) RunInput(ctx context.Context, input string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
