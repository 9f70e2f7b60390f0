// Package action holds the terminal-action engines: the linters, test runners
// and markdown checkers that consume the selected files. The executor only
// reads the status of what an engine returns.
package action

import (
	"context"
	"os/exec"

	"github.com/harrison/plumb/internal/models"
)

// Request is everything an engine receives from the executor.
type Request struct {
	Kind            models.ActionKind
	ModulePath      string            // Working directory of the run
	Flags           []string          // Action flags, including mode markers
	PathPatterns    []string          // Discovery roots (simple mode)
	Extensions      []string          // Discovery extensions (simple mode)
	Files           []models.PathInfo // Selected inputs (explicit mode)
	OutputDirectory string            // Where report artifacts go; empty disables reports
	OutputName      string            // Base name of report artifacts
}

// Explicit reports whether inputs were already discovered by the executor.
func (r Request) Explicit() bool {
	for _, flag := range r.Flags {
		if flag == models.FlagNoGlobInputPaths {
			return true
		}
	}
	return false
}

// HasFlag reports whether flag was passed.
func (r Request) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Engine runs one terminal action. A failing check is reported through the
// result status; an error means the engine itself could not run.
type Engine interface {
	Run(ctx context.Context, req Request) (*models.ActionResult, error)
}

// Registry maps each action to the engine that serves it.
type Registry map[models.ActionKind]Engine

// CommandRunner abstracts command execution for testing.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (output string, err error)
}

// ExecCommandRunner executes commands directly, without a shell.
type ExecCommandRunner struct{}

// NewExecCommandRunner creates a CommandRunner that executes real commands.
func NewExecCommandRunner() *ExecCommandRunner {
	return &ExecCommandRunner{}
}

// Run executes name with args in dir and returns combined stdout/stderr.
func (r *ExecCommandRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	return string(output), err
}
