package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harrison/plumb/internal/models"
)

// exitCoder is implemented by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// CommandEngine hands the selected files to an external tool.
// A zero exit status is ok, a non-zero one ko.
type CommandEngine struct {
	Kind          models.ActionKind
	Command       []string            // argv prefix, e.g. ["golangci-lint", "run"]
	AimArgs       map[string][]string // extra arguments per action flag, e.g. "aim:fix" -> ["--fix"]
	ExtensionFlag string              // flag carrying simple-mode extensions, e.g. "--ext"
	Runner        CommandRunner
}

// Run builds the command line for req and executes it.
func (e *CommandEngine) Run(ctx context.Context, req Request) (*models.ActionResult, error) {
	if len(e.Command) == 0 {
		return nil, fmt.Errorf("no command configured for %s", e.Kind)
	}

	if req.Explicit() && len(req.Files) == 0 {
		result := &models.ActionResult{Status: models.StatusOK, Output: "no input files\n"}
		return result, WriteReports(req, result)
	}

	args := e.Args(req)
	start := time.Now()
	output, err := e.Runner.Run(ctx, req.ModulePath, e.Command[0], args...)

	result := &models.ActionResult{
		Status:   models.StatusOK,
		Output:   output,
		Duration: time.Since(start),
	}
	if err != nil {
		var coder exitCoder
		if !errors.As(err, &coder) {
			return nil, fmt.Errorf("failed to run %s: %w", e.Command[0], err)
		}
		result.Status = models.StatusKO
	}

	return result, WriteReports(req, result)
}

// Args returns the arguments passed after the command name.
func (e *CommandEngine) Args(req Request) []string {
	args := append([]string{}, e.Command[1:]...)
	for _, flag := range req.Flags {
		args = append(args, e.AimArgs[flag]...)
	}

	if req.Explicit() {
		return append(args, models.Paths(req.Files)...)
	}
	if e.ExtensionFlag != "" && len(req.Extensions) > 0 {
		args = append(args, e.ExtensionFlag, strings.Join(req.Extensions, ","))
	}
	return append(args, req.PathPatterns...)
}
