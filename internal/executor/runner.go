// Package executor interprets a planned instruction list against the
// filesystem and hands the selected files to the terminal action engine.
package executor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/plumb/internal/action"
	"github.com/harrison/plumb/internal/display"
	"github.com/harrison/plumb/internal/filtering"
	"github.com/harrison/plumb/internal/models"
)

var (
	// ErrUnknownInstruction is returned for an instruction name the runner cannot execute.
	ErrUnknownInstruction = errors.New("unknown instruction")
	// ErrNoEngine is returned when no engine is registered for the terminal action.
	ErrNoEngine = errors.New("no engine registered")
)

// Logger defines the logging the runner needs.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogError(message string)
	LogInstructionStart(index, total int, instruction models.Instruction)
	LogInstructionComplete(instruction models.Instruction, entries int, duration time.Duration)
}

// RunnerContext bundles the collaborators of one command invocation.
type RunnerContext struct {
	CurrentPath      string              // Root for list files, globbing and actions
	TermFormatter    func(display.Event) // Regular output
	ErrTermFormatter func(display.Event) // Fatal execution errors
}

// Options tune a Runner.
type Options struct {
	OutputDirectory  string // Report directory, relative to CurrentPath unless absolute; empty disables reports
	OutputName       string // Report base name; generated when empty
	RespectGitignore bool   // Drop glob matches ignored by CurrentPath/.gitignore
}

// Runner executes instruction lists. Instructions run strictly in order.
type Runner struct {
	rc      RunnerContext
	engines action.Registry
	logger  Logger
	opts    Options
}

// NewRunner creates a Runner. The logger parameter is optional and can be nil.
func NewRunner(rc RunnerContext, engines action.Registry, logger Logger, opts Options) *Runner {
	return &Runner{rc: rc, engines: engines, logger: logger, opts: opts}
}

// Run executes plan and returns the status of its terminal action. A plan
// without a terminal instruction yields ko. Load and glob failures are
// reported to the error formatter and returned.
func (r *Runner) Run(ctx context.Context, plan []models.Instruction) (*models.RunResult, error) {
	start := time.Now()
	var entries []models.PathInfo

	for i, instruction := range plan {
		r.logStart(i, len(plan), instruction)
		stepStart := time.Now()

		if instruction.IsTerminal() {
			result, err := r.runAction(ctx, instruction, entries)
			if err != nil {
				r.report(fmt.Sprintf("%s failed", instruction.Name), err)
				return nil, err
			}
			r.logComplete(instruction, len(entries), time.Since(stepStart))
			return &models.RunResult{
				Status:       result.Status,
				Entries:      entries,
				Action:       result,
				Instructions: i + 1,
				Duration:     time.Since(start),
			}, nil
		}

		var err error
		entries, err = r.step(ctx, instruction, entries)
		if err != nil {
			return nil, err
		}
		r.logComplete(instruction, len(entries), time.Since(stepStart))
		r.logEntries(instruction, entries)
	}

	return &models.RunResult{
		Status:       models.StatusKO,
		Entries:      entries,
		Instructions: len(plan),
		Duration:     time.Since(start),
	}, nil
}

// step executes one primitive instruction on the accumulated entries.
func (r *Runner) step(ctx context.Context, instruction models.Instruction, entries []models.PathInfo) ([]models.PathInfo, error) {
	switch instruction.Name {
	case models.InstructionFiles:
		return append(entries, Files(instruction.Param(models.ParamTargetFiles))...), nil

	case models.InstructionLoad:
		loaded, err := Load(ctx, r.rc.CurrentPath, instruction.Param(models.ParamTargetFiles))
		if err != nil {
			r.report("Loading list files failed", err)
			return nil, err
		}
		return append(entries, loaded...), nil

	case models.InstructionGlob:
		patterns := instruction.Param(models.ParamTargetFiles)
		start := time.Now()
		matched, err := Glob(ctx, r.rc.CurrentPath, patterns, GlobOptions{RespectGitignore: r.opts.RespectGitignore})
		if err != nil {
			if r.logger != nil {
				r.logger.LogError(fmt.Sprintf("glob %s failed after %s: %v",
					strings.Join(patterns, " "), time.Since(start).Round(time.Millisecond), err))
			}
			r.report("Glob expansion failed", err)
			return nil, err
		}
		return append(entries, matched...), nil

	case models.InstructionFilter:
		predicate := filtering.Deserialize(instruction.Param(models.ParamQuery))
		if r.logger != nil {
			r.logger.LogDebug("filter " + filtering.Describe(predicate))
		}
		return filtering.Apply(predicate, entries), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstruction, instruction.Name)
	}
}

func (r *Runner) runAction(ctx context.Context, instruction models.Instruction, entries []models.PathInfo) (*models.ActionResult, error) {
	opts := *instruction.Action
	engine, ok := r.engines[opts.Kind]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoEngine, opts.Kind)
	}

	req := action.Request{
		Kind:            opts.Kind,
		ModulePath:      r.rc.CurrentPath,
		Flags:           opts.Flags,
		PathPatterns:    opts.TargetFiles,
		Extensions:      opts.Extensions,
		OutputDirectory: r.outputDirectory(),
		OutputName:      r.opts.OutputName,
	}
	if !opts.AutoDiscover() {
		req.Files = entries
	}
	if req.OutputDirectory != "" && req.OutputName == "" {
		req.OutputName = action.DefaultOutputName(opts.Kind)
	}

	result, err := engine.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	if r.rc.TermFormatter != nil {
		r.rc.TermFormatter(display.Event{
			Title:  fmt.Sprintf("%s: %s", opts.Kind, result.Status),
			Detail: strings.TrimSpace(result.Output),
		})
	}
	return result, nil
}

func (r *Runner) outputDirectory() string {
	dir := r.opts.OutputDirectory
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(r.rc.CurrentPath, dir)
}

func (r *Runner) report(title string, err error) {
	if r.rc.ErrTermFormatter != nil {
		r.rc.ErrTermFormatter(display.Event{Title: title, Detail: err.Error()})
	}
}

func (r *Runner) logStart(index, total int, instruction models.Instruction) {
	if r.logger != nil {
		r.logger.LogInstructionStart(index, total, instruction)
	}
}

func (r *Runner) logComplete(instruction models.Instruction, entries int, duration time.Duration) {
	if r.logger != nil {
		r.logger.LogInstructionComplete(instruction, entries, duration)
	}
}

// logEntries traces the accumulated selection after a primitive step.
func (r *Runner) logEntries(instruction models.Instruction, entries []models.PathInfo) {
	if r.logger == nil {
		return
	}
	rendered := make([]string, 0, len(entries))
	for _, entry := range entries {
		rendered = append(rendered, entry.String())
	}
	r.logger.LogTrace(fmt.Sprintf("after %s: [%s]", instruction.Name, strings.Join(rendered, ", ")))
}

// Files parses "path;tag1 tag2" strings into entries.
func Files(targets []string) []models.PathInfo {
	infos := make([]models.PathInfo, 0, len(targets))
	for _, target := range targets {
		infos = append(infos, models.ParsePathInfo(target))
	}
	return infos
}
