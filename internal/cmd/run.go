package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/plumb/internal/action"
	"github.com/harrison/plumb/internal/config"
	"github.com/harrison/plumb/internal/display"
	"github.com/harrison/plumb/internal/executor"
	"github.com/harrison/plumb/internal/logger"
	"github.com/harrison/plumb/internal/models"
	"github.com/harrison/plumb/internal/planner"
)

// newCommandRunner creates the runner used by external engines
var newCommandRunner = func() action.CommandRunner {
	return action.NewExecCommandRunner()
}

// newActionCommand creates the lint, test or markdown command
func newActionCommand(kind models.ActionKind, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [entry]...", kind),
		Short: short,
		Long: fmt.Sprintf(`%s.

%s

Configuration is loaded from .plumb/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Let the tool discover inputs below src/ and test/
  plumb %[3]s --with-path-starting src/ --with-path-starting test/

  # Expand src/ on disk and drop fixtures
  plumb %[3]s --with-path-starting src/ --without-path-segment fixture

  # Explicit entries and a list file, keeping phase1 entries
  plumb %[3]s 'a.ts;phase1' 'gen/list.txt;@load' --with-tag phase1

  # Pass action flags
  plumb %[3]s --flag aim:ci`, short, selectionHelp, kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, kind, args)
		},
	}

	addSelectionFlags(cmd)
	cmd.Flags().String("output-dir", "", "Directory for report artifacts (overrides config)")
	cmd.Flags().String("output-name", "", "Base name of report artifacts (default: <action>-<uuid>)")
	cmd.Flags().Bool("respect-gitignore", false, "Skip glob matches ignored by .gitignore")
	cmd.Flags().Bool("verbose", false, "Log every instruction (same as --log-level debug)")

	return cmd
}

// runAction plans the selection, executes it and maps the status to an error
func runAction(cmd *cobra.Command, kind models.ActionKind, args []string) error {
	dir, err := workingDir(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return err
	}

	searching, err := readSelection(cmd, args)
	if err != nil {
		return err
	}
	opts, err := actionOptions(cmd, cfg, kind)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	plan := planner.Plan(searching, opts, cfg.Policy())
	log.LogDebug(fmt.Sprintf("%s plan: %d instruction(s), mode %s", kind, len(plan), planner.Classify(searching, cfg.Policy())))

	out := display.NewFormatter(cmd.OutOrStdout(), display.KindInfo)
	errOut := display.NewFormatter(cmd.ErrOrStderr(), display.KindError)
	outputName, _ := cmd.Flags().GetString("output-name")

	runner := executor.NewRunner(
		executor.RunnerContext{
			CurrentPath:      dir,
			TermFormatter:    out.Format,
			ErrTermFormatter: errOut.Format,
		},
		newRegistry(cfg, newCommandRunner()),
		log,
		executor.Options{
			OutputDirectory:  cfg.OutputDir,
			OutputName:       outputName,
			RespectGitignore: cfg.RespectGitignore,
		},
	)

	result, err := runner.Run(cmd.Context(), plan)
	if err != nil {
		return err
	}
	log.LogSummary(kind, *result)
	if result.Action != nil && len(result.Action.Artifacts) > 0 {
		log.LogInfo(fmt.Sprintf("reports: %s", strings.Join(result.Action.Artifacts, ", ")))
	}

	switch result.Status {
	case models.StatusKO:
		return fmt.Errorf("%w: %s finished with status %s", ErrActionFailed, kind, result.Status)
	case models.StatusWarning:
		log.LogWarn(fmt.Sprintf("%s finished with %d issue(s)", kind, len(result.Action.Issues)))
		if files := issueFiles(result.Action); len(files) > 0 {
			warning := display.WarnFiles(fmt.Sprintf("%s reported warnings", kind), files)
			warning.Display(cmd.ErrOrStderr(), errOut.UsesColor())
		}
	}
	return nil
}

// newRegistry builds one engine per action from configuration
func newRegistry(cfg *config.Config, runner action.CommandRunner) action.Registry {
	registry := action.Registry{
		models.ActionLint: &action.CommandEngine{
			Kind:          models.ActionLint,
			Command:       cfg.Lint.Command,
			AimArgs:       cfg.Lint.AimArgs,
			ExtensionFlag: cfg.Lint.ExtensionFlag,
			Runner:        runner,
		},
		models.ActionTest: &action.CommandEngine{
			Kind:          models.ActionTest,
			Command:       cfg.Test.Command,
			AimArgs:       cfg.Test.AimArgs,
			ExtensionFlag: cfg.Test.ExtensionFlag,
			Runner:        runner,
		},
		models.ActionMarkdown: action.NewMarkdownEngine(cfg.Markdown.MaxLineLength),
	}

	if len(cfg.Markdown.Command) > 0 {
		registry[models.ActionMarkdown] = &action.CommandEngine{
			Kind:    models.ActionMarkdown,
			Command: cfg.Markdown.Command,
			AimArgs: cfg.Markdown.AimArgs,
			Runner:  runner,
		}
	}
	return registry
}

// issueFiles lists the files with issues, in first-seen order
func issueFiles(result *models.ActionResult) []string {
	if result == nil {
		return nil
	}
	seen := make(map[string]bool)
	var files []string
	for _, issue := range result.Issues {
		if !seen[issue.File] {
			seen[issue.File] = true
			files = append(files, issue.File)
		}
	}
	return files
}
