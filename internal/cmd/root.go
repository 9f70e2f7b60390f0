package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/harrison/plumb/internal/models"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ErrActionFailed is returned when a terminal action finishes with status ko
var ErrActionFailed = errors.New("action failed")

// NewRootCommand creates and returns the root cobra command for plumb
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plumb",
		Short: "File-selection dispatcher for lint, test and markdown tools",
		Long: `Plumb selects files and hands them to lint, test and markdown tools.

A selection is a list of explicit entries ("path;tag1 tag2", or a list file
tagged @load) plus a filtering predicate. Plumb compiles the selection into a
short plan of instructions (files, load, glob, filter), executes it, and runs
the action on the result. When the predicate only uses constraints the tool
understands natively, the tool discovers its own inputs.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: nearest .plumb/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().String("dir", "", "Working directory for the run (default: current directory)")

	cmd.AddCommand(newActionCommand(models.ActionLint, "Lint the selected files"))
	cmd.AddCommand(newActionCommand(models.ActionTest, "Run tests for the selected files"))
	cmd.AddCommand(newActionCommand(models.ActionMarkdown, "Check the selected markdown files"))
	cmd.AddCommand(NewPlanCommand())
	cmd.AddCommand(NewFilterCommand())

	return cmd
}
