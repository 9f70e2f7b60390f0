package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrison/plumb/internal/logger"
	"github.com/harrison/plumb/internal/models"
	"github.com/harrison/plumb/internal/planner"
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <lint|test|markdown> [entry]...",
		Short: "Print the instructions a selection compiles to",
		Long: `Print the instruction list for an action without executing it.

` + selectionHelp + `

Examples:
  plumb plan lint --with-path-starting src/ --without-path-segment fixture
  plumb plan test 'a.ts;phase1' 'list.txt;@load' --with-tag phase1 --output yaml`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{string(models.ActionLint), string(models.ActionTest), string(models.ActionMarkdown)},
		RunE:      runPlan,
	}

	addSelectionFlags(cmd)
	cmd.Flags().StringP("output", "o", "text", "Output format: text or yaml")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if format != "text" && format != "yaml" {
		return fmt.Errorf("invalid output format %q, must be text or yaml", format)
	}

	dir, err := workingDir(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return err
	}

	kind := models.ActionKind(args[0])
	searching, err := readSelection(cmd, args[1:])
	if err != nil {
		return err
	}
	opts, err := actionOptions(cmd, cfg, kind)
	if err != nil {
		return err
	}

	plan := planner.Plan(searching, opts, cfg.Policy())
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	log.LogInfo(fmt.Sprintf("%s plan: %d instruction(s), mode %s",
		kind, len(plan), planner.Classify(searching, cfg.Policy())))

	out := cmd.OutOrStdout()
	if format == "yaml" {
		data, err := yaml.Marshal(plan)
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	for _, instruction := range plan {
		fmt.Fprintln(out, instruction.String())
	}
	return nil
}
