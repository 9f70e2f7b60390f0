package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/plumb/internal/config"
	"github.com/harrison/plumb/internal/filtering"
	"github.com/harrison/plumb/internal/models"
)

const selectionHelp = `Entries are "path" or "path;tag1 tag2" (quote them for the shell).
An entry tagged @load is a list file: one entry per line, blank lines and
lines starting with # are skipped.`

// addSelectionFlags registers one repeatable flag per filtering field and the
// action flag list.
func addSelectionFlags(cmd *cobra.Command) {
	for _, field := range filtering.AllFields() {
		cmd.Flags().StringArray(strings.TrimPrefix(field.Flag(), "--"), nil,
			fmt.Sprintf("Filter on %s (repeatable)", field.Name()))
	}
	cmd.Flags().StringArray("flag", nil, "Action flag, e.g. aim:fix or aim:ci (repeatable)")
}

// readSelection builds the file searching from positional entries and the
// filtering flags.
func readSelection(cmd *cobra.Command, args []string) (models.FileSearching, error) {
	var searching models.FileSearching
	for _, arg := range args {
		info := models.ParsePathInfo(arg)
		if info.Path == "" {
			return models.FileSearching{}, fmt.Errorf("invalid entry %q: empty path", arg)
		}
		searching.PathInfos = append(searching.PathInfos, info)
	}

	for _, field := range filtering.AllFields() {
		values, err := cmd.Flags().GetStringArray(strings.TrimPrefix(field.Flag(), "--"))
		if err != nil {
			return models.FileSearching{}, err
		}
		if len(values) > 0 {
			field.Set(&searching.Filtering, values)
		}
	}
	return searching, nil
}

// actionOptions combines the configured default flags with the --flag values.
func actionOptions(cmd *cobra.Command, cfg *config.Config, kind models.ActionKind) (models.ActionOptions, error) {
	cliFlags, err := cmd.Flags().GetStringArray("flag")
	if err != nil {
		return models.ActionOptions{}, err
	}
	flags := append(append([]string{}, cfg.Flags(kind)...), cliFlags...)
	return models.NewActionOptions(kind, flags...)
}

// workingDir resolves --dir, defaulting to the process working directory.
func workingDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		return os.Getwd()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}
	return abs, nil
}

// loadConfig loads the config file for dir and applies flag overrides.
func loadConfig(cmd *cobra.Command, dir string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		// Load from explicit config path
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var logLevel, outputDir *string
	var respectGitignore *bool

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		logLevel = &level
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && logLevel == nil {
		level := "debug"
		logLevel = &level
	}
	if cmd.Flags().Changed("output-dir") {
		out, _ := cmd.Flags().GetString("output-dir")
		outputDir = &out
	}
	if cmd.Flags().Changed("respect-gitignore") {
		respect, _ := cmd.Flags().GetBool("respect-gitignore")
		respectGitignore = &respect
	}

	cfg.MergeWithFlags(logLevel, outputDir, respectGitignore)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
