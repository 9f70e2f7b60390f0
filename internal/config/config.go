package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/plumb/internal/filtering"
	"github.com/harrison/plumb/internal/logger"
	"github.com/harrison/plumb/internal/models"
)

// CommandConfig describes an external tool serving one action
type CommandConfig struct {
	// Command is the argv prefix, e.g. ["golangci-lint", "run"]
	Command []string `yaml:"command"`

	// Flags are action flags applied on every invocation, before CLI flags
	Flags []string `yaml:"flags"`

	// AimArgs maps an action flag to extra tool arguments, e.g. aim:fix -> [--fix]
	AimArgs map[string][]string `yaml:"aim_args"`

	// ExtensionFlag carries the extension list in simple mode, e.g. "--ext"
	ExtensionFlag string `yaml:"extension_flag"`
}

// MarkdownConfig configures the markdown action
type MarkdownConfig struct {
	// MaxLineLength is the longest accepted line (0 disables the rule)
	MaxLineLength int `yaml:"max_line_length"`

	// Flags are action flags applied on every invocation, before CLI flags
	Flags []string `yaml:"flags"`

	// Command replaces the built-in checker with an external tool when set
	Command []string `yaml:"command"`

	// AimArgs maps an action flag to extra arguments for Command
	AimArgs map[string][]string `yaml:"aim_args"`
}

// Config represents plumb configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// OutputDir is the directory where report artifacts are written ("" disables reports)
	OutputDir string `yaml:"output_dir"`

	// AdvancedFields lists the filtering fields that force glob expansion.
	// Unset keeps the default set; an explicit empty list marks none.
	AdvancedFields []string `yaml:"advanced_fields"`

	// RespectGitignore drops glob matches ignored by .gitignore
	RespectGitignore bool `yaml:"respect_gitignore"`

	Lint     CommandConfig  `yaml:"lint"`
	Test     CommandConfig  `yaml:"test"`
	Markdown MarkdownConfig `yaml:"markdown"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		OutputDir: filepath.Join(DirName, "reports"),
		Lint: CommandConfig{
			Command: []string{"golangci-lint", "run"},
			AimArgs: map[string][]string{
				models.FlagAimFix: {"--fix"},
			},
		},
		Test: CommandConfig{
			Command: []string{"go", "test"},
			AimArgs: map[string][]string{
				models.FlagAimUnit:     {"-short"},
				models.FlagAimCoverage: {"-cover"},
			},
		},
		Markdown: MarkdownConfig{
			MaxLineLength: 120,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys absent from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromDir loads the nearest .plumb/config.yaml at or above dir
// If none exists, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(FindConfigPath(dir))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, outputDir *string, respectGitignore *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if outputDir != nil {
		c.OutputDir = *outputDir
	}
	if respectGitignore != nil {
		c.RespectGitignore = *respectGitignore
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if _, err := filtering.NewPolicy(c.AdvancedFields); err != nil {
		return fmt.Errorf("invalid advanced_fields: %w", err)
	}

	if c.Markdown.MaxLineLength < 0 {
		return fmt.Errorf("markdown.max_line_length must be >= 0, got %d", c.Markdown.MaxLineLength)
	}

	sections := []struct {
		kind  models.ActionKind
		flags []string
	}{
		{models.ActionLint, c.Lint.Flags},
		{models.ActionTest, c.Test.Flags},
		{models.ActionMarkdown, c.Markdown.Flags},
	}
	for _, section := range sections {
		if _, err := models.NewActionOptions(section.kind, section.flags...); err != nil {
			return fmt.Errorf("invalid %s.flags: %w", section.kind, err)
		}
	}

	if len(c.Lint.Command) == 0 {
		return fmt.Errorf("lint.command cannot be empty")
	}
	if len(c.Test.Command) == 0 {
		return fmt.Errorf("test.command cannot be empty")
	}

	return nil
}

// Policy returns the advanced-field policy described by AdvancedFields.
// Call Validate first; an invalid list falls back to the default policy.
func (c *Config) Policy() filtering.Policy {
	policy, err := filtering.NewPolicy(c.AdvancedFields)
	if err != nil {
		return filtering.DefaultPolicy()
	}
	return policy
}

// Flags returns the configured default action flags for kind
func (c *Config) Flags(kind models.ActionKind) []string {
	switch kind {
	case models.ActionLint:
		return c.Lint.Flags
	case models.ActionTest:
		return c.Test.Flags
	case models.ActionMarkdown:
		return c.Markdown.Flags
	default:
		return nil
	}
}
