package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/plumb/internal/filtering"
	"github.com/harrison/plumb/internal/models"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DirName, "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".plumb/reports", cfg.OutputDir)
	assert.False(t, cfg.RespectGitignore)
	assert.Empty(t, cfg.AdvancedFields)
	assert.Equal(t, []string{"golangci-lint", "run"}, cfg.Lint.Command)
	assert.Equal(t, []string{"--fix"}, cfg.Lint.AimArgs[models.FlagAimFix])
	assert.Equal(t, []string{"go", "test"}, cfg.Test.Command)
	assert.Equal(t, 120, cfg.Markdown.MaxLineLength)
	assert.Empty(t, cfg.Markdown.Command)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `log_level: debug
output_dir: out
advanced_fields: [withTag, withExtension]
respect_gitignore: true
lint:
  command: [eslint]
  flags: [aim:ci]
  extension_flag: --ext
  aim_args:
    aim:fix: [--fix, --quiet]
markdown:
  max_line_length: 0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, []string{"withTag", "withExtension"}, cfg.AdvancedFields)
	assert.True(t, cfg.RespectGitignore)
	assert.Equal(t, []string{"eslint"}, cfg.Lint.Command)
	assert.Equal(t, []string{models.FlagAimCI}, cfg.Lint.Flags)
	assert.Equal(t, "--ext", cfg.Lint.ExtensionFlag)
	assert.Equal(t, []string{"--fix", "--quiet"}, cfg.Lint.AimArgs[models.FlagAimFix])
	assert.Equal(t, 0, cfg.Markdown.MaxLineLength)
	// untouched sections keep their defaults
	assert.Equal(t, []string{"go", "test"}, cfg.Test.Command)
	require.NoError(t, cfg.Validate())

	policy := cfg.Policy()
	assert.True(t, policy.IsAdvanced(filtering.WithExtension))
	assert.False(t, policy.IsAdvanced(filtering.WithoutTag))
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log_level: [unterminated\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFromDirWalksUp(t *testing.T) {
	t.Setenv(EnvConfig, "")
	root := t.TempDir()
	writeConfig(t, root, "log_level: warn\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := LoadConfigFromDir(nested)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestFindConfigPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvConfig, "/etc/plumb.yaml")
		assert.Equal(t, "/etc/plumb.yaml", FindConfigPath(t.TempDir()))
	})

	t.Run("fallback when absent", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		dir := t.TempDir()
		assert.Equal(t, filepath.Join(dir, ".plumb", "config.yaml"), FindConfigPath(dir))
	})
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	level := "trace"
	gitignore := true

	cfg.MergeWithFlags(&level, nil, &gitignore)

	assert.Equal(t, "trace", cfg.LogLevel)
	assert.Equal(t, ".plumb/reports", cfg.OutputDir)
	assert.True(t, cfg.RespectGitignore)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"bad advanced field", func(c *Config) { c.AdvancedFields = []string{"withColour"} }, "invalid advanced_fields"},
		{"negative line length", func(c *Config) { c.Markdown.MaxLineLength = -1 }, "max_line_length"},
		{"unknown lint flag", func(c *Config) { c.Lint.Flags = []string{"aim:unit"} }, "invalid lint.flags"},
		{"empty test command", func(c *Config) { c.Test.Command = nil }, "test.command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Test.Flags = []string{models.FlagAimUnit}

	assert.Equal(t, []string{models.FlagAimUnit}, cfg.Flags(models.ActionTest))
	assert.Nil(t, cfg.Flags(models.ActionLint))
	assert.Nil(t, cfg.Flags("deploy"))
}

func TestLoadConfigEmptyAdvancedFields(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "advanced_fields: []\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.NotNil(t, cfg.AdvancedFields)
	assert.Empty(t, cfg.Policy().Fields())
	assert.Equal(t, filtering.DefaultPolicy().Fields(), DefaultConfig().Policy().Fields())
}
