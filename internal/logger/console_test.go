package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/harrison/plumb/internal/models"
)

// TestNewConsoleLogger verifies the constructor keeps the writer and normalizes the level.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "DEBUG")

		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "debug" {
			t.Errorf("expected log level %q, got %q", "debug", logger.logLevel)
		}
		if logger.colorOutput {
			t.Error("expected no color for a buffer")
		}
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := NewConsoleLogger(&bytes.Buffer{}, "loud")
		if logger.logLevel != "info" {
			t.Errorf("expected info, got %q", logger.logLevel)
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		logger.LogError("dropped")
		logger.LogSummary(models.ActionLint, models.RunResult{})
	})
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		wantInfo bool
		wantDbg  bool
	}{
		{"trace", true, true},
		{"debug", true, true},
		{"info", true, false},
		{"warn", false, false},
		{"error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)

			logger.LogInfo("info message")
			logger.LogDebug("debug message")
			logger.LogError("error message")

			output := buf.String()
			if got := strings.Contains(output, "[INFO] info message"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(output, "[DEBUG] debug message"); got != tt.wantDbg {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDbg)
			}
			if !strings.Contains(output, "[ERROR] error message") {
				t.Error("error messages are always logged")
			}
		})
	}
}

func TestLogInstruction(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "debug")
	instruction := models.NewInstruction(models.InstructionGlob, models.ParamTargetFiles, []string{"src/**/*"})

	logger.LogInstructionStart(0, 3, instruction)
	logger.LogInstructionComplete(instruction, 12, 35*time.Millisecond)

	output := buf.String()
	if !strings.Contains(output, "[1/3] glob targetFiles=[src/**/*]") {
		t.Errorf("missing start line, got: %s", output)
	}
	if !strings.Contains(output, "glob done: 12 entries (35ms)") {
		t.Errorf("missing completion line, got: %s", output)
	}
}

func TestLogSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	logger.LogSummary(models.ActionMarkdown, models.RunResult{
		Status:   models.StatusWarning,
		Entries:  []models.PathInfo{{Path: "a.md"}, {Path: "b.md"}},
		Duration: 2 * time.Second,
	})

	if !strings.Contains(buf.String(), "markdown warning: 2 files in 2s") {
		t.Errorf("unexpected summary: %s", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{35 * time.Millisecond, "35ms"},
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
		{time.Hour, "1h"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestIsValidLevel(t *testing.T) {
	if !IsValidLevel("WARN") {
		t.Error("expected WARN to be valid")
	}
	if IsValidLevel("verbose") {
		t.Error("expected verbose to be invalid")
	}
}

func TestTraceAndWarnLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "trace")

	logger.LogTrace("entries traced")
	logger.LogWarn("one warning")

	output := buf.String()
	if !strings.Contains(output, "[TRACE] entries traced") {
		t.Errorf("expected trace line, got %q", output)
	}
	if !strings.Contains(output, "[WARN] one warning") {
		t.Errorf("expected warn line, got %q", output)
	}

	buf.Reset()
	logger = NewConsoleLogger(buf, "warn")
	logger.LogTrace("hidden")
	logger.LogWarn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn level should drop trace and keep warn, got %q", buf.String())
	}
}

// TestColorFollowsDisplayDecision verifies stderr colour honours CI and NO_COLOR.
func TestColorFollowsDisplayDecision(t *testing.T) {
	t.Run("CI disables colour", func(t *testing.T) {
		t.Setenv("CI", "true")
		if NewConsoleLogger(os.Stderr, "info").colorOutput {
			t.Error("expected no color in CI")
		}
	})

	t.Run("NO_COLOR disables colour", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		if NewConsoleLogger(os.Stderr, "info").colorOutput {
			t.Error("expected no color with NO_COLOR")
		}
	})
}
