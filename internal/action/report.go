package action

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/harrison/plumb/internal/filelock"
	"github.com/harrison/plumb/internal/models"
)

// reportLockName guards concurrent writers of one output directory.
const reportLockName = ".plumb.lock"

// DefaultOutputName returns a unique report base name such as "lint-<uuid>".
func DefaultOutputName(kind models.ActionKind) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString())
}

// WriteReports writes <name>.txt and <name>.json into req.OutputDirectory and
// records them in result.Artifacts. It does nothing without an output directory.
func WriteReports(req Request, result *models.ActionResult) error {
	if req.OutputDirectory == "" {
		return nil
	}
	name := req.OutputName
	if name == "" {
		name = DefaultOutputName(req.Kind)
	}

	textPath := filepath.Join(req.OutputDirectory, name+".txt")
	jsonPath := filepath.Join(req.OutputDirectory, name+".json")
	result.Artifacts = append(result.Artifacts, textPath, jsonPath)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	err = filelock.LockAndWriteAll(filepath.Join(req.OutputDirectory, reportLockName),
		filelock.File{Path: textPath, Data: []byte(FormatText(result))},
		filelock.File{Path: jsonPath, Data: append(data, '\n')},
	)
	if err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	return nil
}

// FormatText renders a result as a plain-text report: status, issues, then raw output.
func FormatText(result *models.ActionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", result.Status)
	for _, issue := range result.Issues {
		fmt.Fprintln(&b, FormatIssue(issue))
	}
	if result.Output != "" {
		b.WriteString("\n")
		b.WriteString(result.Output)
		if !strings.HasSuffix(result.Output, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatIssue renders one issue as "file:line severity rule: message".
func FormatIssue(issue models.Issue) string {
	location := issue.File
	if issue.Line > 0 {
		location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
	}
	return fmt.Sprintf("%s %s %s: %s", location, issue.Severity, issue.Rule, issue.Message)
}
