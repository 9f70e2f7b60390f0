package models

import "time"

// Status is the outcome of a terminal action and of a whole run.
type Status string

// Run status constants
const (
	StatusOK      Status = "ok"      // Action passed
	StatusWarning Status = "warning" // Action passed with warnings
	StatusKO      Status = "ko"      // Action failed or never ran
)

// Severity of an issue reported by an engine
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Issue is a single finding reported by an action engine
type Issue struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ActionResult is what an action engine hands back to the executor
type ActionResult struct {
	Status    Status        `json:"status"`
	Output    string        `json:"output,omitempty"`    // Captured engine output (text report)
	Issues    []Issue       `json:"issues,omitempty"`    // Structured findings, if the engine produces any
	Artifacts []string      `json:"artifacts,omitempty"` // Report files written for this run
	Duration  time.Duration `json:"duration"`
}

// RunResult is the aggregate result of executing a plan
type RunResult struct {
	Status       Status        // Overall status, taken from the terminal action
	Entries      []PathInfo    // Final entries handed to the action
	Action       *ActionResult // Nil when the plan had no terminal instruction
	Instructions int           // Number of instructions executed
	Duration     time.Duration // Total run time
}

// StatusFromIssues derives a status from engine findings.
// Any error gives ko, warnings alone give warning.
func StatusFromIssues(issues []Issue) Status {
	status := StatusOK
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return StatusKO
		}
		status = StatusWarning
	}
	return status
}
