// Package display formats user-facing terminal output.
//
// # Events
//
// A Formatter renders title/detail events. Two formatters are injected into
// the executor's RunnerContext, one for regular output and one for errors:
//
//	out := display.NewFormatter(os.Stdout, display.KindInfo)
//	errOut := display.NewFormatter(os.Stderr, display.KindError)
//	errOut.Format(display.Event{Title: "Glob expansion failed", Detail: err.Error()})
//
// Whether colours are used is decided once, when the formatter is built:
// never in CI (the CI environment variable is set), never when NO_COLOR is
// set, and only when the writer is a terminal.
//
// # Warning Messages
//
//	warning := display.Warning{
//	    Title:      "No input files",
//	    Message:    "Every explicit path was filtered out",
//	    Files:      []string{"gen/step2.ts"},
//	    Suggestion: "Check --with-tag values",
//	}
//	warning.Display(os.Stderr, true)
//
// All functions accept io.Writer for testability.
package display
