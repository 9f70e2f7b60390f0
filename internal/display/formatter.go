package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Kind selects the styling of a Formatter.
type Kind int

const (
	KindInfo Kind = iota
	KindError
)

// Event is a titled message for the terminal.
type Event struct {
	Title  string
	Detail string
}

// Formatter writes events to a writer. The colour decision is fixed at construction.
type Formatter struct {
	out      io.Writer
	title    *color.Color
	useColor bool
}

// NewFormatter creates a formatter for out, detecting colour support from the
// environment.
func NewFormatter(out io.Writer, kind Kind) *Formatter {
	return NewFormatterWithColor(out, kind, DetectColor(out, os.Getenv))
}

// NewFormatterWithColor creates a formatter with an explicit colour decision.
func NewFormatterWithColor(out io.Writer, kind Kind, useColor bool) *Formatter {
	title := color.New(color.Bold, color.FgCyan)
	if kind == KindError {
		title = color.New(color.Bold, color.FgRed)
	}
	if useColor {
		title.EnableColor()
	} else {
		title.DisableColor()
	}
	return &Formatter{out: out, title: title, useColor: useColor}
}

// DetectColor reports whether out should receive ANSI colours.
func DetectColor(out io.Writer, getenv func(string) string) bool {
	if getenv("CI") != "" || getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// UsesColor reports the colour decision taken at construction.
func (f *Formatter) UsesColor() bool {
	return f.useColor
}

// Format writes the event title, then each detail line indented below it.
func (f *Formatter) Format(event Event) {
	if f == nil || f.out == nil {
		return
	}
	fmt.Fprintln(f.out, f.title.Sprint(event.Title))
	if event.Detail != "" {
		for _, line := range strings.Split(event.Detail, "\n") {
			fmt.Fprintf(f.out, "    %s\n", line)
		}
	}
}
