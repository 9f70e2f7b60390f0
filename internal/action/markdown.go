package action

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/plumb/internal/filelock"
	"github.com/harrison/plumb/internal/models"
)

// Markdown rules
const (
	RuleFirstHeading       = "first-heading"
	RuleHeadingIncrement   = "heading-increment"
	RuleEmptyLink          = "empty-link"
	RuleLineLength         = "line-length"
	RuleTrailingWhitespace = "trailing-whitespace"
)

var defaultMarkdownExtensions = []string{".md", ".markdown"}

// MarkdownEngine checks markdown files in-process.
type MarkdownEngine struct {
	MaxLineLength int // 0 disables the line-length rule
	markdown      goldmark.Markdown
}

// NewMarkdownEngine creates a markdown engine.
func NewMarkdownEngine(maxLineLength int) *MarkdownEngine {
	return &MarkdownEngine{
		MaxLineLength: maxLineLength,
		markdown:      goldmark.New(),
	}
}

// Run checks every input file. With aim:fix trailing whitespace is removed in
// place; with aim:ci warnings fail the run.
func (e *MarkdownEngine) Run(ctx context.Context, req Request) (*models.ActionResult, error) {
	start := time.Now()

	files, err := e.inputs(req)
	if err != nil {
		return nil, err
	}

	fix := req.HasFlag(models.FlagAimFix)
	var issues []models.Issue
	for _, file := range files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(req.ModulePath, file)
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		if fix {
			if fixed := stripTrailingWhitespace(source); !bytes.Equal(fixed, source) {
				if err := filelock.AtomicWrite(path, fixed); err != nil {
					return nil, err
				}
				source = fixed
			}
		}
		issues = append(issues, e.Check(file, source)...)
	}

	status := models.StatusFromIssues(issues)
	if status == models.StatusWarning && req.HasFlag(models.FlagAimCI) {
		status = models.StatusKO
	}

	var out strings.Builder
	for _, issue := range issues {
		fmt.Fprintln(&out, FormatIssue(issue))
	}
	fmt.Fprintf(&out, "%d markdown files checked, %d issues\n", len(files), len(issues))

	result := &models.ActionResult{
		Status:   status,
		Output:   out.String(),
		Issues:   issues,
		Duration: time.Since(start),
	}
	return result, WriteReports(req, result)
}

// inputs returns explicit files as given, or discovers markdown files below
// the request's path patterns.
func (e *MarkdownEngine) inputs(req Request) ([]string, error) {
	if req.Explicit() {
		return models.Paths(req.Files), nil
	}

	roots := req.PathPatterns
	if len(roots) == 0 {
		roots = []string{""}
	}
	extensions := req.Extensions
	if len(extensions) == 0 {
		extensions = defaultMarkdownExtensions
	}

	fsys := os.DirFS(req.ModulePath)
	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		for _, ext := range extensions {
			pattern := root + "**/*" + ext
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid markdown pattern %q: %w", pattern, err)
			}
			for _, match := range matches {
				if !seen[match] {
					seen[match] = true
					files = append(files, match)
				}
			}
		}
	}
	return files, nil
}

// Check returns the issues found in one markdown document, ordered by line.
func (e *MarkdownEngine) Check(file string, source []byte) []models.Issue {
	var issues []models.Issue
	add := func(line int, rule, severity, message string) {
		issues = append(issues, models.Issue{File: file, Line: line, Rule: rule, Severity: severity, Message: message})
	}

	doc := e.markdown.Parser().Parse(text.NewReader(source))

	topLevel := 0
	previous := 0
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			line := nodeLine(source, node)
			if node.Level == 1 {
				topLevel++
			}
			if previous > 0 && node.Level > previous+1 {
				add(line, RuleHeadingIncrement, models.SeverityWarning,
					fmt.Sprintf("heading level jumps from h%d to h%d", previous, node.Level))
			}
			previous = node.Level
		case *ast.Link:
			if len(node.Destination) == 0 {
				add(nodeLine(source, node), RuleEmptyLink, models.SeverityWarning, "link has no destination")
			}
		case *ast.Image:
			if len(node.Destination) == 0 {
				add(nodeLine(source, node), RuleEmptyLink, models.SeverityWarning, "image has no destination")
			}
		}
		return ast.WalkContinue, nil
	})

	if topLevel == 0 {
		add(1, RuleFirstHeading, models.SeverityError, "document has no top-level heading")
	}

	for i, line := range strings.Split(string(source), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimRight(line, " \t") != line {
			add(i+1, RuleTrailingWhitespace, models.SeverityWarning, "line ends with whitespace")
		}
		if e.MaxLineLength > 0 {
			if n := utf8.RuneCountInString(line); n > e.MaxLineLength {
				add(i+1, RuleLineLength, models.SeverityWarning,
					fmt.Sprintf("line is %d characters, limit is %d", n, e.MaxLineLength))
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

// nodeLine finds the 1-based source line of n, falling back to the closest
// ancestor block that has source lines.
func nodeLine(source []byte, n ast.Node) int {
	if t, ok := n.FirstChild().(*ast.Text); ok {
		return lineAt(source, t.Segment.Start)
	}
	for node := n; node != nil; node = node.Parent() {
		if node.Type() == ast.TypeBlock && node.Lines().Len() > 0 {
			return lineAt(source, node.Lines().At(0).Start)
		}
	}
	return 1
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}

func stripTrailingWhitespace(source []byte) []byte {
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		cr := strings.HasSuffix(line, "\r")
		line = strings.TrimRight(strings.TrimSuffix(line, "\r"), " \t")
		if cr {
			line += "\r"
		}
		lines[i] = line
	}
	return []byte(strings.Join(lines, "\n"))
}
