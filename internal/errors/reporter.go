package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"strictivars/internal/ast"
)

// Level is the severity of a diagnostic
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
	Help    Level = "help"
)

// Diagnostic is a located message about a source file
type Diagnostic struct {
	Level       Level
	Code        string
	Message     string
	Position    ast.Position
	Length      int
	Suggestions []Suggestion
	Notes       []string
}

// Suggestion is a possible fix, optionally with replacement text
type Suggestion struct {
	Message     string
	Replacement string
}

// Reporter renders diagnostics for one file with the offending line and a
// caret marker underneath.
type Reporter struct {
	filename string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a single diagnostic
func (r *Reporter) Format(d Diagnostic) string {
	var b strings.Builder
	width := lineNumberWidth(d.Position.Line)
	gutter := strings.Repeat(" ", width)
	dim := color.New(color.Faint).SprintFunc()

	if d.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s\n", levelColor(d.Level)(string(d.Level)), d.Code, d.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(d.Level)(string(d.Level)), d.Message)
	}
	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", gutter, dim("-->"), r.filename, d.Position.Line, d.Position.Column)

	r.writeSnippet(&b, d, width)
	writeSuggestions(&b, d.Suggestions, gutter)

	noteColor := color.New(color.FgBlue).SprintFunc()
	for _, note := range d.Notes {
		fmt.Fprintf(&b, "%s %s %s %s\n", gutter, dim("│"), noteColor("note:"), note)
	}
	b.WriteString("\n")
	return b.String()
}

// writeSnippet prints the diagnostic's line between its neighbours
func (r *Reporter) writeSnippet(b *strings.Builder, d Diagnostic, width int) {
	line := d.Position.Line
	if line <= 0 || line > len(r.lines) {
		return
	}
	gutter := strings.Repeat(" ", width)
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(b, "%s %s\n", gutter, dim("│"))
	if line > 1 {
		fmt.Fprintf(b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line-1)), dim("│"), r.lines[line-2])
	}
	fmt.Fprintf(b, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("│"), r.lines[line-1])
	fmt.Fprintf(b, "%s %s %s\n", gutter, dim("│"), marker(d.Position.Column, d.Length, d.Level))
	if line < len(r.lines) && r.lines[line] != "" {
		fmt.Fprintf(b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line+1)), dim("│"), r.lines[line])
	}
}

func writeSuggestions(b *strings.Builder, suggestions []Suggestion, gutter string) {
	if len(suggestions) == 0 {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(b, "%s %s\n", gutter, dim("│"))
	for i, s := range suggestions {
		if i == 0 {
			fmt.Fprintf(b, "%s %s: %s\n", gutter, cyan("help"), s.Message)
		} else {
			fmt.Fprintf(b, "%s       %s\n", gutter, s.Message)
		}
		if s.Replacement != "" {
			fmt.Fprintf(b, "%s %s %s\n", gutter, cyan("│"), cyan(s.Replacement))
		}
	}
}

// Print writes every diagnostic to w followed by a summary line, and
// returns the number of errors.
func (r *Reporter) Print(w io.Writer, diagnostics []Diagnostic) (int, error) {
	var errs, warnings int
	for _, d := range diagnostics {
		switch d.Level {
		case Error:
			errs++
		case Warning:
			warnings++
		}
		if _, err := io.WriteString(w, r.Format(d)); err != nil {
			return errs, err
		}
	}
	if errs+warnings == 0 {
		return 0, nil
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", r.filename, Summary(errs, warnings))
	return errs, err
}

// Summary describes error and warning counts, e.g. "2 errors, 1 warning"
func Summary(errs, warnings int) string {
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	if len(parts) == 0 {
		return "no problems"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func levelColor(level Level) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// marker underlines length columns starting at column
func marker(column, length int, level Level) string {
	if length <= 0 {
		length = 1
	}
	return strings.Repeat(" ", max(0, column-1)) + levelColor(level)(strings.Repeat("^", length))
}

func lineNumberWidth(line int) int {
	return max(3, len(fmt.Sprint(line)))
}
