package errors

import (
	"fmt"
	"strings"

	"strictivars/grammar"
	"strictivars/internal/ast"
	"strictivars/internal/instrument"
	"strictivars/internal/parser"
)

// Builder assembles a Diagnostic
type Builder struct {
	d Diagnostic
}

func New(level Level, code, message string, pos ast.Position) *Builder {
	return &Builder{d: Diagnostic{Level: level, Code: code, Message: message, Position: pos, Length: 1}}
}

func (b *Builder) WithLength(length int) *Builder {
	b.d.Length = length
	return b
}

func (b *Builder) WithSuggestion(message string) *Builder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{Message: message})
	return b
}

func (b *Builder) WithReplacement(message, replacement string) *Builder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{Message: message, Replacement: replacement})
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

func (b *Builder) Build() Diagnostic {
	return b.d
}

func position(filename string, p parser.Position) ast.Position {
	return ast.Position{Filename: filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func ScanError(filename string, err parser.ScanError) Diagnostic {
	return New(Error, ErrorScan, err.Message, position(filename, err.Position)).
		WithLength(err.Length).
		Build()
}

func ParseError(filename string, err parser.ParseError) Diagnostic {
	return New(Error, ErrorParse, err.Message, position(filename, err.Position)).
		WithLength(err.Length).
		WithNote("code after this point may be instrumented from a partial tree").
		Build()
}

func MalformedDirective(filename string, problem grammar.Problem) Diagnostic {
	return New(Warning, WarningMalformedDirective, "malformed directive: "+problem.Message, position(filename, problem.Position)).
		WithLength(problem.Length).
		WithSuggestion("expected `# strictivars: disable` or `# strictivars: ignore @a, @b`").
		Build()
}

func UnassignedField(finding instrument.Finding) Diagnostic {
	b := New(Warning, WarningUnassignedField,
		fmt.Sprintf("instance variable '%s' is read but never assigned in this file", finding.Name),
		finding.Position).
		WithLength(finding.End.Offset - finding.Position.Offset)
	switch len(finding.Suggestions) {
	case 0:
		b.WithNote("reading it raises StrictIvars::NameError unless another file assigns it")
	case 1:
		b.WithReplacement(fmt.Sprintf("did you mean '%s'?", finding.Suggestions[0]), finding.Suggestions[0])
	default:
		b.WithSuggestion("did you mean one of: " + strings.Join(finding.Suggestions, ", "))
	}
	return b.Build()
}

func GuardInserted(site instrument.Site) Diagnostic {
	message := fmt.Sprintf("guarded first read of '%s'", site.Name)
	if site.Shorthand {
		message += " (interpolation expanded)"
	}
	return New(Note, NoteGuardInserted, message, site.Position).
		WithLength(site.End.Offset - site.Position.Offset).
		Build()
}

func EvalRewritten(site instrument.EvalSite) Diagnostic {
	return New(Note, NoteEvalRewritten, fmt.Sprintf("arguments of '%s' routed through StrictIvars", site.Method), site.Position).
		WithLength(len(site.Method)).
		Build()
}

// ForResult collects the diagnostics of one instrumented file: syntax
// errors, malformed directives and unassigned fields, plus a note per
// guard and eval rewrite when notes is set.
func ForResult(result *instrument.Result, notes bool) []Diagnostic {
	var out []Diagnostic
	for _, err := range result.ScanErrors {
		out = append(out, ScanError(result.Path, err))
	}
	for _, err := range result.ParseErrors {
		out = append(out, ParseError(result.Path, err))
	}
	for _, problem := range result.Problems {
		out = append(out, MalformedDirective(result.Path, problem))
	}
	for _, finding := range instrument.Analyze(result) {
		out = append(out, UnassignedField(finding))
	}
	if notes {
		for _, site := range result.Guards {
			out = append(out, GuardInserted(site))
		}
		for _, site := range result.Evals {
			out = append(out, EvalRewritten(site))
		}
	}
	return out
}
