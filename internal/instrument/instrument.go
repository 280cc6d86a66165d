// Package instrument rewrites Ruby source so that reading an instance
// variable before it was assigned raises instead of yielding nil, and so
// that eval-family calls route their arguments through the runtime.
//
// The rewrite is purely textual: the tree is only used to decide where to
// insert text, and the output contains every input byte in its original
// order.
package instrument

import (
	"fmt"

	"github.com/tliron/commonlog"

	"strictivars/grammar"
	"strictivars/internal/ast"
	"strictivars/internal/parser"
)

var log = commonlog.GetLogger("strictivars.instrument")

// Result is the outcome of instrumenting one file.
type Result struct {
	Path        string
	Source      string
	Program     *ast.Program
	Output      string
	Annotations []Annotation
	Guards      []Site
	Evals       []EvalSite
	Disabled    bool
	Ignored     []string

	ParseErrors []parser.ParseError
	ScanErrors  []parser.ScanError
	Problems    []grammar.Problem
}

// Changed reports whether any text was inserted.
func (r *Result) Changed() bool {
	return r.Output != r.Source
}

// HasErrors reports whether the source failed to scan or parse. The output
// is still produced from whatever could be parsed.
func (r *Result) HasErrors() bool {
	return len(r.ParseErrors) > 0 || len(r.ScanErrors) > 0
}

// Process instruments source. Syntax errors do not stop the rewrite and are
// returned in the result; the error return is reserved for internal
// failures.
func Process(path string, source string, opts ...Option) (*Result, error) {
	options := makeOptions(opts...)
	parsed := parser.Parse(path, source)
	directives, problems := grammar.Collect(path, parsed.Comments)

	result := &Result{
		Path:        path,
		Source:      source,
		Program:     parsed.Program,
		Output:      source,
		Disabled:    directives.Disabled,
		ParseErrors: parsed.ParseErrors,
		ScanErrors:  parsed.ScanErrors,
		Problems:    problems,
	}
	if directives.Disabled {
		log.Debugf("%s: disabled by directive", path)
		return result, nil
	}

	options.ignored = append(options.ignored, directives.Ignored...)
	result.Ignored = options.ignored

	w := newWalker(&options)
	w.visit(parsed.Program)

	output, err := Apply(source, w.annotations)
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", path, err)
	}

	result.Output = output
	result.Annotations = w.annotations
	result.Guards = w.sites
	result.Evals = w.evals
	log.Debugf("%s: %d guards, %d eval rewrites, options %s", path, len(w.sites), len(w.evals), Options(opts))
	return result, nil
}

// Transform is Process for callers that only want the text.
func Transform(path string, source string, opts ...Option) (string, error) {
	result, err := Process(path, source, opts...)
	if err != nil {
		return "", err
	}
	return result.Output, nil
}
