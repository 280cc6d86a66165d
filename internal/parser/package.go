package parser

import (
	"fmt"
	"os"

	"strictivars/internal/ast"
)

// ParseResult bundles everything produced from one source file.
type ParseResult struct {
	Program     *ast.Program
	Comments    []Comment
	ParseErrors []ParseError
	ScanErrors  []ScanError
}

// HasErrors reports whether scanning or parsing failed anywhere.
func (r *ParseResult) HasErrors() bool {
	return len(r.ParseErrors) > 0 || len(r.ScanErrors) > 0
}

func Parse(path string, source string) *ParseResult {
	scanner := NewScanner(source)
	tokens := scanner.ScanTokens()

	parser := NewParser(path, tokens)
	program := parser.ParseProgram()

	return &ParseResult{
		Program:     program,
		Comments:    scanner.Comments(),
		ParseErrors: parser.errors,
		ScanErrors:  scanner.errors,
	}
}

func ParseSource(path string, source string) (*ast.Program, []ParseError, []ScanError) {
	result := Parse(path, source)
	return result.Program, result.ParseErrors, result.ScanErrors
}

func ParseFile(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, string(data)), nil
}
