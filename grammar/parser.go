package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"strictivars/internal/parser"
)

var directiveParser = participle.MustBuild[Directive](
	participle.Lexer(DirectiveLexer),
	participle.Elide("Whitespace"),
)

// Problem is a malformed directive. It is reported as a warning and the
// comment is otherwise ignored.
type Problem struct {
	Message  string
	Position parser.Position
	Length   int
}

// IsDirective reports whether a comment is meant as a directive, i.e. it
// starts with "# strictivars:".
func IsDirective(text string) bool {
	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "#"))
	return strings.HasPrefix(body, "strictivars:")
}

// ParseDirective parses the text of a single comment.
func ParseDirective(filename, text string) (*Directive, error) {
	directive, err := directiveParser.ParseString(filename, strings.TrimRight(text, " \t\r"))
	if err != nil {
		return nil, fmt.Errorf("invalid directive: %w", err)
	}
	return directive, nil
}

// Collect combines the directives found among a file's comments. Comments
// that merely mention strictivars are skipped; malformed directives are
// returned as problems with positions relative to the whole file.
func Collect(filename string, comments []parser.Comment) (*Directives, []Problem) {
	directives := &Directives{}
	var problems []Problem
	for _, comment := range comments {
		if !IsDirective(comment.Text) {
			continue
		}
		directive, err := ParseDirective(filename, comment.Text)
		if err != nil {
			problems = append(problems, problemAt(comment, err))
			continue
		}
		directives.add(directive)
	}
	return directives, problems
}

func problemAt(comment parser.Comment, err error) Problem {
	problem := Problem{
		Message:  err.Error(),
		Position: comment.Position,
		Length:   len(comment.Text),
	}
	var pe participle.Error
	if errors.As(err, &pe) {
		pos := pe.Position()
		problem.Message = pe.Message()
		problem.Position.Column += pos.Column - 1
		problem.Position.Offset += pos.Offset
		problem.Length = len(comment.Text) - pos.Offset
	}
	return problem
}
