// SPDX-License-Identifier: Apache-2.0
package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strictivars/grammar"
	"strictivars/internal/parser"
)

func TestParseDisable(t *testing.T) {
	directive, err := grammar.ParseDirective("test.rb", "# strictivars: disable")
	require.NoError(t, err)
	require.NotNil(t, directive.Action)
	assert.Equal(t, "strictivars", directive.Marker)
	assert.True(t, directive.Action.Disable)
	assert.Empty(t, directive.Action.Ignore)
}

func TestParseIgnore(t *testing.T) {
	directive, err := grammar.ParseDirective("test.rb", "#strictivars:ignore @a,   @b_2")
	require.NoError(t, err)
	assert.False(t, directive.Action.Disable)
	assert.Equal(t, []string{"@a", "@b_2"}, directive.Action.Ignore)
}

func TestParseRejectsUnknownAction(t *testing.T) {
	_, err := grammar.ParseDirective("test.rb", "# strictivars: bogus")
	assert.Error(t, err)

	_, err = grammar.ParseDirective("test.rb", "# strictivars: ignore a")
	assert.Error(t, err, "ignore takes instance variable names")
}

func TestIsDirective(t *testing.T) {
	assert.True(t, grammar.IsDirective("# strictivars: disable"))
	assert.True(t, grammar.IsDirective("  #strictivars: ignore @a"))
	assert.False(t, grammar.IsDirective("# strictivars is great"))
	assert.False(t, grammar.IsDirective("# frozen_string_literal: true"))
}

func TestCollect(t *testing.T) {
	comments := []parser.Comment{
		{Text: "# frozen_string_literal: true", Position: parser.Position{Line: 1, Column: 1, Offset: 0}},
		{Text: "# strictivars: ignore @a", Position: parser.Position{Line: 2, Column: 1, Offset: 30}},
		{Text: "# strictivars: ignore @b, @a", Position: parser.Position{Line: 3, Column: 1, Offset: 55}},
		{Text: "# strictivars: bogus", Position: parser.Position{Line: 4, Column: 3, Offset: 86}},
	}

	directives, problems := grammar.Collect("test.rb", comments)
	assert.False(t, directives.Disabled)
	assert.Equal(t, []string{"@a", "@b"}, directives.Ignored)
	assert.True(t, directives.IsIgnored("@b"))
	assert.False(t, directives.IsIgnored("@c"))

	require.Len(t, problems, 1)
	assert.Equal(t, 4, problems[0].Position.Line)
	assert.GreaterOrEqual(t, problems[0].Position.Offset, 86)
	assert.NotEmpty(t, problems[0].Message)
}

func TestCollectDisable(t *testing.T) {
	comments := []parser.Comment{{Text: "# strictivars: disable"}}
	directives, problems := grammar.Collect("test.rb", comments)
	assert.Empty(t, problems)
	assert.True(t, directives.Disabled)
}

func TestDirectiveString(t *testing.T) {
	assert.Equal(t, "# strictivars: ignore @a, @b", grammar.IgnoreDirective("@a", "@b").String())

	directive, err := grammar.ParseDirective("test.rb", "#  strictivars:disable")
	require.NoError(t, err)
	assert.Equal(t, "# strictivars: disable", directive.String())
}
