package instrument

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guarded(name string) string {
	return "(defined?(" + name + ") ? " + name + " : (::Kernel.raise(::StrictIvars::NameError.new(self, :" + name + "))))"
}

var placeholder = regexp.MustCompile(`\{\{(@\w+)\}\}`)

// expand replaces every {{@name}} in template with the guarded read of @name.
func expand(template string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		return guarded(placeholder.FindStringSubmatch(m)[1])
	})
}

func transform(t *testing.T, source string, opts ...Option) string {
	t.Helper()
	result, err := Process("test.rb", source, opts...)
	require.NoError(t, err)
	return result.Output
}

func TestGuards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic",
			input:    "def foo\n\t@foo\nend\n",
			expected: "def foo\n\t{{@foo}}\nend\n",
		},
		{
			name:     "defined",
			input:    "def foo\n\treturn @foo if defined?(@foo)\n\t@foo = 2\nend\n",
			expected: "def foo\n\treturn {{@foo}} if defined?(@foo)\n\t@foo = 2\nend\n",
		},
		{
			name:     "defined with a non-ivar",
			input:    "def foo\n\treturn true if defined?(SomeConst)\nend\n",
			expected: "def foo\n\treturn true if defined?(SomeConst)\nend\n",
		},
		{
			name:     "defined with an expression containing an ivar",
			input:    "defined?(@a.size)\n",
			expected: "defined?({{@a}}.size)\n",
		},
		{
			name:     "conditional",
			input:    "def foo\n\tbar if @foo\nend\n",
			expected: "def foo\n\tbar if {{@foo}}\nend\n",
		},
		{
			name:     "multiple reads",
			input:    "def foo\n\t@foo\n\t@foo\nend\n",
			expected: "def foo\n\t{{@foo}}\n\t@foo\nend\n",
		},
		{
			name: "if conditional",
			input: `def foo
	@a

	if @b
		@a
		@b
		@c
	else
		@a
		@b
		@c
	end

	@a
	@b
	@c
end
`,
			expected: `def foo
	{{@a}}

	if {{@b}}
		@a
		@b
		{{@c}}
	else
		@a
		@b
		{{@c}}
	end

	@a
	@b
	{{@c}}
end
`,
		},
		{
			name: "case",
			input: `@a

case @b
when @c
	@a
	@b
	@c
	@d
else
	@a
	@b
	@c
	@d
end

@a
@b
@c
@d
`,
			expected: `{{@a}}

case {{@b}}
when {{@c}}
	@a
	@b
	@c
	{{@d}}
else
	@a
	@b
	{{@c}}
	{{@d}}
end

@a
@b
{{@c}}
{{@d}}
`,
		},
		{
			name:     "open method definition def",
			input:    "def foo\n\t@a\n\t@a\n",
			expected: "def foo\n\t{{@a}}\n\t@a\n",
		},
		{
			name:     "class isolation",
			input:    "@a\n@a\n\nclass Foo\n\t@a\n\t@a\nend\n",
			expected: "{{@a}}\n@a\n\nclass Foo\n\t{{@a}}\n\t@a\nend\n",
		},
		{
			name:     "module isolation",
			input:    "@a\n@a\n\nmodule Foo\n\t@a\n\t@a\nend\n",
			expected: "{{@a}}\n@a\n\nmodule Foo\n\t{{@a}}\n\t@a\nend\n",
		},
		{
			name:     "block isolation",
			input:    "@a\n@a\n\nanything do\n\t@a\n\t@a\nend\n",
			expected: "{{@a}}\n@a\n\nanything do\n\t{{@a}}\n\t@a\nend\n",
		},
		{
			name:     "singleton class isolation",
			input:    "@a\n@a\n\nclass << self\n\t@a\n\t@a\nend\n",
			expected: "{{@a}}\n@a\n\nclass << self\n\t{{@a}}\n\t@a\nend\n",
		},
		{
			name:     "lambda isolation",
			input:    "f = -> { @a }\n@a\n",
			expected: "f = -> { {{@a}} }\n{{@a}}\n",
		},
		{
			name:     "nested scopes do not see outer reads",
			input:    "class Foo\n\t@a\n\tdef bar\n\t\t@a\n\tend\n\t@a\nend\n",
			expected: "class Foo\n\t{{@a}}\n\tdef bar\n\t\t{{@a}}\n\tend\n\t@a\nend\n",
		},
		{
			name:     "block parameter defaults share the block scope",
			input:    "foo { |x = @a| @a }\n",
			expected: "foo { |x = {{@a}}| @a }\n",
		},
		{
			name:     "shorthand string interpolation",
			input:    "def foo\n\t\"hello #@name\"\nend\n",
			expected: "def foo\n\t\"hello #{{{@name}}}\"\nend\n",
		},
		{
			name:     "in context shorthand string interpolation",
			input:    "def foo\n\t@name ||= \"world\"\n\t\"hello \\#@name\"\nend\n",
			expected: "def foo\n\t@name ||= \"world\"\n\t\"hello \\#@name\"\nend\n",
		},
		{
			name:     "shorthand after a validated read",
			input:    "@name\n\"hello #@name\"\n",
			expected: "{{@name}}\n\"hello #@name\"\n",
		},
		{
			name:     "shorthand in a regexp and a symbol",
			input:    "/#@a/\n:\"#@b\"\n",
			expected: "/#{{{@a}}}/\n:\"#{{{@b}}}\"\n",
		},
		{
			name:     "shorthand class variable is left alone",
			input:    "\"#@@count\"\n",
			expected: "\"#@@count\"\n",
		},
		{
			name:     "interpolation",
			input:    "\"#{@a} and #{@a}\"\n",
			expected: "\"#{{{@a}}} and #{@a}\"\n",
		},
		{
			name:     "heredoc",
			input:    "x = <<~EOS\n  #{@a} and #@b\nEOS\n@a\n",
			expected: "x = <<~EOS\n  #{{{@a}}} and #{{{@b}}}\nEOS\n@a\n",
		},
		{
			name:     "assignment does not validate",
			input:    "@a = 1\n@a\n",
			expected: "@a = 1\n{{@a}}\n",
		},
		{
			name:     "operator assignment is not guarded",
			input:    "@a ||= 1\n@b += 1\n",
			expected: "@a ||= 1\n@b += 1\n",
		},
		{
			name:     "multiple assignment guards only the values",
			input:    "@a, @b = @b, @a\n",
			expected: "@a, @b = {{@b}}, {{@a}}\n",
		},
		{
			name:     "ternary",
			input:    "@a ? @b : @a\n",
			expected: "{{@a}} ? {{@b}} : @a\n",
		},
		{
			name:     "elsif",
			input:    "if @a\n\t@b\nelsif @b\n\t@b\nend\n@b\n",
			expected: "if {{@a}}\n\t{{@b}}\nelsif {{@b}}\n\t@b\nend\n{{@b}}\n",
		},
		{
			name:     "unless",
			input:    "unless @a\n\t@b\nend\n@b\n",
			expected: "unless {{@a}}\n\t{{@b}}\nend\n{{@b}}\n",
		},
		{
			name:     "while validates through its predicate",
			input:    "while @a\n\t@a\n\t@b\nend\n@a\n@b\n",
			expected: "while {{@a}}\n\t@a\n\t{{@b}}\nend\n@a\n@b\n",
		},
		{
			name:     "pattern matching arms are branches",
			input:    "case @a\nin {x:}\n\t@b\nin [y]\n\t@b\nend\n",
			expected: "case {{@a}}\nin {x:}\n\t{{@b}}\nin [y]\n\t{{@b}}\nend\n",
		},
		{
			name:     "rescue is traversed in order",
			input:    "begin\n\t@a\nrescue => e\n\t@a\nend\n",
			expected: "begin\n\t{{@a}}\nrescue => e\n\t@a\nend\n",
		},
		{
			name:     "class and global variables are not guarded",
			input:    "@@a\n$b\n",
			expected: "@@a\n$b\n",
		},
		{
			name:     "code without instance variables is untouched",
			input:    "def foo(a, b = 1)\n\ta + b\nend\n",
			expected: "def foo(a, b = 1)\n\ta + b\nend\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, expand(tt.expected), transform(t, tt.input))
		})
	}
}

func TestEvalRewrite(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "implicit receiver",
			input:    "eval(\"1 + 1\")\n",
			expected: "eval(*(::StrictIvars.__process_eval_args__(self, :eval, \"1 + 1\")))\n",
		},
		{
			name:     "command call",
			input:    "eval \"1 + 1\", binding\n",
			expected: "eval *(::StrictIvars.__process_eval_args__(self, :eval, \"1 + 1\", binding))\n",
		},
		{
			name:     "explicit receiver",
			input:    "obj.instance_eval(\"x\")\n",
			expected: "(__eval_receiver_1__ = obj).instance_eval(*(::StrictIvars.__process_eval_args__(__eval_receiver_1__, :instance_eval, \"x\")))\n",
		},
		{
			name:  "receivers are numbered per file",
			input: "a.class_eval(s)\nb.module_eval(s)\n",
			expected: "(__eval_receiver_1__ = a).class_eval(*(::StrictIvars.__process_eval_args__(__eval_receiver_1__, :class_eval, s)))\n" +
				"(__eval_receiver_2__ = b).module_eval(*(::StrictIvars.__process_eval_args__(__eval_receiver_2__, :module_eval, s)))\n",
		},
		{
			name:     "guards nest inside the rewrite",
			input:    "@a.instance_eval(@b)\n",
			expected: "(__eval_receiver_1__ = {{@a}}).instance_eval(*(::StrictIvars.__process_eval_args__(__eval_receiver_1__, :instance_eval, {{@b}})))\n",
		},
		{
			name:     "argument forwarding",
			input:    "def run(...)\n\tinstance_eval(...)\nend\n",
			expected: "def run(...)\n\tinstance_eval(*(::StrictIvars.__process_eval_args__(self, :instance_eval, ...)), &(::StrictIvars.__eval_block_from_forwarding__(...)))\nend\n",
		},
		{
			name:     "block only",
			input:    "instance_eval { @a }\n",
			expected: "instance_eval { {{@a}} }\n",
		},
		{
			name:     "block pass is not an argument list",
			input:    "instance_eval(&blk)\n",
			expected: "instance_eval(&blk)\n",
		},
		{
			name:     "other methods are left alone",
			input:    "evaluate(\"x\")\n",
			expected: "evaluate(\"x\")\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, expand(tt.expected), transform(t, tt.input))
		})
	}
}

func TestEvalRewriteDisabled(t *testing.T) {
	source := "eval(@code)\n"
	assert.Equal(t, expand("eval({{@code}})\n"), transform(t, source, WithEvalRewrite(false)))
}

func TestProcessRecordsSites(t *testing.T) {
	result, err := Process("sites.rb", "def foo\n  \"#@a\"\n  obj.eval(@b)\nend\n")
	require.NoError(t, err)

	require.Len(t, result.Guards, 2)
	assert.Equal(t, "@a", result.Guards[0].Name)
	assert.True(t, result.Guards[0].Shorthand)
	assert.Equal(t, 2, result.Guards[0].Position.Line)
	assert.Equal(t, 12, result.Guards[0].Position.Offset)
	assert.Equal(t, "@b", result.Guards[1].Name)
	assert.False(t, result.Guards[1].Shorthand)

	require.Len(t, result.Evals, 1)
	assert.Equal(t, "eval", result.Evals[0].Method)
	assert.Equal(t, "__eval_receiver_1__", result.Evals[0].Receiver)
	assert.Equal(t, 3, result.Evals[0].Position.Line)
	assert.True(t, result.Changed())
}

func TestProcessPreservesLines(t *testing.T) {
	source := "class A\n  def x\n    @a + @b\n  end\n  def y = @c\nend\n"
	output := transform(t, source)
	assert.Equal(t, countLines(source), countLines(output))
}

func TestIgnoreDirective(t *testing.T) {
	source := "# strictivars: ignore @a\n@a\n@b\n\"#@a\"\n"
	result, err := Process("ignore.rb", source)
	require.NoError(t, err)
	assert.Equal(t, expand("# strictivars: ignore @a\n@a\n{{@b}}\n\"#@a\"\n"), result.Output)
	assert.Equal(t, []string{"@a"}, result.Ignored)
}

func TestIgnoreOption(t *testing.T) {
	assert.Equal(t, "@a\n", transform(t, "@a\n", WithIgnored("@a")))
}

func TestDisableDirective(t *testing.T) {
	source := "# strictivars: disable\n@a\neval(x)\n"
	result, err := Process("disabled.rb", source)
	require.NoError(t, err)
	assert.True(t, result.Disabled)
	assert.Equal(t, source, result.Output)
	assert.False(t, result.Changed())
	assert.Empty(t, result.Guards)
}

func TestMalformedDirectiveIsReported(t *testing.T) {
	result, err := Process("bad.rb", "# strictivars: shout\n@a\n")
	require.NoError(t, err)
	require.Len(t, result.Problems, 1)
	assert.Equal(t, expand("# strictivars: shout\n{{@a}}\n"), result.Output)
}

func TestSyntaxErrorsStillProduceOutput(t *testing.T) {
	result, err := Process("broken.rb", "def foo(\n  @a\n")
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
	assert.NotEmpty(t, result.Output)
}

func TestTransform(t *testing.T) {
	output, err := Transform("t.rb", "@a\n")
	require.NoError(t, err)
	assert.Equal(t, guarded("@a")+"\n", output)
}

// TestRemovingInsertionsRecoversSource checks that the output is the input
// with text inserted and nothing else changed.
func TestRemovingInsertionsRecoversSource(t *testing.T) {
	sources := []string{
		"def foo\n  @a if @b\n  \"#@c #{@d}\"\nend\n",
		"@x.instance_eval(@y) { @z }\ncase @a\nwhen @b then @c\nelse @d\nend\n",
		"x = <<~EOS\n  #@a\nEOS\nclass << self; @a; end\n",
	}
	for _, source := range sources {
		result, err := Process("roundtrip.rb", source)
		require.NoError(t, err)
		assert.Equal(t, source, strip(result.Output, result.Annotations))
	}
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
