package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string) string {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	require.NoError(t, Start(strings.NewReader(input), &out))
	return out.String()
}

func TestSnippetEndsAtEmptyLine(t *testing.T) {
	out := run(t, "def foo\n  @bar\nend\n\n")
	assert.Contains(t, out, "(defined?(@bar) ? @bar : (::Kernel.raise(::StrictIvars::NameError.new(self, :@bar))))")
	assert.Contains(t, out, CONTINUE)
}

func TestSnippetFlushedAtEOF(t *testing.T) {
	out := run(t, "@a")
	assert.Contains(t, out, "defined?(@a)")
}

func TestQuitStopsReading(t *testing.T) {
	out := run(t, ":quit\n@a\n\n")
	assert.NotContains(t, out, "defined?")
}

func TestSitesToggle(t *testing.T) {
	out := run(t, ":sites\n@a\n\n")
	assert.Contains(t, out, "sites on")
	assert.Contains(t, out, "guarded first read of '@a'")
}

func TestEvalToggle(t *testing.T) {
	out := run(t, ":eval\nfoo.instance_eval(\"@a\")\n\n")
	assert.Contains(t, out, "eval rewriting off")
	assert.NotContains(t, out, "__eval_receiver_")

	out = run(t, "foo.instance_eval(\"@a\")\n\n")
	assert.Contains(t, out, "__eval_receiver_1__")
}

func TestUnknownCommand(t *testing.T) {
	out := run(t, ":nope\n")
	assert.Contains(t, out, "unknown command :nope")
}

func TestSyntaxErrorIsReported(t *testing.T) {
	out := run(t, "def foo(\n\n")
	assert.Contains(t, out, "error[E0101]")
}
