package instrument

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strip removes the inserted texts from output, given the annotations that
// produced it.
func strip(output string, annotations []Annotation) string {
	sorted := slices.Clone(annotations)
	slices.SortStableFunc(sorted, func(a, b Annotation) int { return cmp.Compare(a.Offset, b.Offset) })

	var b strings.Builder
	shift, last := 0, 0
	for _, a := range sorted {
		start := a.Offset + shift
		b.WriteString(output[last:start])
		last = start + len(a.Text)
		shift += len(a.Text)
	}
	b.WriteString(output[last:])
	return b.String()
}

func TestApply(t *testing.T) {
	output, err := Apply("abc", []Annotation{{Offset: 3, Text: "!"}, {Offset: 0, Text: ">"}, {Offset: 1, Text: "-"}})
	require.NoError(t, err)
	assert.Equal(t, ">a-bc!", output)
}

func TestApplySameOffsetKeepsDiscoveryOrder(t *testing.T) {
	var list AnnotationList
	list.Push(1, "(")
	list.Push(2, ")")
	list.Push(1, "[")
	list.Push(2, "]")
	output, err := Apply("xyz", list)
	require.NoError(t, err)
	assert.Equal(t, "x([y)]z", output)
}

func TestApplyNothing(t *testing.T) {
	output, err := Apply("unchanged", nil)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", output)
}

func TestApplyDoesNotReorderInput(t *testing.T) {
	annotations := []Annotation{{Offset: 2, Text: "b"}, {Offset: 1, Text: "a"}}
	_, err := Apply("xyz", annotations)
	require.NoError(t, err)
	assert.Equal(t, []Annotation{{Offset: 2, Text: "b"}, {Offset: 1, Text: "a"}}, annotations)
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	_, err := Apply("ab", []Annotation{{Offset: 3, Text: "x"}})
	require.ErrorIs(t, err, ErrOffsetOutOfRange)

	_, err = Apply("ab", []Annotation{{Offset: -1, Text: "x"}})
	require.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestApplyRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	source := "def foo\n  @a + @b\nend\n"
	for range 100 {
		var list AnnotationList
		for range r.IntN(8) {
			list.Push(r.IntN(len(source)+1), strings.Repeat("x", 1+r.IntN(3)))
		}
		output, err := Apply(source, list)
		require.NoError(t, err)
		assert.Equal(t, source, strip(output, list))
	}
}

// naiveApply splices each annotation into the text one at a time.
func naiveApply(source string, annotations []Annotation) string {
	sorted := slices.Clone(annotations)
	slices.SortStableFunc(sorted, func(a, b Annotation) int { return cmp.Compare(a.Offset, b.Offset) })
	out := source
	for i := len(sorted) - 1; i >= 0; i-- {
		a := sorted[i]
		out = out[:a.Offset] + a.Text + out[a.Offset:]
	}
	return out
}

func TestApplyMatchesSplicing(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	source := "class A\n  def x = \"#@a\"\nend\n"
	for range 200 {
		var list AnnotationList
		for range r.IntN(12) {
			list.Push(r.IntN(len(source)+1), strings.Repeat(string(rune('a'+r.IntN(2))), 1+r.IntN(4)))
		}
		output, err := Apply(source, list)
		require.NoError(t, err)
		assert.Equal(t, naiveApply(source, list), output)
	}
}

func TestApplyAtBothEnds(t *testing.T) {
	output, err := Apply("ab", []Annotation{{Offset: 2, Text: ">"}, {Offset: 0, Text: "<"}, {Offset: 2, Text: "!"}})
	require.NoError(t, err)
	assert.Equal(t, "<ab>!", output)

	output, err = Apply("", []Annotation{{Offset: 0, Text: "x"}, {Offset: 0, Text: "y"}})
	require.NoError(t, err)
	assert.Equal(t, "xy", output)
}

// largeSource has one guarded reader per method, so annotations grow with
// the input.
func largeSource(methods int) string {
	var b strings.Builder
	b.WriteString("class Big\n")
	for i := range methods {
		fmt.Fprintf(&b, "  def m%d\n    @v%d + @w\n  end\n", i, i)
	}
	b.WriteString("end\n")
	return b.String()
}

func TestProcessLargeInput(t *testing.T) {
	source := largeSource(20000)
	start := time.Now()
	result, err := Process("big.rb", source)
	require.NoError(t, err)
	assert.Len(t, result.Guards, 40000)
	assert.Equal(t, source, strip(result.Output, result.Annotations))
	assert.Less(t, time.Since(start), 30*time.Second)
}

func BenchmarkApply(b *testing.B) {
	source := largeSource(8000)
	result, err := Process("big.rb", source)
	require.NoError(b, err)
	b.ResetTimer()
	for b.Loop() {
		if _, err := Apply(source, result.Annotations); err != nil {
			b.Fatal(err)
		}
	}
}
