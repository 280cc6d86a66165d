package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(start, end int) Span {
	return Span{Pos: Position{Offset: start}, EndPos: Position{Offset: end}}
}

// "@a if @b" as the parser would build it.
func modifierIf() *If {
	return &If{
		Span:      at(0, 8),
		Keyword:   "if",
		Modifier:  true,
		Predicate: &IvarRead{Span: at(6, 8), Name: "@b"},
		Then: &Statements{
			Span: at(0, 2),
			Body: []Node{&IvarRead{Span: at(0, 2), Name: "@a"}},
		},
	}
}

func TestChildrenSkipsNil(t *testing.T) {
	call := &Call{Span: at(0, 3), Name: "foo"}
	assert.Empty(t, Children(call))

	def := &Def{Span: at(0, 12), Name: "x", Body: (*Statements)(nil)}
	assert.Empty(t, Children(def))
}

func TestChildrenModifierOrder(t *testing.T) {
	kids := Children(modifierIf())
	require.Len(t, kids, 2)
	assert.Equal(t, STATEMENTS, kids[0].NodeType())
	assert.Equal(t, IVAR_READ, kids[1].NodeType())
}

func TestInspectVisitsInSourceOrder(t *testing.T) {
	var names []string
	Inspect(modifierIf(), func(n Node) bool {
		if iv, ok := n.(*IvarRead); ok {
			names = append(names, iv.Name)
		}
		return true
	})
	assert.Equal(t, []string{"@a", "@b"}, names)
}

func TestInspectPrunes(t *testing.T) {
	count := 0
	Inspect(modifierIf(), func(n Node) bool {
		count++
		return n.NodeType() != STATEMENTS
	})
	// If, Statements (pruned), predicate
	assert.Equal(t, 3, count)
}

func TestSourceText(t *testing.T) {
	src := "@a if @b"
	assert.Equal(t, "@b", SourceText(src, &IvarRead{Span: at(6, 8)}))
	assert.Equal(t, "", SourceText(src, &IvarRead{Span: at(6, 20)}))
}

func TestDump(t *testing.T) {
	want := "IF if [0,8)\n" +
		"  STATEMENTS [0,2)\n" +
		"    IVAR_READ @a [0,2)\n" +
		"  IVAR_READ @b [6,8)\n"
	assert.Equal(t, want, Dump(modifierIf()))
}

func TestNodeTypeString(t *testing.T) {
	assert.Equal(t, "EMBEDDED_VARIABLE", EMBEDDED_VARIABLE.String())
	assert.Equal(t, "NodeType(999)", NodeType(999).String())
}
