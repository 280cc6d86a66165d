package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"strictivars/internal/parser"
)

func TestScopeStartsEmptyAndRestores(t *testing.T) {
	ctx := NewContext()
	ctx.MarkValidated("@a")

	token := ctx.EnterScope()
	assert.False(t, ctx.IsValidated("@a"))
	ctx.MarkValidated("@b")
	assert.Equal(t, 1, ctx.depth())
	ctx.ExitScope(token)

	assert.True(t, ctx.IsValidated("@a"))
	assert.False(t, ctx.IsValidated("@b"))
	assert.Equal(t, 0, ctx.depth())
}

func TestBranchCopiesAndDiscards(t *testing.T) {
	ctx := NewContext()
	ctx.MarkValidated("@a")

	token := ctx.EnterBranch()
	assert.True(t, ctx.IsValidated("@a"))
	ctx.MarkValidated("@b")
	ctx.ExitBranch(token)

	assert.True(t, ctx.IsValidated("@a"))
	assert.False(t, ctx.IsValidated("@b"))
}

func TestNestedBranchesInsideScope(t *testing.T) {
	ctx := NewContext()
	scope := ctx.EnterScope()
	ctx.MarkValidated("@a")
	outer := ctx.EnterBranch()
	inner := ctx.EnterBranch()
	ctx.MarkValidated("@b")
	ctx.ExitBranch(inner)
	assert.False(t, ctx.IsValidated("@b"))
	assert.True(t, ctx.IsValidated("@a"))
	ctx.ExitBranch(outer)
	ctx.ExitScope(scope)
	assert.False(t, ctx.IsValidated("@a"))
}

func TestMismatchedExitPanics(t *testing.T) {
	ctx := NewContext()
	outer := ctx.EnterScope()
	ctx.EnterBranch()
	assert.Panics(t, func() { ctx.ExitScope(outer) })

	ctx = NewContext()
	branch := ctx.EnterBranch()
	assert.Panics(t, func() { ctx.ExitScope(branch) })
}

func TestWalkerLeavesScopesBalanced(t *testing.T) {
	options := makeOptions()
	w := newWalker(&options)
	w.visit(parser.Parse("t.rb", "class A\n  def x\n    if @a then @b else [1].each { @c } end\n  end\nend\n").Program)
	assert.Equal(t, 0, w.ctx.depth())
}
