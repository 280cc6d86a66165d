package instrument

import (
	"strictivars/internal/ast"
)

// Site is an instance variable read that received a guard.
type Site struct {
	Name      string
	Position  ast.Position
	End       ast.Position
	Shorthand bool // the read was a "#@x" interpolation
}

// walker makes a single pass over a syntax tree and collects the
// annotations that make it strict. It owns its scope context, so one walker
// serves one transformation.
type walker struct {
	ctx         *Context
	annotations AnnotationList
	ignored     map[string]bool
	evalRewrite bool

	sites       []Site
	evals       []EvalSite
	evalCounter int
}

func newWalker(options *runOptions) *walker {
	ignored := make(map[string]bool, len(options.ignored))
	for _, name := range options.ignored {
		ignored[name] = true
	}
	return &walker{
		ctx:         NewContext(),
		ignored:     ignored,
		evalRewrite: options.evalRewrite,
	}
}

func (w *walker) visit(n ast.Node) {
	if ast.IsNil(n) {
		return
	}

	switch n := n.(type) {
	case *ast.Def, *ast.Class, *ast.Module, *ast.SingletonClass, *ast.Block, *ast.Lambda:
		defer w.ctx.ExitScope(w.ctx.EnterScope())
		w.visitChildren(n)

	case *ast.If:
		w.visit(n.Predicate)
		w.branch(n.Then)
		w.branch(n.Subsequent)

	case *ast.Case:
		w.visit(n.Subject)
		for _, arm := range n.Arms {
			w.branch(arm)
		}
		w.branch(n.Else)

	case *ast.While:
		w.visit(n.Predicate)
		w.visit(n.Body)

	case *ast.Defined:
		if _, ok := n.Value.(*ast.IvarRead); ok {
			return
		}
		w.visit(n.Value)

	case *ast.EmbeddedVariable:
		w.visitEmbedded(n)

	case *ast.IvarRead:
		w.guard(n, false)

	case *ast.Call:
		if w.evalRewrite && isEvalCall(n) {
			defer w.openEval(n)()
		}
		w.visitChildren(n)

	default:
		w.visitChildren(n)
	}
}

func (w *walker) visitChildren(n ast.Node) {
	for _, c := range ast.Children(n) {
		w.visit(c)
	}
}

// branch visits n against a copy of the current scope set. What n learns
// is dropped when it ends.
func (w *walker) branch(n ast.Node) {
	if ast.IsNil(n) {
		return
	}
	defer w.ctx.ExitBranch(w.ctx.EnterBranch())
	w.visit(n)
}

// visitEmbedded turns "#@x" into "#{@x}" when the read needs a guard, since
// the guard expression cannot follow a bare "#".
func (w *walker) visitEmbedded(n *ast.EmbeddedVariable) {
	read, ok := n.Variable.(*ast.IvarRead)
	if !ok || !w.needsGuard(read.Name) {
		return
	}
	w.annotations.Push(read.NodePos().Offset, shorthandOpen)
	w.guard(read, true)
	w.annotations.Push(read.NodeEndPos().Offset, shorthandClose)
}

func (w *walker) needsGuard(name string) bool {
	return !w.ignored[name] && !w.ctx.IsValidated(name)
}

func (w *walker) guard(read *ast.IvarRead, shorthand bool) {
	if !w.needsGuard(read.Name) {
		return
	}
	w.ctx.MarkValidated(read.Name)
	w.annotations.Push(read.NodePos().Offset, guardOpen(read.Name))
	w.annotations.Push(read.NodeEndPos().Offset, guardClose(read.Name))
	w.sites = append(w.sites, Site{
		Name:      read.Name,
		Position:  read.NodePos(),
		End:       read.NodeEndPos(),
		Shorthand: shorthand,
	})
}
