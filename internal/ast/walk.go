package ast

// Children returns the direct children of n in the order they appear in the
// source. Nil children are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		add(stmts(n.Statements))
	case *Statements:
		add(n.Body...)
	case *Parentheses:
		add(stmts(n.Body))
	case *Def:
		add(n.Receiver, params(n.Parameters), n.Body)
	case *Class:
		add(n.ConstantPath, n.Superclass, n.Body)
	case *SingletonClass:
		add(n.Expression, n.Body)
	case *Module:
		add(n.ConstantPath, n.Body)
	case *Block:
		add(params(n.Parameters), n.Body)
	case *Lambda:
		add(params(n.Parameters), n.Body)
	case *Parameters:
		for _, p := range n.Params {
			add(p)
		}
	case *Parameter:
		add(n.Default, params(n.Nested))
	case *If:
		if n.Modifier {
			add(stmts(n.Then), n.Predicate)
		} else {
			add(n.Predicate, stmts(n.Then), n.Subsequent)
		}
	case *Else:
		add(stmts(n.Body))
	case *Case:
		add(n.Subject)
		add(n.Arms...)
		if n.Else != nil {
			add(n.Else)
		}
	case *When:
		add(n.Conditions...)
		add(stmts(n.Body))
	case *In:
		add(n.Guard, stmts(n.Body))
	case *While:
		if n.Modifier {
			add(stmts(n.Body), n.Predicate)
		} else {
			add(n.Predicate, stmts(n.Body))
		}
	case *For:
		add(n.Targets...)
		add(n.Collection, stmts(n.Body))
	case *Begin:
		add(stmts(n.Body))
		for _, r := range n.Rescues {
			add(r)
		}
		if n.Else != nil {
			add(n.Else)
		}
		if n.Ensure != nil {
			add(n.Ensure)
		}
	case *Rescue:
		add(n.Exceptions...)
		add(n.Reference, stmts(n.Body))
	case *Ensure:
		add(stmts(n.Body))
	case *RescueModifier:
		add(n.Expression, n.Rescue)
	case *Jump:
		add(args(n.Arguments))
	case *Yield:
		add(args(n.Arguments))
	case *Super:
		add(args(n.Arguments), n.Block)
	case *Defined:
		add(n.Value)
	case *Unary:
		add(n.Value)
	case *Binary:
		add(n.Left, n.Right)
	case *Call:
		add(n.Receiver, args(n.Arguments), n.Block)
	case *Arguments:
		add(n.Args...)
	case *Splat:
		add(n.Value)
	case *DoubleSplat:
		add(n.Value)
	case *BlockArgument:
		add(n.Value)
	case *KeywordHash:
		add(n.Elements...)
	case *Hash:
		add(n.Elements...)
	case *Assoc:
		add(n.Key, n.Value)
	case *Array:
		add(n.Elements...)
	case *String:
		add(n.Parts...)
	case *StringConcat:
		add(n.Parts...)
	case *EmbeddedStatements:
		add(stmts(n.Body))
	case *EmbeddedVariable:
		add(n.Variable)
	case *ConstantPath:
		add(n.Parent)
	case *Assign:
		add(n.Target, n.Value)
	case *MultiAssign:
		add(n.Targets...)
		add(n.Value)
	case *ConstantTarget:
		add(n.Parent)
	case *SplatTarget:
		add(n.Target)
	}
	return out
}

// Inspect traverses the tree rooted at n in depth-first source order,
// calling f for each node. If f returns false the node's children are
// skipped.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// SourceText returns the slice of src covered by n, or "" when the node's
// offsets do not fit inside src.
func SourceText(src string, n Node) string {
	start, end := n.NodePos().Offset, n.NodeEndPos().Offset
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return src[start:end]
}

// The helpers below turn typed nil pointers into untyped nil interfaces so
// add can drop them.

func stmts(s *Statements) Node {
	if s == nil {
		return nil
	}
	return s
}

func params(p *Parameters) Node {
	if p == nil {
		return nil
	}
	return p
}

func args(a *Arguments) Node {
	if a == nil {
		return nil
	}
	return a
}

// IsNil reports whether n is nil or a typed nil pointer to one of the
// optional child node types.
func IsNil(n Node) bool {
	return isNil(n)
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Statements:
		return v == nil
	case *Parameters:
		return v == nil
	case *Arguments:
		return v == nil
	case *Else:
		return v == nil
	case *Block:
		return v == nil
	}
	return false
}
