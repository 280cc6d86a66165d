package ast

import (
	"fmt"
	"strings"
)

// Dump renders the tree rooted at n as an indented outline, one node per
// line, with each node's byte range. It is meant for tests and debugging.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	if isNil(n) {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.NodeType().String())
	if d := detail(n); d != "" {
		b.WriteString(" ")
		b.WriteString(d)
	}
	fmt.Fprintf(b, " [%d,%d)\n", n.NodePos().Offset, n.NodeEndPos().Offset)
	for _, c := range Children(n) {
		dump(b, c, depth+1)
	}
}

func detail(n Node) string {
	switch n := n.(type) {
	case *BadNode:
		return fmt.Sprintf("%q", n.Message)
	case *Def:
		if n.Endless {
			return n.Name + " (endless)"
		}
		return n.Name
	case *Parameter:
		return n.Name
	case *If:
		return n.Keyword
	case *While:
		return n.Keyword
	case *Jump:
		return n.Keyword
	case *Alias:
		return n.Keyword
	case *Unary:
		return n.Op
	case *Binary:
		return n.Op
	case *Call:
		return n.Operator + n.Name
	case *Literal:
		return n.Value
	case *String:
		return n.Opening
	case *StringContent:
		return fmt.Sprintf("%q", n.Value)
	case *IvarRead:
		return n.Name
	case *CvarRead:
		return n.Name
	case *GvarRead:
		return n.Name
	case *LocalRead:
		return n.Name
	case *Constant:
		return n.Name
	case *ConstantPath:
		return n.Name
	case *Assign:
		return n.Operator
	case *IvarTarget:
		return n.Name
	case *CvarTarget:
		return n.Name
	case *GvarTarget:
		return n.Name
	case *LocalTarget:
		return n.Name
	case *ConstantTarget:
		return n.Name
	}
	return ""
}
