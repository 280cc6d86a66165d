package instrument

import "fmt"

// ScopeSet holds the instance variables already guarded in a scope.
type ScopeSet map[string]struct{}

func (s ScopeSet) clone() ScopeSet {
	c := make(ScopeSet, len(s))
	for name := range s {
		c[name] = struct{}{}
	}
	return c
}

// Context tracks which instance variables have been validated while the
// walker descends. Exactly one set is current; the sets it replaced are
// kept on a stack and restored, unchanged, when the scope or branch that
// replaced them ends.
type Context struct {
	current ScopeSet
	saved   []ScopeSet
}

// Token ties an exit to the enter that produced it.
type Token struct {
	depth  int
	branch bool
}

func NewContext() *Context {
	return &Context{current: ScopeSet{}}
}

// EnterScope starts an empty set for a def, class, module, singleton
// class, block or lambda body.
func (c *Context) EnterScope() Token {
	c.saved = append(c.saved, c.current)
	c.current = ScopeSet{}
	return Token{depth: c.depth()}
}

// ExitScope discards what the scope learned.
func (c *Context) ExitScope(t Token) {
	c.restore(t, false)
}

// EnterBranch makes a copy of the current set current, so one arm of a
// conditional starts from what was known before the conditional.
func (c *Context) EnterBranch() Token {
	c.saved = append(c.saved, c.current)
	c.current = c.current.clone()
	return Token{depth: c.depth(), branch: true}
}

// ExitBranch restores the set from before the branch. Nothing the branch
// validated survives it.
func (c *Context) ExitBranch(t Token) {
	c.restore(t, true)
}

func (c *Context) restore(t Token, branch bool) {
	if t.depth != c.depth() || t.branch != branch {
		panic(fmt.Sprintf("instrument: unbalanced scope exit at depth %d (token depth %d, branch %t)",
			c.depth(), t.depth, t.branch))
	}
	c.current = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
}

func (c *Context) MarkValidated(name string) {
	c.current[name] = struct{}{}
}

// IsValidated only consults the current set. Enclosing scopes are opaque.
func (c *Context) IsValidated(name string) bool {
	_, ok := c.current[name]
	return ok
}

// depth is the number of saved sets, zero at the top level.
func (c *Context) depth() int {
	return len(c.saved)
}
