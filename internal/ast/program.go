package ast

// Program is the root of a parsed source file.
type Program struct {
	Span
	Statements *Statements
}

// Statements is a sequence of statements separated by newlines or semicolons.
type Statements struct {
	Span
	Body []Node
}

// BadNode stands in for source the parser could not make sense of.
// It has no children, so nothing inside it is ever instrumented.
type BadNode struct {
	Span
	Message string
}

// Parentheses is a parenthesised statement list: "(a; b)".
type Parentheses struct {
	Span
	Body *Statements
}

// Def is a method definition: "def name(params) ... end", "def self.name",
// or the endless form "def name = expr".
type Def struct {
	Span
	Receiver   Node
	Name       string
	Parameters *Parameters
	Body       Node // *Statements or *Begin
	Endless    bool
}

// Class is "class Name < Super ... end".
type Class struct {
	Span
	ConstantPath Node
	Superclass   Node
	Body         Node
}

// SingletonClass is "class << expr ... end".
type SingletonClass struct {
	Span
	Expression Node
	Body       Node
}

// Module is "module Name ... end".
type Module struct {
	Span
	ConstantPath Node
	Body         Node
}

// Block is a "{ |x| ... }" or "do |x| ... end" block attached to a call.
type Block struct {
	Span
	Parameters *Parameters
	Body       Node
	Brace      bool
}

// Lambda is "->(x) { ... }" or "-> do ... end".
type Lambda struct {
	Span
	Parameters *Parameters
	Body       Node
}

// Parameters is a method, block or lambda parameter list.
type Parameters struct {
	Span
	Params []*Parameter
}

// ParameterKind distinguishes the flavours of parameter.
type ParameterKind int

const (
	RequiredParam ParameterKind = iota
	OptionalParam
	RestParam
	KeywordParam
	KeywordRestParam
	BlockParam
	ForwardingParam
	DestructuredParam
)

// Parameter is one entry of a parameter list. Default holds the default
// value expression for optional and keyword parameters, Nested the inner
// list of a destructured parameter.
type Parameter struct {
	Span
	Kind    ParameterKind
	Name    string
	Default Node
	Nested  *Parameters
}

// If covers "if", "unless", "elsif", the modifier forms and the ternary
// operator. Subsequent is either an *If (elsif) or an *Else.
type If struct {
	Span
	Keyword    string
	Predicate  Node
	Then       *Statements
	Subsequent Node
	Modifier   bool
}

// Else is the "else" clause of a conditional, case or begin.
type Else struct {
	Span
	Body *Statements
}

// Case is "case subject when ... in ... else ... end".
type Case struct {
	Span
	Subject Node
	Arms    []Node // *When or *In
	Else    *Else
}

// When is one "when a, b then ..." arm.
type When struct {
	Span
	Conditions []Node
	Body       *Statements
}

// In is one pattern-matching "in pattern [if guard] then ..." arm. The
// pattern itself is kept as a span only.
type In struct {
	Span
	Pattern Span
	Guard   Node
	Body    *Statements
}

// While covers "while"/"until" loops and their modifier forms.
type While struct {
	Span
	Keyword   string
	Predicate Node
	Body      *Statements
	Modifier  bool
}

// For is "for a, b in expr do ... end".
type For struct {
	Span
	Targets    []Node
	Collection Node
	Body       *Statements
}

// Begin is "begin ... rescue ... else ... ensure ... end", and also the
// implicit body of a def, class, module or do-block that carries rescue
// clauses.
type Begin struct {
	Span
	Body    *Statements
	Rescues []*Rescue
	Else    *Else
	Ensure  *Ensure
}

// Rescue is one "rescue A, B => e" clause.
type Rescue struct {
	Span
	Exceptions []Node
	Reference  Node
	Body       *Statements
}

// Ensure is the "ensure" clause of a begin.
type Ensure struct {
	Span
	Body *Statements
}

// RescueModifier is "expr rescue fallback".
type RescueModifier struct {
	Span
	Expression Node
	Rescue     Node
}

// Jump is "return", "break", "next", "redo" or "retry" with optional arguments.
type Jump struct {
	Span
	Keyword   string
	Arguments *Arguments
}

// Yield is "yield args".
type Yield struct {
	Span
	Arguments *Arguments
}

// Super is "super", "super()" or "super(args)" with an optional block.
type Super struct {
	Span
	Arguments *Arguments
	Block     Node
	Parens    bool
}

// Alias is "alias new old" or "undef name". Its operands are names, not
// expressions, so it has no children.
type Alias struct {
	Span
	Keyword string
}
