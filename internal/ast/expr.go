package ast

// Defined is "defined?(expr)" or "defined? expr".
type Defined struct {
	Span
	Value Node
}

// Unary is a prefix operator application: "!x", "-x", "not x", "~x".
type Unary struct {
	Span
	Op    string
	Value Node
}

// Binary is an infix operator application, including "&&", "||", "and",
// "or" and ranges.
type Binary struct {
	Span
	Op    string
	Left  Node
	Right Node
}

// Call is a method call. Receiver is nil for calls on the implicit self.
// Operator is ".", "&." or "::" when a receiver is present. Index access
// "a[1]" is a call named "[]". Block holds either a *Block or a
// *BlockArgument; a block argument is never part of Arguments.
type Call struct {
	Span
	Receiver  Node
	Operator  string
	Name      string
	NamePos   Position
	Arguments *Arguments
	Block     Node
	Parens    bool
}

// Arguments is the explicit argument list of a call. Its span runs from the
// start of the first argument to the end of the last one.
type Arguments struct {
	Span
	Args       []Node
	Forwarding bool
}

// Splat is "*expr" in an argument or array position. Value is nil for an
// anonymous splat.
type Splat struct {
	Span
	Value Node
}

// DoubleSplat is "**expr".
type DoubleSplat struct {
	Span
	Value Node
}

// BlockArgument is "&expr" or an anonymous "&".
type BlockArgument struct {
	Span
	Value Node
}

// ForwardingArguments is the "..." marker in "foo(...)".
type ForwardingArguments struct {
	Span
}

// KeywordHash is a brace-less hash in argument position: "foo(a: 1, b => 2)".
type KeywordHash struct {
	Span
	Elements []Node
}

// Hash is a "{ ... }" hash literal.
type Hash struct {
	Span
	Elements []Node
}

// Assoc is one "key => value" or "key: value" pair. Value is nil for the
// shorthand "key:" form.
type Assoc struct {
	Span
	Key   Node
	Value Node
}

// Array is a "[ ... ]" literal, a "%w[...]" word list, or the implicit
// array on the right side of "a, b = 1, 2".
type Array struct {
	Span
	Elements []Node
}

// LiteralKind tags the flavour of a literal.
type LiteralKind int

const (
	IntegerLit LiteralKind = iota
	FloatLit
	SymbolLit
	CharLit
	NilLit
	TrueLit
	FalseLit
	SelfLit
	FileLit
	LineLit
)

// Literal is any literal without children.
type Literal struct {
	Span
	Kind  LiteralKind
	Value string
}

// StringKind tags the flavour of a string-like literal.
type StringKind int

const (
	PlainString StringKind = iota
	XString
	RegexpString
	SymbolString
	WordsString
)

// String is a string-like literal made of content, "#{...}" and "#@x"
// parts. A heredoc spans only its opener ("<<~EOS"); its parts carry the
// offsets of the body lines.
type String struct {
	Span
	Kind    StringKind
	Opening string
	Parts   []Node
	Heredoc bool
}

// StringContent is literal text inside a string.
type StringContent struct {
	Span
	Value string
}

// StringConcat is adjacent string literals: "a" "b".
type StringConcat struct {
	Span
	Parts []Node
}

// EmbeddedStatements is "#{ ... }" inside a string.
type EmbeddedStatements struct {
	Span
	Body *Statements
}

// EmbeddedVariable is the shorthand "#@x", "#@@x" or "#$x" inside a string.
// Its span starts at the "#".
type EmbeddedVariable struct {
	Span
	Variable Node
}

// IvarRead reads an instance variable. Name includes the "@".
type IvarRead struct {
	Span
	Name string
}

// CvarRead reads a class variable. Name includes the "@@".
type CvarRead struct {
	Span
	Name string
}

// GvarRead reads a global variable. Name includes the "$".
type GvarRead struct {
	Span
	Name string
}

// LocalRead reads a local variable the parser has seen assigned.
type LocalRead struct {
	Span
	Name string
}

// Constant is a bare constant reference.
type Constant struct {
	Span
	Name string
}

// ConstantPath is "Parent::Name" or "::Name" (Parent nil).
type ConstantPath struct {
	Span
	Parent Node
	Name   string
}

// Assign is "target = value" or an operator assignment such as "+=" or
// "||=". Operator holds the operator text.
type Assign struct {
	Span
	Target   Node
	Operator string
	Value    Node
}

// MultiAssign is "a, b = value".
type MultiAssign struct {
	Span
	Targets []Node
	Value   Node
}

// IvarTarget is an instance variable on the left of an assignment.
type IvarTarget struct {
	Span
	Name string
}

// CvarTarget is a class variable on the left of an assignment.
type CvarTarget struct {
	Span
	Name string
}

// GvarTarget is a global variable on the left of an assignment.
type GvarTarget struct {
	Span
	Name string
}

// LocalTarget is a local variable on the left of an assignment.
type LocalTarget struct {
	Span
	Name string
}

// ConstantTarget is a constant on the left of an assignment. Parent is set
// for "A::B = 1".
type ConstantTarget struct {
	Span
	Parent Node
	Name   string
}

// SplatTarget is "*rest" in a multiple assignment.
type SplatTarget struct {
	Span
	Target Node
}
