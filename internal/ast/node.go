package ast

// Position tracks location information for error reporting and tooling.
// Offset is a 0-based byte index into the original source.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Node is implemented by every syntax tree node.
type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() NodeType
}

// Span is embedded by every node to carry its source range.
type Span struct {
	Pos    Position
	EndPos Position
}

func (s *Span) NodePos() Position    { return s.Pos }
func (s *Span) NodeEndPos() Position { return s.EndPos }

func (*BadNode) NodeType() NodeType             { return BAD_NODE }
func (*Program) NodeType() NodeType             { return PROGRAM }
func (*Statements) NodeType() NodeType          { return STATEMENTS }
func (*Parentheses) NodeType() NodeType         { return PARENTHESES }
func (*Def) NodeType() NodeType                 { return DEF }
func (*Class) NodeType() NodeType               { return CLASS }
func (*SingletonClass) NodeType() NodeType      { return SINGLETON_CLASS }
func (*Module) NodeType() NodeType              { return MODULE }
func (*Block) NodeType() NodeType               { return BLOCK }
func (*Lambda) NodeType() NodeType              { return LAMBDA }
func (*Parameters) NodeType() NodeType          { return PARAMETERS }
func (*Parameter) NodeType() NodeType           { return PARAMETER }
func (*If) NodeType() NodeType                  { return IF }
func (*Else) NodeType() NodeType                { return ELSE }
func (*Case) NodeType() NodeType                { return CASE }
func (*When) NodeType() NodeType                { return WHEN }
func (*In) NodeType() NodeType                  { return IN }
func (*While) NodeType() NodeType               { return WHILE }
func (*For) NodeType() NodeType                 { return FOR }
func (*Begin) NodeType() NodeType               { return BEGIN }
func (*Rescue) NodeType() NodeType              { return RESCUE }
func (*Ensure) NodeType() NodeType              { return ENSURE }
func (*RescueModifier) NodeType() NodeType      { return RESCUE_MODIFIER }
func (*Jump) NodeType() NodeType                { return JUMP }
func (*Yield) NodeType() NodeType               { return YIELD }
func (*Super) NodeType() NodeType               { return SUPER }
func (*Alias) NodeType() NodeType               { return ALIAS }
func (*Defined) NodeType() NodeType             { return DEFINED }
func (*Unary) NodeType() NodeType               { return UNARY }
func (*Binary) NodeType() NodeType              { return BINARY }
func (*Call) NodeType() NodeType                { return CALL }
func (*Arguments) NodeType() NodeType           { return ARGUMENTS }
func (*Splat) NodeType() NodeType               { return SPLAT }
func (*DoubleSplat) NodeType() NodeType         { return DOUBLE_SPLAT }
func (*BlockArgument) NodeType() NodeType       { return BLOCK_ARGUMENT }
func (*ForwardingArguments) NodeType() NodeType { return FORWARDING_ARGUMENTS }
func (*KeywordHash) NodeType() NodeType         { return KEYWORD_HASH }
func (*Hash) NodeType() NodeType                { return HASH }
func (*Assoc) NodeType() NodeType               { return ASSOC }
func (*Array) NodeType() NodeType               { return ARRAY }
func (*Literal) NodeType() NodeType             { return LITERAL }
func (*String) NodeType() NodeType              { return STRING }
func (*StringContent) NodeType() NodeType       { return STRING_CONTENT }
func (*StringConcat) NodeType() NodeType        { return STRING_CONCAT }
func (*EmbeddedStatements) NodeType() NodeType  { return EMBEDDED_STATEMENTS }
func (*EmbeddedVariable) NodeType() NodeType    { return EMBEDDED_VARIABLE }
func (*IvarRead) NodeType() NodeType            { return IVAR_READ }
func (*CvarRead) NodeType() NodeType            { return CVAR_READ }
func (*GvarRead) NodeType() NodeType            { return GVAR_READ }
func (*LocalRead) NodeType() NodeType           { return LOCAL_READ }
func (*Constant) NodeType() NodeType            { return CONSTANT }
func (*ConstantPath) NodeType() NodeType        { return CONSTANT_PATH }
func (*Assign) NodeType() NodeType              { return ASSIGN }
func (*MultiAssign) NodeType() NodeType         { return MULTI_ASSIGN }
func (*IvarTarget) NodeType() NodeType          { return IVAR_TARGET }
func (*CvarTarget) NodeType() NodeType          { return CVAR_TARGET }
func (*GvarTarget) NodeType() NodeType          { return GVAR_TARGET }
func (*LocalTarget) NodeType() NodeType         { return LOCAL_TARGET }
func (*ConstantTarget) NodeType() NodeType      { return CONSTANT_TARGET }
func (*SplatTarget) NodeType() NodeType         { return SPLAT_TARGET }
