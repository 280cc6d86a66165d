package parser

var KEYWORDS = map[string]TokenType{
	"alias":        ALIAS,
	"and":          AND,
	"begin":        BEGIN,
	"break":        BREAK,
	"case":         CASE,
	"class":        CLASS,
	"def":          DEF,
	"defined?":     DEFINED,
	"do":           DO,
	"else":         ELSE,
	"elsif":        ELSIF,
	"end":          END,
	"ensure":       ENSURE,
	"false":        FALSE,
	"for":          FOR,
	"if":           IF,
	"in":           IN,
	"module":       MODULE,
	"next":         NEXT,
	"nil":          NIL,
	"not":          NOT,
	"or":           OR,
	"redo":         REDO,
	"rescue":       RESCUE,
	"retry":        RETRY,
	"return":       RETURN,
	"self":         SELF,
	"super":        SUPER,
	"then":         THEN,
	"true":         TRUE,
	"undef":        UNDEF,
	"unless":       UNLESS,
	"until":        UNTIL,
	"when":         WHEN,
	"while":        WHILE,
	"yield":        YIELD,
	"__FILE__":     KW_FILE,
	"__LINE__":     KW_LINE,
	"__ENCODING__": KW_ENCODING,
}

// binaryOperators maps every operator token that can join two operands to
// its binding power. Higher binds tighter.
var binaryOperators = map[TokenType]int{
	PIPE_PIPE:         1,
	AMP_AMP:           2,
	SPACESHIP:         4,
	EQUAL_EQUAL:       4,
	EQUAL_EQUAL_EQUAL: 4,
	BANG_EQUAL:        4,
	MATCH:             4,
	NOT_MATCH:         4,
	LESS:              5,
	LESS_EQUAL:        5,
	GREATER:           5,
	GREATER_EQUAL:     5,
	PIPE:              6,
	CARET:             6,
	AMPERSAND:         7,
	LSHIFT:            8,
	RSHIFT:            8,
	PLUS:              9,
	MINUS:             9,
	STAR:              10,
	SLASH:             10,
	PERCENT:           10,
	STAR_STAR:         12,
}

// continuationTokens are tokens after which a line break does not end the
// statement.
var continuationTokens = map[TokenType]bool{
	COMMA:        true,
	DOT:          true,
	AMP_DOT:      true,
	DOUBLE_COLON: true,
	LEFT_PAREN:   true,
	LEFT_BRACKET: true,
	EQUAL:        true,
	OP_ASSIGN:    true,
	FAT_ARROW:    true,
	QUESTION:     true,
	COLON:        true,
	AND:          true,
	OR:           true,
	NOT:          true,
	BANG:         true,
	TILDE:        true,
}

func init() {
	for tt := range binaryOperators {
		continuationTokens[tt] = true
	}
	// A "|" closes block parameters far more often than it ends a line
	// mid-expression.
	delete(continuationTokens, PIPE)
}

// valueEndTokens end an operand, so what follows them is an operator rather
// than the start of a new expression.
var valueEndTokens = map[TokenType]bool{
	IDENTIFIER:    true,
	CONSTANT:      true,
	IVAR:          true,
	CVAR:          true,
	GVAR:          true,
	INTEGER:       true,
	FLOAT:         true,
	SYMBOL:        true,
	CHAR:          true,
	STRING_END:    true,
	HEREDOC_BEGIN: true,
	END:           true,
	SELF:          true,
	NIL:           true,
	TRUE:          true,
	FALSE:         true,
	KW_FILE:       true,
	KW_LINE:       true,
	KW_ENCODING:   true,
	REDO:          true,
	RETRY:         true,
	RIGHT_PAREN:   true,
	RIGHT_BRACKET: true,
	RIGHT_BRACE:   true,
	EMBEXPR_END:   true,
	DOT:           true,
	AMP_DOT:       true,
	DOUBLE_COLON:  true,
	DEF:           true,
}
