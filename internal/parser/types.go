// SPDX-License-Identifier: Apache-2.0
package parser

import "strconv"

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	NEWLINE

	// Identifiers + literals
	IDENTIFIER
	CONSTANT
	LABEL
	IVAR
	CVAR
	GVAR
	INTEGER
	FLOAT
	SYMBOL
	CHAR

	// String-like literals
	STRING_BEGIN
	XSTRING_BEGIN
	REGEXP_BEGIN
	SYMBOL_BEGIN
	WORDS_BEGIN
	HEREDOC_BEGIN
	STRING_CONTENT
	STRING_END
	EMBEXPR_BEGIN
	EMBEXPR_END
	EMBVAR

	// Keywords
	ALIAS
	AND
	BEGIN
	BREAK
	CASE
	CLASS
	DEF
	DEFINED
	DO
	ELSE
	ELSIF
	END
	ENSURE
	FALSE
	FOR
	IF
	IN
	MODULE
	NEXT
	NIL
	NOT
	OR
	REDO
	RESCUE
	RETRY
	RETURN
	SELF
	SUPER
	THEN
	TRUE
	UNDEF
	UNLESS
	UNTIL
	WHEN
	WHILE
	YIELD
	KW_FILE
	KW_LINE
	KW_ENCODING

	// Operators
	PLUS
	MINUS
	STAR
	STAR_STAR
	SLASH
	PERCENT
	BANG
	TILDE
	CARET
	AMPERSAND
	PIPE
	AMP_AMP
	PIPE_PIPE
	EQUAL
	EQUAL_EQUAL
	EQUAL_EQUAL_EQUAL
	MATCH
	NOT_MATCH
	BANG_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	SPACESHIP
	LSHIFT
	RSHIFT
	OP_ASSIGN
	ARROW
	FAT_ARROW

	// Separators
	COMMA
	DOT
	AMP_DOT
	DOT2
	DOT3
	SEMICOLON
	COLON
	DOUBLE_COLON
	QUESTION

	// Brackets
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_BRACKET
	RIGHT_BRACKET
)

var tokenTypeNames = [...]string{
	ILLEGAL:           "ILLEGAL",
	EOF:               "EOF",
	NEWLINE:           "NEWLINE",
	IDENTIFIER:        "IDENTIFIER",
	CONSTANT:          "CONSTANT",
	LABEL:             "LABEL",
	IVAR:              "IVAR",
	CVAR:              "CVAR",
	GVAR:              "GVAR",
	INTEGER:           "INTEGER",
	FLOAT:             "FLOAT",
	SYMBOL:            "SYMBOL",
	CHAR:              "CHAR",
	STRING_BEGIN:      "STRING_BEGIN",
	XSTRING_BEGIN:     "XSTRING_BEGIN",
	REGEXP_BEGIN:      "REGEXP_BEGIN",
	SYMBOL_BEGIN:      "SYMBOL_BEGIN",
	WORDS_BEGIN:       "WORDS_BEGIN",
	HEREDOC_BEGIN:     "HEREDOC_BEGIN",
	STRING_CONTENT:    "STRING_CONTENT",
	STRING_END:        "STRING_END",
	EMBEXPR_BEGIN:     "EMBEXPR_BEGIN",
	EMBEXPR_END:       "EMBEXPR_END",
	EMBVAR:            "EMBVAR",
	ALIAS:             "ALIAS",
	AND:               "AND",
	BEGIN:             "BEGIN",
	BREAK:             "BREAK",
	CASE:              "CASE",
	CLASS:             "CLASS",
	DEF:               "DEF",
	DEFINED:           "DEFINED",
	DO:                "DO",
	ELSE:              "ELSE",
	ELSIF:             "ELSIF",
	END:               "END",
	ENSURE:            "ENSURE",
	FALSE:             "FALSE",
	FOR:               "FOR",
	IF:                "IF",
	IN:                "IN",
	MODULE:            "MODULE",
	NEXT:              "NEXT",
	NIL:               "NIL",
	NOT:               "NOT",
	OR:                "OR",
	REDO:              "REDO",
	RESCUE:            "RESCUE",
	RETRY:             "RETRY",
	RETURN:            "RETURN",
	SELF:              "SELF",
	SUPER:             "SUPER",
	THEN:              "THEN",
	TRUE:              "TRUE",
	UNDEF:             "UNDEF",
	UNLESS:            "UNLESS",
	UNTIL:             "UNTIL",
	WHEN:              "WHEN",
	WHILE:             "WHILE",
	YIELD:             "YIELD",
	KW_FILE:           "KW_FILE",
	KW_LINE:           "KW_LINE",
	KW_ENCODING:       "KW_ENCODING",
	PLUS:              "PLUS",
	MINUS:             "MINUS",
	STAR:              "STAR",
	STAR_STAR:         "STAR_STAR",
	SLASH:             "SLASH",
	PERCENT:           "PERCENT",
	BANG:              "BANG",
	TILDE:             "TILDE",
	CARET:             "CARET",
	AMPERSAND:         "AMPERSAND",
	PIPE:              "PIPE",
	AMP_AMP:           "AMP_AMP",
	PIPE_PIPE:         "PIPE_PIPE",
	EQUAL:             "EQUAL",
	EQUAL_EQUAL:       "EQUAL_EQUAL",
	EQUAL_EQUAL_EQUAL: "EQUAL_EQUAL_EQUAL",
	MATCH:             "MATCH",
	NOT_MATCH:         "NOT_MATCH",
	BANG_EQUAL:        "BANG_EQUAL",
	LESS:              "LESS",
	LESS_EQUAL:        "LESS_EQUAL",
	GREATER:           "GREATER",
	GREATER_EQUAL:     "GREATER_EQUAL",
	SPACESHIP:         "SPACESHIP",
	LSHIFT:            "LSHIFT",
	RSHIFT:            "RSHIFT",
	OP_ASSIGN:         "OP_ASSIGN",
	ARROW:             "ARROW",
	FAT_ARROW:         "FAT_ARROW",
	COMMA:             "COMMA",
	DOT:               "DOT",
	AMP_DOT:           "AMP_DOT",
	DOT2:              "DOT2",
	DOT3:              "DOT3",
	SEMICOLON:         "SEMICOLON",
	COLON:             "COLON",
	DOUBLE_COLON:      "DOUBLE_COLON",
	QUESTION:          "QUESTION",
	LEFT_PAREN:        "LEFT_PAREN",
	RIGHT_PAREN:       "RIGHT_PAREN",
	LEFT_BRACE:        "LEFT_BRACE",
	RIGHT_BRACE:       "RIGHT_BRACE",
	LEFT_BRACKET:      "LEFT_BRACKET",
	RIGHT_BRACKET:     "RIGHT_BRACKET",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) && tokenTypeNames[t] != "" {
		return tokenTypeNames[t]
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based absolute index in input
}

// Comment is a "#" line comment or an "=begin" block, kept out of the token
// stream so directive parsing can look at it separately.
type Comment struct {
	Text     string
	Position Position
}
