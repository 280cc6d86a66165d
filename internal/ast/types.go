package ast

import "strconv"

// NodeType tags every node kind the parser produces.
type NodeType int

const (
	// Special / error
	ILLEGAL NodeType = iota
	BAD_NODE

	// Containers
	PROGRAM
	STATEMENTS
	PARENTHESES

	// Scope-opening constructs
	DEF
	CLASS
	SINGLETON_CLASS
	MODULE
	BLOCK
	LAMBDA
	PARAMETERS
	PARAMETER

	// Control flow
	IF
	ELSE
	CASE
	WHEN
	IN
	WHILE
	FOR
	BEGIN
	RESCUE
	ENSURE
	RESCUE_MODIFIER
	JUMP
	YIELD
	SUPER
	ALIAS

	// Expressions
	DEFINED
	UNARY
	BINARY
	CALL
	ARGUMENTS
	SPLAT
	DOUBLE_SPLAT
	BLOCK_ARGUMENT
	FORWARDING_ARGUMENTS
	KEYWORD_HASH
	HASH
	ASSOC
	ARRAY
	LITERAL

	// Strings
	STRING
	STRING_CONTENT
	STRING_CONCAT
	EMBEDDED_STATEMENTS
	EMBEDDED_VARIABLE

	// Variables
	IVAR_READ
	CVAR_READ
	GVAR_READ
	LOCAL_READ
	CONSTANT
	CONSTANT_PATH

	// Writes
	ASSIGN
	MULTI_ASSIGN
	IVAR_TARGET
	CVAR_TARGET
	GVAR_TARGET
	LOCAL_TARGET
	CONSTANT_TARGET
	SPLAT_TARGET
)

var nodeTypeNames = [...]string{
	ILLEGAL:              "ILLEGAL",
	BAD_NODE:             "BAD_NODE",
	PROGRAM:              "PROGRAM",
	STATEMENTS:           "STATEMENTS",
	PARENTHESES:          "PARENTHESES",
	DEF:                  "DEF",
	CLASS:                "CLASS",
	SINGLETON_CLASS:      "SINGLETON_CLASS",
	MODULE:               "MODULE",
	BLOCK:                "BLOCK",
	LAMBDA:               "LAMBDA",
	PARAMETERS:           "PARAMETERS",
	PARAMETER:            "PARAMETER",
	IF:                   "IF",
	ELSE:                 "ELSE",
	CASE:                 "CASE",
	WHEN:                 "WHEN",
	IN:                   "IN",
	WHILE:                "WHILE",
	FOR:                  "FOR",
	BEGIN:                "BEGIN",
	RESCUE:               "RESCUE",
	ENSURE:               "ENSURE",
	RESCUE_MODIFIER:      "RESCUE_MODIFIER",
	JUMP:                 "JUMP",
	YIELD:                "YIELD",
	SUPER:                "SUPER",
	ALIAS:                "ALIAS",
	DEFINED:              "DEFINED",
	UNARY:                "UNARY",
	BINARY:               "BINARY",
	CALL:                 "CALL",
	ARGUMENTS:            "ARGUMENTS",
	SPLAT:                "SPLAT",
	DOUBLE_SPLAT:         "DOUBLE_SPLAT",
	BLOCK_ARGUMENT:       "BLOCK_ARGUMENT",
	FORWARDING_ARGUMENTS: "FORWARDING_ARGUMENTS",
	KEYWORD_HASH:         "KEYWORD_HASH",
	HASH:                 "HASH",
	ASSOC:                "ASSOC",
	ARRAY:                "ARRAY",
	LITERAL:              "LITERAL",
	STRING:               "STRING",
	STRING_CONTENT:       "STRING_CONTENT",
	STRING_CONCAT:        "STRING_CONCAT",
	EMBEDDED_STATEMENTS:  "EMBEDDED_STATEMENTS",
	EMBEDDED_VARIABLE:    "EMBEDDED_VARIABLE",
	IVAR_READ:            "IVAR_READ",
	CVAR_READ:            "CVAR_READ",
	GVAR_READ:            "GVAR_READ",
	LOCAL_READ:           "LOCAL_READ",
	CONSTANT:             "CONSTANT",
	CONSTANT_PATH:        "CONSTANT_PATH",
	ASSIGN:               "ASSIGN",
	MULTI_ASSIGN:         "MULTI_ASSIGN",
	IVAR_TARGET:          "IVAR_TARGET",
	CVAR_TARGET:          "CVAR_TARGET",
	GVAR_TARGET:          "GVAR_TARGET",
	LOCAL_TARGET:         "LOCAL_TARGET",
	CONSTANT_TARGET:      "CONSTANT_TARGET",
	SPLAT_TARGET:         "SPLAT_TARGET",
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) && nodeTypeNames[t] != "" {
		return nodeTypeNames[t]
	}
	return "NodeType(" + strconv.Itoa(int(t)) + ")"
}
