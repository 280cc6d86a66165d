package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// DirectiveLexer tokenizes the text of a single magic comment such as
// "# strictivars: ignore @a, @b".
var DirectiveLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Hash", `#`, nil},

		// Instance variable names, the only operands a directive takes
		{"Ivar", `@[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Keywords and identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Punctuation
		{"Punctuation", `[:,]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r]+`, nil},
	},
})
