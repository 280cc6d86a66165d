package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanTypes scans input and returns the token types without the final EOF.
func scanTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	scanner := NewScanner(input)
	tokens := scanner.ScanTokens()
	require.NotEmpty(t, tokens)
	require.Equal(t, EOF, tokens[len(tokens)-1].Type)

	types := make([]TokenType, 0, len(tokens)-1)
	for _, tok := range tokens[:len(tokens)-1] {
		types = append(types, tok.Type)
	}
	return types
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := "class module if unless while until begin rescue ensure foo Bar @a @@b $c"
	expected := []TokenType{
		CLASS, MODULE, IF, UNLESS, WHILE, UNTIL, BEGIN, RESCUE, ENSURE,
		IDENTIFIER, CONSTANT, IVAR, CVAR, GVAR,
	}
	assert.Equal(t, expected, scanTypes(t, input))
}

func TestKeywordAfterDotIsIdentifier(t *testing.T) {
	assert.Equal(t, []TokenType{IDENTIFIER, DOT, IDENTIFIER}, scanTypes(t, "foo.class"))
	assert.Equal(t, []TokenType{DEF, IDENTIFIER}, scanTypes(t, "def end"))
}

func TestNumbers(t *testing.T) {
	expected := []TokenType{INTEGER, FLOAT, INTEGER, FLOAT, INTEGER}
	assert.Equal(t, expected, scanTypes(t, "42 3.14 0x1F 1e10 1_000"))
}

func TestInstanceVariableLexemes(t *testing.T) {
	tokens := NewScanner("@name @@count @_x1").ScanTokens()
	require.Len(t, tokens, 4)
	assert.Equal(t, "@name", tokens[0].Lexeme)
	assert.Equal(t, "@@count", tokens[1].Lexeme)
	assert.Equal(t, "@_x1", tokens[2].Lexeme)
	assert.Equal(t, Position{Line: 1, Column: 7, Offset: 6}, tokens[1].Position)
}

func TestStringInterpolation(t *testing.T) {
	input := `"a#{@b}c#@d"`
	expected := []TokenType{
		STRING_BEGIN, STRING_CONTENT, EMBEXPR_BEGIN, IVAR, EMBEXPR_END,
		STRING_CONTENT, EMBVAR, IVAR, STRING_END,
	}
	assert.Equal(t, expected, scanTypes(t, input))

	tokens := NewScanner(input).ScanTokens()
	assert.Equal(t, "#", tokens[6].Lexeme)
	assert.Equal(t, 8, tokens[6].Position.Offset)
	assert.Equal(t, "@d", tokens[7].Lexeme)
}

func TestSingleQuotedStringHasNoInterpolation(t *testing.T) {
	assert.Equal(t, []TokenType{STRING_BEGIN, STRING_CONTENT, STRING_END}, scanTypes(t, `'#{@a}'`))
}

func TestHeredoc(t *testing.T) {
	input := "x = <<~EOS\n  hi #{@a}\nEOS\ny"
	expected := []TokenType{
		IDENTIFIER, EQUAL, HEREDOC_BEGIN,
		STRING_CONTENT, EMBEXPR_BEGIN, IVAR, EMBEXPR_END, STRING_CONTENT, STRING_END,
		NEWLINE, IDENTIFIER,
	}
	assert.Equal(t, expected, scanTypes(t, input))

	tokens := NewScanner(input).ScanTokens()
	assert.Equal(t, "<<~EOS", tokens[2].Lexeme)
	assert.Equal(t, "  hi ", tokens[3].Lexeme)
	assert.Equal(t, 2, tokens[5].Position.Line)
	assert.Equal(t, "y", tokens[10].Lexeme)
	assert.Equal(t, 4, tokens[10].Position.Line)
}

func TestUnterminatedHeredoc(t *testing.T) {
	scanner := NewScanner("x = <<EOS\nbody\n")
	scanner.ScanTokens()
	require.Len(t, scanner.Errors(), 1)
	assert.Contains(t, scanner.Errors()[0].Message, `"EOS"`)
}

func TestSlashIsDivisionOrRegexp(t *testing.T) {
	assert.Equal(t, []TokenType{IDENTIFIER, SLASH, IDENTIFIER}, scanTypes(t, "a / b"))
	assert.Equal(t, []TokenType{IDENTIFIER, REGEXP_BEGIN, STRING_CONTENT, STRING_END}, scanTypes(t, "foo /x/"))
}

func TestLabelsAndSymbols(t *testing.T) {
	expected := []TokenType{
		IDENTIFIER, LEFT_PAREN, LABEL, SYMBOL, COMMA,
		STRING_BEGIN, STRING_CONTENT, STRING_END, FAT_ARROW, IDENTIFIER, RIGHT_PAREN,
	}
	assert.Equal(t, expected, scanTypes(t, "foo(a: :b, 'c' => d)"))
}

func TestTernaryIsNotLabel(t *testing.T) {
	assert.Equal(t, []TokenType{IDENTIFIER, QUESTION, IDENTIFIER, COLON, IDENTIFIER}, scanTypes(t, "x ? a : b"))
}

func TestNewlines(t *testing.T) {
	assert.Equal(t, []TokenType{IDENTIFIER, NEWLINE, IDENTIFIER}, scanTypes(t, "a\nb"))
	assert.Equal(t, []TokenType{IDENTIFIER, PLUS, IDENTIFIER}, scanTypes(t, "a +\nb"))
	assert.Equal(t, []TokenType{IDENTIFIER, DOT, IDENTIFIER}, scanTypes(t, "a\n  .b"))
}

func TestOperatorAssignment(t *testing.T) {
	tokens := NewScanner("a ||= 1").ScanTokens()
	require.Len(t, tokens, 4)
	assert.Equal(t, OP_ASSIGN, tokens[1].Type)
	assert.Equal(t, "||=", tokens[1].Lexeme)
}

func TestComments(t *testing.T) {
	scanner := NewScanner("# hi\nx")
	assert.Equal(t, []TokenType{IDENTIFIER, EOF}, tokenTypes(scanner.ScanTokens()))
	require.Len(t, scanner.Comments(), 1)
	assert.Equal(t, "# hi", scanner.Comments()[0].Text)
}

func TestDataSectionStopsScanning(t *testing.T) {
	assert.Equal(t, []TokenType{IDENTIFIER, NEWLINE}, scanTypes(t, "a\n__END__\n@b"))
}

func TestUnaryOperatorMethodName(t *testing.T) {
	tokens := NewScanner("def -@").ScanTokens()
	require.Len(t, tokens, 3)
	assert.Equal(t, IDENTIFIER, tokens[1].Type)
	assert.Equal(t, "-@", tokens[1].Lexeme)
}

func TestPercentWords(t *testing.T) {
	tokens := NewScanner("%w[a b]").ScanTokens()
	assert.Equal(t, []TokenType{WORDS_BEGIN, STRING_CONTENT, STRING_END, EOF}, tokenTypes(tokens))
	assert.Equal(t, "%w[", tokens[0].Lexeme)
	assert.Equal(t, "a b", tokens[1].Lexeme)
}

func TestUnterminatedString(t *testing.T) {
	scanner := NewScanner(`"abc`)
	scanner.ScanTokens()
	require.Len(t, scanner.Errors(), 1)
	assert.Equal(t, 0, scanner.Errors()[0].Position.Offset)
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}
