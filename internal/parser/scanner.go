package parser

import (
	"fmt"
	"strings"
)

type Token struct {
	Type     TokenType
	Lexeme   string
	Position Position
	// SpaceBefore is set when whitespace or a line break precedes the token.
	// Command-call detection ("foo -1" versus "foo - 1") depends on it.
	SpaceBefore bool
}

type Scanner struct {
	source      string
	tokens      []Token
	comments    []Comment
	start       int
	current     int
	line        int
	startLine   int
	startColumn int
	column      int
	errors      []ScanError
	stopped     bool

	// ternary counts "?" tokens still waiting for their ":".
	ternary int
	// heredocEnd is where scanning resumes once the current line is done,
	// because heredoc bodies have already been consumed. Zero when no
	// heredoc is pending.
	heredocEnd  int
	heredocLine int
}

type ScanError struct {
	Message  string
	Position Position // line, column, offset
	Length   int      // optional: how many characters it covers
}

func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
		column: 1,
	}
}

func (s *Scanner) ScanTokens() []Token {
	for !s.isAtEnd() && !s.stopped {
		s.markStart()
		s.scanToken()
	}
	s.markStart()
	s.addTokenText(EOF, "")
	return s.tokens
}

// Comments returns every comment seen by ScanTokens, in source order.
func (s *Scanner) Comments() []Comment {
	return s.comments
}

func (s *Scanner) Errors() []ScanError {
	return s.errors
}

func (s *Scanner) scanToken() {
	if s.atLineStart() && s.scanLineStart() {
		return
	}

	c := s.advance()
	switch c {
	case ' ', '\t', '\r', '\f', '\v':
		// Ignore whitespace
	case '\n':
		s.scanNewline()
	case '\\':
		s.scanLineContinuation()
	case '#':
		s.scanComment()

	// Simple single-character tokens
	case '(':
		s.addToken(LEFT_PAREN)
	case ')':
		s.addToken(RIGHT_PAREN)
	case '[':
		s.addToken(LEFT_BRACKET)
	case ']':
		s.addToken(RIGHT_BRACKET)
	case '{':
		s.addToken(LEFT_BRACE)
	case '}':
		s.addToken(RIGHT_BRACE)
	case ',':
		s.addToken(COMMA)
	case ';':
		s.ternary = 0
		s.addToken(SEMICOLON)
	case '~':
		if !s.scanUnaryMethodName() {
			s.addToken(TILDE)
		}

	// Operators with potential multi-character variants
	case '.':
		s.scanDotOperator()
	case ':':
		s.scanColonOperator()
	case '?':
		s.scanQuestionOperator()
	case '+':
		s.scanPlusOperator()
	case '-':
		s.scanMinusOperator()
	case '*':
		s.scanStarOperator()
	case '/':
		s.scanSlashOperator()
	case '%':
		s.scanPercentOperator()
	case '=':
		s.scanEqualOperator()
	case '!':
		s.scanBangOperator()
	case '<':
		s.scanLessOperator()
	case '>':
		s.scanGreaterOperator()
	case '&':
		s.scanAmpersandOperator()
	case '|':
		s.scanPipeOperator()
	case '^':
		s.scanAssignable(CARET)

	// String literals
	case '"':
		s.addToken(STRING_BEGIN)
		s.scanStringBody(0, '"', true, false)
	case '\'':
		s.addToken(STRING_BEGIN)
		s.scanStringBody(0, '\'', false, false)
	case '`':
		if s.afterMethodMarker() {
			s.addToken(IDENTIFIER)
			return
		}
		s.addToken(XSTRING_BEGIN)
		s.scanStringBody(0, '`', true, false)

	// Variables
	case '@':
		s.scanInstanceVariable()
	case '$':
		s.scanGlobalVariable()

	default:
		s.scanDefault(c)
	}
}

func (s *Scanner) scanDefault(c byte) {
	if isDigit(c) {
		s.scanNumber(c)
	} else if isIdentStart(c) {
		s.scanIdentifier()
	} else {
		s.reportError(fmt.Sprintf("Unexpected character: %q", c))
	}
}

// scanLineStart handles the constructs only recognised in column one:
// "=begin"/"=end" blocks and the "__END__" data marker.
func (s *Scanner) scanLineStart() bool {
	rest := s.source[s.current:]
	if hasWordPrefix(rest, "=begin") {
		for !s.isAtEnd() {
			for !s.isAtEnd() && s.peek() != '\n' {
				s.advance()
			}
			if !s.isAtEnd() {
				s.advance()
			}
			if hasWordPrefix(s.source[s.current:], "=end") {
				for !s.isAtEnd() && s.peek() != '\n' {
					s.advance()
				}
				s.addComment()
				return true
			}
		}
		s.reportError("embedded document meets end of file")
		s.addComment()
		return true
	}
	if hasWordPrefix(rest, "__END__") {
		s.stopped = true
		return true
	}
	return false
}

func (s *Scanner) scanNewline() {
	pos := Position{Line: s.startLine, Column: s.startColumn, Offset: s.start}
	s.resumeAfterHeredoc()
	if s.newlineTerminates() {
		s.ternary = 0
		s.tokens = append(s.tokens, Token{Type: NEWLINE, Lexeme: "\n", Position: pos, SpaceBefore: true})
	}
}

func (s *Scanner) scanLineContinuation() {
	if s.peek() == '\r' && s.peekNext() == '\n' {
		s.advance()
	}
	if s.peek() == '\n' {
		s.advance()
		s.resumeAfterHeredoc()
		return
	}
	s.reportError("unexpected backslash")
}

// resumeAfterHeredoc jumps over heredoc bodies that were scanned when their
// opener was seen.
func (s *Scanner) resumeAfterHeredoc() {
	if s.heredocEnd > 0 {
		s.current = s.heredocEnd
		s.line = s.heredocLine
		s.column = 1
		s.heredocEnd = 0
	}
}

// newlineTerminates reports whether a line break at this point ends a
// statement. It does not after operators and separators, nor when the next
// line starts with a leading ".method" call.
func (s *Scanner) newlineTerminates() bool {
	if len(s.tokens) == 0 {
		return false
	}
	last := s.tokens[len(s.tokens)-1].Type
	if last == NEWLINE || last == SEMICOLON || last == LABEL || continuationTokens[last] {
		return false
	}
	return !s.continuesWithDot()
}

func (s *Scanner) continuesWithDot() bool {
	i := s.current
	for i < len(s.source) {
		switch c := s.source[i]; c {
		case ' ', '\t', '\r', '\n':
			i++
		case '#':
			for i < len(s.source) && s.source[i] != '\n' {
				i++
			}
		case '.':
			return i+1 < len(s.source) && s.source[i+1] != '.'
		case '&':
			return i+1 < len(s.source) && s.source[i+1] == '.'
		default:
			return false
		}
	}
	return false
}

func (s *Scanner) scanComment() {
	for !s.isAtEnd() && s.peek() != '\n' {
		s.advance()
	}
	s.addComment()
}

// Operator scanning methods for better organization

func (s *Scanner) scanDotOperator() {
	if s.matchNext('.') {
		if s.matchNext('.') {
			s.addToken(DOT3)
		} else {
			s.addToken(DOT2)
		}
		return
	}
	s.addToken(DOT)
}

func (s *Scanner) scanColonOperator() {
	if s.matchNext(':') {
		s.addToken(DOUBLE_COLON)
		return
	}
	if s.ternary > 0 && !s.exprBeg() {
		s.ternary--
		s.addToken(COLON)
		return
	}
	if (s.exprBeg() || s.spaceBeforeStart()) && s.scanSymbol() {
		return
	}
	if s.ternary > 0 {
		s.ternary--
	}
	s.addToken(COLON)
}

func (s *Scanner) scanQuestionOperator() {
	if (s.exprBeg() || s.argStartAt(s.current)) && s.scanCharLiteral() {
		return
	}
	s.ternary++
	s.addToken(QUESTION)
}

func (s *Scanner) scanPlusOperator() {
	if s.scanUnaryMethodName() {
		return
	}
	s.scanAssignable(PLUS)
}

// scanUnaryMethodName turns "-@", "+@", "!@" and "~@" after "def" or a dot
// into a method name.
func (s *Scanner) scanUnaryMethodName() bool {
	if s.peek() != '@' || !s.afterMethodMarker() {
		return false
	}
	s.advance()
	s.addToken(IDENTIFIER)
	return true
}

func (s *Scanner) scanMinusOperator() {
	if s.scanUnaryMethodName() {
		return
	}
	if s.matchNext('>') {
		s.addToken(ARROW)
		return
	}
	s.scanAssignable(MINUS)
}

func (s *Scanner) scanStarOperator() {
	if s.matchNext('*') {
		s.scanAssignable(STAR_STAR)
		return
	}
	s.scanAssignable(STAR)
}

func (s *Scanner) scanSlashOperator() {
	if s.exprBeg() || (s.argStartAt(s.current) && s.peek() != '=') {
		s.addToken(REGEXP_BEGIN)
		s.scanStringBody(0, '/', true, true)
		return
	}
	s.scanAssignable(SLASH)
}

func (s *Scanner) scanPercentOperator() {
	if s.percentLiteralAhead() {
		s.scanPercentLiteral()
		return
	}
	s.scanAssignable(PERCENT)
}

func (s *Scanner) scanEqualOperator() {
	switch {
	case s.matchNext('='):
		if s.matchNext('=') {
			s.addToken(EQUAL_EQUAL_EQUAL)
		} else {
			s.addToken(EQUAL_EQUAL)
		}
	case s.matchNext('~'):
		s.addToken(MATCH)
	case s.matchNext('>'):
		s.addToken(FAT_ARROW)
	default:
		s.addToken(EQUAL)
	}
}

func (s *Scanner) scanBangOperator() {
	if s.scanUnaryMethodName() {
		return
	}
	if s.matchNext('=') {
		s.addToken(BANG_EQUAL)
	} else if s.matchNext('~') {
		s.addToken(NOT_MATCH)
	} else {
		s.addToken(BANG)
	}
}

func (s *Scanner) scanLessOperator() {
	if s.peek() == '<' && s.heredocAhead() {
		s.scanHeredoc()
		return
	}
	if s.matchNext('=') {
		if s.matchNext('>') {
			s.addToken(SPACESHIP)
		} else {
			s.addToken(LESS_EQUAL)
		}
		return
	}
	if s.matchNext('<') {
		s.scanAssignable(LSHIFT)
		return
	}
	s.addToken(LESS)
}

func (s *Scanner) scanGreaterOperator() {
	if s.matchNext('=') {
		s.addToken(GREATER_EQUAL)
		return
	}
	if s.matchNext('>') {
		s.scanAssignable(RSHIFT)
		return
	}
	s.addToken(GREATER)
}

func (s *Scanner) scanAmpersandOperator() {
	if s.matchNext('&') {
		s.scanAssignable(AMP_AMP)
		return
	}
	if s.matchNext('.') {
		s.addToken(AMP_DOT)
		return
	}
	s.scanAssignable(AMPERSAND)
}

func (s *Scanner) scanPipeOperator() {
	if s.matchNext('|') {
		s.scanAssignable(PIPE_PIPE)
		return
	}
	s.scanAssignable(PIPE)
}

// scanAssignable emits tt, or OP_ASSIGN when the operator is followed by "=".
// "==", "=~" and "=>" after the operator are left alone.
func (s *Scanner) scanAssignable(tt TokenType) {
	if s.peek() == '=' && s.peekNext() != '=' && s.peekNext() != '~' && s.peekNext() != '>' {
		s.advance()
		s.addToken(OP_ASSIGN)
		return
	}
	s.addToken(tt)
}

func (s *Scanner) scanInstanceVariable() {
	tt := IVAR
	if s.matchNext('@') {
		tt = CVAR
	}
	if !isIdentStart(s.peek()) {
		s.reportError("'@' without identifiers is not allowed as an instance variable name")
		return
	}
	for isIdentChar(s.peek()) {
		s.advance()
	}
	s.addToken(tt)
}

func (s *Scanner) scanGlobalVariable() {
	switch c := s.peek(); {
	case isIdentStart(c):
		for isIdentChar(s.peek()) {
			s.advance()
		}
	case isDigit(c):
		for isDigit(s.peek()) {
			s.advance()
		}
	case c == '-' && isIdentChar(s.peekNext()):
		s.advance()
		s.advance()
	case c != 0 && strings.IndexByte(specialGlobals, c) >= 0:
		s.advance()
	default:
		s.reportError("'$' without identifiers is not allowed as a global variable name")
		return
	}
	s.addToken(GVAR)
}

const specialGlobals = "~*$?!@/\\;,.=:<>\"&'`+"

func (s *Scanner) scanIdentifier() {
	for isIdentChar(s.peek()) {
		s.advance()
	}
	if p := s.peek(); p == '?' || p == '!' {
		n := s.peekNext()
		if n != '=' || s.peekAt(2) == '=' || s.peekAt(2) == '~' {
			s.advance()
		}
	}
	text := s.source[s.start:s.current]

	if s.peek() == ':' && s.peekNext() != ':' && !s.afterMethodMarker() && !s.ternaryBranchStart() {
		s.advance()
		s.addToken(LABEL)
		return
	}

	if s.afterMethodMarker() {
		if isUpper(text[0]) {
			s.addToken(CONSTANT)
		} else {
			s.addToken(IDENTIFIER)
		}
		return
	}
	if tt, ok := KEYWORDS[text]; ok {
		s.addToken(tt)
		return
	}
	if isUpper(text[0]) {
		s.addToken(CONSTANT)
		return
	}
	s.addToken(IDENTIFIER)
}

func (s *Scanner) scanNumber(first byte) {
	tt := INTEGER
	if first == '0' && strings.IndexByte("xXbBoOdD", s.peek()) >= 0 && s.peek() != 0 {
		s.advance()
		for isIdentChar(s.peek()) {
			s.advance()
		}
	} else {
		s.digits()
		if s.peek() == '.' && isDigit(s.peekNext()) {
			s.advance()
			s.digits()
			tt = FLOAT
		}
		if e := s.peek(); e == 'e' || e == 'E' {
			n := s.peekNext()
			if isDigit(n) || ((n == '+' || n == '-') && isDigit(s.peekAt(2))) {
				s.advance()
				if n == '+' || n == '-' {
					s.advance()
				}
				s.digits()
				tt = FLOAT
			}
		}
	}
	for _, suffix := range []byte{'r', 'i'} {
		if s.peek() == suffix && !isIdentChar(s.peekNext()) {
			s.advance()
		}
	}
	s.addToken(tt)
}

func (s *Scanner) digits() {
	for isDigit(s.peek()) || (s.peek() == '_' && isDigit(s.peekNext())) {
		s.advance()
	}
}

// operatorSymbols lists operator method names usable as ":sym", longest
// first.
var operatorSymbols = []string{
	"[]=", "===", "<=>", "[]", "==", "=~", "!=", "!~", "**", "+@", "-@",
	"<<", ">>", "<=", ">=", "+", "-", "*", "/", "%", "<", ">", "!", "~",
	"^", "&", "|", "`",
}

// scanSymbol scans the rest of a symbol after ":". It consumes nothing and
// returns false when no symbol follows.
func (s *Scanner) scanSymbol() bool {
	c := s.peek()
	switch {
	case c == '"':
		s.advance()
		s.addToken(SYMBOL_BEGIN)
		s.scanStringBody(0, '"', true, false)
		return true
	case c == '\'':
		s.advance()
		s.addToken(SYMBOL_BEGIN)
		s.scanStringBody(0, '\'', false, false)
		return true
	case isIdentStart(c):
		for isIdentChar(s.peek()) {
			s.advance()
		}
		switch p := s.peek(); p {
		case '?', '!':
			if s.peekNext() != '=' {
				s.advance()
			}
		case '=':
			if n := s.peekNext(); n != '=' && n != '>' && n != '~' {
				s.advance()
			}
		}
	case c == '@':
		s.advance()
		s.matchNext('@')
		for isIdentChar(s.peek()) {
			s.advance()
		}
	case c == '$':
		s.advance()
		if isIdentStart(s.peek()) {
			for isIdentChar(s.peek()) {
				s.advance()
			}
		} else if s.peek() != 0 {
			s.advance()
		}
	default:
		rest := s.source[s.current:]
		for _, op := range operatorSymbols {
			if strings.HasPrefix(rest, op) {
				for range op {
					s.advance()
				}
				s.addToken(SYMBOL)
				return true
			}
		}
		return false
	}
	s.addToken(SYMBOL)
	return true
}

// scanCharLiteral scans "?a" or "?\n" after the "?". It consumes nothing and
// returns false when the "?" is a ternary operator.
func (s *Scanner) scanCharLiteral() bool {
	c := s.peek()
	if c == 0 || isSpace(c) {
		return false
	}
	if c == '\\' {
		s.advance()
		if !s.isAtEnd() {
			s.advance()
		}
		for isIdentChar(s.peek()) && s.current-s.start < 8 {
			s.advance()
		}
		s.addToken(CHAR)
		return true
	}
	if isIdentChar(c) && isIdentChar(s.peekNext()) {
		return false
	}
	s.advance()
	for s.peek()&0xC0 == 0x80 {
		s.advance()
	}
	s.addToken(CHAR)
	return true
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

func (s *Scanner) matchNext(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) peek() byte {
	return s.peekAt(0)
}

func (s *Scanner) peekNext() byte {
	return s.peekAt(1)
}

func (s *Scanner) peekAt(n int) byte {
	if s.current+n >= len(s.source) {
		return 0
	}
	return s.source[s.current+n]
}

func (s *Scanner) markStart() {
	s.start = s.current
	s.startColumn = s.column
	s.startLine = s.line
}

func (s *Scanner) addToken(tokenType TokenType) {
	s.addTokenText(tokenType, s.source[s.start:s.current])
}

func (s *Scanner) addTokenText(tokenType TokenType, text string) {
	s.tokens = append(s.tokens, Token{
		Type:   tokenType,
		Lexeme: text,
		Position: Position{
			Line:   s.startLine,
			Column: s.startColumn,
			Offset: s.start,
		},
		SpaceBefore: s.spaceBeforeStart(),
	})
}

func (s *Scanner) addComment() {
	s.comments = append(s.comments, Comment{
		Text:     s.source[s.start:s.current],
		Position: Position{Line: s.startLine, Column: s.startColumn, Offset: s.start},
	})
}

func (s *Scanner) reportError(message string) {
	s.errors = append(s.errors, ScanError{
		Message:  message,
		Position: Position{Line: s.startLine, Column: s.startColumn, Offset: s.start},
		Length:   s.current - s.start,
	})
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) atLineStart() bool {
	return s.current == 0 || s.source[s.current-1] == '\n'
}

func (s *Scanner) spaceBeforeStart() bool {
	return s.start == 0 || isSpace(s.source[s.start-1])
}

func (s *Scanner) lastType() TokenType {
	if len(s.tokens) == 0 {
		return NEWLINE
	}
	return s.tokens[len(s.tokens)-1].Type
}

// exprBeg reports whether the token being scanned starts an operand, as
// opposed to following one. It decides between "/" as division and as a
// regexp opener, "?" as ternary and as a character literal, and similar.
func (s *Scanner) exprBeg() bool {
	return !valueEndTokens[s.lastType()]
}

// argStartAt reports whether the token being scanned looks like the first
// argument of a parenthesis-free method call: "puts /x/" or "puts <<~EOS".
// next is the offset just past the operator character.
func (s *Scanner) argStartAt(next int) bool {
	if s.lastType() != IDENTIFIER || !s.spaceBeforeStart() {
		return false
	}
	return next < len(s.source) && !isSpace(s.source[next])
}

// afterMethodMarker reports whether a method name is expected, where
// keywords are plain identifiers: "foo.class", "def end".
func (s *Scanner) afterMethodMarker() bool {
	switch s.lastType() {
	case DOT, AMP_DOT, DEF:
		return true
	case DOUBLE_COLON:
		return true
	}
	return false
}

// ternaryBranchStart reports whether an identifier directly follows a
// ternary "?", where "x ? a: b" must not produce a label.
func (s *Scanner) ternaryBranchStart() bool {
	return s.ternary > 0 && s.lastType() == QUESTION
}

// Helper functions.

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isUpper(c byte) bool {
	return 'A' <= c && c <= 'Z'
}

func isIdentStart(c byte) bool {
	return ('a' <= c && c <= 'z') || isUpper(c) || c == '_' || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// hasWordPrefix reports whether s starts with word followed by whitespace or
// the end of input.
func hasWordPrefix(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	return len(s) == len(word) || isSpace(s[len(word)])
}
