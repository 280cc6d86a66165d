package parser

import (
	"fmt"
	"strings"
)

// scanStringBody scans string content up to and including the closing
// delimiter, emitting STRING_CONTENT, interpolation tokens and STRING_END.
// nestOpen is the opening bracket for bracketed delimiters, which nest.
func (s *Scanner) scanStringBody(nestOpen, close byte, interp, regexp bool) {
	begin := s.start
	beginPos := Position{Line: s.startLine, Column: s.startColumn, Offset: s.start}
	depth := 0
	s.markStart()
	for !s.isAtEnd() {
		c := s.peek()
		switch {
		case c == '\\':
			s.advance()
			if !s.isAtEnd() {
				s.advance()
			}
			continue
		case nestOpen != 0 && c == nestOpen:
			depth++
		case c == close:
			if depth > 0 {
				depth--
				break
			}
			s.flushContent()
			s.markStart()
			s.advance()
			if regexp {
				for isIdentChar(s.peek()) {
					s.advance()
				}
			}
			s.addToken(STRING_END)
			return
		case interp && c == '#':
			if s.scanInterpolation() {
				continue
			}
		}
		s.advance()
	}
	s.flushContent()
	s.errors = append(s.errors, ScanError{
		Message:  "unterminated string meets end of file",
		Position: beginPos,
		Length:   s.current - begin,
	})
}

// scanInterpolation handles "#{...}", "#@x", "#@@x" and "#$x" at the current
// position. It returns false, consuming nothing, for a plain "#".
func (s *Scanner) scanInterpolation() bool {
	n := s.peekNext()
	switch {
	case n == '{':
		s.flushContent()
		s.scanEmbexpr()
	case n == '@' && (isIdentStart(s.peekAt(2)) || (s.peekAt(2) == '@' && isIdentStart(s.peekAt(3)))):
		s.flushContent()
		s.markStart()
		s.advance()
		s.addToken(EMBVAR)
		s.markStart()
		s.advance()
		s.scanInstanceVariable()
	case n == '$' && (isIdentStart(s.peekAt(2)) || isDigit(s.peekAt(2))):
		s.flushContent()
		s.markStart()
		s.advance()
		s.addToken(EMBVAR)
		s.markStart()
		s.advance()
		s.scanGlobalVariable()
	default:
		return false
	}
	s.markStart()
	return true
}

// scanEmbexpr scans "#{ ... }" as ordinary tokens up to the matching brace.
func (s *Scanner) scanEmbexpr() {
	s.markStart()
	s.advance()
	s.advance()
	s.addToken(EMBEXPR_BEGIN)

	ternary := s.ternary
	s.ternary = 0
	defer func() { s.ternary = ternary }()

	depth := 0
	for !s.isAtEnd() && !s.stopped {
		s.markStart()
		switch s.peek() {
		case '}':
			if depth == 0 {
				s.advance()
				s.addToken(EMBEXPR_END)
				return
			}
			depth--
		case '{':
			depth++
		}
		s.scanToken()
	}
	s.reportError("unterminated string interpolation")
}

func (s *Scanner) flushContent() {
	if s.current > s.start {
		s.addToken(STRING_CONTENT)
	}
}

// percentLiteralAhead reports whether the "%" just consumed opens a
// literal such as "%w[a b]" or "%(text)" rather than being the modulo
// operator.
func (s *Scanner) percentLiteralAhead() bool {
	beg := s.exprBeg()
	if !beg && !s.argStartAt(s.current) {
		return false
	}
	c := s.peek()
	if c == 0 {
		return false
	}
	if strings.IndexByte("qQwWiIrsx", c) >= 0 {
		d := s.peekNext()
		return d != 0 && !isIdentChar(d) && !isSpace(d)
	}
	if beg {
		return !isIdentChar(c) && !isSpace(c) && c != '='
	}
	return strings.IndexByte("([{<|!/", c) >= 0
}

func (s *Scanner) scanPercentLiteral() {
	kind := byte('Q')
	if isIdentStart(s.peek()) {
		kind = s.advance()
	}
	open := s.advance()
	close := closingDelimiter(open)
	var nestOpen byte
	if close != open {
		nestOpen = open
	}

	tt, interp := STRING_BEGIN, true
	switch kind {
	case 'q':
		interp = false
	case 'w', 'i':
		tt, interp = WORDS_BEGIN, false
	case 'W', 'I':
		tt = WORDS_BEGIN
	case 'r':
		tt = REGEXP_BEGIN
	case 's':
		tt, interp = SYMBOL_BEGIN, false
	case 'x':
		tt = XSTRING_BEGIN
	}
	s.addToken(tt)
	s.scanStringBody(nestOpen, close, interp, kind == 'r')
}

func closingDelimiter(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}
	return open
}

// heredocAhead reports whether the "<" just consumed starts a heredoc
// opener ("<<~EOS", "<<-'SQL'", "<<EOS") rather than a shift.
func (s *Scanner) heredocAhead() bool {
	if s.lastType() == CLASS {
		return false
	}
	i := s.current + 1
	if i < len(s.source) && (s.source[i] == '~' || s.source[i] == '-') {
		i++
	}
	if i >= len(s.source) {
		return false
	}
	c := s.source[i]
	if !isIdentStart(c) && c != '"' && c != '\'' && c != '`' {
		return false
	}
	return s.exprBeg() || s.argStartAt(s.current+1)
}

// scanHeredoc emits the opener token and then scans the heredoc body, which
// starts on the next line (or after a heredoc already opened on this line).
// Scanning of the opener line then continues where it left off, and jumps
// over the body when its line break is reached.
func (s *Scanner) scanHeredoc() {
	s.advance()
	indented := false
	if s.peek() == '~' || s.peek() == '-' {
		indented = true
		s.advance()
	}

	interp := true
	var id string
	switch q := s.peek(); q {
	case '\'', '"', '`':
		s.advance()
		idStart := s.current
		for !s.isAtEnd() && s.peek() != q && s.peek() != '\n' {
			s.advance()
		}
		id = s.source[idStart:s.current]
		if !s.matchNext(q) {
			s.reportError("unterminated here document identifier")
		}
		interp = q != '\''
	default:
		idStart := s.current
		for isIdentChar(s.peek()) {
			s.advance()
		}
		id = s.source[idStart:s.current]
	}
	s.addToken(HEREDOC_BEGIN)
	s.scanHeredocBody(id, indented, interp)
}

func (s *Scanner) scanHeredocBody(id string, indented, interp bool) {
	openerPos := Position{Line: s.startLine, Column: s.startColumn, Offset: s.start}
	openerLen := s.current - s.start
	savedCurrent, savedLine, savedColumn := s.current, s.line, s.column

	bodyStart, bodyLine := s.heredocEnd, s.heredocLine
	if bodyStart == 0 {
		nl := strings.IndexByte(s.source[s.current:], '\n')
		if nl < 0 {
			s.reportError(fmt.Sprintf("can't find string %q anywhere before EOF", id))
			return
		}
		bodyStart, bodyLine = s.current+nl+1, s.line+1
	}
	s.heredocEnd = 0
	s.current, s.line, s.column = bodyStart, bodyLine, 1
	s.markStart()

	terminated := false
	for !s.isAtEnd() {
		lineEnd := strings.IndexByte(s.source[s.current:], '\n')
		if lineEnd < 0 {
			lineEnd = len(s.source)
		} else {
			lineEnd += s.current
		}
		text := strings.TrimRight(s.source[s.current:lineEnd], "\r")
		if indented {
			text = strings.TrimLeft(text, " \t")
		}
		if text == id {
			s.flushContent()
			s.markStart()
			for s.current < lineEnd {
				s.advance()
			}
			s.addToken(STRING_END)
			if !s.isAtEnd() {
				s.advance()
			}
			terminated = true
			break
		}
		s.scanHeredocLine(interp)
	}
	if !terminated {
		s.flushContent()
		s.errors = append(s.errors, ScanError{
			Message:  fmt.Sprintf("can't find string %q anywhere before EOF", id),
			Position: openerPos,
			Length:   openerLen,
		})
	}

	s.heredocEnd, s.heredocLine = s.current, s.line
	s.current, s.line, s.column = savedCurrent, savedLine, savedColumn
}

// scanHeredocLine consumes one body line, including its line break.
func (s *Scanner) scanHeredocLine(interp bool) {
	for !s.isAtEnd() {
		c := s.peek()
		if interp && c == '\\' && s.peekNext() != '\n' && s.peekNext() != 0 {
			s.advance()
			s.advance()
			continue
		}
		if interp && c == '#' && s.scanInterpolation() {
			continue
		}
		s.advance()
		if c == '\n' {
			return
		}
	}
}
