package parser

import (
	"fmt"

	"strictivars/internal/ast"
)

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return tt == EOF
	}
	return p.peek().Type == tt
}

func (p *Parser) checkAny(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			return true
		}
	}
	return false
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt TokenType, message string) Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errorAtCurrent(message)
	illegal := Token{Type: ILLEGAL, Position: p.peek().Position}
	if !statementStop[p.peek().Type] && !p.check(NEWLINE) {
		p.advance()
	}
	return illegal
}

// expectClose consumes a closing token. Unlike consume it never skips a
// token it did not expect, so the enclosing construct can still find its
// own terminator.
func (p *Parser) expectClose(tt TokenType, open Token, what string) (Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.errorAtCurrent(fmt.Sprintf("expected %s to close '%s' at line %d, found %s",
		what, open.Lexeme, open.Position.Line, describe(p.peek())))
	return Token{}, false
}

// expectEnd consumes the "end" closing a construct opened by open.
func (p *Parser) expectEnd(open Token) (Token, bool) {
	return p.expectClose(END, open, "'end'")
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) peekAt(n int) Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) skipNewlines() {
	for p.peek().Type == NEWLINE {
		p.current++
	}
}

func (p *Parser) skipTerminators() {
	for p.peek().Type == NEWLINE || p.peek().Type == SEMICOLON {
		p.current++
	}
}

func (p *Parser) errorAtCurrent(message string) {
	p.errorAt(p.peek(), message)
}

func (p *Parser) errorAt(tok Token, message string) {
	p.errors = append(p.errors, ParseError{
		Message:  message,
		Position: tok.Position,
		Length:   len(tok.Lexeme),
	})
}

func (p *Parser) makePos(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Position.Offset,
		Line:     tok.Position.Line,
		Column:   tok.Position.Column,
	}
}

func (p *Parser) makeEndPos(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Position.Offset + len(tok.Lexeme),
		Line:     tok.Position.Line,
		Column:   tok.Position.Column + len(tok.Lexeme),
	}
}

// lastEnd is the end of the most recently consumed token.
func (p *Parser) lastEnd() ast.Position {
	if p.current == 0 {
		return p.makePos(p.peek())
	}
	return p.makeEndPos(p.previous())
}

// closeEnd picks the end of a closing token when it was found, or of the
// last consumed token when it was missing.
func (p *Parser) closeEnd(tok Token, ok bool) ast.Position {
	if ok {
		return p.makeEndPos(tok)
	}
	return p.lastEnd()
}

func (p *Parser) tokenSpan(tok Token) ast.Span {
	return ast.Span{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok)}
}

func spanOf(from, to ast.Node) ast.Span {
	return ast.Span{Pos: from.NodePos(), EndPos: to.NodeEndPos()}
}

// synchronize skips to the end of the current statement after an error.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		switch tt := p.peek().Type; {
		case tt == NEWLINE || tt == SEMICOLON:
			return
		case statementStop[tt]:
			return
		}
		p.advance()
	}
}

// withDoAllowed lifts the "do belongs to an outer construct" restriction
// for a nested bracketed region and returns a func restoring it.
func (p *Parser) withDoAllowed() func() {
	saved := p.noDo
	p.noDo = 0
	return func() { p.noDo = saved }
}

func describe(tok Token) string {
	switch tok.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "end of line"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

func wrapStatements(n ast.Node) *ast.Statements {
	if s, ok := n.(*ast.Statements); ok {
		return s
	}
	return &ast.Statements{Span: spanOf(n, n), Body: []ast.Node{n}}
}

// Local variable tracking. Ruby decides between a method call and a local
// read by whether an assignment to the name was already seen, so the parser
// keeps one frame per scope. Blocks inherit their parent's locals; def,
// class and module bodies do not.

type localScope struct {
	names  map[string]bool
	parent *localScope
}

func (p *Parser) pushLocals(inherit bool) {
	scope := &localScope{names: map[string]bool{}}
	if inherit {
		scope.parent = p.locals
	}
	p.saved = append(p.saved, p.locals)
	p.locals = scope
}

func (p *Parser) popLocals() {
	p.locals = p.saved[len(p.saved)-1]
	p.saved = p.saved[:len(p.saved)-1]
}

func (p *Parser) declare(name string) {
	if name != "" {
		p.locals.names[name] = true
	}
}

func (p *Parser) isLocal(name string) bool {
	for s := p.locals; s != nil; s = s.parent {
		if s.names[name] {
			return true
		}
	}
	return false
}
