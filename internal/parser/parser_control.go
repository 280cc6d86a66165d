package parser

import (
	"fmt"
	"strings"

	"strictivars/internal/ast"
)

func (p *Parser) parseIf() ast.Node {
	kw := p.advance()
	node := p.parseIfClause(kw)
	close, ok := p.expectEnd(kw)
	end := p.closeEnd(close, ok)
	for n := ast.Node(node); n != nil; {
		switch clause := n.(type) {
		case *ast.If:
			clause.EndPos = end
			n = clause.Subsequent
		case *ast.Else:
			clause.EndPos = end
			n = nil
		default:
			n = nil
		}
	}
	return node
}

// parseIfClause parses the predicate and branches following an "if",
// "unless" or "elsif" keyword, without the closing "end".
func (p *Parser) parseIfClause(kw Token) *ast.If {
	node := &ast.If{Keyword: kw.Lexeme}
	node.Predicate = p.parseCondition()
	p.match(THEN)
	node.Then = p.parseStatements()

	switch {
	case p.check(ELSIF) && kw.Type != UNLESS:
		elsif := p.advance()
		node.Subsequent = p.parseIfClause(elsif)
	case p.check(ELSE):
		elseTok := p.advance()
		body := p.parseStatements()
		node.Subsequent = &ast.Else{Span: ast.Span{Pos: p.makePos(elseTok), EndPos: p.lastEnd()}, Body: body}
	}
	node.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.lastEnd()}
	return node
}

// parseCondition parses the condition of an if, while or until. A "do"
// there belongs to the loop, not to a call in the condition.
func (p *Parser) parseCondition() ast.Node {
	p.noDo++
	defer func() { p.noDo-- }()
	return p.parseExpressionStatement()
}

func (p *Parser) parseWhile() ast.Node {
	kw := p.advance()
	node := &ast.While{Keyword: kw.Lexeme}
	node.Predicate = p.parseCondition()
	p.match(DO)
	node.Body = p.parseStatements()
	close, ok := p.expectEnd(kw)
	node.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)}
	return node
}

func (p *Parser) parseFor() ast.Node {
	kw := p.advance()
	node := &ast.For{}
	for {
		if p.check(STAR) {
			node.Targets = append(node.Targets, p.parseSplatTarget())
		} else {
			node.Targets = append(node.Targets, p.toTarget(p.parsePostfixExpr(p.parsePrimaryExpr())))
		}
		if !p.match(COMMA) {
			break
		}
	}
	p.consume(IN, fmt.Sprintf("expected 'in' after for loop variables, found %s", describe(p.peek())))
	node.Collection = p.parseCondition()
	p.match(DO)
	node.Body = p.parseStatements()
	close, ok := p.expectEnd(kw)
	node.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)}
	return node
}

func (p *Parser) parseCase() ast.Node {
	kw := p.advance()
	node := &ast.Case{}
	if !p.checkAny(NEWLINE, SEMICOLON) {
		node.Subject = p.parseExpressionStatement()
	}
	p.skipTerminators()

	for p.checkAny(WHEN, IN) {
		if p.check(WHEN) {
			node.Arms = append(node.Arms, p.parseWhen())
		} else {
			node.Arms = append(node.Arms, p.parseIn())
		}
	}
	if len(node.Arms) == 0 {
		p.errorAtCurrent(fmt.Sprintf("expected 'when' or 'in' after case, found %s", describe(p.peek())))
	}
	if p.check(ELSE) {
		elseTok := p.advance()
		body := p.parseStatements()
		node.Else = &ast.Else{Span: ast.Span{Pos: p.makePos(elseTok), EndPos: p.lastEnd()}, Body: body}
	}
	close, ok := p.expectEnd(kw)
	node.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)}
	return node
}

func (p *Parser) parseWhen() *ast.When {
	kw := p.advance()
	when := &ast.When{}
	for {
		p.skipNewlines()
		if p.check(STAR) {
			tok := p.advance()
			value := p.parseTernary()
			when.Conditions = append(when.Conditions, &ast.Splat{
				Span:  ast.Span{Pos: p.makePos(tok), EndPos: value.NodeEndPos()},
				Value: value,
			})
		} else {
			when.Conditions = append(when.Conditions, p.parseTernary())
		}
		if !p.match(COMMA) {
			break
		}
	}
	p.match(THEN)
	when.Body = p.parseStatements()
	when.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.lastEnd()}
	return when
}

// parseIn parses a pattern matching arm. Patterns are not analysed; the
// parser records their extent and declares the locals they bind so later
// reads of those names resolve correctly.
func (p *Parser) parseIn() *ast.In {
	kw := p.advance()
	arm := &ast.In{}
	start := p.makePos(p.peek())
	arm.Pattern = ast.Span{Pos: start, EndPos: start}

	depth := 0
	for !p.isAtEnd() {
		tok := p.peek()
		if depth == 0 && (p.checkAny(THEN, NEWLINE, SEMICOLON, IF, UNLESS) || statementStop[tok.Type]) {
			break
		}
		switch tok.Type {
		case LEFT_PAREN, LEFT_BRACKET, LEFT_BRACE:
			depth++
		case RIGHT_PAREN, RIGHT_BRACKET, RIGHT_BRACE:
			depth--
		case IDENTIFIER:
			if p.bindsInPattern() {
				p.declare(tok.Lexeme)
			}
		case LABEL:
			if next := p.peekAt(1).Type; next == COMMA || next == RIGHT_BRACE || next == NEWLINE || next == THEN {
				p.declare(strings.TrimSuffix(tok.Lexeme, ":"))
			}
		}
		p.advance()
		arm.Pattern.EndPos = p.makeEndPos(tok)
	}
	if arm.Pattern.EndPos == start {
		p.errorAtCurrent(fmt.Sprintf("expected pattern after 'in', found %s", describe(p.peek())))
	}

	if p.checkAny(IF, UNLESS) {
		p.advance()
		arm.Guard = p.parseExpressionStatement()
	}
	p.match(THEN)
	arm.Body = p.parseStatements()
	arm.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.lastEnd()}
	return arm
}

// bindsInPattern reports whether the identifier at the current position is
// a variable binding rather than a pinned value or a method name.
func (p *Parser) bindsInPattern() bool {
	if p.current > 0 {
		switch p.previous().Type {
		case CARET, DOT, AMP_DOT, DOUBLE_COLON:
			return false
		}
	}
	next := p.peekAt(1)
	return !(next.Type == LEFT_PAREN && !next.SpaceBefore) && next.Type != DOT
}
