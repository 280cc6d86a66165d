package parser

import (
	"fmt"

	"strictivars/internal/ast"
)

func (p *Parser) parseTernary() ast.Node {
	cond := p.parseRange()
	if !p.check(QUESTION) {
		return cond
	}
	p.advance()
	p.skipNewlines()
	then := p.parseExpression()
	p.skipNewlines()
	if !p.match(COLON) {
		p.errorAtCurrent(fmt.Sprintf("expected ':' in conditional expression, found %s", describe(p.peek())))
		return &ast.If{
			Span:      spanOf(cond, then),
			Keyword:   "?:",
			Predicate: cond,
			Then:      wrapStatements(then),
		}
	}
	colon := p.previous()
	p.skipNewlines()
	otherwise := p.parseExpression()
	return &ast.If{
		Span:      spanOf(cond, otherwise),
		Keyword:   "?:",
		Predicate: cond,
		Then:      wrapStatements(then),
		Subsequent: &ast.Else{
			Span: ast.Span{Pos: p.makePos(colon), EndPos: otherwise.NodeEndPos()},
			Body: wrapStatements(otherwise),
		},
	}
}

func (p *Parser) parseRange() ast.Node {
	left := p.parsePrattExpr(1)
	if p.checkAny(DOT2, DOT3) {
		op := p.advance()
		node := &ast.Binary{Op: op.Lexeme, Left: left}
		node.Pos = left.NodePos()
		node.EndPos = p.makeEndPos(op)
		if exprStart[p.peek().Type] {
			node.Right = p.parsePrattExpr(1)
			node.EndPos = node.Right.NodeEndPos()
		}
		return node
	}
	return left
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Node {
	expr := p.parseUnary()

	for {
		tok := p.peek()
		prec, ok := binaryOperators[tok.Type]
		if !ok || prec < minPrec {
			break
		}

		p.advance()
		p.skipNewlines()
		next := prec + 1
		if tok.Type == STAR_STAR {
			next = prec
		}
		right := p.parsePrattExpr(next)

		expr = &ast.Binary{
			Span:  spanOf(expr, right),
			Op:    tok.Lexeme,
			Left:  expr,
			Right: right,
		}
	}

	return expr
}

func (p *Parser) parseUnary() ast.Node {
	if p.checkAny(BANG, TILDE, MINUS, PLUS) {
		op := p.advance()
		value := p.parseUnary()
		return &ast.Unary{
			Span:  ast.Span{Pos: p.makePos(op), EndPos: value.NodeEndPos()},
			Op:    op.Lexeme,
			Value: value,
		}
	}
	if p.check(AMPERSAND) {
		// Only meaningful in argument position; accept it anywhere so
		// the error is reported by the argument parser's caller instead.
		tok := p.advance()
		value := p.parseUnary()
		return &ast.BlockArgument{Span: ast.Span{Pos: p.makePos(tok), EndPos: value.NodeEndPos()}, Value: value}
	}
	return p.parsePostfixExpr(p.parsePrimaryExpr())
}

func (p *Parser) parsePostfixExpr(expr ast.Node) ast.Node {
	for {
		switch {
		case p.checkAny(DOT, AMP_DOT):
			op := p.advance()
			p.skipNewlines()
			expr = p.parseMethodCall(expr, op)
		case p.check(DOUBLE_COLON):
			op := p.advance()
			next := p.peekAt(1)
			if p.check(CONSTANT) && !(next.Type == LEFT_PAREN && !next.SpaceBefore) {
				name := p.advance()
				expr = &ast.ConstantPath{
					Span:   ast.Span{Pos: expr.NodePos(), EndPos: p.makeEndPos(name)},
					Parent: expr,
					Name:   name.Lexeme,
				}
				continue
			}
			expr = p.parseMethodCall(expr, op)
		case p.check(LEFT_BRACKET) && (!p.peek().SpaceBefore || !isCall(expr)):
			expr = p.parseIndex(expr)
		default:
			return expr
		}
	}
}

func isCall(n ast.Node) bool {
	_, ok := n.(*ast.Call)
	return ok
}

// exprStart holds the tokens that can begin an operand. Modifier keywords
// are left out so "return if x" does not read "if x" as a return value.
var exprStart = map[TokenType]bool{
	IDENTIFIER:    true,
	CONSTANT:      true,
	LABEL:         true,
	IVAR:          true,
	CVAR:          true,
	GVAR:          true,
	INTEGER:       true,
	FLOAT:         true,
	SYMBOL:        true,
	CHAR:          true,
	STRING_BEGIN:  true,
	XSTRING_BEGIN: true,
	REGEXP_BEGIN:  true,
	SYMBOL_BEGIN:  true,
	WORDS_BEGIN:   true,
	HEREDOC_BEGIN: true,
	NIL:           true,
	TRUE:          true,
	FALSE:         true,
	SELF:          true,
	KW_FILE:       true,
	KW_LINE:       true,
	KW_ENCODING:   true,
	ARROW:         true,
	DEFINED:       true,
	NOT:           true,
	BANG:          true,
	TILDE:         true,
	MINUS:         true,
	PLUS:          true,
	STAR:          true,
	STAR_STAR:     true,
	AMPERSAND:     true,
	DOUBLE_COLON:  true,
	LEFT_PAREN:    true,
	LEFT_BRACKET:  true,
	LEFT_BRACE:    true,
	DOT2:          true,
	DOT3:          true,
	DEF:           true,
	CLASS:         true,
	MODULE:        true,
	CASE:          true,
	FOR:           true,
	BEGIN:         true,
	YIELD:         true,
	SUPER:         true,
}

func (p *Parser) parsePrimaryExpr() ast.Node {
	tok := p.peek()
	switch tok.Type {
	case INTEGER:
		return p.parseLiteral(ast.IntegerLit)
	case FLOAT:
		return p.parseLiteral(ast.FloatLit)
	case SYMBOL, LABEL:
		if tok.Type == LABEL {
			p.errorAtCurrent(fmt.Sprintf("unexpected label %s", describe(tok)))
		}
		return p.parseLiteral(ast.SymbolLit)
	case CHAR:
		return p.parseLiteral(ast.CharLit)
	case NIL:
		return p.parseLiteral(ast.NilLit)
	case TRUE:
		return p.parseLiteral(ast.TrueLit)
	case FALSE:
		return p.parseLiteral(ast.FalseLit)
	case SELF:
		return p.parseLiteral(ast.SelfLit)
	case KW_FILE, KW_ENCODING:
		return p.parseLiteral(ast.FileLit)
	case KW_LINE:
		return p.parseLiteral(ast.LineLit)

	case IVAR:
		p.advance()
		return &ast.IvarRead{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	case CVAR:
		p.advance()
		return &ast.CvarRead{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	case GVAR:
		p.advance()
		return &ast.GvarRead{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	case IDENTIFIER:
		return p.parseIdentifier()
	case CONSTANT:
		p.advance()
		if p.check(LEFT_PAREN) && !p.peek().SpaceBefore {
			call := &ast.Call{Name: tok.Lexeme, NamePos: p.makePos(tok)}
			return p.parseCallRest(call, tok)
		}
		return &ast.Constant{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	case DOUBLE_COLON:
		p.advance()
		name := p.consume(CONSTANT, "expected constant name after '::'")
		return &ast.ConstantPath{
			Span: ast.Span{Pos: p.makePos(tok), EndPos: p.makeEndPos(name)},
			Name: name.Lexeme,
		}

	case STRING_BEGIN, XSTRING_BEGIN, REGEXP_BEGIN, SYMBOL_BEGIN, WORDS_BEGIN, HEREDOC_BEGIN:
		return p.parseStringLiterals()
	case LEFT_PAREN:
		return p.parseParentheses()
	case LEFT_BRACKET:
		return p.parseArrayLiteral()
	case LEFT_BRACE:
		return p.parseHashLiteral()
	case ARROW:
		return p.parseLambda()
	case DOT2, DOT3:
		p.advance()
		right := p.parsePrattExpr(1)
		return &ast.Binary{
			Span:  ast.Span{Pos: p.makePos(tok), EndPos: right.NodeEndPos()},
			Op:    tok.Lexeme,
			Right: right,
		}

	case DEF:
		return p.parseDef()
	case CLASS:
		return p.parseClass()
	case MODULE:
		return p.parseModule()
	case IF, UNLESS:
		return p.parseIf()
	case WHILE, UNTIL:
		return p.parseWhile()
	case FOR:
		return p.parseFor()
	case CASE:
		return p.parseCase()
	case BEGIN:
		return p.parseBegin()
	case RETURN, BREAK, NEXT, REDO, RETRY:
		return p.parseJump()
	case YIELD:
		return p.parseYield()
	case SUPER:
		return p.parseSuper()
	case ALIAS, UNDEF:
		return p.parseAlias()
	case DEFINED:
		return p.parseDefined()
	case NOT:
		p.advance()
		value := p.parseExpression()
		return &ast.Unary{Span: ast.Span{Pos: p.makePos(tok), EndPos: value.NodeEndPos()}, Op: "not", Value: value}
	case STAR:
		p.advance()
		value := p.parseUnary()
		return &ast.Splat{Span: ast.Span{Pos: p.makePos(tok), EndPos: value.NodeEndPos()}, Value: value}
	}

	p.errorAtCurrent(fmt.Sprintf("unexpected %s", describe(tok)))
	if statementStop[tok.Type] || tok.Type == NEWLINE || tok.Type == SEMICOLON {
		pos := p.makePos(tok)
		return &ast.BadNode{Span: ast.Span{Pos: pos, EndPos: pos}, Message: "expected expression"}
	}
	p.advance()
	return &ast.BadNode{Span: p.tokenSpan(tok), Message: "unexpected " + describe(tok)}
}

func (p *Parser) parseLiteral(kind ast.LiteralKind) ast.Node {
	tok := p.advance()
	return &ast.Literal{Span: p.tokenSpan(tok), Kind: kind, Value: tok.Lexeme}
}

// parseDefined handles "defined?(expr)" and the parenthesis-free form,
// whose operand extends as far as an assignment would.
func (p *Parser) parseDefined() ast.Node {
	kw := p.advance()
	if p.check(LEFT_PAREN) {
		open := p.advance()
		restore := p.withDoAllowed()
		p.skipNewlines()
		value := p.parseExpressionStatement()
		p.skipNewlines()
		restore()
		close, ok := p.expectClose(RIGHT_PAREN, open, "')'")
		return &ast.Defined{
			Span:  ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)},
			Value: value,
		}
	}
	value := p.parseExpression()
	return &ast.Defined{Span: ast.Span{Pos: p.makePos(kw), EndPos: value.NodeEndPos()}, Value: value}
}

func (p *Parser) parseParentheses() ast.Node {
	open := p.advance()
	defer p.withDoAllowed()()
	body := p.parseStatements()
	close, ok := p.expectClose(RIGHT_PAREN, open, "')'")
	return &ast.Parentheses{
		Span: ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)},
		Body: body,
	}
}
