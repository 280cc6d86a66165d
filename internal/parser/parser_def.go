package parser

import (
	"fmt"
	"strings"

	"strictivars/internal/ast"
)

func (p *Parser) parseDef() ast.Node {
	kw := p.advance()
	def := &ast.Def{}

	if next := p.peekAt(1); p.checkAny(IDENTIFIER, CONSTANT) && next.Type == DOT && !next.SpaceBefore {
		recv := p.advance()
		if recv.Lexeme == "self" {
			def.Receiver = &ast.Literal{Span: p.tokenSpan(recv), Kind: ast.SelfLit, Value: recv.Lexeme}
		} else if recv.Type == CONSTANT {
			def.Receiver = &ast.Constant{Span: p.tokenSpan(recv), Name: recv.Lexeme}
		} else {
			def.Receiver = &ast.LocalRead{Span: p.tokenSpan(recv), Name: recv.Lexeme}
		}
		p.advance()
	}
	def.Name = p.methodName()

	p.pushLocals(false)
	defer p.popLocals()

	switch {
	case p.check(LEFT_PAREN):
		open := p.advance()
		params := p.parseParamList(false, RIGHT_PAREN)
		close, ok := p.expectClose(RIGHT_PAREN, open, "')'")
		params.Span = ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)}
		def.Parameters = params
	case !p.checkAny(NEWLINE, SEMICOLON, EQUAL) && !statementStop[p.peek().Type]:
		def.Parameters = p.parseParamList(true, NEWLINE, SEMICOLON)
	}

	if p.check(EQUAL) {
		p.advance()
		p.skipNewlines()
		body := p.parseStatement()
		def.Body = wrapStatements(body)
		def.Endless = true
		def.Span = ast.Span{Pos: p.makePos(kw), EndPos: body.NodeEndPos()}
		return def
	}

	def.Body = p.parseBodyStmt()
	close, ok := p.expectEnd(kw)
	def.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)}
	return def
}

// methodName consumes the name in a def, including setter names such as
// "value=" and operator names such as "<=>" or "[]=".
func (p *Parser) methodName() string {
	tok := p.peek()
	switch {
	case p.checkAny(IDENTIFIER, CONSTANT):
		p.advance()
		if p.check(EQUAL) && !p.peek().SpaceBefore && p.peekAt(1).Type == LEFT_PAREN {
			p.advance()
			return tok.Lexeme + "="
		}
		return tok.Lexeme
	case p.check(LEFT_BRACKET):
		p.advance()
		p.consume(RIGHT_BRACKET, "expected ']' in method name")
		if p.check(EQUAL) && !p.peek().SpaceBefore {
			p.advance()
			return "[]="
		}
		return "[]"
	case p.checkAny(BANG, TILDE, BANG_EQUAL, NOT_MATCH):
		p.advance()
		return tok.Lexeme
	}
	if _, ok := binaryOperators[tok.Type]; ok {
		p.advance()
		return tok.Lexeme
	}
	p.errorAtCurrent(fmt.Sprintf("expected method name, found %s", describe(tok)))
	return ""
}

// parseParamList parses parameters up to one of closers. bare is set for a
// def whose parameters are not parenthesised.
func (p *Parser) parseParamList(bare bool, closers ...TokenType) *ast.Parameters {
	params := &ast.Parameters{}
	atCloser := func() bool {
		return p.checkAny(closers...) || p.isAtEnd()
	}
	inPipes := len(closers) == 1 && closers[0] == PIPE

	for {
		if !bare {
			p.skipNewlines()
		}
		if atCloser() {
			break
		}

		tok := p.peek()
		param := &ast.Parameter{Span: p.tokenSpan(tok)}
		switch tok.Type {
		case STAR:
			p.advance()
			param.Kind = ast.RestParam
			p.paramName(param)
		case STAR_STAR:
			p.advance()
			param.Kind = ast.KeywordRestParam
			if p.check(NIL) {
				nilTok := p.advance()
				param.EndPos = p.makeEndPos(nilTok)
			} else {
				p.paramName(param)
			}
		case AMPERSAND:
			p.advance()
			param.Kind = ast.BlockParam
			p.paramName(param)
		case DOT3:
			p.advance()
			param.Kind = ast.ForwardingParam
		case LABEL:
			p.advance()
			param.Kind = ast.KeywordParam
			param.Name = strings.TrimSuffix(tok.Lexeme, ":")
			p.declare(param.Name)
			if exprStart[p.peek().Type] && !atCloser() {
				param.Default = p.parseParamDefault(inPipes)
				param.EndPos = param.Default.NodeEndPos()
			}
		case LEFT_PAREN:
			open := p.advance()
			param.Kind = ast.DestructuredParam
			param.Nested = p.parseParamList(false, RIGHT_PAREN)
			close, ok := p.expectClose(RIGHT_PAREN, open, "')'")
			param.EndPos = p.closeEnd(close, ok)
			param.Nested.Span = param.Span
		case IDENTIFIER:
			p.advance()
			param.Kind = ast.RequiredParam
			param.Name = tok.Lexeme
			p.declare(param.Name)
			if p.check(EQUAL) {
				p.advance()
				param.Kind = ast.OptionalParam
				param.Default = p.parseParamDefault(inPipes)
				param.EndPos = param.Default.NodeEndPos()
			}
		default:
			p.errorAtCurrent(fmt.Sprintf("unexpected %s in parameter list", describe(tok)))
			if !statementStop[tok.Type] && !p.checkAny(NEWLINE, SEMICOLON) {
				p.advance()
			}
			return p.finishParams(params)
		}
		params.Params = append(params.Params, param)

		// Block-local variables follow a ";" inside the pipes.
		if inPipes && p.check(SEMICOLON) {
			p.advance()
			continue
		}
		if !p.match(COMMA) {
			break
		}
	}
	if !bare {
		p.skipNewlines()
	}
	return p.finishParams(params)
}

func (p *Parser) finishParams(params *ast.Parameters) *ast.Parameters {
	if n := len(params.Params); n > 0 {
		params.Span = ast.Span{Pos: params.Params[0].Pos, EndPos: params.Params[n-1].EndPos}
	}
	return params
}

// paramName consumes the optional name after "*", "**" or "&".
func (p *Parser) paramName(param *ast.Parameter) {
	if p.check(IDENTIFIER) && !p.peek().SpaceBefore {
		name := p.advance()
		param.Name = name.Lexeme
		param.EndPos = p.makeEndPos(name)
		p.declare(param.Name)
	}
}

// parseParamDefault parses a default value. Inside block pipes a "|" ends
// the parameter list, so binary operators are not consumed there.
func (p *Parser) parseParamDefault(inPipes bool) ast.Node {
	if inPipes {
		return p.parseUnary()
	}
	return p.parseTernary()
}

// parseBodyStmt parses the body of a def, class, module, block or begin,
// which may carry rescue, else and ensure clauses. The result is the plain
// statement list when there are none.
func (p *Parser) parseBodyStmt() ast.Node {
	stmts := p.parseStatements()
	if !p.checkAny(RESCUE, ENSURE) {
		return stmts
	}
	begin := &ast.Begin{Body: stmts}
	p.parseRescueClauses(begin)
	begin.Span = ast.Span{Pos: stmts.Pos, EndPos: p.lastEnd()}
	return begin
}

func (p *Parser) parseRescueClauses(begin *ast.Begin) {
	for p.check(RESCUE) {
		kw := p.advance()
		rescue := &ast.Rescue{}
		for !p.checkAny(NEWLINE, SEMICOLON, THEN, FAT_ARROW) && !statementStop[p.peek().Type] {
			rescue.Exceptions = append(rescue.Exceptions, p.parseTernary())
			if !p.match(COMMA) {
				break
			}
			p.skipNewlines()
		}
		if p.match(FAT_ARROW) {
			rescue.Reference = p.toTarget(p.parsePostfixExpr(p.parsePrimaryExpr()))
		}
		p.match(THEN)
		rescue.Body = p.parseStatements()
		rescue.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.lastEnd()}
		begin.Rescues = append(begin.Rescues, rescue)
	}
	if p.check(ELSE) {
		kw := p.advance()
		body := p.parseStatements()
		begin.Else = &ast.Else{Span: ast.Span{Pos: p.makePos(kw), EndPos: p.lastEnd()}, Body: body}
	}
	if p.check(ENSURE) {
		kw := p.advance()
		body := p.parseStatements()
		begin.Ensure = &ast.Ensure{Span: ast.Span{Pos: p.makePos(kw), EndPos: p.lastEnd()}, Body: body}
	}
}

func (p *Parser) parseBegin() ast.Node {
	kw := p.advance()
	begin := &ast.Begin{}
	switch body := p.parseBodyStmt().(type) {
	case *ast.Begin:
		begin = body
	case *ast.Statements:
		begin.Body = body
	}
	close, ok := p.expectEnd(kw)
	begin.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)}
	return begin
}

func (p *Parser) parseClass() ast.Node {
	kw := p.advance()
	if p.check(LSHIFT) {
		p.advance()
		expr := p.parseExpression()
		p.pushLocals(false)
		defer p.popLocals()
		body := p.parseBodyStmt()
		close, ok := p.expectEnd(kw)
		return &ast.SingletonClass{
			Span:       ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)},
			Expression: expr,
			Body:       body,
		}
	}

	class := &ast.Class{ConstantPath: p.parseConstantPath()}
	if p.match(LESS) {
		class.Superclass = p.parseExpression()
	}
	p.pushLocals(false)
	defer p.popLocals()
	class.Body = p.parseBodyStmt()
	close, ok := p.expectEnd(kw)
	class.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)}
	return class
}

func (p *Parser) parseModule() ast.Node {
	kw := p.advance()
	module := &ast.Module{ConstantPath: p.parseConstantPath()}
	p.pushLocals(false)
	defer p.popLocals()
	module.Body = p.parseBodyStmt()
	close, ok := p.expectEnd(kw)
	module.Span = ast.Span{Pos: p.makePos(kw), EndPos: p.closeEnd(close, ok)}
	return module
}

// parseConstantPath parses the name after "class" or "module": "Foo",
// "::Foo" or "Outer::Inner".
func (p *Parser) parseConstantPath() ast.Node {
	var path ast.Node
	switch {
	case p.check(CONSTANT):
		tok := p.advance()
		path = &ast.Constant{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	case p.check(DOUBLE_COLON):
		path = p.parsePrimaryExpr()
	default:
		p.errorAtCurrent(fmt.Sprintf("expected constant name, found %s", describe(p.peek())))
		pos := p.makePos(p.peek())
		return &ast.BadNode{Span: ast.Span{Pos: pos, EndPos: pos}, Message: "expected constant name"}
	}
	for p.check(DOUBLE_COLON) {
		p.advance()
		name := p.consume(CONSTANT, "expected constant name after '::'")
		path = &ast.ConstantPath{
			Span:   ast.Span{Pos: path.NodePos(), EndPos: p.makeEndPos(name)},
			Parent: path,
			Name:   name.Lexeme,
		}
	}
	return path
}
