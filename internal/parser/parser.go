package parser

import (
	"fmt"

	"strictivars/internal/ast"
)

type Parser struct {
	filename string
	tokens   []Token
	current  int
	errors   []ParseError

	locals *localScope
	saved  []*localScope

	// noDo is non-zero while parsing a command-call argument list or a
	// loop condition, where a "do" belongs to the enclosing construct.
	noDo int
}

type ParseError struct {
	Message  string
	Position Position
	Length   int
}

func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{
		filename: filename,
		tokens:   tokens,
		locals:   &localScope{names: map[string]bool{}},
	}
}

func (p *Parser) Errors() []ParseError {
	return p.errors
}

// statementStop holds the tokens that end a statement list. The construct
// that opened the list decides which of them it accepts.
var statementStop = map[TokenType]bool{
	EOF:           true,
	END:           true,
	ELSE:          true,
	ELSIF:         true,
	WHEN:          true,
	IN:            true,
	RESCUE:        true,
	ENSURE:        true,
	RIGHT_BRACE:   true,
	RIGHT_PAREN:   true,
	RIGHT_BRACKET: true,
	EMBEXPR_END:   true,
}

// ParseProgram parses a whole file. Stray closing keywords at the top level
// are reported and skipped so the rest of the file is still parsed.
func (p *Parser) ParseProgram() *ast.Program {
	stmts := p.parseStatements()
	for !p.isAtEnd() {
		p.errorAtCurrent(fmt.Sprintf("unexpected %s", describe(p.peek())))
		p.advance()
		more := p.parseStatements()
		stmts.Body = append(stmts.Body, more.Body...)
		if len(more.Body) > 0 {
			stmts.EndPos = more.EndPos
			if len(stmts.Body) == len(more.Body) {
				stmts.Pos = more.Pos
			}
		}
	}
	eof := p.peek()
	return &ast.Program{
		Span: ast.Span{
			Pos:    ast.Position{Filename: p.filename, Offset: 0, Line: 1, Column: 1},
			EndPos: p.makePos(eof),
		},
		Statements: stmts,
	}
}

func (p *Parser) parseStatements() *ast.Statements {
	stmts := &ast.Statements{}
	p.skipTerminators()
	start := p.makePos(p.peek())
	for {
		p.skipTerminators()
		if statementStop[p.peek().Type] {
			break
		}
		before := p.current
		if stmt := p.parseStatement(); stmt != nil {
			stmts.Body = append(stmts.Body, stmt)
		}
		if !p.checkAny(NEWLINE, SEMICOLON) && !statementStop[p.peek().Type] {
			p.errorAtCurrent(fmt.Sprintf("unexpected %s, expecting end of statement", describe(p.peek())))
			p.synchronize()
		}
		if p.current == before {
			p.advance()
		}
	}

	if len(stmts.Body) == 0 {
		stmts.Span = ast.Span{Pos: start, EndPos: start}
	} else {
		stmts.Span = spanOf(stmts.Body[0], stmts.Body[len(stmts.Body)-1])
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Node {
	var expr ast.Node
	if p.check(STAR) {
		expr = p.parseMultiAssign(p.parseSplatTarget())
	} else {
		expr = p.parseExpressionStatement()
		switch {
		case p.check(COMMA) && assignable(expr):
			expr = p.parseMultiAssign(expr)
		case p.check(COMMA):
			if assign, ok := expr.(*ast.Assign); ok && assign.Operator == "=" {
				assign.Value = p.parseValueList(assign.Value)
				assign.EndPos = assign.Value.NodeEndPos()
			}
		}
	}
	return p.parseModifiers(expr)
}

func (p *Parser) parseModifiers(expr ast.Node) ast.Node {
	for {
		switch {
		case p.checkAny(IF, UNLESS):
			kw := p.advance()
			pred := p.parseExpressionStatement()
			expr = &ast.If{
				Span:      spanOf(expr, pred),
				Keyword:   kw.Lexeme,
				Predicate: pred,
				Then:      wrapStatements(expr),
				Modifier:  true,
			}
		case p.checkAny(WHILE, UNTIL):
			kw := p.advance()
			pred := p.parseExpressionStatement()
			expr = &ast.While{
				Span:      spanOf(expr, pred),
				Keyword:   kw.Lexeme,
				Predicate: pred,
				Body:      wrapStatements(expr),
				Modifier:  true,
			}
		case p.check(RESCUE):
			p.advance()
			fallback := p.parseExpressionStatement()
			expr = &ast.RescueModifier{
				Span:       spanOf(expr, fallback),
				Expression: expr,
				Rescue:     fallback,
			}
		default:
			return expr
		}
	}
}

// parseExpressionStatement parses the loosest-binding expression form:
// operands joined by "and"/"or", optionally negated with "not".
func (p *Parser) parseExpressionStatement() ast.Node {
	left := p.parseNotExpr()
	for p.checkAny(AND, OR) {
		op := p.advance()
		p.skipNewlines()
		right := p.parseNotExpr()
		left = &ast.Binary{Span: spanOf(left, right), Op: op.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseNotExpr() ast.Node {
	if p.check(NOT) {
		tok := p.advance()
		value := p.parseNotExpr()
		return &ast.Unary{
			Span:  ast.Span{Pos: p.makePos(tok), EndPos: value.NodeEndPos()},
			Op:    "not",
			Value: value,
		}
	}
	return p.parseExpression()
}

// parseExpression parses an assignment or anything binding tighter.
func (p *Parser) parseExpression() ast.Node {
	left := p.parseTernary()
	switch {
	case p.check(EQUAL):
		p.advance()
		target := p.toTarget(left)
		p.skipNewlines()
		var value ast.Node
		if p.check(STAR) {
			value = p.parseValueList(nil)
		} else {
			value = p.parseExpression()
			if p.check(RESCUE) && p.peekAt(1).Type != NEWLINE {
				p.advance()
				fallback := p.parseExpression()
				value = &ast.RescueModifier{Span: spanOf(value, fallback), Expression: value, Rescue: fallback}
			}
		}
		return p.makeAssign(target, "=", value)
	case p.check(OP_ASSIGN):
		op := p.advance()
		target := p.toTarget(left)
		p.skipNewlines()
		value := p.parseExpression()
		return p.makeAssign(target, op.Lexeme, value)
	}
	return left
}

// makeAssign builds the node for "target op value". A plain "=" to an
// attribute or index becomes the corresponding setter call.
func (p *Parser) makeAssign(target ast.Node, op string, value ast.Node) ast.Node {
	span := spanOf(target, value)
	if call, ok := target.(*ast.Call); ok && op == "=" {
		setter := *call
		setter.Span = span
		args := &ast.Arguments{Span: spanOf(value, value), Args: []ast.Node{value}}
		if call.Name == "[]" {
			setter.Name = "[]="
			if call.Arguments != nil {
				args.Args = append(append([]ast.Node{}, call.Arguments.Args...), value)
				args.Pos = call.Arguments.Pos
			}
		} else {
			setter.Name = call.Name + "="
		}
		setter.Arguments = args
		return &setter
	}
	return &ast.Assign{Span: span, Target: target, Operator: op, Value: value}
}

// parseValueList parses the right-hand side "a, *b, c" of an assignment
// into an implicit array. first is the already parsed first element, if any.
func (p *Parser) parseValueList(first ast.Node) ast.Node {
	var elems []ast.Node
	if first != nil {
		elems = append(elems, first)
	}
	for {
		if first != nil || len(elems) > 0 {
			if !p.match(COMMA) {
				break
			}
			p.skipNewlines()
		}
		if p.check(STAR) {
			tok := p.advance()
			value := p.parseTernary()
			elems = append(elems, &ast.Splat{Span: ast.Span{Pos: p.makePos(tok), EndPos: value.NodeEndPos()}, Value: value})
		} else {
			elems = append(elems, p.parseTernary())
		}
	}
	return &ast.Array{Span: spanOf(elems[0], elems[len(elems)-1]), Elements: elems}
}

func (p *Parser) parseMultiAssign(first ast.Node) ast.Node {
	targets := []ast.Node{p.toTarget(first)}
	for p.match(COMMA) {
		if p.check(EQUAL) {
			break
		}
		if p.check(STAR) {
			targets = append(targets, p.parseSplatTarget())
			continue
		}
		targets = append(targets, p.toTarget(p.parseTernary()))
	}
	if !p.check(EQUAL) {
		p.errorAtCurrent(fmt.Sprintf("expected '=' in multiple assignment, found %s", describe(p.peek())))
		return &ast.MultiAssign{Span: spanOf(targets[0], targets[len(targets)-1]), Targets: targets}
	}
	p.advance()
	p.skipNewlines()
	var value ast.Node
	if p.check(STAR) {
		value = p.parseValueList(nil)
	} else {
		value = p.parseExpression()
		if p.check(COMMA) {
			value = p.parseValueList(value)
		}
	}
	return &ast.MultiAssign{Span: spanOf(targets[0], value), Targets: targets, Value: value}
}

func (p *Parser) parseSplatTarget() ast.Node {
	tok := p.advance()
	span := p.tokenSpan(tok)
	if p.checkAny(COMMA, EQUAL, IN, RIGHT_PAREN, PIPE) {
		return &ast.SplatTarget{Span: span}
	}
	target := p.toTarget(p.parseUnary())
	span.EndPos = target.NodeEndPos()
	return &ast.SplatTarget{Span: span, Target: target}
}

// assignable reports whether n may appear on the left of a multiple
// assignment.
func assignable(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.IvarRead, *ast.CvarRead, *ast.GvarRead, *ast.LocalRead,
		*ast.Constant, *ast.ConstantPath, *ast.Splat:
		return true
	case *ast.Call:
		return n.Block == nil && (n.Arguments == nil || n.Name == "[]")
	}
	return false
}

// toTarget turns a parsed read into the matching write target. Assigning
// to an unknown bare identifier declares it as a local.
func (p *Parser) toTarget(n ast.Node) ast.Node {
	switch n := n.(type) {
	case *ast.IvarRead:
		return &ast.IvarTarget{Span: n.Span, Name: n.Name}
	case *ast.CvarRead:
		return &ast.CvarTarget{Span: n.Span, Name: n.Name}
	case *ast.GvarRead:
		return &ast.GvarTarget{Span: n.Span, Name: n.Name}
	case *ast.LocalRead:
		return &ast.LocalTarget{Span: n.Span, Name: n.Name}
	case *ast.Constant:
		return &ast.ConstantTarget{Span: n.Span, Name: n.Name}
	case *ast.ConstantPath:
		return &ast.ConstantTarget{Span: n.Span, Parent: n.Parent, Name: n.Name}
	case *ast.Splat:
		var inner ast.Node
		if n.Value != nil {
			inner = p.toTarget(n.Value)
		}
		return &ast.SplatTarget{Span: n.Span, Target: inner}
	case *ast.Call:
		if n.Receiver == nil && n.Arguments == nil && n.Block == nil && !n.Parens {
			p.declare(n.Name)
			return &ast.LocalTarget{Span: n.Span, Name: n.Name}
		}
		return n
	case *ast.IvarTarget, *ast.CvarTarget, *ast.GvarTarget, *ast.LocalTarget,
		*ast.ConstantTarget, *ast.SplatTarget, *ast.BadNode:
		return n
	}
	p.errors = append(p.errors, ParseError{
		Message:  fmt.Sprintf("cannot assign to %s", n.NodeType()),
		Position: Position{Line: n.NodePos().Line, Column: n.NodePos().Column, Offset: n.NodePos().Offset},
		Length:   n.NodeEndPos().Offset - n.NodePos().Offset,
	})
	return n
}
