package parser

import (
	"fmt"

	"strictivars/internal/ast"
)

// parseIdentifier parses a bare identifier: a local variable read when the
// name was assigned earlier in scope, otherwise a method call on self.
func (p *Parser) parseIdentifier() ast.Node {
	tok := p.advance()
	parenCall := p.check(LEFT_PAREN) && !p.peek().SpaceBefore
	if p.isLocal(tok.Lexeme) && !parenCall {
		return &ast.LocalRead{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	}
	call := &ast.Call{Name: tok.Lexeme, NamePos: p.makePos(tok)}
	return p.parseCallRest(call, tok)
}

func (p *Parser) parseMethodCall(receiver ast.Node, op Token) ast.Node {
	call := &ast.Call{Receiver: receiver, Operator: op.Lexeme}
	nameTok := p.peek()
	switch {
	case p.check(LEFT_PAREN):
		// "callable.()" is shorthand for "callable.call()".
		call.Name = "call"
		call.NamePos = p.makePos(op)
		return p.parseCallRest(call, op)
	case p.checkAny(IDENTIFIER, CONSTANT):
		p.advance()
	case p.check(LEFT_BRACKET) && p.peekAt(1).Type == RIGHT_BRACKET:
		p.advance()
		nameTok = p.advance()
		nameTok.Lexeme = "[]"
		nameTok.Position = p.tokens[p.current-2].Position
	default:
		if _, isOp := binaryOperators[nameTok.Type]; isOp || p.checkAny(BANG, TILDE, BANG_EQUAL, EQUAL_EQUAL) {
			p.advance()
			break
		}
		p.errorAtCurrent(fmt.Sprintf("expected method name after '%s', found %s", op.Lexeme, describe(nameTok)))
		return &ast.Call{
			Span:     ast.Span{Pos: receiver.NodePos(), EndPos: p.makeEndPos(op)},
			Receiver: receiver,
			Operator: op.Lexeme,
		}
	}
	call.Name = nameTok.Lexeme
	call.NamePos = p.makePos(nameTok)
	return p.parseCallRest(call, nameTok)
}

// parseCallRest parses whatever follows a method name: a parenthesised or
// command-style argument list and an optional block. last is the final
// token consumed so far, used for the call's extent when nothing follows.
func (p *Parser) parseCallRest(call *ast.Call, last Token) ast.Node {
	start := call.NamePos
	if call.Receiver != nil {
		start = call.Receiver.NodePos()
	}
	end := p.makeEndPos(last)
	command := false

	switch {
	case p.check(LEFT_PAREN) && !p.peek().SpaceBefore:
		open := p.advance()
		call.Parens = true
		args, blockArg := p.parseArgList(RIGHT_PAREN, false)
		close, ok := p.expectClose(RIGHT_PAREN, open, "')'")
		call.Arguments = args
		if blockArg != nil {
			call.Block = blockArg
		}
		end = p.closeEnd(close, ok)
	case p.canStartCommandArg():
		command = true
		p.noDo++
		args, blockArg := p.parseArgList(EOF, true)
		p.noDo--
		call.Arguments = args
		if args != nil {
			end = args.EndPos
		}
		if blockArg != nil {
			call.Block = blockArg
			if blockArg.EndPos.Offset > end.Offset {
				end = blockArg.EndPos
			}
		}
	}

	switch {
	case p.check(LEFT_BRACE) && !command:
		block := p.parseBraceBlock()
		call.Block = block
		end = block.EndPos
	case p.check(DO) && p.noDo == 0:
		block := p.parseDoBlock()
		call.Block = block
		end = block.EndPos
	}

	call.Span = ast.Span{Pos: start, EndPos: end}
	return call
}

// canStartCommandArg decides whether the next token begins the argument
// list of a parenthesis-free call. Operators that can be either unary or
// binary count as an argument only when spaced like one: "foo -1" but not
// "foo - 1" or "foo-1".
func (p *Parser) canStartCommandArg() bool {
	tok := p.peek()
	if !tok.SpaceBefore {
		return false
	}
	switch tok.Type {
	case IDENTIFIER, CONSTANT, IVAR, CVAR, GVAR, INTEGER, FLOAT, SYMBOL, CHAR, LABEL,
		STRING_BEGIN, XSTRING_BEGIN, REGEXP_BEGIN, SYMBOL_BEGIN, WORDS_BEGIN, HEREDOC_BEGIN,
		NIL, TRUE, FALSE, SELF, KW_FILE, KW_LINE, KW_ENCODING,
		ARROW, DEFINED, NOT, DEF, CASE, LEFT_BRACKET, LEFT_PAREN, SUPER, YIELD:
		return true
	case MINUS, PLUS, STAR, STAR_STAR, AMPERSAND, BANG, TILDE, DOUBLE_COLON:
		next := p.peekAt(1)
		return !next.SpaceBefore && next.Type != EOF && next.Type != NEWLINE
	}
	return false
}

// parseArgList parses call arguments up to closer, or up to the end of the
// line for a command call. A trailing "&blk" is returned separately since
// it is not part of the argument list proper.
func (p *Parser) parseArgList(closer TokenType, command bool) (*ast.Arguments, *ast.BlockArgument) {
	if !command {
		defer p.withDoAllowed()()
	}

	args := &ast.Arguments{}
	var blockArg *ast.BlockArgument
	var hash *ast.KeywordHash

	addAssoc := func(assoc *ast.Assoc) {
		if hash == nil {
			hash = &ast.KeywordHash{Span: assoc.Span}
			args.Args = append(args.Args, hash)
		}
		hash.Elements = append(hash.Elements, assoc)
		hash.EndPos = assoc.EndPos
	}

	for {
		if !command {
			p.skipNewlines()
			if p.check(closer) || p.isAtEnd() {
				break
			}
		}

		switch {
		case p.check(AMPERSAND):
			tok := p.advance()
			blockArg = &ast.BlockArgument{Span: p.tokenSpan(tok)}
			if p.canStartArgValue(closer) {
				blockArg.Value = p.parseArgValue()
				blockArg.EndPos = blockArg.Value.NodeEndPos()
			}
		case p.check(DOT3) && !command && p.peekAt(1).Type == closer:
			tok := p.advance()
			args.Args = append(args.Args, &ast.ForwardingArguments{Span: p.tokenSpan(tok)})
			args.Forwarding = true
		case p.check(STAR):
			tok := p.advance()
			splat := &ast.Splat{Span: p.tokenSpan(tok)}
			if p.canStartArgValue(closer) {
				splat.Value = p.parseArgValue()
				splat.EndPos = splat.Value.NodeEndPos()
			}
			args.Args = append(args.Args, splat)
		case p.check(STAR_STAR):
			tok := p.advance()
			splat := &ast.DoubleSplat{Span: p.tokenSpan(tok)}
			if p.canStartArgValue(closer) {
				splat.Value = p.parseArgValue()
				splat.EndPos = splat.Value.NodeEndPos()
			}
			addAssocLike(args, &hash, splat)
		case p.check(LABEL):
			addAssoc(p.parseLabelAssoc(closer))
		default:
			value := p.parseArgValue()
			switch {
			case p.check(FAT_ARROW):
				p.advance()
				p.skipNewlines()
				v := p.parseArgValue()
				addAssoc(&ast.Assoc{Span: spanOf(value, v), Key: value, Value: v})
			case p.isStringLabel(value):
				p.advance()
				v := p.parseArgValue()
				addAssoc(&ast.Assoc{Span: spanOf(value, v), Key: value, Value: v})
			default:
				args.Args = append(args.Args, value)
			}
		}

		if !p.match(COMMA) {
			break
		}
		if command {
			p.skipNewlines()
		}
	}
	if !command {
		p.skipNewlines()
	}

	if len(args.Args) == 0 {
		return nil, blockArg
	}
	args.Span = spanOf(args.Args[0], args.Args[len(args.Args)-1])
	return args, blockArg
}

// addAssocLike appends a "**opts" entry to the keyword hash being built.
func addAssocLike(args *ast.Arguments, hash **ast.KeywordHash, n ast.Node) {
	if *hash == nil {
		*hash = &ast.KeywordHash{Span: spanOf(n, n)}
		args.Args = append(args.Args, *hash)
	}
	(*hash).Elements = append((*hash).Elements, n)
	(*hash).EndPos = n.NodeEndPos()
}

func (p *Parser) parseArgValue() ast.Node {
	return p.parseNotExpr()
}

// canStartArgValue reports whether an optional value follows, as after a
// bare "*" or "&" or a shorthand "key:".
func (p *Parser) canStartArgValue(closer TokenType) bool {
	tt := p.peek().Type
	return tt != closer && tt != COMMA && exprStart[tt]
}

func (p *Parser) parseLabelAssoc(closer TokenType) *ast.Assoc {
	tok := p.advance()
	key := &ast.Literal{Span: p.tokenSpan(tok), Kind: ast.SymbolLit, Value: tok.Lexeme}
	assoc := &ast.Assoc{Span: key.Span, Key: key}
	if p.canStartArgValue(closer) && p.peek().Type != RIGHT_BRACE {
		assoc.Value = p.parseArgValue()
		assoc.EndPos = assoc.Value.NodeEndPos()
	}
	return assoc
}

// isStringLabel reports a quoted hash key written as "key": value.
func (p *Parser) isStringLabel(n ast.Node) bool {
	s, ok := n.(*ast.String)
	return ok && !s.Heredoc && p.check(COLON) && !p.peek().SpaceBefore
}

func (p *Parser) parseIndex(receiver ast.Node) ast.Node {
	open := p.advance()
	args, _ := p.parseArgList(RIGHT_BRACKET, false)
	close, ok := p.expectClose(RIGHT_BRACKET, open, "']'")
	call := &ast.Call{
		Span:      ast.Span{Pos: receiver.NodePos(), EndPos: p.closeEnd(close, ok)},
		Receiver:  receiver,
		Name:      "[]",
		NamePos:   p.makePos(open),
		Arguments: args,
	}
	return call
}

func (p *Parser) parseBraceBlock() *ast.Block {
	open := p.advance()
	defer p.withDoAllowed()()
	p.pushLocals(true)
	defer p.popLocals()

	block := &ast.Block{Brace: true}
	block.Parameters = p.parseBlockParameters()
	block.Body = p.parseStatements()
	close, ok := p.expectClose(RIGHT_BRACE, open, "'}'")
	block.Span = ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)}
	return block
}

func (p *Parser) parseDoBlock() *ast.Block {
	open := p.advance()
	defer p.withDoAllowed()()
	p.pushLocals(true)
	defer p.popLocals()

	block := &ast.Block{}
	block.Parameters = p.parseBlockParameters()
	block.Body = p.parseBodyStmt()
	close, ok := p.expectEnd(open)
	block.Span = ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)}
	return block
}

func (p *Parser) parseBlockParameters() *ast.Parameters {
	p.skipNewlines()
	switch {
	case p.check(PIPE_PIPE):
		tok := p.advance()
		return &ast.Parameters{Span: p.tokenSpan(tok)}
	case p.check(PIPE):
		open := p.advance()
		params := p.parseParamList(false, PIPE)
		close, ok := p.expectClose(PIPE, open, "'|'")
		params.Span = ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)}
		return params
	}
	return nil
}

func (p *Parser) parseJump() ast.Node {
	kw := p.advance()
	jump := &ast.Jump{Span: p.tokenSpan(kw), Keyword: kw.Lexeme}
	if kw.Type == REDO || kw.Type == RETRY {
		return jump
	}
	if exprStart[p.peek().Type] {
		args, _ := p.parseArgList(EOF, true)
		if args != nil {
			jump.Arguments = args
			jump.EndPos = args.EndPos
		}
	}
	return jump
}

func (p *Parser) parseYield() ast.Node {
	kw := p.advance()
	node := &ast.Yield{Span: p.tokenSpan(kw)}
	switch {
	case p.check(LEFT_PAREN) && !p.peek().SpaceBefore:
		open := p.advance()
		args, _ := p.parseArgList(RIGHT_PAREN, false)
		close, ok := p.expectClose(RIGHT_PAREN, open, "')'")
		node.Arguments = args
		node.EndPos = p.closeEnd(close, ok)
	case p.canStartCommandArg():
		args, _ := p.parseArgList(EOF, true)
		if args != nil {
			node.Arguments = args
			node.EndPos = args.EndPos
		}
	}
	return node
}

func (p *Parser) parseSuper() ast.Node {
	kw := p.advance()
	node := &ast.Super{Span: p.tokenSpan(kw)}
	command := false
	switch {
	case p.check(LEFT_PAREN) && !p.peek().SpaceBefore:
		open := p.advance()
		node.Parens = true
		args, blockArg := p.parseArgList(RIGHT_PAREN, false)
		close, ok := p.expectClose(RIGHT_PAREN, open, "')'")
		node.Arguments = args
		if blockArg != nil {
			node.Block = blockArg
		}
		node.EndPos = p.closeEnd(close, ok)
	case p.canStartCommandArg():
		command = true
		p.noDo++
		args, blockArg := p.parseArgList(EOF, true)
		p.noDo--
		node.Arguments = args
		if args != nil {
			node.EndPos = args.EndPos
		}
		if blockArg != nil {
			node.Block = blockArg
			node.EndPos = blockArg.EndPos
		}
	}
	switch {
	case p.check(LEFT_BRACE) && !command:
		block := p.parseBraceBlock()
		node.Block = block
		node.EndPos = block.EndPos
	case p.check(DO) && p.noDo == 0:
		block := p.parseDoBlock()
		node.Block = block
		node.EndPos = block.EndPos
	}
	return node
}

func (p *Parser) parseAlias() ast.Node {
	kw := p.advance()
	count := 2
	for i := 0; i < count || (kw.Type == UNDEF && p.match(COMMA)); i++ {
		if p.checkAny(SYMBOL_BEGIN, STRING_BEGIN) {
			p.parseStringLiterals()
			continue
		}
		if statementStop[p.peek().Type] || p.checkAny(NEWLINE, SEMICOLON) {
			break
		}
		p.advance()
		if kw.Type == UNDEF {
			count = 1
		}
	}
	return &ast.Alias{Span: ast.Span{Pos: p.makePos(kw), EndPos: p.lastEnd()}, Keyword: kw.Lexeme}
}
