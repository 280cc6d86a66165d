package parser

import (
	"fmt"
	"strings"

	"strictivars/internal/ast"
)

// parseStringLiterals parses a string-like literal, and joins adjacent
// plain string literals ("a" "b") into one concatenation.
func (p *Parser) parseStringLiterals() ast.Node {
	first := p.parseStringLiteral()
	if first.Kind != ast.PlainString || first.Heredoc || !p.check(STRING_BEGIN) {
		return first
	}
	concat := &ast.StringConcat{Parts: []ast.Node{first}}
	for p.check(STRING_BEGIN) {
		concat.Parts = append(concat.Parts, p.parseStringLiteral())
	}
	concat.Span = spanOf(concat.Parts[0], concat.Parts[len(concat.Parts)-1])
	return concat
}

func (p *Parser) parseStringLiteral() *ast.String {
	open := p.advance()
	str := &ast.String{Opening: open.Lexeme}
	switch open.Type {
	case XSTRING_BEGIN:
		str.Kind = ast.XString
	case REGEXP_BEGIN:
		str.Kind = ast.RegexpString
	case SYMBOL_BEGIN:
		str.Kind = ast.SymbolString
	case WORDS_BEGIN:
		str.Kind = ast.WordsString
	case HEREDOC_BEGIN:
		str.Heredoc = true
		if strings.ContainsRune(open.Lexeme, '`') {
			str.Kind = ast.XString
		}
	}

	for !p.isAtEnd() && !p.check(STRING_END) {
		tok := p.peek()
		switch tok.Type {
		case STRING_CONTENT:
			p.advance()
			str.Parts = append(str.Parts, &ast.StringContent{Span: p.tokenSpan(tok), Value: tok.Lexeme})
		case EMBEXPR_BEGIN:
			str.Parts = append(str.Parts, p.parseEmbeddedStatements())
		case EMBVAR:
			str.Parts = append(str.Parts, p.parseEmbeddedVariable())
		default:
			p.errorAtCurrent(fmt.Sprintf("unexpected %s in string literal", describe(tok)))
			str.Span = ast.Span{Pos: p.makePos(open), EndPos: p.lastEnd()}
			return str
		}
	}

	// The scanner has already reported an unterminated literal.
	end := p.lastEnd()
	if p.check(STRING_END) {
		end = p.makeEndPos(p.advance())
	}
	if str.Heredoc {
		str.Span = p.tokenSpan(open)
	} else {
		str.Span = ast.Span{Pos: p.makePos(open), EndPos: end}
	}
	return str
}

func (p *Parser) parseEmbeddedStatements() ast.Node {
	open := p.advance()
	defer p.withDoAllowed()()
	body := p.parseStatements()
	close, ok := p.expectClose(EMBEXPR_END, open, "'}'")
	return &ast.EmbeddedStatements{
		Span: ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)},
		Body: body,
	}
}

func (p *Parser) parseEmbeddedVariable() ast.Node {
	hash := p.advance()
	tok := p.advance()
	var variable ast.Node
	switch tok.Type {
	case IVAR:
		variable = &ast.IvarRead{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	case CVAR:
		variable = &ast.CvarRead{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	case GVAR:
		variable = &ast.GvarRead{Span: p.tokenSpan(tok), Name: tok.Lexeme}
	default:
		p.errorAt(tok, fmt.Sprintf("expected variable after '#', found %s", describe(tok)))
		variable = &ast.BadNode{Span: p.tokenSpan(tok), Message: "expected variable"}
	}
	return &ast.EmbeddedVariable{
		Span:     ast.Span{Pos: p.makePos(hash), EndPos: variable.NodeEndPos()},
		Variable: variable,
	}
}

func (p *Parser) parseArrayLiteral() ast.Node {
	open := p.advance()
	args, _ := p.parseArgList(RIGHT_BRACKET, false)
	close, ok := p.expectClose(RIGHT_BRACKET, open, "']'")
	array := &ast.Array{Span: ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)}}
	if args != nil {
		array.Elements = args.Args
	}
	return array
}

func (p *Parser) parseHashLiteral() ast.Node {
	open := p.advance()
	defer p.withDoAllowed()()
	hash := &ast.Hash{}
	for {
		p.skipNewlines()
		if p.check(RIGHT_BRACE) || p.isAtEnd() {
			break
		}
		switch {
		case p.check(LABEL):
			hash.Elements = append(hash.Elements, p.parseLabelAssoc(RIGHT_BRACE))
		case p.check(STAR_STAR):
			tok := p.advance()
			splat := &ast.DoubleSplat{Span: p.tokenSpan(tok)}
			if p.canStartArgValue(RIGHT_BRACE) {
				splat.Value = p.parseArgValue()
				splat.EndPos = splat.Value.NodeEndPos()
			}
			hash.Elements = append(hash.Elements, splat)
		default:
			key := p.parseArgValue()
			if p.isStringLabel(key) {
				p.advance()
			} else {
				p.consume(FAT_ARROW, fmt.Sprintf("expected '=>' after hash key, found %s", describe(p.peek())))
			}
			p.skipNewlines()
			value := p.parseArgValue()
			hash.Elements = append(hash.Elements, &ast.Assoc{Span: spanOf(key, value), Key: key, Value: value})
		}
		if !p.match(COMMA) {
			break
		}
	}
	p.skipNewlines()
	close, ok := p.expectClose(RIGHT_BRACE, open, "'}'")
	hash.Span = ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)}
	return hash
}

// parseLambda parses "->(params) { body }" and the do...end form.
func (p *Parser) parseLambda() ast.Node {
	arrow := p.advance()
	lambda := &ast.Lambda{}
	p.pushLocals(true)
	defer p.popLocals()

	switch {
	case p.check(LEFT_PAREN):
		open := p.advance()
		params := p.parseParamList(false, RIGHT_PAREN)
		close, ok := p.expectClose(RIGHT_PAREN, open, "')'")
		params.Span = ast.Span{Pos: p.makePos(open), EndPos: p.closeEnd(close, ok)}
		lambda.Parameters = params
	case p.check(IDENTIFIER) || p.checkAny(STAR, STAR_STAR, AMPERSAND, LABEL):
		lambda.Parameters = p.parseParamList(true, LEFT_BRACE, DO)
	}

	defer p.withDoAllowed()()
	switch {
	case p.check(LEFT_BRACE):
		open := p.advance()
		lambda.Body = p.parseStatements()
		close, ok := p.expectClose(RIGHT_BRACE, open, "'}'")
		lambda.Span = ast.Span{Pos: p.makePos(arrow), EndPos: p.closeEnd(close, ok)}
	case p.check(DO):
		open := p.advance()
		lambda.Body = p.parseBodyStmt()
		close, ok := p.expectEnd(open)
		lambda.Span = ast.Span{Pos: p.makePos(arrow), EndPos: p.closeEnd(close, ok)}
	default:
		p.errorAtCurrent(fmt.Sprintf("expected lambda body, found %s", describe(p.peek())))
		lambda.Span = ast.Span{Pos: p.makePos(arrow), EndPos: p.lastEnd()}
	}
	return lambda
}
