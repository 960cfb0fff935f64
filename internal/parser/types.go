package parser

import (
	"fastc/internal/ast"
	"fastc/internal/token"
)

var primitiveKinds = map[token.Kind]bool{
	token.I8: true, token.I16: true, token.I32: true, token.I64: true,
	token.U8: true, token.U16: true, token.U32: true, token.U64: true,
	token.ISIZE: true, token.USIZE: true, token.F32: true, token.F64: true,
	token.BOOL: true, token.VOID: true,
}

func (p *Parser) parseType() ast.TypeExpr {
	t := p.current()
	switch {
	case primitiveKinds[t.Kind]:
		p.advance()
		return &ast.Primitive{Kind: t.Kind, Sp: t.Span}
	case t.Kind == token.REF:
		return p.parseRefOrMref(false)
	case t.Kind == token.MREF:
		return p.parseRefOrMref(true)
	case t.Kind == token.RAW:
		return p.parseRawOrRawm(false)
	case t.Kind == token.RAWM:
		return p.parseRawOrRawm(true)
	case t.Kind == token.OWN:
		return p.parseOwn()
	case t.Kind == token.SLICE:
		return p.parseSlice()
	case t.Kind == token.ARR:
		return p.parseArray()
	case t.Kind == token.OPT:
		return p.parseOpt()
	case t.Kind == token.RES:
		return p.parseRes()
	case t.Kind == token.UNSAFE || t.Kind == token.FN:
		return p.parseFnType()
	case t.Kind == token.IDENT:
		p.advance()
		return &ast.Named{Name: t.Value, Sp: t.Span}
	default:
		p.errorf(t.Span, "expected a type, found %q", t.Value)
		p.advance()
		return &ast.Named{Name: "<error>", Sp: t.Span}
	}
}

func (p *Parser) parenthesizedInner() (ast.TypeExpr, token.Span) {
	start := p.expect(token.LPAREN, "'('")
	inner := p.parseType()
	end := p.expect(token.RPAREN, "')'")
	return inner, token.Merge(start.Span, end.Span)
}

func (p *Parser) parseRefOrMref(mutable bool) ast.TypeExpr {
	start := p.advance()
	inner, sp := p.parenthesizedInner()
	return &ast.Ref{Mutable: mutable, Inner: inner, Sp: token.Merge(start.Span, sp)}
}

func (p *Parser) parseRawOrRawm(mutable bool) ast.TypeExpr {
	start := p.advance()
	inner, sp := p.parenthesizedInner()
	return &ast.RawPtr{Mutable: mutable, Inner: inner, Sp: token.Merge(start.Span, sp)}
}

func (p *Parser) parseOwn() ast.TypeExpr {
	start := p.advance()
	inner, sp := p.parenthesizedInner()
	return &ast.Own{Inner: inner, Sp: token.Merge(start.Span, sp)}
}

func (p *Parser) parseSlice() ast.TypeExpr {
	start := p.advance()
	inner, sp := p.parenthesizedInner()
	return &ast.Slice{Inner: inner, Sp: token.Merge(start.Span, sp)}
}

func (p *Parser) parseArray() ast.TypeExpr {
	start := p.advance()
	p.expect(token.LPAREN, "'('")
	inner := p.parseType()
	p.expect(token.COMMA, "','")
	size := p.parseConstExpr()
	end := p.expect(token.RPAREN, "')'")
	return &ast.Array{Inner: inner, Size: size, Sp: token.Merge(start.Span, end.Span)}
}

func (p *Parser) parseOpt() ast.TypeExpr {
	start := p.advance()
	inner, sp := p.parenthesizedInner()
	return &ast.Opt{Inner: inner, Sp: token.Merge(start.Span, sp)}
}

func (p *Parser) parseRes() ast.TypeExpr {
	start := p.advance()
	p.expect(token.LPAREN, "'('")
	ok := p.parseType()
	p.expect(token.COMMA, "','")
	errTy := p.parseType()
	end := p.expect(token.RPAREN, "')'")
	return &ast.Res{Ok: ok, Err: errTy, Sp: token.Merge(start.Span, end.Span)}
}

func (p *Parser) parseFnType() ast.TypeExpr {
	start := p.current()
	unsafe := p.check(token.UNSAFE)
	p.expect(token.FN, "'fn'")
	p.expect(token.LPAREN, "'('")
	var params []ast.TypeExpr
	if !p.at(token.RPAREN) {
		params = append(params, p.parseType())
		for p.check(token.COMMA) {
			params = append(params, p.parseType())
		}
	}
	p.expect(token.RPAREN, "')'")
	p.expect(token.ARROW, "'->'")
	ret := p.parseType()
	return &ast.FnType{Unsafe: unsafe, Params: params, Return: ret, Sp: token.Merge(start.Span, ret.Span())}
}
