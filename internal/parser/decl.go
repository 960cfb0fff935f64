package parser

import (
	"fastc/internal/ast"
	"fastc/internal/token"
)

func (p *Parser) parseItem() ast.Item {
	start := p.current().Span
	repr := p.parseOptionalReprAttr()

	pub := p.check(token.PUB)

	switch p.current().Kind {
	case token.FN:
		return p.parseFnDecl(pub, false, start)
	case token.UNSAFE:
		p.advance()
		return p.parseFnDecl(pub, true, start)
	case token.STRUCT:
		return p.parseStructDecl(pub, repr, start)
	case token.ENUM:
		return p.parseEnumDecl(pub, repr, start)
	case token.CONST:
		return p.parseConstDecl(pub, start)
	case token.OPAQUE:
		return p.parseOpaqueDecl(pub, start)
	case token.EXTERN:
		return p.parseExternBlock(start)
	case token.USE:
		return p.parseUseDecl(start)
	case token.MOD:
		return p.parseModDecl(pub, start)
	default:
		t := p.current()
		p.errorf(t.Span, "expected an item, found %q", t.Value)
		return nil
	}
}

// parseOptionalReprAttr parses a leading `@repr(C)` or `@repr(i8|u8|...)`
// attribute, if present.
func (p *Parser) parseOptionalReprAttr() ast.Repr {
	if !p.at(token.AT_SIGN) {
		return ast.ReprNone
	}
	p.advance()
	name := p.expectIdent()
	if name != "repr" {
		p.errorf(p.toks[p.pos-1].Span, "unknown attribute %q", name)
	}
	p.expect(token.LPAREN, "'('")
	t := p.current()
	var r ast.Repr
	switch t.Kind {
	case token.IDENT:
		if t.Value == "C" {
			r = ast.ReprC
		} else {
			p.errorf(t.Span, "unknown repr %q", t.Value)
		}
		p.advance()
	case token.I8:
		r, _ = ast.ReprI8, p.advance()
	case token.U8:
		r, _ = ast.ReprU8, p.advance()
	case token.I16:
		r, _ = ast.ReprI16, p.advance()
	case token.U16:
		r, _ = ast.ReprU16, p.advance()
	case token.I32:
		r, _ = ast.ReprI32, p.advance()
	case token.U32:
		r, _ = ast.ReprU32, p.advance()
	case token.I64:
		r, _ = ast.ReprI64, p.advance()
	case token.U64:
		r, _ = ast.ReprU64, p.advance()
	default:
		p.errorf(t.Span, "expected 'C' or an integer width in @repr(...)")
		p.advance()
	}
	p.expect(token.RPAREN, "')'")
	return r
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN, "'('")
	var params []ast.Param
	if !p.at(token.RPAREN) {
		params = append(params, p.parseParam())
		for p.check(token.COMMA) {
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RPAREN, "')'")
	return params
}

func (p *Parser) parseParam() ast.Param {
	t := p.current()
	name := p.expectIdent()
	p.expect(token.COLON, "':'")
	ty := p.parseType()
	return ast.Param{Name: name, Type: ty, Sp: token.Merge(t.Span, ty.Span())}
}

func (p *Parser) parseFnDecl(pub, unsafe bool, start token.Span) ast.Item {
	p.expect(token.FN, "'fn'")
	name := p.expectIdent()
	params := p.parseParamList()
	p.expect(token.ARROW, "'->'")
	ret := p.parseType()

	if p.check(token.SEMI) {
		// bare prototype outside an extern block is accepted syntactically
		// and rejected later by the resolver's declareFn (FastC has no
		// forward-declared non-extern functions).
		return &ast.FnDecl{Pub: pub, Unsafe: unsafe, Name: name, Params: params, ReturnType: ret, Sp: token.Merge(start, ret.Span())}
	}
	body := p.parseBlock()
	return &ast.FnDecl{Pub: pub, Unsafe: unsafe, Name: name, Params: params, ReturnType: ret, Body: body, Sp: token.Merge(start, body.Sp)}
}

func (p *Parser) parseStructDecl(pub bool, repr ast.Repr, start token.Span) ast.Item {
	p.expect(token.STRUCT, "'struct'")
	name := p.expectIdent()
	p.expect(token.LBRACE, "'{'")
	var fields []ast.FieldDecl
	for !p.at(token.RBRACE) && !p.isAtEnd() {
		fstart := p.current().Span
		fname := p.expectIdent()
		p.expect(token.COLON, "':'")
		ty := p.parseType()
		fields = append(fields, ast.FieldDecl{Name: fname, Type: ty, Sp: token.Merge(fstart, ty.Span())})
		if !p.check(token.COMMA) {
			break
		}
	}
	end := p.expect(token.RBRACE, "'}'")
	return &ast.StructDecl{Pub: pub, Repr: repr, Name: name, Fields: fields, Sp: token.Merge(start, end.Span)}
}

func (p *Parser) parseEnumDecl(pub bool, repr ast.Repr, start token.Span) ast.Item {
	p.expect(token.ENUM, "'enum'")
	name := p.expectIdent()
	p.expect(token.LBRACE, "'{'")
	var variants []ast.Variant
	for !p.at(token.RBRACE) && !p.isAtEnd() {
		vstart := p.current().Span
		vname := p.expectIdent()
		var fields []ast.TypeExpr
		if p.check(token.LPAREN) {
			fields = []ast.TypeExpr{}
			if !p.at(token.RPAREN) {
				fields = append(fields, p.parseType())
				for p.check(token.COMMA) {
					fields = append(fields, p.parseType())
				}
			}
			p.expect(token.RPAREN, "')'")
		}
		variants = append(variants, ast.Variant{Name: vname, Fields: fields, Sp: vstart})
		if !p.check(token.COMMA) {
			break
		}
	}
	end := p.expect(token.RBRACE, "'}'")
	return &ast.EnumDecl{Pub: pub, Repr: repr, Name: name, Variants: variants, Sp: token.Merge(start, end.Span)}
}

func (p *Parser) parseConstDecl(pub bool, start token.Span) ast.Item {
	p.expect(token.CONST, "'const'")
	name := p.expectIdent()
	p.expect(token.COLON, "':'")
	ty := p.parseType()
	p.expect(token.ASSIGN, "'='")
	val := p.parseConstExpr()
	end := p.expect(token.SEMI, "';'")
	return &ast.ConstDecl{Pub: pub, Name: name, Type: ty, Value: val, Sp: token.Merge(start, end.Span)}
}

func (p *Parser) parseOpaqueDecl(pub bool, start token.Span) ast.Item {
	p.expect(token.OPAQUE, "'opaque'")
	name := p.expectIdent()
	end := p.expect(token.SEMI, "';'")
	return &ast.OpaqueDecl{Pub: pub, Name: name, Sp: token.Merge(start, end.Span)}
}

func (p *Parser) parseExternBlock(start token.Span) ast.Item {
	p.expect(token.EXTERN, "'extern'")
	abiTok := p.expect(token.STRING, "ABI string literal")
	p.expect(token.LBRACE, "'{'")
	var items []ast.ExternItem
	for !p.at(token.RBRACE) && !p.isAtEnd() {
		items = append(items, p.parseExternItem())
	}
	end := p.expect(token.RBRACE, "'}'")
	return &ast.ExternBlock{Abi: abiTok.Value, Items: items, Sp: token.Merge(start, end.Span)}
}

func (p *Parser) parseExternItem() ast.ExternItem {
	istart := p.current().Span
	p.parseOptionalReprAttr() // extern items may carry their own @repr per-item
	p.expect(token.FN, "'fn'")
	name := p.expectIdent()
	params := p.parseParamList()
	p.expect(token.ARROW, "'->'")
	ret := p.parseType()
	end := p.expect(token.SEMI, "';'")
	return &ast.FnProto{Name: name, Params: params, ReturnType: ret, Sp: token.Merge(istart, end.Span)}
}

func (p *Parser) parseUseDecl(start token.Span) ast.Item {
	p.expect(token.USE, "'use'")
	var path []string
	path = append(path, p.expectIdent())
	for p.check(token.COLONCOLON) {
		if p.check(token.STAR) {
			end := p.expect(token.SEMI, "';'")
			return &ast.UseDecl{Path: path, Kind: ast.UseGlob, Sp: token.Merge(start, end.Span)}
		}
		if p.check(token.LBRACE) {
			var names []string
			names = append(names, p.expectIdent())
			for p.check(token.COMMA) {
				names = append(names, p.expectIdent())
			}
			p.expect(token.RBRACE, "'}'")
			end := p.expect(token.SEMI, "';'")
			return &ast.UseDecl{Path: path, Kind: ast.UseMultiple, Names: names, Sp: token.Merge(start, end.Span)}
		}
		path = append(path, p.expectIdent())
	}
	end := p.expect(token.SEMI, "';'")
	kind := ast.UseSingle
	if len(path) == 1 {
		kind = ast.UseModule
	}
	return &ast.UseDecl{Path: path, Kind: kind, Sp: token.Merge(start, end.Span)}
}

func (p *Parser) parseModDecl(pub bool, start token.Span) ast.Item {
	p.expect(token.MOD, "'mod'")
	name := p.expectIdent()
	if p.check(token.SEMI) {
		return &ast.ModDecl{Pub: pub, Name: name, Sp: token.Merge(start, p.toks[p.pos-1].Span)}
	}
	p.expect(token.LBRACE, "'{'")
	var items []ast.Item
	for !p.at(token.RBRACE) && !p.isAtEnd() {
		it := p.parseItem()
		if it != nil {
			items = append(items, it)
		} else {
			p.synchronize()
		}
	}
	end := p.expect(token.RBRACE, "'}'")
	return &ast.ModDecl{Pub: pub, Name: name, Body: items, Sp: token.Merge(start, end.Span)}
}
