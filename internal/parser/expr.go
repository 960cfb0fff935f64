package parser

import (
	"fastc/internal/ast"
	"fastc/internal/token"
)

// parseExpr is the entry point for all expression parsing. There is no
// separate precedence ladder: parseBinary enforces the single-operator
// rule directly, matching the reference implementation's parser/expr.rs.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary()
}

// parseBinary parses a unary/postfix operand, then at most one binary
// operator and its right-hand operand. If another binary operator token
// immediately follows, that is a syntax error: parentheses are required to
// disambiguate (spec.md §4.2's cardinal rule).
func (p *Parser) parseBinary() ast.Expr {
	left := p.parseUnary()

	op, ok := p.tryBinOp()
	if !ok {
		return left
	}

	right := p.parseUnary()

	if _, ok := p.tryBinOpPeek(); ok {
		t := p.current()
		p.errorf(t.Span, "chained binary operators require parentheses")
	}

	return &ast.Binary{
		Op:    op,
		Left:  left,
		Right: right,
		Sp:    token.Merge(left.Span(), right.Span()),
	}
}

var binOpOf = map[token.Kind]ast.BinOp{
	token.PLUS: ast.Add, token.MINUS: ast.Sub, token.STAR: ast.Mul,
	token.SLASH: ast.Div, token.PERCENT: ast.Rem,
	token.EQ: ast.EqOp, token.NE: ast.NeOp,
	token.LT: ast.LtOp, token.LE: ast.LeOp, token.GT: ast.GtOp, token.GE: ast.GeOp,
	token.AND: ast.LAnd, token.OR: ast.LOr,
	token.BITAND: ast.BAnd, token.BITOR: ast.BOr, token.BITXOR: ast.BXor,
	token.SHL: ast.Shl, token.SHR: ast.Shr,
}

// tryBinOp consumes a binary-operator token if present and returns the
// corresponding ast.BinOp.
func (p *Parser) tryBinOp() (ast.BinOp, bool) {
	if op, ok := binOpOf[p.current().Kind]; ok {
		p.advance()
		return op, true
	}
	return 0, false
}

// tryBinOpPeek reports whether the current token is a binary operator
// without consuming it, used only to detect (and reject) chaining.
func (p *Parser) tryBinOpPeek() (ast.BinOp, bool) {
	op, ok := binOpOf[p.current().Kind]
	return op, ok
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.current().Span
	switch p.current().Kind {
	case token.MINUS:
		p.advance()
		operand := p.parseUnary()
		return &ast.Unary{Op: ast.Neg, Operand: operand, Sp: token.Merge(start, operand.Span())}
	case token.NOT:
		p.advance()
		operand := p.parseUnary()
		return &ast.Unary{Op: ast.Not, Operand: operand, Sp: token.Merge(start, operand.Span())}
	case token.BITNOT:
		p.advance()
		operand := p.parseUnary()
		return &ast.Unary{Op: ast.BitNot, Operand: operand, Sp: token.Merge(start, operand.Span())}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles call and field-access chaining: f(x).y(z).
func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.current().Kind {
		case token.LPAREN:
			e = p.finishCall(e)
		case token.DOT:
			p.advance()
			start := e.Span()
			name := p.expectIdent()
			e = &ast.Field{Base: e, Name: name, Sp: token.Merge(start, p.toks[p.pos-1].Span)}
		default:
			return e
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	start := callee.Span()
	p.expect(token.LPAREN, "'('")
	var args []ast.Expr
	if !p.at(token.RPAREN) {
		args = append(args, p.parseExpr())
		for p.check(token.COMMA) {
			if p.at(token.RPAREN) {
				break
			}
			args = append(args, p.parseExpr())
		}
	}
	end := p.expect(token.RPAREN, "')'")
	return &ast.Call{Callee: callee, Args: args, Sp: token.Merge(start, end.Span)}
}

// builtinNoArgShape lists the single-argument call-form builtins recognized directly by the parser (spec.md §4.2 "Dereference and
// address-of are call forms", plus the extended set restored from the
// reference lexer: is_some/unwrap/to_raw/etc.).
var builtinNoArgShape = map[token.Kind]string{
	token.IS_SOME: "is_some", token.IS_NONE: "is_none",
	token.IS_OK: "is_ok", token.IS_ERR: "is_err",
	token.UNWRAP: "unwrap", token.UNWRAP_ERR: "unwrap_err",
	token.UNWRAP_CHECKED: "unwrap_checked",
	token.TO_RAW: "to_raw", token.TO_RAWM: "to_rawm",
	token.FROM_RAW: "from_raw", token.FROM_RAWM: "from_rawm",
	token.FROM_RAW_UNCHECKED: "from_raw_unchecked",
	token.FROM_RAWM_UNCHECKED: "from_rawm_unchecked",
	token.LEN: "len",
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.current()
	switch t.Kind {
	case token.INT:
		p.advance()
		return &ast.IntLit{Raw: t.Value, Sp: t.Span}
	case token.FLOAT:
		p.advance()
		return &ast.FloatLit{Raw: t.Value, Sp: t.Span}
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Sp: t.Span}
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Sp: t.Span}
	case token.STRING:
		// string literals normally occur only as arguments to cstr()/bytes(),
		// which parseStringBuiltin reads directly; a STRING reaching primary
		// position is taken as a C string literal.
		p.advance()
		return &ast.CStrLit{Value: t.Value, Sp: t.Span}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		end := p.expect(token.RPAREN, "')'")
		return &ast.Paren{Inner: inner, Sp: token.Merge(t.Span, end.Span)}
	case token.ADDR:
		return p.parseAddr()
	case token.DEREF:
		return p.parseSingleArgBuiltin(t, func(e ast.Expr, sp token.Span) ast.Expr {
			return &ast.Deref{Operand: e, Sp: sp}
		})
	case token.AT:
		return p.parseAt()
	case token.CAST:
		return p.parseCast()
	case token.CSTR:
		return p.parseStringBuiltin(t, func(s string, sp token.Span) ast.Expr {
			return &ast.CStrLit{Value: s, Sp: sp}
		})
	case token.BYTES:
		return p.parseStringBuiltin(t, func(s string, sp token.Span) ast.Expr {
			return &ast.BytesLit{Value: s, Sp: sp}
		})
	case token.NONE:
		return p.parseNone()
	case token.SOME:
		return p.parseSingleArgBuiltin(t, func(e ast.Expr, sp token.Span) ast.Expr {
			return &ast.SomeLit{Value: e, Sp: sp}
		})
	case token.OK:
		return p.parseSingleArgBuiltin(t, func(e ast.Expr, sp token.Span) ast.Expr {
			return &ast.OkLit{Value: e, Sp: sp}
		})
	case token.ERR:
		return p.parseSingleArgBuiltin(t, func(e ast.Expr, sp token.Span) ast.Expr {
			return &ast.ErrLit{Value: e, Sp: sp}
		})
	case token.UNWRAP_OR:
		return p.parseUnwrapOr()
	case token.IDENT:
		return p.parseIdentOrStructLit()
	default:
		if name, ok := builtinNoArgShape[t.Kind]; ok {
			return p.parseNamedSingleArgBuiltin(t, name)
		}
		p.errorf(t.Span, "expected expression, found %q", t.Value)
		p.advance()
		return &ast.Ident{Name: "<error>", Sp: t.Span}
	}
}

func (p *Parser) parseArgList() ([]ast.Expr, token.Span) {
	start := p.expect(token.LPAREN, "'('")
	var args []ast.Expr
	if !p.at(token.RPAREN) {
		args = append(args, p.parseExpr())
		for p.check(token.COMMA) {
			args = append(args, p.parseExpr())
		}
	}
	end := p.expect(token.RPAREN, "')'")
	return args, token.Merge(start.Span, end.Span)
}

func (p *Parser) parseSingleArgBuiltin(t token.Token, build func(ast.Expr, token.Span) ast.Expr) ast.Expr {
	p.advance()
	args, sp := p.parseArgList()
	full := token.Merge(t.Span, sp)
	if len(args) != 1 {
		p.errorf(full, "expected exactly one argument")
		return build(&ast.Ident{Name: "<error>", Sp: full}, full)
	}
	return build(args[0], full)
}

func (p *Parser) parseNamedSingleArgBuiltin(t token.Token, name string) ast.Expr {
	p.advance()
	start := p.expect(token.LPAREN, "'('")
	var args []ast.Expr
	if !p.at(token.RPAREN) {
		args = append(args, p.parseExpr())
	}
	end := p.expect(token.RPAREN, "')'")
	return &ast.Builtin{Name: name, Args: args, Sp: token.Merge(start.Span, end.Span)}
}

func (p *Parser) parseUnwrapOr() ast.Expr {
	t := p.advance()
	start := p.expect(token.LPAREN, "'('")
	var args []ast.Expr
	args = append(args, p.parseExpr())
	p.expect(token.COMMA, "','")
	args = append(args, p.parseExpr())
	end := p.expect(token.RPAREN, "')'")
	return &ast.Builtin{Name: "unwrap_or", Args: args, Sp: token.Merge(token.Merge(t.Span, start.Span), end.Span)}
}

func (p *Parser) parseAddr() ast.Expr {
	t := p.advance()
	args, sp := p.parseArgList()
	full := token.Merge(t.Span, sp)
	if len(args) != 1 {
		p.errorf(full, "expected exactly one argument")
		return &ast.Addr{Operand: &ast.Ident{Name: "<error>", Sp: full}, Sp: full}
	}
	return &ast.Addr{Operand: args[0], Sp: full}
}

func (p *Parser) parseAt() ast.Expr {
	t := p.advance()
	args, sp := p.parseArgList()
	full := token.Merge(t.Span, sp)
	if len(args) != 2 {
		p.errorf(full, "at(...) expects exactly two arguments")
		err := &ast.Ident{Name: "<error>", Sp: full}
		return &ast.At{Base: err, Index: err, Sp: full}
	}
	return &ast.At{Base: args[0], Index: args[1], Sp: full}
}

func (p *Parser) parseCast() ast.Expr {
	t := p.advance()
	start := p.expect(token.LPAREN, "'('")
	ty := p.parseType()
	p.expect(token.COMMA, "','")
	operand := p.parseExpr()
	end := p.expect(token.RPAREN, "')'")
	return &ast.Cast{Target: ty, Operand: operand, Sp: token.Merge(token.Merge(t.Span, start.Span), end.Span)}
}

func (p *Parser) parseStringBuiltin(t token.Token, build func(string, token.Span) ast.Expr) ast.Expr {
	p.advance()
	start := p.expect(token.LPAREN, "'('")
	lit := p.expect(token.STRING, "string literal")
	end := p.expect(token.RPAREN, "')'")
	full := token.Merge(token.Merge(t.Span, start.Span), end.Span)
	return build(lit.Value, full)
}

func (p *Parser) parseNone() ast.Expr {
	t := p.advance()
	start := p.expect(token.LPAREN, "'('")
	ty := p.parseType()
	end := p.expect(token.RPAREN, "')'")
	return &ast.NoneLit{Inner: ty, Sp: token.Merge(token.Merge(t.Span, start.Span), end.Span)}
}

// parseIdentOrStructLit parses a bare identifier, and -- unless suppressed
// by the parser's struct-literal context flag (used inside `if`/`while`/
// `for`/`switch` headers to disambiguate `Ident {` from a following block,
// spec.md §4.2) -- an immediately following `{ field: value, ... }` as a
// struct literal.
func (p *Parser) parseIdentOrStructLit() ast.Expr {
	t := p.advance()
	id := &ast.Ident{Name: t.Value, Sp: t.Span}
	if p.noStructLit > 0 || !p.at(token.LBRACE) {
		return id
	}
	return p.finishStructLit(t.Value, t.Span)
}

func (p *Parser) finishStructLit(name string, start token.Span) ast.Expr {
	p.expect(token.LBRACE, "'{'")
	var fields []ast.FieldInit
	for !p.at(token.RBRACE) && !p.isAtEnd() {
		fname := p.expectIdent()
		fstart := p.toks[p.pos-1].Span
		p.expect(token.COLON, "':'")
		val := p.parseExpr()
		fields = append(fields, ast.FieldInit{Name: fname, Value: val, Sp: token.Merge(fstart, val.Span())})
		if !p.check(token.COMMA) {
			break
		}
	}
	end := p.expect(token.RBRACE, "'}'")
	return &ast.StructLit{Name: name, Fields: fields, Sp: token.Merge(start, end.Span)}
}
