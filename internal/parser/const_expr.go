package parser

import (
	"fastc/internal/ast"
	"fastc/internal/token"
)

// parseConstExpr parses the restricted const-expression sub-grammar
// (spec.md §4.4.6): literals, references to other const names, unary/binary
// operators over const expressions (still single-operator-per-level), and
// cast. No calls, no address-taking. It reuses the regular Expr node types
// -- the restriction is enforced here structurally (by which productions
// this function calls) and re-validated by the const evaluator in
// internal/typecheck, which rejects any non-const node that reaches it
// through, e.g., a case label or array-length position filled in by a
// different caller.
func (p *Parser) parseConstExpr() ast.Expr {
	return p.parseConstBinary()
}

func (p *Parser) parseConstBinary() ast.Expr {
	left := p.parseConstUnary()
	op, ok := p.tryBinOp()
	if !ok {
		return left
	}
	right := p.parseConstUnary()
	if _, ok := p.tryBinOpPeek(); ok {
		t := p.current()
		p.errorf(t.Span, "chained binary operators require parentheses")
	}
	return &ast.Binary{Op: op, Left: left, Right: right, Sp: token.Merge(left.Span(), right.Span())}
}

func (p *Parser) parseConstUnary() ast.Expr {
	start := p.current().Span
	switch p.current().Kind {
	case token.MINUS:
		p.advance()
		operand := p.parseConstUnary()
		return &ast.Unary{Op: ast.Neg, Operand: operand, Sp: token.Merge(start, operand.Span())}
	case token.NOT:
		p.advance()
		operand := p.parseConstUnary()
		return &ast.Unary{Op: ast.Not, Operand: operand, Sp: token.Merge(start, operand.Span())}
	case token.BITNOT:
		p.advance()
		operand := p.parseConstUnary()
		return &ast.Unary{Op: ast.BitNot, Operand: operand, Sp: token.Merge(start, operand.Span())}
	default:
		return p.parseConstPrimary()
	}
}

func (p *Parser) parseConstPrimary() ast.Expr {
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
		p.advance()
		return &ast.CStrLit{Value: t.Value, Sp: t.Span}
	case token.IDENT:
		p.advance()
		return &ast.Ident{Name: t.Value, Sp: t.Span}
	case token.LPAREN:
		p.advance()
		inner := p.parseConstExpr()
		end := p.expect(token.RPAREN, "')'")
		return &ast.Paren{Inner: inner, Sp: token.Merge(t.Span, end.Span)}
	case token.CAST:
		return p.parseConstCast()
	case token.CSTR:
		return p.parseStringBuiltin(t, func(s string, sp token.Span) ast.Expr {
			return &ast.CStrLit{Value: s, Sp: sp}
		})
	case token.BYTES:
		return p.parseStringBuiltin(t, func(s string, sp token.Span) ast.Expr {
			return &ast.BytesLit{Value: s, Sp: sp}
		})
	default:
		p.errorf(t.Span, "expected a const expression, found %q", t.Value)
		p.advance()
		return &ast.Ident{Name: "<error>", Sp: t.Span}
	}
}

func (p *Parser) parseConstCast() ast.Expr {
	t := p.advance()
	start := p.expect(token.LPAREN, "'('")
	ty := p.parseType()
	p.expect(token.COMMA, "','")
	operand := p.parseConstExpr()
	end := p.expect(token.RPAREN, "')'")
	return &ast.Cast{Target: ty, Operand: operand, Sp: token.Merge(token.Merge(t.Span, start.Span), end.Span)}
}
