package lower

import (
	"fastc/internal/ast"
	"fastc/internal/cast"
	"fastc/internal/types"
)

func (l *Lowerer) lowerStmts(stmts []ast.Stmt) []cast.Stmt {
	var out []cast.Stmt
	for _, s := range stmts {
		out = append(out, l.lowerStmt(s)...)
	}
	return out
}

// lowerExprHoisted lowers e, returning both its value and any statements
// (checked-arithmetic traps, hoisted call results) that must run
// immediately before the statement containing e -- the mechanism behind
// spec.md §4.5's evaluation-order normalization.
func (l *Lowerer) lowerExprHoisted(e ast.Expr) ([]cast.Stmt, cast.Expr) {
	if e == nil {
		return nil, nil
	}
	saved := l.fn.pre
	l.fn.pre = nil
	v := l.lowerExpr(e)
	pre := l.fn.pre
	l.fn.pre = saved
	return pre, v
}

func (l *Lowerer) lowerStmt(s ast.Stmt) []cast.Stmt {
	switch n := s.(type) {
	case *ast.Let:
		pre, init := l.lowerExprHoisted(n.Init)
		return append(pre, &cast.VarDecl{Name: n.Name, Type: l.letType(n), Init: init})

	case *ast.Assign:
		preT, lhs := l.lowerExprHoisted(n.Target)
		preV, rhs := l.lowerExprHoisted(n.Value)
		out := append(preT, preV...)
		return append(out, &cast.Assign{Lhs: lhs, Rhs: rhs})

	case *ast.If:
		pre, cond := l.lowerExprHoisted(n.Cond)
		then := l.lowerStmts(n.Then.Stmts)
		els := l.lowerElse(n.Else)
		return append(pre, &cast.If{Cond: cond, Then: then, Else: els})

	case *ast.IfLet:
		return l.lowerIfLet(n)

	case *ast.While:
		return l.lowerWhile(n)

	case *ast.For:
		return l.lowerFor(n)

	case *ast.Switch:
		return l.lowerSwitch(n)

	case *ast.Return:
		return l.lowerReturn(n)

	case *ast.Break:
		return []cast.Stmt{&cast.Break{}}

	case *ast.Continue:
		return []cast.Stmt{&cast.Continue{}}

	case *ast.Defer:
		l.fn.defers = append(l.fn.defers, l.lowerStmts(n.Body.Stmts))
		return nil

	case *ast.Unsafe:
		return l.lowerStmts(n.Body.Stmts)

	case *ast.Discard:
		pre, v := l.lowerExprHoisted(n.Value)
		if v == nil {
			return pre
		}
		return append(pre, &cast.ExprStmt{Value: &cast.CastExpr{Type: cast.PrimType(cast.CVoid), Expr: v}})

	case *ast.ExprStmt:
		pre, v := l.lowerExprHoisted(n.Value)
		if v == nil {
			return pre
		}
		return append(pre, &cast.ExprStmt{Value: v})

	case *ast.Block:
		return []cast.Stmt{&cast.Block{Stmts: l.lowerStmts(n.Stmts)}}
	}
	return nil
}

func (l *Lowerer) lowerElse(e ast.ElseBranch) []cast.Stmt {
	switch n := e.(type) {
	case nil:
		return nil
	case *ast.If:
		return l.lowerStmt(n)
	case *ast.Block:
		return l.lowerStmts(n.Stmts)
	}
	return nil
}

func (l *Lowerer) letType(n *ast.Let) cast.Type {
	if t, ok := l.info.ExprTypes[n.Init]; ok && t != nil {
		return l.lowerType(t)
	}
	return cast.PrimType(cast.CVoid)
}

func (l *Lowerer) lowerIfLet(n *ast.IfLet) []cast.Stmt {
	pre, v := l.lowerExprHoisted(n.Value)
	valType := l.info.ExprTypes[n.Value]
	v = l.hoistTemp(&pre, v, l.lowerType(valType))
	var cond cast.Expr
	var bind *cast.VarDecl
	switch t := valType.(type) {
	case *types.Opt:
		cond = &cast.FieldExpr{Base: v, Field: "present"}
		bind = &cast.VarDecl{Name: n.Name, Type: l.lowerType(t.Inner), Init: &cast.FieldExpr{Base: v, Field: "value"}}
	case *types.Res:
		cond = &cast.FieldExpr{Base: v, Field: "is_ok"}
		bind = &cast.VarDecl{Name: n.Name, Type: l.lowerType(t.Ok), Init: &cast.FieldExpr{
			Base: &cast.FieldExpr{Base: v, Field: "payload"}, Field: "ok_value",
		}}
	default:
		bind = &cast.VarDecl{Name: n.Name, Type: cast.PrimType(cast.CVoid)}
		cond = &cast.BoolLit{Value: false}
	}
	then := append([]cast.Stmt{bind}, l.lowerStmts(n.Then.Stmts)...)
	els := l.lowerElse(n.Else)
	return append(pre, &cast.If{Cond: cond, Then: then, Else: els})
}

// hoistTemp ensures v is a cheap-to-repeat expression (an Ident), assigning
// it to a fresh temporary declared in *pre when it is not already one, so
// checks that reference the same source value twice never re-run a
// call/side-effecting subexpression.
func (l *Lowerer) hoistTemp(pre *[]cast.Stmt, v cast.Expr, ty cast.Type) cast.Expr {
	if _, ok := v.(*cast.Ident); ok {
		return v
	}
	name := l.newTemp()
	*pre = append(*pre, &cast.VarDecl{Name: name, Type: ty, Init: v})
	return &cast.Ident{Name: name}
}

// lowerWhile rewrites `while cond { body }` to `for (;;) { <cond's hoisted
// statements>; if (!cond) break; body }` so a condition that hoists
// statements (e.g. it contains a call) still re-runs them every iteration,
// which an ordinary C `while (cond)` header cannot do.
func (l *Lowerer) lowerWhile(n *ast.While) []cast.Stmt {
	pre, cond := l.lowerExprHoisted(n.Cond)
	body := append([]cast.Stmt{}, pre...)
	body = append(body, &cast.If{Cond: &cast.Unary{Op: cast.Not, Operand: cond}, Then: []cast.Stmt{&cast.Break{}}})
	body = append(body, l.lowerStmts(n.Body.Stmts)...)
	return []cast.Stmt{&cast.For{Body: body}}
}

// lowerFor lowers a native for-loop directly to its C counterpart -- a gap
// the reference implementation's CStmt::For variant declares but never
// fills. FastC's for-loop condition is restricted to a simple comparison
// (spec.md §3), so it never hoists statements the way an arbitrary boolean
// expression might; init/step are likewise restricted to Let/Assign/
// ExprStmt and lower to the corresponding single cast.Stmt.
func (l *Lowerer) lowerFor(n *ast.For) []cast.Stmt {
	var init cast.Stmt
	if n.Init != nil {
		stmts := l.lowerStmt(n.Init.(ast.Stmt))
		if len(stmts) > 0 {
			init = stmts[len(stmts)-1]
		}
	}
	var cond cast.Expr
	if n.Cond != nil {
		_, cond = l.lowerExprHoisted(n.Cond)
	}
	var step cast.Stmt
	if n.Step != nil {
		stmts := l.lowerStmt(n.Step.(ast.Stmt))
		if len(stmts) > 0 {
			step = stmts[len(stmts)-1]
		}
	}
	body := l.lowerStmts(n.Body.Stmts)
	return []cast.Stmt{&cast.For{Init: init, Cond: cond, Step: step, Body: body}}
}

func (l *Lowerer) lowerReturn(n *ast.Return) []cast.Stmt {
	var pre []cast.Stmt
	var v cast.Expr
	if n.Value != nil {
		pre, v = l.lowerExprHoisted(n.Value)
	}
	if l.fn.hasDefer {
		out := append([]cast.Stmt{}, pre...)
		if n.Value != nil {
			out = append(out, &cast.Assign{Lhs: &cast.Ident{Name: l.fn.retVar}, Rhs: v})
		}
		return append(out, &cast.Goto{Label: l.fn.cleanupLabel})
	}
	return append(pre, &cast.Return{Value: v})
}
