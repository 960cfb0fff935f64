package p10

import "fastc/internal/ast"

// collectCallGraph records, for every declared function, the set of named
// functions its body calls directly, so checkRecursion can flag direct and
// mutual recursion without a full call-resolution pass (FastC has no
// first-class function values beyond fn-typed parameters, so name-based
// call sites cover ordinary recursion).
func (a *analyzer) collectCallGraph(file *ast.File) {
	for _, item := range file.Items {
		d, ok := item.(*ast.FnDecl)
		if !ok || d.Body == nil {
			continue
		}
		a.fnSpans[d.Name] = d.Sp
		var callees []string
		walkStmts(d.Body.Stmts, func(e ast.Expr) {
			collectCalls(e, &callees)
		})
		a.callGraph[d.Name] = callees
	}
}

func collectCalls(e ast.Expr, out *[]string) {
	switch n := e.(type) {
	case *ast.Call:
		if id, ok := n.Callee.(*ast.Ident); ok {
			*out = append(*out, id.Name)
		}
		for _, arg := range n.Args {
			collectCalls(arg, out)
		}
	case *ast.Binary:
		collectCalls(n.Left, out)
		collectCalls(n.Right, out)
	case *ast.Unary:
		collectCalls(n.Operand, out)
	case *ast.Paren:
		collectCalls(n.Inner, out)
	case *ast.Field:
		collectCalls(n.Base, out)
	case *ast.At:
		collectCalls(n.Base, out)
		collectCalls(n.Index, out)
	case *ast.Deref:
		collectCalls(n.Operand, out)
	case *ast.Addr:
		collectCalls(n.Operand, out)
	case *ast.Cast:
		collectCalls(n.Operand, out)
	case *ast.SomeLit:
		collectCalls(n.Value, out)
	case *ast.OkLit:
		collectCalls(n.Value, out)
	case *ast.ErrLit:
		collectCalls(n.Value, out)
	case *ast.Builtin:
		for _, arg := range n.Args {
			collectCalls(arg, out)
		}
	}
}

// checkRecursion flags any function reachable from itself through the call
// graph -- direct self-recursion (f calls f) or mutual recursion through
// any cycle length.
func (a *analyzer) checkRecursion() {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		for _, callee := range a.callGraph[name] {
			switch color[callee] {
			case gray:
				a.report("P1004", a.fnSpans[name], "function '%s' participates in a recursive call cycle (via '%s')", name, callee)
				return true
			case white:
				if _, known := a.callGraph[callee]; known {
					if visit(callee) {
						return true
					}
				}
			}
		}
		color[name] = black
		return false
	}
	for name := range a.callGraph {
		if color[name] == white {
			visit(name)
		}
	}
}
