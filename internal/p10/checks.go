package p10

import (
	"fastc/internal/ast"
)

// checkFunctionLength flags any function whose body contains more than
// maxFunctionStmts top-level-and-nested statements, counted recursively so
// a long chain of small nested blocks cannot dodge the rule.
func (a *analyzer) checkFunctionLength(d *ast.FnDecl) {
	n := countStmts(d.Body.Stmts)
	if n > maxFunctionStmts {
		a.report("P1001", d.Sp, "function '%s' has %d statements, exceeding the %d-statement guideline", d.Name, n, maxFunctionStmts)
	}
}

func countStmts(stmts []ast.Stmt) int {
	total := 0
	for _, s := range stmts {
		total++
		total += countStmtsNested(s)
	}
	return total
}

func countStmtsNested(s ast.Stmt) int {
	switch n := s.(type) {
	case *ast.Block:
		return countStmts(n.Stmts)
	case *ast.If:
		c := countStmts(n.Then.Stmts)
		c += countElseStmts(n.Else)
		return c
	case *ast.IfLet:
		c := countStmts(n.Then.Stmts)
		c += countElseStmts(n.Else)
		return c
	case *ast.While:
		return countStmts(n.Body.Stmts)
	case *ast.For:
		return countStmts(n.Body.Stmts)
	case *ast.Switch:
		c := 0
		for _, cs := range n.Cases {
			c += countStmts(cs.Stmts)
		}
		c += countStmts(n.Default)
		return c
	case *ast.Defer:
		return countStmts(n.Body.Stmts)
	case *ast.Unsafe:
		return countStmts(n.Body.Stmts)
	}
	return 0
}

func countElseStmts(e ast.ElseBranch) int {
	switch n := e.(type) {
	case *ast.If:
		return 1 + countStmts(n.Then.Stmts) + countElseStmts(n.Else)
	case *ast.Block:
		return countStmts(n.Stmts)
	}
	return 0
}

// checkPointerDepth flags chained deref()/at() access paths deeper than
// maxPointerDepth (e.g. deref(deref(deref(deref(p))))), a readability and
// aliasing-risk signal grouped under "pointer depth".
func (a *analyzer) checkPointerDepth(d *ast.FnDecl) {
	walkStmts(d.Body.Stmts, func(e ast.Expr) {
		if depth := derefDepth(e); depth > maxPointerDepth {
			a.report("P1002", e.Span(), "pointer-dereference chain has depth %d, exceeding the %d-level guideline", depth, maxPointerDepth)
		}
	})
}

func derefDepth(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.Deref:
		return 1 + derefDepth(n.Operand)
	case *ast.At:
		return derefDepth(n.Base)
	case *ast.Field:
		return derefDepth(n.Base)
	case *ast.Paren:
		return derefDepth(n.Inner)
	}
	return 0
}

// checkBoundedLoops flags `while` loops whose condition is not a single
// relational comparison (<, <=, >, >=, !=) -- a heuristic, not a proof, for
// "every loop must have a statically provable bound"; whether the compared
// variable is updated in the body is not checked. `for` loops are presumed
// bounded by
// convention (init/cond/step shape) and are not flagged.
func (a *analyzer) checkBoundedLoops(d *ast.FnDecl) {
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *ast.While:
				if !looksBounded(n.Cond) {
					a.report("P1003", n.Sp, "while loop condition is not an obviously bounded comparison")
				}
				walk(n.Body.Stmts)
			case *ast.Block:
				walk(n.Stmts)
			case *ast.If:
				walk(n.Then.Stmts)
				walkElse(n.Else, walk)
			case *ast.IfLet:
				walk(n.Then.Stmts)
				walkElse(n.Else, walk)
			case *ast.For:
				walk(n.Body.Stmts)
			case *ast.Switch:
				for _, cs := range n.Cases {
					walk(cs.Stmts)
				}
				walk(n.Default)
			case *ast.Defer:
				walk(n.Body.Stmts)
			case *ast.Unsafe:
				walk(n.Body.Stmts)
			}
		}
	}
	walk(d.Body.Stmts)
}

func walkElse(e ast.ElseBranch, walk func([]ast.Stmt)) {
	switch n := e.(type) {
	case *ast.If:
		walk(n.Then.Stmts)
		walkElse(n.Else, walk)
	case *ast.Block:
		walk(n.Stmts)
	}
}

func looksBounded(cond ast.Expr) bool {
	b, ok := cond.(*ast.Binary)
	if !ok {
		return false
	}
	switch b.Op {
	case ast.LtOp, ast.LeOp, ast.GtOp, ast.GeOp, ast.NeOp:
		return true
	}
	return false
}

// walkStmts invokes visit on every expression reachable from stmts,
// including nested block bodies.
func walkStmts(stmts []ast.Stmt, visit func(ast.Expr)) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.Let:
			if n.Init != nil {
				visit(n.Init)
			}
		case *ast.Assign:
			visit(n.Target)
			visit(n.Value)
		case *ast.If:
			visit(n.Cond)
			walkStmts(n.Then.Stmts, visit)
			walkElseExprs(n.Else, visit)
		case *ast.IfLet:
			visit(n.Value)
			walkStmts(n.Then.Stmts, visit)
			walkElseExprs(n.Else, visit)
		case *ast.While:
			visit(n.Cond)
			walkStmts(n.Body.Stmts, visit)
		case *ast.For:
			if n.Init != nil {
				walkStmts([]ast.Stmt{n.Init.(ast.Stmt)}, visit)
			}
			if n.Cond != nil {
				visit(n.Cond)
			}
			if n.Step != nil {
				walkStmts([]ast.Stmt{n.Step.(ast.Stmt)}, visit)
			}
			walkStmts(n.Body.Stmts, visit)
		case *ast.Switch:
			visit(n.Scrutinee)
			for _, cs := range n.Cases {
				walkStmts(cs.Stmts, visit)
			}
			walkStmts(n.Default, visit)
		case *ast.Return:
			if n.Value != nil {
				visit(n.Value)
			}
		case *ast.Defer:
			walkStmts(n.Body.Stmts, visit)
		case *ast.Unsafe:
			walkStmts(n.Body.Stmts, visit)
		case *ast.Discard:
			visit(n.Value)
		case *ast.ExprStmt:
			visit(n.Value)
		case *ast.Block:
			walkStmts(n.Stmts, visit)
		}
	}
}

func walkElseExprs(e ast.ElseBranch, visit func(ast.Expr)) {
	switch n := e.(type) {
	case *ast.If:
		visit(n.Cond)
		walkStmts(n.Then.Stmts, visit)
		walkElseExprs(n.Else, visit)
	case *ast.Block:
		walkStmts(n.Stmts, visit)
	}
}
