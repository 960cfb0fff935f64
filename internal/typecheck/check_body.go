package typecheck

import (
	"fastc/internal/ast"
	"fastc/internal/types"
)

// checkPass type-checks every function body in declaration order. Struct,
// enum, opaque, and const types were already fully resolved by
// declarePass, so forward calls between functions type-check regardless of
// source order.
func (c *Checker) checkPass() {
	for _, item := range c.file.Items {
		if d, ok := item.(*ast.FnDecl); ok && d.Body != nil {
			c.checkFn(d)
		}
		if mod, ok := item.(*ast.ModDecl); ok {
			for _, it := range mod.Body {
				if d, ok := it.(*ast.FnDecl); ok && d.Body != nil {
					c.checkFn(d)
				}
			}
		}
	}
}

func (c *Checker) checkFn(d *ast.FnDecl) {
	c.borrow = NewBorrowChecker()
	c.paramNames = make(map[string]bool)
	c.letInits = make(map[string]ast.Expr)
	c.pushScope()
	defer c.popScope()

	sig := c.funcs[d.Name]
	c.currentReturn = sig.Return
	if d.Unsafe {
		c.safety.EnterUnsafe()
		defer c.safety.ExitUnsafe()
	}
	for i, p := range d.Params {
		c.defineVar(p.Name, sig.Params[i])
		c.paramNames[p.Name] = true
	}
	for _, s := range d.Body.Stmts {
		c.checkStmt(s)
	}
}

// --- local variable environment -------------------------------------------
//
// The resolver's symtab stores syntactic (ast.TypeExpr) types for its own
// purposes; the checker keeps a parallel stack of resolved types.Type so it
// never has to re-resolve a type expression mid-body.

func (c *Checker) pushScope() {
	c.envs = append(c.envs, map[string]types.Type{})
	c.borrow.EnterRegion()
}

func (c *Checker) popScope() {
	c.envs = c.envs[:len(c.envs)-1]
	c.borrow.ExitRegion()
}

func (c *Checker) defineVar(name string, t types.Type) {
	c.envs[len(c.envs)-1][name] = t
}

func (c *Checker) lookupVar(name string) (types.Type, bool) {
	for i := len(c.envs) - 1; i >= 0; i-- {
		if t, ok := c.envs[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// --- statements -------------------------------------------------------------

func (c *Checker) checkBlock(b *ast.Block) {
	c.pushScope()
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
	c.popScope()
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		c.checkBlock(n)
	case *ast.Let:
		c.checkLet(n)
	case *ast.Assign:
		c.checkAssign(n)
	case *ast.If:
		c.checkIf(n)
	case *ast.IfLet:
		c.checkIfLet(n)
	case *ast.While:
		c.inferExpr(n.Cond, types.Bool)
		c.loopDepth++
		c.checkBlock(n.Body)
		c.loopDepth--
	case *ast.For:
		c.pushScope()
		c.checkForInit(n.Init)
		if n.Cond != nil {
			c.inferExpr(n.Cond, types.Bool)
		}
		c.checkForStep(n.Step)
		c.loopDepth++
		c.checkBlock(n.Body)
		c.loopDepth--
		c.popScope()
	case *ast.Switch:
		c.checkSwitch(n)
	case *ast.Return:
		c.checkReturn(n)
	case *ast.Break:
		if c.loopDepth == 0 {
			c.diags.Errorf("E0330", n.Sp, "break outside of a loop")
		}
	case *ast.Continue:
		if c.loopDepth == 0 {
			c.diags.Errorf("E0331", n.Sp, "continue outside of a loop")
		}
	case *ast.Defer:
		c.checkBlock(n.Body)
	case *ast.Unsafe:
		c.safety.EnterUnsafe()
		c.checkBlock(n.Body)
		c.safety.ExitUnsafe()
	case *ast.Discard:
		c.inferExpr(n.Value, nil)
	case *ast.ExprStmt:
		c.inferExpr(n.Value, nil)
	}
}

func (c *Checker) checkLet(n *ast.Let) {
	var declared types.Type
	if n.Type != nil {
		declared = c.resolveTypeExpr(n.Type)
	}
	var initType types.Type
	if n.Init != nil {
		initType = c.inferExpr(n.Init, declared)
	}
	switch {
	case declared != nil && initType != nil:
		if !types.Equal(declared, initType) {
			c.diags.Errorf("E0340", n.Sp, "cannot initialize '%s' of type %s with a value of type %s", n.Name, declared.String(), initType.String())
		}
		c.defineVar(n.Name, declared)
	case declared != nil:
		c.defineVar(n.Name, declared)
	case initType != nil:
		c.defineVar(n.Name, initType)
	default:
		c.diags.Errorf("E0341", n.Sp, "cannot infer type of '%s' without a type annotation or initializer", n.Name)
	}
	if n.Init != nil {
		c.letInits[n.Name] = n.Init
	}
}

func (c *Checker) checkAssign(n *ast.Assign) {
	targetType := c.inferExpr(n.Target, nil)
	valueType := c.inferExpr(n.Value, targetType)
	if targetType != nil && valueType != nil && !types.Equal(targetType, valueType) {
		c.diags.Errorf("E0342", n.Sp, "cannot assign a value of type %s to a target of type %s", valueType.String(), targetType.String())
	}
	if id, ok := n.Target.(*ast.Ident); ok {
		c.checkMutableTarget(id)
	}
}

// checkMutableTarget flags assignment through a shared (`ref`) borrow as a
// borrow-checker violation: spec.md §4.4.3 permits mutation of a binding
// only when it is unborrowed or uniquely (`mref`) borrowed by the access
// path itself, never while shared refs are live.
func (c *Checker) checkMutableTarget(id *ast.Ident) {
	if e, ok := c.borrow.bindings[id.Name]; ok && e.state == Shared {
		c.diags.Errorf("E0350", id.Sp, "cannot assign to '%s' while it is borrowed by a live ref", id.Name)
	}
}

func (c *Checker) checkIf(n *ast.If) {
	c.inferExpr(n.Cond, types.Bool)
	c.checkBlock(n.Then)
	c.checkElse(n.Else)
}

func (c *Checker) checkElse(e ast.ElseBranch) {
	switch n := e.(type) {
	case nil:
	case *ast.If:
		c.checkIf(n)
	case *ast.Block:
		c.checkBlock(n)
	}
}

// checkIfLet type-checks `if let name = unwrap_checked(expr) { ... } else
// { ... }`: Value must be opt(T) or res(T,E), and name is bound to T only
// within Then.
func (c *Checker) checkIfLet(n *ast.IfLet) {
	vt := c.inferExpr(n.Value, nil)
	var bound types.Type = types.Void
	switch t := vt.(type) {
	case *types.Opt:
		bound = t.Inner
	case *types.Res:
		bound = t.Ok
	default:
		if vt != nil {
			c.diags.Errorf("E0360", n.Sp, "if let requires an opt(..) or res(..) value, got %s", vt.String())
		}
	}
	c.pushScope()
	c.defineVar(n.Name, bound)
	for _, s := range n.Then.Stmts {
		c.checkStmt(s)
	}
	c.popScope()
	c.checkElse(n.Else)
}

func (c *Checker) checkForInit(init ast.ForInit) {
	switch n := init.(type) {
	case nil:
	case *ast.Let:
		c.checkLet(n)
	case *ast.Assign:
		c.checkAssign(n)
	case *ast.ExprStmt:
		c.inferExpr(n.Value, nil)
	}
}

func (c *Checker) checkForStep(step ast.ForStep) {
	switch n := step.(type) {
	case nil:
	case *ast.Assign:
		c.checkAssign(n)
	case *ast.ExprStmt:
		c.inferExpr(n.Value, nil)
	}
}

func (c *Checker) checkReturn(n *ast.Return) {
	if n.Value == nil {
		if c.currentReturn != nil && !types.Equal(c.currentReturn, types.Void) {
			c.diags.Errorf("E0370", n.Sp, "missing return value, function returns %s", c.currentReturn.String())
		}
		return
	}
	vt := c.inferExpr(n.Value, c.currentReturn)
	if vt != nil && c.currentReturn != nil && !types.Equal(vt, c.currentReturn) {
		c.diags.Errorf("E0371", n.Sp, "returning %s, function returns %s", vt.String(), c.currentReturn.String())
	}
	c.checkReturnedBorrow(n.Value)
}

// checkReturnedBorrow enforces spec.md §4.4.3's rule that a returned
// reference must be syntactically traceable to an input parameter: a
// ref/mref of anything other than (possibly through field/index access on,
// or threaded through intervening let-bindings and parens) a parameter is
// rejected.
func (c *Checker) checkReturnedBorrow(e ast.Expr) {
	addr, ok := c.resolveAddr(e, map[string]bool{})
	if !ok {
		return
	}
	root := rootIdent(addr.Operand)
	if root == "" {
		return
	}
	if !c.paramNames[root] {
		c.diags.Errorf("E0351", addr.Sp, "cannot return a reference to local '%s': not traceable to a parameter", root)
	}
}

// resolveAddr follows e through parens and let-bindings back to the
// addr(...) call that actually produced the borrow, if any. A reference
// threaded through `let r = addr(x); return r;` is checked the same as a
// direct `return addr(x);`. seen guards against revisiting a name already
// on the chain.
func (c *Checker) resolveAddr(e ast.Expr, seen map[string]bool) (*ast.Addr, bool) {
	switch n := e.(type) {
	case *ast.Addr:
		return n, true
	case *ast.Paren:
		return c.resolveAddr(n.Inner, seen)
	case *ast.Ident:
		if seen[n.Name] {
			return nil, false
		}
		init, ok := c.letInits[n.Name]
		if !ok {
			return nil, false
		}
		seen[n.Name] = true
		return c.resolveAddr(init, seen)
	}
	return nil, false
}

func rootIdent(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.Field:
		return rootIdent(n.Base)
	case *ast.At:
		return rootIdent(n.Base)
	case *ast.Deref:
		return rootIdent(n.Operand)
	case *ast.Paren:
		return rootIdent(n.Inner)
	}
	return ""
}
