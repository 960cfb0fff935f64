package typecheck

import (
	"fastc/internal/ast"
	"fastc/internal/types"
)

// inferExpr infers e's type, recording it into c.exprTypes and the current
// safety context into c.unsafeAt for internal/lower's later use. expected,
// when non-nil, is the type context propagated from the enclosing
// let/return/call-argument/struct-field position -- used to type integer
// and float literals, and to resolve the otherwise-unconstrained payload
// type of some(...)/ok(...)/err(...), improving on the reference
// implementation's unconditional Void placeholder for the latter.
func (c *Checker) inferExpr(e ast.Expr, expected types.Type) types.Type {
	t := c.inferExprUncached(e, expected)
	c.exprTypes[e] = t
	c.unsafeAt[e] = c.safety.IsUnsafe()
	return t
}

func (c *Checker) inferExprUncached(e ast.Expr, expected types.Type) types.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		if p, ok := expected.(types.Prim); ok && p.IsInteger() {
			return p
		}
		return types.I32

	case *ast.FloatLit:
		if p, ok := expected.(types.Prim); ok && p.IsFloat() {
			return p
		}
		return types.F64

	case *ast.BoolLit:
		return types.Bool

	case *ast.Ident:
		return c.inferIdent(n)

	case *ast.CStrLit:
		return &types.RawPtr{Inner: types.U8}

	case *ast.BytesLit:
		return &types.Slice{Inner: types.U8}

	case *ast.Binary:
		return c.inferBinary(n)

	case *ast.Unary:
		return c.inferUnary(n)

	case *ast.Paren:
		return c.inferExpr(n.Inner, expected)

	case *ast.Call:
		return c.inferCall(n)

	case *ast.Field:
		return c.inferField(n)

	case *ast.Addr:
		return c.inferAddr(n)

	case *ast.Deref:
		return c.inferDeref(n)

	case *ast.At:
		return c.inferAt(n)

	case *ast.Cast:
		return c.inferCast(n)

	case *ast.NoneLit:
		return &types.Opt{Inner: c.resolveTypeExpr(n.Inner)}

	case *ast.SomeLit:
		inner := expected
		if o, ok := expected.(*types.Opt); ok {
			inner = o.Inner
		} else {
			inner = nil
		}
		vt := c.inferExpr(n.Value, inner)
		return &types.Opt{Inner: vt}

	case *ast.OkLit:
		var okExpected, errExpected types.Type
		if r, ok := expected.(*types.Res); ok {
			okExpected, errExpected = r.Ok, r.Err
		}
		vt := c.inferExpr(n.Value, okExpected)
		if errExpected == nil {
			errExpected = types.Void
		}
		return &types.Res{Ok: vt, Err: errExpected}

	case *ast.ErrLit:
		var okExpected, errExpected types.Type
		if r, ok := expected.(*types.Res); ok {
			okExpected, errExpected = r.Ok, r.Err
		}
		vt := c.inferExpr(n.Value, errExpected)
		if okExpected == nil {
			okExpected = types.Void
		}
		return &types.Res{Ok: okExpected, Err: vt}

	case *ast.Builtin:
		return c.inferBuiltin(n)

	case *ast.StructLit:
		return c.inferStructLit(n)
	}
	return nil
}

func (c *Checker) inferIdent(n *ast.Ident) types.Type {
	if t, ok := c.lookupVar(n.Name); ok {
		return t
	}
	if cv, ok := c.consts[n.Name]; ok {
		return cv.Type
	}
	if ref, ok := c.enumVariantOrdinal[n.Name]; ok {
		return ref.enum
	}
	if f, ok := c.funcs[n.Name]; ok {
		return f
	}
	c.diags.Errorf("E0390", n.Sp, "undefined name '%s'", n.Name)
	return nil
}

func (c *Checker) inferBinary(n *ast.Binary) types.Type {
	lt := c.inferExpr(n.Left, nil)
	rt := c.inferExpr(n.Right, lt)
	if lt == nil || rt == nil {
		return nil
	}
	switch n.Op {
	case ast.LAnd, ast.LOr:
		if !types.IsBool(lt) || !types.IsBool(rt) {
			c.diags.Errorf("E0400", n.Sp, "logical operator requires bool operands")
		}
		return types.Bool
	case ast.EqOp, ast.NeOp:
		if !types.Equal(lt, rt) {
			c.diags.Errorf("E0401", n.Sp, "cannot compare %s with %s", lt.String(), rt.String())
		}
		return types.Bool
	case ast.LtOp, ast.LeOp, ast.GtOp, ast.GeOp:
		if !types.IsNumeric(lt) || !types.Equal(lt, rt) {
			c.diags.Errorf("E0402", n.Sp, "ordering comparison requires matching numeric operands, got %s and %s", lt.String(), rt.String())
		}
		return types.Bool
	case ast.BAnd, ast.BOr, ast.BXor, ast.Shl, ast.Shr:
		if !types.IsInteger(lt) {
			c.diags.Errorf("E0403", n.Sp, "bitwise operator requires integer operands, got %s", lt.String())
		}
		if (n.Op == ast.BAnd || n.Op == ast.BOr || n.Op == ast.BXor) && !types.Equal(lt, rt) {
			c.diags.Errorf("E0404", n.Sp, "bitwise operator operands must have the same type, got %s and %s", lt.String(), rt.String())
		}
		return lt
	default: // Add, Sub, Mul, Div, Rem
		if !types.IsNumeric(lt) || !types.Equal(lt, rt) {
			c.diags.Errorf("E0405", n.Sp, "arithmetic operator requires matching numeric operands, got %s and %s", lt.String(), rt.String())
		}
		return lt
	}
}

func (c *Checker) inferUnary(n *ast.Unary) types.Type {
	t := c.inferExpr(n.Operand, nil)
	if t == nil {
		return nil
	}
	switch n.Op {
	case ast.Neg:
		if !types.IsNumeric(t) {
			c.diags.Errorf("E0410", n.Sp, "unary '-' requires a numeric operand, got %s", t.String())
		}
		return t
	case ast.Not:
		if !types.IsBool(t) {
			c.diags.Errorf("E0411", n.Sp, "unary '!' requires a bool operand, got %s", t.String())
		}
		return types.Bool
	case ast.BitNot:
		if !types.IsInteger(t) {
			c.diags.Errorf("E0412", n.Sp, "unary '~' requires an integer operand, got %s", t.String())
		}
		return t
	}
	return nil
}

func (c *Checker) inferCall(n *ast.Call) types.Type {
	callee, ok := n.Callee.(*ast.Ident)
	if !ok {
		c.diags.Errorf("E0420", n.Sp, "call target must be a named function")
		return nil
	}
	sig, ok := c.funcs[callee.Name]
	if !ok {
		c.diags.Errorf("E0421", callee.Sp, "undefined function '%s'", callee.Name)
		return nil
	}
	c.exprTypes[callee] = sig
	if sig.Unsafe && !c.safety.IsUnsafe() {
		c.diags.Errorf("E0422", n.Sp, "call to unsafe function '%s' requires an unsafe context", callee.Name)
	}
	if len(n.Args) != len(sig.Params) {
		c.diags.Errorf("E0423", n.Sp, "'%s' expects %d argument(s), got %d", callee.Name, len(sig.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		var want types.Type
		if i < len(sig.Params) {
			want = sig.Params[i]
		}
		at := c.inferExpr(arg, want)
		if want != nil && at != nil && !types.Equal(at, want) {
			c.diags.Errorf("E0424", arg.Span(), "argument %d to '%s' has type %s, expected %s", i+1, callee.Name, at.String(), want.String())
		}
	}
	return sig.Return
}

func (c *Checker) inferField(n *ast.Field) types.Type {
	bt := c.inferExpr(n.Base, nil)
	s := derefToStruct(bt)
	if s == nil {
		if bt != nil {
			c.diags.Errorf("E0430", n.Sp, "%s has no fields", bt.String())
		}
		return nil
	}
	ft := s.FieldType(n.Name)
	if ft == nil {
		c.diags.Errorf("E0431", n.Sp, "%s has no field '%s'", s.Name, n.Name)
		return nil
	}
	return ft
}

func derefToStruct(t types.Type) *types.Struct {
	switch v := t.(type) {
	case *types.Struct:
		return v
	case *types.Ref:
		return derefToStruct(v.Inner)
	case *types.RawPtr:
		return derefToStruct(v.Inner)
	case *types.Own:
		return derefToStruct(v.Inner)
	}
	return nil
}

func (c *Checker) inferAddr(n *ast.Addr) types.Type {
	t := c.inferExpr(n.Operand, nil)
	if root := rootIdent(n.Operand); root != "" {
		if id, isIdent := n.Operand.(*ast.Ident); isIdent && id.Name == root {
			var ok bool
			var msg string
			if n.Mutable {
				ok, msg = c.borrow.TakeMref(root)
			} else {
				ok, msg = c.borrow.TakeRef(root)
			}
			if !ok {
				c.diags.Errorf("E0352", n.Sp, "%s", msg)
			}
		}
	}
	if t == nil {
		return nil
	}
	return &types.Ref{Mutable: n.Mutable, Inner: t}
}

func (c *Checker) inferDeref(n *ast.Deref) types.Type {
	t := c.inferExpr(n.Operand, nil)
	switch v := t.(type) {
	case *types.Ref:
		return v.Inner
	case *types.RawPtr:
		if !c.safety.IsUnsafe() {
			c.diags.Errorf("E0440", n.Sp, "dereferencing a raw pointer requires an unsafe context")
		}
		return v.Inner
	}
	if t != nil {
		c.diags.Errorf("E0441", n.Sp, "cannot dereference %s", t.String())
	}
	return nil
}

func (c *Checker) inferAt(n *ast.At) types.Type {
	bt := c.inferExpr(n.Base, nil)
	it := c.inferExpr(n.Index, types.USize)
	if it != nil && !types.IsInteger(it) {
		c.diags.Errorf("E0450", n.Index.Span(), "index must be an integer, got %s", it.String())
	}
	switch v := bt.(type) {
	case *types.Slice:
		return v.Inner
	case *types.Array:
		return v.Inner
	case *types.RawPtr:
		if !c.safety.IsUnsafe() {
			c.diags.Errorf("E0451", n.Sp, "indexing a raw pointer requires an unsafe context")
		}
		return v.Inner
	}
	if bt != nil {
		c.diags.Errorf("E0452", n.Sp, "cannot index %s", bt.String())
	}
	return nil
}

func (c *Checker) inferCast(n *ast.Cast) types.Type {
	target := c.resolveTypeExpr(n.Target)
	from := c.inferExpr(n.Operand, nil)
	if from == nil {
		return target
	}
	if !types.CanCast(from, target) {
		c.diags.Errorf("E0460", n.Sp, "cannot cast %s to %s", from.String(), target.String())
		return target
	}
	if types.RequiresUnsafeCast(from, target) && !c.safety.IsUnsafe() {
		c.diags.Errorf("E0461", n.Sp, "casting %s to %s requires an unsafe context", from.String(), target.String())
	}
	return target
}

func (c *Checker) inferStructLit(n *ast.StructLit) types.Type {
	s, ok := c.structs[n.Name]
	if !ok {
		c.diags.Errorf("E0470", n.Sp, "unknown struct '%s'", n.Name)
		return nil
	}
	seen := make(map[string]bool)
	for _, fi := range n.Fields {
		ft := s.FieldType(fi.Name)
		if ft == nil {
			c.diags.Errorf("E0471", fi.Sp, "%s has no field '%s'", s.Name, fi.Name)
			continue
		}
		seen[fi.Name] = true
		vt := c.inferExpr(fi.Value, ft)
		if vt != nil && !types.Equal(vt, ft) {
			c.diags.Errorf("E0472", fi.Value.Span(), "field '%s' of %s has type %s, got %s", fi.Name, s.Name, ft.String(), vt.String())
		}
	}
	for _, f := range s.Fields {
		if !seen[f.Name] {
			c.diags.Errorf("E0473", n.Sp, "missing field '%s' in literal of %s", f.Name, s.Name)
		}
	}
	return s
}
