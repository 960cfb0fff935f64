package typecheck

import (
	"fastc/internal/ast"
	"fastc/internal/types"
)

// inferBuiltin types the extended call-form surface (spec.md §3's
// optional/result/raw-pointer vocabulary). These are recognized
// syntactically by the parser, not resolved as ordinary function calls,
// since none of them name a real FastC function.
func (c *Checker) inferBuiltin(n *ast.Builtin) types.Type {
	arg := func(i int) ast.Expr {
		if i < len(n.Args) {
			return n.Args[i]
		}
		return nil
	}
	switch n.Name {
	case "is_some", "is_none":
		t := c.inferExpr(arg(0), nil)
		c.requireOpt(n, t)
		return types.Bool

	case "is_ok", "is_err":
		t := c.inferExpr(arg(0), nil)
		c.requireRes(n, t)
		return types.Bool

	case "unwrap", "unwrap_checked":
		t := c.inferExpr(arg(0), nil)
		if o, ok := t.(*types.Opt); ok {
			return o.Inner
		}
		if r, ok := t.(*types.Res); ok {
			return r.Ok
		}
		c.requireOptOrRes(n, t)
		return nil

	case "unwrap_err":
		t := c.inferExpr(arg(0), nil)
		if r, ok := t.(*types.Res); ok {
			return r.Err
		}
		c.requireRes(n, t)
		return nil

	case "unwrap_or":
		t := c.inferExpr(arg(0), nil)
		var inner types.Type
		switch v := t.(type) {
		case *types.Opt:
			inner = v.Inner
		case *types.Res:
			inner = v.Ok
		default:
			c.requireOptOrRes(n, t)
		}
		dt := c.inferExpr(arg(1), inner)
		if inner != nil && dt != nil && !types.Equal(inner, dt) {
			c.diags.Errorf("E0480", n.Sp, "unwrap_or default has type %s, expected %s", dt.String(), inner.String())
		}
		return inner

	case "to_raw", "to_rawm":
		t := c.inferExpr(arg(0), nil)
		mutable := n.Name == "to_rawm"
		switch v := t.(type) {
		case *types.Ref:
			return &types.RawPtr{Mutable: mutable, Inner: v.Inner}
		case *types.Own:
			return &types.RawPtr{Mutable: mutable, Inner: v.Inner}
		}
		if t != nil {
			c.diags.Errorf("E0481", n.Sp, "%s requires a ref/mref/own operand, got %s", n.Name, t.String())
		}
		return nil

	case "from_raw", "from_rawm", "from_raw_unchecked", "from_rawm_unchecked":
		t := c.inferExpr(arg(0), nil)
		if !c.safety.IsUnsafe() {
			c.diags.Errorf("E0482", n.Sp, "%s requires an unsafe context", n.Name)
		}
		v, ok := t.(*types.RawPtr)
		if !ok {
			if t != nil {
				c.diags.Errorf("E0483", n.Sp, "%s requires a raw pointer operand, got %s", n.Name, t.String())
			}
			return nil
		}
		mutable := n.Name == "from_rawm" || n.Name == "from_rawm_unchecked"
		return &types.Ref{Mutable: mutable, Inner: v.Inner}

	case "len":
		t := c.inferExpr(arg(0), nil)
		switch t.(type) {
		case *types.Slice, *types.Array:
			return types.USize
		}
		if t != nil {
			c.diags.Errorf("E0484", n.Sp, "len requires a slice or array operand, got %s", t.String())
		}
		return types.USize
	}
	return nil
}

func (c *Checker) requireOpt(n *ast.Builtin, t types.Type) {
	if t == nil {
		return
	}
	if _, ok := t.(*types.Opt); !ok {
		c.diags.Errorf("E0485", n.Sp, "%s requires an opt(..) operand, got %s", n.Name, t.String())
	}
}

func (c *Checker) requireRes(n *ast.Builtin, t types.Type) {
	if t == nil {
		return
	}
	if _, ok := t.(*types.Res); !ok {
		c.diags.Errorf("E0486", n.Sp, "%s requires a res(..) operand, got %s", n.Name, t.String())
	}
}

func (c *Checker) requireOptOrRes(n *ast.Builtin, t types.Type) {
	if t == nil {
		return
	}
	switch t.(type) {
	case *types.Opt, *types.Res:
		return
	}
	c.diags.Errorf("E0487", n.Sp, "%s requires an opt(..) or res(..) operand, got %s", n.Name, t.String())
}
