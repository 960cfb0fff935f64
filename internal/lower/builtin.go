package lower

import (
	"fastc/internal/ast"
	"fastc/internal/cast"
	"fastc/internal/types"
)

// lowerBuiltin expands the extended builtin call forms (spec.md §3/§4.4.5)
// into direct field access on the synthesized opt/res representations, or
// into the corresponding pointer cast for the raw-pointer conversion
// family. unwrap is preceded by a trap when the value is absent (or err),
// and from_raw/from_rawm by a trap when the pointer is null; unwrap_checked,
// unwrap_err and the _unchecked conversions read the value with no runtime
// check.
func (l *Lowerer) lowerBuiltin(n *ast.Builtin) cast.Expr {
	arg := func(i int) cast.Expr { return l.lowerExpr(n.Args[i]) }
	argType := func(i int) types.Type { return l.info.ExprTypes[n.Args[i]] }

	switch n.Name {
	case "is_some":
		return &cast.FieldExpr{Base: arg(0), Field: "present"}
	case "is_none":
		return &cast.Unary{Op: cast.Not, Operand: &cast.FieldExpr{Base: arg(0), Field: "present"}}
	case "is_ok":
		return &cast.FieldExpr{Base: arg(0), Field: "is_ok"}
	case "is_err":
		return &cast.Unary{Op: cast.Not, Operand: &cast.FieldExpr{Base: arg(0), Field: "is_ok"}}

	case "unwrap", "unwrap_checked":
		v := arg(0)
		if n.Name == "unwrap" {
			v = l.hoistTemp(&l.fn.pre, v, l.lowerType(argType(0)))
			var present cast.Expr = &cast.FieldExpr{Base: v, Field: "present"}
			if _, isRes := argType(0).(*types.Res); isRes {
				present = &cast.FieldExpr{Base: v, Field: "is_ok"}
			}
			l.fn.pre = append(l.fn.pre, &cast.If{Cond: &cast.Unary{Op: cast.Not, Operand: present}, Then: []cast.Stmt{l.trapStmt("unwrap of absent value")}})
		}
		switch argType(0).(type) {
		case *types.Res:
			return &cast.FieldExpr{Base: &cast.FieldExpr{Base: v, Field: "payload"}, Field: "ok_value"}
		default:
			return &cast.FieldExpr{Base: v, Field: "value"}
		}

	case "unwrap_err":
		v := arg(0)
		return &cast.FieldExpr{Base: &cast.FieldExpr{Base: v, Field: "payload"}, Field: "err_value"}

	case "unwrap_or":
		v := l.hoistTemp(&l.fn.pre, arg(0), l.lowerType(argType(0)))
		def := arg(1)
		switch t := argType(0).(type) {
		case *types.Res:
			return &cast.Ternary{
				Cond: &cast.FieldExpr{Base: v, Field: "is_ok"},
				Then: &cast.FieldExpr{Base: &cast.FieldExpr{Base: v, Field: "payload"}, Field: "ok_value"},
				Else: def,
			}
		case *types.Opt:
			_ = t
			return &cast.Ternary{
				Cond: &cast.FieldExpr{Base: v, Field: "present"},
				Then: &cast.FieldExpr{Base: v, Field: "value"},
				Else: def,
			}
		}
		return def

	case "to_raw", "to_rawm":
		return &cast.CastExpr{Type: l.lowerType(l.info.ExprTypes[n]), Expr: arg(0)}

	case "from_raw", "from_rawm", "from_raw_unchecked", "from_rawm_unchecked":
		v := arg(0)
		if n.Name == "from_raw" || n.Name == "from_rawm" {
			v = l.hoistTemp(&l.fn.pre, v, l.lowerType(argType(0)))
			l.fn.pre = append(l.fn.pre, &cast.If{Cond: &cast.Binary{Op: cast.Eq, Lhs: v, Rhs: &cast.IntLit{Value: "0"}}, Then: []cast.Stmt{l.trapStmt("null pointer")}})
		}
		return &cast.CastExpr{Type: l.lowerType(l.info.ExprTypes[n]), Expr: v}

	case "len":
		switch t := argType(0).(type) {
		case *types.Array:
			return &cast.IntLit{Value: uintLiteral(t.N)}
		default:
			return &cast.FieldExpr{Base: arg(0), Field: "len"}
		}
	}
	return &cast.IntLit{Value: "0"}
}
