package lower

import (
	"fastc/internal/ast"
	"fastc/internal/cast"
	"fastc/internal/types"
)

var binOpMap = map[ast.BinOp]cast.BinOp{
	ast.Add: cast.Add, ast.Sub: cast.Sub, ast.Mul: cast.Mul, ast.Div: cast.Div, ast.Rem: cast.Rem,
	ast.EqOp: cast.Eq, ast.NeOp: cast.Ne, ast.LtOp: cast.Lt, ast.LeOp: cast.Le, ast.GtOp: cast.Gt, ast.GeOp: cast.Ge,
	ast.LAnd: cast.LAnd, ast.LOr: cast.LOr,
	ast.BAnd: cast.BAnd, ast.BOr: cast.BOr, ast.BXor: cast.BXor, ast.Shl: cast.Shl, ast.Shr: cast.Shr,
}

// lowerBinary lowers a single binary operation, inserting the runtime traps
// spec.md §4.4.4/§4.5 require for checked signed integer arithmetic
// (add/sub/mul via __builtin_*_overflow; unsigned arithmetic wraps and is
// left unchecked), division/remainder by zero, and out-of-range shift
// amounts. Each trap is emitted as hoisted statements ahead of the
// enclosing statement so the checked value itself can still be used inline
// in the surrounding expression.
func (l *Lowerer) lowerBinary(n *ast.Binary) cast.Expr {
	lhs := l.lowerExpr(n.Left)
	rhs := l.lowerExpr(n.Right)
	resultType := l.info.ExprTypes[n]
	prim, isPrim := resultType.(types.Prim)

	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul:
		// Unsigned arithmetic wraps by definition (spec.md §4.4.4) and gets
		// no overflow trap; only signed add/sub/mul is checked.
		if isPrim && prim.IsInteger() && prim.IsSigned() {
			lhs = l.hoistTemp(&l.fn.pre, lhs, l.lowerType(prim))
			rhs = l.hoistTemp(&l.fn.pre, rhs, l.lowerType(prim))
			return l.checkedArith(n.Op, lhs, rhs, prim)
		}
	case ast.Div, ast.Rem:
		if isPrim && prim.IsInteger() {
			rhs = l.hoistTemp(&l.fn.pre, rhs, l.lowerType(prim))
			l.fn.pre = append(l.fn.pre, &cast.If{
				Cond: &cast.Binary{Op: cast.Eq, Lhs: rhs, Rhs: &cast.IntLit{Value: "0"}},
				Then: []cast.Stmt{l.trapStmt("division by zero")},
			})
		}
	case ast.Shl, ast.Shr:
		if isPrim {
			rhs = l.hoistTemp(&l.fn.pre, rhs, l.lowerType(prim))
			// spec.md requires the shift count to fall within [0, width):
			// both bounds are checked, not just the upper one.
			if rhsPrim, ok := l.info.ExprTypes[n.Right].(types.Prim); ok && rhsPrim.IsSigned() {
				l.fn.pre = append(l.fn.pre, &cast.If{
					Cond: &cast.Binary{Op: cast.Lt, Lhs: rhs, Rhs: &cast.IntLit{Value: "0"}},
					Then: []cast.Stmt{l.trapStmt("shift amount out of range")},
				})
			}
			if width := prim.Width(); width > 0 {
				l.fn.pre = append(l.fn.pre, &cast.If{
					Cond: &cast.Binary{Op: cast.Ge, Lhs: rhs, Rhs: &cast.IntLit{Value: intLiteral(int64(width))}},
					Then: []cast.Stmt{l.trapStmt("shift amount out of range")},
				})
			}
		}
	}
	return &cast.Binary{Op: binOpMap[n.Op], Lhs: lhs, Rhs: rhs}
}

func (l *Lowerer) checkedArith(op ast.BinOp, lhs, rhs cast.Expr, prim types.Prim) cast.Expr {
	var name string
	switch op {
	case ast.Add:
		name = "__builtin_add_overflow"
	case ast.Sub:
		name = "__builtin_sub_overflow"
	default:
		name = "__builtin_mul_overflow"
	}
	tmp := l.newTemp()
	l.fn.pre = append(l.fn.pre, &cast.VarDecl{Name: tmp, Type: l.lowerType(prim)})
	call := &cast.Call{Func: &cast.Ident{Name: name}, Args: []cast.Expr{lhs, rhs, &cast.AddrOf{Operand: &cast.Ident{Name: tmp}}}}
	l.fn.pre = append(l.fn.pre, &cast.If{Cond: call, Then: []cast.Stmt{l.trapStmt("integer overflow")}})
	return &cast.Ident{Name: tmp}
}

func (l *Lowerer) trapStmt(msg string) cast.Stmt {
	return &cast.ExprStmt{Value: &cast.Call{Func: &cast.Ident{Name: "fc_trap"}, Args: []cast.Expr{&cast.StringLit{Value: msg}}}}
}

var unaryOpMap = map[ast.UnaryOp]cast.UnaryOp{
	ast.Neg: cast.Neg, ast.Not: cast.Not, ast.BitNot: cast.BitNot,
}

func (l *Lowerer) lowerUnary(n *ast.Unary) cast.Expr {
	operand := l.lowerExpr(n.Operand)
	return &cast.Unary{Op: unaryOpMap[n.Op], Operand: operand}
}
