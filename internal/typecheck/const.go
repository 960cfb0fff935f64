package typecheck

import (
	"strconv"
	"strings"

	"fastc/internal/ast"
	"fastc/internal/types"
)

// ConstKind classifies the underlying representation of a ConstValue.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
)

// ConstValue is the result of folding a const expression (spec.md §4.4.6):
// a literal, a reference to another const or enum variant, a unary/binary
// operation over consts, or a cast -- closed over integers at evaluation
// time, with overflow checked against the statically inferred type.
type ConstValue struct {
	Kind ConstKind
	I    int64
	F    float64
	B    bool
	Type types.Type
}

// evalConst folds e, the const-expression sub-grammar the parser already
// restricts array sizes, case labels, and const initializers to (see
// internal/parser/const_expr.go). On failure it appends a diagnostic and
// returns ok=false.
func (c *Checker) evalConst(e ast.Expr) (ConstValue, bool) {
	switch n := e.(type) {
	case *ast.IntLit:
		v, err := strconv.ParseInt(strings.ReplaceAll(n.Raw, "_", ""), 0, 64)
		if err != nil {
			// literal may exceed int64 range as unsigned; fall back to
			// unsigned parse and reinterpret the bits.
			u, uerr := strconv.ParseUint(strings.ReplaceAll(n.Raw, "_", ""), 0, 64)
			if uerr != nil {
				c.diags.Errorf("E0301", n.Sp, "invalid integer literal '%s'", n.Raw)
				return ConstValue{}, false
			}
			v = int64(u)
		}
		return ConstValue{Kind: ConstInt, I: v, Type: types.I64}, true

	case *ast.FloatLit:
		v, err := strconv.ParseFloat(strings.ReplaceAll(n.Raw, "_", ""), 64)
		if err != nil {
			c.diags.Errorf("E0302", n.Sp, "invalid float literal '%s'", n.Raw)
			return ConstValue{}, false
		}
		return ConstValue{Kind: ConstFloat, F: v, Type: types.F64}, true

	case *ast.BoolLit:
		return ConstValue{Kind: ConstBool, B: n.Value, Type: types.Bool}, true

	case *ast.Ident:
		if cv, ok := c.consts[n.Name]; ok {
			return cv, true
		}
		if ev, ok := c.enumVariantOrdinal[n.Name]; ok {
			return ConstValue{Kind: ConstInt, I: int64(ev.idx), Type: ev.enum.Repr}, true
		}
		c.diags.Errorf("E0303", n.Sp, "'%s' is not a known const value", n.Name)
		return ConstValue{}, false

	case *ast.Paren:
		return c.evalConst(n.Inner)

	case *ast.Unary:
		v, ok := c.evalConst(n.Operand)
		if !ok {
			return ConstValue{}, false
		}
		return c.evalConstUnary(n, v)

	case *ast.Binary:
		l, ok1 := c.evalConst(n.Left)
		r, ok2 := c.evalConst(n.Right)
		if !ok1 || !ok2 {
			return ConstValue{}, false
		}
		return c.evalConstBinary(n, l, r)

	case *ast.Cast:
		v, ok := c.evalConst(n.Operand)
		if !ok {
			return ConstValue{}, false
		}
		target := c.resolveTypeExpr(n.Target)
		return c.evalConstCast(n, v, target)

	case *ast.CStrLit:
		return ConstValue{Kind: ConstInt, Type: &types.RawPtr{Inner: types.U8}}, true
	case *ast.BytesLit:
		return ConstValue{Kind: ConstInt, Type: &types.Slice{Inner: types.U8}}, true
	}
	c.diags.Errorf("E0304", e.Span(), "expression is not a valid const expression")
	return ConstValue{}, false
}

func (c *Checker) evalConstUnary(n *ast.Unary, v ConstValue) (ConstValue, bool) {
	switch n.Op {
	case ast.Neg:
		if v.Kind == ConstFloat {
			return ConstValue{Kind: ConstFloat, F: -v.F, Type: v.Type}, true
		}
		return ConstValue{Kind: ConstInt, I: -v.I, Type: v.Type}, true
	case ast.Not:
		return ConstValue{Kind: ConstBool, B: !v.B, Type: types.Bool}, true
	case ast.BitNot:
		return ConstValue{Kind: ConstInt, I: ^v.I, Type: v.Type}, true
	}
	return ConstValue{}, false
}

func (c *Checker) evalConstBinary(n *ast.Binary, l, r ConstValue) (ConstValue, bool) {
	if l.Kind == ConstFloat || r.Kind == ConstFloat {
		lf, rf := l.F, r.F
		if l.Kind == ConstInt {
			lf = float64(l.I)
		}
		if r.Kind == ConstInt {
			rf = float64(r.I)
		}
		switch n.Op {
		case ast.Add:
			return ConstValue{Kind: ConstFloat, F: lf + rf, Type: types.F64}, true
		case ast.Sub:
			return ConstValue{Kind: ConstFloat, F: lf - rf, Type: types.F64}, true
		case ast.Mul:
			return ConstValue{Kind: ConstFloat, F: lf * rf, Type: types.F64}, true
		case ast.Div:
			return ConstValue{Kind: ConstFloat, F: lf / rf, Type: types.F64}, true
		case ast.LtOp:
			return ConstValue{Kind: ConstBool, B: lf < rf, Type: types.Bool}, true
		case ast.LeOp:
			return ConstValue{Kind: ConstBool, B: lf <= rf, Type: types.Bool}, true
		case ast.GtOp:
			return ConstValue{Kind: ConstBool, B: lf > rf, Type: types.Bool}, true
		case ast.GeOp:
			return ConstValue{Kind: ConstBool, B: lf >= rf, Type: types.Bool}, true
		case ast.EqOp:
			return ConstValue{Kind: ConstBool, B: lf == rf, Type: types.Bool}, true
		case ast.NeOp:
			return ConstValue{Kind: ConstBool, B: lf != rf, Type: types.Bool}, true
		}
		c.diags.Errorf("E0305", n.Sp, "operator not valid over float const operands")
		return ConstValue{}, false
	}

	if l.Kind == ConstBool && r.Kind == ConstBool {
		switch n.Op {
		case ast.LAnd:
			return ConstValue{Kind: ConstBool, B: l.B && r.B, Type: types.Bool}, true
		case ast.LOr:
			return ConstValue{Kind: ConstBool, B: l.B || r.B, Type: types.Bool}, true
		case ast.EqOp:
			return ConstValue{Kind: ConstBool, B: l.B == r.B, Type: types.Bool}, true
		case ast.NeOp:
			return ConstValue{Kind: ConstBool, B: l.B != r.B, Type: types.Bool}, true
		}
		c.diags.Errorf("E0306", n.Sp, "operator not valid over bool const operands")
		return ConstValue{}, false
	}

	ty := l.Type
	if ty == nil {
		ty = r.Type
	}
	switch n.Op {
	case ast.Add:
		return c.checkedConstArith(n, l.I+r.I, l.I, r.I, ty, "add")
	case ast.Sub:
		return c.checkedConstArith(n, l.I-r.I, l.I, r.I, ty, "sub")
	case ast.Mul:
		return c.checkedConstArith(n, l.I*r.I, l.I, r.I, ty, "mul")
	case ast.Div:
		if r.I == 0 {
			c.diags.Errorf("E0307", n.Sp, "division by zero in const expression")
			return ConstValue{}, false
		}
		return ConstValue{Kind: ConstInt, I: l.I / r.I, Type: ty}, true
	case ast.Rem:
		if r.I == 0 {
			c.diags.Errorf("E0307", n.Sp, "division by zero in const expression")
			return ConstValue{}, false
		}
		return ConstValue{Kind: ConstInt, I: l.I % r.I, Type: ty}, true
	case ast.BAnd:
		return ConstValue{Kind: ConstInt, I: l.I & r.I, Type: ty}, true
	case ast.BOr:
		return ConstValue{Kind: ConstInt, I: l.I | r.I, Type: ty}, true
	case ast.BXor:
		return ConstValue{Kind: ConstInt, I: l.I ^ r.I, Type: ty}, true
	case ast.Shl:
		return ConstValue{Kind: ConstInt, I: l.I << uint64(r.I), Type: ty}, true
	case ast.Shr:
		return ConstValue{Kind: ConstInt, I: l.I >> uint64(r.I), Type: ty}, true
	case ast.LtOp:
		return ConstValue{Kind: ConstBool, B: l.I < r.I, Type: types.Bool}, true
	case ast.LeOp:
		return ConstValue{Kind: ConstBool, B: l.I <= r.I, Type: types.Bool}, true
	case ast.GtOp:
		return ConstValue{Kind: ConstBool, B: l.I > r.I, Type: types.Bool}, true
	case ast.GeOp:
		return ConstValue{Kind: ConstBool, B: l.I >= r.I, Type: types.Bool}, true
	case ast.EqOp:
		return ConstValue{Kind: ConstBool, B: l.I == r.I, Type: types.Bool}, true
	case ast.NeOp:
		return ConstValue{Kind: ConstBool, B: l.I != r.I, Type: types.Bool}, true
	}
	c.diags.Errorf("E0308", n.Sp, "operator not valid over integer const operands")
	return ConstValue{}, false
}

// checkedConstArith flags overflow of the int64 result relative to ty's bit
// width (a range check below 64 bits, an operand/result comparison at 64
// bits), per spec.md §4.4.6's "const
// arithmetic overflow is a compile-time error" rule.
func (c *Checker) checkedConstArith(n *ast.Binary, result, l, r int64, ty types.Type, op string) (ConstValue, bool) {
	width := 64
	signed := true
	if p, ok := ty.(types.Prim); ok && p.Width() > 0 {
		width = p.Width()
		signed = p.IsSigned()
	}
	if width < 64 {
		var lo, hi int64
		if signed {
			hi = int64(1)<<(width-1) - 1
			lo = -(int64(1) << (width - 1))
		} else {
			lo = 0
			hi = int64(1)<<width - 1
		}
		if result < lo || result > hi {
			c.diags.Errorf("E0309", n.Sp, "const %s overflows %s", op, ty.String())
			return ConstValue{}, false
		}
	}
	if width == 64 {
		over := false
		switch op {
		case "add":
			over = signed && (r > 0 && result < l || r < 0 && result > l) || !signed && uint64(result) < uint64(l)
		case "sub":
			over = signed && (r > 0 && result > l || r < 0 && result < l) || !signed && uint64(l) < uint64(r)
		case "mul":
			over = l != 0 && (signed && (result/l != r || l == -1 && r == -1<<63) || !signed && uint64(result)/uint64(l) != uint64(r))
		}
		if over {
			c.diags.Errorf("E0309", n.Sp, "const %s overflows %s", op, ty.String())
			return ConstValue{}, false
		}
	}
	return ConstValue{Kind: ConstInt, I: result, Type: ty}, true
}

func (c *Checker) evalConstCast(n *ast.Cast, v ConstValue, target types.Type) (ConstValue, bool) {
	if !types.CanCast(v.Type, target) {
		c.diags.Errorf("E0310", n.Sp, "cannot cast %s to %s in a const expression", v.Type.String(), target.String())
		return ConstValue{}, false
	}
	switch v.Kind {
	case ConstFloat:
		if p, ok := target.(types.Prim); ok && p.IsInteger() {
			return ConstValue{Kind: ConstInt, I: int64(v.F), Type: target}, true
		}
		return ConstValue{Kind: ConstFloat, F: v.F, Type: target}, true
	case ConstBool:
		b := int64(0)
		if v.B {
			b = 1
		}
		return ConstValue{Kind: ConstInt, I: b, Type: target}, true
	default:
		if p, ok := target.(types.Prim); ok && p.IsFloat() {
			return ConstValue{Kind: ConstFloat, F: float64(v.I), Type: target}, true
		}
		if target == types.Bool {
			return ConstValue{Kind: ConstBool, B: v.I != 0, Type: target}, true
		}
		return ConstValue{Kind: ConstInt, I: v.I, Type: target}, true
	}
}

// AsInt returns the value as an int64, valid only when Kind == ConstInt.
func (v ConstValue) AsInt() int64 { return v.I }
