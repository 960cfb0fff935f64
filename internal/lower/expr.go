package lower

import (
	"fastc/internal/ast"
	"fastc/internal/cast"
	"fastc/internal/types"
)

func (l *Lowerer) lowerExpr(e ast.Expr) cast.Expr {
	switch n := e.(type) {
	case *ast.IntLit:
		return &cast.IntLit{Value: n.Raw}
	case *ast.FloatLit:
		return &cast.FloatLit{Value: n.Raw}
	case *ast.BoolLit:
		return &cast.BoolLit{Value: n.Value}
	case *ast.Ident:
		return &cast.Ident{Name: n.Name}
	case *ast.CStrLit:
		return &cast.StringLit{Value: n.Value}
	case *ast.BytesLit:
		return l.lowerBytesLit(n)
	case *ast.Binary:
		return l.lowerBinary(n)
	case *ast.Unary:
		return l.lowerUnary(n)
	case *ast.Paren:
		return &cast.ParenExpr{Inner: l.lowerExpr(n.Inner)}
	case *ast.Call:
		return l.lowerCall(n)
	case *ast.Field:
		return l.lowerField(n)
	case *ast.Addr:
		return &cast.AddrOf{Operand: l.lowerExpr(n.Operand)}
	case *ast.Deref:
		return &cast.DerefExpr{Operand: l.lowerExpr(n.Operand)}
	case *ast.At:
		return l.lowerAt(n)
	case *ast.Cast:
		return &cast.CastExpr{Type: l.lowerType(l.info.ExprTypes[n]), Expr: l.lowerExpr(n.Operand)}
	case *ast.NoneLit:
		return l.lowerNoneLit(n)
	case *ast.SomeLit:
		return l.lowerSomeLit(n)
	case *ast.OkLit:
		return l.lowerOkLit(n)
	case *ast.ErrLit:
		return l.lowerErrLit(n)
	case *ast.Builtin:
		return l.lowerBuiltin(n)
	case *ast.StructLit:
		return l.lowerStructLit(n)
	}
	return &cast.IntLit{Value: "0"}
}

func (l *Lowerer) lowerBytesLit(n *ast.BytesLit) cast.Expr {
	sliceType := l.info.ExprTypes[n]
	ct := l.lowerType(sliceType)
	return &cast.CompoundLit{Type: ct, Fields: []cast.CompoundField{
		{Name: "data", Value: &cast.StringLit{Value: n.Value}},
		{Name: "len", Value: &cast.IntLit{Value: uintLiteral(uint64(len(n.Value)))}},
	}}
}

func (l *Lowerer) lowerCall(n *ast.Call) cast.Expr {
	callee := l.lowerExpr(n.Callee)
	var args []cast.Expr
	for _, a := range n.Args {
		args = append(args, l.lowerExpr(a))
	}
	call := &cast.Call{Func: callee, Args: args}

	retType := l.info.ExprTypes[n]
	if prim, ok := retType.(types.Prim); ok && prim == types.Void {
		l.fn.pre = append(l.fn.pre, &cast.ExprStmt{Value: call})
		return nil
	}
	tmp := l.newTemp()
	l.fn.pre = append(l.fn.pre, &cast.VarDecl{Name: tmp, Type: l.lowerType(retType), Init: call})
	return &cast.Ident{Name: tmp}
}

func isPointerType(t types.Type) bool {
	switch t.(type) {
	case *types.Ref, *types.RawPtr, *types.Own:
		return true
	}
	return false
}

func (l *Lowerer) lowerField(n *ast.Field) cast.Expr {
	base := l.lowerExpr(n.Base)
	return &cast.FieldExpr{Base: base, Field: n.Name, Arrow: isPointerType(l.info.ExprTypes[n.Base])}
}

func (l *Lowerer) lowerAt(n *ast.At) cast.Expr {
	base := l.lowerExpr(n.Base)
	index := l.lowerExpr(n.Index)
	index = l.hoistTemp(&l.fn.pre, index, cast.PrimType(cast.CSizeT))
	baseType := l.info.ExprTypes[n.Base]

	switch t := baseType.(type) {
	case *types.Array:
		l.fn.pre = append(l.fn.pre, &cast.If{
			Cond: &cast.Binary{Op: cast.Ge, Lhs: index, Rhs: &cast.IntLit{Value: uintLiteral(t.N)}},
			Then: []cast.Stmt{l.trapStmt("array index out of bounds")},
		})
		return &cast.IndexExpr{Base: base, Index: index}
	case *types.Slice:
		base = l.hoistTemp(&l.fn.pre, base, l.lowerType(t))
		lenExpr := &cast.FieldExpr{Base: base, Field: "len"}
		l.fn.pre = append(l.fn.pre, &cast.If{
			Cond: &cast.Binary{Op: cast.Ge, Lhs: index, Rhs: lenExpr},
			Then: []cast.Stmt{l.trapStmt("slice index out of bounds")},
		})
		return &cast.IndexExpr{Base: &cast.FieldExpr{Base: base, Field: "data"}, Index: index}
	default:
		// RawPtr indexing: bounds are the caller's responsibility inside an
		// unsafe block (spec.md §4.4.2); the checker already enforced the
		// unsafe-context requirement.
		return &cast.IndexExpr{Base: base, Index: index}
	}
}

func (l *Lowerer) lowerNoneLit(n *ast.NoneLit) cast.Expr {
	ct := l.lowerType(l.info.ExprTypes[n])
	return &cast.CompoundLit{Type: ct, Fields: []cast.CompoundField{
		{Name: "present", Value: &cast.BoolLit{Value: false}},
	}}
}

func (l *Lowerer) lowerSomeLit(n *ast.SomeLit) cast.Expr {
	ct := l.lowerType(l.info.ExprTypes[n])
	return &cast.CompoundLit{Type: ct, Fields: []cast.CompoundField{
		{Name: "present", Value: &cast.BoolLit{Value: true}},
		{Name: "value", Value: l.lowerExpr(n.Value)},
	}}
}

func (l *Lowerer) resUnionName(resType types.Type) string {
	ct := l.lowerType(resType)
	if nt, ok := ct.(*cast.NamedType); ok {
		return nt.Name + "_payload"
	}
	return ""
}

func (l *Lowerer) lowerOkLit(n *ast.OkLit) cast.Expr {
	resType := l.info.ExprTypes[n]
	ct := l.lowerType(resType)
	payload := &cast.CompoundLit{Type: &cast.NamedType{Name: l.resUnionName(resType)}, Fields: []cast.CompoundField{
		{Name: "ok_value", Value: l.lowerExpr(n.Value)},
	}}
	return &cast.CompoundLit{Type: ct, Fields: []cast.CompoundField{
		{Name: "is_ok", Value: &cast.BoolLit{Value: true}},
		{Name: "payload", Value: payload},
	}}
}

func (l *Lowerer) lowerErrLit(n *ast.ErrLit) cast.Expr {
	resType := l.info.ExprTypes[n]
	ct := l.lowerType(resType)
	payload := &cast.CompoundLit{Type: &cast.NamedType{Name: l.resUnionName(resType)}, Fields: []cast.CompoundField{
		{Name: "err_value", Value: l.lowerExpr(n.Value)},
	}}
	return &cast.CompoundLit{Type: ct, Fields: []cast.CompoundField{
		{Name: "is_ok", Value: &cast.BoolLit{Value: false}},
		{Name: "payload", Value: payload},
	}}
}

func (l *Lowerer) lowerStructLit(n *ast.StructLit) cast.Expr {
	var fields []cast.CompoundField
	for _, f := range n.Fields {
		fields = append(fields, cast.CompoundField{Name: f.Name, Value: l.lowerExpr(f.Value)})
	}
	return &cast.CompoundLit{Type: &cast.NamedType{Name: n.Name}, Fields: fields}
}
