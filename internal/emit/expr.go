package emit

import (
	"strconv"
	"strings"

	"fastc/internal/cast"
)

func exprString(e cast.Expr) string {
	switch n := e.(type) {
	case *cast.IntLit:
		return n.Value
	case *cast.FloatLit:
		return n.Value
	case *cast.BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *cast.StringLit:
		return strconv.Quote(n.Value)
	case *cast.Ident:
		return n.Name
	case *cast.Binary:
		return exprString(n.Lhs) + " " + binOpString(n.Op) + " " + exprString(n.Rhs)
	case *cast.Unary:
		return unaryOpString(n.Op) + exprString(n.Operand)
	case *cast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprString(a)
		}
		return exprString(n.Func) + "(" + strings.Join(args, ", ") + ")"
	case *cast.FieldExpr:
		op := "."
		if n.Arrow {
			op = "->"
		}
		return exprString(n.Base) + op + n.Field
	case *cast.DerefExpr:
		return "(*" + exprString(n.Operand) + ")"
	case *cast.AddrOf:
		return "(&" + exprString(n.Operand) + ")"
	case *cast.IndexExpr:
		return exprString(n.Base) + "[" + exprString(n.Index) + "]"
	case *cast.CastExpr:
		return "(" + typeName(n.Type) + ")" + exprString(n.Expr)
	case *cast.ParenExpr:
		return "(" + exprString(n.Inner) + ")"
	case *cast.Ternary:
		return "(" + exprString(n.Cond) + " ? " + exprString(n.Then) + " : " + exprString(n.Else) + ")"
	case *cast.CompoundLit:
		fields := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			if f.Name != "" {
				fields[i] = "." + f.Name + " = " + exprString(f.Value)
			} else {
				fields[i] = exprString(f.Value)
			}
		}
		return "(" + typeName(n.Type) + "){ " + strings.Join(fields, ", ") + " }"
	}
	return ""
}

func binOpString(op cast.BinOp) string {
	switch op {
	case cast.Add:
		return "+"
	case cast.Sub:
		return "-"
	case cast.Mul:
		return "*"
	case cast.Div:
		return "/"
	case cast.Rem:
		return "%"
	case cast.Eq:
		return "=="
	case cast.Ne:
		return "!="
	case cast.Lt:
		return "<"
	case cast.Le:
		return "<="
	case cast.Gt:
		return ">"
	case cast.Ge:
		return ">="
	case cast.LAnd:
		return "&&"
	case cast.LOr:
		return "||"
	case cast.BAnd:
		return "&"
	case cast.BOr:
		return "|"
	case cast.BXor:
		return "^"
	case cast.Shl:
		return "<<"
	case cast.Shr:
		return ">>"
	}
	return "?"
}

func unaryOpString(op cast.UnaryOp) string {
	switch op {
	case cast.Neg:
		return "-"
	case cast.Not:
		return "!"
	case cast.BitNot:
		return "~"
	}
	return ""
}
