package lower

import (
	"fastc/internal/ast"
	"fastc/internal/cast"
	"fastc/internal/types"
)

// lowerSwitch lowers a switch statement to its C counterpart. A
// data-carrying enum scrutinee switches on its synthesized `.tag` field
// rather than the struct value itself; every other scrutinee (plain enum,
// integer, bool) switches directly. Every case body is terminated with an
// explicit C `break` unless it already ends in a return/goto, since C
// fallthrough is never relied upon (cast.SwitchCase's own doc comment).
func (l *Lowerer) lowerSwitch(n *ast.Switch) []cast.Stmt {
	pre, scrutinee := l.lowerExprHoisted(n.Scrutinee)
	scrutType := l.info.ExprTypes[n.Scrutinee]
	if e, ok := scrutType.(*types.Enum); ok && e.HasData() {
		scrutinee = &cast.FieldExpr{Base: scrutinee, Field: "tag"}
	}

	var cases []cast.SwitchCase
	for _, c := range n.Cases {
		body := l.lowerStmts(c.Stmts)
		body = terminateCase(body)
		cases = append(cases, cast.SwitchCase{Value: l.lowerExpr(c.Value), Body: body})
	}
	var def []cast.Stmt
	if n.Default != nil {
		def = terminateCase(l.lowerStmts(n.Default))
	}
	return append(pre, &cast.Switch{Expr: scrutinee, Cases: cases, Default: def})
}

func terminateCase(body []cast.Stmt) []cast.Stmt {
	if len(body) > 0 {
		switch body[len(body)-1].(type) {
		case *cast.Return, *cast.Goto, *cast.Break:
			return body
		}
	}
	return append(body, &cast.Break{})
}
