package typecheck

import (
	"fastc/internal/ast"
	"fastc/internal/types"
)

// checkSwitch type-checks a switch statement and enforces spec.md §4.4.5's
// exhaustiveness rule: an enum-scrutinee switch must cover every variant
// (by name, via its "{Enum}_{Variant}" const) or carry a default; any
// other scrutinee type always requires a default.
func (c *Checker) checkSwitch(n *ast.Switch) {
	scrutType := c.inferExpr(n.Scrutinee, nil)

	enumType, isEnum := scrutType.(*types.Enum)
	covered := make(map[string]bool)

	for _, cs := range n.Cases {
		cv, ok := c.evalConst(cs.Value)
		if ok && scrutType != nil && !types.Equal(cv.Type, scrutType) && !isEnum {
			c.diags.Errorf("E0380", cs.Value.Span(), "case value has type %s, switch is over %s", cv.Type.String(), scrutType.String())
		}
		if isEnum {
			if id, ok := cs.Value.(*ast.Ident); ok {
				if ref, ok := c.enumVariantOrdinal[id.Name]; ok && ref.enum == enumType {
					covered[ref.enum.Variants[ref.idx].Name] = true
				} else {
					c.diags.Errorf("E0381", id.Sp, "'%s' is not a variant of %s", id.Name, enumType.Name)
				}
			}
		}
		c.pushScope()
		for _, s := range cs.Stmts {
			c.checkStmt(s)
		}
		c.popScope()
	}

	if n.Default != nil {
		c.pushScope()
		for _, s := range n.Default {
			c.checkStmt(s)
		}
		c.popScope()
	}

	if isEnum && n.Default == nil {
		var missing []string
		for _, v := range enumType.Variants {
			if !covered[v.Name] {
				missing = append(missing, v.Name)
			}
		}
		if len(missing) > 0 {
			c.diags.Errorf("E0382", n.Sp, "switch over %s is not exhaustive, missing variant(s): %s", enumType.Name, joinNames(missing))
		}
	} else if !isEnum && n.Default == nil {
		c.diags.Errorf("E0383", n.Sp, "switch over %s requires a default case", typeNameOrUnknown(scrutType))
	}
}

func typeNameOrUnknown(t types.Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.String()
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
