// Package emit renders the C AST internal/lower produces into C11 source
// text, plus an optional companion header (spec.md §4.6). Declaration order
// is always the source order internal/lower produced it in -- nothing here
// reorders or coalesces declarations, matching spec.md §9's determinism
// requirement. Indentation is four spaces, opening braces stay on the same
// line as the construct that introduces them, and every statement ends in
// a semicolon; this is a fresh pretty-printer, since no emit/ module exists
// anywhere in the reference implementation to ground it on -- the shape
// follows ordinary C11 formatting conventions instead.
package emit

import (
	"fmt"
	"strings"

	"fastc/internal/cast"
)

// Source renders a full translation unit: includes, then every
// declaration in the order internal/lower emitted it.
func Source(f *cast.File) string {
	p := &printer{}
	for _, inc := range f.Includes {
		p.writeLine("#include " + inc)
	}
	if len(f.Includes) > 0 {
		p.blank()
	}
	for _, fd := range f.ForwardDecls {
		p.writeLine(fd)
	}
	if len(f.ForwardDecls) > 0 {
		p.blank()
	}
	for _, d := range f.TypeDefs {
		p.decl(d)
		p.blank()
	}
	for _, c := range f.Consts {
		p.constDef(c)
	}
	if len(f.Consts) > 0 {
		p.blank()
	}
	for _, proto := range f.FnProtos {
		p.writeLine(protoSignature(proto) + ";")
	}
	if len(f.FnProtos) > 0 {
		p.blank()
	}
	for _, fn := range f.FnDefs {
		p.fnDef(fn)
		p.blank()
	}
	return strings.TrimRight(p.b.String(), "\n") + "\n"
}

// Header renders the public surface of f: struct/enum/union typedefs are
// never hidden (C's type system has no separate public declaration for
// them), consts are not emitted at all, and function prototypes are the
// non-static set internal/lower put into f.FnProtos (pub functions and
// extern-block prototypes).
func Header(f *cast.File, guard string) string {
	p := &printer{}
	p.writeLine("#ifndef " + guard)
	p.writeLine("#define " + guard)
	p.blank()
	for _, inc := range f.Includes {
		p.writeLine("#include " + inc)
	}
	p.blank()
	for _, fd := range f.ForwardDecls {
		p.writeLine(fd)
	}
	if len(f.ForwardDecls) > 0 {
		p.blank()
	}
	for _, d := range f.TypeDefs {
		p.decl(d)
		p.blank()
	}
	for _, proto := range f.FnProtos {
		p.writeLine(protoSignature(proto) + ";")
	}
	p.blank()
	p.writeLine("#endif")
	return strings.TrimRight(p.b.String(), "\n") + "\n"
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) writeLine(s string) {
	if s == "" {
		p.b.WriteByte('\n')
		return
	}
	p.b.WriteString(strings.Repeat("    ", p.indent))
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *printer) blank() { p.b.WriteByte('\n') }

func (p *printer) decl(d cast.Decl) {
	switch n := d.(type) {
	case *cast.StructDecl:
		p.writeLine("typedef struct {")
		p.indent++
		for _, f := range n.Fields {
			p.writeLine(typeAndName(f.Type, f.Name) + ";")
		}
		p.indent--
		suffix := ""
		if n.Packed {
			suffix = " __attribute__((packed))"
		}
		p.writeLine("}" + suffix + " " + n.Name + ";")
	case *cast.UnionDecl:
		p.writeLine("typedef union {")
		p.indent++
		for _, f := range n.Fields {
			p.writeLine(typeAndName(f.Type, f.Name) + ";")
		}
		p.indent--
		p.writeLine("} " + n.Name + ";")
	case *cast.EnumDecl:
		// Discriminant values are emitted as an anonymous enum of plain int
		// constants, and Name is typedef'd directly to n.Repr -- not to the
		// anonymous enum itself -- so sizeof(Name) always matches the
		// declared representation width (spec.md §4.1 invariant 5) instead
		// of whatever width the compiler would otherwise have chosen for a
		// bare `enum`.
		p.writeLine("enum {")
		p.indent++
		for i, v := range n.Variants {
			line := v + " = " + fmt.Sprint(n.Values[i])
			if i < len(n.Variants)-1 {
				line += ","
			}
			p.writeLine(line)
		}
		p.indent--
		p.writeLine("};")
		p.writeLine("typedef " + typeAndName(n.Repr, n.Name) + ";")
	case *cast.TypedefDecl:
		p.writeLine("typedef " + typeAndName(n.Type, n.Name) + ";")
	}
}

func (p *printer) constDef(c *cast.ConstDef) {
	prefix := ""
	if c.Static {
		prefix = "static "
	}
	p.writeLine(prefix + "const " + typeAndName(c.Type, c.Name) + " = " + exprString(c.Value) + ";")
}

func protoSignature(fp *cast.FnProto) string {
	prefix := ""
	if fp.Static {
		prefix = "static "
	}
	return prefix + typeName(fp.ReturnType) + " " + fp.Name + "(" + paramList(fp.Params) + ")"
}

func paramList(params []cast.Param) string {
	if len(params) == 0 {
		return "void"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = typeAndName(p.Type, p.Name)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) fnDef(fn *cast.FnDef) {
	prefix := ""
	if fn.Static {
		prefix = "static "
	}
	p.writeLine(prefix + typeName(fn.ReturnType) + " " + fn.Name + "(" + paramList(fn.Params) + ") {")
	p.indent++
	for _, s := range fn.Body {
		p.stmt(s)
	}
	p.indent--
	p.writeLine("}")
}

func (p *printer) block(stmts []cast.Stmt) {
	p.writeLine("{")
	p.indent++
	for _, s := range stmts {
		p.stmt(s)
	}
	p.indent--
	p.writeLine("}")
}

func (p *printer) stmt(s cast.Stmt) {
	switch n := s.(type) {
	case *cast.VarDecl:
		if n.Init != nil {
			p.writeLine(typeAndName(n.Type, n.Name) + " = " + exprString(n.Init) + ";")
		} else {
			p.writeLine(typeAndName(n.Type, n.Name) + ";")
		}
	case *cast.Assign:
		p.writeLine(exprString(n.Lhs) + " = " + exprString(n.Rhs) + ";")
	case *cast.If:
		p.writeLine("if (" + exprString(n.Cond) + ") {")
		p.indent++
		for _, s := range n.Then {
			p.stmt(s)
		}
		p.indent--
		if n.Else != nil {
			p.writeLine("} else {")
			p.indent++
			for _, s := range n.Else {
				p.stmt(s)
			}
			p.indent--
		}
		p.writeLine("}")
	case *cast.While:
		p.writeLine("while (" + exprString(n.Cond) + ") {")
		p.indent++
		for _, s := range n.Body {
			p.stmt(s)
		}
		p.indent--
		p.writeLine("}")
	case *cast.For:
		p.writeLine("for (" + forHeader(n) + ") {")
		p.indent++
		for _, s := range n.Body {
			p.stmt(s)
		}
		p.indent--
		p.writeLine("}")
	case *cast.Return:
		if n.Value != nil {
			p.writeLine("return " + exprString(n.Value) + ";")
		} else {
			p.writeLine("return;")
		}
	case *cast.ExprStmt:
		p.writeLine(exprString(n.Value) + ";")
	case *cast.Block:
		p.block(n.Stmts)
	case *cast.Goto:
		p.writeLine("goto " + n.Label + ";")
	case *cast.Label:
		p.writeLine(n.Name + ":;")
	case *cast.Switch:
		p.writeLine("switch (" + exprString(n.Expr) + ") {")
		p.indent++
		for _, c := range n.Cases {
			p.writeLine("case " + exprString(c.Value) + ": {")
			p.indent++
			for _, s := range c.Body {
				p.stmt(s)
			}
			p.indent--
			p.writeLine("}")
		}
		if n.Default != nil {
			p.writeLine("default: {")
			p.indent++
			for _, s := range n.Default {
				p.stmt(s)
			}
			p.indent--
			p.writeLine("}")
		}
		p.indent--
		p.writeLine("}")
	case *cast.Break:
		p.writeLine("break;")
	case *cast.Continue:
		p.writeLine("continue;")
	}
}

// forHeader renders a for-loop's `init; cond; step` clause. A statement
// used as init/step is rendered without its own trailing newline by
// borrowing the same expression/declaration text a full statement would
// produce, then stripping the semicolon the caller re-adds around `;`.
func forHeader(n *cast.For) string {
	initStr := ""
	if n.Init != nil {
		initStr = forClauseStmt(n.Init)
	}
	condStr := ""
	if n.Cond != nil {
		condStr = exprString(n.Cond)
	}
	stepStr := ""
	if n.Step != nil {
		stepStr = forClauseStmt(n.Step)
	}
	return initStr + "; " + condStr + "; " + stepStr
}

func forClauseStmt(s cast.Stmt) string {
	switch n := s.(type) {
	case *cast.VarDecl:
		if n.Init != nil {
			return typeAndName(n.Type, n.Name) + " = " + exprString(n.Init)
		}
		return typeAndName(n.Type, n.Name)
	case *cast.Assign:
		return exprString(n.Lhs) + " = " + exprString(n.Rhs)
	case *cast.ExprStmt:
		return exprString(n.Value)
	}
	return ""
}

func typeAndName(t cast.Type, name string) string {
	switch n := t.(type) {
	case *cast.ArrayType:
		return typeName(n.Inner) + " " + name + "[" + fmt.Sprint(n.N) + "]"
	default:
		return typeName(t) + " " + name
	}
}

func typeName(t cast.Type) string {
	switch n := t.(type) {
	case cast.PrimType:
		return primTypeName(n)
	case *cast.PtrType:
		return typeName(n.Inner) + " *"
	case *cast.ConstPtrType:
		return "const " + typeName(n.Inner) + " *"
	case *cast.ArrayType:
		return typeName(n.Inner)
	case *cast.NamedType:
		return n.Name
	}
	return "void"
}

func primTypeName(p cast.PrimType) string {
	switch p {
	case cast.CVoid:
		return "void"
	case cast.CBool:
		return "bool"
	case cast.CInt8:
		return "int8_t"
	case cast.CInt16:
		return "int16_t"
	case cast.CInt32:
		return "int32_t"
	case cast.CInt64:
		return "int64_t"
	case cast.CUInt8:
		return "uint8_t"
	case cast.CUInt16:
		return "uint16_t"
	case cast.CUInt32:
		return "uint32_t"
	case cast.CUInt64:
		return "uint64_t"
	case cast.CFloat:
		return "float"
	case cast.CDouble:
		return "double"
	case cast.CSizeT:
		return "size_t"
	case cast.CPtrDiffT:
		return "ptrdiff_t"
	}
	return "void"
}
