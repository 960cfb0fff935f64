// Package resolve implements FastC's two-pass name resolver: a first pass
// declares every top-level item, a second pass resolves every reference,
// so that forward references within a file are supported (spec.md §4.3).
//
// The two-pass declare/resolve split and the edit-distance "did you mean"
// suggestion are grounded directly on the reference implementation's
// resolve/mod.rs; the deterministic ordered scope stack it relies on lives
// in internal/symtab rather than a ported IndexMap.
package resolve

import (
	"fastc/internal/ast"
	"fastc/internal/diag"
	"fastc/internal/symtab"
	"fastc/internal/token"
)

// Resolver binds every identifier in a File to a declaration.
type Resolver struct {
	file    *ast.File
	symbols *symtab.Table
	diags   *diag.Bag
}

// New creates a Resolver for file, recording diagnostics into diags.
func New(file *ast.File, diags *diag.Bag) *Resolver {
	return &Resolver{file: file, symbols: symtab.New(), diags: diags}
}

// Symbols exposes the populated table for the type checker to continue
// using after resolution succeeds.
func (r *Resolver) Symbols() *symtab.Table {
	return r.symbols
}

// Resolve runs both passes over the file.
func (r *Resolver) Resolve() {
	for _, item := range r.file.Items {
		r.declareItem(item)
	}
	for _, item := range r.file.Items {
		r.resolveItem(item)
	}
}

// --- pass 1: declare ---------------------------------------------------

func (r *Resolver) declareItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FnDecl:
		r.declareFn(it)
	case *ast.StructDecl:
		r.declareStruct(it)
	case *ast.EnumDecl:
		r.declareEnum(it)
	case *ast.ConstDecl:
		r.declareConst(it)
	case *ast.OpaqueDecl:
		r.declareOpaque(it)
	case *ast.ExternBlock:
		r.declareExtern(it)
	case *ast.UseDecl:
		// use declarations bring names into scope at resolve time; nothing
		// to declare up front.
	case *ast.ModDecl:
		r.declareMod(it)
	}
}

func fnType(params []ast.Param, ret ast.TypeExpr, unsafe bool) ast.TypeExpr {
	var ptypes []ast.TypeExpr
	for _, p := range params {
		ptypes = append(ptypes, p.Type)
	}
	return &ast.FnType{Unsafe: unsafe, Params: ptypes, Return: ret, Sp: ret.Span()}
}

func (r *Resolver) declareFn(d *ast.FnDecl) {
	sym := symtab.Symbol{Name: d.Name, Kind: symtab.KindFunction, Type: fnType(d.Params, d.ReturnType, d.Unsafe), Unsafe: d.Unsafe, Span: d.Sp}
	if _, ok := r.symbols.Define(sym); !ok {
		r.errorRedefinition(d.Name, d.Sp)
	}
	if d.Body == nil {
		r.diags.Errorf("E0213", d.Sp, "function '%s' has no body; only extern \"C\" blocks may declare prototypes", d.Name)
	}
}

func (r *Resolver) declareStruct(d *ast.StructDecl) {
	sym := symtab.Symbol{Name: d.Name, Kind: symtab.KindStruct, Span: d.Sp}
	if _, ok := r.symbols.Define(sym); !ok {
		r.errorRedefinition(d.Name, d.Sp)
	}
}

func (r *Resolver) declareEnum(d *ast.EnumDecl) {
	sym := symtab.Symbol{Name: d.Name, Kind: symtab.KindEnum, Span: d.Sp}
	if _, ok := r.symbols.Define(sym); !ok {
		r.errorRedefinition(d.Name, d.Sp)
	}
	// Each variant is declared as a constant symbol named
	// "{EnumName}_{VariantName}" -- this is how switch-case identifiers and
	// qualified variant references resolve (mirrors the reference
	// resolver's declare_enum).
	for i, v := range d.Variants {
		vsym := symtab.Symbol{
			Name: d.Name + "_" + v.Name, Kind: symtab.KindEnumVariant,
			EnumName: d.Name, VariantIdx: i, Span: v.Sp,
		}
		if _, ok := r.symbols.Define(vsym); !ok {
			r.errorRedefinition(vsym.Name, v.Sp)
		}
	}
}

func (r *Resolver) declareConst(d *ast.ConstDecl) {
	sym := symtab.Symbol{Name: d.Name, Kind: symtab.KindConstant, Type: d.Type, Span: d.Sp}
	if _, ok := r.symbols.Define(sym); !ok {
		r.errorRedefinition(d.Name, d.Sp)
	}
}

func (r *Resolver) declareOpaque(d *ast.OpaqueDecl) {
	sym := symtab.Symbol{Name: d.Name, Kind: symtab.KindOpaque, Span: d.Sp}
	if _, ok := r.symbols.Define(sym); !ok {
		r.errorRedefinition(d.Name, d.Sp)
	}
}

func (r *Resolver) declareExtern(d *ast.ExternBlock) {
	for _, item := range d.Items {
		proto, ok := item.(*ast.FnProto)
		if !ok {
			continue
		}
		// Every extern "C" function is forced unsafe regardless of syntax:
		// calling across the FFI boundary always requires an unsafe context
		// (spec.md §4.4.2's "calling any extern 'C' function").
		sym := symtab.Symbol{Name: proto.Name, Kind: symtab.KindFunction, Type: fnType(proto.Params, proto.ReturnType, true), Unsafe: true, Span: proto.Sp}
		if _, ok := r.symbols.Define(sym); !ok {
			r.errorRedefinition(proto.Name, proto.Sp)
		}
	}
}

func (r *Resolver) declareMod(d *ast.ModDecl) {
	sym := symtab.Symbol{Name: d.Name, Kind: symtab.KindModule, Span: d.Sp}
	if _, ok := r.symbols.Define(sym); !ok {
		r.errorRedefinition(d.Name, d.Sp)
	}
	for _, inner := range d.Body {
		r.declareItem(inner)
	}
}

// --- pass 2: resolve ----------------------------------------------------

func (r *Resolver) resolveItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FnDecl:
		r.resolveFn(it)
	case *ast.StructDecl:
		r.resolveStruct(it)
	case *ast.EnumDecl:
		r.resolveEnum(it)
	case *ast.ConstDecl:
		r.resolveConst(it)
	case *ast.ExternBlock:
		r.resolveExtern(it)
	case *ast.UseDecl:
		r.resolveUse(it)
	case *ast.ModDecl:
		for _, inner := range it.Body {
			r.resolveItem(inner)
		}
	}
}

func (r *Resolver) resolveFn(d *ast.FnDecl) {
	r.resolveType(d.ReturnType)
	r.symbols.EnterScope()
	for _, param := range d.Params {
		r.resolveType(param.Type)
		sym := symtab.Symbol{Name: param.Name, Kind: symtab.KindVariable, Type: param.Type, Span: param.Sp}
		if _, ok := r.symbols.Define(sym); !ok {
			r.errorRedefinition(param.Name, param.Sp)
		}
	}
	if d.Body != nil {
		// The body's top-level statements share the parameter scope, so a
		// let there that shadows a parameter is a redefinition.
		for _, s := range d.Body.Stmts {
			r.resolveStmt(s)
		}
	}
	r.symbols.ExitScope()
}

func (r *Resolver) resolveStruct(d *ast.StructDecl) {
	for _, f := range d.Fields {
		r.resolveType(f.Type)
	}
}

func (r *Resolver) resolveEnum(d *ast.EnumDecl) {
	for _, v := range d.Variants {
		for _, f := range v.Fields {
			r.resolveType(f)
		}
	}
}

func (r *Resolver) resolveConst(d *ast.ConstDecl) {
	r.resolveType(d.Type)
	r.resolveConstExpr(d.Value)
}

func (r *Resolver) resolveExtern(d *ast.ExternBlock) {
	for _, item := range d.Items {
		if proto, ok := item.(*ast.FnProto); ok {
			for _, p := range proto.Params {
				r.resolveType(p.Type)
			}
			r.resolveType(proto.ReturnType)
		}
	}
}

func (r *Resolver) resolveUse(d *ast.UseDecl) {
	// Cross-file module loading is a driver/project-manifest concern
	// (spec.md §1); the core resolver only requires the use target's
	// leading path component to be a declared module or otherwise visible
	// symbol. A dangling use is reported but does not cascade further.
	if len(d.Path) == 0 {
		return
	}
	if _, ok := r.symbols.Lookup(d.Path[0]); !ok {
		r.errorUndefined(d.Path[0], d.Sp)
	}
}

func (r *Resolver) resolveBlock(b *ast.Block) {
	r.symbols.EnterScope()
	for _, s := range b.Stmts {
		r.resolveStmt(s)
	}
	r.symbols.ExitScope()
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Let:
		// The init expression is resolved before the new binding is
		// defined, so `let x: i32 = x;` correctly fails to resolve `x`
		// rather than silently self-referencing (mirrors the reference
		// resolver's resolve_stmt for Let).
		r.resolveType(s.Type)
		r.resolveExpr(s.Init)
		// Define operates per-scope, so a let shadowing a parameter in the
		// very same block (same scope) is caught here as a redefinition;
		// shadowing across a nested block is a distinct scope and is
		// permitted (spec.md §4.3).
		sym := symtab.Symbol{Name: s.Name, Kind: symtab.KindVariable, Type: s.Type, Span: s.Sp}
		if _, ok := r.symbols.Define(sym); !ok {
			r.errorRedefinition(s.Name, s.Sp)
		}
	case *ast.Assign:
		r.resolveExpr(s.Target)
		r.resolveExpr(s.Value)
	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Then)
		r.resolveElse(s.Else)
	case *ast.IfLet:
		r.resolveExpr(s.Value)
		r.symbols.EnterScope()
		// The bound name gets a placeholder type here; the type checker
		// refines it to the optional's inner type once real types are
		// available (mirrors the reference resolver's IfLet handling).
		r.symbols.Define(symtab.Symbol{Name: s.Name, Kind: symtab.KindVariable, Span: s.Sp})
		for _, st := range s.Then.Stmts {
			r.resolveStmt(st)
		}
		r.symbols.ExitScope()
		r.resolveElse(s.Else)
	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Body)
	case *ast.For:
		r.symbols.EnterScope()
		r.resolveForInit(s.Init)
		if s.Cond != nil {
			r.resolveExpr(s.Cond)
		}
		r.resolveForStep(s.Step)
		for _, st := range s.Body.Stmts {
			r.resolveStmt(st)
		}
		r.symbols.ExitScope()
	case *ast.Switch:
		r.resolveExpr(s.Scrutinee)
		for _, c := range s.Cases {
			r.resolveConstExpr(c.Value)
			r.symbols.EnterScope()
			for _, st := range c.Stmts {
				r.resolveStmt(st)
			}
			r.symbols.ExitScope()
		}
		if s.Default != nil {
			r.symbols.EnterScope()
			for _, st := range s.Default {
				r.resolveStmt(st)
			}
			r.symbols.ExitScope()
		}
	case *ast.Return:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *ast.Defer:
		r.resolveBlock(s.Body)
	case *ast.Unsafe:
		r.resolveBlock(s.Body)
	case *ast.Discard:
		r.resolveExpr(s.Value)
	case *ast.ExprStmt:
		r.resolveExpr(s.Value)
	case *ast.Block:
		r.resolveBlock(s)
	}
}

func (r *Resolver) resolveElse(e ast.ElseBranch) {
	switch eb := e.(type) {
	case nil:
	case *ast.If:
		r.resolveStmt(eb)
	case *ast.IfLet:
		r.resolveStmt(eb)
	case *ast.Block:
		r.resolveBlock(eb)
	}
}

func (r *Resolver) resolveForInit(init ast.ForInit) {
	switch in := init.(type) {
	case nil:
	case *ast.Let:
		r.resolveStmt(in)
	case *ast.Assign:
		r.resolveStmt(in)
	case *ast.ExprStmt:
		r.resolveStmt(in)
	}
}

func (r *Resolver) resolveForStep(step ast.ForStep) {
	switch s := step.(type) {
	case nil:
	case *ast.Assign:
		r.resolveStmt(s)
	case *ast.ExprStmt:
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Ident:
		if _, ok := r.symbols.Lookup(e.Name); !ok {
			r.errorUndefined(e.Name, e.Sp)
		}
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Unary:
		r.resolveExpr(e.Operand)
	case *ast.Paren:
		r.resolveExpr(e.Inner)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.Field:
		r.resolveExpr(e.Base)
	case *ast.Addr:
		r.resolveExpr(e.Operand)
	case *ast.Deref:
		r.resolveExpr(e.Operand)
	case *ast.At:
		r.resolveExpr(e.Base)
		r.resolveExpr(e.Index)
	case *ast.Cast:
		r.resolveType(e.Target)
		r.resolveExpr(e.Operand)
	case *ast.NoneLit:
		r.resolveType(e.Inner)
	case *ast.SomeLit:
		r.resolveExpr(e.Value)
	case *ast.OkLit:
		r.resolveExpr(e.Value)
	case *ast.ErrLit:
		r.resolveExpr(e.Value)
	case *ast.Builtin:
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.StructLit:
		if _, ok := r.symbols.Lookup(e.Name); !ok {
			r.errorUndefined(e.Name, e.Sp)
		}
		for _, f := range e.Fields {
			r.resolveExpr(f.Value)
		}
	}
}

// resolveConstExpr mirrors resolveExpr but requires Ident references to
// resolve specifically to a Constant-kind (or enum-variant) symbol.
func (r *Resolver) resolveConstExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Ident:
		sym, ok := r.symbols.Lookup(e.Name)
		if !ok {
			r.errorUndefined(e.Name, e.Sp)
			return
		}
		if sym.Kind != symtab.KindConstant && sym.Kind != symtab.KindEnumVariant {
			r.diags.Errorf("E0210", e.Sp, "'%s' is not a constant", e.Name)
		}
	case *ast.Binary:
		r.resolveConstExpr(e.Left)
		r.resolveConstExpr(e.Right)
	case *ast.Unary:
		r.resolveConstExpr(e.Operand)
	case *ast.Paren:
		r.resolveConstExpr(e.Inner)
	case *ast.Cast:
		r.resolveType(e.Target)
		r.resolveConstExpr(e.Operand)
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.CStrLit, *ast.BytesLit:
		// literals need no resolution
	default:
		r.diags.Errorf("E0211", expr.Span(), "expression is not allowed in a const context")
	}
}

func (r *Resolver) resolveType(t ast.TypeExpr) {
	switch ty := t.(type) {
	case *ast.Named:
		sym, ok := r.symbols.Lookup(ty.Name)
		if !ok {
			r.errorUndefined(ty.Name, ty.Sp)
			return
		}
		if sym.Kind != symtab.KindStruct && sym.Kind != symtab.KindEnum && sym.Kind != symtab.KindOpaque {
			r.diags.Errorf("E0212", ty.Sp, "'%s' is not a type", ty.Name)
		}
	case *ast.Ref:
		r.resolveType(ty.Inner)
	case *ast.RawPtr:
		r.resolveType(ty.Inner)
	case *ast.Own:
		r.resolveType(ty.Inner)
	case *ast.Slice:
		r.resolveType(ty.Inner)
	case *ast.Array:
		r.resolveType(ty.Inner)
		r.resolveConstExpr(ty.Size)
	case *ast.Opt:
		r.resolveType(ty.Inner)
	case *ast.Res:
		r.resolveType(ty.Ok)
		r.resolveType(ty.Err)
	case *ast.FnType:
		for _, p := range ty.Params {
			r.resolveType(p)
		}
		r.resolveType(ty.Return)
	}
}

// --- diagnostics ---------------------------------------------------------

func (r *Resolver) errorRedefinition(name string, span token.Span) {
	r.diags.Errorf("E0201", span, "'%s' is already defined", name)
}

func (r *Resolver) errorUndefined(name string, span token.Span) {
	if suggestion := r.findSimilarName(name); suggestion != "" {
		r.diags.Errorf("E0202", span, "undefined name '%s'; did you mean '%s'?", name, suggestion)
	} else {
		r.diags.Errorf("E0202", span, "undefined name '%s'", name)
	}
}

// findSimilarName suggests the closest in-scope name by edit distance,
// mirroring the reference resolver's threshold (distance <= 3 and strictly
// less than the target's own length).
func (r *Resolver) findSimilarName(target string) string {
	best := ""
	bestDist := -1
	for _, name := range r.symbols.AllNames() {
		d := editDistance(target, name)
		if d <= 3 && d < len(target) {
			if bestDist == -1 || d < bestDist {
				bestDist = d
				best = name
			}
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between a and b using the
// standard two-row iterative technique.
func editDistance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			min := prev[j] + 1
			if v := curr[j-1] + 1; v < min {
				min = v
			}
			if v := prev[j-1] + cost; v < min {
				min = v
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}
