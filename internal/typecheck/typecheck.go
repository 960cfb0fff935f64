// Package typecheck implements spec.md §4.4: the densest stage of the
// pipeline, performing five intertwined analyses over the resolved AST --
// typing, capability/unsafe tracking (safety.go), borrow/exclusivity
// checking (borrow.go), trap-insertion bookkeeping consumed later by
// internal/lower, and exhaustive-switch/const evaluation (const.go,
// exhaustive.go).
//
// The reference implementation splits this across typecheck/{mod,safety,
// context}.rs; context.rs (borrow checking) was an unimplemented stub, so
// borrow.go is a fresh design rather than a port. Everything else here is
// grounded on typecheck/mod.rs's InferContext/infer_expr/check_stmt shape,
// adapted into a single Checker that also fixes two known gaps in the
// original: struct literals are validated field-by-field against their
// declaration, and field access resolves to the declared field type
// instead of a placeholder.
package typecheck

import (
	"fastc/internal/ast"
	"fastc/internal/diag"
	"fastc/internal/symtab"
	"fastc/internal/token"
	"fastc/internal/types"
)

// Info is the output of a successful (or partially successful, if the
// diagnostic bag holds only warnings) check: every piece of static
// information internal/lower needs to turn the AST into a C AST without
// re-deriving it.
type Info struct {
	ExprTypes   map[ast.Expr]types.Type
	Structs     map[string]*types.Struct
	Enums       map[string]*types.Enum
	Opaques     map[string]*types.Opaque
	Funcs       map[string]*types.Fn
	FuncDecls   map[string]*ast.FnDecl
	Consts      map[string]ConstValue
	Unsafe      map[ast.Expr]bool // true if the expr's enclosing context was unsafe
}

type enumVariantRef struct {
	enum *types.Enum
	idx  int
}

// Checker threads all of §4.4's sub-analyses through a single resolved
// AST pass.
type Checker struct {
	file    *ast.File
	symbols *symtab.Table
	diags   *diag.Bag

	safety *SafetyContext
	borrow *BorrowChecker

	structs map[string]*types.Struct
	enums   map[string]*types.Enum
	opaques map[string]*types.Opaque
	funcs   map[string]*types.Fn
	funcDecls map[string]*ast.FnDecl
	consts  map[string]ConstValue

	enumVariantOrdinal map[string]enumVariantRef

	exprTypes map[ast.Expr]types.Type
	unsafeAt  map[ast.Expr]bool

	currentReturn types.Type
	loopDepth     int
	// paramNames is the set of the current function's parameter names, used
	// by the borrow checker's "returning a reference must trace to a
	// parameter" rule (spec.md §4.4.3).
	paramNames map[string]bool
	// letInits records each local's initializer expression (by name) for
	// the current function, so checkReturnedBorrow can follow a borrow
	// threaded through one or more `let` bindings back to the addr(...)
	// call that created it.
	letInits map[string]ast.Expr
	// envs is the stack of resolved-type local variable scopes for the
	// function currently being checked.
	envs []map[string]types.Type
}

// New creates a Checker over an already-resolved file (internal/resolve
// must have run first so symtab queries for struct/enum/opaque/const names
// succeed).
func New(file *ast.File, symbols *symtab.Table, diags *diag.Bag) *Checker {
	return &Checker{
		file:               file,
		symbols:            symbols,
		diags:              diags,
		safety:             NewSafetyContext(),
		structs:            make(map[string]*types.Struct),
		enums:              make(map[string]*types.Enum),
		opaques:            make(map[string]*types.Opaque),
		funcs:              make(map[string]*types.Fn),
		funcDecls:          make(map[string]*ast.FnDecl),
		consts:             make(map[string]ConstValue),
		enumVariantOrdinal: make(map[string]enumVariantRef),
		exprTypes:          make(map[ast.Expr]types.Type),
		unsafeAt:           make(map[ast.Expr]bool),
	}
}

// Check runs the full type-checking pass and returns the accumulated
// static Info. Callers should consult c.diags (shared with the rest of the
// pipeline) via diag.Bag.HasErrors before proceeding to lowering.
func (c *Checker) Check() *Info {
	c.declarePass()
	c.checkPass()
	return &Info{
		ExprTypes: c.exprTypes,
		Structs:   c.structs,
		Enums:     c.enums,
		Opaques:   c.opaques,
		Funcs:     c.funcs,
		FuncDecls: c.funcDecls,
		Consts:    c.consts,
		Unsafe:    c.unsafeAt,
	}
}

// declarePass resolves every struct/enum/opaque/const/function signature to
// a types.Type before any function body is checked, so forward references
// (spec.md §3: "items are order-independent within a file") type-check
// regardless of declaration order.
func (c *Checker) declarePass() {
	for _, item := range c.file.Items {
		switch d := item.(type) {
		case *ast.StructDecl:
			c.structs[d.Name] = &types.Struct{Name: d.Name, ReprC: d.Repr == ast.ReprC}
		case *ast.EnumDecl:
			c.enums[d.Name] = &types.Enum{Name: d.Name, Repr: enumRepr(d.Repr)}
		case *ast.OpaqueDecl:
			c.opaques[d.Name] = &types.Opaque{Name: d.Name}
		}
	}
	for _, item := range c.file.Items {
		switch d := item.(type) {
		case *ast.StructDecl:
			s := c.structs[d.Name]
			for _, f := range d.Fields {
				s.Fields = append(s.Fields, types.StructField{Name: f.Name, Type: c.resolveTypeExpr(f.Type)})
			}
		case *ast.EnumDecl:
			e := c.enums[d.Name]
			for i, v := range d.Variants {
				var fields []types.Type
				if v.Fields != nil {
					fields = make([]types.Type, len(v.Fields))
					for j, ft := range v.Fields {
						fields[j] = c.resolveTypeExpr(ft)
					}
				}
				e.Variants = append(e.Variants, types.EnumVariant{Name: v.Name, Fields: fields})
				c.enumVariantOrdinal[d.Name+"_"+v.Name] = enumVariantRef{enum: e, idx: i}
			}
		case *ast.FnDecl:
			c.funcs[d.Name] = c.fnSignature(d.Params, d.ReturnType, d.Unsafe)
			c.funcDecls[d.Name] = d
		case *ast.ExternBlock:
			for _, it := range d.Items {
				if p, ok := it.(*ast.FnProto); ok {
					c.funcs[p.Name] = c.fnSignature(p.Params, p.ReturnType, true)
				}
			}
		case *ast.ModDecl:
			// Cross-file module bodies are out of this pass's scope; an
			// inline body's items were already flattened by the resolver
			// into the same symbol table, so nothing further is needed
			// here for type declaration.
		}
	}
	// Consts are folded in declaration order: a const may reference an
	// earlier const, never a later one (spec.md §4.4.6 has no forward
	// const references since const evaluation is a simple fold).
	for _, item := range c.file.Items {
		if d, ok := item.(*ast.ConstDecl); ok {
			v, ok := c.evalConst(d.Value)
			if !ok {
				continue
			}
			if d.Type != nil {
				declared := c.resolveTypeExpr(d.Type)
				v = c.coerceConstTo(d, v, declared)
			}
			c.consts[d.Name] = v
		}
	}
}

func (c *Checker) coerceConstTo(d *ast.ConstDecl, v ConstValue, declared types.Type) ConstValue {
	if !types.Equal(v.Type, declared) && !types.CanCast(v.Type, declared) {
		c.diags.Errorf("E0311", d.Sp, "const '%s' initializer has type %s, declared type is %s", d.Name, v.Type.String(), declared.String())
		return v
	}
	v.Type = declared
	return v
}

func enumRepr(r ast.Repr) types.Prim {
	switch r {
	case ast.ReprI8:
		return types.I8
	case ast.ReprU8:
		return types.U8
	case ast.ReprI16:
		return types.I16
	case ast.ReprU16:
		return types.U16
	case ast.ReprU32:
		return types.U32
	case ast.ReprI64:
		return types.I64
	case ast.ReprU64:
		return types.U64
	default:
		return types.I32
	}
}

func (c *Checker) fnSignature(params []ast.Param, ret ast.TypeExpr, unsafe bool) *types.Fn {
	f := &types.Fn{Unsafe: unsafe}
	for _, p := range params {
		f.Params = append(f.Params, c.resolveTypeExpr(p.Type))
	}
	if ret != nil {
		f.Return = c.resolveTypeExpr(ret)
	} else {
		f.Return = types.Void
	}
	return f
}

// resolveTypeExpr converts a syntactic type expression into the closed
// type algebra, resolving Named references against the struct/enum/opaque
// tables built by declarePass.
func (c *Checker) resolveTypeExpr(te ast.TypeExpr) types.Type {
	switch t := te.(type) {
	case *ast.Primitive:
		return primitiveOf(t.Kind)
	case *ast.Ref:
		return &types.Ref{Mutable: t.Mutable, Inner: c.resolveTypeExpr(t.Inner)}
	case *ast.RawPtr:
		return &types.RawPtr{Mutable: t.Mutable, Inner: c.resolveTypeExpr(t.Inner)}
	case *ast.Own:
		return &types.Own{Inner: c.resolveTypeExpr(t.Inner)}
	case *ast.Slice:
		return &types.Slice{Inner: c.resolveTypeExpr(t.Inner)}
	case *ast.Array:
		n := c.constArrayLen(t.Size)
		return &types.Array{Inner: c.resolveTypeExpr(t.Inner), N: n}
	case *ast.Opt:
		return &types.Opt{Inner: c.resolveTypeExpr(t.Inner)}
	case *ast.Res:
		return &types.Res{Ok: c.resolveTypeExpr(t.Ok), Err: c.resolveTypeExpr(t.Err)}
	case *ast.FnType:
		f := &types.Fn{Unsafe: t.Unsafe, Return: types.Void}
		for _, p := range t.Params {
			f.Params = append(f.Params, c.resolveTypeExpr(p))
		}
		if t.Return != nil {
			f.Return = c.resolveTypeExpr(t.Return)
		}
		return f
	case *ast.Named:
		if s, ok := c.structs[t.Name]; ok {
			return s
		}
		if e, ok := c.enums[t.Name]; ok {
			return e
		}
		if o, ok := c.opaques[t.Name]; ok {
			return o
		}
		c.diags.Errorf("E0312", t.Sp, "unknown type '%s'", t.Name)
		return types.Void
	}
	return types.Void
}

func (c *Checker) constArrayLen(e ast.Expr) uint64 {
	v, ok := c.evalConst(e)
	if !ok || v.Kind != ConstInt || v.I < 0 {
		c.diags.Errorf("E0313", e.Span(), "array length must be a non-negative const integer expression")
		return 0
	}
	return uint64(v.I)
}

func primitiveOf(k token.Kind) types.Type {
	switch k {
	case token.I8:
		return types.I8
	case token.I16:
		return types.I16
	case token.I32:
		return types.I32
	case token.I64:
		return types.I64
	case token.U8:
		return types.U8
	case token.U16:
		return types.U16
	case token.U32:
		return types.U32
	case token.U64:
		return types.U64
	case token.ISIZE:
		return types.ISize
	case token.USIZE:
		return types.USize
	case token.F32:
		return types.F32
	case token.F64:
		return types.F64
	case token.BOOL:
		return types.Bool
	case token.VOID:
		return types.Void
	}
	return types.Void
}
