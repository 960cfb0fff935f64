// Package ast defines the untyped syntax tree produced by the parser.
//
// Node shapes follow the reference implementation's ast/{types,expr,stmt,decl}.rs
// translated into idiomatic Go (interfaces + concrete struct variants)
// rather than chai's sem/hir_* tree, since chai's HIR is built incrementally
// during resolution while FastC's parser produces a complete tree up front.
package ast

import "fastc/internal/token"

// TypeExpr is a syntactic type expression as written in source.
type TypeExpr interface {
	Span() token.Span
}

// Primitive is one of the primitive scalar type keywords.
type Primitive struct {
	Kind token.Kind // I8, I16, ..., F64, BOOL, VOID, ISIZE, USIZE
	Sp   token.Span
}

func (p *Primitive) Span() token.Span { return p.Sp }

// Ref is ref(T) or mref(T).
type Ref struct {
	Mutable bool
	Inner   TypeExpr
	Sp      token.Span
}

func (r *Ref) Span() token.Span { return r.Sp }

// RawPtr is raw(T) or rawm(T).
type RawPtr struct {
	Mutable bool
	Inner   TypeExpr
	Sp      token.Span
}

func (r *RawPtr) Span() token.Span { return r.Sp }

// Own is own(T).
type Own struct {
	Inner TypeExpr
	Sp    token.Span
}

func (o *Own) Span() token.Span { return o.Sp }

// Slice is slice(T).
type Slice struct {
	Inner TypeExpr
	Sp    token.Span
}

func (s *Slice) Span() token.Span { return s.Sp }

// Array is arr(T, N) where N is a const expression.
type Array struct {
	Inner TypeExpr
	Size  Expr
	Sp    token.Span
}

func (a *Array) Span() token.Span { return a.Sp }

// Opt is opt(T).
type Opt struct {
	Inner TypeExpr
	Sp    token.Span
}

func (o *Opt) Span() token.Span { return o.Sp }

// Res is res(T, E).
type Res struct {
	Ok  TypeExpr
	Err TypeExpr
	Sp  token.Span
}

func (r *Res) Span() token.Span { return r.Sp }

// FnType is [unsafe] fn(T1,...) -> R.
type FnType struct {
	Unsafe  bool
	Params  []TypeExpr
	Return  TypeExpr
	Sp      token.Span
}

func (f *FnType) Span() token.Span { return f.Sp }

// Named is a reference to a struct, enum, or opaque type by name.
type Named struct {
	Name string
	Sp   token.Span
}

func (n *Named) Span() token.Span { return n.Sp }
