package ast

import "fastc/internal/token"

// Repr is an explicit @repr(...) attribute.
type Repr int

const (
	ReprNone Repr = iota
	ReprC
	ReprI8
	ReprU8
	ReprI16
	ReprU16
	ReprI32
	ReprU32
	ReprI64
	ReprU64
)

// Item is a top-level (or module-nested) declaration. Items are
// order-independent within a file; forward references are allowed.
type Item interface {
	Span() token.Span
}

type Param struct {
	Name string
	Type TypeExpr
	Sp   token.Span
}

type FnDecl struct {
	Pub        bool
	Unsafe     bool
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Body       *Block // nil for a prototype (extern items use FnProto instead)
	Sp         token.Span
}

func (d *FnDecl) Span() token.Span { return d.Sp }

type FieldDecl struct {
	Name string
	Type TypeExpr
	Sp   token.Span
}

type StructDecl struct {
	Pub    bool
	Repr   Repr
	Name   string
	Fields []FieldDecl
	Sp     token.Span
}

func (d *StructDecl) Span() token.Span { return d.Sp }

// Variant is one enum variant. Fields is nil for a plain unit variant;
// non-nil (possibly empty) marks a data-carrying variant -- reserved syntax
// per spec.md §3, accepted by the parser and type checker, lowered to a
// tagged union.
type Variant struct {
	Name   string
	Fields []TypeExpr
	Sp     token.Span
}

type EnumDecl struct {
	Pub      bool
	Repr     Repr // discriminant width; ReprNone means the default i32
	Name     string
	Variants []Variant
	Sp       token.Span
}

func (d *EnumDecl) Span() token.Span { return d.Sp }

type ConstDecl struct {
	Pub   bool
	Name  string
	Type  TypeExpr
	Value Expr // restricted to the const-expression sub-grammar
	Sp    token.Span
}

func (d *ConstDecl) Span() token.Span { return d.Sp }

// OpaqueDecl declares a named incomplete type, usable only behind a pointer
// or own(T).
type OpaqueDecl struct {
	Pub  bool
	Name string
	Sp   token.Span
}

func (d *OpaqueDecl) Span() token.Span { return d.Sp }

// FnProto is a function prototype inside an extern block: no body, always
// implicitly unsafe to call regardless of a declared `unsafe` keyword.
type FnProto struct {
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Sp         token.Span
}

// ExternItem is either a *FnProto or a nested *StructDecl/*OpaqueDecl
// declared for FFI purposes.
type ExternItem interface {
	Span() token.Span
}

func (d *FnProto) Span() token.Span { return d.Sp }

type ExternBlock struct {
	Abi   string // always "C" in practice; grammar allows the literal form
	Items []ExternItem
	Sp    token.Span
}

func (d *ExternBlock) Span() token.Span { return d.Sp }

// UseKind distinguishes the shapes of a `use` declaration.
type UseKind int

const (
	UseSingle UseKind = iota
	UseMultiple
	UseGlob
	UseModule
)

type UseDecl struct {
	Path  []string
	Kind  UseKind
	Names []string // for UseMultiple
	Sp    token.Span
}

func (d *UseDecl) Span() token.Span { return d.Sp }

type ModDecl struct {
	Pub  bool
	Name string
	Body []Item // nil for an external-file module (`mod name;`)
	Sp   token.Span
}

func (d *ModDecl) Span() token.Span { return d.Sp }

// File is a complete FastC source file: an ordered sequence of items.
type File struct {
	Items []Item
}
