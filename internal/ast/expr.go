package ast

import "fastc/internal/token"

// BinOp identifies a binary operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	EqOp
	NeOp
	LtOp
	LeOp
	GtOp
	GeOp
	LAnd
	LOr
	BAnd
	BOr
	BXor
	Shl
	Shr
)

// UnaryOp identifies a unary prefix operator.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	BitNot
)

// Expr is an untyped expression node. Every variant carries its own span.
type Expr interface {
	Span() token.Span
}

type IntLit struct {
	Raw string // original textual form, preserved verbatim into lowering
	Sp  token.Span
}

func (e *IntLit) Span() token.Span { return e.Sp }

type FloatLit struct {
	Raw string
	Sp  token.Span
}

func (e *FloatLit) Span() token.Span { return e.Sp }

type BoolLit struct {
	Value bool
	Sp    token.Span
}

func (e *BoolLit) Span() token.Span { return e.Sp }

type Ident struct {
	Name string
	Sp   token.Span
}

func (e *Ident) Span() token.Span { return e.Sp }

// CStrLit is cstr("..."); lowers to raw(u8) pointing at a C string literal.
type CStrLit struct {
	Value string
	Sp    token.Span
}

func (e *CStrLit) Span() token.Span { return e.Sp }

// BytesLit is bytes("..."); lowers to slice(u8).
type BytesLit struct {
	Value string
	Sp    token.Span
}

func (e *BytesLit) Span() token.Span { return e.Sp }

// Binary is a single binary operation; the single-operator grammar rule
// means operands are never themselves unparenthesized Binary nodes unless
// already wrapped in Paren.
type Binary struct {
	Op    BinOp
	Left  Expr
	Right Expr
	Sp    token.Span
}

func (e *Binary) Span() token.Span { return e.Sp }

type Unary struct {
	Op      UnaryOp
	Operand Expr
	Sp      token.Span
}

func (e *Unary) Span() token.Span { return e.Sp }

type Paren struct {
	Inner Expr
	Sp    token.Span
}

func (e *Paren) Span() token.Span { return e.Sp }

type Call struct {
	Callee Expr
	Args   []Expr
	Sp     token.Span
}

func (e *Call) Span() token.Span { return e.Sp }

type Field struct {
	Base  Expr
	Name  string
	Sp    token.Span
}

func (e *Field) Span() token.Span { return e.Sp }

// Addr is addr(x): take a reference to an addressable expression.
type Addr struct {
	Mutable bool // addr_mut vs addr is disambiguated by the parser's call form; see parser
	Operand Expr
	Sp      token.Span
}

func (e *Addr) Span() token.Span { return e.Sp }

// Deref is deref(p).
type Deref struct {
	Operand Expr
	Sp      token.Span
}

func (e *Deref) Span() token.Span { return e.Sp }

// At is at(collection, index).
type At struct {
	Base  Expr
	Index Expr
	Sp    token.Span
}

func (e *At) Span() token.Span { return e.Sp }

// Cast is cast(Type, expr).
type Cast struct {
	Target TypeExpr
	Operand Expr
	Sp      token.Span
}

func (e *Cast) Span() token.Span { return e.Sp }

// NoneLit is none(Type): an absent optional of the given inner type.
type NoneLit struct {
	Inner TypeExpr
	Sp    token.Span
}

func (e *NoneLit) Span() token.Span { return e.Sp }

// SomeLit is some(expr): a present optional wrapping expr.
type SomeLit struct {
	Value Expr
	Sp    token.Span
}

func (e *SomeLit) Span() token.Span { return e.Sp }

// OkLit is ok(expr): the ok side of a result.
type OkLit struct {
	Value Expr
	Sp    token.Span
}

func (e *OkLit) Span() token.Span { return e.Sp }

// ErrLit is err(expr): the err side of a result.
type ErrLit struct {
	Value Expr
	Sp    token.Span
}

func (e *ErrLit) Span() token.Span { return e.Sp }

// Builtin covers the is_some/is_none/is_ok/is_err/unwrap/unwrap_or/
// unwrap_err/unwrap_checked/to_raw/to_rawm/from_raw/from_rawm/
// from_raw_unchecked/from_rawm_unchecked/len call forms: single-argument
// (plus optional second argument for unwrap_or) builtins that behave like
// functions but are recognized syntactically rather than resolved as
// ordinary calls, matching the reference lexer's extended builtin set.
type Builtin struct {
	Name string // e.g. "is_some", "unwrap_or"
	Args []Expr
	Sp   token.Span
}

func (e *Builtin) Span() token.Span { return e.Sp }

// FieldInit is one field: value entry of a struct literal.
type FieldInit struct {
	Name  string
	Value Expr
	Sp    token.Span
}

// StructLit is Name { field: value, ... }.
type StructLit struct {
	Name   string
	Fields []FieldInit
	Sp     token.Span
}

func (e *StructLit) Span() token.Span { return e.Sp }
