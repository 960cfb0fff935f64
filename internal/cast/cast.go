// Package cast defines the C abstract syntax tree internal/lower produces
// and internal/emit renders to C11 text. Node shapes are grounded directly
// on the reference implementation's lower/c_ast.rs (CFile/CDecl/CField/
// CFnProto/CFnDef/CParam/CType/CStmt/CExpr/CBinOp/CUnaryOp), translated from
// Rust enums into Go's interface-plus-concrete-struct idiom -- the same
// closed-sum-type pattern used by internal/ast and internal/types.
//
// Named "cast" (C AST) to stay distinct from internal/types, FastC's typed
// source-level type algebra.
package cast

// File is one translation unit's worth of output: a C source file with its
// companion header content not yet split apart (internal/emit performs the
// public/private split when header generation is requested).
type File struct {
	Includes     []string
	ForwardDecls []string
	TypeDefs     []Decl
	Consts       []*ConstDef
	FnProtos     []*FnProto
	FnDefs       []*FnDef
}

// ConstDef is a top-level `static const ty name = value;`.
type ConstDef struct {
	Name   string
	Type   Type
	Value  Expr
	Static bool
}

// Decl is a top-level struct/typedef/enum declaration.
type Decl interface{ isDecl() }

// StructDecl is `struct name { fields... };`.
type StructDecl struct {
	Name   string
	Fields []Field
	// Packed requests no padding, mirroring @repr(C) source structs whose
	// layout must match a C caller's expectations exactly.
	Packed bool
}

func (*StructDecl) isDecl() {}

// TypedefDecl is `typedef ty name;`.
type TypedefDecl struct {
	Name string
	Type Type
}

func (*TypedefDecl) isDecl() {}

// EnumDecl is a plain (non-data-carrying) enum's discriminant. Repr is the
// integer type the discriminant is typedef'd to -- always set, defaulting
// to int32_t, so sizeof(Name) always matches the declared representation
// width (spec.md §4.1 invariant 5/testable property 6) regardless of what
// underlying type the C compiler would otherwise have picked for a bare
// `enum`. Values gives each variant's ordinal, in declaration order.
// Data-carrying enums lower to a StructDecl wrapping a tagged union
// instead (see internal/lower); their tag also uses this node.
type EnumDecl struct {
	Name     string
	Variants []string
	Values   []int64
	Repr     Type
}

func (*EnumDecl) isDecl() {}

// UnionDecl is `union name { fields... };`, used as the payload member of
// a data-carrying enum's tagged struct.
type UnionDecl struct {
	Name   string
	Fields []Field
}

func (*UnionDecl) isDecl() {}

// Field is one member of a struct/union declaration.
type Field struct {
	Name string
	Type Type
}

// FnProto is a function prototype (used both for forward declarations and
// header emission).
type FnProto struct {
	Name       string
	Params     []Param
	ReturnType Type
	Static     bool // true for non-pub functions, hidden from the header
}

// Param is one function parameter.
type Param struct {
	Name string
	Type Type
}

// FnDef is a full function definition.
type FnDef struct {
	Name       string
	Params     []Param
	ReturnType Type
	Body       []Stmt
	Static     bool
}

// Type is a C type expression.
type Type interface{ isType() }

type PrimType int

const (
	CVoid PrimType = iota
	CBool
	CInt8
	CInt16
	CInt32
	CInt64
	CUInt8
	CUInt16
	CUInt32
	CUInt64
	CFloat
	CDouble
	CSizeT
	CPtrDiffT
)

func (PrimType) isType() {}

// PtrType is `ty *`.
type PtrType struct{ Inner Type }

func (*PtrType) isType() {}

// ConstPtrType is `const ty *`.
type ConstPtrType struct{ Inner Type }

func (*ConstPtrType) isType() {}

// ArrayType is `ty[N]`.
type ArrayType struct {
	Inner Type
	N     uint64
}

func (*ArrayType) isType() {}

// NamedType references a previously declared struct/union/typedef/enum by
// name (e.g. a slice-of-T or opt-of-T typedef internal/lower synthesized).
type NamedType struct{ Name string }

func (*NamedType) isType() {}

// Stmt is a C statement.
type Stmt interface{ isStmt() }

type VarDecl struct {
	Name string
	Type Type
	Init Expr // nil for an uninitialized declaration
}

func (*VarDecl) isStmt() {}

type Assign struct {
	Lhs Expr
	Rhs Expr
}

func (*Assign) isStmt() {}

type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if absent
}

func (*If) isStmt() {}

type While struct {
	Cond Expr
	Body []Stmt
}

func (*While) isStmt() {}

// For is a full C `for (init; cond; step) { body }` -- freshly designed:
// the reference implementation declares CStmt::For but lower_stmt never
// constructs one (for-loop lowering is unimplemented there).
type For struct {
	Init Stmt // VarDecl or Assign or ExprStmt, nil if omitted
	Cond Expr // nil if omitted
	Step Stmt // Assign or ExprStmt, nil if omitted
	Body []Stmt
}

func (*For) isStmt() {}

type Return struct{ Value Expr } // Value nil for `return;`

func (*Return) isStmt() {}

type ExprStmt struct{ Value Expr }

func (*ExprStmt) isStmt() {}

type Block struct{ Stmts []Stmt }

func (*Block) isStmt() {}

// Goto/Label implement defer-to-cleanup-label lowering (spec.md §9): a
// function containing a defer gets a single function-wide cleanup label,
// reached via goto from every return, running registered defers in reverse
// order.
type Goto struct{ Label string }

func (*Goto) isStmt() {}

type Label struct{ Name string }

func (*Label) isStmt() {}

type Switch struct {
	Expr    Expr
	Cases   []SwitchCase
	Default []Stmt // nil if absent
}

func (*Switch) isStmt() {}

// SwitchCase is one `case value: { body }` arm. C's fallthrough semantics
// are never relied upon: internal/lower always terminates a case's body
// with an explicit Break unless the body itself returns/gotos.
type SwitchCase struct {
	Value Expr
	Body  []Stmt
}

type Break struct{}

func (*Break) isStmt() {}

type Continue struct{}

func (*Continue) isStmt() {}

// Expr is a C expression.
type Expr interface{ isExpr() }

type IntLit struct{ Value string }

func (*IntLit) isExpr() {}

type FloatLit struct{ Value string }

func (*FloatLit) isExpr() {}

type BoolLit struct{ Value bool }

func (*BoolLit) isExpr() {}

type StringLit struct{ Value string }

func (*StringLit) isExpr() {}

type Ident struct{ Name string }

func (*Ident) isExpr() {}

type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	LAnd
	LOr
	BAnd
	BOr
	BXor
	Shl
	Shr
)

type Binary struct {
	Op    BinOp
	Lhs   Expr
	Rhs   Expr
}

func (*Binary) isExpr() {}

type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	BitNot
)

type Unary struct {
	Op      UnaryOp
	Operand Expr
}

func (*Unary) isExpr() {}

type Call struct {
	Func Expr
	Args []Expr
}

func (*Call) isExpr() {}

type FieldExpr struct {
	Base  Expr
	Field string
	// Arrow selects `->` instead of `.`; internal/lower decides this from
	// whether Base's C type is a pointer.
	Arrow bool
}

func (*FieldExpr) isExpr() {}

type DerefExpr struct{ Operand Expr }

func (*DerefExpr) isExpr() {}

type AddrOf struct{ Operand Expr }

func (*AddrOf) isExpr() {}

type IndexExpr struct {
	Base  Expr
	Index Expr
}

func (*IndexExpr) isExpr() {}

type CastExpr struct {
	Type Type
	Expr Expr
}

func (*CastExpr) isExpr() {}

type ParenExpr struct{ Inner Expr }

func (*ParenExpr) isExpr() {}

// Ternary is C's `cond ? then : else`, used to lower unwrap_or's
// default-value fallback inline rather than hoisting it into an if/else
// over a temporary.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*Ternary) isExpr() {}

// CompoundLit is a C99 compound literal `(Type){ .field = value, ... }`,
// used to construct struct/union/slice/opt/res values inline.
type CompoundLit struct {
	Type   Type
	Fields []CompoundField
}

func (*CompoundLit) isExpr() {}

// CompoundField is one `.name = value` designated initializer entry.
// Name is empty for positional initializers.
type CompoundField struct {
	Name  string
	Value Expr
}
