// Package types implements FastC's closed type algebra (spec.md §3).
//
// chai's typing.DataType is an open, extensible interface meant to support
// a much larger language (classes, generics, algebraic types). FastC's type
// universe is closed and small, so it is modeled as a concrete sum type
// (an interface with a fixed set of struct implementations) instead --
// closer to the reference implementation's TypeExpr enum than to chai's
// extension point, but keeping chai's top-level Equals/coerce naming shape.
package types

// Type is any member of FastC's closed type algebra.
type Type interface {
	String() string
	isType()
}

// Prim is a primitive scalar type.
type Prim int

const (
	I8 Prim = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	ISize
	USize
	F32
	F64
	Bool
	Void
)

func (Prim) isType() {}

var primNames = map[Prim]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	ISize: "isize", USize: "usize", F32: "f32", F64: "f64",
	Bool: "bool", Void: "void",
}

func (p Prim) String() string { return primNames[p] }

// IsInteger reports whether p is one of the (signed or unsigned) integer
// primitives.
func (p Prim) IsInteger() bool {
	switch p {
	case I8, I16, I32, I64, U8, U16, U32, U64, ISize, USize:
		return true
	}
	return false
}

// IsSigned reports whether p is a signed integer primitive.
func (p Prim) IsSigned() bool {
	switch p {
	case I8, I16, I32, I64, ISize:
		return true
	}
	return false
}

// IsFloat reports whether p is a floating-point primitive.
func (p Prim) IsFloat() bool { return p == F32 || p == F64 }

// IsNumeric reports whether p is an integer or float primitive.
func (p Prim) IsNumeric() bool { return p.IsInteger() || p.IsFloat() }

// Width returns the bit width of an integer primitive, or -1 if p is not a
// fixed-width integer (isize/usize are pointer-width and return -1: their
// width is a lowering/target concern, not a checker concern).
func (p Prim) Width() int {
	switch p {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	}
	return -1
}

// Ref is ref(T) or mref(T): a non-null, safe pointer.
type Ref struct {
	Mutable bool
	Inner   Type
}

func (*Ref) isType() {}
func (r *Ref) String() string {
	if r.Mutable {
		return "mref(" + r.Inner.String() + ")"
	}
	return "ref(" + r.Inner.String() + ")"
}

// RawPtr is raw(T) or rawm(T): a nullable, unsafe-to-dereference pointer.
type RawPtr struct {
	Mutable bool
	Inner   Type
}

func (*RawPtr) isType() {}
func (r *RawPtr) String() string {
	if r.Mutable {
		return "rawm(" + r.Inner.String() + ")"
	}
	return "raw(" + r.Inner.String() + ")"
}

// Own is own(T): a move-only heap owner.
type Own struct{ Inner Type }

func (*Own) isType()        {}
func (o *Own) String() string { return "own(" + o.Inner.String() + ")" }

// Slice is slice(T): a fat pointer {data, len}.
type Slice struct{ Inner Type }

func (*Slice) isType()        {}
func (s *Slice) String() string { return "slice(" + s.Inner.String() + ")" }

// Array is arr(T, N): a fixed-length array.
type Array struct {
	Inner Type
	N     uint64
}

func (*Array) isType() {}
func (a *Array) String() string {
	return "arr(" + a.Inner.String() + ", " + itoa(a.N) + ")"
}

// Opt is opt(T): present/absent.
type Opt struct{ Inner Type }

func (*Opt) isType()        {}
func (o *Opt) String() string { return "opt(" + o.Inner.String() + ")" }

// Res is res(T, E): ok/err.
type Res struct {
	Ok  Type
	Err Type
}

func (*Res) isType() {}
func (r *Res) String() string {
	return "res(" + r.Ok.String() + ", " + r.Err.String() + ")"
}

// Fn is fn(T1,...) -> R, optionally unsafe.
type Fn struct {
	Unsafe bool
	Params []Type
	Return Type
}

func (*Fn) isType() {}
func (f *Fn) String() string {
	s := "fn("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ") -> " + f.Return.String()
	if f.Unsafe {
		s = "unsafe " + s
	}
	return s
}

// Struct is a named, ordered-field aggregate type.
type Struct struct {
	Name   string
	ReprC  bool
	Fields []StructField
}

// StructField is one field of a Struct, used both for layout and for name
// lookup during field-access checking.
type StructField struct {
	Name string
	Type Type
}

func (*Struct) isType()        {}
func (s *Struct) String() string { return s.Name }

// FieldType returns the type of the named field, or nil if no such field
// exists.
func (s *Struct) FieldType(name string) Type {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

// Enum is a named type with ordered unit (or, for a variant whose Fields is
// non-nil, data-carrying) variants.
type Enum struct {
	Name     string
	Repr     Prim // discriminant width; I32 is the default
	Variants []EnumVariant
}

// EnumVariant is one variant of an Enum. Fields is nil for a plain unit
// variant (the common case); non-nil for the reserved data-carrying form.
type EnumVariant struct {
	Name   string
	Fields []Type
}

func (*Enum) isType()        {}
func (e *Enum) String() string { return e.Name }

// HasData reports whether any variant of e carries associated data.
func (e *Enum) HasData() bool {
	for _, v := range e.Variants {
		if v.Fields != nil {
			return true
		}
	}
	return false
}

// Opaque is a named incomplete type, usable only behind a pointer or own().
type Opaque struct{ Name string }

func (*Opaque) isType()        {}
func (o *Opaque) String() string { return o.Name }

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
