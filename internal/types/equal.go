package types

// Equal performs exact structural comparison -- FastC has no implicit
// conversion (spec.md §4.4.1), so type compatibility is always this
// function, never a coercion lattice.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case Prim:
		y, ok := b.(Prim)
		return ok && x == y
	case *Ref:
		y, ok := b.(*Ref)
		return ok && x.Mutable == y.Mutable && Equal(x.Inner, y.Inner)
	case *RawPtr:
		y, ok := b.(*RawPtr)
		return ok && x.Mutable == y.Mutable && Equal(x.Inner, y.Inner)
	case *Own:
		y, ok := b.(*Own)
		return ok && Equal(x.Inner, y.Inner)
	case *Slice:
		y, ok := b.(*Slice)
		return ok && Equal(x.Inner, y.Inner)
	case *Array:
		y, ok := b.(*Array)
		return ok && x.N == y.N && Equal(x.Inner, y.Inner)
	case *Opt:
		y, ok := b.(*Opt)
		return ok && Equal(x.Inner, y.Inner)
	case *Res:
		y, ok := b.(*Res)
		return ok && Equal(x.Ok, y.Ok) && Equal(x.Err, y.Err)
	case *Fn:
		y, ok := b.(*Fn)
		if !ok || x.Unsafe != y.Unsafe || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Equal(x.Return, y.Return)
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x.Name == y.Name
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x.Name == y.Name
	case *Opaque:
		y, ok := b.(*Opaque)
		return ok && x.Name == y.Name
	}
	return false
}

// IsBool reports whether t is the boolean primitive.
func IsBool(t Type) bool {
	p, ok := t.(Prim)
	return ok && p == Bool
}

// IsInteger reports whether t is an integer primitive.
func IsInteger(t Type) bool {
	p, ok := t.(Prim)
	return ok && p.IsInteger()
}

// IsNumeric reports whether t is an integer or float primitive.
func IsNumeric(t Type) bool {
	p, ok := t.(Prim)
	return ok && p.IsNumeric()
}

// CanCast reports whether an explicit cast(to, expr) from `from` to `to` is
// permitted. This governs only the *typing* legality of the cast; whether
// the cast additionally requires an unsafe context is a capability-tracking
// concern handled by the type checker, not here.
func CanCast(from, to Type) bool {
	if fp, ok := from.(Prim); ok {
		if tp, ok := to.(Prim); ok {
			return fp.IsNumeric() && tp.IsNumeric() ||
				fp.IsInteger() && tp == Bool ||
				fp == Bool && tp.IsInteger()
		}
	}
	// enum <-> integer
	if _, ok := from.(*Enum); ok {
		if tp, ok := to.(Prim); ok {
			return tp.IsInteger()
		}
	}
	if fp, ok := from.(Prim); ok {
		if _, ok := to.(*Enum); ok {
			return fp.IsInteger()
		}
	}
	// pointer-kind bridging casts: ref->raw, mref->rawm, raw->raw, rawm->rawm
	// (changing pointee type), each requiring unsafe at the checker level.
	switch f := from.(type) {
	case *Ref:
		if t, ok := to.(*RawPtr); ok {
			return f.Mutable == t.Mutable
		}
	case *RawPtr:
		if t, ok := to.(*RawPtr); ok {
			return f.Mutable == t.Mutable
		}
	}
	return false
}

// RequiresUnsafeCast reports whether a legal cast between from and to
// additionally requires an unsafe context (bridging between pointer
// kinds), per spec.md §4.4.2.
func RequiresUnsafeCast(from, to Type) bool {
	switch from.(type) {
	case *Ref, *RawPtr:
		switch to.(type) {
		case *Ref, *RawPtr:
			return true
		}
	}
	return false
}
