package lower

import (
	"fastc/internal/cast"
	"fastc/internal/types"
)

// lowerType converts a checked type into its C representation, synthesizing
// slice(T)/opt(T)/res(T,E) typedefs on first use and caching them so the
// same source type always maps to the same C name (spec.md §9:
// deterministic, stable lowering).
func (l *Lowerer) lowerType(t types.Type) cast.Type {
	switch v := t.(type) {
	case types.Prim:
		return lowerPrim(v)
	case *types.Ref:
		if v.Mutable {
			return &cast.PtrType{Inner: l.lowerType(v.Inner)}
		}
		return &cast.ConstPtrType{Inner: l.lowerType(v.Inner)}
	case *types.RawPtr:
		if v.Mutable {
			return &cast.PtrType{Inner: l.lowerType(v.Inner)}
		}
		return &cast.ConstPtrType{Inner: l.lowerType(v.Inner)}
	case *types.Own:
		return &cast.PtrType{Inner: l.lowerType(v.Inner)}
	case *types.Array:
		return &cast.ArrayType{Inner: l.lowerType(v.Inner), N: v.N}
	case *types.Slice:
		return &cast.NamedType{Name: l.sliceTypeName(v)}
	case *types.Opt:
		return &cast.NamedType{Name: l.optTypeName(v)}
	case *types.Res:
		return &cast.NamedType{Name: l.resTypeName(v)}
	case *types.Struct:
		return &cast.NamedType{Name: v.Name}
	case *types.Enum:
		return &cast.NamedType{Name: v.Name}
	case *types.Opaque:
		return &cast.NamedType{Name: v.Name}
	case *types.Fn:
		return &cast.PtrType{Inner: cast.PrimType(cast.CVoid)} // function values are out of scope beyond pass-by-pointer use
	}
	return cast.PrimType(cast.CVoid)
}

func lowerPrim(p types.Prim) cast.Type {
	switch p {
	case types.I8:
		return cast.PrimType(cast.CInt8)
	case types.I16:
		return cast.PrimType(cast.CInt16)
	case types.I32:
		return cast.PrimType(cast.CInt32)
	case types.I64:
		return cast.PrimType(cast.CInt64)
	case types.U8:
		return cast.PrimType(cast.CUInt8)
	case types.U16:
		return cast.PrimType(cast.CUInt16)
	case types.U32:
		return cast.PrimType(cast.CUInt32)
	case types.U64:
		return cast.PrimType(cast.CUInt64)
	case types.ISize:
		return cast.PrimType(cast.CPtrDiffT)
	case types.USize:
		return cast.PrimType(cast.CSizeT)
	case types.F32:
		return cast.PrimType(cast.CFloat)
	case types.F64:
		return cast.PrimType(cast.CDouble)
	case types.Bool:
		return cast.PrimType(cast.CBool)
	default:
		return cast.PrimType(cast.CVoid)
	}
}

// typeKey returns a canonical, collision-free string identifying t, used
// both to name synthesized typedefs and to deduplicate them.
func typeKey(t types.Type) string {
	switch v := t.(type) {
	case types.Prim:
		return v.String()
	case *types.Ref:
		return "ref_" + typeKey(v.Inner)
	case *types.RawPtr:
		return "raw_" + typeKey(v.Inner)
	case *types.Own:
		return "own_" + typeKey(v.Inner)
	case *types.Array:
		return "arr_" + typeKey(v.Inner) + "_" + uintLiteral(v.N)
	case *types.Slice:
		return "slice_" + typeKey(v.Inner)
	case *types.Opt:
		return "opt_" + typeKey(v.Inner)
	case *types.Res:
		return "res_" + typeKey(v.Ok) + "_" + typeKey(v.Err)
	case *types.Struct:
		return v.Name
	case *types.Enum:
		return v.Name
	case *types.Opaque:
		return v.Name
	}
	return "void"
}

func (l *Lowerer) sliceTypeName(v *types.Slice) string {
	key := typeKey(v)
	if name, ok := l.synth[key]; ok {
		return name
	}
	name := "fc_slice_" + typeKey(v.Inner)
	l.synth[key] = name
	l.out.TypeDefs = append(l.out.TypeDefs, &cast.StructDecl{
		Name: name,
		Fields: []cast.Field{
			{Name: "data", Type: &cast.PtrType{Inner: l.lowerType(v.Inner)}},
			{Name: "len", Type: cast.PrimType(cast.CSizeT)},
		},
	})
	return name
}

// optTypeName synthesizes `struct { bool present; T value; }`. The field is
// named `present`, matching spec.md's own wording for the optional
// representation rather than the reference implementation's `has_value`.
func (l *Lowerer) optTypeName(v *types.Opt) string {
	key := typeKey(v)
	if name, ok := l.synth[key]; ok {
		return name
	}
	name := "fc_opt_" + typeKey(v.Inner)
	l.synth[key] = name
	l.out.TypeDefs = append(l.out.TypeDefs, &cast.StructDecl{
		Name: name,
		Fields: []cast.Field{
			{Name: "present", Type: cast.PrimType(cast.CBool)},
			{Name: "value", Type: l.lowerType(v.Inner)},
		},
	})
	return name
}

// resTypeName synthesizes a tagged struct around a real C union of the ok
// and err payloads, improving on the reference's one-field-per-arm
// placeholder the same way data-carrying enums do.
func (l *Lowerer) resTypeName(v *types.Res) string {
	key := typeKey(v)
	if name, ok := l.synth[key]; ok {
		return name
	}
	name := "fc_res_" + typeKey(v.Ok) + "_" + typeKey(v.Err)
	l.synth[key] = name
	unionName := name + "_payload"
	l.out.TypeDefs = append(l.out.TypeDefs, &cast.UnionDecl{
		Name: unionName,
		Fields: []cast.Field{
			{Name: "ok_value", Type: l.lowerType(v.Ok)},
			{Name: "err_value", Type: l.lowerType(v.Err)},
		},
	})
	l.out.TypeDefs = append(l.out.TypeDefs, &cast.StructDecl{
		Name: name,
		Fields: []cast.Field{
			{Name: "is_ok", Type: cast.PrimType(cast.CBool)},
			{Name: "payload", Type: &cast.NamedType{Name: unionName}},
		},
	})
	return name
}
