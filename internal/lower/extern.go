package lower

import (
	"fastc/internal/ast"
	"fastc/internal/cast"
)

// lowerExternBlock emits a bare prototype for every extern function (never
// a definition -- the body lives in whatever external object file the
// project links against) and lowers any struct/opaque items nested inside
// the block for FFI layout purposes.
func (l *Lowerer) lowerExternBlock(d *ast.ExternBlock) {
	for _, item := range d.Items {
		switch it := item.(type) {
		case *ast.FnProto:
			sig := l.info.Funcs[it.Name]
			var params []cast.Param
			for i, p := range it.Params {
				params = append(params, cast.Param{Name: p.Name, Type: l.lowerType(sig.Params[i])})
			}
			l.out.FnProtos = append(l.out.FnProtos, &cast.FnProto{
				Name:       it.Name,
				Params:     params,
				ReturnType: l.lowerType(sig.Return),
			})
		case *ast.StructDecl:
			l.lowerStructDecl(it)
		case *ast.OpaqueDecl:
			l.out.ForwardDecls = append(l.out.ForwardDecls, "typedef struct "+it.Name+" "+it.Name+";")
		}
	}
}
