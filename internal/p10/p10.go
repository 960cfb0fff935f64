// Package p10 implements the Power-of-10 auxiliary static-analysis pass
// spec.md §1 describes: "function length, recursion detection, bounded
// loops, pointer depth... a separate pass layered on the typed AST...
// not part of the core lowering contract." It is deliberately not wired
// into internal/compiler's pure check/compile entry points; the driver
// (cmd/fastc) runs it as an optional extra pass gated by the project
// manifest's safety_level (spec.md §6).
//
// There is no original_source/ ground truth for this pass -- the Rust
// reference implementation never mentions a Power-of-10 analysis -- so the
// thresholds below are a fresh, conservative design taken from the NASA/JPL
// "Power of Ten" rules spec.md's phrase is borrowed from, scaled to
// ordinary application code rather than flight software.
package p10

import (
	"fastc/internal/ast"
	"fastc/internal/diag"
	"fastc/internal/token"
)

// Level mirrors the project manifest's safety_level field (spec.md §6):
// relaxed and standard only warn, critical turns every finding into an
// error that blocks a build.
type Level int

const (
	Relaxed Level = iota
	Standard
	Critical
)

const (
	maxFunctionStmts = 60
	maxPointerDepth  = 4
)

// Run analyzes every function declared in file and records findings into
// diags at Warning (relaxed/standard) or Error (critical) severity.
func Run(file *ast.File, level Level) *diag.Bag {
	diags := diag.New()
	a := &analyzer{diags: diags, level: level, callGraph: map[string][]string{}, fnSpans: map[string]token.Span{}}
	a.collectCallGraph(file)
	for _, item := range file.Items {
		if d, ok := item.(*ast.FnDecl); ok && d.Body != nil {
			a.checkFunctionLength(d)
			a.checkPointerDepth(d)
			a.checkBoundedLoops(d)
		}
	}
	a.checkRecursion()
	return diags
}

type analyzer struct {
	diags     *diag.Bag
	level     Level
	callGraph map[string][]string
	fnSpans   map[string]token.Span
}

func (a *analyzer) report(code diag.Code, span token.Span, format string, args ...interface{}) {
	if a.level == Critical {
		a.diags.Errorf(code, span, format, args...)
	} else {
		a.diags.Warnf(code, span, format, args...)
	}
}
