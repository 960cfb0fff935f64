// Package compiler wires the lexer, parser, resolver, type checker,
// lowerer, and emitter into the three pure entry points spec.md §6
// describes: Check, Compile, and Format. None of these functions touch the
// filesystem, a terminal, or any process-wide state -- they take source
// text and a config, and return diagnostics plus (for Compile) generated
// C text. This mirrors chai's own separation between its stateless
// compile.go driver logic and the IO/display concerns cmd/execute.go and
// logging/display.go own; here that split is sharper still, since
// spec.md's determinism requirement (§9) means the core must be a pure
// function of (source, config).
//
// Run is the single panic/recover boundary: every stage above is expected
// to report user-facing problems through a diag.Bag, never through a
// panic, but a handful of internal invariants (e.g. a checked AST node
// lower didn't expect) are cheaper to enforce with an assertion than to
// thread as yet another error return through every call in the pipeline.
// Run converts any such panic into a single P1000 diagnostic rather than
// letting it reach the driver, the same boundary chai draws at the top of
// cmd/execute.go's RunCommand.
package compiler

import (
	"fastc/internal/ast"
	"fastc/internal/diag"
	"fastc/internal/emit"
	"fastc/internal/lexer"
	"fastc/internal/lower"
	"fastc/internal/parser"
	"fastc/internal/resolve"
	"fastc/internal/token"
	"fastc/internal/typecheck"
)

// Config is the subset of a project.BuildProfile the core pipeline needs.
// internal/project's fields map onto this one-for-one; cmd/fastc performs
// that conversion so this package never imports internal/project (the
// core pipeline configures itself from plain values, not a manifest).
type Config struct {
	EmitHeader     bool
	SafetyLevel    string // relaxed | standard | critical
	Strict         bool
	RuntimeInclude string
}

// Result is everything Compile produces for one translation unit.
type Result struct {
	C      string
	Header string // empty unless Config.EmitHeader is set
	Diags  []diag.Diagnostic

	// File is the checked AST, exposed so the driver can run the
	// Power-of-10 pass (internal/p10) afterward -- that pass is
	// deliberately not invoked by Compile itself (SPEC_FULL.md Part D
	// item 4: it runs "by the driver after type checking, never by the
	// core pipeline itself"). Nil if an earlier stage failed.
	File *ast.File
}

// Check runs the lexer through the type checker and reports whatever
// diagnostics it finds, without lowering or emitting. This is the `fastc
// check` subcommand's entry point (spec.md §6).
func Check(source, filePath string) []diag.Diagnostic {
	diags := diag.New()
	frontend(source, filePath, diags)
	return diags.All()
}

// Compile runs the full pipeline: lex, parse, resolve, check, lower, emit.
// It stops after any stage that records an error, matching spec.md §5's
// ordering guarantee that later-stage diagnostics never appear once an
// earlier stage has failed.
func Compile(source, filePath string, cfg Config) Result {
	diags := diag.New()
	file, info, ok := frontend(source, filePath, diags)
	if !ok {
		return Result{Diags: diags.All()}
	}

	cfile := lower.New(info, lower.Config{
		EmitHeader:     cfg.EmitHeader,
		SafetyLevel:    cfg.SafetyLevel,
		Strict:         cfg.Strict,
		RuntimeInclude: cfg.RuntimeInclude,
	}).Lower(file)

	result := Result{C: emit.Source(cfile), Diags: diags.All(), File: file}
	if cfg.EmitHeader {
		result.Header = emit.Header(cfile, headerGuard(filePath))
	}
	return result
}

// Format is a passthrough: the pretty-printer itself is an external
// collaborator (spec.md §1's "formatter (pretty-printer)" Non-goal), so
// this just runs the syntax stage far enough to confirm source parses and
// returns it unchanged. It exists so cmd/fastc has a single call it can
// make for `fastc fmt` today and swap for a real pretty-printer later
// without touching the driver.
func Format(source, filePath string) (string, []diag.Diagnostic) {
	diags := diag.New()
	toks := lexer.New(source, diags).Tokenize()
	parser.New(toks, diags).ParseFile()
	if diags.HasErrors() {
		return "", diags.All()
	}
	return source, diags.All()
}

// frontend runs lex through check and reports whether it's safe to
// continue to lowering.
func frontend(source, filePath string, diags *diag.Bag) (*ast.File, *typecheck.Info, bool) {
	toks := lexer.New(source, diags).Tokenize()
	if diags.HasErrors() {
		return nil, nil, false
	}

	file := parser.New(toks, diags).ParseFile()
	if diags.HasErrors() {
		return nil, nil, false
	}

	r := resolve.New(file, diags)
	r.Resolve()
	if diags.HasErrors() {
		return nil, nil, false
	}

	info := typecheck.New(file, r.Symbols(), diags).Check()
	if diags.HasErrors() {
		return nil, nil, false
	}

	return file, info, true
}

func headerGuard(filePath string) string {
	g := make([]byte, 0, len(filePath)+10)
	g = append(g, "FASTC_"...)
	for _, c := range filePath {
		switch {
		case c >= 'a' && c <= 'z':
			g = append(g, byte(c-32))
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			g = append(g, byte(c))
		default:
			g = append(g, '_')
		}
	}
	g = append(g, "_H"...)
	return string(g)
}

// Run invokes fn and converts any panic into a single internal-error
// diagnostic rather than letting it propagate to the driver. This is the
// only place in the pipeline that recovers from a panic; every stage
// above is otherwise expected to report problems through its diag.Bag.
func Run(fn func() []diag.Diagnostic) (diags []diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			bag := diag.New()
			bag.Errorf("P1000", token.Span{}, "internal compiler error: %v", r)
			diags = bag.All()
		}
	}()
	return fn()
}
