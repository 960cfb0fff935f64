package p10

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastc/internal/ast"
	"fastc/internal/diag"
	"fastc/internal/lexer"
	"fastc/internal/parser"
)

func parseFile(t *testing.T, src string) *ast.File {
	t.Helper()
	diags := diag.New()
	toks := lexer.New(src, diags).Tokenize()
	file := parser.New(toks, diags).ParseFile()
	require.False(t, diags.HasErrors(), "unexpected parse errors: %+v", diags.All())
	return file
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = string(d.Code)
	}
	return out
}

func TestRun_DirectRecursionFlaggedAtStandard(t *testing.T) {
	file := parseFile(t, `
fn fact(n: i32) -> i32 {
	return fact(n);
}
`)
	diags := Run(file, Standard).All()
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), "P1004")
	assert.Equal(t, diag.Warning, diags[0].Severity)
}

func TestRun_DirectRecursionIsErrorAtCritical(t *testing.T) {
	file := parseFile(t, `
fn fact(n: i32) -> i32 {
	return fact(n);
}
`)
	diags := Run(file, Critical).All()
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.Error, diags[0].Severity)
}

func TestRun_NonRecursiveFunctionIsClean(t *testing.T) {
	file := parseFile(t, `
fn add(a: i32, b: i32) -> i32 {
	return a + b;
}
`)
	diags := Run(file, Critical).All()
	assert.Empty(t, diags)
}

func TestRun_UnboundedWhileLoopFlagged(t *testing.T) {
	file := parseFile(t, `
fn spin() -> i32 {
	while (true) {
		return 1;
	}
	return 0;
}
`)
	diags := Run(file, Standard).All()
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), "P1003")
}
