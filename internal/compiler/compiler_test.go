package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastc/internal/diag"
)

// S1: switch over an enum missing a variant case is rejected.
func TestCheck_ExhaustiveSwitchMissingVariant(t *testing.T) {
	src := `
enum Color { Red, Green, Blue }

fn classify(c: Color) -> i32 {
	switch (c) {
	case Color_Red: {
		return 0;
	}
	case Color_Green: {
		return 1;
	}
	}
	return 2;
}
`
	diags := Check(src, "s1.fc")
	require.NotEmpty(t, diags)
	assert.True(t, hasCode(diags, "E0382"), "expected an exhaustiveness diagnostic, got %+v", diags)
}

// S1b: the same switch, with every variant covered, type-checks clean.
func TestCheck_ExhaustiveSwitchAllVariants(t *testing.T) {
	src := `
enum Color { Red, Green, Blue }

fn classify(c: Color) -> i32 {
	switch (c) {
	case Color_Red: {
		return 0;
	}
	case Color_Green: {
		return 1;
	}
	case Color_Blue: {
		return 2;
	}
	}
	return 2;
}
`
	diags := Check(src, "s1b.fc")
	assert.False(t, hasErrors(diags), "unexpected errors: %+v", diags)
}

// S2: chained binary operators without disambiguating parens are a parse
// error, not silently resolved by precedence.
func TestCheck_ChainedBinaryOperatorsRejected(t *testing.T) {
	src := `
fn add3(a: i32, b: i32, c: i32) -> i32 {
	return a + b + c;
}
`
	diags := Check(src, "s2.fc")
	require.NotEmpty(t, diags)
	assert.True(t, hasMessage(diags, "chained binary operators require parentheses"))
}

// S2b: the same expression, parenthesized, is accepted.
func TestCheck_ParenthesizedBinaryOperatorsAccepted(t *testing.T) {
	src := `
fn add3(a: i32, b: i32, c: i32) -> i32 {
	return (a + b) + c;
}
`
	diags := Check(src, "s2b.fc")
	assert.False(t, hasErrors(diags), "unexpected errors: %+v", diags)
}

// S3: array and slice indexing lower to an explicit bounds-check trap in
// the generated C, not a raw pointer dereference.
func TestCompile_BoundsCheckInsertion(t *testing.T) {
	src := `
fn get(xs: slice(i32), i: u64) -> i32 {
	return at(xs, i);
}
`
	res := Compile(src, "s3.fc", Config{SafetyLevel: "standard"})
	require.False(t, hasErrors(res.Diags), "unexpected errors: %+v", res.Diags)
	assert.Contains(t, res.C, "slice index out of bounds")
	assert.Contains(t, res.C, "fc_trap")
}

// S4: checked signed addition lowers through __builtin_add_overflow with
// an "integer overflow" trap, rather than a bare '+'.
func TestCompile_CheckedSignedAddition(t *testing.T) {
	src := `
fn sum(a: i32, b: i32) -> i32 {
	return a + b;
}
`
	res := Compile(src, "s4.fc", Config{SafetyLevel: "standard"})
	require.False(t, hasErrors(res.Diags), "unexpected errors: %+v", res.Diags)
	assert.Contains(t, res.C, "__builtin_add_overflow")
	assert.Contains(t, res.C, "integer overflow")
}

// S4b: integer division gets its own distinct division-by-zero trap message.
func TestCompile_DivisionByZeroTrap(t *testing.T) {
	src := `
fn divide(a: i32, b: i32) -> i32 {
	return a / b;
}
`
	res := Compile(src, "s4b.fc", Config{SafetyLevel: "standard"})
	require.False(t, hasErrors(res.Diags), "unexpected errors: %+v", res.Diags)
	assert.Contains(t, res.C, "division by zero")
}

// S5: `if let` narrows an opt(T) to T in its then-branch without error.
func TestCheck_OptionalNarrowing(t *testing.T) {
	src := `
fn first(xs: opt(i32)) -> i32 {
	if let v = unwrap_checked(xs) {
		return v;
	} else {
		return 0;
	}
}
`
	diags := Check(src, "s5.fc")
	assert.False(t, hasErrors(diags), "unexpected errors: %+v", diags)
}

// S6: calling an extern "C" function outside an unsafe block is rejected,
// since every extern item is forced unsafe regardless of syntax.
func TestCheck_ExternCallOutsideUnsafeRejected(t *testing.T) {
	src := `
extern "C" {
	fn raw_strlen(s: raw(u8)) -> u64;
}

fn wrap(s: raw(u8)) -> u64 {
	return raw_strlen(s);
}
`
	diags := Check(src, "s6.fc")
	require.NotEmpty(t, diags)
	assert.True(t, hasCode(diags, "E0422"), "expected an unsafe-context diagnostic, got %+v", diags)
}

// S6b: the same call, wrapped in `unsafe { ... }`, is accepted.
func TestCheck_ExternCallInsideUnsafeAccepted(t *testing.T) {
	src := `
extern "C" {
	fn raw_strlen(s: raw(u8)) -> u64;
}

fn wrap(s: raw(u8)) -> u64 {
	unsafe {
		return raw_strlen(s);
	}
}
`
	diags := Check(src, "s6b.fc")
	assert.False(t, hasErrors(diags), "unexpected errors: %+v", diags)
}

// Format validates syntax and returns the source unchanged -- it is
// deliberately not a real pretty-printer (spec.md §1 lists that as an
// external collaborator).
func TestFormat_PassesThroughValidSource(t *testing.T) {
	src := "fn id(x: i32) -> i32 {\n\treturn x;\n}\n"
	out, diags := Format(src, "fmt.fc")
	assert.False(t, hasErrors(diags))
	assert.Equal(t, src, out)
}

func TestFormat_RejectsInvalidSyntax(t *testing.T) {
	src := "fn id(x: i32) -> i32 { return x"
	out, diags := Format(src, "fmt_bad.fc")
	assert.True(t, hasErrors(diags))
	assert.Empty(t, out)
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

func hasCode(diags []diag.Diagnostic, code string) bool {
	for _, d := range diags {
		if string(d.Code) == code {
			return true
		}
	}
	return false
}

func hasMessage(diags []diag.Diagnostic, substr string) bool {
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}
