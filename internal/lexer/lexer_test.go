package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastc/internal/diag"
	"fastc/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_FunctionSignature(t *testing.T) {
	diags := diag.New()
	toks := New("fn add(a: i32, b: i32) -> i32 {}", diags).Tokenize()
	require.False(t, diags.HasErrors())

	got := kinds(toks)
	want := []token.Kind{
		token.FN, token.IDENT, token.LPAREN,
		token.IDENT, token.COLON, token.I32, token.COMMA,
		token.IDENT, token.COLON, token.I32, token.RPAREN,
		token.ARROW, token.I32, token.LBRACE, token.RBRACE, token.EOF,
	}
	assert.Equal(t, want, got)
}

func TestTokenize_AlwaysEndsInEOF(t *testing.T) {
	diags := diag.New()
	toks := New("", diags).Tokenize()
	require.False(t, diags.HasErrors())
	require.Len(t, toks, 1)
	assert.Equal(t, token.EOF, toks[0].Kind)
}

func TestTokenize_StringLiterals(t *testing.T) {
	diags := diag.New()
	toks := New(`cstr("hi")`, diags).Tokenize()
	require.False(t, diags.HasErrors())
	require.GreaterOrEqual(t, len(toks), 4)
	assert.Equal(t, token.CSTR, toks[0].Kind)
	assert.Equal(t, token.STRING, toks[2].Kind)
	assert.Equal(t, "hi", toks[2].Value)
}

func TestTokenize_IllegalCharacterReported(t *testing.T) {
	diags := diag.New()
	New("let x: i32 = 1 $ 2;", diags).Tokenize()
	assert.True(t, diags.HasErrors())
}

func TestTokenize_SpansCoverSourceBytes(t *testing.T) {
	diags := diag.New()
	const src = "let x"
	toks := New(src, diags).Tokenize()
	require.False(t, diags.HasErrors())
	// "let"
	assert.Equal(t, "let", src[toks[0].Span.Start:toks[0].Span.End])
	// "x"
	assert.Equal(t, "x", src[toks[1].Span.Start:toks[1].Span.End])
}
