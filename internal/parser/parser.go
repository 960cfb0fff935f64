// Package parser implements FastC's recursive-descent parser.
//
// There is no operator-precedence table: the grammar is deliberately flat
// (spec.md §4.2, §9) so expressions never need climbing logic. The struct
// shape (tokens slice + integer cursor + helper methods current/advance/
// check/expect) follows the reference implementation's parser/mod.rs; chai's
// own parser is an LALR(1) table-driven engine generated from an EBNF
// grammar file and has no useful structural analogue here, since that
// architecture is precisely what spec.md §9 says FastC must avoid.
package parser

import (
	"fastc/internal/ast"
	"fastc/internal/diag"
	"fastc/internal/token"
)

// Parser parses a single token stream into a File.
type Parser struct {
	toks  []token.Token
	pos   int
	diags *diag.Bag

	// noStructLit suppresses the `Ident {` struct-literal disambiguation
	// while parsing the header of if/while/for/switch, where `{` begins the
	// statement block instead (spec.md §4.2).
	noStructLit int
}

// disableStructLit runs fn with struct-literal parsing suppressed.
func (p *Parser) disableStructLit(fn func()) {
	p.noStructLit++
	fn()
	p.noStructLit--
}

// New creates a parser over toks (as produced by lexer.Tokenize); comment
// trivia tokens are dropped here before parsing.
func New(toks []token.Token, diags *diag.Bag) *Parser {
	kept := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.LINE_COMMENT && t.Kind != token.BLOCK_COMMENT {
			kept = append(kept, t)
		}
	}
	return &Parser{toks: kept, diags: diags}
}

func (p *Parser) current() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) at(k token.Kind) bool {
	return p.current().Kind == k
}

func (p *Parser) advance() token.Token {
	t := p.current()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of kind k or records a parse error and returns
// the current token unconsumed, so callers can keep recovering.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.at(k) {
		return p.advance()
	}
	t := p.current()
	p.errorf(t.Span, "expected %s, found %q", what, t.Value)
	return t
}

func (p *Parser) expectIdent() string {
	t := p.expect(token.IDENT, "identifier")
	return t.Value
}

func (p *Parser) errorf(span token.Span, format string, args ...interface{}) {
	p.diags.Errorf("E0100", span, format, args...)
}

func (p *Parser) isAtEnd() bool {
	return p.at(token.EOF)
}

// synchronize implements the parser's token-level error recovery: skip to
// the next statement terminator or closing brace so later items/statements
// can still be parsed and reported on in the same pass (spec.md §4.2).
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		switch p.current().Kind {
		case token.SEMI:
			p.advance()
			return
		case token.RBRACE, token.FN, token.STRUCT, token.ENUM, token.CONST,
			token.OPAQUE, token.EXTERN, token.USE, token.MOD, token.PUB:
			return
		}
		p.advance()
	}
}

// ParseFile parses an entire source file.
func (p *Parser) ParseFile() *ast.File {
	f := &ast.File{}
	for !p.isAtEnd() {
		item := p.parseItem()
		if item != nil {
			f.Items = append(f.Items, item)
		} else {
			p.synchronize()
		}
	}
	return f
}
