// Package parser turns SQL-like filter expressions into expression trees.
//
// # Usage
//
//	tree, err := parser.Compile("date >= '2001-08-01' or id like 'x%'")
//	if err != nil {
//	    // *parser.LexError or *parser.SyntaxError
//	}
//
// Compile is Tokenize followed by Parse; both steps are exported for callers
// that want the token stream.
//
// # Grammar Overview
//
// The parser is a recursive descent parser with one function per precedence
// tier, loosest binding first:
//
//	or_expr    → and_expr ("or" and_expr)*
//	and_expr   → not_expr ("and" not_expr)*
//	not_expr   → "not" not_expr | cmp_expr
//	cmp_expr   → add_expr [comparison]
//	add_expr   → mul_expr (("+" | "-" | "||") mul_expr)*
//	mul_expr   → unary_expr (("*" | "/" | "mod") unary_expr)*
//	unary_expr → ("+" | "-") unary_expr | expo_expr
//	expo_expr  → operand ["**" unary_expr]
//
// See parser_expr.go and parser_primary.go for the remaining rules.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/eavexpr/pkg/ast"
	"github.com/leapstack-labs/eavexpr/pkg/token"
)

// Parser holds the state of one parse: the token sequence and a cursor into
// it. A Parser is used for a single input and is not safe for concurrent use;
// create one per expression.
type Parser struct {
	tokens []token.Token
	pos    int
}

// NewParser creates a parser over tokens.
func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Compile tokenizes and parses text.
func Compile(text string) (*ast.Node, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse builds the expression tree for tokens.
func Parse(tokens []token.Token) (*ast.Node, error) {
	return NewParser(tokens).Parse()
}

// Parse consumes the whole token sequence. A result that is a bare value is
// wrapped in a val node so the root is always an operator node.
func (p *Parser) Parse() (*ast.Node, error) {
	if len(p.tokens) == 0 {
		return nil, &SyntaxError{Index: 0, Token: endOfInput, Message: ErrNoTokens}
	}

	tree, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() {
		return nil, p.errorf(ErrMalformed, p.text())
	}

	if tree.IsLeaf() {
		tree = ast.Unary(token.Val, tree)
	}
	return tree, nil
}

// ---------- Token Helpers ----------

// atEnd reports whether every token has been consumed.
func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// advance moves past the current token.
func (p *Parser) advance() {
	p.pos++
}

// text returns the current token text, or "<end>".
func (p *Parser) text() string {
	if p.atEnd() {
		return endOfInput
	}
	return p.tokens[p.pos].Text
}

// keyword returns the operator meaning of the current token. It reports false
// for names, literals and at the end of input.
func (p *Parser) keyword() (token.Op, bool) {
	if p.atEnd() {
		return token.Nop, false
	}
	return token.Lookup(p.tokens[p.pos].Text)
}

// check returns true if the current token means op.
func (p *Parser) check(op token.Op) bool {
	k, ok := p.keyword()
	return ok && k == op
}

// operator returns the meaning of the current token where only an operator
// may follow a complete operand. Anything else is a bad operator.
func (p *Parser) operator() (token.Op, error) {
	op, ok := p.keyword()
	if !ok {
		return token.Nop, p.errorf(ErrBadOperator, p.text())
	}
	return op, nil
}

// expect consumes the current token if it means op, otherwise it returns a
// missing-token error naming want.
func (p *Parser) expect(op token.Op, format, want string) error {
	if !p.check(op) {
		return p.errorf(format, want, p.text())
	}
	p.advance()
	return nil
}

// errorf returns a SyntaxError at the current token index.
func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{
		Index:   p.pos,
		Token:   p.text(),
		Message: fmt.Sprintf(format, args...),
	}
}
