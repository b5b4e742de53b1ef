package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/eavexpr/pkg/ast"
	"github.com/leapstack-labs/eavexpr/pkg/token"
)

// Operand parsing: literals, names, groups and in-lists.
//
// Grammar:
//
//	operand   → "(" or_expr ")" | name_expr | number | "null"
//	name_expr → (identifier | string) name_tail*
//	name_tail → "." (identifier | string) | "[" add_expr "]"
//	expr_list → add_expr [","] expr_list | add_expr

// parseOperand parses operand.
func (p *Parser) parseOperand() (*ast.Node, error) {
	if p.atEnd() {
		return nil, p.errorf(ErrMissingOperand)
	}

	text := p.text()
	op, isKeyword := p.keyword()

	switch {
	case !isKeyword:
		if isName(text) {
			return p.parseName()
		}
		p.advance()
		return ast.Leaf(text), nil

	case op == token.Null:
		p.advance()
		return ast.Leaf(text), nil

	case op == token.LParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RParen, ErrMissingClosing, ")"); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errorf(ErrBadOperand, text)
	}
}

// parseName parses name_expr. Quoted bases lose their quotes once a member or
// subscript step is applied to them.
func (p *Parser) parseName() (*ast.Node, error) {
	base := ast.Leaf(p.text())
	p.advance()

	for !p.atEnd() {
		op, ok := p.keyword()
		if !ok || (op != token.Member && op != token.Subscr) {
			break
		}
		if base.IsLeaf() {
			base = ast.Leaf(unquote(base.Value()))
		}
		p.advance()

		if op == token.Member {
			name, err := p.parseMemberName()
			if err != nil {
				return nil, err
			}
			base = ast.Binary(token.Member, base, ast.Leaf(name))
			continue
		}

		index, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RBracket, ErrMissingClosing, "]"); err != nil {
			return nil, err
		}
		base = ast.Binary(token.Subscr, base, index)
	}
	return base, nil
}

// parseMemberName parses the identifier or string after a ".".
func (p *Parser) parseMemberName() (string, error) {
	text := p.text()
	if p.atEnd() {
		return "", p.errorf(ErrMissingName, text)
	}
	if isQuoted(text) {
		p.advance()
		return unquote(text), nil
	}
	if _, isKeyword := p.keyword(); isKeyword || !isName(text) {
		return "", p.errorf(ErrMissingName, text)
	}
	p.advance()
	return text, nil
}

// parseExprList parses expr_list into right-nested list cells:
// "(a, b, c)" becomes list(a, list(b, list(c))). The comma between items is
// optional.
func (p *Parser) parseExprList() (*ast.Node, error) {
	item, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if p.atEnd() {
		return nil, p.errorf(ErrMissingClosing, ")", endOfInput)
	}
	if p.check(token.RParen) {
		return ast.Binary(token.List, item, nil), nil
	}

	if p.check(token.List) {
		p.advance()
		if p.atEnd() {
			return nil, p.errorf(ErrMissingExpected, "in list or )", endOfInput)
		}
	}

	rest, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return ast.Binary(token.List, item, rest), nil
}

// isName reports whether text can start a name_expr: a quoted string, or text
// beginning with a letter, digit, '_' or '$'.
func isName(text string) bool {
	if text == "" {
		return false
	}
	if isQuoted(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func isQuoted(text string) bool {
	return text != "" && (text[0] == '"' || text[0] == '\'')
}

// unquote strips the surrounding quotes from a quoted token.
func unquote(text string) string {
	if isQuoted(text) && len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
