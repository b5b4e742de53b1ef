package parser

import (
	"github.com/leapstack-labs/eavexpr/pkg/ast"
	"github.com/leapstack-labs/eavexpr/pkg/token"
)

// Expression parsing by precedence climbing: each tier calls the next tighter
// one for its operands.
//
// Precedence tiers (loosest first):
//
//	or
//	and
//	not                          (prefix)
//	= <> != < <= > >= contains like likefile is between in
//	+ - ||
//	* / mod
//	+ -                          (prefix, right-associative)
//	**                           (right-associative)
//
// Comparison grammar:
//
//	cmp_expr → add_expr
//	         | add_expr "is" ["not"] "null"
//	         | add_expr ["not"] compare_op add_expr
//	         | add_expr ["not"] "between" add_expr "and" add_expr
//	         | add_expr ["not"] "in" "(" expr_list ")"

// parseOr parses or_expr.
func (p *Parser) parseOr() (*ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for !p.atEnd() {
		op, err := p.operator()
		if err != nil {
			return nil, err
		}
		if op != token.Or {
			break
		}
		p.advance()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.Binary(token.Or, left, right)
	}
	return left, nil
}

// parseAnd parses and_expr.
func (p *Parser) parseAnd() (*ast.Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for !p.atEnd() {
		op, err := p.operator()
		if err != nil {
			return nil, err
		}
		if op != token.And {
			break
		}
		p.advance()

		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = ast.Binary(token.And, left, right)
	}
	return left, nil
}

// parseNot parses not_expr.
func (p *Parser) parseNot() (*ast.Node, error) {
	if p.atEnd() {
		return nil, p.errorf(ErrMissingOperand)
	}

	if p.check(token.Not) {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.Unary(token.Not, operand), nil
	}
	return p.parseCompare()
}

// parseCompare parses cmp_expr. A "not" between the operands negates the whole
// comparison: "a not like b" is not(like(a, b)). This is the tier that rejects
// a name or literal where an operator belongs.
func (p *Parser) parseCompare() (*ast.Node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if p.atEnd() {
		return left, nil
	}

	op, err := p.operator()
	if err != nil {
		return nil, err
	}

	if op == token.Is {
		return p.parseIs(left)
	}

	negate := false
	if op == token.Not {
		p.advance()
		if p.atEnd() {
			return nil, p.errorf(ErrMissingFollow, "operator", "not")
		}
		next, ok := p.keyword()
		if !ok || !(next.IsCompare() || next == token.Between || next == token.In) {
			return nil, p.errorf(ErrMissingCompare, p.text())
		}
		op = next
		negate = true
	}

	var node *ast.Node
	switch {
	case op.IsCompare():
		p.advance()
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		node = ast.Binary(op, left, right)

	case op == token.Between:
		p.advance()
		node, err = p.parseBetween(left)
		if err != nil {
			return nil, err
		}

	case op == token.In:
		p.advance()
		node, err = p.parseIn(left)
		if err != nil {
			return nil, err
		}

	default:
		// Not a comparison; the caller decides what the token means.
		return left, nil
	}

	if negate {
		node = ast.Unary(token.Not, node)
	}
	return node, nil
}

// parseIs parses `is [not] null`. The null test is always is(x, null); a
// "not" wraps it rather than changing the operator.
func (p *Parser) parseIs(left *ast.Node) (*ast.Node, error) {
	p.advance() // consume IS
	if p.atEnd() {
		return nil, p.errorf(ErrMissingFollow, "operand", "is")
	}

	node := ast.Binary(token.Is, left, ast.Leaf(token.Symbol(token.Null)))

	if p.check(token.Not) {
		p.advance()
		if p.atEnd() {
			return nil, p.errorf(ErrMissingFollow, "'null'", "not")
		}
		node = ast.Unary(token.Not, node)
	}

	if err := p.expect(token.Null, ErrMissingExpected, "null"); err != nil {
		return nil, err
	}
	return node, nil
}

// parseBetween parses the bounds of a between test into
// between(x, and(low, high)).
func (p *Parser) parseBetween(left *ast.Node) (*ast.Node, error) {
	low, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.And, ErrMissingExpected, "and"); err != nil {
		return nil, err
	}
	high, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	return ast.Binary(token.Between, left, ast.Binary(token.And, low, high)), nil
}

// parseIn parses the parenthesised list of an in test.
func (p *Parser) parseIn(left *ast.Node) (*ast.Node, error) {
	if err := p.expect(token.LParen, ErrMissingExpected, "("); err != nil {
		return nil, err
	}
	list, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RParen, ErrMissingExpected, ")"); err != nil {
		return nil, err
	}
	return ast.Binary(token.In, left, list), nil
}

// parseAdd parses add_expr.
func (p *Parser) parseAdd() (*ast.Node, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.keyword()
		if !ok || (op != token.Add && op != token.Sub && op != token.Concat) {
			break
		}
		p.advance()

		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = ast.Binary(op, left, right)
	}
	return left, nil
}

// parseMul parses mul_expr.
func (p *Parser) parseMul() (*ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.keyword()
		if !ok || (op != token.Mul && op != token.Div && op != token.Mod) {
			break
		}
		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.Binary(op, left, right)
	}
	return left, nil
}

// parseUnary parses unary_expr. Sign operators nest to the right:
// "--a" is neg(neg(a)).
func (p *Parser) parseUnary() (*ast.Node, error) {
	if p.atEnd() {
		return nil, p.errorf(ErrMissingOperand)
	}

	if p.check(token.Add) || p.check(token.Sub) {
		tag := token.Pos
		if p.check(token.Sub) {
			tag = token.Neg
		}
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Unary(tag, operand), nil
	}
	return p.parseExpo()
}

// parseExpo parses expo_expr. The exponent is a unary_expr, which makes **
// right-associative: "a ** b ** c" is exp(a, exp(b, c)).
func (p *Parser) parseExpo() (*ast.Node, error) {
	base, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if !p.check(token.Exp) {
		return base, nil
	}
	p.advance()

	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.Binary(token.Exp, base, exponent), nil
}
