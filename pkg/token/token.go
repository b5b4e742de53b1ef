// Package token defines the operator tags of the filter grammar and the
// tokens produced by the lexer.
//
// Every surface spelling (and, &, =, <>, ...) maps to exactly one Op. The
// mapping is registered once at init in a fixed order; see register.go.
package token

import "fmt"

// Op identifies what an expression tree node means.
type Op int32

const (
	// Nop tags leaves. A leaf carries a literal value and no children.
	Nop Op = iota
	// Val wraps a parse result that is a bare leaf.
	Val

	// Logical
	Not
	And
	Or

	// Comparison
	Eq       // =
	Ne       // != or <>
	Lt       // <
	Le       // <=
	Gt       // >
	Ge       // >=
	Contains // contains
	Like     // like
	LikeFile // likefile
	Is       // is
	Between  // between
	In       // in

	// Arithmetic
	Add    // +
	Sub    // -
	Concat // ||
	Mul    // *
	Div    // /
	Mod    // mod
	Exp    // **
	Pos    // unary +
	Neg    // unary -

	// Structural
	Member // .
	Subscr // [
	List   // ,
	Null   // null

	// Punctuation. These only steer the parser and never appear in a tree.
	LParen   // (
	RParen   // )
	RBracket // ]

	maxOp
)

var opNames = [maxOp]string{
	Nop:      "nop",
	Val:      "val",
	Not:      "not",
	And:      "and",
	Or:       "or",
	Eq:       "eq",
	Ne:       "ne",
	Lt:       "lt",
	Le:       "le",
	Gt:       "gt",
	Ge:       "ge",
	Contains: "contains",
	Like:     "like",
	LikeFile: "likefile",
	Is:       "is",
	Between:  "between",
	In:       "in",
	Add:      "add",
	Sub:      "sub",
	Concat:   "concat",
	Mul:      "mul",
	Div:      "div",
	Mod:      "mod",
	Exp:      "exp",
	Pos:      "pos",
	Neg:      "neg",
	Member:   "member",
	Subscr:   "subscr",
	List:     "list",
	Null:     "null",
	LParen:   "(",
	RParen:   ")",
	RBracket: "]",
}

// String returns the tag name, e.g. "and" or "between".
func (o Op) String() string {
	if o >= 0 && o < maxOp {
		return opNames[o]
	}
	return fmt.Sprintf("OP(%d)", int32(o))
}

// IsCompare reports whether o is one of the binary comparison operators
// accepted after an add_expr (=, <>, <, <=, >, >=, contains, like, likefile).
func (o Op) IsCompare() bool {
	switch o {
	case Eq, Ne, Lt, Le, Gt, Ge, Contains, Like, LikeFile:
		return true
	}
	return false
}

// IsUnary reports whether nodes tagged o populate only the left child.
func (o Op) IsUnary() bool {
	switch o {
	case Not, Pos, Neg, Val:
		return true
	}
	return false
}

// Token is a single lexical token: its text as it appeared in the input
// (quoted literals keep their quotes) and the byte offset where it ends.
type Token struct {
	Text string
	End  int
}

// String returns the token text.
func (t Token) String() string {
	return t.Text
}
