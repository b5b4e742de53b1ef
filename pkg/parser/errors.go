package parser

import "fmt"

// LexError is returned by the lexer for malformed input.
// Pos is the byte offset into the input where scanning stopped.
type LexError struct {
	Pos     int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at offset %d: %s", e.Pos, e.Message)
}

// SyntaxError is returned by the parser for grammar violations.
// Index is a position in the token sequence, not a character offset; it
// equals the number of tokens when the input ran out. Token holds the text
// of the offending token, or "<end>".
type SyntaxError struct {
	Index   int
	Token   string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at token %d: %s", e.Index, e.Message)
}

// endOfInput stands in for the offending token once the input is exhausted.
const endOfInput = "<end>"

// Common error messages
const (
	ErrMissingClosingQuote = "missing closing quote (%c)"
	ErrMissingEscapedChar  = "missing escaped character"

	ErrNoTokens        = "no tokens found"
	ErrBadOperator     = "bad operator: '%s'"
	ErrBadOperand      = "bad operand: '%s'"
	ErrMissingOperand  = "missing operand/operator"
	ErrMissingFollow   = "missing %s following: '%s'"
	ErrMissingExpected = "missing expected '%s' at: '%s'"
	ErrMissingClosing  = "missing closing '%s' at: '%s'"
	ErrMissingName     = "missing name or string at: '%s'"
	ErrMissingCompare  = "missing comparison operator at: '%s'"
	ErrMalformed       = "malformed expression at: '%s'"
)
