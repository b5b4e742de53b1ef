package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/eavexpr/pkg/token"
)

// Lexer splits a filter expression into tokens. It knows nothing about the
// grammar: keywords, names and numbers all come out as plain text.
type Lexer struct {
	input string
	pos   int // next byte to examine
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns every token of input in order. Input without tokens
// yields an empty slice.
func Tokenize(input string) ([]token.Token, error) {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok, ok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// NextToken scans the next token. It reports false once the input holds
// nothing but whitespace.
func (l *Lexer) NextToken() (token.Token, bool, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return token.Token{}, false, nil
	}

	var b strings.Builder
	var err error

	switch ch := l.input[l.pos]; ch {
	case '"', '\'':
		b.WriteByte(ch)
		l.pos++
		err = l.readQuoted(&b, ch)
	case '`':
		// Backtick quotes are dropped from the token text.
		l.pos++
		err = l.readQuoted(&b, ch)
	default:
		err = l.readWord(&b)
	}
	if err != nil {
		return token.Token{}, false, err
	}

	return token.Token{Text: b.String(), End: l.pos}, true, nil
}

// readQuoted reads up to and including the closing quote.
func (l *Lexer) readQuoted(b *strings.Builder, quote byte) error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		l.pos++

		switch ch {
		case quote:
			if quote != '`' {
				b.WriteByte(ch)
			}
			return nil
		case '\\':
			if l.pos >= len(l.input) {
				return l.errorf(ErrMissingClosingQuote, quote)
			}
			// \<quote> is an escaped quote; any other escape keeps the
			// backslash and rescans the next character.
			if l.input[l.pos] == quote {
				b.WriteByte(quote)
				l.pos++
			} else {
				b.WriteByte('\\')
			}
		default:
			b.WriteByte(ch)
		}
	}
	return l.errorf(ErrMissingClosingQuote, quote)
}

// readWord reads an unquoted token: a name, a number, or one operator symbol.
func (l *Lexer) readWord(b *strings.Builder) error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		switch {
		case isSpace(ch):
			return nil

		case isDelimiter(ch):
			if b.Len() == 0 {
				b.WriteByte(ch)
				l.pos++
			}
			return nil

		case ch == '*' || ch == '|':
			if b.Len() == 0 {
				b.WriteByte(ch)
				l.pos++
				// ** and || are single tokens
				if l.pos < len(l.input) && l.input[l.pos] == ch {
					b.WriteByte(ch)
					l.pos++
				}
			}
			return nil

		case ch == '\\':
			l.pos++
			if l.pos >= len(l.input) {
				return l.errorf(ErrMissingEscapedChar)
			}
			b.WriteByte(l.input[l.pos])
			l.pos++

		case ch == '.':
			if b.Len() == 0 {
				b.WriteByte(ch)
				l.pos++
				// ".5" is a number, a lone "." is the member operator
				if l.pos < len(l.input) && isDigit(l.input[l.pos]) {
					continue
				}
				return nil
			}
			if !isInteger(b.String()) {
				// Member access: leave the dot for the next token.
				return nil
			}
			b.WriteByte(ch)
			l.pos++

		default:
			b.WriteByte(ch)
			l.pos++
		}
	}
	return nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &LexError{Pos: l.pos, Message: fmt.Sprintf(format, args...)}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '"', '\'', ',', '(', ')', '[', ']', '&', '/', '+', '-':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isInteger reports whether s is an optional sign followed only by digits.
func isInteger(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
