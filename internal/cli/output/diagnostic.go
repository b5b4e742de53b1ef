package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/eavexpr/pkg/parser"
)

// Caret returns the expression followed by a line pointing at the byte where
// compilation failed, and the failure message. It reports false for errors
// that carry no position.
//
//	a in (1, 2
//	          ^ missing closing ')' at: '<end>'
func Caret(input string, err error) (line, caret string, ok bool) {
	offset, msg, ok := position(input, err)
	if !ok {
		return "", "", false
	}
	return flatten(input), strings.Repeat(" ", offset) + "^ " + msg, true
}

// Diagnostic writes a caret diagnostic for err to the error writer. Errors
// without a position are written as a plain error line.
func (r *Renderer) Diagnostic(input string, err error) {
	line, caret, ok := Caret(input, err)
	if !ok {
		r.Error(err.Error())
		return
	}
	_, _ = fmt.Fprintln(r.errOut, line)
	_, _ = fmt.Fprintln(r.errOut, r.styles.Caret.Render(caret))
}

func position(input string, err error) (int, string, bool) {
	var lexErr *parser.LexError
	if errors.As(err, &lexErr) {
		return min(lexErr.Pos, len(input)), lexErr.Message, true
	}

	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return tokenOffset(input, syntaxErr.Index), syntaxErr.Message, true
	}
	return 0, "", false
}

// tokenOffset returns the byte offset where token index starts, or the end of
// the trimmed input when index is past the last token.
func tokenOffset(input string, index int) int {
	tokens, err := parser.Tokenize(input)
	if err != nil || index >= len(tokens) {
		return len(strings.TrimRight(input, " \t\n\r\f"))
	}
	start := 0
	if index > 0 {
		start = tokens[index-1].End
	}
	for start < len(input) && strings.IndexByte(" \t\n\r\f", input[start]) >= 0 {
		start++
	}
	return start
}

// flatten keeps byte offsets intact while putting the input on one line.
func flatten(input string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', '\f':
			return ' '
		}
		return r
	}, input)
}
