package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/eavexpr/pkg/parser"
	"github.com/leapstack-labs/eavexpr/pkg/token"
	"github.com/spf13/cobra"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	var operators bool

	cmd := &cobra.Command{
		Use:   "tokens [expression]",
		Short: "Show the tokens of an expression",
		Long: `Split an expression into tokens and print them with their end offsets.

Quotes are kept on quoted literals, backtick quotes are dropped and escape
sequences are resolved, exactly as the parser sees them.`,
		Example: `  eavexpr tokens "transactionId in (1, 2, 3)"
  echo "a.b like 'x%'" | eavexpr tokens -o json
  eavexpr tokens --operators`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if operators {
				return runOperators(cmd)
			}
			return runTokens(cmd, args)
		},
	}

	cmd.Flags().BoolVar(&operators, "operators", false, "List the operator tags and their spellings")
	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	expr, err := readExpression(cmd, args)
	if err != nil {
		return err
	}

	tokens, err := parser.Tokenize(expr)
	if err != nil {
		cmdCtx.Renderer.Diagnostic(expr, err)
		return fmt.Errorf("failed to tokenize expression: %w", err)
	}

	rows := make([][]any, len(tokens))
	for i, tok := range tokens {
		rows[i] = []any{i, tok.Text, tok.End}
	}
	return cmdCtx.Renderer.Table([]string{"index", "text", "end"}, rows)
}

// runOperators lists every tag that can appear in a tree. The SQL column is
// the spelling used in rendered predicates.
func runOperators(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	var rows [][]any
	for op := token.Val; op <= token.Null; op++ {
		arity := "binary"
		if op.IsUnary() {
			arity = "unary"
		}
		rows = append(rows, []any{op.String(), arity, token.Symbol(op), strings.Join(token.Surfaces(op), " ")})
	}
	return cmdCtx.Renderer.Table([]string{"tag", "arity", "sql", "spellings"}, rows)
}
