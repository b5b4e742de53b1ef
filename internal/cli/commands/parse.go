package commands

import (
	"fmt"

	"github.com/leapstack-labs/eavexpr/internal/cli/output"
	"github.com/leapstack-labs/eavexpr/pkg/ast"
	"github.com/leapstack-labs/eavexpr/pkg/format"
	"github.com/leapstack-labs/eavexpr/pkg/parser"
	"github.com/spf13/cobra"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [expression]",
		Short: "Print the operator tree of an expression",
		Long: `Compile an expression and print its operator tree.

The tree is written as the XML diagnostic document by default, or as JSON
with --output json.`,
		Example: `  eavexpr parse "(a = 1 or b = 2) and c is not null"
  eavexpr parse -o json "x[0].y between 1 and 5"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args)
		},
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	expr, err := readExpression(cmd, args)
	if err != nil {
		return err
	}

	tree, err := compile(cmdCtx, expr)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return format.JSON(r.Writer(), tree)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Expression Tree"))
		r.Println("")
		r.Println(output.FormatKeyValue("Expression", "`"+expr+"`"))
		r.Println("")
		r.Println(output.FormatCodeBlock("xml", format.XMLString(tree)))
		return nil
	default:
		return format.XML(r.Writer(), tree)
	}
}

// compile compiles expr, writing a caret diagnostic on failure.
func compile(cmdCtx *CommandContext, expr string) (*ast.Node, error) {
	tree, err := parser.Compile(expr)
	if err != nil {
		cmdCtx.Renderer.Diagnostic(expr, err)
		return nil, fmt.Errorf("failed to compile expression: %w", err)
	}
	cmdCtx.Logger.Debug("expression compiled", "tree", tree.String(), "depth", tree.Depth())
	return tree, nil
}
