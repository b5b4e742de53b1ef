package commands

import (
	"github.com/leapstack-labs/eavexpr/internal/cli/output"
	"github.com/spf13/cobra"
)

// RenderOutput is the JSON form of a rendered expression.
type RenderOutput struct {
	Expression string `json:"expression"`
	Tree       string `json:"tree"`
	SQL        string `json:"sql"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render [expression]",
		Short: "Render an expression as an EAV predicate",
		Long: `Compile an expression and render it as a where clause over the entry
table.

Each comparison matches the attribute name and compares the literal against
the date, number or string value column, chosen from the literal's form. The
statement prefix and the date mask come from --prefix and --date-mask or the
config file.`,
		Example: `  eavexpr render "transactionId in (1, 2, 3)"
  eavexpr render --prefix "select entry_id from entry_tags" "userId = 7"
  eavexpr render --date-mask "%d/%m/%Y" "opened > '01/08/2001'"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args)
		},
	}
}

func runRender(cmd *cobra.Command, args []string) error {
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
	sql := cmdCtx.Generator.Render(cmdCtx.Cfg.Prefix, tree)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RenderOutput{
			Expression: expr,
			Tree:       tree.String(),
			SQL:        sql,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Rendered SQL"))
		r.Println("")
		r.Println(output.FormatKeyValue("Expression", "`"+expr+"`"))
		r.Println("")
		r.Println(output.FormatCodeBlock("sql", sql))
	default:
		// Text mode: just output the SQL directly
		r.Println(sql)
	}
	return nil
}
