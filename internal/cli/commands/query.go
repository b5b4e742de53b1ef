package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	ShowSQL bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [expression]",
		Short: "Run an expression against the entry store",
		Long: `Render an expression and execute the resulting statement against the
entry store.

The store is opened with the configured driver and data source and its schema
is migrated before the query runs. Results are printed as a table, markdown,
csv or JSON depending on --output.`,
		Example: `  # Query the default SQLite store
  eavexpr query "transactionId in (1, 2, 3)"

  # Show the generated SQL on stderr
  eavexpr query --show-sql "date >= '2001-08-01'"

  # Output as JSON
  eavexpr query -o json "userId = 1"

  # Query PostgreSQL
  eavexpr query --driver pgx --dsn postgres://localhost/entries "userId = 1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowSQL, "show-sql", false, "Print the generated SQL to stderr before running it")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
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
	statement := cmdCtx.Generator.Render(cmdCtx.Cfg.Prefix, tree)

	r := cmdCtx.Renderer
	if opts.ShowSQL {
		_, _ = fmt.Fprintln(r.ErrWriter(), r.Styles().Muted.Render(statement))
	}

	ctx := cmd.Context()
	s, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	result, err := s.Query(ctx, statement)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return r.Table(result.Columns, result.Rows)
}
