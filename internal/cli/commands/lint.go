package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/eavexpr/internal/cli/output"
	"github.com/leapstack-labs/eavexpr/pkg/ast"
	"github.com/leapstack-labs/eavexpr/pkg/lint"
	"github.com/spf13/cobra"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
	List     bool     // List rules instead of linting
	Group    string   // Only list rules in this group
}

// LintSummary counts diagnostics by severity.
type LintSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Hints    int `json:"hints"`
}

// LintOutput is the JSON form of a lint run.
type LintOutput struct {
	Expression  string            `json:"expression"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
	Summary     LintSummary       `json:"summary"`
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}

	cmd := &cobra.Command{
		Use:   "lint [expression]",
		Short: "Check an expression for predicates that differ from what it says",
		Long: `Compile an expression and report constructs whose rendered predicate will
not mean what the expression says: comparisons with null, negations that are
dropped, nested operands, and in lists that mix value columns.

Rules can be disabled or given a different severity in the lint section of
eavexpr.yaml. The command fails when any issue at or above --severity remains.`,
		Example: `  # Lint an expression
  eavexpr lint "not userId = null"

  # Disable specific rules
  eavexpr lint --disable EX02,EX07 "not userId = 1"

  # Only report errors
  eavexpr lint --severity error "userId in (1, 'a')"

  # Show the available rules
  eavexpr lint --list
  eavexpr lint --list --group in-list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().BoolVar(&opts.List, "list", false, "List the available rules")
	cmd.Flags().StringVar(&opts.Group, "group", "", "With --list, only show rules in this group")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if opts.List {
		return renderRules(r, opts.Group)
	}

	threshold, ok := lint.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("unknown severity %q", opts.Severity)
	}

	lintCfg, err := cmdCtx.Cfg.LintRules()
	if err != nil {
		return err
	}
	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	expr, err := readExpression(cmd, args)
	if err != nil {
		return err
	}

	tree, err := compile(cmdCtx, expr)
	if err != nil {
		return err
	}

	diags := lintTree(cmdCtx, lintCfg, tree, threshold)
	if err := renderLintResults(r, expr, diags); err != nil {
		return err
	}
	if len(diags) > 0 {
		return fmt.Errorf("lint issues found")
	}
	return nil
}

func lintTree(cmdCtx *CommandContext, lintCfg *lint.Config, tree *ast.Node, threshold lint.Severity) []lint.Diagnostic {
	analyzer := lint.NewAnalyzer(lintCfg, cmdCtx.Generator)
	diags := lint.FilterBySeverity(analyzer.Analyze(tree), threshold)
	cmdCtx.Logger.Debug("expression linted", "diagnostics", len(diags))
	return diags
}

func summarize(diags []lint.Diagnostic) LintSummary {
	var s LintSummary
	for _, d := range diags {
		switch d.Severity {
		case lint.SeverityError:
			s.Errors++
		case lint.SeverityWarning:
			s.Warnings++
		case lint.SeverityInfo:
			s.Info++
		case lint.SeverityHint:
			s.Hints++
		}
	}
	return s
}

func renderLintResults(r *output.Renderer, expr string, diags []lint.Diagnostic) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if diags == nil {
			diags = []lint.Diagnostic{}
		}
		return r.JSON(LintOutput{
			Expression:  expr,
			Diagnostics: diags,
			Summary:     summarize(diags),
		})
	case output.ModeText:
		writeLintText(r, diags)
		return nil
	}

	if len(diags) == 0 {
		r.Success("No lint issues found")
		return nil
	}
	rows := make([][]any, len(diags))
	for i, d := range diags {
		rows[i] = []any{d.RuleID, d.Name, d.Severity.String(), d.Message, d.Node}
	}
	return r.Table([]string{"rule", "name", "severity", "message", "node"}, rows)
}

func writeLintText(r *output.Renderer, diags []lint.Diagnostic) {
	if len(diags) == 0 {
		r.Success("No lint issues found")
		return
	}

	styles := r.Styles()
	for _, d := range diags {
		label := fmt.Sprintf("%-7s %s", d.Severity, d.RuleID)
		switch d.Severity {
		case lint.SeverityError:
			label = styles.Error.Render(label)
		case lint.SeverityWarning:
			label = styles.Caret.Render(label)
		default:
			label = styles.Muted.Render(label)
		}
		r.Printf("%s  %s\n", label, d.Message)
		r.Muted("        at " + d.Node)
	}

	s := summarize(diags)
	r.Println("")
	r.Printf("Summary: %d error(s), %d warning(s), %d info, %d hint(s)\n", s.Errors, s.Warnings, s.Info, s.Hints)
}

func renderRules(r *output.Renderer, group string) error {
	rules := lint.GetAll()
	if group != "" {
		rules = lint.GetByGroup(group)
		if len(rules) == 0 {
			return fmt.Errorf("unknown rule group %q", group)
		}
	}
	rows := make([][]any, len(rules))
	for i, rule := range rules {
		rows[i] = []any{rule.ID, rule.Name, rule.Group, rule.Severity.String(), rule.Description}
	}
	return r.Table([]string{"id", "name", "group", "severity", "description"}, rows)
}
