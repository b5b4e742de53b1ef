package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/eavexpr/internal/store"
	"github.com/leapstack-labs/eavexpr/pkg/ast"
	"github.com/leapstack-labs/eavexpr/pkg/format"
	"github.com/leapstack-labs/eavexpr/pkg/lint"
	"github.com/leapstack-labs/eavexpr/pkg/parser"
	"github.com/spf13/cobra"
)

const replPrompt = "eavexpr> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive expression shell",
		Long: `Start an interactive shell for trying out expressions.

Each line is compiled and rendered as SQL. Dot commands show the tokens or the
tree of an expression, or run it against the entry store. History is kept in
the configured history file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	historyFile := cmdCtx.Cfg.HistoryFile
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o750); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := newREPLSession(cmd.Context(), cmdCtx)
	defer session.Close()

	r := cmdCtx.Renderer
	r.Println(r.Styles().Bold.Render("eavexpr shell"))
	r.Muted("Type an expression to render it, .help for commands, .quit to exit")
	r.Println("")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if quit := session.Eval(line); quit {
			break
		}
	}
	return nil
}

// replSession evaluates shell lines. The entry store is opened on first use.
type replSession struct {
	ctx    context.Context
	cmdCtx *CommandContext
	prefix string
	store  *store.Store
}

func newREPLSession(ctx context.Context, cmdCtx *CommandContext) *replSession {
	return &replSession{
		ctx:    ctx,
		cmdCtx: cmdCtx,
		prefix: cmdCtx.Cfg.Prefix,
	}
}

// Close releases the entry store, if one was opened.
func (s *replSession) Close() {
	if s.store != nil {
		_ = s.store.Close()
		s.store = nil
	}
}

// Eval handles one line and reports whether the shell should exit.
func (s *replSession) Eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	if !isDotCommand(command) {
		s.renderSQL(line)
		return false
	}
	arg = strings.TrimSpace(arg)
	r := s.cmdCtx.Renderer

	switch strings.ToLower(command) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.Writer())
	case ".sql":
		if s.needArg(command, arg) {
			s.renderSQL(arg)
		}
	case ".tokens":
		if s.needArg(command, arg) {
			s.showTokens(arg)
		}
	case ".tree":
		if s.needArg(command, arg) {
			if tree := s.compile(arg); tree != nil {
				_ = format.XML(r.Writer(), tree)
			}
		}
	case ".json":
		if s.needArg(command, arg) {
			if tree := s.compile(arg); tree != nil {
				_ = format.JSON(r.Writer(), tree)
			}
		}
	case ".run":
		if s.needArg(command, arg) {
			s.run(arg)
		}
	case ".lint":
		if s.needArg(command, arg) {
			s.lint(arg)
		}
	case ".prefix":
		if arg != "" {
			s.prefix = arg
		}
		r.Println(s.prefix)
	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

// isDotCommand reports whether word names a shell command: a dot followed by
// letters. Lines like ".5 = x" are expressions.
func isDotCommand(word string) bool {
	if len(word) < 2 || word[0] != '.' {
		return false
	}
	for _, ch := range word[1:] {
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return false
		}
	}
	return true
}

func (s *replSession) needArg(command, arg string) bool {
	if arg == "" {
		s.cmdCtx.Renderer.Error(fmt.Sprintf("Usage: %s <expression>", command))
		return false
	}
	return true
}

func (s *replSession) compile(expr string) *ast.Node {
	tree, err := parser.Compile(expr)
	if err != nil {
		s.cmdCtx.Renderer.Diagnostic(expr, err)
		return nil
	}
	return tree
}

func (s *replSession) renderSQL(expr string) {
	if tree := s.compile(expr); tree != nil {
		s.cmdCtx.Renderer.Println(s.cmdCtx.Generator.Render(s.prefix, tree))
	}
}

func (s *replSession) showTokens(expr string) {
	r := s.cmdCtx.Renderer
	tokens, err := parser.Tokenize(expr)
	if err != nil {
		r.Diagnostic(expr, err)
		return
	}
	rows := make([][]any, len(tokens))
	for i, tok := range tokens {
		rows[i] = []any{i, tok.Text, tok.End}
	}
	_ = r.Table([]string{"index", "text", "end"}, rows)
}

func (s *replSession) run(expr string) {
	tree := s.compile(expr)
	if tree == nil {
		return
	}
	r := s.cmdCtx.Renderer

	if s.store == nil {
		st, err := s.cmdCtx.OpenStore(s.ctx)
		if err != nil {
			r.Error(err.Error())
			return
		}
		s.store = st
	}

	result, err := s.store.Query(s.ctx, s.cmdCtx.Generator.Render(s.prefix, tree))
	if err != nil {
		r.Error(err.Error())
		return
	}
	_ = r.Table(result.Columns, result.Rows)
}

func (s *replSession) lint(expr string) {
	tree := s.compile(expr)
	if tree == nil {
		return
	}
	lintCfg, err := s.cmdCtx.Cfg.LintRules()
	if err != nil {
		s.cmdCtx.Renderer.Error(err.Error())
		return
	}
	writeLintText(s.cmdCtx.Renderer, lintTree(s.cmdCtx, lintCfg, tree, lint.SeverityHint))
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  <expression>          Render the expression as SQL
  .sql <expression>     Same as above
  .tokens <expression>  Show the tokens of an expression
  .tree <expression>    Show the operator tree as XML
  .json <expression>    Show the operator tree as JSON
  .run <expression>     Run the expression against the entry store
  .lint <expression>    Report predicates that differ from the expression
  .prefix [statement]   Show or change the statement prefix
  .help                 Show this help message
  .quit / .exit         Exit the shell

Tips:
  - Use arrow keys to navigate history
  - Tab completes dot commands
`
	_, _ = fmt.Fprintln(w, help)
}

// newDotCompleter creates a readline completer for dot commands.
func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".sql"),
		readline.PcItem(".tokens"),
		readline.PcItem(".tree"),
		readline.PcItem(".json"),
		readline.PcItem(".run"),
		readline.PcItem(".lint"),
		readline.PcItem(".prefix"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
