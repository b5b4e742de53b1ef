package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/eavexpr/internal/cli/output"
	"github.com/leapstack-labs/eavexpr/pkg/eav"
	"github.com/leapstack-labs/eavexpr/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// watchDebounce collapses the burst of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// BatchOptions holds options for the batch command.
type BatchOptions struct {
	Watch bool
	Jobs  int
}

// BatchResult is the outcome for one expression of a batch file.
type BatchResult struct {
	Line       int    `json:"line"`
	Expression string `json:"expression"`
	SQL        string `json:"sql,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &BatchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Render every expression in a file",
		Long: `Render a file of expressions, one per line.

Blank lines and lines starting with # are skipped. Expressions are compiled
concurrently and printed in file order; failures are reported with their line
number. With --watch the file is rendered again every time it changes.`,
		Example: `  eavexpr batch filters.txt
  eavexpr batch -o json --jobs 4 filters.txt
  eavexpr batch --watch filters.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Render again whenever the file changes")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.NumCPU(), "Number of expressions compiled at once")

	return cmd
}

func runBatch(cmd *cobra.Command, path string, opts *BatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if !opts.Watch {
		return renderBatchFile(cmd.Context(), cmdCtx, path, opts.Jobs)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := renderBatchFile(ctx, cmdCtx, path, opts.Jobs); err != nil {
		cmdCtx.Renderer.Error(err.Error())
	}
	cmdCtx.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", path))

	return watchFile(ctx, path, func() {
		cmdCtx.Logger.Info("change detected", "file", filepath.Base(path))
		if err := renderBatchFile(ctx, cmdCtx, path, opts.Jobs); err != nil {
			cmdCtx.Renderer.Error(err.Error())
		}
	}, cmdCtx.Logger.Warn)
}

func renderBatchFile(ctx context.Context, cmdCtx *CommandContext, path string, jobs int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open batch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	items, err := readBatch(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	results, err := compileBatch(ctx, cmdCtx.Generator, cmdCtx.Cfg.Prefix, items, jobs)
	if err != nil {
		return err
	}

	if err := writeBatch(cmdCtx.Renderer, results); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	cmdCtx.Logger.Debug("batch rendered", "file", path, "expressions", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(results))
	}
	return nil
}

// readBatch returns the expressions of r with their one-based line numbers.
func readBatch(r io.Reader) ([]BatchResult, error) {
	var items []BatchResult
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		items = append(items, BatchResult{Line: line, Expression: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// compileBatch renders items with at most jobs compilations in flight.
// Results keep the order of items.
func compileBatch(ctx context.Context, gen *eav.Generator, prefix string, items []BatchResult, jobs int) ([]BatchResult, error) {
	results := make([]BatchResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := item
			tree, err := parser.Compile(item.Expression)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.SQL = gen.Render(prefix, tree)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeBatch(r *output.Renderer, results []BatchResult) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if results == nil {
			results = []BatchResult{}
		}
		return r.JSON(results)
	case output.ModeText:
		for _, res := range results {
			if res.Error != "" {
				r.Error(fmt.Sprintf("line %d: %s", res.Line, res.Error))
				continue
			}
			r.Println(res.SQL)
		}
		return nil
	default:
		rows := make([][]any, len(results))
		for i, res := range results {
			rows[i] = []any{res.Line, res.Expression, res.SQL, res.Error}
		}
		return r.Table([]string{"line", "expression", "sql", "error"}, rows)
	}
}

// watchFile calls fn after path is written or recreated, until ctx is done.
// The parent directory is watched so editors that replace the file on save
// are still seen.
func watchFile(ctx context.Context, path string, fn func(), warn func(msg string, args ...any)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			fn()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			warn("watcher error", "error", err)
		}
	}
}
