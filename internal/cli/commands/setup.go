package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/eavexpr/internal/cli/config"
	"github.com/leapstack-labs/eavexpr/internal/cli/output"
	"github.com/leapstack-labs/eavexpr/internal/store"
	"github.com/leapstack-labs/eavexpr/pkg/eav"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Generator *eav.Generator
	Renderer  *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	gen, err := eav.New(eav.WithDateMask(cfg.DateMask))
	if err != nil {
		return nil, err
	}

	mode := output.Mode(cfg.Output)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Generator: gen,
		Renderer:  r,
	}, nil
}

// OpenStore opens the configured entry store and brings its schema up to
// date. The caller must close it.
func (c *CommandContext) OpenStore(ctx context.Context) (*store.Store, error) {
	s, err := store.Open(ctx, store.Config{
		Driver: c.Cfg.Database.Driver,
		DSN:    c.Cfg.Database.DSN,
	}, c.Logger)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// getConfig returns the current configuration, or defaults when the root
// command has not loaded one.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// readExpression joins args into one expression. Without args it reads
// piped standard input.
func readExpression(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if in == os.Stdin && output.IsTerminal(os.Stdin) {
		return "", fmt.Errorf("expression required (pass it as an argument or pipe it on stdin)")
	}
	content, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	expr := strings.TrimSpace(string(content))
	if expr == "" {
		return "", fmt.Errorf("expression required (pass it as an argument or pipe it on stdin)")
	}
	return expr, nil
}
