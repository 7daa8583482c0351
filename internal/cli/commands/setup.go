// Package commands implements the studentgen subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/config"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/output"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/idgen"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sink"
	"github.com/spf13/cobra"
)

// Identifier and clock sources for generation. Tests replace them to get
// deterministic output.
var (
	newIDGenerator = func() generator.IDGenerator { return idgen.New() }
	now            = time.Now
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context for cmd from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns the current configuration, or the defaults when the
// command runs without the root command having loaded one.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

// Generate builds the roster for the configured plan.
func (cc *CommandContext) Generate() (*generator.Roster, error) {
	plan := cc.Cfg.ToGenerator()
	cc.Logger.Debug("generating roster",
		slog.Int("categories", len(plan.Categories)),
		slog.Int("total", plan.Total()))

	r, err := generator.Generate(plan,
		generator.WithIDGenerator(newIDGenerator()),
		generator.WithClock(now))
	if err != nil {
		return nil, err
	}
	if plan.ClientID == "" || plan.ClientID == config.DefaultClientID {
		cc.Logger.Warn("client id is a placeholder; SQL output must be edited before use", slog.String("client_id", plan.ClientID))
	}
	return r, nil
}

// Serializer looks up format and applies the configured SQL options.
func (cc *CommandContext) Serializer(format string) (sink.Serializer, error) {
	s, err := sink.Default.Lookup(format)
	if err != nil {
		return nil, err
	}
	return sink.Configure(s, cc.Cfg.ScriptOptions()), nil
}

// writeFile serializes r into path. A partially written file is removed.
func writeFile(path string, s sink.Serializer, r *generator.Roster) (err error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := s.Write(f, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// withExtension returns path with ext, replacing a known data extension.
func withExtension(path, ext string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".sql", ".json":
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path + ext
}
