package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command with its show and init
// subcommands.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create studentgen configuration",
	}
	cmd.AddCommand(newConfigShowCommand(), newConfigInitCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after defaults, studentgen.yaml, STUDENTGEN_
environment variables and flags have been merged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			if used := config.GetConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", used)
			}
			return encodeYAML(cmd.OutOrStdout(), cfg)
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter studentgen.yaml",
		Long: `Write the default configuration to studentgen.yaml (or path) so it can
be edited. An existing file is kept unless --force is given.`,
		Example: `  studentgen config init
  studentgen config init configs/staging.yaml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFileNames[0]
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to check %s: %w", path, err)
			}

			var buf bytes.Buffer
			buf.WriteString("# studentgen configuration\n")
			buf.WriteString("# Values can be overridden with STUDENTGEN_* environment variables or flags.\n")
			if err := encodeYAML(&buf, config.DefaultConfig()); err != nil {
				return err
			}

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			NewCommandContext(cmd).Renderer.Success("Created " + path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
