// Package cli provides the command-line interface for studentgen.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/commands"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/config"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/output"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "studentgen",
		Short: "studentgen - synthetic student fixture generator",
		Long: `studentgen generates synthetic student records for one institute and
class, split into section groups and a class-level-only group.

The same records can be written as a bulk-import CSV or spreadsheet, a
report workbook, a SQL insert script or JSON, and can be loaded straight
into a database. Run without a subcommand to write the bulk-import files.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg)
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			if used := config.GetConfigFileUsed(); used != "" {
				logger.Info("using config file", slog.String("path", used))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.RunBulk(cmd, commands.DefaultBulkBasename)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./studentgen.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("domain", "", "Email domain of generated students")
	rootCmd.PersistentFlags().Int("per-group", 0, "Students per category")
	rootCmd.PersistentFlags().String("client-id", "", "Tenant id written to SQL output")
	rootCmd.PersistentFlags().String("course-id", "", "Course id written to every record")
	rootCmd.PersistentFlags().StringSlice("only", nil, "Generate only the named categories")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("only", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := config.DefaultConfig().CategoryNames()
		if cfg := config.GetCurrentConfig(); cfg != nil {
			names = cfg.CategoryNames()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewBulkCommand())
	rootCmd.AddCommand(commands.NewCSVCommand())
	rootCmd.AddCommand(commands.NewXLSXCommand())
	rootCmd.AddCommand(commands.NewSQLCommand())
	rootCmd.AddCommand(commands.NewJSONCommand())
	rootCmd.AddCommand(commands.NewSummaryCommand())
	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(commands.NewLoadCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for studentgen.

To load completions:

Bash:
  $ source <(studentgen completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ studentgen completion bash > /etc/bash_completion.d/studentgen
  # macOS:
  $ studentgen completion bash > $(brew --prefix)/etc/bash_completion.d/studentgen

Zsh:
  $ studentgen completion zsh > "${fpath[1]}/_studentgen"

Fish:
  $ studentgen completion fish > ~/.config/fish/completions/studentgen.fish

PowerShell:
  PS> studentgen completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
