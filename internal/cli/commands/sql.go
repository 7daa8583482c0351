package commands

import (
	"log/slog"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sink"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sqlgen"
	"github.com/spf13/cobra"
)

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	var (
		file        string
		includeJSON bool
	)

	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Print the INSERT script",
		Long: `Print a SQL script inserting the students and their enrollments.

The script has a header, one students and one enrollments INSERT (or one
pair per category with --per-category), a summary and verification
queries. Placeholder tenant or course ids produce a warning comment.`,
		Example: `  studentgen sql > students.sql
  studentgen sql --dialect sqlite --schema "" --per-category
  studentgen sql --client-id 6f1c... --json -f students.sql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			roster, err := cc.Generate()
			if err != nil {
				return err
			}
			opts := cc.Cfg.ScriptOptions()
			opts.IncludeJSON = includeJSON

			if file == "" {
				return sqlgen.Script(cmd.OutOrStdout(), roster, opts)
			}
			s := sink.Configure(&sink.SQL{}, opts)
			if err := writeFile(file, s, roster); err != nil {
				return err
			}
			cc.Logger.Info("wrote SQL script", slog.String("path", file), slog.String("dialect", string(opts.Dialect)))
			cc.Renderer.Success("Created " + file)
			return nil
		},
	}

	cmd.Flags().String("dialect", "", "SQL dialect (postgres|sqlite|duckdb)")
	cmd.Flags().String("schema", "", "Schema owning the students and enrollments tables")
	cmd.Flags().Bool("per-category", false, "Emit one INSERT pair per category")
	cmd.Flags().BoolVar(&includeJSON, "json", false, "Append the records as a JSON comment block")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")

	_ = cmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, 3)
		for _, d := range sqlgen.Dialects() {
			names = append(names, string(d))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// NewJSONCommand creates the json command.
func NewJSONCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Print the generated students as JSON",
		Long: `Print every generated student, with ids, contact details and
section assignment, as a JSON array.`,
		Example: `  studentgen json | jq '.[0]'
  studentgen json -f students.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			s, err := cc.Serializer(sink.FormatJSON)
			if err != nil {
				return err
			}
			roster, err := cc.Generate()
			if err != nil {
				return err
			}
			if file != "" {
				if err := writeFile(file, s, roster); err != nil {
					return err
				}
				cc.Renderer.Success("Created " + file)
				return nil
			}
			return s.Write(cmd.OutOrStdout(), roster)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")
	return cmd
}
