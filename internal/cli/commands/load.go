package commands

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/output"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/loader"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sqlgen"
	"github.com/spf13/cobra"
)

// LoadOutput is the JSON result of load.
type LoadOutput struct {
	Target   string                `json:"target"`
	DryRun   bool                  `json:"dry_run"`
	Results  []loader.Result       `json:"results"`
	Sections []loader.SectionCount `json:"sections,omitempty"`
}

// openTarget opens the load target. Tests replace it.
var openTarget = loader.Open

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Insert the generated students into a database",
		Long: `Generate the students and insert them into an existing database.

The students and enrollments tables must already exist; load does not
create schema. Both inserts run in one transaction, so a failure leaves
the database unchanged. Afterwards the per-section count query is run.

The target comes from the target: block of studentgen.yaml or the
--target-* flags. Supported types: sqlite, postgres, duckdb.`,
		Example: `  studentgen load --target-type sqlite --target-path ./dev.db
  studentgen load --target-type postgres --target-dsn 'postgres://localhost/edu'
  studentgen load --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			target := cc.Cfg.Target
			if target.Type == "" {
				if !dryRun {
					return fmt.Errorf("no load target configured (set target.type in studentgen.yaml or pass --target-type; available: %v)", loader.Types())
				}
				target.Type = "postgres"
			}
			if !dryRun {
				if err := target.Validate(); err != nil {
					return err
				}
			}
			dialect, err := target.Dialect()
			if err != nil {
				return err
			}

			roster, err := cc.Generate()
			if err != nil {
				return err
			}
			opts := sqlgen.Options{Schema: target.TableSchema(), Dialect: dialect}
			stmts := sqlgen.Build(roster, opts)

			out := LoadOutput{Target: target.Type, DryRun: dryRun}
			if dryRun {
				for _, s := range stmts {
					out.Results = append(out.Results, loader.Result{Table: s.Table, Rows: int64(s.Rows)})
				}
				cc.Logger.Info("dry run, nothing inserted", slog.String("target", target.Type))
				renderLoad(cc.Renderer, out, stmts)
				return nil
			}

			db, err := openTarget(cmd.Context(), target, cc.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if out.Results, err = db.Load(cmd.Context(), stmts); err != nil {
				return err
			}
			if out.Sections, err = db.CountBySection(cmd.Context(), roster, opts); err != nil {
				cc.Logger.Warn("verification query failed", slog.String("error", err.Error()))
			}
			renderLoad(cc.Renderer, out, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the statements without connecting")
	cmd.Flags().String("target-type", "", "Target database type (sqlite|postgres|duckdb)")
	cmd.Flags().String("target-path", "", "Database file for sqlite and duckdb targets")
	cmd.Flags().String("target-dsn", "", "Connection string, overrides the other target settings")
	cmd.Flags().String("target-schema", "", "Schema owning the student tables")

	_ = cmd.RegisterFlagCompletionFunc("target-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return loader.Types(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func renderLoad(r *output.Renderer, out LoadOutput, stmts []sqlgen.Statement) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(out)
		return
	}

	if out.DryRun {
		r.Header(1, "Dry run ("+out.Target+")")
		for _, s := range stmts {
			r.Println(s.SQL)
			r.Println("")
		}
		r.Muted("Nothing was inserted")
		return
	}

	r.Header(1, "Loaded into "+out.Target)
	for _, res := range out.Results {
		r.StatusLine(res.Table, "success", strconv.FormatInt(res.Rows, 10)+" rows")
	}
	if len(out.Sections) == 0 {
		return
	}
	r.Println("")
	rows := make([][]string, 0, len(out.Sections))
	for _, s := range out.Sections {
		id := s.SectionID
		if id == "" {
			id = "(class level)"
		}
		rows = append(rows, []string{id, strconv.FormatInt(s.Students, 10)})
	}
	r.Table([]string{"Section", "Students"}, rows)
}
