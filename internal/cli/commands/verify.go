package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/output"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sink"
	"github.com/spf13/cobra"
)

// ErrVerifyFailed is returned when a file does not match the plan.
var ErrVerifyFailed = errors.New("verification failed")

// Problem is one mismatch found by verify. Row is the 1-based data row, or
// 0 for file-level problems.
type Problem struct {
	Row     int    `json:"row,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// VerifyOutput is the JSON result of verify.
type VerifyOutput struct {
	File       string        `json:"file"`
	Rows       int           `json:"rows"`
	Expected   int           `json:"expected"`
	Categories []VerifyCount `json:"categories"`
	Problems   []Problem     `json:"problems"`
	OK         bool          `json:"ok"`
}

// VerifyCount compares one category's expected and found row counts.
type VerifyCount struct {
	Name     string `json:"name"`
	Expected int    `json:"expected"`
	Found    int    `json:"found"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file.csv>",
		Short: "Check a bulk-import CSV against the configured plan",
		Long: `Re-read a bulk-import CSV and check it against the configured plan.

Checks the row count, that emails run student1..studentN in order, that the
institute and class ids match, and that section-level rows carry their
section id while class-level-only rows have none.`,
		Example: `  studentgen verify bulk_import_students.csv
  studentgen verify out.csv --per-group 25 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			path := args[0]

			f, err := os.Open(path) //nolint:gosec // path is chosen by the operator
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			rows, err := sink.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			plan := cc.Cfg.ToGenerator()
			result := VerifyRows(plan, rows)
			result.File = path
			cc.Logger.Debug("verified file", slog.String("path", path), slog.Int("rows", result.Rows), slog.Int("problems", len(result.Problems)))

			renderVerify(cc.Renderer, result)
			if !result.OK {
				return fmt.Errorf("%w: %s has %d problem(s)", ErrVerifyFailed, path, len(result.Problems))
			}
			return nil
		},
	}
}

// VerifyRows checks rows against plan. Rows are matched to categories by
// position: the first Count rows belong to the first category and so on.
func VerifyRows(plan generator.Config, rows []sink.ImportRow) VerifyOutput {
	out := VerifyOutput{
		Rows:     len(rows),
		Expected: plan.Total(),
		Problems: []Problem{},
	}
	if out.Rows != out.Expected {
		out.Problems = append(out.Problems, Problem{
			Field:   "rows",
			Message: fmt.Sprintf("expected %d rows, found %d", out.Expected, out.Rows),
		})
	}

	i := 0
	for _, cat := range plan.Categories {
		vc := VerifyCount{Name: cat.Name, Expected: cat.Count}
		for n := 0; n < cat.Count && i < len(rows); n++ {
			out.Problems = append(out.Problems, checkRow(plan, cat, i+1, rows[i])...)
			vc.Found++
			i++
		}
		out.Categories = append(out.Categories, vc)
	}
	for ; i < len(rows); i++ {
		out.Problems = append(out.Problems, Problem{Row: i + 1, Field: "row", Message: "not part of the plan"})
	}

	out.OK = len(out.Problems) == 0
	return out
}

func checkRow(plan generator.Config, cat generator.Category, k int, row sink.ImportRow) []Problem {
	var probs []Problem
	add := func(field, format string, a ...any) {
		probs = append(probs, Problem{Row: k, Field: field, Message: fmt.Sprintf(format, a...)})
	}

	if want := generator.Email(k, plan.EmailDomain); !strings.EqualFold(row.Email, want) {
		add("email", "expected %s, found %q", want, row.Email)
	}
	if strings.TrimSpace(row.Name) == "" {
		add("name", "name is empty")
	}
	if row.InstituteID != plan.InstituteID {
		add("instituteId", "expected %s, found %q", plan.InstituteID, row.InstituteID)
	}
	if row.ClassID != plan.ClassID {
		add("classId", "expected %s, found %q", plan.ClassID, row.ClassID)
	}
	switch {
	case cat.HasSection() && row.SectionID != cat.SectionID:
		add("sectionId", "expected %s for %s, found %q", cat.SectionID, cat.Name, row.SectionID)
	case !cat.HasSection() && row.SectionID != "":
		add("sectionId", "class-level-only row has section %q", row.SectionID)
	}
	if row.Password != "" {
		add("password", "password should be empty so the import generates one")
	}
	return probs
}

func renderVerify(r *output.Renderer, v VerifyOutput) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(v)
		return
	}

	r.Header(1, "Verify "+v.File)
	rows := make([][]string, 0, len(v.Categories))
	for _, c := range v.Categories {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Expected), strconv.Itoa(c.Found)})
	}
	r.Table([]string{"Category", "Expected", "Found"}, rows)

	if v.OK {
		r.Success(fmt.Sprintf("%d rows match the plan", v.Rows))
		return
	}
	for _, p := range v.Problems {
		loc := "file"
		if p.Row > 0 {
			loc = "row " + strconv.Itoa(p.Row)
		}
		r.StatusLine(loc+" "+p.Field, "failed", p.Message)
	}
}
