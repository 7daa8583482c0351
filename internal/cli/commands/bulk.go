package commands

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/output"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sink"
	"github.com/spf13/cobra"
)

// DefaultBulkBasename names the bulk-import files when no basename is given.
const DefaultBulkBasename = "bulk_import_students"

// BulkFile reports one file written, or skipped, by bulk.
type BulkFile struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Rows   int    `json:"rows"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// BulkOutput is the JSON result of bulk.
type BulkOutput struct {
	Plan  PlanOutput `json:"plan"`
	Files []BulkFile `json:"files"`
}

var nextSteps = []string{
	"Open the admin dashboard",
	"Navigate to Students → Bulk Import",
	"Upload the generated file",
	"Enable 'Auto-generate passwords'",
	"Optionally enable 'Update existing students'",
	"Click 'Import Students'",
}

// NewBulkCommand creates the bulk command.
func NewBulkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk [basename]",
		Short: "Generate bulk-import files (CSV and spreadsheet)",
		Long: `Generate the files accepted by the bulk student import API.

Writes <basename>.csv and, when spreadsheet support is compiled in,
<basename>.xlsx with an Instructions sheet. Binaries built with
-tags noxlsx skip the spreadsheet with a warning and still write the CSV.

Passwords are left empty so the import auto-generates them.`,
		Example: `  # Default plan: three groups of ten students
  studentgen bulk

  # Custom basename and group size
  studentgen bulk out/students --per-group 25`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := DefaultBulkBasename
			if len(args) > 0 {
				base = args[0]
			}
			return RunBulk(cmd, base)
		},
	}
}

// RunBulk writes the bulk-import files under basename. The root command
// calls it when no subcommand is given.
func RunBulk(cmd *cobra.Command, basename string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	roster, err := cc.Generate()
	if err != nil {
		return err
	}
	plan := newPlan(roster)

	csvPath := withExtension(basename, ".csv")
	xlsxPath := withExtension(basename, ".xlsx")

	// Spreadsheet support is decided before anything is written.
	workbook, werr := cc.Serializer(sink.FormatXLSXImport)
	if werr != nil {
		cc.Logger.Warn("spreadsheet output skipped", slog.String("error", werr.Error()))
	}

	jsonMode := r.EffectiveMode() == output.ModeJSON
	if !jsonMode {
		renderPlan(r, "Bulk Import File Generator", plan)
		r.Muted("File format: CSV compatible with bulk import API")
		r.Muted("Passwords: auto-generated during import (left empty)")
		r.Println("")
	}

	files := make([]BulkFile, 0, 2)

	csvSer, err := cc.Serializer(sink.FormatCSV)
	if err != nil {
		return err
	}
	if err := writeFile(csvPath, csvSer, roster); err != nil {
		return err
	}
	cc.Logger.Info("wrote bulk-import file", slog.String("path", csvPath), slog.Int("rows", roster.Total()))
	files = append(files, BulkFile{Path: csvPath, Format: sink.FormatCSV, Rows: roster.Total(), Status: "success"})

	if workbook != nil {
		if err := writeFile(xlsxPath, workbook, roster); err != nil {
			return err
		}
		cc.Logger.Info("wrote bulk-import file", slog.String("path", xlsxPath), slog.Int("rows", roster.Total()))
		files = append(files, BulkFile{Path: xlsxPath, Format: sink.FormatXLSXImport, Rows: roster.Total(), Status: "success"})
	} else {
		r.Warning("spreadsheet support is not available in this build; skipping " + xlsxPath)
		files = append(files, BulkFile{Path: xlsxPath, Format: sink.FormatXLSXImport, Status: "skipped", Reason: "built without spreadsheet support"})
	}

	if jsonMode {
		return r.JSON(BulkOutput{Plan: plan, Files: files})
	}

	r.Header(2, "Files")
	for _, f := range files {
		detail := f.Reason
		if f.Status == "success" {
			detail = strconv.Itoa(f.Rows) + " rows"
		}
		r.StatusLine(f.Path, f.Status, detail)
	}
	r.Println("")

	r.Header(2, "Next steps")
	for i, step := range nextSteps {
		r.Printf("%d. %s\n", i+1, step)
	}
	if workbook == nil {
		r.Println("")
		r.Muted(fmt.Sprintf("Rebuild without -tags noxlsx to also produce %s", xlsxPath))
	}
	return nil
}
