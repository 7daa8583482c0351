package commands

import (
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sink"
	"github.com/spf13/cobra"
)

// DefaultXLSXFile is the xlsx command's default output path.
const DefaultXLSXFile = "test_students.xlsx"

// NewXLSXCommand creates the xlsx command.
func NewXLSXCommand() *cobra.Command {
	var importLayout bool

	cmd := &cobra.Command{
		Use:   "xlsx [file]",
		Short: "Write the student report workbook",
		Long: `Write a spreadsheet workbook.

The default report workbook has a Summary sheet, an All Students sheet,
one sheet per category and a SQL Inserts sheet. With --import the
bulk-import layout is written instead: a Students sheet plus Instructions.

Fails when the binary was built with -tags noxlsx.`,
		Example: `  studentgen xlsx
  studentgen xlsx roster.xlsx --per-group 5
  studentgen xlsx upload.xlsx --import`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultXLSXFile
			if len(args) > 0 {
				path = args[0]
			}
			format := sink.FormatXLSX
			if importLayout {
				format = sink.FormatXLSXImport
			}
			return writeFormat(cmd, format, path)
		},
	}

	cmd.Flags().BoolVar(&importLayout, "import", false, "Write the bulk-import layout instead of the report")
	return cmd
}
