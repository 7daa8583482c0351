package commands

import (
	"log/slog"
	"strconv"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/output"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sink"
	"github.com/spf13/cobra"
)

// DefaultCSVFile is the csv command's default output path.
const DefaultCSVFile = DefaultBulkBasename + ".csv"

// NewCSVCommand creates the csv command.
func NewCSVCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "csv [file]",
		Short: "Write the bulk-import CSV file",
		Long: `Write only the bulk-import CSV file.

Columns: name, email, phone, password, instituteId, classId, sectionId,
courseId. Class-level-only students have an empty sectionId.`,
		Example: `  studentgen csv
  studentgen csv /tmp/students.csv --domain example.edu`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultCSVFile
			if len(args) > 0 {
				path = args[0]
			}
			return writeFormat(cmd, sink.FormatCSV, path)
		},
	}
}

// writeFormat generates the roster and writes it to path in format.
func writeFormat(cmd *cobra.Command, format, path string) error {
	cc := NewCommandContext(cmd)
	s, err := cc.Serializer(format)
	if err != nil {
		return err
	}
	roster, err := cc.Generate()
	if err != nil {
		return err
	}
	if err := writeFile(path, s, roster); err != nil {
		return err
	}
	cc.Logger.Info("wrote file", slog.String("path", path), slog.String("format", format), slog.Int("rows", roster.Total()))

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(BulkFile{Path: path, Format: format, Rows: roster.Total(), Status: "success"})
	}
	cc.Renderer.Success("Created " + path + " (" + strconv.Itoa(roster.Total()) + " students)")
	return nil
}
