//go:build !noxlsx

package sink

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sqlgen"
	"github.com/xuri/excelize/v2"
)

// Report sheet names.
const (
	SheetSummary     = "Summary"
	SheetAllStudents = "All Students"
	SheetSQLInserts  = "SQL Inserts"
)

// ReportHeaders are the columns of the student sheets in the report workbook.
var ReportHeaders = []string{
	"Student ID", "Email", "First Name", "Last Name", "Phone",
	"Institute ID", "Institute Name", "Class ID", "Class Name", "Class Code",
	"Section ID", "Section Name", "Association Type", "Enrollment ID", "Active",
}

// Workbook writes the report workbook: a summary sheet, all students, one
// sheet per category and the SQL script.
type Workbook struct {
	SQL sqlgen.ScriptOptions
}

// Name implements Serializer.
func (*Workbook) Name() string { return FormatXLSX }

// Extension implements Serializer.
func (*Workbook) Extension() string { return ".xlsx" }

// WithSQL implements SQLConfigurer.
func (*Workbook) WithSQL(opts sqlgen.ScriptOptions) Serializer {
	return &Workbook{SQL: opts}
}

// Write implements Serializer.
func (wb *Workbook) Write(w io.Writer, r *generator.Roster) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	taken := map[string]bool{}
	if err := f.SetSheetName("Sheet1", uniqueSheetName(SheetSummary, taken)); err != nil {
		return err
	}
	if err := writeSummary(st, SheetSummary, r); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	all := uniqueSheetName(SheetAllStudents, taken)
	if _, err := f.NewSheet(all); err != nil {
		return err
	}
	if err := st.writeTable(all, ReportHeaders, reportRows(r.Records), 0, 25); err != nil {
		return fmt.Errorf("failed to write %s sheet: %w", all, err)
	}

	for i, cat := range r.Config.Categories {
		name := uniqueSheetName(categorySheetName(cat, r.Config.Categories), taken)
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		fill, err := st.category(i)
		if err != nil {
			return err
		}
		if err := st.writeTable(name, ReportHeaders, reportRows(r.ByCategory(cat.Name)), fill, 25); err != nil {
			return fmt.Errorf("failed to write %s sheet: %w", name, err)
		}
	}

	sqlSheet := uniqueSheetName(SheetSQLInserts, taken)
	if _, err := f.NewSheet(sqlSheet); err != nil {
		return err
	}
	if err := wb.writeSQL(f, sqlSheet, r); err != nil {
		return fmt.Errorf("failed to write SQL sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSummary(st *styles, sheet string, r *generator.Roster) error {
	f := st.f
	cfg := r.Config

	if err := f.SetCellValue(sheet, "A1", "Test University Student Generation Summary"); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", st.title); err != nil {
		return err
	}

	pairs := [][2]any{
		{"Generated At:", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
		{"", ""},
		{"Institute:", cfg.InstituteName},
		{"Institute ID:", cfg.InstituteID},
		{"", ""},
		{"Class:", cfg.ClassName},
		{"Class Code:", cfg.ClassCode},
		{"Class ID:", cfg.ClassID},
		{"", ""},
	}
	for _, cat := range r.Sections() {
		pairs = append(pairs, [2]any{sectionLabel(cat) + " Section ID:", cat.SectionID})
	}
	pairs = append(pairs, [2]any{"", ""}, [2]any{"Total Students:", r.Total()})
	for _, cc := range r.Counts() {
		pairs = append(pairs, [2]any{countLabel(cc.Category) + " Students:", cc.Count})
	}
	pairs = append(pairs,
		[2]any{"", ""},
		[2]any{"Email Format:", "student<no>@" + cfg.EmailDomain},
		[2]any{"Email Range:", emailRange(r)},
	)

	if err := st.writePairs(sheet, 2, pairs); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 50)
}

func (wb *Workbook) writeSQL(f *excelize.File, sheet string, r *generator.Roster) error {
	opts := wb.SQL
	if opts.Schema == "" && opts.Dialect == "" {
		opts.Schema = sqlgen.DefaultSchema
	}
	opts.IncludeJSON = false

	var buf bytes.Buffer
	if err := sqlgen.Script(&buf, r, opts); err != nil {
		return err
	}

	sc := bufio.NewScanner(&buf)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	row := 1
	for sc.Scan() {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sc.Text()); err != nil {
			return err
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 120)
}

func reportRows(recs []generator.Record) [][]any {
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		section := rec.SectionID
		if section == "" {
			section = "NULL"
		}
		active := "FALSE"
		if rec.Active {
			active = "TRUE"
		}
		rows = append(rows, []any{
			rec.ID, rec.Email, rec.FirstName, rec.LastName, rec.Phone,
			rec.InstituteID, rec.InstituteName, rec.ClassID, rec.ClassName, rec.ClassCode,
			section, rec.SectionName, rec.AssociationType(), rec.EnrollmentID, active,
		})
	}
	return rows
}

// categorySheetName names a category sheet, e.g. "Morning Section" or
// "Class Level Only" (qualified by label when several categories lack a
// section).
func categorySheetName(cat generator.Category, all []generator.Category) string {
	if cat.HasSection() {
		return sectionLabel(cat) + " Section"
	}
	classOnly := 0
	for _, c := range all {
		if !c.HasSection() {
			classOnly++
		}
	}
	if classOnly == 1 {
		return "Class Level Only"
	}
	return cat.DisplayLabel() + " Class Level"
}

func sectionLabel(cat generator.Category) string {
	if cat.SectionName != "" {
		return cat.SectionName
	}
	return cat.DisplayLabel()
}

func countLabel(cat generator.Category) string {
	if cat.HasSection() {
		return sectionLabel(cat) + " Section"
	}
	return cat.DisplayLabel() + " (Class Level Only)"
}

func emailRange(r *generator.Roster) string {
	if r.Total() == 0 {
		return "none"
	}
	first := r.Records[0].Email
	last := r.Records[len(r.Records)-1].Email
	return first + " to " + last
}
