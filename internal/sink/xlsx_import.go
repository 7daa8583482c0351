//go:build !noxlsx

package sink

import (
	"fmt"
	"io"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/xuri/excelize/v2"
)

// Import workbook sheet names.
const (
	SheetInstructions   = "Import Instructions"
	SheetStudentsImport = "Students Import"
)

// ImportWorkbook writes the spreadsheet variant of the bulk-import file:
// an instructions sheet followed by the students sheet.
type ImportWorkbook struct{}

// Name implements Serializer.
func (*ImportWorkbook) Name() string { return FormatXLSXImport }

// Extension implements Serializer.
func (*ImportWorkbook) Extension() string { return ".xlsx" }

// Write implements Serializer.
func (*ImportWorkbook) Write(w io.Writer, r *generator.Roster) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SheetInstructions); err != nil {
		return err
	}
	if err := st.writePairs(SheetInstructions, 1, instructions(r)); err != nil {
		return fmt.Errorf("failed to write instructions: %w", err)
	}
	if err := f.SetColWidth(SheetInstructions, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetInstructions, "B", "B", 50); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetStudentsImport); err != nil {
		return err
	}
	if err := st.writeTable(SheetStudentsImport, ImportHeader, nil, 0, 30); err != nil {
		return err
	}

	// rows are written per category so each block gets its own fill
	row := 2
	for i, cat := range r.Config.Categories {
		recs := r.ByCategory(cat.Name)
		if len(recs) == 0 {
			continue
		}
		fill, err := st.category(i)
		if err != nil {
			return err
		}
		first := row
		for _, rec := range recs {
			values := ImportRowFrom(rec).Values()
			cells := make([]any, len(values))
			for j, v := range values {
				cells[j] = v
			}
			if err := f.SetSheetRow(SheetStudentsImport, fmt.Sprintf("A%d", row), &cells); err != nil {
				return err
			}
			row++
		}
		if err := f.SetCellStyle(SheetStudentsImport, fmt.Sprintf("A%d", first), fmt.Sprintf("H%d", row-1), fill); err != nil {
			return err
		}
	}

	idx, err := f.GetSheetIndex(SheetStudentsImport)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return f.Write(w)
}

func instructions(r *generator.Roster) [][2]any {
	cfg := r.Config
	pairs := [][2]any{
		{"Bulk Student Import File", ""},
		{"", ""},
		{"Instructions:", ""},
		{"1. Fill in the 'Students Import' sheet with student data", ""},
		{"2. Required fields: name, email, instituteId", ""},
		{"3. Password: Leave empty to auto-generate", ""},
		{"4. Section: Leave sectionId empty for class-level only association", ""},
		{"5. Upload this file to the Bulk Import page in the admin dashboard", ""},
		{"", ""},
		{"Field Descriptions:", ""},
		{"name", "Full name of the student (required)"},
		{"email", "Email address - must be unique (required)"},
		{"phone", "Phone number (optional)"},
		{"password", "Password - leave empty to auto-generate (optional)"},
		{"instituteId", "ID of the institute (required)"},
		{"classId", "ID of the class (optional but recommended)"},
		{"sectionId", "ID of the section - leave empty for class-level only (optional)"},
		{"courseId", "ID of the course to enroll in (optional)"},
		{"", ""},
		{"Test University IDs:", ""},
		{"Institute ID:", cfg.InstituteID},
		{fmt.Sprintf("Class ID (%s):", cfg.ClassName), cfg.ClassID},
	}
	for _, cat := range r.Sections() {
		pairs = append(pairs, [2]any{sectionLabel(cat) + " Section ID:", cat.SectionID})
	}

	pairs = append(pairs, [2]any{"", ""}, [2]any{"Student Distribution:", ""})
	for _, cc := range r.Counts() {
		if cc.Count == 0 {
			continue
		}
		// data starts on row 2, below the header
		label := fmt.Sprintf("Rows %d-%d:", cc.First+1, cc.Last+1)
		what := fmt.Sprintf("%s section (%d students)", sectionLabel(cc.Category), cc.Count)
		if !cc.Category.HasSection() {
			what = fmt.Sprintf("Class level only, no section (%d students)", cc.Count)
		}
		pairs = append(pairs, [2]any{label, what})
	}

	pairs = append(pairs,
		[2]any{"", ""},
		[2]any{"Import Options (in UI):", ""},
		[2]any{"Auto-generate passwords", "Recommended - enabled by default"},
		[2]any{"Update existing students", "Optional - updates if email exists"},
		[2]any{"Auto-enroll in courses", "Optional - only if courseId is provided"},
	)
	return pairs
}
