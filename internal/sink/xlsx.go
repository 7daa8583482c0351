//go:build !noxlsx

package sink

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Header and category fills used by both workbooks. Category fills are
// assigned by category position and wrap around.
var (
	headerFill    = "4472C4"
	categoryFills = []string{"E7E6FF", "FFF2CC", "E2EFDA", "FCE4D6", "DDEBF7", "EDEDED"}
)

func init() {
	Default.Register(&Workbook{})
	Default.Register(&ImportWorkbook{})
}

// CategoryFill returns the fill color for the i-th category.
func CategoryFill(i int) string {
	return categoryFills[i%len(categoryFills)]
}

// styles caches the style IDs of one workbook.
type styles struct {
	f          *excelize.File
	header     int
	bold       int
	title      int
	categories map[int]int
}

func newStyles(f *excelize.File) (*styles, error) {
	s := &styles{f: f, categories: make(map[int]int)}

	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create bold style: %w", err)
	}
	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	return s, nil
}

// category returns the fill style for the i-th category.
func (s *styles) category(i int) (int, error) {
	if id, ok := s.categories[i]; ok {
		return id, nil
	}
	id, err := s.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{CategoryFill(i)}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create category style: %w", err)
	}
	s.categories[i] = id
	return id, nil
}

// writeTable writes a styled header row followed by rows, applies fill to
// the data cells when fill is non-zero, sets column widths and freezes the
// header row.
func (s *styles) writeTable(sheet string, headers []string, rows [][]any, fill int, width float64) error {
	f := s.f
	for c, h := range headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", s.header); err != nil {
		return err
	}

	for r, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return err
		}
	}
	if fill != 0 && len(rows) > 0 {
		last := fmt.Sprintf("%s%d", lastCol, len(rows)+1)
		if err := f.SetCellStyle(sheet, "A2", last, fill); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", lastCol, width); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// writePairs writes two-column label/value rows starting at startRow with
// bold labels.
func (s *styles) writePairs(sheet string, startRow int, pairs [][2]any) error {
	for i, p := range pairs {
		row := startRow + i
		a := fmt.Sprintf("A%d", row)
		if err := s.f.SetSheetRow(sheet, a, &[]any{p[0], p[1]}); err != nil {
			return err
		}
		if label, ok := p[0].(string); ok && label != "" && !strings.HasPrefix(label, " ") {
			if err := s.f.SetCellStyle(sheet, a, a, s.bold); err != nil {
				return err
			}
		}
	}
	return nil
}

// invalidSheetChars are rejected by Excel in sheet names.
var invalidSheetChars = strings.NewReplacer(":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "")

// uniqueSheetName sanitizes name to Excel's rules and suffixes it when taken.
func uniqueSheetName(name string, taken map[string]bool) string {
	const maxLen = 31
	base := strings.TrimSpace(invalidSheetChars.Replace(name))
	if base == "" {
		base = "Sheet"
	}
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	candidate := base
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxLen {
			trimmed = trimmed[:maxLen-len(suffix)]
		}
		candidate = trimmed + suffix
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}
