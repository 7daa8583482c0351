package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
)

// ImportHeader is the column layout expected by the bulk student import API.
var ImportHeader = []string{"name", "email", "phone", "password", "instituteId", "classId", "sectionId", "courseId"}

// ImportRow is one row of a bulk-import file.
type ImportRow struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	InstituteID string
	ClassID     string
	SectionID   string
	CourseID    string
}

// ImportRowFrom projects a record onto the bulk-import columns.
func ImportRowFrom(rec generator.Record) ImportRow {
	return ImportRow{
		Name:        rec.Name,
		Email:       rec.Email,
		Phone:       rec.Phone,
		Password:    rec.Password,
		InstituteID: rec.InstituteID,
		ClassID:     rec.ClassID,
		SectionID:   rec.SectionID,
		CourseID:    rec.CourseID,
	}
}

// Values returns the row in ImportHeader order.
func (r ImportRow) Values() []string {
	return []string{r.Name, r.Email, r.Phone, r.Password, r.InstituteID, r.ClassID, r.SectionID, r.CourseID}
}

// CSV writes the bulk-import CSV file.
type CSV struct{}

// Name implements Serializer.
func (CSV) Name() string { return FormatCSV }

// Extension implements Serializer.
func (CSV) Extension() string { return ".csv" }

// Write implements Serializer.
func (CSV) Write(w io.Writer, r *generator.Roster) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ImportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range r.Records {
		if err := cw.Write(ImportRowFrom(rec).Values()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", rec.Counter, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a bulk-import CSV. Columns are matched by header name,
// ignoring case, and may appear in any order; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]ImportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["email"]; !ok {
		return nil, fmt.Errorf("CSV header has no email column")
	}

	var rows []ImportRow
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}
		rows = append(rows, ImportRow{
			Name:        get("name"),
			Email:       get("email"),
			Phone:       get("phone"),
			Password:    get("password"),
			InstituteID: get("instituteid"),
			ClassID:     get("classid"),
			SectionID:   get("sectionid"),
			CourseID:    get("courseid"),
		})
	}
	return rows, nil
}
