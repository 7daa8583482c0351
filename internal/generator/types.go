package generator

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Association types reported for a record.
const (
	AssociationSection   = "Section Level"
	AssociationClassOnly = "Class Level Only"
)

// NoSectionName is the section name shown for class-level-only records.
const NoSectionName = "No Section (Class Level)"

// Category is one group of generated students. A category without a
// SectionID associates its students with the class only.
type Category struct {
	Name        string
	Label       string
	SectionID   string
	SectionName string
	Count       int
}

// HasSection reports whether students in the category get a section.
func (c Category) HasSection() bool {
	return c.SectionID != ""
}

// DisplayLabel returns Label, deriving one from Name when unset
// ("class-only" becomes "ClassOnly").
func (c Category) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return DeriveLabel(c.Name)
}

// DeriveLabel title-cases each word of name and joins them.
func DeriveLabel(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// Config holds everything a generation run needs. Parent identifiers are
// shared by every record of the run.
type Config struct {
	InstituteID   string
	InstituteName string
	ClassID       string
	ClassName     string
	ClassCode     string
	ClientID      string
	CourseID      string
	EmailDomain   string
	PhonePrefix   string
	Categories    []Category
}

// Total returns the number of records the config will produce.
func (c Config) Total() int {
	n := 0
	for _, cat := range c.Categories {
		n += cat.Count
	}
	return n
}

// Record is one synthetic student together with its enrollment.
type Record struct {
	ID           string `json:"id"`
	EnrollmentID string `json:"enrollment_id"`
	Counter      int    `json:"counter"`
	Position     int    `json:"position"`
	Category     string `json:"category"`

	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`

	InstituteID   string `json:"institute_id"`
	InstituteName string `json:"institute_name"`
	ClassID       string `json:"class_id"`
	ClassName     string `json:"class_name"`
	ClassCode     string `json:"class_code"`
	SectionID     string `json:"section_id,omitempty"`
	SectionName   string `json:"section_name"`
	CourseID      string `json:"course_id,omitempty"`
	Active        bool   `json:"is_active"`
}

// HasSection reports whether the record is enrolled in a section.
func (r Record) HasSection() bool {
	return r.SectionID != ""
}

// AssociationType describes how the record is attached to the class.
func (r Record) AssociationType() string {
	if r.HasSection() {
		return AssociationSection
	}
	return AssociationClassOnly
}

// Roster is the result of one generation run.
type Roster struct {
	Config      Config
	GeneratedAt time.Time
	Records     []Record
}

// Total returns the number of generated records.
func (r *Roster) Total() int {
	return len(r.Records)
}

// ByCategory returns the records of the named category in generation order.
func (r *Roster) ByCategory(name string) []Record {
	var out []Record
	for _, rec := range r.Records {
		if rec.Category == name {
			out = append(out, rec)
		}
	}
	return out
}

// ClassOnly returns the records without a section.
func (r *Roster) ClassOnly() []Record {
	var out []Record
	for _, rec := range r.Records {
		if !rec.HasSection() {
			out = append(out, rec)
		}
	}
	return out
}

// CategoryCount pairs a category with the number of records generated for it.
type CategoryCount struct {
	Category Category
	Count    int
	First    int
	Last     int
}

// Counts returns per-category totals in configuration order, including the
// counter range each category covers (First and Last are 0 for empty ones).
func (r *Roster) Counts() []CategoryCount {
	out := make([]CategoryCount, 0, len(r.Config.Categories))
	for _, cat := range r.Config.Categories {
		cc := CategoryCount{Category: cat}
		for _, rec := range r.Records {
			if rec.Category != cat.Name {
				continue
			}
			if cc.Count == 0 {
				cc.First = rec.Counter
			}
			cc.Last = rec.Counter
			cc.Count++
		}
		out = append(out, cc)
	}
	return out
}

// Sections returns the categories that carry a section, in order.
func (r *Roster) Sections() []Category {
	var out []Category
	for _, cat := range r.Config.Categories {
		if cat.HasSection() {
			out = append(out, cat)
		}
	}
	return out
}
