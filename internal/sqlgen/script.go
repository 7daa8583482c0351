package sqlgen

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var scriptTemplate = template.Must(template.New("script.sql.tmpl").Funcs(template.FuncMap{
	"rule": func() string { return "-- " + strings.Repeat("=", 53) },
	"inc":  func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/script.sql.tmpl"))

// ScriptOptions extends Options with script layout switches.
type ScriptOptions struct {
	Options

	// PerCategory emits one students/enrollments pair per category
	// instead of a single pair covering every record.
	PerCategory bool

	// IncludeJSON appends the records as a JSON comment block.
	IncludeJSON bool
}

type statementView struct {
	Comment string
	SQL     string
}

type groupView struct {
	Title      string
	Statements []statementView
}

type countView struct {
	Label string
	Count int
}

type scriptView struct {
	InstituteName     string
	GeneratedAt       string
	ClientID          string
	CourseID          string
	ClientPlaceholder bool
	CoursePlaceholder bool
	Groups            []groupView
	Total             int
	Counts            []countView
	Sections          int
	Queries           []Query
	JSON              string
}

// Script writes a complete seeding script for r: banner, inserts,
// summary, verification queries and an optional JSON appendix.
func Script(w io.Writer, r *generator.Roster, opts ScriptOptions) error {
	cfg := r.Config
	view := scriptView{
		InstituteName:     cfg.InstituteName,
		GeneratedAt:       r.GeneratedAt.UTC().Format(time.RFC3339),
		ClientID:          cfg.ClientID,
		CourseID:          cfg.CourseID,
		ClientPlaceholder: cfg.ClientID == PlaceholderClientID,
		CoursePlaceholder: cfg.CourseID == PlaceholderCourseID,
		Total:             r.Total(),
		Sections:          len(r.Sections()),
		Queries:           VerificationQueries(r, opts.Options),
	}
	if view.InstituteName == "" {
		view.InstituteName = cfg.InstituteID
	}

	for _, cc := range r.Counts() {
		view.Counts = append(view.Counts, countView{Label: categoryTitle(cc.Category), Count: cc.Count})
	}

	if opts.PerCategory {
		for _, g := range BuildGrouped(r, opts.Options) {
			view.Groups = append(view.Groups, groupView{
				Title:      categoryTitle(g.Category),
				Statements: statementViews(g.Statements),
			})
		}
	} else if stmts := Build(r, opts.Options); len(stmts) > 0 {
		view.Groups = append(view.Groups, groupView{
			Title:      "All Students",
			Statements: statementViews(stmts),
		})
	}

	if opts.IncludeJSON {
		data, err := json.MarshalIndent(r.Records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}
		// keep the block comment closed only by the template
		view.JSON = strings.ReplaceAll(string(data), "*/", "* /")
	}

	if err := scriptTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render SQL script: %w", err)
	}
	return nil
}

func statementViews(stmts []Statement) []statementView {
	out := make([]statementView, 0, len(stmts))
	for _, s := range stmts {
		comment := "Insert Students"
		if strings.HasSuffix(s.Table, EnrollmentsTable) {
			comment = "Enroll Students"
		}
		out = append(out, statementView{Comment: comment, SQL: s.SQL})
	}
	return out
}

func categoryTitle(cat generator.Category) string {
	if cat.HasSection() {
		name := cat.SectionName
		if name == "" {
			name = cat.DisplayLabel()
		}
		return fmt.Sprintf("Section: %s (%s)", name, cat.SectionID)
	}
	return fmt.Sprintf("Class Level Only: %s", cat.DisplayLabel())
}
