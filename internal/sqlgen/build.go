// Package sqlgen renders generated rosters as INSERT statements for the
// student schema (students and enrollments tables).
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
)

// Placeholder tenant and course identifiers. Scripts rendered with them
// carry a warning telling the operator to substitute real values.
const (
	PlaceholderClientID = "YOUR_CLIENT_ID_HERE"
	PlaceholderCourseID = "YOUR_COURSE_ID_HERE"
)

// Table names inside the target schema.
const (
	StudentsTable    = "students"
	EnrollmentsTable = "enrollments"
)

// DefaultSchema is the schema owning the student tables.
const DefaultSchema = "student"

// Options controls statement rendering.
type Options struct {
	Schema  string
	Dialect Dialect
}

func (o Options) dialect() Dialect {
	if o.Dialect == "" {
		return Postgres
	}
	return o.Dialect
}

// Table returns the qualified name of table.
func (o Options) Table(table string) string {
	if o.Schema == "" {
		return table
	}
	return o.Schema + "." + table
}

// Statement is one multi-row INSERT.
type Statement struct {
	Table string
	SQL   string
	Rows  int
}

var studentColumns = []string{
	"id", "client_id", "email", "first_name", "last_name", "phone",
	"is_active", "created_at", "updated_at",
}

var enrollmentColumns = []string{
	"id", "client_id", "student_id", "institute_id", "class_id", "batch_id", "course_id",
	"enrolled_at", "created_at", "updated_at",
}

// Build returns the students insert followed by the enrollments insert for
// every record of r. An empty roster yields no statements.
func Build(r *generator.Roster, opts Options) []Statement {
	return buildFor(r.Config, r.Records, opts)
}

// CategoryStatements holds the statements for one category.
type CategoryStatements struct {
	Category   generator.Category
	Statements []Statement
}

// BuildGrouped returns one students/enrollments pair per non-empty category.
func BuildGrouped(r *generator.Roster, opts Options) []CategoryStatements {
	var out []CategoryStatements
	for _, cat := range r.Config.Categories {
		recs := r.ByCategory(cat.Name)
		if len(recs) == 0 {
			continue
		}
		out = append(out, CategoryStatements{
			Category:   cat,
			Statements: buildFor(r.Config, recs, opts),
		})
	}
	return out
}

func buildFor(cfg generator.Config, recs []generator.Record, opts Options) []Statement {
	if len(recs) == 0 {
		return nil
	}
	d := opts.dialect()

	students := make([]string, 0, len(recs))
	enrollments := make([]string, 0, len(recs))
	for _, rec := range recs {
		students = append(students, tuple(
			quote(rec.ID),
			quote(cfg.ClientID),
			quote(rec.Email),
			quote(rec.FirstName),
			quote(rec.LastName),
			quote(rec.Phone),
			d.True(),
			d.Now(),
			d.Now(),
		))
		enrollments = append(enrollments, tuple(
			quote(rec.EnrollmentID),
			quote(cfg.ClientID),
			quote(rec.ID),
			quote(rec.InstituteID),
			quote(rec.ClassID),
			nullable(rec.SectionID),
			nullable(rec.CourseID),
			d.Now(),
			d.Now(),
			d.Now(),
		))
	}

	return []Statement{
		{
			Table: opts.Table(StudentsTable),
			SQL:   insert(opts.Table(StudentsTable), studentColumns, 6, students),
			Rows:  len(recs),
		},
		{
			Table: opts.Table(EnrollmentsTable),
			SQL:   insert(opts.Table(EnrollmentsTable), enrollmentColumns, 7, enrollments),
			Rows:  len(recs),
		},
	}
}

// insert lays the statement out with the column list wrapped after wrapAt
// columns and one tuple per line.
func insert(table string, cols []string, wrapAt int, rows []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (\n", table)
	b.WriteString("    " + strings.Join(cols[:wrapAt], ", ") + ",\n")
	b.WriteString("    " + strings.Join(cols[wrapAt:], ", ") + "\n")
	b.WriteString(") VALUES\n")
	for i, row := range rows {
		b.WriteString("    " + row)
		if i < len(rows)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString(";")
		}
	}
	return b.String()
}

func tuple(values ...string) string {
	return "(" + strings.Join(values, ", ") + ")"
}

// quote renders s as a SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}

// Query is a titled read-only statement shipped with the script so the
// operator can check what was inserted.
type Query struct {
	Title string
	SQL   string
}

// VerificationQueries returns the count-by-section and list queries.
func VerificationQueries(r *generator.Roster, opts Options) []Query {
	cfg := r.Config
	return []Query{
		{
			Title: "Count students by section",
			SQL: fmt.Sprintf(`SELECT
    e.batch_id AS section_id,
    COUNT(DISTINCT e.student_id) AS student_count
FROM %s e
WHERE e.client_id = %s
    AND e.class_id = %s
GROUP BY e.batch_id
ORDER BY student_count DESC, section_id;`,
				opts.Table(EnrollmentsTable), quote(cfg.ClientID), quote(cfg.ClassID)),
		},
		{
			Title: "List all created students with their sections",
			SQL: fmt.Sprintf(`SELECT
    s.id AS student_id,
    s.email,
    s.first_name,
    s.last_name,
    e.batch_id AS section_id
FROM %s s
INNER JOIN %s e ON e.student_id = s.id
WHERE s.client_id = %s
    AND s.email LIKE %s
ORDER BY s.email;`,
				opts.Table(StudentsTable), opts.Table(EnrollmentsTable),
				quote(cfg.ClientID), quote("%@"+cfg.EmailDomain)),
		},
	}
}
