package commands

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/config"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/idgen"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sink"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 1, 18, 10, 0, 0, 0, time.UTC)

// execute runs sub under a minimal root carrying the global flags, in a
// fresh working directory with deterministic ids and clock.
func execute(t *testing.T, sub *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	origIDs, origNow := newIDGenerator, now
	newIDGenerator = func() generator.IDGenerator { return &idgen.Sequence{Prefix: "ID"} }
	now = func() time.Time { return fixedTime }
	t.Cleanup(func() { newIDGenerator, now = origIDs, origNow })

	root := &cobra.Command{
		Use:           "studentgen",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := config.LoadConfig("", cmd.Flags()); err != nil {
				return err
			}
			cmd.SetContext(config.WithLogger(cmd.Context(), testutil.NewTestLogger(t)))
			return nil
		},
	}
	root.PersistentFlags().StringP("output", "o", "", "")
	root.PersistentFlags().Int("per-group", 0, "")
	root.PersistentFlags().String("domain", "", "")
	root.PersistentFlags().String("client-id", "", "")
	root.PersistentFlags().String("course-id", "", "")
	root.PersistentFlags().StringSlice("only", nil, "")
	root.AddCommand(sub)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{sub.Name()}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestCSVCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, NewCSVCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created bulk_import_students.csv (30 students)")

	lines := readLines(t, DefaultCSVFile)
	require.Len(t, lines, 31)
	assert.Equal(t, "name,email,phone,password,instituteId,classId,sectionId,courseId", lines[0])
	assert.Equal(t, "Student1 Morning,student1@testuni.com,+15550001,,"+config.DefaultInstituteID+","+config.DefaultClassID+","+config.DefaultMorningSectionID+",", lines[1])
	assert.Equal(t, "Student30 ClassOnly,student30@testuni.com,+15550030,,"+config.DefaultInstituteID+","+config.DefaultClassID+",,", lines[30])
}

func TestCSVCommand_CustomPathAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, _, err := execute(t, NewCSVCommand(), "out/students.csv", "--per-group", "2", "--domain", "example.edu", "--only", "evening")
	require.NoError(t, err)

	lines := readLines(t, filepath.Join(dir, "out", "students.csv"))
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Student1 Evening,student1@example.edu,"))
}

func TestBulkCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, stderr, err := execute(t, NewBulkCommand(), "fixtures")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Bulk Import File Generator")
	assert.Contains(t, stdout, "- **Total Students:** 30")
	assert.Contains(t, stdout, "student21@testuni.com - student30@testuni.com")
	assert.Contains(t, stdout, "## Next steps")
	assert.Contains(t, stdout, "6. Click 'Import Students'")
	assert.Len(t, readLines(t, "fixtures.csv"), 31)

	_, statErr := os.Stat("fixtures.xlsx")
	if sink.Default.Available(sink.FormatXLSXImport) {
		require.NoError(t, statErr)
		assert.Contains(t, stdout, "✓ fixtures.xlsx (30 rows)")
	} else {
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
		assert.Contains(t, stderr, "spreadsheet support is not available")
	}
}

func TestBulkCommand_JSON(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, NewBulkCommand(), "-o", "json", "--per-group", "3")
	require.NoError(t, err)

	var got BulkOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 9, got.Plan.Total)
	require.Len(t, got.Plan.Categories, 3)
	assert.Equal(t, "student7@testuni.com", got.Plan.Categories[2].FirstEmail)
	assert.Empty(t, got.Plan.Categories[2].SectionID)
	require.Len(t, got.Files, 2)
	assert.Equal(t, BulkFile{Path: "bulk_import_students.csv", Format: sink.FormatCSV, Rows: 9, Status: "success"}, got.Files[0])
}

func TestSQLCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		inserts  int
	}{
		{
			name:     "default",
			contains: []string{"INSERT INTO student.students (", "NOW()", "-- IMPORTANT: Replace 'YOUR_CLIENT_ID_HERE'", "-- Total Students Created: 30"},
			inserts:  1,
		},
		{
			name:     "per category",
			args:     []string{"--per-category"},
			contains: []string{"INSERT INTO student.enrollments ("},
			inserts:  3,
		},
		{
			name:     "sqlite without schema",
			args:     []string{"--dialect", "sqlite", "--schema", ""},
			contains: []string{"INSERT INTO students (", "CURRENT_TIMESTAMP"},
			inserts:  1,
		},
		{
			name:     "json appendix",
			args:     []string{"--json", "--client-id", "tenant-1"},
			contains: []string{"-- JSON DATA (for reference)", "'tenant-1'"},
			inserts:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			stdout, _, err := execute(t, NewSQLCommand(), tt.args...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
			assert.Equal(t, tt.inserts, strings.Count(stdout, "students (\n"))
		})
	}
}

func TestSQLCommand_File(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, NewSQLCommand(), "-f", "seed.sql")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created seed.sql")

	data, err := os.ReadFile("seed.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- VERIFICATION QUERIES")
}

func TestSQLCommand_InvalidDialect(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, NewSQLCommand(), "--dialect", "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown SQL dialect")
}

func TestJSONCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, NewJSONCommand(), "--per-group", "1")
	require.NoError(t, err)

	var recs []generator.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &recs))
	require.Len(t, recs, 3)
	assert.Equal(t, "ID000001", recs[0].ID)
	assert.Equal(t, "ID000002", recs[0].EnrollmentID)
	assert.Equal(t, "student3@testuni.com", recs[2].Email)
	assert.Equal(t, generator.NoSectionName, recs[2].SectionName)
}

func TestSummaryCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("markdown", func(t *testing.T) {
		stdout, _, err := execute(t, NewSummaryCommand())
		require.NoError(t, err)
		assert.Contains(t, stdout, "# Student Generation Plan")
		assert.Contains(t, stdout, "| Morning | Morning | "+config.DefaultMorningSectionID+" | 10 |")
		assert.Contains(t, stdout, "(class level)")

		entries, err := os.ReadDir(".")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, NewSummaryCommand(), "-o", "json", "--per-group", "4")
		require.NoError(t, err)

		var plan PlanOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &plan))
		assert.Equal(t, 12, plan.Total)
		assert.Equal(t, "student5@testuni.com", plan.Categories[1].FirstEmail)
		assert.Equal(t, "student8@testuni.com", plan.Categories[1].LastEmail)
	})
}

func TestVerifyCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, NewCSVCommand(), "students.csv")
	require.NoError(t, err)

	stdout, _, err := execute(t, NewVerifyCommand(), "students.csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "30 rows match the plan")

	// A different group size no longer matches.
	stdout, _, err = execute(t, NewVerifyCommand(), "students.csv", "--per-group", "5")
	require.ErrorIs(t, err, ErrVerifyFailed)
	assert.Contains(t, stdout, "expected 15 rows, found 30")
}

func TestVerifyCommand_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, NewVerifyCommand(), "nope.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open nope.csv")
}

func TestVerifyRows(t *testing.T) {
	plan := config.DefaultConfig()
	plan.StudentsPerGroup = 1
	gen := plan.ToGenerator()

	valid := func() []sink.ImportRow {
		return []sink.ImportRow{
			{Name: "Student1 Morning", Email: "student1@testuni.com", InstituteID: config.DefaultInstituteID, ClassID: config.DefaultClassID, SectionID: config.DefaultMorningSectionID},
			{Name: "Student2 Evening", Email: "student2@testuni.com", InstituteID: config.DefaultInstituteID, ClassID: config.DefaultClassID, SectionID: config.DefaultEveningSectionID},
			{Name: "Student3 ClassOnly", Email: "student3@testuni.com", InstituteID: config.DefaultInstituteID, ClassID: config.DefaultClassID},
		}
	}

	tests := []struct {
		name       string
		mutate     func([]sink.ImportRow) []sink.ImportRow
		wantFields []string
	}{
		{
			name:   "valid",
			mutate: func(rows []sink.ImportRow) []sink.ImportRow { return rows },
		},
		{
			name: "email out of sequence",
			mutate: func(rows []sink.ImportRow) []sink.ImportRow {
				rows[1].Email = "student9@testuni.com"
				return rows
			},
			wantFields: []string{"email"},
		},
		{
			name: "class-only row with section",
			mutate: func(rows []sink.ImportRow) []sink.ImportRow {
				rows[2].SectionID = config.DefaultMorningSectionID
				return rows
			},
			wantFields: []string{"sectionId"},
		},
		{
			name: "section row without section",
			mutate: func(rows []sink.ImportRow) []sink.ImportRow {
				rows[0].SectionID = ""
				return rows
			},
			wantFields: []string{"sectionId"},
		},
		{
			name: "wrong class and password set",
			mutate: func(rows []sink.ImportRow) []sink.ImportRow {
				rows[0].ClassID = "OTHER"
				rows[0].Password = "secret"
				return rows
			},
			wantFields: []string{"classId", "password"},
		},
		{
			name: "extra row",
			mutate: func(rows []sink.ImportRow) []sink.ImportRow {
				return append(rows, sink.ImportRow{Email: "student4@testuni.com"})
			},
			wantFields: []string{"rows", "row"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyRows(gen, tt.mutate(valid()))
			fields := make([]string, 0, len(got.Problems))
			for _, p := range got.Problems {
				fields = append(fields, p.Field)
			}
			if len(tt.wantFields) == 0 {
				assert.True(t, got.OK, "problems: %v", got.Problems)
				return
			}
			assert.False(t, got.OK)
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

const testSchema = `
CREATE TABLE students (
    id TEXT PRIMARY KEY, client_id TEXT NOT NULL, email TEXT NOT NULL UNIQUE,
    first_name TEXT, last_name TEXT, phone TEXT, is_active INTEGER NOT NULL,
    created_at TIMESTAMP, updated_at TIMESTAMP
);
CREATE TABLE enrollments (
    id TEXT PRIMARY KEY, client_id TEXT NOT NULL, student_id TEXT NOT NULL,
    institute_id TEXT NOT NULL, class_id TEXT, batch_id TEXT, course_id TEXT,
    enrolled_at TIMESTAMP, created_at TIMESTAMP, updated_at TIMESTAMP
);`

func TestLoadCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dbPath := filepath.Join(dir, "seed.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	stdout, _, err := execute(t, NewLoadCommand(), "--target-type", "sqlite", "--target-path", dbPath, "--client-id", "tenant")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Loaded into sqlite")
	assert.Contains(t, stdout, "✓ students (30 rows)")
	assert.Contains(t, stdout, "| "+config.DefaultMorningSectionID+" | 10 |")
	assert.Contains(t, stdout, "| (class level) | 10 |")

	db, err = sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM enrollments WHERE batch_id IS NULL").Scan(&n))
	assert.Equal(t, 10, n)
}

func TestLoadCommand_DryRun(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, NewLoadCommand(), "--dry-run", "--per-group", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Dry run (postgres)")
	assert.Contains(t, stdout, "INSERT INTO student.students (")
	assert.Contains(t, stdout, "Nothing was inserted")
}

func TestLoadCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no target", nil, "no load target configured"},
		{"missing path", []string{"--target-type", "sqlite"}, "target.path is required"},
		{"unknown type", []string{"--target-type", "oracle"}, "oracle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			_, _, err := execute(t, NewLoadCommand(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, NewConfigCommand(), "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created studentgen.yaml")

	_, _, err = execute(t, NewConfigCommand(), "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, NewConfigCommand(), "init", "--force")
	require.NoError(t, err)

	stdout, _, err = execute(t, NewConfigCommand(), "show", "--per-group", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# config file: ")
	assert.Contains(t, stdout, "per_group: 7")
	assert.Contains(t, stdout, "domain: testuni.com")
	assert.Contains(t, stdout, "section_id: "+config.DefaultEveningSectionID)
}

type failingSerializer struct{}

func (failingSerializer) Name() string      { return "failing" }
func (failingSerializer) Extension() string { return ".txt" }
func (failingSerializer) Write(w io.Writer, _ *generator.Roster) error {
	_, _ = io.WriteString(w, "partial")
	return errors.New("boom")
}

func TestWriteFile_RemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeFile(path, failingSerializer{}, &generator.Roster{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"bulk_import_students", ".csv", "bulk_import_students.csv"},
		{"students.csv", ".xlsx", "students.xlsx"},
		{"out/data.XLSX", ".csv", "out/data.csv"},
		{"v1.2", ".csv", "v1.2.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withExtension(tt.in, tt.ext), tt.in)
	}
}
