package output

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{" json ", ModeJSON},
		{"yaml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}

	assert.True(t, ValidMode("md"))
	assert.False(t, ValidMode("yaml"))
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode OutputMode
		tty  bool
		want OutputMode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto off tty", ModeAuto, false, ModeMarkdown},
		{"explicit text off tty", ModeText, false, ModeText},
		{"explicit json on tty", ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTest(tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestMarkdownOutput(t *testing.T) {
	r, out, errOut := newTest(ModeMarkdown, false)

	r.Header(1, "Student Generation Plan")
	r.KeyValue("Total Students", "30")
	r.Success("Created bulk_import_students.csv")
	r.Warning("spreadsheet support is not available")

	assert.Contains(t, out.String(), "# Student Generation Plan\n")
	assert.Contains(t, out.String(), "- **Total Students:** 30\n")
	assert.Contains(t, out.String(), "✓ Created bulk_import_students.csv\n")
	assert.Equal(t, "Warning: spreadsheet support is not available\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestStatusLine(t *testing.T) {
	r, out, _ := newTest(ModeMarkdown, false)
	r.StatusLine("bulk_import_students.csv", "success", "30 rows")
	r.StatusLine("bulk_import_students.xlsx", "skipped", "")
	assert.Equal(t, "  ✓ bulk_import_students.csv (30 rows)\n  - bulk_import_students.xlsx\n", out.String())
}

func TestTable(t *testing.T) {
	headers := []string{"Category", "Count"}
	rows := [][]string{{"Morning", "10"}, {"Evening", "10"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTest(ModeMarkdown, false)
		r.Table(headers, rows)
		assert.Contains(t, out.String(), "| Category | Count |")
		assert.Contains(t, out.String(), "| Morning | 10 |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTest(ModeText, true)
		r.Table(headers, rows)
		assert.Contains(t, out.String(), "┌")
		assert.Contains(t, out.String(), "Evening")
	})
}

func TestJSON(t *testing.T) {
	r, out, _ := newTest(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"total": 30}))
	assert.Equal(t, "{\n  \"total\": 30\n}\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Sections", FormatHeader(2, "Sections"))
	assert.Equal(t, "# Plan", FormatHeader(0, "Plan"))
	assert.Equal(t, "- **Domain:** testuni.com", FormatKeyValue("Domain", "testuni.com"))
}

func TestStylesProfile(t *testing.T) {
	var buf bytes.Buffer

	colored := NewStylesWithProfile(&buf, termenv.ANSI)
	assert.Contains(t, colored.Success.Render("ok"), "\x1b[")

	plain := NewStylesWithProfile(&buf, termenv.Ascii)
	assert.Equal(t, "ok", plain.Success.Render("ok"))
}

func TestNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	assert.Equal(t, "ok", NewStyles(&buf).Success.Render("ok"))
}
