// Package output renders operator-facing command output.
//
// A Renderer prints in one of three concrete modes: styled text for
// terminals, markdown for pipes and files, and JSON for scripts. The auto
// mode picks text or markdown depending on whether stdout is a terminal.
// Generated artifacts written to stdout (SQL, JSON records) bypass the
// Renderer; only status, summaries and tables go through it.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// OutputMode selects how a Renderer formats output.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Modes returns the accepted --output values.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}
}

// Mode normalizes s to an OutputMode. Unknown values fall back to auto.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText
	case ModeMarkdown, "md":
		return ModeMarkdown
	case ModeJSON:
		return ModeJSON
	default:
		return ModeAuto
	}
}

// ValidMode reports whether s names an output mode.
func ValidMode(s string) bool {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto, ModeText, ModeMarkdown, "md", ModeJSON:
		return true
	}
	return false
}

// Renderer writes formatted output. Status messages go to out; warnings
// and errors go to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   Mode(string(mode)),
		isTTY:  isTTY,
		styles: NewStyles(out),
	}
}

// EffectiveMode resolves auto to text or markdown.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the text-mode styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the stdout writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

func (r *Renderer) text() bool { return r.EffectiveMode() == ModeText }

// Println prints a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf prints formatted output to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header prints a level 1 or 2 heading.
func (r *Renderer) Header(level int, text string) {
	if !r.text() {
		r.Println(FormatHeader(level, text))
		r.Println("")
		return
	}
	style := r.styles.Header2
	if level <= 1 {
		style = r.styles.Header1
	}
	r.Println(style.Render(text))
}

// Success prints a success message.
func (r *Renderer) Success(msg string) {
	if r.text() {
		r.Println(r.styles.Success.Render("✓ " + msg))
		return
	}
	r.Println("✓ " + msg)
}

// Muted prints secondary information.
func (r *Renderer) Muted(msg string) {
	if r.text() {
		r.Println(r.styles.Muted.Render(msg))
		return
	}
	r.Println("_" + msg + "_")
}

// Warning prints a warning to stderr.
func (r *Renderer) Warning(msg string) {
	line := "Warning: " + msg
	if r.text() {
		line = r.styles.Warning.Render(line)
	}
	_, _ = fmt.Fprintln(r.errOut, line)
}

// Error prints an error to stderr.
func (r *Renderer) Error(msg string) {
	line := "Error: " + msg
	if r.text() {
		line = r.styles.Error.Render(line)
	}
	_, _ = fmt.Fprintln(r.errOut, line)
}

// StatusLine prints name with a status marker: success, skipped or failed.
// detail, when set, follows in muted text.
func (r *Renderer) StatusLine(name, status, detail string) {
	marker := "•"
	style := r.styles.Info
	switch status {
	case "success":
		marker, style = "✓", r.styles.Success
	case "skipped":
		marker, style = "-", r.styles.Warning
	case "failed":
		marker, style = "✗", r.styles.Error
	}
	line := marker + " " + name
	if detail != "" {
		line += " (" + detail + ")"
	}
	if r.text() {
		line = style.Render(marker) + " " + name
		if detail != "" {
			line += " " + r.styles.Muted.Render("("+detail+")")
		}
	}
	r.Printf("  %s\n", line)
}

// KeyValue prints one labelled value.
func (r *Renderer) KeyValue(key, value string) {
	if r.text() {
		r.Printf("  %s %s\n", r.styles.Key.Render(key+":"), value)
		return
	}
	r.Println(FormatKeyValue(key, value))
}

// Table prints rows under headers: a light box table in text mode, a pipe
// table otherwise.
func (r *Renderer) Table(headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.text() {
		t.SetStyle(table.StyleLight)
		t.Render()
		return
	}
	t.RenderMarkdown()
	r.Println("")
}

// JSON writes v as indented JSON to stdout.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatHeader formats a markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}
