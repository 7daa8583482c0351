package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Key      lipgloss.Style
	Category lipgloss.Style
}

// NewStyles builds styles bound to w, so color support is detected for the
// writer actually being printed to. NO_COLOR disables colors.
func NewStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		r.SetColorProfile(termenv.Ascii)
	}
	return newStyles(r)
}

// NewStylesWithProfile builds styles for w with a fixed color profile.
func NewStylesWithProfile(w io.Writer, p termenv.Profile) *Styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(p)
	return newStyles(r)
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		Header2:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:     r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:    r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Info:     r.NewStyle().Foreground(lipgloss.Color("12")),
		Key:      r.NewStyle().Foreground(lipgloss.Color("8")).Width(24),
		Category: r.NewStyle().Foreground(lipgloss.Color("13")),
	}
}
