package output

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	primaryColor   = lipgloss.Color("#00D9FF")
	successColor   = lipgloss.Color("#00FF88")
	errorColor     = lipgloss.Color("#FF4444")
	secondaryColor = lipgloss.Color("#6C757D")
)

// Styles holds the lipgloss styles used by a Renderer.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Caret   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:  r.NewStyle().Foreground(primaryColor).Bold(true),
		Success: r.NewStyle().Foreground(successColor).Bold(true),
		Error:   r.NewStyle().Foreground(errorColor).Bold(true),
		Muted:   r.NewStyle().Foreground(secondaryColor),
		Bold:    r.NewStyle().Bold(true),
		Caret:   r.NewStyle().Foreground(errorColor).Bold(true),
	}
}

// plainStyles render text unchanged.
func plainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:  plain,
		Success: plain,
		Error:   plain,
		Muted:   plain,
		Bold:    plain,
		Caret:   plain,
	}
}
