package dashboard

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the terminal dashboard.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Sample   lipgloss.Style
	Selected lipgloss.Style
	Prompt   lipgloss.Style
	Spinner  lipgloss.Style
	Section  lipgloss.Style
	Error    lipgloss.Style
	Citation lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the green-on-dark palette.
func DefaultStyles() Styles {
	primary := lipgloss.Color("#7fb069")
	muted := lipgloss.Color("#8a8a8a")

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true).
			MarginBottom(1),
		Sample: lipgloss.NewStyle().
			Foreground(muted).
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			PaddingLeft(2),
		Prompt: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Spinner: lipgloss.NewStyle().
			Foreground(primary),
		Section: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06c75")).
			Bold(true),
		Citation: lipgloss.NewStyle().
			Foreground(muted),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}
