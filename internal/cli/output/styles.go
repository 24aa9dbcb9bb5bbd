package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
	ModelPath lipgloss.Style
}

// DefaultStyles returns the color styles used on a terminal.
func DefaultStyles() *Styles {
	return &Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Subheader: lipgloss.NewStyle().Bold(true),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:      lipgloss.NewStyle().Bold(true),
		ModelPath: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:    plain,
		Subheader: plain,
		Success:   plain,
		Warning:   plain,
		Error:     plain,
		Info:      plain,
		Muted:     plain,
		Bold:      plain,
		ModelPath: plain,
	}
}
