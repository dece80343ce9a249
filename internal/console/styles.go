package console

import "github.com/charmbracelet/lipgloss"

// Palette shared by the presenter view.
var (
	colorAccent = lipgloss.Color("#00ffff")
	colorMuted  = lipgloss.Color("#6b7280")
	colorText   = lipgloss.Color("#f4f4f5")
	colorActive = lipgloss.Color("#22c55e")
)

// Styles groups the lipgloss styles of the presenter view.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Current lipgloss.Style
	Next    lipgloss.Style
	FlagOn  lipgloss.Style
	FlagOff lipgloss.Style
	Help    lipgloss.Style
	Frame   lipgloss.Style
}

// DefaultStyles returns the presenter view styles. accent overrides the
// title color when set, usually with the deck's primary color.
func DefaultStyles(accent string) Styles {
	a := colorAccent
	if accent != "" {
		a = lipgloss.Color(accent)
	}
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(a),
		Label:   lipgloss.NewStyle().Foreground(colorMuted).Width(10),
		Current: lipgloss.NewStyle().Bold(true).Foreground(colorText),
		Next:    lipgloss.NewStyle().Foreground(colorMuted),
		FlagOn:  lipgloss.NewStyle().Foreground(colorActive),
		FlagOff: lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true),
		Help:    lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Frame:   lipgloss.NewStyle().Padding(1, 2),
	}
}
