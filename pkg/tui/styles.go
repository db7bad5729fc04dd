package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary     = lipgloss.Color("#2196F3")
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	warning     = lipgloss.Color("#FFC107")
	muted       = lipgloss.Color("#6b7280")
	border      = lipgloss.Color("#2a3850")
)

// Styles groups every lipgloss style the screen uses.
type Styles struct {
	Header      lipgloss.Style
	Subtitle    lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	DisabledTab lipgloss.Style
	Section     lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Notice      lipgloss.Style
	Card        lipgloss.Style
	ActiveCard  lipgloss.Style
	Score       lipgloss.Style
	Code        lipgloss.Style
	Spinner     lipgloss.Style
	Help        lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(primary),
		Subtitle:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		Tab:         lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(border),
		ActiveTab:   lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(accent).Bold(true),
		DisabledTab: lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(border).Foreground(muted).Faint(true),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(primary).MarginTop(1),
		Label:       lipgloss.NewStyle().Foreground(muted),
		Muted:       lipgloss.NewStyle().Foreground(muted),
		Error:       lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Success:     lipgloss.NewStyle().Foreground(accent),
		Notice:      lipgloss.NewStyle().Foreground(warning),
		Card:        lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(border),
		ActiveCard:  lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(accent),
		Score:       lipgloss.NewStyle().Foreground(accent).Bold(true),
		Code:        lipgloss.NewStyle().Foreground(muted),
		Spinner:     lipgloss.NewStyle().Foreground(accent),
		Help:        lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}
