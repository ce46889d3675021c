package canvastui

import "github.com/charmbracelet/lipgloss"

// styles is the lipgloss palette for one theme.
type styles struct {
	header       lipgloss.Style
	footer       lipgloss.Style
	notice       lipgloss.Style
	overlay      lipgloss.Style
	overlayTitle lipgloss.Style
}

// newStyles builds the palette for a theme name. Unknown names fall
// back to the default palette, which assumes a dark terminal.
func newStyles(theme string) styles {
	accent := lipgloss.Color("205")
	muted := lipgloss.Color("240")
	alert := lipgloss.Color("203")
	frame := lipgloss.Color("63")

	if theme == "light" {
		accent = lipgloss.Color("161")
		muted = lipgloss.Color("245")
		alert = lipgloss.Color("124")
		frame = lipgloss.Color("26")
	}

	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		footer: lipgloss.NewStyle().
			Foreground(muted),
		notice: lipgloss.NewStyle().
			Bold(true).
			Foreground(alert),
		overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(frame).
			Padding(1, 2),
		overlayTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(frame),
	}
}
