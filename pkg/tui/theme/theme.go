package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer  FooterTheme
	Sidebar SidebarTheme
	Content ContentTheme
	Modal   ModalTheme
	Error   ErrorTheme
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help    lipgloss.Style
	Status  lipgloss.Style
	Prompt  lipgloss.Style
	Warning lipgloss.Style
}

// SidebarTheme styles the navigation tree.
type SidebarTheme struct {
	Frame        lipgloss.Style
	FocusedFrame lipgloss.Style
	Row          lipgloss.Style
	Cursor       lipgloss.Style
	Active       lipgloss.Style
	Group        lipgloss.Style
	Date         lipgloss.Style
	Marker       lipgloss.Style
}

// ContentTheme styles the content pane.
type ContentTheme struct {
	Frame        lipgloss.Style
	FocusedFrame lipgloss.Style
	Title        lipgloss.Style
	Body         lipgloss.Style
}

// ModalTheme styles centered modal overlays (e.g., help).
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// ErrorTheme styles the full-page startup error.
type ErrorTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Cause lipgloss.Style
	Hint  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
	focused := frame.BorderForeground(accent)

	return Theme{
		Footer: FooterTheme{
			Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:  lipgloss.NewStyle().Foreground(muted),
			Prompt:  lipgloss.NewStyle().Foreground(accent).Bold(true),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Sidebar: SidebarTheme{
			Frame:        frame,
			FocusedFrame: focused,
			Row:          lipgloss.NewStyle(),
			Cursor:       lipgloss.NewStyle().Reverse(true),
			Active:       lipgloss.NewStyle().Foreground(accent).Bold(true),
			Group:        lipgloss.NewStyle().Bold(true),
			Date:         lipgloss.NewStyle().Foreground(muted),
			Marker:       lipgloss.NewStyle().Foreground(accent),
		},
		Content: ContentTheme{
			Frame:        frame.Padding(0, 1),
			FocusedFrame: focused.Padding(0, 1),
			Title:        lipgloss.NewStyle().Bold(true).Foreground(accent),
			Body:         lipgloss.NewStyle(),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Error: ErrorTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("203")).
				Padding(1, 3),
			Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
			Cause: lipgloss.NewStyle(),
			Hint:  lipgloss.NewStyle().Foreground(muted),
		},
	}
}
