// Package content shows the rendered pane in a scrollable viewport.
package content

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/medview/pkg/tui/theme"
)

// Model wraps a viewport with a title line.
type Model struct {
	viewport viewport.Model
	theme    theme.ContentTheme
	title    string
	body     string
	focused  bool
}

// New returns an empty content model.
func New(th theme.ContentTheme) *Model {
	vp := viewport.New(1, 1)
	vp.MouseWheelEnabled = true
	return &Model{viewport: vp, theme: th}
}

// SetSize sets the inner size; one line is used by the title.
func (m *Model) SetSize(width, height int) {
	m.viewport.Width = max(width, 1)
	m.viewport.Height = max(height-2, 1)
}

// Width returns the usable text width.
func (m *Model) Width() int { return m.viewport.Width }

// SetContent replaces the pane and scrolls to the top.
func (m *Model) SetContent(title, body string) {
	m.title, m.body = title, body
	m.viewport.SetContent(body)
	m.viewport.GotoTop()
}

// Title returns the current title.
func (m *Model) Title() string { return m.title }

// Body returns the current body.
func (m *Model) Body() string { return m.body }

// Focus gives the content keyboard focus for scrolling.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the content has focus.
func (m *Model) Focused() bool { return m.focused }

// ScrollPercent returns how far the viewport is scrolled.
func (m *Model) ScrollPercent() float64 { return m.viewport.ScrollPercent() }

// Update scrolls the viewport while focused; mouse wheel always scrolls.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); isKey && !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the title and the visible part of the body.
func (m *Model) View() string {
	title := m.theme.Title.Render(m.title)
	return lipgloss.JoinVertical(lipgloss.Left, title, "", m.viewport.View())
}
