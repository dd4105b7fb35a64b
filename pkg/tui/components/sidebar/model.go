// Package sidebar renders the navigation tree with its synced active and
// expanded flags.
package sidebar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/medview/pkg/glyph"
	"tableflip.dev/medview/pkg/nav"
	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/tui/events"
	"tableflip.dev/medview/pkg/tui/theme"
)

// Model is the sidebar. Folds are local to the UI and override the synced
// expanded flag of a node until the next route change reveals it again.
type Model struct {
	id    events.ComponentID
	tree  *nav.Tree
	state *nav.State
	theme theme.SidebarTheme

	folds  map[nav.NodeID]bool
	rows   []nav.Row
	cursor int
	offset int

	width   int
	height  int
	focused bool
}

// New returns a sidebar over tree and state.
func New(id events.ComponentID, tree *nav.Tree, state *nav.State, th theme.SidebarTheme) *Model {
	m := &Model{
		id:    id,
		tree:  tree,
		state: state,
		theme: th,
		folds: map[nav.NodeID]bool{},
	}
	m.refresh()
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// SetSize sets the inner size in cells.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.scroll()
}

// Focus gives the sidebar keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the sidebar has focus.
func (m *Model) Focused() bool { return m.focused }

// Rows returns the visible rows.
func (m *Model) Rows() []nav.Row { return m.rows }

// Cursor returns the cursor position within Rows.
func (m *Model) Cursor() int { return m.cursor }

// Selected returns the node under the cursor.
func (m *Model) Selected() *nav.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.tree.Node(m.rows[m.cursor].ID)
}

// Open reports whether the children of n are shown.
func (m *Model) Open(n *nav.Node) bool {
	if open, ok := m.folds[n.ID]; ok {
		return open
	}
	return m.state.IsExpanded(n)
}

// Toggle flips the fold of the node under the cursor.
func (m *Model) Toggle() {
	n := m.Selected()
	if n == nil || n.Leaf() {
		return
	}
	m.folds[n.ID] = !m.Open(n)
	m.refresh()
}

// Move shifts the cursor by delta rows.
func (m *Model) Move(delta int) {
	m.cursor += delta
	m.clamp()
	m.scroll()
}

// Follow is called after every resolution: folds hiding the active node are
// dropped and the cursor jumps to it.
func (m *Model) Follow() {
	active, ok := m.state.Active()
	if ok {
		for _, a := range m.tree.Ancestors(active) {
			delete(m.folds, a)
		}
	}
	m.refresh()
	if ok {
		if i := nav.IndexOf(m.rows, active); i >= 0 {
			m.cursor = i
		}
	}
	m.scroll()
}

// Update handles keys while focused. Enter on a group toggles its fold;
// on a leaf it requests navigation to the node's route.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "j", "down":
		m.Move(1)
	case "k", "up":
		m.Move(-1)
	case "home":
		m.Move(-len(m.rows))
	case "end":
		m.Move(len(m.rows))
	case " ", "enter":
		n := m.Selected()
		if n == nil {
			return m, nil
		}
		if !n.Leaf() {
			m.Toggle()
			return m, nil
		}
		path := n.Route.String()
		id := m.id
		return m, func() tea.Msg { return events.NavigateMsg{Component: id, Path: path} }
	}
	return m, nil
}

// View renders the visible window of rows.
func (m *Model) View() string {
	if len(m.rows) == 0 {
		return "no sections"
	}
	end := len(m.rows)
	if m.height > 0 && m.offset+m.height < end {
		end = m.offset + m.height
	}
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.line(i))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) line(i int) string {
	row := m.rows[i]
	n := m.tree.Node(row.ID)

	marker := " "
	if m.state.IsActive(n) {
		marker = m.theme.Marker.Render(glyph.Active.String())
	}
	fold := " "
	if !n.Leaf() {
		fold = glyph.Closed.String()
		if m.Open(n) {
			fold = glyph.Open.String()
		}
	}
	label := n.Label
	if n.Icon != "" {
		label = n.Icon + " " + label
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Depth))
	b.WriteString(fold)
	b.WriteString(" ")
	b.WriteString(label)
	if n.Kind == nav.ReportLeaf && n.Date != "" {
		b.WriteString(" ")
		b.WriteString(m.theme.Date.Render(record.FormatDate(n.Date)))
	}
	text := b.String()
	if m.width > 2 {
		text = truncate.StringWithTail(text, uint(m.width-2), "…")
	}

	style := m.theme.Row
	switch {
	case m.state.IsActive(n):
		style = m.theme.Active
	case !n.Leaf():
		style = m.theme.Group
	}
	if m.focused && i == m.cursor {
		style = m.theme.Cursor
	}
	return marker + " " + style.Render(text)
}

func (m *Model) refresh() {
	var selected nav.NodeID = nav.NoNode
	if n := m.Selected(); n != nil {
		selected = n.ID
	}
	m.rows = m.tree.Rows(m.Open)
	if selected != nav.NoNode {
		if i := nav.IndexOf(m.rows, selected); i >= 0 {
			m.cursor = i
		}
	}
	m.clamp()
	m.scroll()
}

func (m *Model) clamp() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) scroll() {
	if m.height <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
