// Package teaui hosts the Bubble Tea program for the medview TUI.
package teaui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/route"
	"tableflip.dev/medview/pkg/router"
	"tableflip.dev/medview/pkg/tui/components/command"
	"tableflip.dev/medview/pkg/tui/components/content"
	"tableflip.dev/medview/pkg/tui/components/help"
	"tableflip.dev/medview/pkg/tui/components/sidebar"
	"tableflip.dev/medview/pkg/tui/events"
	"tableflip.dev/medview/pkg/tui/theme"
	"tableflip.dev/medview/pkg/view"
)

type focus int

const (
	focusSidebar focus = iota
	focusContent
)

const (
	sidebarID events.ComponentID = "sidebar"
	commandID events.ComponentID = "command"

	minSidebar = 24
	maxSidebar = 40
)

const keyHint = "j/k move · enter open · b back · g home · : command · ? help · q quit"

var commandSuggestions = []command.SuggestionOption{
	{Name: "go", Description: "open a location"},
	{Name: "back", Description: "previous location"},
	{Name: "home", Description: "overview"},
	{Name: "help", Description: "show help"},
	{Name: "quit", Description: "exit"},
}

type startMsg struct{}

// Model is the root Bubble Tea model: sidebar on the left, content on the
// right and the command bar at the bottom. All routing happens on the
// Update goroutine.
type Model struct {
	viewer  *app.Viewer
	initial string
	log     logrus.FieldLogger
	theme   theme.Theme

	sidebar *sidebar.Model
	content *content.Model
	command *command.Model
	help    *help.Model

	showHelp bool
	focus    focus
	width    int
	height   int

	pending []router.Resolution
}

// New builds the root model over a booted viewer. The router starts on the
// first Update at initial, or at home when initial is empty.
func New(v *app.Viewer, initial string, log logrus.FieldLogger) *Model {
	th := theme.Default()
	m := &Model{
		viewer:  v,
		initial: initial,
		log:     logging.Or(log),
		theme:   th,
		sidebar: sidebar.New(sidebarID, v.Tree, v.State, th.Sidebar),
		content: content.New(th.Content),
		command: command.NewModel(command.Options{
			ID:           commandID,
			PromptPrefix: ":",
			Placeholder:  "go #imaging",
		}, th.Footer),
		help: help.New(60, 20, th.Modal.Frame),
	}
	m.command.SetSuggestions(commandSuggestions)
	m.command.SetHint(keyHint)
	m.sidebar.Focus()
	v.Router.OnResolved(func(res router.Resolution) {
		m.pending = append(m.pending, res)
	})
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case startMsg:
		m.viewer.Start(m.initial)
		m.settle()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.viewer.Router.Refresh()
		m.settle()
	case events.NavigateMsg:
		m.log.WithField("component", msg.Component).Debug("navigate " + msg.Describe())
		m.navigate(msg.Path)
	case events.CommandSubmitMsg:
		if cmd := m.execute(msg.Value); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case events.CommandCancelMsg:
		m.command.SetStatus(m.viewer.Location.Path())
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m.command.Mode() == command.ModeInput {
		var cmd tea.Cmd
		m.command, cmd = m.command.Update(msg)
		return cmd
	}
	if m.showHelp {
		switch msg.String() {
		case "esc", "?", "q":
			m.showHelp = false
			return nil
		}
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case ":":
		return m.command.Open("")
	case "?":
		m.showHelp = true
		return nil
	case "b":
		m.back()
		return nil
	case "g":
		m.navigate(route.Encode(route.Home(m.viewer.Config.Home)))
		return nil
	case "h", "left":
		m.setFocus(focusSidebar)
		return nil
	case "l", "right":
		m.setFocus(focusContent)
		return nil
	case "tab":
		if m.focus == focusSidebar {
			m.setFocus(focusContent)
		} else {
			m.setFocus(focusSidebar)
		}
		return nil
	}

	var cmd tea.Cmd
	if m.focus == focusSidebar {
		m.sidebar, cmd = m.sidebar.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return cmd
}

func (m *Model) execute(raw string) tea.Cmd {
	cmd, err := command.Parse(raw)
	if err != nil {
		m.command.SetWarning(err.Error())
		return nil
	}
	switch cmd.Name {
	case "go":
		m.navigate(cmd.Arg)
	case "back":
		m.back()
	case "home":
		m.navigate(route.Encode(route.Home(m.viewer.Config.Home)))
	case "help":
		m.showHelp = true
	case "quit":
		return tea.Quit
	}
	return nil
}

func (m *Model) navigate(path string) {
	m.viewer.Visit(path)
	m.settle()
}

func (m *Model) back() {
	if !m.viewer.Router.Back() {
		m.command.SetWarning("no earlier location")
		return
	}
	m.settle()
}

// settle copies the pane into the content view and reports what the
// resolutions since the last call did.
func (m *Model) settle() {
	pane := m.viewer.Pane
	m.content.SetContent(pane.Title(), pane.Body())
	m.sidebar.Follow()

	pending := m.pending
	m.pending = nil
	if len(pending) == 0 {
		return
	}
	var redirectedFrom string
	for _, res := range pending {
		m.log.Debug("resolved " + events.ResolvedMsg{Resolution: res}.Describe())
		if res.Outcome == view.Redirected && redirectedFrom == "" {
			redirectedFrom = res.Path
		}
	}
	last := pending[len(pending)-1]
	switch {
	case redirectedFrom != "":
		m.command.SetWarning(fmt.Sprintf("%s is not a known location, showing %s", redirectedFrom, last.Path))
	case last.Outcome == view.Missing:
		m.command.SetWarning(last.Path + ": module not available")
	case last.Outcome == view.Failed:
		m.command.SetWarning(last.Path + ": render failed")
	default:
		m.command.SetStatus(last.Path)
	}
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusSidebar {
		m.sidebar.Focus()
		m.content.Blur()
		return
	}
	m.sidebar.Blur()
	m.content.Focus()
}

func (m *Model) sidebarWidth() int {
	w := m.width / 3
	if w < minSidebar {
		w = minSidebar
	}
	if w > maxSidebar {
		w = maxSidebar
	}
	return w
}

// bodyHeight is the height of the panes, frames included.
func (m *Model) bodyHeight() int {
	return max(m.height-1, 3)
}

func (m *Model) contentWidth() int {
	return max(m.width-m.sidebarWidth(), 10)
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	inner := m.bodyHeight() - m.theme.Sidebar.Frame.GetVerticalFrameSize()
	m.sidebar.SetSize(m.sidebarWidth()-m.theme.Sidebar.Frame.GetHorizontalFrameSize(), inner)

	cw := m.contentWidth() - m.theme.Content.Frame.GetHorizontalFrameSize()
	m.content.SetSize(cw, m.bodyHeight()-m.theme.Content.Frame.GetVerticalFrameSize())
	m.viewer.Pane.SetWidth(cw)

	m.command.SetSize(m.width)
	m.help.SetSize(min(m.width-4, 80), m.height-4)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}
	height := m.bodyHeight()

	var body string
	if m.showHelp {
		body = lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.help.View())
	} else {
		sf := m.theme.Sidebar.Frame
		cf := m.theme.Content.Frame
		if m.focus == focusSidebar {
			sf = m.theme.Sidebar.FocusedFrame
		} else {
			cf = m.theme.Content.FocusedFrame
		}
		left := sf.
			Width(m.sidebarWidth() - sf.GetHorizontalBorderSize()).
			Height(height - sf.GetVerticalBorderSize()).
			Render(m.sidebar.View())
		right := cf.
			Width(m.contentWidth() - cf.GetHorizontalBorderSize()).
			Height(height - cf.GetVerticalBorderSize()).
			Render(m.content.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	return strings.Join([]string{body, m.command.View()}, "\n")
}

// Run launches the interactive TUI program at path.
func Run(ctx context.Context, v *app.Viewer, path string, log logrus.FieldLogger) error {
	p := tea.NewProgram(New(v, path, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
