package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/router"
	"tableflip.dev/medview/pkg/tui/components/sidebar"
	"tableflip.dev/medview/pkg/tui/events"
	"tableflip.dev/medview/pkg/tui/theme"
)

func newSidebarCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sidebar",
		Short: "Preview the navigation tree against a live router",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, cleanup, err := bootViewer(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer cleanup()
			model := newSidebarTestModel(*opts, v)
			v.Start(opts.path)
			model.settle()
			return run(cmd.Context(), model)
		},
	}
}

// routed hosts a component over a booted viewer and logs every resolution.
type routed struct {
	testbedModel
	viewer  *app.Viewer
	pending []router.Resolution
}

func newRouted(opts options, v *app.Viewer) routed {
	return routed{testbedModel: newTestbedModel(opts), viewer: v}
}

// watch must be called once the routed value has its final address.
func (r *routed) watch() {
	r.viewer.Router.OnResolved(func(res router.Resolution) {
		r.pending = append(r.pending, res)
	})
}

func (r *routed) drain() {
	for _, res := range r.pending {
		r.events.Record(events.ResolvedMsg{Resolution: res})
	}
	r.pending = nil
}

func (r *routed) status() string {
	return fmt.Sprintf("Location: %s | Pane: %s", r.viewer.Location.Path(), r.viewer.Pane.Title())
}

type sidebarTestModel struct {
	routed
	sidebar *sidebar.Model
}

func newSidebarTestModel(opts options, v *app.Viewer) *sidebarTestModel {
	m := &sidebarTestModel{
		routed:  newRouted(opts, v),
		sidebar: sidebar.New("sidebar", v.Tree, v.State, theme.Default().Sidebar),
	}
	m.watch()
	m.sidebar.Focus()
	m.SetFocus(true)
	return m
}

func (m *sidebarTestModel) settle() {
	m.sidebar.Follow()
	m.drain()
}

func (m *sidebarTestModel) Init() tea.Cmd { return nil }

func (m *sidebarTestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, cmd := m.testbedModel.Update(msg); cmd != nil {
		return m, cmd
	}
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width, height := m.contentSize()
		m.sidebar.SetSize(width, max(1, height-3))
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, tea.Quit
		}
		m.sidebar, cmd = m.sidebar.Update(msg)
	case events.NavigateMsg:
		m.viewer.Visit(msg.Path)
		m.settle()
	}
	return m, cmd
}

func (m *sidebarTestModel) View() string {
	return m.composeView(m.sidebar.View() + "\n\n" + m.status())
}
