package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/tui/components/content"
	"tableflip.dev/medview/pkg/tui/theme"
)

func newContentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "content",
		Short: "Page through every report in the content pane",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, cleanup, err := bootViewer(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer cleanup()
			model := newContentTestModel(*opts, v)
			v.Start(opts.path)
			model.settle()
			return run(cmd.Context(), model)
		},
	}
}

// contentTestModel walks the report links with n and p.
type contentTestModel struct {
	routed
	content *content.Model
	links   []string
	index   int
}

func newContentTestModel(opts options, v *app.Viewer) *contentTestModel {
	m := &contentTestModel{
		routed:  newRouted(opts, v),
		content: content.New(theme.Default().Content),
		index:   -1,
	}
	for _, r := range v.Reports("", "") {
		if link := v.Link(r.ID); link != "" {
			m.links = append(m.links, link)
		}
	}
	m.watch()
	m.content.Focus()
	return m
}

func (m *contentTestModel) settle() {
	m.content.SetContent(m.viewer.Pane.Title(), m.viewer.Pane.Body())
	m.drain()
}

func (m *contentTestModel) step(delta int) {
	if len(m.links) == 0 {
		return
	}
	m.index = (m.index + delta + len(m.links)) % len(m.links)
	m.viewer.Visit(m.links[m.index])
	m.settle()
}

func (m *contentTestModel) Init() tea.Cmd { return nil }

func (m *contentTestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, cmd := m.testbedModel.Update(msg); cmd != nil {
		return m, cmd
	}
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width, height := m.contentSize()
		m.content.SetSize(width, max(1, height-1))
		m.viewer.Pane.SetWidth(m.content.Width())
		m.viewer.Visit(m.viewer.Location.Path())
		m.settle()
	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			m.step(1)
		case "p":
			m.step(-1)
		default:
			m.content, cmd = m.content.Update(msg)
		}
	default:
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m *contentTestModel) View() string {
	footer := fmt.Sprintf("%s | %3.f%% | n/p: next/previous report", m.status(), m.content.ScrollPercent()*100)
	return m.composeView(m.content.View() + "\n" + footer)
}
