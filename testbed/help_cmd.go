package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/tui/components/help"
	"tableflip.dev/medview/pkg/tui/theme"
)

func newHelpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "help-overlay",
		Short: "Render the help overlay component",
		RunE: func(cmd *cobra.Command, args []string) error {
			harness := &helpTestModel{testbedModel: newTestbedModel(*opts)}
			return run(cmd.Context(), harness)
		},
	}
}

type helpTestModel struct {
	testbedModel
	overlay *help.Model
}

func (m *helpTestModel) Init() tea.Cmd { return nil }

func (m *helpTestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, cmd := m.testbedModel.Update(msg); cmd != nil {
		return m, cmd
	}
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.ensureSizing()
	case tea.KeyMsg:
		if v.String() == "esc" {
			return m, tea.Quit
		}
	}
	if m.overlay == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(msg)
	return m, cmd
}

func (m *helpTestModel) View() string {
	if m.overlay == nil {
		return m.composeView("help component unavailable")
	}
	return m.composeView(m.overlay.View())
}

func (m *helpTestModel) ensureSizing() {
	width, height := m.contentSize()
	if width <= 1 {
		width = 72
	}
	if height <= 1 {
		height = 18
	}
	if m.overlay == nil {
		m.overlay = help.New(width, height, theme.Default().Modal.Frame)
		return
	}
	m.overlay.SetSize(width, height)
}
