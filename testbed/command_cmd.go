package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/tui/components/command"
	"tableflip.dev/medview/pkg/tui/events"
	"tableflip.dev/medview/pkg/tui/theme"
)

func newCommandCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "command",
		Short: "Preview the command bar and its parser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), newCommandTestModel(*opts))
		},
	}
}

// commandTestModel opens the bar with ":" and shows how each line parses.
type commandTestModel struct {
	testbedModel
	bar    *command.Model
	parsed []string
}

func newCommandTestModel(opts options) *commandTestModel {
	bar := command.NewModel(command.Options{
		ID:           events.ComponentID("CommandBar"),
		PromptPrefix: ":",
		Placeholder:  "go #imaging/ct/R1",
		StatusText:   "press : to open the command line",
	}, theme.Default().Footer)
	bar.SetSuggestions([]command.SuggestionOption{
		{Name: "go", Description: "Open a location"},
		{Name: "back", Description: "Return to the previous location"},
		{Name: "home", Description: "Open the home view"},
		{Name: "help", Description: "Show key bindings"},
		{Name: "quit", Description: "Leave medview"},
	})
	bar.SetHint("esc: quit")
	return &commandTestModel{testbedModel: newTestbedModel(opts), bar: bar}
}

func (m *commandTestModel) Init() tea.Cmd { return nil }

func (m *commandTestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, cmd := m.testbedModel.Update(msg); cmd != nil {
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width, _ := m.contentSize()
		m.bar.SetSize(width)
		return m, nil
	case events.CommandSubmitMsg:
		m.SetFocus(false)
		m.record(msg.Value)
		return m, nil
	case events.CommandCancelMsg:
		m.SetFocus(false)
		m.bar.SetStatus("cancelled")
		return m, nil
	case tea.KeyMsg:
		if m.bar.Mode() == command.ModePassive {
			switch msg.String() {
			case ":":
				m.SetFocus(true)
				return m, m.bar.Open("")
			case "esc":
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.bar, cmd = m.bar.Update(msg)
	return m, cmd
}

func (m *commandTestModel) record(raw string) {
	c, err := command.Parse(raw)
	line := fmt.Sprintf("%q => ", raw)
	if err != nil {
		m.bar.SetWarning(err.Error())
		line += "error: " + err.Error()
	} else {
		m.bar.SetStatus(fmt.Sprintf("parsed %s", c.Name))
		line += fmt.Sprintf("name=%s arg=%q", c.Name, c.Arg)
	}
	m.parsed = append(m.parsed, line)
}

func (m *commandTestModel) View() string {
	_, height := m.contentSize()
	lines := m.parsed
	if keep := max(height-3, 0); len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	body := m.bar.Usage() + "\n"
	for _, l := range lines {
		body += "\n" + l
	}
	for i := len(lines); i < max(height-3, 0); i++ {
		body += "\n"
	}
	return m.composeView(body + "\n" + m.bar.View())
}
