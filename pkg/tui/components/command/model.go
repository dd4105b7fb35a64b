// Package command implements the bottom status and command line.
package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/medview/pkg/tui/events"
	"tableflip.dev/medview/pkg/tui/theme"
)

// Options configures the command bar.
type Options struct {
	ID           events.ComponentID
	PromptPrefix string
	Placeholder  string
	StatusText   string
}

// SuggestionOption represents a possible command the prompt can surface.
type SuggestionOption struct {
	Name        string
	Description string
}

// Mode identifies the command component operating state.
type Mode int

const (
	// ModePassive displays the command bar in status mode.
	ModePassive Mode = iota
	// ModeInput places the command bar in interactive input mode.
	ModeInput
)

// Model renders a one-line status bar that turns into a prompt.
type Model struct {
	id    events.ComponentID
	mode  Mode
	theme theme.FooterTheme
	width int

	status string
	warn   bool
	hint   string

	prompt       textinput.Model
	promptPrefix string
	suggestions  []SuggestionOption
}

// NewModel constructs a command bar with the provided options.
func NewModel(opts Options, th theme.FooterTheme) *Model {
	prompt := textinput.New()
	prompt.Placeholder = opts.Placeholder
	prompt.Prompt = ""
	prompt.ShowSuggestions = true

	id := opts.ID
	if id == "" {
		id = events.ComponentID("command")
	}
	return &Model{
		id:           id,
		mode:         ModePassive,
		theme:        th,
		status:       opts.StatusText,
		prompt:       prompt,
		promptPrefix: opts.PromptPrefix,
	}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Mode returns the current mode.
func (m *Model) Mode() Mode { return m.mode }

// SetSize sets the bar width.
func (m *Model) SetSize(width int) {
	if width <= 0 {
		width = 1
	}
	m.width = width
	m.prompt.Width = max(width-len(m.promptPrefix)-1, 1)
}

// SetStatus updates the passive status text.
func (m *Model) SetStatus(text string) {
	m.status, m.warn = text, false
}

// SetWarning shows text as a warning.
func (m *Model) SetWarning(text string) {
	m.status, m.warn = text, true
}

// Status returns the passive status text.
func (m *Model) Status() string { return m.status }

// SetHint sets the right-aligned key hint shown in passive mode.
func (m *Model) SetHint(text string) { m.hint = text }

// SetSuggestions configures completion for the first word.
func (m *Model) SetSuggestions(options []SuggestionOption) {
	m.suggestions = append([]SuggestionOption(nil), options...)
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, o.Name)
	}
	m.prompt.SetSuggestions(names)
}

// Open switches to input mode with an optional initial value.
func (m *Model) Open(initial string) tea.Cmd {
	m.mode = ModeInput
	m.prompt.SetValue(initial)
	m.prompt.CursorEnd()
	return m.prompt.Focus()
}

// Close returns to passive mode.
func (m *Model) Close() {
	m.mode = ModePassive
	m.prompt.Blur()
	m.prompt.Reset()
}

// Update handles input while open. Enter emits CommandSubmitMsg, Esc emits
// CommandCancelMsg.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if m.mode != ModeInput {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			value := m.prompt.Value()
			id := m.id
			m.Close()
			return m, func() tea.Msg { return events.CommandSubmitMsg{Component: id, Value: value} }
		case tea.KeyEsc:
			id := m.id
			m.Close()
			return m, func() tea.Msg { return events.CommandCancelMsg{Component: id} }
		}
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// View renders the bar.
func (m *Model) View() string {
	if m.mode == ModeInput {
		return m.theme.Prompt.Render(m.promptPrefix) + m.prompt.View()
	}
	style := m.theme.Status
	if m.warn {
		style = m.theme.Warning
	}
	left := style.Render(m.status)
	if m.hint == "" {
		return left
	}
	right := m.theme.Help.Render(m.hint)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// Usage lists the configured commands for the status line.
func (m *Model) Usage() string {
	parts := make([]string, 0, len(m.suggestions))
	for _, s := range m.suggestions {
		parts = append(parts, m.promptPrefix+s.Name)
	}
	return "Commands: " + strings.Join(parts, ", ")
}

// Command is a parsed command line.
type Command struct {
	Name string
	Arg  string
}

// Parse splits a command line into a canonical name and its argument.
// Aliases map to their canonical name.
func Parse(raw string) (Command, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), ":"))
	if raw == "" {
		return Command{}, fmt.Errorf("empty command")
	}
	name, arg, _ := strings.Cut(raw, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)
	switch name {
	case "go", "g", "open", "e":
		if arg == "" {
			return Command{}, fmt.Errorf(":%s needs a path, e.g. :go #imaging/ct/R1", name)
		}
		return Command{Name: "go", Arg: arg}, nil
	case "back", "b":
		return Command{Name: "back"}, nil
	case "home":
		return Command{Name: "home"}, nil
	case "help", "h", "?":
		return Command{Name: "help"}, nil
	case "quit", "q", "exit":
		return Command{Name: "quit"}, nil
	default:
		if strings.HasPrefix(name, "#") {
			return Command{Name: "go", Arg: raw}, nil
		}
		return Command{}, fmt.Errorf("unknown command %q", name)
	}
}
