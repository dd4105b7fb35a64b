package teaui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/store"
	"tableflip.dev/medview/pkg/tui/theme"
)

// ErrorModel is shown instead of the viewer when bootstrap fails.
type ErrorModel struct {
	err    error
	theme  theme.ErrorTheme
	width  int
	height int
}

// NewError returns a full-page error model for err.
func NewError(err error) *ErrorModel {
	return &ErrorModel{err: err, theme: theme.Default().Error}
}

// Init implements tea.Model.
func (m *ErrorModel) Init() tea.Cmd { return nil }

// Update quits on any key.
func (m *ErrorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m *ErrorModel) View() string {
	lines := []string{
		m.theme.Title.Render("medview could not start"),
		"",
		m.theme.Cause.Render(m.err.Error()),
		"",
		m.theme.Hint.Render(hintFor(m.err)),
		"",
		m.theme.Hint.Render("press any key to exit"),
	}
	box := m.theme.Frame.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, store.ErrSourceUnavailable):
		return "check the data location (--data) and that every collection file exists"
	case errors.Is(err, app.ErrBootstrap):
		return "check the configuration file and the data location"
	default:
		return "run with --loglevel debug for details"
	}
}

// RunError shows err full screen until a key is pressed.
func RunError(ctx context.Context, err error) error {
	p := tea.NewProgram(NewError(err), tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	return runErr
}
