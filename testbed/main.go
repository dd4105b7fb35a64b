package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/sample"
	"tableflip.dev/medview/pkg/store"
	"tableflip.dev/medview/pkg/tui/components/eventviewer"
	"tableflip.dev/medview/pkg/tui/events"
)

type options struct {
	full    bool
	width   int
	height  int
	data    string
	path    string
	missing []string
	logFile string
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "testbed",
		Short: "Run medview components in a harness with an event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			base := newTestbedModel(opts)
			return run(cmd.Context(), &base)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.full, "full", false, "use the full terminal window")
	rootCmd.PersistentFlags().IntVar(&opts.width, "width", 80, "window width when not fullscreen")
	rootCmd.PersistentFlags().IntVar(&opts.height, "height", 20, "window height when not fullscreen")
	rootCmd.PersistentFlags().StringVar(&opts.data, "data", "", "load collections from a directory or URL instead of the sample catalog")
	rootCmd.PersistentFlags().StringVar(&opts.path, "path", "", "location to open first")
	rootCmd.PersistentFlags().StringSliceVar(&opts.missing, "missing", nil, "sample collections to fail on load")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write debug logs to this file")

	rootCmd.AddCommand(newSidebarCmd(&opts))
	rootCmd.AddCommand(newContentCmd(&opts))
	rootCmd.AddCommand(newHelpCmd(&opts))
	rootCmd.AddCommand(newCommandCmd(&opts))
	rootCmd.AddCommand(newErrorCmd(&opts))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, model tea.Model) error {
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// bootViewer boots against the sample catalog unless --data is set. The
// returned func restores logging.
func bootViewer(ctx context.Context, opts options) (*app.Viewer, logrus.FieldLogger, func(), error) {
	log := logging.Discard()
	cleanup := func() {}
	if opts.logFile != "" {
		closer, err := logging.ToFile(opts.logFile)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup = func() { _ = closer.Close() }
		_ = logging.SetLevel("debug")
		log = logging.Log
	}
	cfg := &app.Config{Width: opts.width}
	var (
		v   *app.Viewer
		err error
	)
	if opts.data != "" {
		cfg.Store = store.Config{Location: opts.data}
		v, err = app.Boot(ctx, cfg, log)
	} else {
		v, err = app.BootFrom(ctx, cfg, sample.Source(opts.missing...), log)
	}
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return v, log, cleanup, nil
}

type testbedModel struct {
	fullscreen bool
	maxWidth   int
	maxHeight  int

	termWidth  int
	termHeight int

	focused    bool
	focusOwner events.ComponentID

	events *eventviewer.Model

	frameWidth  int
	frameHeight int
	innerWidth  int
	innerHeight int
	eventHeight int
	layoutDirty bool
}

func newTestbedModel(opts options) testbedModel {
	return testbedModel{
		fullscreen:  opts.full,
		maxWidth:    opts.width,
		maxHeight:   opts.height,
		events:      eventviewer.NewModel(400),
		layoutDirty: true,
	}
}

func (m *testbedModel) Init() tea.Cmd { return nil }

func (m *testbedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.events != nil {
		m.events.Record(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.layoutDirty = true
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.focused {
				return m, tea.Quit
			}
		}
	case events.FocusMsg:
		m.focused = true
		m.focusOwner = msg.Component
	case events.BlurMsg:
		if m.focusOwner == msg.Component || m.focusOwner == "" {
			m.focused = false
			m.focusOwner = ""
		}
	}
	return m, nil
}

func (m *testbedModel) SetFocus(f bool) {
	m.focused = f
	if !f {
		m.focusOwner = ""
	}
}

func (m *testbedModel) View() string {
	content := lipgloss.NewStyle().
		Padding(1, 2).
		Render(
			"medview testbed\n\n" +
				"Run a subcommand to iterate on one component:\n" +
				"sidebar, content, help, command or error.\n\n" +
				"Press q to quit.",
		)
	return m.composeView(content)
}

func (m *testbedModel) composeView(content string) string {
	if m.termWidth == 0 || m.termHeight == 0 {
		return "Resizing…"
	}
	m.ensureLayout()

	frameBlock := m.placeFrame(m.renderFrame(content))
	if eventLog := m.renderEvents(); eventLog != "" {
		frameBlock = lipgloss.JoinVertical(lipgloss.Left, frameBlock, "", eventLog)
	}
	return frameBlock
}

func (m *testbedModel) renderFrame(content string) string {
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if m.focused {
		border = border.BorderForeground(lipgloss.Color("#39FF14"))
	} else {
		border = border.BorderForeground(lipgloss.Color("240"))
	}

	inner := lipgloss.NewStyle().
		Width(m.innerWidth).
		Height(m.innerHeight).
		MaxHeight(m.innerHeight).
		Align(lipgloss.Left, lipgloss.Top).
		Render(content)
	return border.Render(inner)
}

func (m *testbedModel) renderEvents() string {
	if m.events == nil || m.eventHeight == 0 {
		return ""
	}
	return lipgloss.NewStyle().
		MaxHeight(m.eventHeight).
		Render(m.events.View())
}

func (m *testbedModel) placeFrame(frame string) string {
	height := max(1, m.termHeight-m.eventHeight-frameGap)
	return lipgloss.Place(
		m.termWidth,
		height,
		lipgloss.Center,
		lipgloss.Top,
		frame,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m *testbedModel) contentSize() (int, int) {
	m.ensureLayout()
	return m.innerWidth, m.innerHeight
}

func (m *testbedModel) ensureLayout() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	if !m.layoutDirty && m.frameWidth != 0 && m.frameHeight != 0 {
		return
	}

	eventHeight := m.computeEventHeight()
	frameSpace := max(minFrameHeight, m.termHeight-eventHeight-frameGap)

	width := clamp(m.maxWidth, 20, m.termWidth-4)
	height := clamp(m.maxHeight, minFrameHeight, frameSpace)
	if m.fullscreen {
		width = clamp(m.termWidth, 20, m.termWidth)
		height = clamp(frameSpace, minFrameHeight, frameSpace)
	}

	m.frameWidth = width
	m.frameHeight = height
	m.innerWidth = max(1, width-2)
	m.innerHeight = max(1, height-2)
	m.eventHeight = eventHeight
	m.layoutDirty = false

	if m.events != nil && eventHeight > 0 {
		m.events.SetSize(m.termWidth, eventHeight)
	}
}

func (m *testbedModel) computeEventHeight() int {
	if m.events == nil {
		return 0
	}
	maxAvailable := m.termHeight - minFrameHeight - frameGap
	if maxAvailable < minEventHeight {
		return 0
	}
	return min(clamp(m.termHeight/4, minEventHeight, maxEventHeight), maxAvailable)
}

func clamp(value, lo, hi int) int {
	if hi <= 0 {
		return lo
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

const (
	minFrameHeight = 12
	minEventHeight = 5
	maxEventHeight = 12
	frameGap       = 1
)
