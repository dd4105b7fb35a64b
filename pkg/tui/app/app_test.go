package teaui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/store"
	"tableflip.dev/medview/pkg/tui/components/command"
	"tableflip.dev/medview/pkg/tui/events"
)

var collections = map[string]string{
	store.SourceReports: `{"reports":[
		{"id":"R1","category":"imaging","subcategory":"ct","date":"2025-02-01","title":"CT chest","body":"Lungs clear."},
		{"id":"R2","category":"imaging","subcategory":"mri","date":"2024-11-12","title":"MRI knee","body":"Small effusion."},
		{"id":"R42","category":"archive","date":"2019","title":"Letter","body":"Old letter."}
	]}`,
	store.SourceBloodwork:   `{"panels":[]}`,
	store.SourceBPWeight:    `[]`,
	store.SourceMedications: `{"events":[]}`,
	store.SourcePatient:     `{"name":"Alex Doe"}`,
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z]`)

func stripANSI(s string) string { return ansi.ReplaceAllString(s, "") }

func newModel(t *testing.T, initial string) *Model {
	t.Helper()
	src := store.SourceFunc(func(_ context.Context, name string) ([]byte, error) {
		if body, ok := collections[name]; ok {
			return []byte(body), nil
		}
		return nil, fmt.Errorf("%s: not found", name)
	})
	v, err := app.BootFrom(context.Background(), &app.Config{}, src, logging.Discard())
	if err != nil {
		t.Fatalf("boot: %v", err)
	}
	m := New(v, initial, logging.Discard())
	step(t, m, startMsg{})
	step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

// step feeds msg to the model and then every message its commands produce,
// skipping commands that block or quit.
func step(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		_, cmd := m.Update(next)
		queue = append(queue, collect(cmd)...)
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case events.NavigateMsg, events.CommandSubmitMsg, events.CommandCancelMsg:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartsHome(t *testing.T) {
	m := newModel(t, "")
	if got := m.viewer.Location.Path(); got != "#home" {
		t.Fatalf("path = %q, want #home", got)
	}
	if m.content.Title() != "Overview" {
		t.Fatalf("content title = %q", m.content.Title())
	}
	if m.command.Status() != "#home" {
		t.Fatalf("status = %q", m.command.Status())
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "Imaging") {
		t.Fatalf("expected sidebar sections in view; view=%q", view)
	}
}

func TestResizeSetsPaneWidth(t *testing.T) {
	m := newModel(t, "")
	if w := m.viewer.Pane.Width(); w <= 0 || w >= 100 {
		t.Fatalf("pane width = %d", w)
	}
	if w := m.viewer.Pane.Width(); w != m.content.Width() {
		t.Fatalf("pane width %d != content width %d", w, m.content.Width())
	}
}

func TestInitialPathOpensReport(t *testing.T) {
	m := newModel(t, "#imaging/ct/R1")
	if m.content.Title() != "CT chest" {
		t.Fatalf("content title = %q", m.content.Title())
	}
	sel := m.sidebar.Selected()
	if sel == nil || sel.ReportID != "R1" {
		t.Fatalf("sidebar cursor should follow the active report, got %+v", sel)
	}
}

func TestCommandLineNavigates(t *testing.T) {
	m := newModel(t, "")
	step(t, m, keys(":"))
	if m.command.Mode() != command.ModeInput {
		t.Fatalf("expected command line to open")
	}
	for _, r := range "go #archive/R42" {
		step(t, m, keys(string(r)))
	}
	step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.viewer.Location.Path(); got != "#archive/R42" {
		t.Fatalf("path = %q", got)
	}
	if m.content.Title() != "Letter" {
		t.Fatalf("content title = %q", m.content.Title())
	}
}

func TestUnknownCommandWarns(t *testing.T) {
	m := newModel(t, "")
	step(t, m, events.CommandSubmitMsg{Component: commandID, Value: "frobnicate"})
	if !strings.Contains(m.command.Status(), "unknown command") {
		t.Fatalf("status = %q", m.command.Status())
	}
}

func TestRedirectReportsAndBack(t *testing.T) {
	m := newModel(t, "#imaging/mri/R2")
	step(t, m, events.NavigateMsg{Path: "#nowhere"})
	if got := m.viewer.Location.Path(); got != "#home" {
		t.Fatalf("path = %q", got)
	}
	if !strings.Contains(m.command.Status(), "#nowhere is not a known location") {
		t.Fatalf("status = %q", m.command.Status())
	}

	step(t, m, keys("b"))
	if got := m.viewer.Location.Path(); got != "#imaging/mri/R2" {
		t.Fatalf("back went to %q", got)
	}
	if m.content.Title() != "MRI knee" {
		t.Fatalf("content title = %q", m.content.Title())
	}

	step(t, m, keys("b"))
	if !strings.Contains(m.command.Status(), "no earlier location") {
		t.Fatalf("status = %q", m.command.Status())
	}
}

func TestSidebarEnterNavigates(t *testing.T) {
	m := newModel(t, "#imaging/ct/R1")
	// cursor sits on R1; the next visible row is the mri subgroup, closed.
	step(t, m, keys("j"))
	sel := m.sidebar.Selected()
	if sel == nil || sel.Key != "mri" {
		t.Fatalf("selected = %+v", sel)
	}
	step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	step(t, m, keys("j"))
	step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.viewer.Location.Path(); got != "#imaging/mri/R2" {
		t.Fatalf("path = %q", got)
	}
}

func TestHelpToggles(t *testing.T) {
	m := newModel(t, "")
	step(t, m, keys("?"))
	if !m.showHelp {
		t.Fatalf("expected help to open")
	}
	if !strings.Contains(stripANSI(m.View()), "Keys") {
		t.Fatalf("expected help content in view")
	}
	step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatalf("expected help to close")
	}
}

func TestFocusKeys(t *testing.T) {
	m := newModel(t, "")
	step(t, m, keys("l"))
	if !m.content.Focused() || m.sidebar.Focused() {
		t.Fatalf("expected content focus")
	}
	step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.sidebar.Focused() || m.content.Focused() {
		t.Fatalf("expected sidebar focus")
	}
}

func TestErrorModelHints(t *testing.T) {
	err := fmt.Errorf("%w: %w", app.ErrBootstrap, store.ErrSourceUnavailable)
	view := stripANSI(NewError(err).View())
	if !strings.Contains(view, "medview could not start") {
		t.Fatalf("view = %q", view)
	}
	if !strings.Contains(view, "--data") {
		t.Fatalf("expected data hint; view = %q", view)
	}
	if hintFor(errors.New("boom")) == hintFor(err) {
		t.Fatalf("expected distinct hints")
	}
	_, cmd := NewError(err).Update(keys("x"))
	if cmd == nil {
		t.Fatalf("expected quit on key")
	}
}
