package eventviewer

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/medview/pkg/router"
	"tableflip.dev/medview/pkg/tui/events"
	"tableflip.dev/medview/pkg/view"
)

func TestRecordNewestFirst(t *testing.T) {
	m := NewModel(10)
	m.Record(events.NavigateMsg{Component: "sidebar", Path: "#imaging/ct/R1"})
	m.Record(tea.WindowSizeMsg{Width: 80, Height: 24})

	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Source != "tea" || got[0].Detail != "size=80x24" {
		t.Errorf("newest = %+v", got[0])
	}
	if got[1].Source != "sidebar" || got[1].Detail != `path:"#imaging/ct/R1"` {
		t.Errorf("oldest = %+v", got[1])
	}
}

func TestRecordCapsEntries(t *testing.T) {
	m := NewModel(2)
	for i := 0; i < 5; i++ {
		m.Record(tea.WindowSizeMsg{Width: i, Height: i})
	}
	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Detail != "size=4x4" {
		t.Errorf("newest = %q", got[0].Detail)
	}
}

func TestLevelFor(t *testing.T) {
	tests := map[string]struct {
		msg  tea.Msg
		want Level
	}{
		"rendered": {
			msg:  events.ResolvedMsg{Resolution: router.Resolution{Outcome: view.Rendered}},
			want: LevelInfo,
		},
		"redirected": {
			msg:  events.ResolvedMsg{Resolution: router.Resolution{Outcome: view.Redirected}},
			want: LevelWarn,
		},
		"missing": {
			msg:  events.ResolvedMsg{Resolution: router.Resolution{Outcome: view.Missing}},
			want: LevelWarn,
		},
		"failed": {
			msg:  events.ResolvedMsg{Resolution: router.Resolution{Outcome: view.Failed}},
			want: LevelError,
		},
		"other": {
			msg:  tea.WindowSizeMsg{},
			want: LevelInfo,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := LevelFor(tc.msg); got != tc.want {
				t.Errorf("LevelFor = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestViewPlaceholder(t *testing.T) {
	m := NewModel(0)
	if m.View() != "" {
		t.Error("unsized view should be empty")
	}
	m.SetSize(60, 6)
	if !strings.Contains(m.View(), "No events yet") {
		t.Errorf("view = %q", m.View())
	}
	m.Record(events.CommandCancelMsg{Component: "command"})
	if !strings.Contains(m.View(), "[command]") {
		t.Errorf("view = %q", m.View())
	}
	m.Clear()
	if len(m.Entries()) != 0 {
		t.Error("clear kept entries")
	}
}
