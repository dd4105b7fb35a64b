package nav

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/route"
)

func activeKeys(tree *Tree, state *State) []string {
	var out []string
	tree.Walk(func(n *Node, _ int) bool {
		if state.IsActive(n) {
			out = append(out, n.Key)
		}
		return true
	})
	return out
}

func expandedKeys(tree *Tree, state *State) []string {
	var out []string
	tree.Walk(func(n *Node, _ int) bool {
		if state.IsExpanded(n) {
			out = append(out, n.Key)
		}
		return true
	})
	return out
}

func TestSyncMatchRules(t *testing.T) {
	tree := fixture()
	s := NewSyncer(logging.Discard())

	tests := []struct {
		path     string
		rule     Rule
		active   []string
		expanded []string
	}{
		{path: "#imaging/ct/R1", rule: RuleID, active: []string{"R1"}, expanded: []string{"imaging", "ct"}},
		{path: "#archive/R42", rule: RuleSubsectionAsID, active: []string{"R42"}, expanded: []string{"archive"}},
		{path: "#bloodwork", rule: RuleSectionKey, active: []string{"bloodwork"}},
		{path: "#imaging", rule: RuleNone},
		{path: "#imaging/ct", rule: RuleNone},
		{path: "#home", rule: RuleNone},
		{path: "#imaging/ct/missing", rule: RuleNone},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			state := NewState()
			m := s.Sync(tree, state, route.Parse(tt.path))
			if m.Rule != tt.rule {
				t.Fatalf("expected rule %s, got %s", tt.rule, m.Rule)
			}
			if m.Found != (tt.rule != RuleNone) {
				t.Fatalf("unexpected found=%v", m.Found)
			}
			if diff := cmp.Diff(tt.active, activeKeys(tree, state)); diff != "" {
				t.Fatalf("unexpected active (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.expanded, expandedKeys(tree, state)); diff != "" {
				t.Fatalf("unexpected expanded (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSyncClearsPreviousRoute(t *testing.T) {
	tree := fixture()
	s := NewSyncer(logging.Discard())
	state := NewState()

	s.Sync(tree, state, route.Parse("#imaging/ct/R1"))
	s.Sync(tree, state, route.Parse("#pathology/biopsy/B1"))

	if diff := cmp.Diff([]string{"B1"}, activeKeys(tree, state)); diff != "" {
		t.Fatalf("unexpected active (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"pathology", "biopsy"}, expandedKeys(tree, state)); diff != "" {
		t.Fatalf("stale expansion leaked (-want +got):\n%s", diff)
	}

	s.Sync(tree, state, route.Parse("#home"))
	if _, ok := state.Active(); ok {
		t.Fatalf("expected nothing active")
	}
	if len(state.ExpandedKeys()) != 0 {
		t.Fatalf("expected nothing expanded, got %v", state.ExpandedKeys())
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	tree := fixture()
	s := NewSyncer(logging.Discard())
	r := route.Parse("#imaging/xray/R3")

	once := NewState()
	s.Sync(tree, once, r)

	twice := NewState()
	s.Sync(tree, twice, r)
	s.Sync(tree, twice, r)

	if diff := cmp.Diff(once.Snapshot(), twice.Snapshot()); diff != "" {
		t.Fatalf("second sync changed state (-once +twice):\n%s", diff)
	}
	id, ok := twice.Active()
	if !ok || tree.Node(id).Key != "R3" {
		t.Fatalf("expected R3 active")
	}
}

func TestSyncEmptyGroupIsMatchable(t *testing.T) {
	tree := Build([]Section{{Kind: KindGroup, Key: "archive"}}, nil)
	state := NewState()
	m := NewSyncer(nil).Sync(tree, state, route.Parse("#archive"))
	if !m.Found || m.Rule != RuleSectionKey {
		t.Fatalf("childless group should match by key, got %+v", m)
	}
}
