package nav

import (
	"github.com/sirupsen/logrus"

	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/route"
)

// Rule names the matching rule that selected the active node.
type Rule int

const (
	RuleNone Rule = iota
	// RuleID matched the route id against a report leaf.
	RuleID
	// RuleSubsectionAsID matched the subsection against a report leaf, as
	// used by two-segment archive paths.
	RuleSubsectionAsID
	// RuleSectionKey matched the section against a childless top-level node.
	RuleSectionKey
)

func (r Rule) String() string {
	switch r {
	case RuleID:
		return "id"
	case RuleSubsectionAsID:
		return "subsection-as-id"
	case RuleSectionKey:
		return "section-key"
	default:
		return "none"
	}
}

// Match is the result of a sync.
type Match struct {
	Node  NodeID
	Found bool
	Rule  Rule
}

// Syncer recomputes State for a route.
type Syncer struct {
	log logrus.FieldLogger
}

// NewSyncer returns a syncer.
func NewSyncer(log logrus.FieldLogger) *Syncer {
	return &Syncer{log: logging.Or(log)}
}

// Sync clears every flag, marks the node matching r active and expands its
// ancestors. A route that matches nothing leaves the tree with no active
// node.
func (s *Syncer) Sync(tree *Tree, state *State, r route.Route) Match {
	state.clear()

	m := s.match(tree, r)
	if !m.Found {
		s.log.WithField("route", r.String()).Debug("route matches no nav node")
		return m
	}

	n := tree.Node(m.Node)
	state.activate(n)
	for _, a := range tree.Ancestors(m.Node) {
		state.expand(tree.Node(a))
	}
	s.log.WithFields(logrus.Fields{
		"route": r.String(),
		"node":  n.Key,
		"rule":  m.Rule.String(),
	}).Debug("nav synced")
	return m
}

func (s *Syncer) match(tree *Tree, r route.Route) Match {
	if r.ID != "" {
		if id, ok := tree.FindReport(r.ID); ok {
			return Match{Node: id, Found: true, Rule: RuleID}
		}
	} else if r.Subsection != "" {
		if id, ok := tree.FindReport(r.Subsection); ok {
			return Match{Node: id, Found: true, Rule: RuleSubsectionAsID}
		}
	}
	if id, ok := tree.FindKey(r.Section); ok && tree.Node(id).Leaf() {
		return Match{Node: id, Found: true, Rule: RuleSectionKey}
	}
	return Match{Node: NoNode}
}
