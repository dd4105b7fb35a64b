package nav

import "sort"

// Flags are the per-node values recomputed on every sync.
type Flags struct {
	Active   bool `json:"active,omitempty"`
	Expanded bool `json:"expanded,omitempty"`
}

// State holds the active and expanded flags of a tree, keyed by node path.
// Readers use the accessors; only Syncer writes.
type State struct {
	flags  map[string]Flags
	active NodeID
}

// NewState returns a state with nothing active.
func NewState() *State {
	return &State{flags: map[string]Flags{}, active: NoNode}
}

// Active returns the active node, if any.
func (s *State) Active() (NodeID, bool) {
	if s == nil || s.active == NoNode {
		return NoNode, false
	}
	return s.active, true
}

// Flags returns the flags of the node at path.
func (s *State) Flags(path []int) Flags {
	if s == nil {
		return Flags{}
	}
	return s.flags[PathKey(path)]
}

// IsActive reports whether n is the active node.
func (s *State) IsActive(n *Node) bool {
	return n != nil && s.Flags(n.Path).Active
}

// IsExpanded reports whether n is expanded.
func (s *State) IsExpanded(n *Node) bool {
	return n != nil && s.Flags(n.Path).Expanded
}

// ExpandedKeys returns the path keys of expanded nodes, sorted.
func (s *State) ExpandedKeys() []string {
	if s == nil {
		return nil
	}
	var out []string
	for k, f := range s.flags {
		if f.Expanded {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of every set flag.
func (s *State) Snapshot() map[string]Flags {
	if s == nil {
		return nil
	}
	out := make(map[string]Flags, len(s.flags))
	for k, f := range s.flags {
		out[k] = f
	}
	return out
}

func (s *State) clear() {
	s.flags = map[string]Flags{}
	s.active = NoNode
}

func (s *State) activate(n *Node) {
	key := PathKey(n.Path)
	f := s.flags[key]
	f.Active = true
	s.flags[key] = f
	s.active = n.ID
}

func (s *State) expand(n *Node) {
	key := PathKey(n.Path)
	f := s.flags[key]
	f.Expanded = true
	s.flags[key] = f
}
