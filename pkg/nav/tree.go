package nav

import (
	"strconv"
	"strings"

	"tableflip.dev/medview/pkg/route"
)

// NodeID indexes Tree.Nodes.
type NodeID int

// NoNode is returned when a lookup finds nothing.
const NoNode NodeID = -1

// NodeKind is the variant of a built node.
type NodeKind int

const (
	StaticLeaf NodeKind = iota
	Group
	Subgroup
	ReportLeaf
)

func (k NodeKind) String() string {
	switch k {
	case StaticLeaf:
		return "static"
	case Group:
		return "group"
	case Subgroup:
		return "subgroup"
	case ReportLeaf:
		return "report"
	default:
		return "unknown"
	}
}

// Node is one entry of the built tree. Nodes carry no flags; those live in
// State, keyed by Path.
type Node struct {
	ID    NodeID
	Kind  NodeKind
	Key   string
	Label string
	Icon  string
	Route route.Route
	// ReportID and Date are set on report leaves only.
	ReportID string
	Date     string
	Children []NodeID
	// Path holds the child indexes leading from the root list to this node.
	Path []int
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// Tree is an arena of nodes. It is immutable once built.
type Tree struct {
	Nodes []Node
	Roots []NodeID

	byPath   map[string]NodeID
	byReport map[string]NodeID
}

// PathKey renders a node path as a map key, e.g. "0.2.1".
func PathKey(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// Node returns the node with id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil || id < 0 || int(id) >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id]
}

// ByPath returns the node at path.
func (t *Tree) ByPath(path []int) (NodeID, bool) {
	if t == nil {
		return NoNode, false
	}
	id, ok := t.byPath[PathKey(path)]
	return id, ok
}

// Ancestors returns the ancestors of id, outermost first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	out := make([]NodeID, 0, len(n.Path))
	for i := 1; i < len(n.Path); i++ {
		if a, ok := t.ByPath(n.Path[:i]); ok {
			out = append(out, a)
		}
	}
	return out
}

// FindReport returns the leaf for a report id.
func (t *Tree) FindReport(id string) (NodeID, bool) {
	if t == nil || id == "" {
		return NoNode, false
	}
	n, ok := t.byReport[id]
	return n, ok
}

// FindKey returns the top-level node with key.
func (t *Tree) FindKey(key string) (NodeID, bool) {
	if t == nil {
		return NoNode, false
	}
	for _, id := range t.Roots {
		if t.Nodes[id].Key == key {
			return id, true
		}
	}
	return NoNode, false
}

// Walk visits every node depth first in sidebar order. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	if t == nil {
		return
	}
	var visit func(ids []NodeID, depth int)
	visit = func(ids []NodeID, depth int) {
		for _, id := range ids {
			n := &t.Nodes[id]
			if fn(n, depth) {
				visit(n.Children, depth+1)
			}
		}
	}
	visit(t.Roots, 0)
}

func (t *Tree) add(parent NodeID, n Node) NodeID {
	id := NodeID(len(t.Nodes))
	n.ID = id
	if parent == NoNode {
		n.Path = []int{len(t.Roots)}
		t.Roots = append(t.Roots, id)
	} else {
		p := &t.Nodes[parent]
		n.Path = append(append([]int(nil), p.Path...), len(p.Children))
		p.Children = append(p.Children, id)
	}
	t.Nodes = append(t.Nodes, n)
	t.byPath[PathKey(n.Path)] = id
	if n.Kind == ReportLeaf {
		if _, dup := t.byReport[n.ReportID]; !dup {
			t.byReport[n.ReportID] = id
		}
	}
	return id
}
