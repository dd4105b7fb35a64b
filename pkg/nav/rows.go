package nav

// Row is one visible line of the sidebar.
type Row struct {
	ID    NodeID
	Depth int
}

// Rows flattens the tree into visible rows. The children of a node are
// shown only when open reports true for it; a nil open shows everything.
func (t *Tree) Rows(open func(n *Node) bool) []Row {
	var rows []Row
	t.Walk(func(n *Node, depth int) bool {
		rows = append(rows, Row{ID: n.ID, Depth: depth})
		return !n.Leaf() && (open == nil || open(n))
	})
	return rows
}

// IndexOf returns the position of id in rows, or -1.
func IndexOf(rows []Row, id NodeID) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
