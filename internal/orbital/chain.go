package orbital

// Node is one entry in a system's position graph: a body or
// bary-centre's own orbital elements plus a reference to its parent
// node, if any. The chain terminates at a node with no parent (the
// primary star, position zero).
type Node struct {
	ID       int32
	Elements Elements
	ParentID *int32
}

// ChainPosition sums relative positions along the parent chain
// (parent_planet → parent_star → 0, or via a bary-centre parent) for
// the node identified by id, per §4.4. nodes is keyed by Node.ID.
func ChainPosition(id int32, nodes map[int32]Node) Vec3 {
	var total Vec3
	seen := make(map[int32]bool)

	current, ok := nodes[id]
	for ok && !seen[current.ID] {
		seen[current.ID] = true
		total = total.Add(Position(current.Elements))

		if current.ParentID == nil {
			break
		}
		current, ok = nodes[*current.ParentID]
	}

	return total
}
