package deptree

import "strconv"

// RebuildStructure clears and recomputes every node's Children, Parents and
// IsLeaf from the edge list. Links from a virtual root are not edges, so
// they are carried over. Calling it repeatedly yields the same result.
func (t *DependencyTree) RebuildStructure() {
	adopted := make(map[string][]string)
	for id, n := range t.Nodes {
		if n.Kind == KindVirtual {
			adopted[id] = append([]string(nil), n.Children...)
		}
	}

	for _, n := range t.Nodes {
		n.Children = []string{}
		n.Parents = []string{}
	}

	linked := make(map[[2]string]bool, len(t.Edges))
	for _, e := range t.Edges {
		from, ok := t.Nodes[e.From]
		if !ok {
			continue
		}
		to, ok := t.Nodes[e.To]
		if !ok {
			continue
		}
		key := [2]string{e.From, e.To}
		if linked[key] {
			continue
		}
		linked[key] = true
		from.Children = append(from.Children, e.To)
		to.Parents = append(to.Parents, e.From)
	}

	for _, id := range sortedIDs(t.Nodes) {
		children, ok := adopted[id]
		if !ok {
			continue
		}
		root := t.Nodes[id]
		for _, c := range children {
			child, ok := t.Nodes[c]
			if !ok || linked[[2]string{id, c}] {
				continue
			}
			linked[[2]string{id, c}] = true
			root.Children = append(root.Children, c)
			child.Parents = append(child.Parents, id)
		}
	}

	for _, n := range t.Nodes {
		n.IsLeaf = len(n.Children) == 0
	}
}

// orphans returns the sorted ids of non-virtual nodes without parents.
func (t *DependencyTree) orphans() []string {
	var out []string
	for _, id := range sortedIDs(t.Nodes) {
		n := t.Nodes[id]
		if n.Kind != KindVirtual && len(n.Parents) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// SelectRoot picks the tree root: a parentless entry point, else the only
// parentless node, else a new virtual root adopting every parentless node.
// When every node has a parent (the graph is all cycles) the virtual root
// adopts a minimal set of nodes from which everything is reachable.
func (t *DependencyTree) SelectRoot() {
	orphans := t.orphans()
	for _, id := range orphans {
		if t.Nodes[id].IsEntryPoint {
			t.Root = id
			return
		}
	}
	if len(orphans) == 1 {
		t.Root = orphans[0]
		return
	}

	adopt := orphans
	if len(orphans) == 0 {
		adopt = t.coveringSet()
	}

	id := VirtualRootID
	for i := 2; t.Nodes[id] != nil; i++ {
		id = VirtualRootID + "_" + strconv.Itoa(i)
	}
	root := &Node{
		ID:       id,
		Name:     "(project root)",
		Path:     ".",
		Kind:     KindVirtual,
		Language: "unknown",
		Children: append([]string{}, adopt...),
		Parents:  []string{},
		IsLeaf:   len(adopt) == 0,
	}
	t.Nodes[id] = root
	for _, c := range adopt {
		t.Nodes[c].Parents = append(t.Nodes[c].Parents, id)
	}
	t.Root = id
}

// coveringSet walks ids in order, keeping each node not yet reachable from
// an earlier kept node.
func (t *DependencyTree) coveringSet() []string {
	reached := make(map[string]bool)
	var keep []string
	for _, id := range sortedIDs(t.Nodes) {
		if reached[id] || t.Nodes[id].Kind == KindVirtual {
			continue
		}
		keep = append(keep, id)
		queue := []string{id}
		reached[id] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, c := range t.Nodes[cur].Children {
				if !reached[c] {
					reached[c] = true
					queue = append(queue, c)
				}
			}
		}
	}
	return keep
}

// FilterCircular keeps only edges whose endpoints both belong to some cycle.
func FilterCircular(edges []Edge, cycles []CircularDependency) []Edge {
	members := make(map[string]bool)
	for _, c := range cycles {
		for _, id := range c.Path {
			members[id] = true
		}
	}
	out := make([]Edge, 0)
	for _, e := range edges {
		if members[e.From] && members[e.To] {
			out = append(out, e)
		}
	}
	return out
}
