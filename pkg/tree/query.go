package tree

import (
	"slices"

	errs "github.com/matzehuels/phylo/pkg/errors"
)

// Parent returns the parent of id. The root and unknown ids have none.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// Children returns the children of id in edge-table order.
// The order is cosmetic: it affects layout, never topology or metrics.
func (t *Tree) Children(id NodeID) []NodeID { return slices.Clone(t.children[id]) }

// IsAncestor reports whether a lies on the path from b to the root.
// A node is not its own ancestor. Cost is O(depth of b).
func (t *Tree) IsAncestor(a, b NodeID) bool {
	for p, ok := t.parent[b]; ok; p, ok = t.parent[p] {
		if p == a {
			return true
		}
	}
	return false
}

// PathToRoot returns id followed by each of its ancestors, ending at the root.
// Returns nil for an unknown id.
func (t *Tree) PathToRoot(id NodeID) []NodeID {
	if !t.Has(id) {
		return nil
	}
	path := []NodeID{id}
	for p, ok := t.parent[id]; ok; p, ok = t.parent[p] {
		path = append(path, p)
	}
	return path
}

// Depth returns the number of edges between id and the root, or -1 for an
// unknown id.
func (t *Tree) Depth(id NodeID) int {
	return len(t.PathToRoot(id)) - 1
}

// MRCA returns the most recent common ancestor of nodes: the lowest node that
// is an ancestor of, or equal to, every member. A single node is its own MRCA.
//
// Returns an [errs.ErrCodeUnknownTip] error for an empty set or an id that is
// not in the tree.
func (t *Tree) MRCA(nodes ...NodeID) (NodeID, error) {
	if len(nodes) == 0 {
		return NoNode, errs.New(errs.ErrCodeUnknownTip, "MRCA of an empty node set")
	}
	for _, id := range nodes {
		if !t.Has(id) {
			return NoNode, errs.New(errs.ErrCodeUnknownTip, "node %d not in tree", id)
		}
	}

	// Root path of the first node, root first, intersected with the rest.
	common := t.PathToRoot(nodes[0])
	slices.Reverse(common)
	for _, id := range nodes[1:] {
		onPath := make(map[NodeID]bool)
		for _, p := range t.PathToRoot(id) {
			onPath[p] = true
		}
		n := 0
		for n < len(common) && onPath[common[n]] {
			n++
		}
		common = common[:n]
	}
	return common[len(common)-1], nil
}

// MRCAOfLabels resolves tip labels and returns their MRCA.
func (t *Tree) MRCAOfLabels(labels ...string) (NodeID, error) {
	ids := make([]NodeID, len(labels))
	for i, l := range labels {
		id, err := t.TipByLabel(l)
		if err != nil {
			return NoNode, err
		}
		ids[i] = id
	}
	return t.MRCA(ids...)
}

// Preorder returns every node with parents before children, children visited
// in edge-table order.
func (t *Tree) Preorder() []NodeID {
	return t.preorderFrom(t.root)
}

// Postorder returns every node with children before parents.
func (t *Tree) Postorder() []NodeID {
	out := make([]NodeID, 0, len(t.nodes))
	var walk func(id NodeID)
	walk = func(id NodeID) {
		for _, c := range t.children[id] {
			walk(c)
		}
		out = append(out, id)
	}
	walk(t.root)
	return out
}

func (t *Tree) preorderFrom(id NodeID) []NodeID {
	var out []NodeID
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		kids := t.children[n]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// Descendants returns every node below id in preorder, excluding id itself.
// Returns nil for a tip or an unknown id.
func (t *Tree) Descendants(id NodeID) []NodeID {
	if !t.Has(id) || len(t.children[id]) == 0 {
		return nil
	}
	return t.preorderFrom(id)[1:]
}

// DescendantTips returns the tips below id from left to right. A tip is its
// own only descendant tip. Returns nil for an unknown id.
func (t *Tree) DescendantTips(id NodeID) []NodeID {
	if !t.Has(id) {
		return nil
	}
	var out []NodeID
	for _, n := range t.preorderFrom(id) {
		if len(t.children[n]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Subtree extracts the clade rooted at id as a new, renumbered tree. The
// branch above id becomes the new tree's root length.
func (t *Tree) Subtree(id NodeID) (*Tree, error) {
	if !t.Has(id) {
		return nil, errs.New(errs.ErrCodeUnknownTip, "node %d not in tree", id)
	}
	return Build(t.SpecAt(id))
}
