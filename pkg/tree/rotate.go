package tree

import (
	"slices"

	errs "github.com/matzehuels/phylo/pkg/errors"
)

// Rotate returns a new tree in which the child order of id is reversed.
//
// Rotation never changes an ancestor/descendant relation, and node ids are
// preserved, so rotations compose: applying several in any order yields the
// same relations and, for distinct nodes, the same child orders.
//
// Returns an [errs.ErrCodeUnknownTip] error for an unknown id or a tip.
func (t *Tree) Rotate(id NodeID) (*Tree, error) {
	if !t.Has(id) {
		return nil, errs.New(errs.ErrCodeUnknownTip, "node %d not in tree", id)
	}
	kids := t.Children(id)
	if len(kids) == 0 {
		return nil, errs.New(errs.ErrCodeUnknownTip, "cannot rotate tip %d", id)
	}
	slices.Reverse(kids)
	return t.WithChildOrder(map[NodeID][]NodeID{id: kids})
}

// WithChildOrder returns a new tree in which each listed node's children
// appear in the given order. Every listed order must be a permutation of the
// node's current children. Node ids are preserved.
func (t *Tree) WithChildOrder(order map[NodeID][]NodeID) (*Tree, error) {
	for id, kids := range order {
		cur := t.children[id]
		if !t.Has(id) {
			return nil, errs.New(errs.ErrCodeUnknownTip, "node %d not in tree", id)
		}
		if len(kids) != len(cur) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "node %d: order lists %d children, node has %d", id, len(kids), len(cur))
		}
		for _, c := range kids {
			if p, ok := t.parent[c]; !ok || p != id {
				return nil, errs.New(errs.ErrCodeInvalidInput, "node %d: %d is not a child", id, c)
			}
		}
		if len(uniq(kids)) != len(kids) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "node %d: order repeats a child", id)
		}
	}

	edges := make([]Edge, 0, len(t.edges))
	for _, id := range t.preorderWith(order) {
		kids, ok := order[id]
		if !ok {
			kids = t.children[id]
		}
		for _, c := range kids {
			edges = append(edges, t.edges[t.edgeIdx[c]])
		}
	}

	out := &Tree{
		edges:      edges,
		labels:     t.labels,
		root:       t.root,
		rootLen:    t.rootLen,
		hasRoot:    t.hasRoot,
		parent:     t.parent,
		nodes:      t.nodes,
		tips:       t.tips,
		tipByLabel: t.tipByLabel,
		edgeIdx:    make(map[NodeID]int, len(edges)),
		children:   make(map[NodeID][]NodeID, len(t.children)),
	}
	for i, e := range edges {
		out.edgeIdx[e.Child] = i
		out.children[e.Parent] = append(out.children[e.Parent], e.Child)
	}
	return out, nil
}

// preorderWith is a preorder walk that honors order overrides.
func (t *Tree) preorderWith(order map[NodeID][]NodeID) []NodeID {
	var out []NodeID
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		kids, ok := order[n]
		if !ok {
			kids = t.children[n]
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

func uniq(ids []NodeID) map[NodeID]bool {
	m := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
