package tree

import (
	"maps"
	"math"
	"slices"

	errs "github.com/matzehuels/phylo/pkg/errors"
)

// NodeID identifies a node within a single tree.
type NodeID int

// NoNode is the zero NodeID. It never identifies a node.
const NoNode NodeID = 0

// Edge is a directed branch from Parent to Child.
//
// HasLength distinguishes a branch without length data from a branch of
// length zero. Length is meaningful only when HasLength is true.
type Edge struct {
	Parent    NodeID
	Child     NodeID
	Length    float64
	HasLength bool
}

// Tree is an immutable rooted tree.
//
// The zero value is not usable - use [New], [Build] or [Leaf].
type Tree struct {
	edges   []Edge
	labels  map[NodeID]string
	root    NodeID
	rootLen float64
	hasRoot bool // rootLen is set

	parent     map[NodeID]NodeID
	edgeIdx    map[NodeID]int // child -> index into edges
	children   map[NodeID][]NodeID
	nodes      []NodeID // ascending
	tips       []NodeID // ascending
	tipByLabel map[string]NodeID
}

// Option configures a tree built by [New].
type Option func(*Tree)

// WithRootLength records a branch length above the root (Newick "(A,B):0.5;").
// It is carried for round-trip fidelity and ignored by all metrics.
func WithRootLength(length float64) Option {
	return func(t *Tree) {
		t.rootLen = length
		t.hasRoot = true
	}
}

// New builds a tree from an edge table and a node label mapping.
//
// Edges may be given in any order; the order of edges sharing a parent
// defines that parent's child order. Labels may name tips or internal
// nodes, but non-empty tip labels must be unique.
//
// New fails with [errs.ErrCodeMalformedTopology] when an id is not positive,
// a length is negative or not finite, a node has two parents, the edges
// imply zero or several roots, a node cannot be reached from the root, or a
// label names a node that is not in the tree. An edge table with no edges
// must be accompanied by exactly one label, which names the only node.
func New(edges []Edge, labels map[NodeID]string, opts ...Option) (*Tree, error) {
	if len(edges) == 0 {
		if len(labels) != 1 {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "tree without edges must have exactly one labeled node, got %d", len(labels))
		}
		for id, l := range labels {
			if id <= NoNode {
				return nil, errs.New(errs.ErrCodeMalformedTopology, "invalid node id %d", id)
			}
			t := newLeaf(id, l)
			for _, opt := range opts {
				opt(t)
			}
			return t, validateRootLength(t)
		}
	}

	t := &Tree{
		edges:      slices.Clone(edges),
		labels:     make(map[NodeID]string, len(labels)),
		parent:     make(map[NodeID]NodeID, len(edges)),
		edgeIdx:    make(map[NodeID]int, len(edges)),
		children:   make(map[NodeID][]NodeID),
		tipByLabel: make(map[string]NodeID),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := validateRootLength(t); err != nil {
		return nil, err
	}

	seen := make(map[NodeID]bool, len(edges)+1)
	for i, e := range t.edges {
		if e.Parent <= NoNode || e.Child <= NoNode {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "edge %d->%d: node ids must be positive", e.Parent, e.Child)
		}
		if e.Parent == e.Child {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "edge %d->%d: cycle (self loop)", e.Parent, e.Child)
		}
		if e.HasLength && (e.Length < 0 || math.IsNaN(e.Length) || math.IsInf(e.Length, 0)) {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "edge %d->%d: invalid length %v", e.Parent, e.Child, e.Length)
		}
		if p, ok := t.parent[e.Child]; ok {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "node %d has more than one parent (%d and %d)", e.Child, p, e.Parent)
		}
		t.parent[e.Child] = e.Parent
		t.edgeIdx[e.Child] = i
		t.children[e.Parent] = append(t.children[e.Parent], e.Child)
		seen[e.Parent] = true
		seen[e.Child] = true
	}
	t.nodes = slices.Sorted(maps.Keys(seen))

	var roots []NodeID
	for _, id := range t.nodes {
		if _, ok := t.parent[id]; !ok {
			roots = append(roots, id)
		}
	}
	switch len(roots) {
	case 0:
		return nil, errs.New(errs.ErrCodeMalformedTopology, "edges form a cycle: no root")
	case 1:
		t.root = roots[0]
	default:
		return nil, errs.New(errs.ErrCodeMalformedTopology, "more than one root implied: %v", roots)
	}

	if reached := t.countReachable(); reached != len(t.nodes) {
		return nil, errs.New(errs.ErrCodeMalformedTopology, "%d of %d nodes have no path to root %d (cycle)", len(t.nodes)-reached, len(t.nodes), t.root)
	}

	for _, id := range t.nodes {
		if len(t.children[id]) == 0 {
			t.tips = append(t.tips, id)
		}
	}

	for id, l := range labels {
		if !seen[id] {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "label %q names unknown node %d", l, id)
		}
		if l == "" {
			continue
		}
		t.labels[id] = l
		if len(t.children[id]) > 0 {
			continue
		}
		if other, dup := t.tipByLabel[l]; dup {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "duplicate tip label %q (nodes %d and %d)", l, other, id)
		}
		t.tipByLabel[l] = id
	}

	return t, nil
}

// Leaf returns a single-node tree whose only node is tip 1.
func Leaf(label string) *Tree {
	return newLeaf(1, label)
}

func newLeaf(id NodeID, label string) *Tree {
	t := &Tree{
		labels:     map[NodeID]string{},
		root:       id,
		parent:     map[NodeID]NodeID{},
		edgeIdx:    map[NodeID]int{},
		children:   map[NodeID][]NodeID{},
		nodes:      []NodeID{id},
		tips:       []NodeID{id},
		tipByLabel: map[string]NodeID{},
	}
	if label != "" {
		t.labels[id] = label
		t.tipByLabel[label] = id
	}
	return t
}

func validateRootLength(t *Tree) error {
	if t.hasRoot && (t.rootLen < 0 || math.IsNaN(t.rootLen) || math.IsInf(t.rootLen, 0)) {
		return errs.New(errs.ErrCodeMalformedTopology, "invalid root length %v", t.rootLen)
	}
	return nil
}

// countReachable walks from the root with an explicit stack. Each node has
// at most one parent, so every node is pushed at most once.
func (t *Tree) countReachable() int {
	count := 0
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, t.children[id]...)
	}
	return count
}

// Root returns the root node.
func (t *Tree) Root() NodeID { return t.root }

// RootLength returns the branch length above the root, if one was recorded.
func (t *Tree) RootLength() (float64, bool) { return t.rootLen, t.hasRoot }

// NodeCount returns the number of nodes (tips and internal).
func (t *Tree) NodeCount() int { return len(t.nodes) }

// TipCount returns the number of tips.
func (t *Tree) TipCount() int { return len(t.tips) }

// InternalCount returns the number of internal nodes, including the root
// unless the tree is a single tip.
func (t *Tree) InternalCount() int { return len(t.nodes) - len(t.tips) }

// EdgeCount returns the number of edges. A fully bifurcating tree with N
// tips has 2N-2 edges.
func (t *Tree) EdgeCount() int { return len(t.edges) }

// Edges returns a copy of the edge table in insertion order.
func (t *Tree) Edges() []Edge { return slices.Clone(t.edges) }

// Nodes returns all node ids in ascending order.
func (t *Tree) Nodes() []NodeID { return slices.Clone(t.nodes) }

// Tips returns tip ids in ascending order.
func (t *Tree) Tips() []NodeID { return slices.Clone(t.tips) }

// InternalNodes returns internal node ids in ascending order.
func (t *Tree) InternalNodes() []NodeID {
	out := make([]NodeID, 0, t.InternalCount())
	for _, id := range t.nodes {
		if len(t.children[id]) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// Has reports whether id is a node of the tree.
func (t *Tree) Has(id NodeID) bool {
	if id == t.root {
		return true
	}
	_, ok := t.parent[id]
	return ok
}

// IsTip reports whether id is a tip of the tree.
func (t *Tree) IsTip(id NodeID) bool {
	return t.Has(id) && len(t.children[id]) == 0
}

// Label returns the label of a node, or "" if it has none.
func (t *Tree) Label(id NodeID) string { return t.labels[id] }

// Labels returns a copy of the node label mapping.
func (t *Tree) Labels() map[NodeID]string { return maps.Clone(t.labels) }

// TipLabels returns tip labels in ascending tip id order. Unlabeled tips
// yield "".
func (t *Tree) TipLabels() []string {
	out := make([]string, len(t.tips))
	for i, id := range t.tips {
		out[i] = t.labels[id]
	}
	return out
}

// TipByLabel resolves a tip label to its node id.
// Returns an [errs.ErrCodeUnknownLabel] error if no tip carries the label.
func (t *Tree) TipByLabel(label string) (NodeID, error) {
	id, ok := t.tipByLabel[label]
	if !ok {
		return NoNode, errs.New(errs.ErrCodeUnknownLabel, "no tip labeled %q", label)
	}
	return id, nil
}

// EdgeTo returns the edge ending at child. The root has no such edge.
func (t *Tree) EdgeTo(child NodeID) (Edge, bool) {
	i, ok := t.edgeIdx[child]
	if !ok {
		return Edge{}, false
	}
	return t.edges[i], true
}

// IsBinary reports whether every internal node has exactly two children.
func (t *Tree) IsBinary() bool {
	for _, c := range t.children {
		if len(c) != 2 {
			return false
		}
	}
	return true
}

// HasLengths reports whether every edge carries a branch length.
// A tree without edges trivially has all its lengths.
func (t *Tree) HasLengths() bool {
	for _, e := range t.edges {
		if !e.HasLength {
			return false
		}
	}
	return true
}
