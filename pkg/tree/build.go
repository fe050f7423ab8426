package tree

import (
	"fmt"
	"math"
)

// Spec is a nested description of a tree, one value per node. Length and
// HasLength describe the branch above the node; on the root they describe
// the root length.
type Spec struct {
	Label     string
	Length    float64
	HasLength bool
	Children  []Spec
}

// IsTip reports whether s has no children.
func (s Spec) IsTip() bool { return len(s.Children) == 0 }

// Build constructs a tree from a nested spec using the conventional
// numbering: tips 1..N from left to right, root N+1, and other internal
// nodes in preorder. Validation is the same as [New].
func Build(s Spec) (*Tree, error) {
	var opts []Option
	if s.HasLength {
		opts = append(opts, WithRootLength(s.Length))
	}
	if s.IsTip() {
		t := Leaf(s.Label)
		for _, opt := range opts {
			opt(t)
		}
		return t, validateRootLength(t)
	}

	nextTip := NodeID(1)
	nextInternal := NodeID(countTips(s) + 1)
	alloc := func(s Spec) NodeID {
		if s.IsTip() {
			nextTip++
			return nextTip - 1
		}
		nextInternal++
		return nextInternal - 1
	}

	var (
		edges  []Edge
		labels = make(map[NodeID]string)
	)
	var walk func(id NodeID, s Spec)
	walk = func(id NodeID, s Spec) {
		if s.Label != "" {
			labels[id] = s.Label
		}
		for _, c := range s.Children {
			cid := alloc(c)
			edges = append(edges, Edge{Parent: id, Child: cid, Length: c.Length, HasLength: c.HasLength})
			walk(cid, c)
		}
	}
	walk(alloc(s), s)

	return New(edges, labels, opts...)
}

func countTips(s Spec) int {
	if s.IsTip() {
		return 1
	}
	n := 0
	for _, c := range s.Children {
		n += countTips(c)
	}
	return n
}

// Spec returns the nested description of the whole tree, including the root
// length if one is recorded.
func (t *Tree) Spec() Spec {
	s := t.SpecAt(t.root)
	s.Length, s.HasLength = t.rootLen, t.hasRoot
	return s
}

// SpecAt returns the nested description of the clade rooted at id. The
// branch above id, if any, becomes the returned Spec's Length.
func (t *Tree) SpecAt(id NodeID) Spec {
	s := Spec{Label: t.labels[id]}
	if e, ok := t.EdgeTo(id); ok {
		s.Length, s.HasLength = e.Length, e.HasLength
	}
	for _, c := range t.children[id] {
		s.Children = append(s.Children, t.SpecAt(c))
	}
	return s
}

// Canonical returns the tree renumbered into the conventional numbering used
// by [Build]. Ids from the receiver are not valid on the result.
func (t *Tree) Canonical() *Tree {
	c, err := Build(t.Spec())
	if err != nil {
		panic(fmt.Sprintf("BUG: canonical rebuild of a valid tree failed: %v", err))
	}
	return c
}

// Equal reports whether a and b have the same shape, child order, labels and
// length presence, with lengths equal within tol. Node ids are ignored.
func Equal(a, b *Tree, tol float64) bool {
	return equalSpec(a.Spec(), b.Spec(), tol)
}

func equalSpec(a, b Spec, tol float64) bool {
	if a.Label != b.Label || a.HasLength != b.HasLength || len(a.Children) != len(b.Children) {
		return false
	}
	if a.HasLength && math.Abs(a.Length-b.Length) > tol {
		return false
	}
	for i := range a.Children {
		if !equalSpec(a.Children[i], b.Children[i], tol) {
			return false
		}
	}
	return true
}
