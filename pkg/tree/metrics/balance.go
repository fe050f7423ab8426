package metrics

import (
	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/tree"
)

// CladeSize holds the tip counts on either side of an internal node.
// For a polytomy Left counts the first child's clade and Right the rest.
type CladeSize struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Total returns the number of tips below the node.
func (c CladeSize) Total() int { return c.Left + c.Right }

// CladeSizes returns the clade split of every internal node. Nodes with a
// single child report Right as zero.
func CladeSizes(t *tree.Tree) map[tree.NodeID]CladeSize {
	size := tipCounts(t)
	out := make(map[tree.NodeID]CladeSize, t.InternalCount())
	for _, id := range t.InternalNodes() {
		kids := t.Children(id)
		cs := CladeSize{Left: size[kids[0]]}
		for _, c := range kids[1:] {
			cs.Right += size[c]
		}
		out[id] = cs
	}
	return out
}

// ImbalanceIndex returns the unweighted mean, over internal nodes with at
// least two children, of the share of the node's tips held by its largest
// child clade. For a bifurcation this is max(l, r) / (l + r).
//
// The index is 0.5 when every split is even and approaches 1 for a
// caterpillar. Returns an [errs.ErrCodeInvalidInput] error if no node
// branches.
func ImbalanceIndex(t *tree.Tree) (float64, error) {
	size := tipCounts(t)
	sum, n := 0.0, 0
	for _, id := range t.InternalNodes() {
		kids := t.Children(id)
		if len(kids) < 2 {
			continue
		}
		largest := 0
		for _, c := range kids {
			largest = max(largest, size[c])
		}
		sum += float64(largest) / float64(size[id])
		n++
	}
	if n == 0 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "imbalance needs at least one branching node")
	}
	return sum / float64(n), nil
}

// tipCounts maps every node to the number of tips in its clade.
func tipCounts(t *tree.Tree) map[tree.NodeID]int {
	size := make(map[tree.NodeID]int, t.NodeCount())
	for _, id := range t.Postorder() {
		if t.IsTip(id) {
			size[id] = 1
			continue
		}
		for _, c := range t.Children(id) {
			size[id] += size[c]
		}
	}
	return size
}
