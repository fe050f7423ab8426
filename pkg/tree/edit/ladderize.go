package edit

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/phylo/pkg/tree"
)

// Ladderize returns a copy of t in which every node's children are ordered
// by the number of tips below them: smallest clade first when rightHeavy,
// largest first otherwise. Ties keep their current order. Node ids are
// preserved and no ancestor/descendant relation changes.
func Ladderize(t *tree.Tree, rightHeavy bool) *tree.Tree {
	size := tipCounts(t)
	order := make(map[tree.NodeID][]tree.NodeID)
	for _, id := range t.InternalNodes() {
		kids := t.Children(id)
		slices.SortStableFunc(kids, func(a, b tree.NodeID) int {
			if rightHeavy {
				return cmp.Compare(size[a], size[b])
			}
			return cmp.Compare(size[b], size[a])
		})
		order[id] = kids
	}
	out, err := t.WithChildOrder(order)
	if err != nil {
		panic(fmt.Sprintf("BUG: ladderize produced an invalid child order: %v", err))
	}
	return out
}

// tipCounts maps every node to the number of tips in its clade.
func tipCounts(t *tree.Tree) map[tree.NodeID]int {
	size := make(map[tree.NodeID]int, t.NodeCount())
	for _, id := range t.Postorder() {
		kids := t.Children(id)
		if len(kids) == 0 {
			size[id] = 1
			continue
		}
		for _, c := range kids {
			size[id] += size[c]
		}
	}
	return size
}
