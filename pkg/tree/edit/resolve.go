package edit

import (
	"math/rand/v2"

	"github.com/matzehuels/phylo/pkg/tree"
)

// ResolvePolytomies returns a fully bifurcating copy of t.
//
// Each node with k > 2 children is replaced by a cascade of k-2 new internal
// nodes. Pairs of clades are joined in an order drawn from a PCG generator
// seeded with seed, so the same seed always produces the same tree. New
// edges have length zero when t carries any branch lengths and no length
// otherwise. Binary trees are returned renumbered but otherwise unchanged.
func ResolvePolytomies(t *tree.Tree, seed uint64) (*tree.Tree, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	withLengths := anyLength(t)

	var resolve func(s tree.Spec) tree.Spec
	resolve = func(s tree.Spec) tree.Spec {
		if s.IsTip() {
			return s
		}
		kids := make([]tree.Spec, len(s.Children))
		for i, c := range s.Children {
			kids[i] = resolve(c)
		}
		for len(kids) > 2 {
			i := rng.IntN(len(kids))
			j := rng.IntN(len(kids) - 1)
			if j >= i {
				j++
			}
			if i > j {
				i, j = j, i
			}
			joined := tree.Spec{
				HasLength: withLengths,
				Children:  []tree.Spec{kids[i], kids[j]},
			}
			kids[i] = joined
			kids = append(kids[:j], kids[j+1:]...)
		}
		s.Children = kids
		return s
	}
	return tree.Build(resolve(t.Spec()))
}

func anyLength(t *tree.Tree) bool {
	for _, e := range t.Edges() {
		if e.HasLength {
			return true
		}
	}
	return false
}
