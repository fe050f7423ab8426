package edit

import (
	"math"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/tree"
)

// Collapse returns a copy of t in which every internal edge of length at
// most threshold is removed, merging the child node into its parent. The
// collapsed length is added to the edges below, so root-to-tip distances
// are unchanged. Labels of collapsed nodes are lost.
//
// Returns an [errs.ErrCodeMissingLengths] error if an internal edge has no
// length and an [errs.ErrCodeInvalidInput] error for a negative or NaN
// threshold.
func Collapse(t *tree.Tree, threshold float64) (*tree.Tree, error) {
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "invalid collapse threshold %v", threshold)
	}
	for _, e := range t.Edges() {
		if !e.HasLength && !t.IsTip(e.Child) {
			return nil, errs.New(errs.ErrCodeMissingLengths, "internal edge %d->%d has no length", e.Parent, e.Child)
		}
	}

	var collapse func(s tree.Spec) tree.Spec
	collapse = func(s tree.Spec) tree.Spec {
		var kids []tree.Spec
		for _, c := range s.Children {
			if c.IsTip() {
				kids = append(kids, c)
				continue
			}
			c = collapse(c)
			if c.Length > threshold {
				kids = append(kids, c)
				continue
			}
			for _, gc := range c.Children {
				if gc.HasLength {
					gc.Length += c.Length
				}
				kids = append(kids, gc)
			}
		}
		s.Children = kids
		return s
	}
	return tree.Build(collapse(t.Spec()))
}
