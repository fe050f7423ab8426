// Package metrics computes tree-wide statistics: branch length totals,
// root-to-tip distances, ultrametricity and clade imbalance.
//
// Every function that needs branch lengths fails with
// [errs.ErrCodeMissingLengths] when one is unset; an unset length is never
// read as zero. Functions only read their input tree, so they may be called
// concurrently on shared trees.
package metrics

import (
	"math"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/tree"
)

// TotalBranchLength returns the sum of all edge lengths. A single-node tree
// has length zero. The root length is not counted.
func TotalBranchLength(t *tree.Tree) (float64, error) {
	if err := requireLengths(t); err != nil {
		return 0, err
	}
	sum := 0.0
	for _, e := range t.Edges() {
		sum += e.Length
	}
	return sum, nil
}

// RootToTip returns the cumulative branch length from the root to every tip.
func RootToTip(t *tree.Tree) (map[tree.NodeID]float64, error) {
	if err := requireLengths(t); err != nil {
		return nil, err
	}
	dist := make(map[tree.NodeID]float64, t.NodeCount())
	for _, id := range t.Preorder() {
		if e, ok := t.EdgeTo(id); ok {
			dist[id] = dist[e.Parent] + e.Length
		}
	}
	out := make(map[tree.NodeID]float64, t.TipCount())
	for _, id := range t.Tips() {
		out[id] = dist[id]
	}
	return out, nil
}

// Height returns the largest root-to-tip distance.
func Height(t *tree.Tree) (float64, error) {
	dist, err := RootToTip(t)
	if err != nil {
		return 0, err
	}
	h := 0.0
	for _, d := range dist {
		h = max(h, d)
	}
	return h, nil
}

// IsUltrametric reports whether all root-to-tip distances lie within tol of
// each other.
func IsUltrametric(t *tree.Tree, tol float64) (bool, error) {
	if tol < 0 || math.IsNaN(tol) {
		return false, errs.New(errs.ErrCodeInvalidInput, "invalid tolerance %v", tol)
	}
	dist, err := RootToTip(t)
	if err != nil {
		return false, err
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range dist {
		lo, hi = min(lo, d), max(hi, d)
	}
	return hi-lo <= tol, nil
}

func requireLengths(t *tree.Tree) error {
	for _, e := range t.Edges() {
		if !e.HasLength {
			return errs.New(errs.ErrCodeMissingLengths, "edge %d->%d has no length", e.Parent, e.Child)
		}
	}
	return nil
}
