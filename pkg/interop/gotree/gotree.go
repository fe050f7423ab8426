// Package gotree converts between phylo trees and trees of the
// github.com/evolbioinfo/gotree library, so that its algorithms (bipartition
// comparison, rerooting, support collapsing) can run on trees parsed or
// edited here.
//
// gotree has no root edge, so a root length is dropped by [ToGotree]. Node
// ids are not carried over; [FromGotree] numbers the result conventionally.
package gotree

import (
	gt "github.com/evolbioinfo/gotree/tree"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/tree"
)

// ToGotree builds a gotree tree with the same topology, labels, child order
// and edge lengths as t. Unset lengths become gotree's NIL_LENGTH.
func ToGotree(t *tree.Tree) *gt.Tree {
	out := gt.NewTree()
	root := out.NewNode()
	out.SetRoot(root)
	attach(out, root, t, t.Root())
	return out
}

func attach(out *gt.Tree, n *gt.Node, t *tree.Tree, id tree.NodeID) {
	n.SetName(t.Label(id))
	for _, c := range t.Children(id) {
		child := out.NewNode()
		e := out.ConnectNodes(n, child)
		if edge, _ := t.EdgeTo(c); edge.HasLength {
			e.SetLength(edge.Length)
		} else {
			e.SetLength(gt.NIL_LENGTH)
		}
		attach(out, child, t, c)
	}
}

// Newick renders t with gotree's Newick writer. The output has no root
// length and omits unset lengths.
func Newick(t *tree.Tree) string {
	return ToGotree(t).Newick()
}

// FromGotree converts a gotree tree, rooted at its current root node.
// Duplicate tip names fail with [errs.ErrCodeMalformedTopology].
func FromGotree(g *gt.Tree) (*tree.Tree, error) {
	root := g.Root()
	if root == nil {
		return nil, errs.New(errs.ErrCodeMalformedTopology, "gotree tree has no root")
	}
	return tree.Build(spec(root, nil))
}

func spec(n, from *gt.Node) tree.Spec {
	s := tree.Spec{Label: n.Name()}
	edges := n.Edges()
	for i, nb := range n.Neigh() {
		if nb == from {
			continue
		}
		c := spec(nb, n)
		if l := edges[i].Length(); l != gt.NIL_LENGTH && l >= 0 {
			c.Length, c.HasLength = l, true
		}
		s.Children = append(s.Children, c)
	}
	return s
}
