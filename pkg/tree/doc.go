// Package tree provides an immutable rooted phylogenetic tree and the
// topology queries built on it.
//
// # Overview
//
// A [Tree] is an edge table: every non-root node has exactly one incoming
// [Edge] from its parent, and every edge optionally carries a branch length.
// Tips (leaves) represent observed taxa and carry display labels; internal
// nodes represent inferred common ancestors.
//
// Node identifiers are positive integers. Trees built by [Build] (and
// therefore by the Newick codec and the edit operations) use the
// conventional numbering: tips 1..N from left to right, the root N+1, and
// remaining internal nodes in preorder. [New] accepts any positive ids and
// keeps them as given.
//
// # Branch Lengths
//
// An edge without a length is distinct from an edge of length zero. Use
// [Edge.HasLength] to tell them apart. Nothing in this package, or in the
// metrics built on it, treats an unset length as zero.
//
// # Immutability
//
// A Tree is never modified after construction. Operations that change a
// tree, such as [Tree.Rotate] or the edits in the [edit] subpackage, return
// a new Tree and leave the receiver untouched. Accessors return copies, so
// callers cannot reach the internal tables.
//
// # Rotation Hazard
//
// [Tree.Rotate] and [Tree.WithChildOrder] keep node identifiers, so several
// rotations can be applied in any sequence using the same ids. Operations
// that renumber nodes ([Build], [Tree.Canonical], and the edit subpackage)
// do not: an id taken from the input tree must be re-resolved, for example
// by label or [Tree.MRCA], before it is used on the output tree.
//
// # Concurrency
//
// Because a Tree is immutable, any number of goroutines may query the same
// Tree concurrently without synchronization.
//
// [edit]: github.com/matzehuels/phylo/pkg/tree/edit
package tree
