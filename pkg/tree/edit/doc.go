// Package edit provides operations that derive a new tree from an existing
// one.
//
// # Overview
//
// A [tree.Tree] is immutable, so every function here returns a new tree and
// leaves its input untouched. Trees referenced elsewhere, and node ids held
// by in-flight traversals, stay valid.
//
// # Pruning
//
// [DropTips] removes named tips. An internal node left without children is
// removed with them; an internal node left with a single child is spliced
// out, its two edges joined into one whose length is their sum:
//
//	Before: (((A:1,B:1):1,C:2):1,D:4);   drop C
//	After:  ((A:1,B:1):2,D:4);
//
// A root left with one child is removed and that child becomes the root.
// [KeepTips] is the complement.
//
// # Polytomies
//
// [ResolvePolytomies] turns every node with more than two children into a
// cascade of bifurcations joined by zero-length edges. The join order is
// drawn from a generator seeded by the caller, so the same seed always yields
// the same tree. [Collapse] goes the other way and turns short internal
// edges (soft polytomies) into hard ones.
//
// # Renumbering
//
// DropTips, KeepTips, ResolvePolytomies and Collapse return trees in the
// conventional numbering of [tree.Build]: node ids of the input are not valid
// on the output and must be re-resolved, by label for instance. [Ladderize]
// only reorders children and keeps ids.
package edit
