package edit

import (
	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/tree"
)

// DropTips returns a copy of t without the tips carrying the given labels.
//
// Internal nodes left with one child are spliced out: the surviving edge
// gets the sum of the two lengths, or no length if either was unset, so
// path lengths between retained tips are preserved. A root left with one
// child is removed; the child's stem is discarded and the original root
// length, if any, is kept.
//
// Returns an [errs.ErrCodeUnknownTip] error if a label names no tip and an
// [errs.ErrCodeInvalidInput] error if no tip would remain.
func DropTips(t *tree.Tree, labels ...string) (*tree.Tree, error) {
	drop := make(map[string]bool, len(labels))
	for _, l := range labels {
		if _, err := t.TipByLabel(l); err != nil {
			return nil, errs.Wrap(errs.ErrCodeUnknownTip, err, "cannot drop %q", l)
		}
		drop[l] = true
	}
	return prune(t, func(label string) bool { return !drop[label] })
}

// KeepTips returns a copy of t restricted to the tips carrying the given
// labels. Unlabeled tips are dropped. Errors are those of [DropTips].
func KeepTips(t *tree.Tree, labels ...string) (*tree.Tree, error) {
	keep := make(map[string]bool, len(labels))
	for _, l := range labels {
		if _, err := t.TipByLabel(l); err != nil {
			return nil, errs.Wrap(errs.ErrCodeUnknownTip, err, "cannot keep %q", l)
		}
		keep[l] = true
	}
	return prune(t, func(label string) bool { return label != "" && keep[label] })
}

func prune(t *tree.Tree, keep func(label string) bool) (*tree.Tree, error) {
	root := t.Spec()
	if root.IsTip() {
		if !keep(root.Label) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "cannot drop every tip")
		}
		return tree.Build(root)
	}

	kids := pruneChildren(root.Children, keep)
	switch len(kids) {
	case 0:
		return nil, errs.New(errs.ErrCodeInvalidInput, "cannot drop every tip")
	case 1:
		only := kids[0]
		only.Length, only.HasLength = root.Length, root.HasLength
		return tree.Build(only)
	}
	root.Children = kids
	return tree.Build(root)
}

func pruneChildren(children []tree.Spec, keep func(string) bool) []tree.Spec {
	var out []tree.Spec
	for _, c := range children {
		if c.IsTip() {
			if keep(c.Label) {
				out = append(out, c)
			}
			continue
		}
		kids := pruneChildren(c.Children, keep)
		switch len(kids) {
		case 0:
		case 1:
			out = append(out, splice(c, kids[0]))
		default:
			c.Children = kids
			out = append(out, c)
		}
	}
	return out
}

// splice joins the edge above parent with the edge above its only child.
func splice(parent, child tree.Spec) tree.Spec {
	if parent.HasLength && child.HasLength {
		child.Length += parent.Length
	} else {
		child.Length, child.HasLength = 0, false
	}
	return child
}
