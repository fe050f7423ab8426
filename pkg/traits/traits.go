// Package traits matches external trait data to the tips of a tree.
//
// Trait tables are owned by the caller. The only contract this package has
// with them is name matching: for every tree label, which data row carries
// the same name. Rows are never dropped or reordered and a missing match is
// reported as [Unmatched], never guessed.
package traits

import (
	"slices"

	errs "github.com/matzehuels/phylo/pkg/errors"
)

// Unmatched marks a tree label with no matching data label.
const Unmatched = -1

// MatchLabels returns, for each tree label in order, the index of the data
// label with the same name, or [Unmatched].
//
// Returns an [errs.ErrCodeAmbiguousMatch] error when a tree label matches
// more than one data label. Duplicate data labels that no tree label asks
// for are ignored.
func MatchLabels(treeLabels, dataLabels []string) ([]int, error) {
	index := make(map[string][]int, len(dataLabels))
	for i, l := range dataLabels {
		index[l] = append(index[l], i)
	}

	out := make([]int, len(treeLabels))
	for i, l := range treeLabels {
		switch rows := index[l]; len(rows) {
		case 0:
			out[i] = Unmatched
		case 1:
			out[i] = rows[0]
		default:
			return nil, errs.New(errs.ErrCodeAmbiguousMatch, "label %q matches data rows %v", l, rows)
		}
	}
	return out, nil
}

// Report summarizes how two label sets overlap.
type Report struct {
	Matched       []string `json:"matched"`
	MissingInData []string `json:"missing_in_data"` // tree labels without a data row
	MissingInTree []string `json:"missing_in_tree"` // data labels without a tip
}

// OK reports whether every tree label has data and every data label a tip.
func (r Report) OK() bool {
	return len(r.MissingInData) == 0 && len(r.MissingInTree) == 0
}

// Check compares tree and data labels. Each list keeps the order of the
// input it was taken from.
func Check(treeLabels, dataLabels []string) Report {
	var r Report
	for _, l := range treeLabels {
		if slices.Contains(dataLabels, l) {
			r.Matched = append(r.Matched, l)
		} else {
			r.MissingInData = append(r.MissingInData, l)
		}
	}
	for _, l := range dataLabels {
		if !slices.Contains(treeLabels, l) {
			r.MissingInTree = append(r.MissingInTree, l)
		}
	}
	return r
}

// Align reorders rows, given in data label order, into tree label order.
// The second result reports which tree labels had a row; entries without
// one hold the zero value. Errors are those of [MatchLabels].
func Align[T any](treeLabels, dataLabels []string, rows []T) ([]T, []bool, error) {
	if len(rows) != len(dataLabels) {
		return nil, nil, errs.New(errs.ErrCodeInvalidInput, "%d rows for %d data labels", len(rows), len(dataLabels))
	}
	idx, err := MatchLabels(treeLabels, dataLabels)
	if err != nil {
		return nil, nil, err
	}
	out := make([]T, len(idx))
	found := make([]bool, len(idx))
	for i, j := range idx {
		if j != Unmatched {
			out[i], found[i] = rows[j], true
		}
	}
	return out, found, nil
}
