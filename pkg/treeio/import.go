package treeio

import (
	"encoding/json"
	"io"
	"os"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/tree"
)

// Tree validates the document and builds the tree it describes.
//
// Returns an [errs.ErrCodeMalformedTopology] error if the edge table is not
// a tree, a node id repeats, or Root disagrees with the edges.
func (d Document) Tree() (*tree.Tree, error) {
	labels := make(map[tree.NodeID]string, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, dup := labels[n.ID]; dup {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "node %d listed twice", n.ID)
		}
		labels[n.ID] = n.Label
	}

	edges := make([]tree.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = tree.Edge{Parent: e.Parent, Child: e.Child}
		if e.Length != nil {
			edges[i].Length, edges[i].HasLength = *e.Length, true
		}
	}

	var opts []tree.Option
	if d.RootLength != nil {
		opts = append(opts, tree.WithRootLength(*d.RootLength))
	}
	t, err := tree.New(edges, labels, opts...)
	if err != nil {
		return nil, err
	}
	if d.Root != tree.NoNode && d.Root != t.Root() {
		return nil, errs.New(errs.ErrCodeMalformedTopology, "document names root %d, edges imply %d", d.Root, t.Root())
	}
	return t, nil
}

// ReadJSON decodes a JSON document from r and builds the tree it describes.
//
// Malformed JSON fails with an [errs.ErrCodeInvalidInput] error; an invalid
// edge table fails as described for [Document.Tree]. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*tree.Tree, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode")
	}
	return doc.Tree()
}

// ImportJSON reads a JSON file at path and returns the decoded tree.
//
// ImportJSON returns the same validation errors as [ReadJSON], and an
// [errs.ErrCodeFileNotFound] error if path does not exist.
func ImportJSON(path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
