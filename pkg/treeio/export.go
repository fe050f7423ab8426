package treeio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/phylo/pkg/tree"
)

// Document is the edge-table form of a tree.
type Document struct {
	Root       tree.NodeID `json:"root,omitempty" bson:"root,omitempty"`
	RootLength *float64    `json:"root_length,omitempty" bson:"root_length,omitempty"`
	Nodes      []Node      `json:"nodes" bson:"nodes"`
	Edges      []Edge      `json:"edges" bson:"edges"`
}

// Node is one entry of a document's node list.
type Node struct {
	ID    tree.NodeID `json:"id" bson:"id"`
	Label string      `json:"label,omitempty" bson:"label,omitempty"`
}

// Edge is one entry of a document's edge list. A nil Length means the edge
// has no branch length.
type Edge struct {
	Parent tree.NodeID `json:"parent" bson:"parent"`
	Child  tree.NodeID `json:"child" bson:"child"`
	Length *float64    `json:"length,omitempty" bson:"length,omitempty"`
}

// FromTree converts t into a document. Nodes are listed in ascending id
// order and edges in the tree's edge order.
func FromTree(t *tree.Tree) Document {
	doc := Document{
		Root:  t.Root(),
		Nodes: make([]Node, 0, t.NodeCount()),
		Edges: make([]Edge, 0, t.EdgeCount()),
	}
	if l, ok := t.RootLength(); ok {
		doc.RootLength = &l
	}
	for _, id := range t.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{ID: id, Label: t.Label(id)})
	}
	for _, e := range t.Edges() {
		out := Edge{Parent: e.Parent, Child: e.Child}
		if e.HasLength {
			l := e.Length
			out.Length = &l
		}
		doc.Edges = append(doc.Edges, out)
	}
	return doc
}

// WriteJSON encodes t as an indented JSON document and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(t *tree.Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes t to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(t *tree.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}
