// Package treeio provides JSON import and export for trees as edge tables.
//
// # Overview
//
// Newick (package newick) is the interchange format of phylogenetics; this
// package provides the edge-table view of the same data. The format is
// designed for:
//
//   - Tools that consume trees as plain node and edge lists
//   - Archiving trees in document stores without a Newick parser
//   - Round-trip preservation: node ids, child order, labels and lengths
//
// # JSON Format
//
//	{
//	  "root": 5,
//	  "nodes": [
//	    {"id": 1, "label": "A"},
//	    {"id": 2, "label": "B"},
//	    {"id": 5}
//	  ],
//	  "edges": [
//	    {"parent": 5, "child": 1, "length": 1.0},
//	    {"parent": 5, "child": 2}
//	  ]
//	}
//
// An edge without "length" has no branch length, which is different from a
// length of zero. Edge order defines child order. "root" is optional on
// input; when given it must match the root implied by the edges. A
// single-node tree has no edges and exactly one node.
//
// # Import
//
// Use [ImportJSON] to read a tree from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the edge table through [tree.New], so a
// cyclic or disconnected table fails with a MALFORMED_TOPOLOGY error.
//
// # Export
//
// Use [ExportJSON] to write a tree to a file, or [WriteJSON] to write to any
// io.Writer. [FromTree] and [Document.Tree] convert without encoding, for
// callers that embed the document in a larger value.
package treeio
