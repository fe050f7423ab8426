// Package pkg provides the libraries behind phylo, a toolkit for rooted
// phylogenetic trees.
//
// # Overview
//
// A tree is parsed from Newick or a JSON edge table into an immutable
// [tree.Tree], edited into new trees, measured, and written back out:
//
//	Newick / JSON edge table
//	         ↓
//	    [newick], [treeio] (parse)
//	         ↓
//	    [tree/edit] (drop, collapse, resolve, ladderize)
//	         ↓
//	    [tree/metrics] (lengths, heights, ultrametricity, balance)
//	         ↓
//	    Newick / JSON / summaries
//
// # Quick Start
//
//	t, err := newick.Parse("(((A:1,B:1):1,C:2):1,D:4);")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t, _ = edit.DropTips(t, "C")
//	fmt.Println(newick.Format(t))          // ((A:1,B:1):2,D:4);
//	fmt.Println(metrics.Summarize(t, 1e-8)) // tips, total length, ...
//
// # Main Packages
//
// ## Trees
//
// [tree] - The immutable rooted tree: nodes, edges, optional branch lengths,
// queries (MRCA, clades, tip order) and child rotation.
//
// [tree/edit] - Operations that derive new trees: dropping and keeping tips,
// collapsing short edges, resolving polytomies and ladderizing.
//
// [tree/metrics] - Total branch length, height, ultrametricity and Colless
// style imbalance, for one tree or many trees concurrently.
//
// [traits] - Matching trait table rows to tips by label.
//
// ## Formats
//
// [newick] - Newick reader and writer, including quoted labels, comments and
// multi-tree files.
//
// [treeio] - The JSON edge-table document, also used as the archive record
// body.
//
// [interop/gotree] - Conversion to and from github.com/evolbioinfo/gotree.
//
// ## Infrastructure
//
// [pipeline] - The parse → edit → analyze pipeline shared by the CLI and
// the API server, with result caching.
//
// [cache] - Byte caches (file, Redis, null) and cache key derivation.
//
// [storage] - The tree archive: memory, file and MongoDB stores.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hooks for metrics on parsing, editing and caching.
//
// [httputil] - JSON request and error helpers for the API server.
//
// [errors] - Error codes shared by every package.
//
// # Testing
//
//	go test ./...                              # All tests
//	PHYLO_REDIS_ADDR=localhost:6379 go test ./pkg/cache/...
//	PHYLO_MONGO_URI=mongodb://localhost go test ./pkg/storage/...
package pkg
