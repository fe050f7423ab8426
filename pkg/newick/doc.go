/*
Package newick reads and writes trees in the Newick format.

The grammar accepted is

	tree    := subtree ';'
	subtree := '(' subtree (',' subtree)* ')' [label] [':' length]
	         | [label] [':' length]

Whitespace between tokens is ignored, bracketed comments ("[&R]") are
skipped, and labels may be quoted with single quotes, a doubled quote
standing for a literal one ('it''s'). An informal description of the format
can be found here:
http://evolution.genetics.washington.edu/phylip/newicktree.html.

A missing length is kept as an unset length on the parsed tree, not as
zero, so dated and undated trees are both represented faithfully.

A file may hold a sequence of ';'-terminated trees. [Reader.ReadAll] returns
them in input order; [Parse] accepts exactly one.

[Format] and [Write] serialize a tree so that Parse(Format(t)) is equal to t:
same shape, child order, labels and lengths.
*/
package newick
