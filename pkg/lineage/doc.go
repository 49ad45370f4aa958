// Package lineage reconstructs rooted phylogenetic trees from flat taxon
// records.
//
// # Overview
//
// Phylogeny data arrives as a flat table: each row names a taxon, its parent
// (or none for the root), the time the lineage originated and the time it was
// destroyed. Lineages still alive at the end of observation carry the
// observation ceiling as their destruction time and are called extant.
//
// [Build] turns such a batch of [Record] values into a [Tree]. The tree owns
// every [Node] in a single arena; parent links are arena indices, so no node
// owns another and the whole structure is released together.
//
//	t, err := lineage.Build([]lineage.Record{
//	    {ID: "1", Origin: 0, Destruction: 10},
//	    {ID: "2", ParentID: "1", Origin: 2, Destruction: 8},
//	    {ID: "3", ParentID: "1", Origin: 3, Destruction: 10},
//	})
//
// # Structural Guarantees
//
// A successfully built tree has exactly one root, every parent reference
// resolves within the batch, and there are no cycles. Any violation is
// reported as a MALFORMED_HIERARCHY error from [github.com/matzehuels/phylolane/pkg/errors]
// and no partial tree is returned.
//
// Children keep the order in which their records were supplied. Callers
// needing a specific sibling order call [Tree.SortChildren] or
// [Tree.SortByMaxDescendantLabel] after construction.
//
// # Traversal
//
// [Tree.Walk] visits nodes depth-first in pre-order, the order used by the
// lane allocator in package lane. [Tree.MRCA] finds the true most recent
// common ancestor of two taxa, which is what pairwise MRCA estimates in
// package mrca try to bound.
//
// # Concurrency
//
// A Tree is not safe for concurrent mutation. Independent trees built from
// separate Build calls share nothing and may be processed in parallel.
package lineage
