package lineage

import (
	"cmp"
	"slices"
)

// SortChildren reorders every node's children with cmpFn, working bottom-up
// so comparators may rely on keys already settled in deeper subtrees.
// The sort is stable: siblings that compare equal keep discovery order.
func (t *Tree) SortChildren(cmpFn func(a, b *Node) int) {
	for _, i := range t.postOrder() {
		kids := t.nodes[i].children
		if len(kids) < 2 {
			continue
		}
		slices.SortStableFunc(kids, func(a, b int) int {
			return cmpFn(&t.nodes[a], &t.nodes[b])
		})
	}
}

// SortByMaxDescendantLabel orders siblings ascending by the largest display
// label found among the leaves below them. Leaves use their own label.
// This keeps lineages that lead to neighbouring leaf labels adjacent.
func (t *Tree) SortByMaxDescendantLabel() {
	for _, i := range t.postOrder() {
		n := &t.nodes[i]
		if n.IsLeaf() {
			n.sortKey = n.DisplayLabel()
			continue
		}
		n.sortKey = ""
		for _, c := range n.children {
			n.sortKey = max(n.sortKey, t.nodes[c].sortKey)
		}
	}
	t.SortChildren(func(a, b *Node) int {
		return cmp.Compare(a.sortKey, b.sortKey)
	})
}

// MaxDescendantLabel returns the key computed by the last call to
// [Tree.SortByMaxDescendantLabel], or "" if it has not run.
func (n *Node) MaxDescendantLabel() string { return n.sortKey }

// postOrder returns arena indices with every child before its parent.
func (t *Tree) postOrder() []int {
	order := make([]int, 0, len(t.nodes))
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, i)
		stack = append(stack, t.nodes[i].children...)
	}
	slices.Reverse(order)
	return order
}
