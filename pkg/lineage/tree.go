package lineage

import (
	"github.com/matzehuels/phylolane/pkg/errors"
)

// noParent is the parent index of the root node.
const noParent = -1

// Node is one lineage in a [Tree]. It wraps a copy of its [Record] and links
// to its parent and children by arena index.
//
// The zero value is not usable; nodes are created only by [Build].
type Node struct {
	Record

	tree     *Tree
	index    int
	parent   int
	children []int
	depth    int

	lane    int
	hasLane bool
	sortKey string
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	if n.parent == noParent {
		return nil
	}
	return &n.tree.nodes[n.parent]
}

// Children returns the child nodes in their current order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	for i, c := range n.children {
		out[i] = &n.tree.nodes[c]
	}
	return out
}

// Index returns the node's position in its tree's arena, which equals the
// position of its record in the batch passed to [Build].
func (n *Node) Index() int { return n.index }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// IsBranchPoint reports whether the node has zero or more than one child.
// Lane scopes reset at branch points.
func (n *Node) IsBranchPoint() bool { return len(n.children) != 1 }

// Depth returns the number of edges between the node and the root.
func (n *Node) Depth() int { return n.depth }

// Lane returns the assigned lane and whether one has been assigned.
func (n *Node) Lane() (int, bool) { return n.lane, n.hasLane }

// SetLane records the node's lane.
func (n *Node) SetLane(lane int) {
	n.lane = lane
	n.hasLane = true
}

// ClearLane marks the node as having no lane.
func (n *Node) ClearLane() {
	n.lane = 0
	n.hasLane = false
}

// Tree is a rooted lineage tree built from one batch of records.
// The tree owns all of its nodes.
type Tree struct {
	nodes []Node
	byID  map[string]int
	root  int
}

// Build reconstructs the tree described by records.
//
// It returns a MALFORMED_HIERARCHY error when a record has an empty or
// duplicate ID, when zero or several records have no parent, when a parent
// reference does not resolve within the batch, or when the parent links form
// a cycle. Children are attached in the order their records appear.
// Build does not modify records.
func Build(records []Record) (*Tree, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedHierarchy, "no records")
	}

	t := &Tree{
		nodes: make([]Node, len(records)),
		byID:  make(map[string]int, len(records)),
		root:  noParent,
	}

	for i, r := range records {
		if r.ID == "" {
			return nil, errors.New(errors.ErrCodeMalformedHierarchy, "record %d has an empty id", i)
		}
		if _, dup := t.byID[r.ID]; dup {
			return nil, errors.New(errors.ErrCodeMalformedHierarchy, "duplicate id %q", r.ID)
		}
		t.byID[r.ID] = i
		t.nodes[i] = Node{Record: r, tree: t, index: i, parent: noParent}
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		if n.IsRoot() {
			if t.root != noParent {
				return nil, errors.New(errors.ErrCodeMalformedHierarchy,
					"multiple roots: %q and %q", t.nodes[t.root].ID, n.ID)
			}
			t.root = i
			continue
		}
		p, ok := t.byID[n.ParentID]
		if !ok {
			return nil, errors.New(errors.ErrCodeMalformedHierarchy,
				"%q references unknown parent %q", n.ID, n.ParentID)
		}
		if p == i {
			return nil, errors.New(errors.ErrCodeMalformedHierarchy, "%q is its own parent", n.ID)
		}
		n.parent = p
		t.nodes[p].children = append(t.nodes[p].children, i)
	}

	if t.root == noParent {
		return nil, errors.New(errors.ErrCodeMalformedHierarchy, "no root: every record has a parent")
	}

	// With one root and every parent resolved, any node unreachable from
	// the root sits on a cycle.
	reached := 0
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reached++
		for _, c := range t.nodes[i].children {
			t.nodes[c].depth = t.nodes[i].depth + 1
			stack = append(stack, c)
		}
	}
	if reached != len(t.nodes) {
		for i := range t.nodes {
			if !t.reachable(i) {
				return nil, errors.New(errors.ErrCodeMalformedHierarchy,
					"cycle through %q", t.nodes[i].ID)
			}
		}
	}

	return t, nil
}

// reachable reports whether the root is an ancestor of node i. The walk is
// bounded by the node count so it terminates on cycles.
func (t *Tree) reachable(i int) bool {
	for steps := 0; steps <= len(t.nodes); steps++ {
		if i == t.root {
			return true
		}
		i = t.nodes[i].parent
		if i == noParent {
			return false
		}
	}
	return false
}

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.nodes[t.root] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given ID.
func (t *Tree) Node(id string) (*Node, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.nodes[i], true
}

// Nodes returns all nodes in input order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.nodes))
	for i := range t.nodes {
		out[i] = &t.nodes[i]
	}
	return out
}

// Walk visits every node depth-first in pre-order, children in their current
// order. It stops at the first error returned by fn and returns it.
func (t *Tree) Walk(fn func(n *Node) error) error {
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := fn(&t.nodes[i]); err != nil {
			return err
		}
		kids := t.nodes[i].children
		for j := len(kids) - 1; j >= 0; j-- {
			stack = append(stack, kids[j])
		}
	}
	return nil
}

// PreOrder returns all nodes in the order [Tree.Walk] visits them.
func (t *Tree) PreOrder() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	_ = t.Walk(func(n *Node) error {
		out = append(out, n)
		return nil
	})
	return out
}

// Leaves returns the nodes without children in pre-order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	_ = t.Walk(func(n *Node) error {
		if n.IsLeaf() {
			out = append(out, n)
		}
		return nil
	})
	return out
}

// Height returns the maximum node depth.
func (t *Tree) Height() int {
	h := 0
	for i := range t.nodes {
		h = max(h, t.nodes[i].depth)
	}
	return h
}

// Descendants returns every node below id in pre-order, excluding id itself.
func (t *Tree) Descendants(id string) ([]*Node, error) {
	start, ok := t.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown taxon %q", id)
	}
	var out []*Node
	var stack []int
	for j := len(t.nodes[start].children) - 1; j >= 0; j-- {
		stack = append(stack, t.nodes[start].children[j])
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, &t.nodes[i])
		kids := t.nodes[i].children
		for j := len(kids) - 1; j >= 0; j-- {
			stack = append(stack, kids[j])
		}
	}
	return out, nil
}

// Extant returns the nodes alive at the observation ceiling, in pre-order.
func (t *Tree) Extant(ceiling float64) []*Node {
	var out []*Node
	_ = t.Walk(func(n *Node) error {
		if n.IsExtant(ceiling) {
			out = append(out, n)
		}
		return nil
	})
	return out
}

// ResetLanes clears every lane assignment.
func (t *Tree) ResetLanes() {
	for i := range t.nodes {
		t.nodes[i].ClearLane()
	}
}

// Validate checks the temporal invariants that [Build] does not enforce:
// every lineage ends no earlier than it begins, and no child originates
// before its parent. Violations are MALFORMED_HIERARCHY errors.
func (t *Tree) Validate() error {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.Destruction < n.Origin {
			return errors.New(errors.ErrCodeMalformedHierarchy,
				"%q is destroyed at %g before its origin %g", n.ID, n.Destruction, n.Origin)
		}
		if p := n.Parent(); p != nil && n.Origin < p.Origin {
			return errors.New(errors.ErrCodeMalformedHierarchy,
				"%q originates at %g before its parent %q at %g", n.ID, n.Origin, p.ID, p.Origin)
		}
	}
	return nil
}
