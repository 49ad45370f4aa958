package lineage

import (
	"github.com/matzehuels/phylolane/pkg/errors"
)

// MRCA returns the most recent common ancestor of taxa a and b. A taxon is
// its own ancestor, so MRCA(a, a) is a and MRCA(a, descendant) is a.
func (t *Tree) MRCA(a, b string) (*Node, error) {
	ia, ok := t.byID[a]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown taxon %q", a)
	}
	ib, ok := t.byID[b]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown taxon %q", b)
	}

	for t.nodes[ia].depth > t.nodes[ib].depth {
		ia = t.nodes[ia].parent
	}
	for t.nodes[ib].depth > t.nodes[ia].depth {
		ib = t.nodes[ib].parent
	}
	for ia != ib {
		ia = t.nodes[ia].parent
		ib = t.nodes[ib].parent
	}
	return &t.nodes[ia], nil
}

// Ancestors returns the chain from id's parent up to the root.
func (t *Tree) Ancestors(id string) ([]*Node, error) {
	n, ok := t.Node(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown taxon %q", id)
	}
	var out []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out, nil
}
