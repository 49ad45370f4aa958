package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/lineage"
	"github.com/matzehuels/phylolane/pkg/scale"
)

// Layout is a laid-out lineage tree.
type Layout struct {
	ID        string       `json:"id,omitempty" bson:"id,omitempty"`
	Treatment string       `json:"treatment,omitempty" bson:"treatment,omitempty"`
	Scale     scale.Params `json:"scale" bson:"scale"`
	Root      string       `json:"root" bson:"root"`
	Nodes     []Node       `json:"nodes" bson:"nodes"`
}

// Node is one positioned lineage.
type Node struct {
	ID          string  `json:"id" bson:"id"`
	Parent      string  `json:"parent,omitempty" bson:"parent,omitempty"`
	Label       string  `json:"label,omitempty" bson:"label,omitempty"`
	Depth       int     `json:"depth" bson:"depth"`
	Origin      float64 `json:"origin" bson:"origin"`
	Destruction float64 `json:"destruction" bson:"destruction"`
	Lane        int     `json:"lane" bson:"lane"`
	X0          float64 `json:"x0" bson:"x0"` // Coordinate of Origin
	X1          float64 `json:"x1" bson:"x1"` // Coordinate of Destruction
	Extant      bool    `json:"extant,omitempty" bson:"extant,omitempty"`
}

// Project positions every node of t under age. Every node must already have
// a lane; a node without one is an INVALID_INPUT error.
//
// The observation ceiling used for the Extant flag is the top of the scale's
// domain.
func Project(t *lineage.Tree, age *scale.Age) (Layout, error) {
	_, ceiling := age.Domain()
	l := Layout{
		Scale: age.Params(),
		Root:  t.Root().ID,
		Nodes: make([]Node, 0, t.Len()),
	}

	err := t.Walk(func(n *lineage.Node) error {
		lane, ok := n.Lane()
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "node %q has no lane", n.ID)
		}
		l.Nodes = append(l.Nodes, Node{
			ID:          n.ID,
			Parent:      n.ParentID,
			Label:       n.Label,
			Depth:       n.Depth(),
			Origin:      n.Origin,
			Destruction: n.Destruction,
			Lane:        lane,
			X0:          age.Forward(n.Origin),
			X1:          age.Forward(n.Destruction),
			Extant:      n.IsExtant(ceiling),
		})
		if l.Treatment == "" {
			l.Treatment = n.Treatment
		}
		return nil
	})
	if err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Rescale sets a new scale exponent and recomputes every coordinate.
// Lanes, depths and node order are left unchanged. An invalid exponent is
// rejected and leaves l untouched.
func (l *Layout) Rescale(exponent float64) error {
	age, err := l.Scale.Age()
	if err != nil {
		return err
	}
	if err := age.SetExponent(exponent); err != nil {
		return err
	}
	l.Scale = age.Params()
	for i := range l.Nodes {
		n := &l.Nodes[i]
		n.X0 = age.Forward(n.Origin)
		n.X1 = age.Forward(n.Destruction)
	}
	return nil
}

// Node returns the node with the given ID.
func (l *Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Lanes returns the lane of every node keyed by ID.
func (l *Layout) Lanes() map[string]int {
	out := make(map[string]int, len(l.Nodes))
	for _, n := range l.Nodes {
		out[n.ID] = n.Lane
	}
	return out
}

// LaneSpan returns the lowest and highest lane in use.
func (l *Layout) LaneSpan() (lo, hi int) {
	for i, n := range l.Nodes {
		if i == 0 || n.Lane < lo {
			lo = n.Lane
		}
		if i == 0 || n.Lane > hi {
			hi = n.Lane
		}
	}
	return lo, hi
}

// ExtantCount returns the number of lineages alive at the ceiling.
func (l *Layout) ExtantCount() int {
	c := 0
	for _, n := range l.Nodes {
		if n.Extant {
			c++
		}
	}
	return c
}

// Marshal serializes a Layout to indented JSON.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal decodes a Layout and checks that it has nodes and a usable
// scale.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if len(l.Nodes) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout has no nodes")
	}
	if _, err := l.Scale.Age(); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "layout scale")
	}
	return l, nil
}

// WriteFile writes a Layout as JSON.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a Layout written by [WriteFile].
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
