package lane

import (
	"maps"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/lineage"
)

// DefaultRadius is the largest absolute lane number tried by default.
const DefaultRadius = 10

// Scope maps an occupied lane to the destruction time of its occupant.
// A Scope is owned by one path of the traversal and copied at every child.
type Scope map[int]float64

// Evict removes every lane whose occupant ended at or before t.
func (s Scope) Evict(t float64) {
	for lane, until := range s {
		if until <= t {
			delete(s, lane)
		}
	}
}

// Clone returns an independent copy of the scope.
func (s Scope) Clone() Scope {
	if s == nil {
		return Scope{}
	}
	return maps.Clone(s)
}

// Preference returns the lane scan order 0, 1, -1, 2, -2, ... up to ±radius.
func Preference(radius int) []int {
	if radius < 0 {
		radius = 0
	}
	order := make([]int, 0, 2*radius+1)
	order = append(order, 0)
	for i := 1; i <= radius; i++ {
		order = append(order, i, -i)
	}
	return order
}

// Option configures an [Allocator].
type Option func(*Allocator)

// WithRadius widens or narrows the preference list to ±radius.
// Values below zero are treated as zero.
func WithRadius(radius int) Option {
	return func(a *Allocator) {
		a.order = Preference(radius)
	}
}

// Allocator assigns lanes with a fixed preference order.
// An Allocator holds no per-tree state and may be reused.
type Allocator struct {
	order []int
}

// New creates an allocator. Without options it scans ±[DefaultRadius].
func New(opts ...Option) *Allocator {
	a := &Allocator{order: Preference(DefaultRadius)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Capacity returns the number of lanes the allocator can hand out in one
// scope.
func (a *Allocator) Capacity() int { return len(a.order) }

// Allocate assigns a lane to every node of t with the default allocator.
func Allocate(t *lineage.Tree) error {
	return New().Allocate(t)
}

// Allocate assigns a lane to every node of t.
//
// On failure it returns a *errors.LaneExhaustionError and leaves the lanes
// of t as they were before the call.
func (a *Allocator) Allocate(t *lineage.Tree) error {
	lanes := make([]int, t.Len())

	type frame struct {
		node  *lineage.Node
		scope Scope
		lane  int
		fixed bool // lane was chosen by the branch point above
	}
	stack := []frame{{node: t.Root(), scope: Scope{}}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, scope := f.node, f.scope

		lane := f.lane
		if !f.fixed {
			scope.Evict(n.Origin)
			var ok bool
			if lane, ok = a.pick(scope); !ok {
				return &errors.LaneExhaustionError{NodeID: n.ID, Origin: n.Origin, Occupied: len(scope)}
			}
		}
		lanes[n.Index()] = lane
		scope[lane] = n.Destruction

		kids := n.Children()
		if len(kids) == 1 {
			stack = append(stack, frame{node: kids[0], scope: scope.Clone()})
			continue
		}

		// Branch point: the inherited scope ends here. Siblings take lanes
		// side by side in discovery order, then each subtree continues from
		// a scope holding only its own first lineage.
		picked, err := a.spread(kids)
		if err != nil {
			return err
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: kids[i], scope: Scope{}, lane: picked[i], fixed: true})
		}
	}

	for _, n := range t.Nodes() {
		n.SetLane(lanes[n.Index()])
	}
	return nil
}

// occupant is a sibling holding a lane over [origin, destruction).
type occupant struct {
	origin, destruction float64
}

// overlaps reports whether the occupant is alive at some point of
// [origin, destruction).
func (o occupant) overlaps(origin, destruction float64) bool {
	return o.destruction > origin && o.origin < destruction
}

// spread assigns lanes to the children of one branch point. A child may
// reuse a sibling's lane only when their lifetimes do not overlap; siblings
// are not ordered in time, so occupancy is tested per interval rather than
// evicted.
func (a *Allocator) spread(kids []*lineage.Node) ([]int, error) {
	picked := make([]int, len(kids))
	held := make(map[int][]occupant)

	for i, n := range kids {
		occupied := Scope{}
		for lane, occs := range held {
			for _, o := range occs {
				if o.overlaps(n.Origin, n.Destruction) {
					occupied[lane] = o.destruction
					break
				}
			}
		}
		lane, ok := a.pick(occupied)
		if !ok {
			return nil, &errors.LaneExhaustionError{NodeID: n.ID, Origin: n.Origin, Occupied: len(occupied)}
		}
		picked[i] = lane
		held[lane] = append(held[lane], occupant{origin: n.Origin, destruction: n.Destruction})
	}
	return picked, nil
}

// pick returns the first free lane in preference order.
func (a *Allocator) pick(scope Scope) (int, bool) {
	for _, lane := range a.order {
		if _, taken := scope[lane]; !taken {
			return lane, true
		}
	}
	return 0, false
}
