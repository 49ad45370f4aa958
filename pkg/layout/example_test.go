package layout_test

import (
	"fmt"

	"github.com/matzehuels/phylolane/pkg/lane"
	"github.com/matzehuels/phylolane/pkg/layout"
	"github.com/matzehuels/phylolane/pkg/lineage"
	"github.com/matzehuels/phylolane/pkg/scale"
)

func ExampleLayout_Rescale() {
	tree, _ := lineage.Build([]lineage.Record{
		{ID: "a", Origin: 0, Destruction: 100},
		{ID: "b", ParentID: "a", Origin: 25, Destruction: 100},
	})
	_ = lane.Allocate(tree)
	age, _ := scale.NewAge(100, 0, 100, 1)
	l, _ := layout.Project(tree, age)

	b, _ := l.Node("b")
	fmt.Printf("lane %d at x=%.0f\n", b.Lane, b.X0)

	_ = l.Rescale(2)
	b, _ = l.Node("b")
	fmt.Printf("lane %d at x=%.0f\n", b.Lane, b.X0)
	// Output:
	// lane 1 at x=25
	// lane 1 at x=6
}
