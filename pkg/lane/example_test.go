package lane_test

import (
	"fmt"

	"github.com/matzehuels/phylolane/pkg/lane"
	"github.com/matzehuels/phylolane/pkg/lineage"
)

func ExampleAllocate() {
	tree, err := lineage.Build([]lineage.Record{
		{ID: "root", Origin: 0, Destruction: 10},
		{ID: "left", ParentID: "root", Origin: 2, Destruction: 8},
		{ID: "right", ParentID: "root", Origin: 3, Destruction: 10},
	})
	if err != nil {
		panic(err)
	}
	if err := lane.Allocate(tree); err != nil {
		panic(err)
	}
	for _, n := range tree.PreOrder() {
		l, _ := n.Lane()
		fmt.Printf("%s: %d\n", n.ID, l)
	}
	// Output:
	// root: 0
	// left: 0
	// right: 1
}

func ExamplePreference() {
	fmt.Println(lane.Preference(2))
	// Output: [0 1 -1 2 -2]
}
