package lineage_test

import (
	"fmt"

	"github.com/matzehuels/phylolane/pkg/lineage"
)

func ExampleBuild() {
	t, err := lineage.Build([]lineage.Record{
		{ID: "1", Origin: 0, Destruction: 10},
		{ID: "2", ParentID: "1", Origin: 2, Destruction: 8},
		{ID: "3", ParentID: "1", Origin: 3, Destruction: 10},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Root:", t.Root().ID)
	fmt.Println("Children:", len(t.Root().Children()))
	fmt.Println("Extant:", len(t.Extant(10)))
	// Output:
	// Root: 1
	// Children: 2
	// Extant: 2
}

func ExampleTree_MRCA() {
	t, _ := lineage.Build([]lineage.Record{
		{ID: "root", Origin: 0, Destruction: 100},
		{ID: "a", ParentID: "root", Origin: 10, Destruction: 100},
		{ID: "a1", ParentID: "a", Origin: 40, Destruction: 100},
		{ID: "a2", ParentID: "a", Origin: 55, Destruction: 100},
	})

	m, _ := t.MRCA("a1", "a2")
	fmt.Println(m.ID, m.Origin)
	// Output:
	// a 10
}
