package export_test

import (
	"fmt"

	"github.com/matzehuels/phylolane/pkg/export"
	"github.com/matzehuels/phylolane/pkg/layout"
)

func ExampleToDOT() {
	l := layout.Layout{
		Root: "a",
		Nodes: []layout.Node{
			{ID: "a", Lane: 0, X0: 1, X1: 50},
			{ID: "b", Parent: "a", Lane: 1, X0: 25, X1: 638, Extant: true},
		},
	}
	fmt.Print(export.ToDOT(l, export.Options{}))
	// Output:
	// digraph lineages {
	//   rankdir=LR;
	//   node [shape=point];
	//   edge [arrowhead=none];
	//
	//   "a" [pos="1,0!", lane=0, span="1,50"];
	//   "b" [pos="25,10!", lane=1, span="25,638", extant=true];
	//
	//   "a" -> "b";
	// }
}
