package order_test

import (
	"fmt"

	"github.com/matzehuels/stackdeck/pkg/render/order"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

func ExampleToDOT() {
	items := []stack.Item{
		{ID: "b", Rank: 1000},
		{ID: "a", Rank: 1001},
	}
	fmt.Print(order.ToDOT(items, order.Options{}))
	// Output:
	// digraph deck {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=24, margin="0.2,0.1"];
	//   edge [arrowsize=0.7, color=grey40];
	//   ranksep=0.3;
	//
	//   "a" [label="a", fillcolor="#c6f6ff", penwidth=2];
	//   "b" [label="b"];
	//
	//   "a" -> "b";
	// }
}
