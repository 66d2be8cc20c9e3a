package stack_test

import (
	"fmt"

	"github.com/matzehuels/stackdeck/pkg/stack"
)

func ExampleStack_Step() {
	s, _ := stack.New([]string{"A", "B", "C", "D"}, stack.DefaultBaseline)

	s.Step(stack.Next)
	for _, it := range s.Items() {
		fmt.Printf("%s:%d\n", it.ID, it.Rank)
	}
	fmt.Println("top:", s.Top().ID)
	// Output:
	// A:1002
	// B:1001
	// C:1000
	// D:1003
	// top: D
}

func ExampleStack_Promote() {
	s, _ := stack.New([]string{"A", "B", "C"}, stack.DefaultBaseline)

	changed, _ := s.Promote("C")
	fmt.Println(changed, s.Top().ID)

	changed, _ = s.Promote("C")
	fmt.Println(changed, s.Top().ID)
	// Output:
	// true C
	// false C
}
