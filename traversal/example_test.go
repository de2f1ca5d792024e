package traversal_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/netgen"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/traversal"
)

// ExampleEnumerate lists the unverified candidates of T, each with the
// reactions of its route.
func ExampleEnumerate() {
	net := netgen.MustBuild(nil,
		netgen.Equations("R1: A + B -> T", "R2: C -> X", "R3: X -> T"),
		netgen.Mark(network.FlagUserPrecursor, "A", "B", "C"),
		netgen.MarkTarget())

	sets, err := traversal.Enumerate(context.Background(), net, "T")
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range sets {
		fmt.Println(s.IDs(), s.Reactions())
	}
	// Output:
	// [A B] [R1]
	// [C] [R2 R3]
}

// ExampleStrategy_Search runs the verified search with flux balance
// analysis on the same network.
func ExampleStrategy_Search() {
	net := netgen.MustBuild(nil,
		netgen.Equations("R1: A + B -> T", "R2: C -> X", "R3: X -> T"),
		netgen.Mark(network.FlagUserPrecursor, "A", "B", "C"),
		netgen.MarkTarget())

	s := &traversal.Strategy{Solver: milp.NewSolver()}
	sets, err := s.Search(context.Background(), net, "T")
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, set := range sets {
		fmt.Println(set)
	}
	// Output:
	// {C}
	// {A, B}
}
