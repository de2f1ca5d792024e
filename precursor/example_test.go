package precursor_test

import (
	"fmt"

	"github.com/katalvlaran/precursor/precursor"
)

// ExampleReduce shows batch reduction to the minimal precursor sets.
func ExampleReduce() {
	candidates := []*precursor.Set{set("A", "B"), set("B"), set("C", "D"), set("B", "D")}
	for _, s := range precursor.Reduce(candidates, precursor.DefaultRule()) {
		fmt.Println(s)
	}
	// Output:
	// {B}
	// {C, D}
}

// ExampleCollection shows incremental maintenance of accepted solutions.
func ExampleCollection() {
	c := precursor.NewCollection(precursor.DefaultRule())
	fmt.Println(c.Add(set("A", "B")))
	fmt.Println(c.Add(set("A", "B", "C")))
	fmt.Println(c.Add(set("A")))
	fmt.Println(c.Sets())
	// Output:
	// true
	// false
	// true
	// [{A}]
}
