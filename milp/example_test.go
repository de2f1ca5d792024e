package milp_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/precursor/milp"
)

// ExampleBranchAndBound_Solve picks the cheaper of two covering binaries.
func ExampleBranchAndBound_Solve() {
	m := milp.NewModel()
	x := m.Binary("x")
	y := m.Binary("y")
	m.AddConstraint(milp.Constraint{
		Name:  "cover",
		Terms: []milp.Term{{Var: x, Coef: 1}, {Var: y, Coef: 1}},
		Sense: milp.GreaterEq,
		RHS:   1,
	})
	m.Minimize(milp.Term{Var: x, Coef: 2}, milp.Term{Var: y, Coef: 1})

	sol, err := milp.NewSolver().Solve(context.Background(), m)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(sol.Status, sol.Value(x), sol.Value(y))
	// Output:
	// optimal 0 1
}
