// SPDX-License-Identifier: MIT

package milp

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for model construction and solving.
var (
	// ErrUnknownVar indicates a term referencing a variable not in the model.
	ErrUnknownVar = errors.New("milp: unknown variable")

	// ErrBadBounds indicates a non-finite lower bound or lb > ub.
	ErrBadBounds = errors.New("milp: invalid variable bounds")

	// ErrNotBinary indicates an indicator constraint on a non-binary variable.
	ErrNotBinary = errors.New("milp: indicator variable must be binary")

	// ErrNumerical indicates the LP engine failed for numerical reasons.
	ErrNumerical = errors.New("milp: numerical failure in LP relaxation")
)

// VarKind is the domain of a decision variable.
type VarKind uint8

const (
	// Continuous variables take any value within their bounds.
	Continuous VarKind = iota
	// Binary variables take 0 or 1.
	Binary
)

// Var is a handle to a model variable (its index).
type Var int

// Term is coefficient × variable.
type Term struct {
	Var  Var
	Coef float64
}

// Sense is the relation of a linear constraint.
type Sense uint8

const (
	// LessEq is Σ terms ≤ rhs.
	LessEq Sense = iota
	// GreaterEq is Σ terms ≥ rhs.
	GreaterEq
	// Equal is Σ terms = rhs.
	Equal
)

// String returns "<=", ">=" or "==".
func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "=="
	}
}

// Constraint is a named linear constraint.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Activity evaluates Σ coef·x over values.
func (c Constraint) Activity(values []float64) float64 {
	var sum float64
	for _, t := range c.Terms {
		sum += t.Coef * values[t.Var]
	}

	return sum
}

// Satisfied reports whether values meet c within tol (scaled by 1+|RHS|).
func (c Constraint) Satisfied(values []float64, tol float64) bool {
	act := c.Activity(values)
	eps := tol * (1 + abs(c.RHS))
	switch c.Sense {
	case LessEq:
		return act <= c.RHS+eps
	case GreaterEq:
		return act >= c.RHS-eps
	default:
		return abs(act-c.RHS) <= eps
	}
}

// String renders "name: 1*x3 + -2*x5 >= 0.1".
func (c Constraint) String() string {
	s := c.Name + ":"
	for i, t := range c.Terms {
		if i > 0 {
			s += " +"
		}
		s += fmt.Sprintf(" %g*x%d", t.Coef, t.Var)
	}

	return fmt.Sprintf("%s %s %g", s, c.Sense, c.RHS)
}

// Status is the outcome of a solve.
type Status uint8

const (
	// StatusUnknown is the zero value.
	StatusUnknown Status = iota
	// StatusOptimal means the returned assignment is proven optimal.
	StatusOptimal
	// StatusInfeasible means no assignment satisfies the model.
	StatusInfeasible
	// StatusUnbounded means the objective is unbounded.
	StatusUnbounded
	// StatusTimeLimit means the deadline expired before optimality was proven.
	StatusTimeLimit
	// StatusNodeLimit means the node budget ran out before optimality was proven.
	StatusNodeLimit
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "time-limit"
	case StatusNodeLimit:
		return "node-limit"
	default:
		return "unknown"
	}
}

// Solution is one assignment returned by a solver.
type Solution struct {
	Status    Status
	Objective float64
	// Values holds one entry per model variable; binaries are rounded.
	// Nil unless an assignment was found.
	Values []float64
}

// Feasible reports whether the solution carries an assignment.
func (s Solution) Feasible() bool { return s.Values != nil }

// Value returns the value of v, or 0 when no assignment exists.
func (s Solution) Value(v Var) float64 {
	if int(v) < 0 || int(v) >= len(s.Values) {
		return 0
	}

	return s.Values[v]
}

// Pool is the outcome of a Populate call.
type Pool struct {
	// Status is StatusOptimal only if enumeration finished within limits.
	Status    Status
	Solutions []Solution
}

// PoolParams bounds a Populate call.
type PoolParams struct {
	// Capacity is the maximum number of pool members.
	Capacity int
	// AbsGap admits members with objective within AbsGap of the best.
	AbsGap float64
	// RelGap admits members within RelGap·|best| of the best.
	RelGap float64
	// TimeLimit bounds the wall-clock time of the whole call (0 = none).
	TimeLimit time.Duration
}

// DefaultPoolParams returns capacity 100, absolute gap 0.5, one hour.
func DefaultPoolParams() PoolParams {
	return PoolParams{Capacity: 100, AbsGap: 0.5, TimeLimit: time.Hour}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
