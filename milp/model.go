// SPDX-License-Identifier: MIT
// File: model.go
// Role: Model, the solver-independent description of a mixed-integer
//       linear program.
// Errors:
//   - Builder methods never return errors; the first invalid input is
//     recorded and reported by Err and by every solve on the model.

package milp

import (
	"fmt"
	"math"
	"slices"
)

type varDef struct {
	name   string
	kind   VarKind
	lb, ub float64
}

// Indicator is the implication (ind == Active) ⇒ C.
type Indicator struct {
	Name   string
	Ind    Var
	Active bool
	C      Constraint
}

// Disjunction is the constraint A ∨ B.
type Disjunction struct {
	Name string
	A, B Constraint
}

// Model is a mixed-integer linear program. Constraints are append-only.
type Model struct {
	vars     []varDef
	cons     []Constraint
	inds     []Indicator
	disj     []Disjunction
	obj      []Term
	maximize bool
	err      error
}

// NewModel returns an empty minimization model.
func NewModel() *Model { return &Model{} }

func (m *Model) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}

// Err returns the first construction error, if any.
func (m *Model) Err() error { return m.err }

// AddVar adds a variable and returns its handle. Binary variables are
// clamped to [0, 1]. The lower bound must be finite; ub may be +Inf.
func (m *Model) AddVar(name string, kind VarKind, lb, ub float64) Var {
	if kind == Binary {
		lb, ub = math.Max(lb, 0), math.Min(ub, 1)
	}
	if math.IsInf(lb, 0) || math.IsNaN(lb) || math.IsNaN(ub) || lb > ub {
		m.fail(fmt.Errorf("%w: %s [%g, %g]", ErrBadBounds, name, lb, ub))
	}
	m.vars = append(m.vars, varDef{name: name, kind: kind, lb: lb, ub: ub})

	return Var(len(m.vars) - 1)
}

// Continuous adds a continuous variable in [lb, ub].
func (m *Model) Continuous(name string, lb, ub float64) Var {
	return m.AddVar(name, Continuous, lb, ub)
}

// Binary adds a 0/1 variable.
func (m *Model) Binary(name string) Var { return m.AddVar(name, Binary, 0, 1) }

func (m *Model) checkTerms(where string, terms []Term) {
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
			m.fail(fmt.Errorf("%w: x%d in %s", ErrUnknownVar, t.Var, where))
		}
	}
}

// AddConstraint appends a linear constraint.
func (m *Model) AddConstraint(c Constraint) {
	m.checkTerms(c.Name, c.Terms)
	c.Terms = slices.Clone(c.Terms)
	m.cons = append(m.cons, c)
}

// AddIndicator appends (ind == active) ⇒ c. ind must be binary.
func (m *Model) AddIndicator(name string, ind Var, active bool, c Constraint) {
	m.checkTerms(name, append([]Term{{Var: ind}}, c.Terms...))
	if int(ind) >= 0 && int(ind) < len(m.vars) && m.vars[ind].kind != Binary {
		m.fail(fmt.Errorf("%w: %s", ErrNotBinary, m.vars[ind].name))
	}
	c.Terms = slices.Clone(c.Terms)
	m.inds = append(m.inds, Indicator{Name: name, Ind: ind, Active: active, C: c})
}

// AddDisjunction appends a ∨ b.
func (m *Model) AddDisjunction(name string, a, b Constraint) {
	m.checkTerms(name, a.Terms)
	m.checkTerms(name, b.Terms)
	a.Terms, b.Terms = slices.Clone(a.Terms), slices.Clone(b.Terms)
	m.disj = append(m.disj, Disjunction{Name: name, A: a, B: b})
}

// Minimize sets the objective to minimize Σ terms.
func (m *Model) Minimize(terms ...Term) {
	m.checkTerms("objective", terms)
	m.obj, m.maximize = slices.Clone(terms), false
}

// Maximize sets the objective to maximize Σ terms.
func (m *Model) Maximize(terms ...Term) {
	m.checkTerms("objective", terms)
	m.obj, m.maximize = slices.Clone(terms), true
}

// NumVars returns the number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of linear, indicator and disjunctive constraints.
func (m *Model) NumConstraints() int { return len(m.cons) + len(m.inds) + len(m.disj) }

// VarName returns the name of v.
func (m *Model) VarName(v Var) string { return m.vars[v].name }

// Kind returns the domain of v.
func (m *Model) Kind(v Var) VarKind { return m.vars[v].kind }

// Bounds returns the bounds of v.
func (m *Model) Bounds(v Var) (lb, ub float64) { return m.vars[v].lb, m.vars[v].ub }

// Objective evaluates the objective at values.
func (m *Model) Objective(values []float64) float64 {
	var sum float64
	for _, t := range m.obj {
		sum += t.Coef * values[t.Var]
	}

	return sum
}

// Clone returns an independent copy of m. Constraint term slices are
// shared; they are never mutated after insertion.
func (m *Model) Clone() *Model {
	return &Model{
		vars:     slices.Clone(m.vars),
		cons:     slices.Clone(m.cons),
		inds:     slices.Clone(m.inds),
		disj:     slices.Clone(m.disj),
		obj:      slices.Clone(m.obj),
		maximize: m.maximize,
		err:      m.err,
	}
}

// integralObjective reports whether every objective term is an integer
// multiple of a binary variable, so objective values are integers.
func (m *Model) integralObjective() bool {
	if len(m.obj) == 0 {
		return false
	}
	for _, t := range m.obj {
		if m.vars[t.Var].kind != Binary || t.Coef != math.Trunc(t.Coef) {
			return false
		}
	}

	return true
}
