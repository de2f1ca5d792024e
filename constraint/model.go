// SPDX-License-Identifier: MIT
// File: model.go
// Role: Build, the single builder of the enumeration program for every
//       model variant, plus the constraints appended between solves.
// Variables:
//   - v_r ∈ [0, bigM] per live reaction.
//   - p_s ∈ [0, bigM] and ind_s ∈ {0,1} per candidate source s.
//   - b_c ∈ [0, bigM] per bootstrap c that is not a source (constrained
//     variants only).
// Rows (net_c = Σ_r S[c,r]·v_r plus the uptake of c):
//   - target: net >= ε₁.
//   - Normal: net >= 0, bootstraps free.
//   - SteadyState: sources and boundary compounds >= 0, the rest == 0.
//   - DuplicatingMachinery: net >= 0, reactions never produce sources,
//     and each intermediate satisfies net >= ε₂ ∨ Σ consumers v == 0.
//   - ind_s = 0 ⇒ p_s <= 0, ind_s = 1 ⇒ p_s >= δ.
// Objective: minimize Σ ind.

package constraint

import (
	"fmt"

	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// detailTol separates used fluxes from solver noise.
const detailTol = 1e-6

// Model is the live enumeration program of one target. Constraints are
// only ever appended.
type Model struct {
	cfg    Config
	st     *network.Stoichiometry
	target int
	prog   *milp.Model

	flux []milp.Var

	sources  []network.Ref
	srcIndex map[string]int
	ind      []milp.Var
	producer []milp.Var

	bootRows []int
	bootVar  []milp.Var // -1 when the bootstrap row is free

	exclusions int
	sizeBound  int
}

// Build snapshots net and constructs the program for target.
// Errors: network.ErrCompoundNotFound, ErrInvalidConfig.
func Build(net *network.Network, target string, cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st := net.Stoichiometry()
	t := st.Row(target)
	if t < 0 {
		return nil, fmt.Errorf("constraint: target %q: %w", target, network.ErrCompoundNotFound)
	}

	m := &Model{
		cfg:      cfg,
		st:       st,
		target:   t,
		prog:     milp.NewModel(),
		srcIndex: make(map[string]int),
	}
	m.addVariables()
	m.addBalances()
	if cfg.Variant.Kind == DuplicatingMachinery {
		m.addDuplicatingMachinery()
	}
	m.addIndicators()

	obj := make([]milp.Term, len(m.ind))
	for i, v := range m.ind {
		obj[i] = milp.Term{Var: v, Coef: 1}
	}
	m.prog.Minimize(obj...)

	if err := m.prog.Err(); err != nil {
		return nil, fmt.Errorf("constraint: build: %w", err)
	}

	return m, nil
}

func (m *Model) isSource(row int) bool {
	_, ok := m.srcIndex[m.st.Refs[row].ID]
	return ok
}

func (m *Model) addVariables() {
	st, bigM := m.st, m.cfg.BigM
	m.flux = make([]milp.Var, st.NumCols())
	for j, id := range st.Reactions {
		m.flux[j] = m.prog.Continuous(id, 0, bigM)
	}
	for row, ref := range st.Refs {
		if !st.Precursor[row] || row == m.target {
			continue
		}
		m.srcIndex[ref.ID] = len(m.sources)
		m.sources = append(m.sources, ref)
		m.producer = append(m.producer, m.prog.Continuous(ref.ID+"_producer", 0, bigM))
		m.ind = append(m.ind, m.prog.Binary(ref.ID+"_IND"))
	}
	for row, f := range st.Flags {
		if !f.Has(network.FlagBootstrap) || m.isSource(row) || row == m.target {
			continue
		}
		m.bootRows = append(m.bootRows, row)
		if m.cfg.Variant.Kind == Normal {
			m.bootVar = append(m.bootVar, -1)
			continue
		}
		m.bootVar = append(m.bootVar, m.prog.Continuous(st.Refs[row].ID+"_bootstrap_producer", 0, bigM))
	}
}

// netTerms returns the flux terms of row plus its uptake variable.
func (m *Model) netTerms(row int) []milp.Term {
	entries := m.st.Rows[row]
	terms := make([]milp.Term, 0, len(entries)+1)
	source := m.isSource(row)
	for _, e := range entries {
		if source && e.Coef > 0 && m.cfg.Variant.Kind == DuplicatingMachinery {
			continue
		}
		terms = append(terms, milp.Term{Var: m.flux[e.Col], Coef: e.Coef})
	}
	if i, ok := m.srcIndex[m.st.Refs[row].ID]; ok {
		terms = append(terms, milp.Term{Var: m.producer[i], Coef: 1})
	}
	for k, b := range m.bootRows {
		if b == row && m.bootVar[k] >= 0 {
			terms = append(terms, milp.Term{Var: m.bootVar[k], Coef: 1})
		}
	}

	return terms
}

func (m *Model) bootstrapIndex(row int) int {
	for k, b := range m.bootRows {
		if b == row {
			return k
		}
	}

	return -1
}

func (m *Model) addBalances() {
	st, kind := m.st, m.cfg.Variant.Kind
	for row := 0; row < st.NumRows(); row++ {
		terms := m.netTerms(row)
		c := milp.Constraint{Name: st.Refs[row].ID, Terms: terms, Sense: milp.GreaterEq}
		switch {
		case row == m.target:
			c.RHS = m.cfg.Epsilon1
		case kind == Normal && m.bootstrapIndex(row) >= 0:
			continue
		case kind == SteadyState && !m.isSource(row) && !st.Flags[row].Has(network.FlagBoundary):
			c.Sense = milp.Equal
		}
		if len(terms) == 0 && c.RHS == 0 {
			continue
		}
		m.prog.AddConstraint(c)
	}
}

func (m *Model) addDuplicatingMachinery() {
	st := m.st
	eps2 := m.cfg.Variant.Epsilon2
	for row := 0; row < st.NumRows(); row++ {
		if row == m.target || st.Precursor[row] || m.bootstrapIndex(row) >= 0 {
			continue
		}
		consumers := st.Consumers[row]
		if len(consumers) == 0 {
			continue
		}
		id := st.Refs[row].ID
		drain := make([]milp.Term, len(consumers))
		for i, col := range consumers {
			drain[i] = milp.Term{Var: m.flux[col], Coef: 1}
		}
		m.prog.AddDisjunction("MD_"+id,
			milp.Constraint{Name: "MD1_" + id, Terms: m.netTerms(row), Sense: milp.GreaterEq, RHS: eps2},
			milp.Constraint{Name: "MD2_" + id, Terms: drain, Sense: milp.Equal})
	}
}

func (m *Model) addIndicators() {
	for i, ref := range m.sources {
		p := []milp.Term{{Var: m.producer[i], Coef: 1}}
		m.prog.AddIndicator(ref.ID+"_off", m.ind[i], false,
			milp.Constraint{Terms: p, Sense: milp.LessEq})
		m.prog.AddIndicator(ref.ID+"_on", m.ind[i], true,
			milp.Constraint{Terms: p, Sense: milp.GreaterEq, RHS: m.cfg.IndicatorEpsilon})
	}
}

// Exclude appends Σ ind[s] <= |s| - 1 over the precursors of s, which
// forbids s and every superset of it.
func (m *Model) Exclude(s *precursor.Set) error {
	prec := s.Precursors()
	terms := make([]milp.Term, 0, len(prec))
	for _, r := range prec {
		i, ok := m.srcIndex[r.ID]
		if !ok {
			return fmt.Errorf("constraint: exclusion of %s: %q: %w", s, r.ID, network.ErrCompoundNotFound)
		}
		terms = append(terms, milp.Term{Var: m.ind[i], Coef: 1})
	}
	m.exclusions++
	m.prog.AddConstraint(milp.Constraint{
		Name:  fmt.Sprintf("exclusion_%d", m.exclusions),
		Terms: terms,
		Sense: milp.LessEq,
		RHS:   float64(len(prec) - 1),
	})

	return nil
}

// Bound appends Σ ind >= k once k exceeds every earlier bound.
func (m *Model) Bound(k int) {
	if k <= m.sizeBound {
		return
	}
	m.sizeBound = k
	terms := make([]milp.Term, len(m.ind))
	for i, v := range m.ind {
		terms[i] = milp.Term{Var: v, Coef: 1}
	}
	m.prog.AddConstraint(milp.Constraint{
		Name:  fmt.Sprintf("size_at_least_%d", k),
		Terms: terms,
		Sense: milp.GreaterEq,
		RHS:   float64(k),
	})
}

// SizeBound returns the current minimum-size bound.
func (m *Model) SizeBound() int { return m.sizeBound }

// Sources returns the candidate sources in indicator order.
func (m *Model) Sources() []network.Ref { return append([]network.Ref(nil), m.sources...) }

// Program exposes the underlying program; callers must not modify it.
func (m *Model) Program() *milp.Model { return m.prog }

// Target returns the target compound.
func (m *Model) Target() network.Ref { return m.st.Refs[m.target] }

// extract decodes an assignment into a PrecursorSet.
func (m *Model) extract(sol milp.Solution) *precursor.Set {
	s := precursor.New()
	for i, v := range m.ind {
		if sol.Value(v) > 0.5 {
			s.AddPrecursor(m.sources[i])
		}
	}

	flux := make([]float64, len(m.flux))
	for j, v := range m.flux {
		flux[j] = sol.Value(v)
	}
	for k, row := range m.bootRows {
		used := m.st.Net(row, flux) < -detailTol
		if v := m.bootVar[k]; v >= 0 {
			used = sol.Value(v) > detailTol
		}
		if used {
			s.AddBootstrap(m.st.Refs[row])
		}
	}
	if m.cfg.CollectReactions {
		for j, f := range flux {
			if f > detailTol {
				s.AddReaction(m.st.Reactions[j])
			}
		}
	}
	if m.cfg.CollectCumulated {
		for row := range m.st.Refs {
			if row != m.target && m.st.Net(row, flux) > detailTol {
				s.AddCumulated(m.st.Refs[row])
			}
		}
	}

	return s
}
