// SPDX-License-Identifier: MIT
// File: stoichiometry.go
// Role: sparse compound-by-reaction incidence snapshot consumed by the
//       optimization model builders.
// Signs:
//   - Substrates contribute −coef, products +coef; a compound on both sides
//     of one reaction appears once with the net value (possibly 0, dropped).
// Determinism:
//   - Rows follow ascending live compound index, columns ascending live
//     reaction index; entries within a row are ordered by column.
// Complexity:
//   - Stoichiometry: O(V + Σ|terms|) time and space.

package network

import "sort"

// Entry is one non-zero stoichiometric coefficient of a row.
type Entry struct {
	Col  int
	Coef float64
}

// Stoichiometry is an immutable incidence snapshot of the live network.
// Later mutations of the Network are not reflected.
type Stoichiometry struct {
	// RowIndex maps compound ID → row.
	RowIndex map[string]int
	// Refs, Flags and Precursor describe each row.
	Refs      []Ref
	Flags     []Flag
	Precursor []bool
	// Reactions holds the reaction ID of each column.
	Reactions []string
	// Rows holds the non-zero net coefficients of each row.
	Rows [][]Entry
	// Consumers lists, per row, the columns that take the compound as substrate.
	Consumers [][]int
}

// Stoichiometry builds the incidence snapshot.
// Stage 1: index live compounds as rows and live reactions as columns.
// Stage 2: accumulate net coefficients per (row, column).
// Stage 3: sort entries by column and drop cancelled terms.
func (n *Network) Stoichiometry() *Stoichiometry {
	n.mu.RLock()
	defer n.mu.RUnlock()
	t := n.topo

	s := &Stoichiometry{RowIndex: make(map[string]int)}
	rowOf := make([]int, len(t.compounds))
	for i, c := range t.compounds {
		rowOf[i] = -1
		if t.removedC[i] {
			continue
		}
		rowOf[i] = len(s.Refs)
		s.RowIndex[c.ID] = len(s.Refs)
		s.Refs = append(s.Refs, c.Ref())
		s.Flags = append(s.Flags, n.flags[i])
		s.Precursor = append(s.Precursor, n.isPrecursor(n.flags[i]))
	}

	acc := make([]map[int]float64, len(s.Refs))
	s.Consumers = make([][]int, len(s.Refs))
	for ri, rx := range t.reactions {
		if t.removedR[ri] {
			continue
		}
		col := len(s.Reactions)
		s.Reactions = append(s.Reactions, rx.payload.ID)
		for _, p := range rx.prods {
			row := rowOf[p.Compound]
			if acc[row] == nil {
				acc[row] = make(map[int]float64)
			}
			acc[row][col] += p.Coef
		}
		for _, sub := range rx.subs {
			row := rowOf[sub.Compound]
			if acc[row] == nil {
				acc[row] = make(map[int]float64)
			}
			acc[row][col] -= sub.Coef
			s.Consumers[row] = append(s.Consumers[row], col)
		}
	}

	s.Rows = make([][]Entry, len(s.Refs))
	for row, m := range acc {
		entries := make([]Entry, 0, len(m))
		for col, coef := range m {
			if coef != 0 {
				entries = append(entries, Entry{Col: col, Coef: coef})
			}
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Col < entries[j].Col })
		s.Rows[row] = entries
	}

	return s
}

// NumRows returns the number of live compounds in the snapshot.
func (s *Stoichiometry) NumRows() int { return len(s.Refs) }

// NumCols returns the number of live reactions in the snapshot.
func (s *Stoichiometry) NumCols() int { return len(s.Reactions) }

// Row returns the row of compound id, or -1.
func (s *Stoichiometry) Row(id string) int {
	if row, ok := s.RowIndex[id]; ok {
		return row
	}

	return -1
}

// Net evaluates the net production of row under the column values flux.
func (s *Stoichiometry) Net(row int, flux []float64) float64 {
	var sum float64
	for _, e := range s.Rows[row] {
		sum += e.Coef * flux[e.Col]
	}

	return sum
}
