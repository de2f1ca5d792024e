package constraint_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// reaction is "A + B -> X" or "A <-> X"; coefficients are 1.
type reaction struct{ id, eq string }

// build creates a network from compact equations. precursors get the
// user precursor flag, target the target flag.
func build(t *testing.T, precursors []string, target string, reactions ...reaction) *network.Network {
	t.Helper()
	n := network.New()
	add := func(id string) {
		if !n.HasCompound(id) {
			require.NoError(t, n.AddCompound(network.Compound{ID: id, Name: id}, 0))
		}
	}
	side := func(s string) []network.Term {
		var out []network.Term
		for _, id := range strings.Split(s, "+") {
			id = strings.TrimSpace(id)
			coef := 1.0
			if strings.HasPrefix(id, "2") {
				coef, id = 2, id[1:]
			}
			add(id)
			out = append(out, network.Term{Compound: id, Coef: coef})
		}
		return out
	}
	for _, r := range reactions {
		sep, rev := "->", false
		if strings.Contains(r.eq, "<->") {
			sep, rev = "<->", true
		}
		parts := strings.SplitN(r.eq, sep, 2)
		require.Len(t, parts, 2)
		subs, prods := side(parts[0]), side(parts[1])
		require.NoError(t, n.AddReaction(network.Reaction{ID: r.id, Substrates: subs, Products: prods}, rev))
	}
	for _, p := range precursors {
		add(p)
		require.NoError(t, n.SetFlag(p, network.FlagUserPrecursor, true))
	}
	require.NoError(t, n.SetFlag(target, network.FlagTarget, true))
	return n
}

func ids(sets []*precursor.Set) [][]string {
	sorted := append([]*precursor.Set(nil), sets...)
	precursor.Sort(sorted)
	out := make([][]string, 0, len(sorted))
	for _, s := range sorted {
		out = append(out, s.IDs())
	}
	return out
}

// scriptedSolver delegates to a real solver unless a hook is set.
type scriptedSolver struct {
	real     milp.Solver
	mu       sync.Mutex
	solve    func(call int, m *milp.Model) (milp.Solution, error)
	populate func(call int, m *milp.Model) (milp.Pool, error)
	solves   int
	pools    int
}

func newScripted() *scriptedSolver { return &scriptedSolver{real: milp.NewSolver()} }

func (s *scriptedSolver) Solve(ctx context.Context, m *milp.Model) (milp.Solution, error) {
	s.mu.Lock()
	s.solves++
	call, hook := s.solves, s.solve
	s.mu.Unlock()
	if hook != nil {
		return hook(call, m)
	}
	return s.real.Solve(ctx, m)
}

func (s *scriptedSolver) Populate(ctx context.Context, m *milp.Model, p milp.PoolParams) (milp.Pool, error) {
	s.mu.Lock()
	s.pools++
	call, hook := s.pools, s.populate
	s.mu.Unlock()
	if hook != nil {
		return hook(call, m)
	}
	return s.real.Populate(ctx, m, p)
}

// assignment returns an optimal solution with the named indicators on.
func assignment(m *milp.Model, on ...string) milp.Solution {
	values := make([]float64, m.NumVars())
	for v := 0; v < m.NumVars(); v++ {
		for _, id := range on {
			if m.VarName(milp.Var(v)) == id+"_IND" {
				values[v] = 1
			}
		}
	}
	return milp.Solution{Status: milp.StatusOptimal, Objective: float64(len(on)), Values: values}
}

// fixedVerifier answers every request with ok.
type fixedVerifier struct{ ok bool }

func (f fixedVerifier) Feasible(context.Context, fba.Request) (bool, error) { return f.ok, nil }
