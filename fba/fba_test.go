// SPDX-License-Identifier: MIT
package fba_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// countingSolver records how many models reach the real solver.
type countingSolver struct {
	milp.Solver
	calls atomic.Int64
}

func (c *countingSolver) Solve(ctx context.Context, m *milp.Model) (milp.Solution, error) {
	c.calls.Add(1)
	return c.Solver.Solve(ctx, m)
}

type rx struct {
	id         string
	subs, prod []string
	reversible bool
}

func build(t *testing.T, compounds []string, reactions []rx) *network.Network {
	t.Helper()
	n := network.New()
	for _, id := range compounds {
		require.NoError(t, n.AddCompound(network.Compound{ID: id, Name: id}, 0))
	}
	terms := func(ids []string) []network.Term {
		out := make([]network.Term, 0, len(ids))
		for _, id := range ids {
			out = append(out, network.Term{Compound: id, Coef: 1})
		}
		return out
	}
	for _, r := range reactions {
		require.NoError(t, n.AddReaction(network.Reaction{
			ID: r.id, Substrates: terms(r.subs), Products: terms(r.prod),
		}, r.reversible))
	}
	return n
}

// VerifierSuite checks productions on A → X, B + X → T.
type VerifierSuite struct {
	suite.Suite
	ctx    context.Context
	net    *network.Network
	solver *countingSolver
}

func (s *VerifierSuite) SetupTest() {
	s.ctx = context.Background()
	s.net = build(s.T(), []string{"A", "B", "X", "T"}, []rx{
		{id: "R1", subs: []string{"A"}, prod: []string{"X"}},
		{id: "R2", subs: []string{"B", "X"}, prod: []string{"T"}},
	})
	s.solver = &countingSolver{Solver: milp.NewSolver()}
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func (s *VerifierSuite) TestProduction() {
	v, err := fba.New(s.net, s.solver)
	s.Require().NoError(err)

	prod, err := v.MaxProduction(s.ctx, fba.Request{Target: "T", Sources: []string{"A", "B"}})
	s.Require().NoError(err)
	s.InDelta(1000, prod, 1e-6)

	ok, err := v.Feasible(s.ctx, fba.Request{Target: "T", Sources: []string{"A"}})
	s.Require().NoError(err)
	s.False(ok, "B is missing")

	ok, err = v.Feasible(s.ctx, fba.Request{Target: "T", Sources: []string{"B"}, Bootstraps: []string{"X"}})
	s.Require().NoError(err)
	s.True(ok, "a bootstrap stands in for the A branch")
}

func (s *VerifierSuite) TestCacheIgnoresOrder() {
	v, err := fba.New(s.net, s.solver)
	s.Require().NoError(err)
	_, err = v.MaxProduction(s.ctx, fba.Request{Target: "T", Sources: []string{"A", "B"}})
	s.Require().NoError(err)
	_, err = v.MaxProduction(s.ctx, fba.Request{Target: "T", Sources: []string{"B", "A", "B"}})
	s.Require().NoError(err)
	s.Equal(int64(1), s.solver.calls.Load())

	nocache, err := fba.New(s.net, s.solver, fba.WithCacheSize(0))
	s.Require().NoError(err)
	_, _ = nocache.MaxProduction(s.ctx, fba.Request{Target: "T", Sources: []string{"A", "B"}})
	_, _ = nocache.MaxProduction(s.ctx, fba.Request{Target: "T", Sources: []string{"A", "B"}})
	s.Equal(int64(3), s.solver.calls.Load())
}

func (s *VerifierSuite) TestStrictThreshold() {
	loose, err := fba.New(s.net, s.solver, fba.WithBigM(0.05))
	s.Require().NoError(err)
	strict, err := fba.New(s.net, s.solver, fba.WithBigM(0.05), fba.WithStrict(true))
	s.Require().NoError(err)

	req := fba.Request{Target: "T", Sources: []string{"A", "B"}}
	res, err := loose.Check(s.ctx, req)
	s.Require().NoError(err)
	s.True(res.Feasible)
	s.InDelta(0.05, res.Production, 1e-9)

	res, err = strict.Check(s.ctx, req)
	s.Require().NoError(err)
	s.False(res.Feasible, "0.05 is below epsilon1")
}

func (s *VerifierSuite) TestUnknownCompounds() {
	v, err := fba.New(s.net, s.solver)
	s.Require().NoError(err)
	_, err = v.MaxProduction(s.ctx, fba.Request{Target: "nope"})
	s.Require().ErrorIs(err, network.ErrCompoundNotFound)
	_, err = v.MaxProduction(s.ctx, fba.Request{Target: "T", Sources: []string{"Q"}})
	s.Require().ErrorIs(err, network.ErrCompoundNotFound)
}

func (s *VerifierSuite) TestCheckAllKeepsOrder() {
	v, err := fba.New(s.net, s.solver, fba.WithThreads(3))
	s.Require().NoError(err)
	reqs := []fba.Request{
		{Target: "T", Sources: []string{"A"}},
		{Target: "T", Sources: []string{"A", "B"}},
		{Target: "T", Sources: []string{"B"}},
		{Target: "X", Sources: []string{"A"}},
	}
	res, err := v.CheckAll(s.ctx, reqs)
	s.Require().NoError(err)
	s.Require().Len(res, 4)
	got := []bool{res[0].Feasible, res[1].Feasible, res[2].Feasible, res[3].Feasible}
	s.Equal([]bool{false, true, false, true}, got)
	s.Equal(reqs[1], res[1].Request)

	_, err = v.CheckAll(s.ctx, append(reqs, fba.Request{Target: "nope"}))
	s.Require().ErrorIs(err, network.ErrCompoundNotFound)
}

func (s *VerifierSuite) TestRequestForSet() {
	set := precursor.Of(network.Ref{ID: "A", Name: "A"}, network.Ref{ID: "B", Name: "B"})
	req := fba.RequestFor("T", set)
	s.Equal([]string{"A", "B"}, req.Sources)
	s.Empty(req.Bootstraps)
}

func TestSteadyStateBlocksUnbalancedByProduct(t *testing.T) {
	// A → X + W; X → T. W has no consumer.
	n := build(t, []string{"A", "X", "W", "T"}, []rx{
		{id: "R1", subs: []string{"A"}, prod: []string{"X", "W"}},
		{id: "R2", subs: []string{"X"}, prod: []string{"T"}},
	})
	req := fba.Request{Target: "T", Sources: []string{"A"}}

	free, err := fba.New(n, milp.NewSolver())
	require.NoError(t, err)
	ok, err := free.Feasible(context.Background(), req)
	require.NoError(t, err)
	require.True(t, ok)

	steady, err := fba.New(n, milp.NewSolver(), fba.WithSteadyState())
	require.NoError(t, err)
	ok, err = steady.Feasible(context.Background(), req)
	require.NoError(t, err)
	require.False(t, ok, "W cannot be drained at steady state")
}

func TestNetworkBootstrapsAreAlwaysAvailable(t *testing.T) {
	// A + Z → T with Z flagged bootstrap.
	n := build(t, []string{"A", "Z", "T"}, []rx{
		{id: "R1", subs: []string{"A", "Z"}, prod: []string{"T"}},
	})
	require.NoError(t, n.SetFlag("Z", network.FlagBootstrap, true))
	v, err := fba.New(n, milp.NewSolver())
	require.NoError(t, err)
	ok, err := v.Feasible(context.Background(), fba.Request{Target: "T", Sources: []string{"A"}})
	require.NoError(t, err)
	require.True(t, ok)
}
