// SPDX-License-Identifier: MIT
package constraint_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/precursor/constraint"
	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

func singleMode() constraint.Config {
	cfg := constraint.DefaultConfig()
	cfg.Population = false
	return cfg
}

// ScenarioSuite runs the reference scenarios in both protocol modes.
type ScenarioSuite struct {
	suite.Suite
	ctx context.Context
	cfg constraint.Config
}

func (s *ScenarioSuite) SetupTest() { s.ctx = context.Background() }

func (s *ScenarioSuite) search(net *network.Network) []*precursor.Set {
	e, err := constraint.NewEnumerator(net, "T", milp.NewSolver(), s.cfg)
	s.Require().NoError(err)
	sets, err := e.All(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(constraint.Exhausted, e.State())
	s.Require().Empty(precursor.AntichainViolations(sets))
	return sets
}

func (s *ScenarioSuite) TestJointPrecursors() {
	net := build(s.T(), []string{"A", "B"}, "T",
		reaction{"R1", "A -> X"},
		reaction{"R2", "B + X -> T"})
	s.Equal([][]string{{"A", "B"}}, ids(s.search(net)))
}

func (s *ScenarioSuite) TestReversibleForwardDirection() {
	net := build(s.T(), []string{"A"}, "T",
		reaction{"R1", "A <-> X"},
		reaction{"R2", "X -> T"})
	s.Equal([][]string{{"A"}}, ids(s.search(net)))
}

func (s *ScenarioSuite) TestIndependentRoutes() {
	net := build(s.T(), []string{"A", "B"}, "T",
		reaction{"R1", "A -> T"},
		reaction{"R2", "B -> T"})
	s.Equal([][]string{{"A"}, {"B"}}, ids(s.search(net)))
}

func (s *ScenarioSuite) TestMixedSizes() {
	// {C} alone, or A and B together.
	net := build(s.T(), []string{"A", "B", "C"}, "T",
		reaction{"R1", "A + B -> T"},
		reaction{"R2", "C -> X"},
		reaction{"R3", "X -> T"})
	s.Equal([][]string{{"C"}, {"A", "B"}}, ids(s.search(net)))
}

func (s *ScenarioSuite) TestUnreachableTarget() {
	net := build(s.T(), []string{"A"}, "T",
		reaction{"R1", "A -> X"},
		reaction{"R2", "Y -> T"})
	s.Empty(s.search(net))
}

func TestScenariosSingleMode(t *testing.T) {
	suite.Run(t, &ScenarioSuite{cfg: singleMode()})
}

func TestScenariosPopulationMode(t *testing.T) {
	suite.Run(t, &ScenarioSuite{cfg: constraint.DefaultConfig()})
}

func TestStateMachine(t *testing.T) {
	net := build(t, []string{"A", "B"}, "T",
		reaction{"R1", "A -> T"},
		reaction{"R2", "B -> T"})
	e, err := constraint.NewEnumerator(net, "T", milp.NewSolver(), singleMode())
	require.NoError(t, err)
	require.Equal(t, constraint.Unbuilt, e.State())
	require.Nil(t, e.Model())

	ctx := context.Background()
	batch, err := e.Next(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, constraint.SolutionFound, e.State())
	require.True(t, batch[0].Frozen())
	require.Equal(t, 1, e.Model().SizeBound())

	_, err = e.Next(ctx)
	require.NoError(t, err)
	batch, err = e.Next(ctx)
	require.NoError(t, err)
	require.Empty(t, batch)
	require.Equal(t, constraint.Exhausted, e.State())
	require.True(t, e.State().Terminal())

	_, err = e.Next(ctx)
	require.ErrorIs(t, err, constraint.ErrNotSolving)
	require.Len(t, e.Solutions(), 2)
	require.Equal(t, "solution-found", constraint.SolutionFound.String())
}

func TestComplete(t *testing.T) {
	net := build(t, []string{"A", "B"}, "T",
		reaction{"R1", "A -> T"},
		reaction{"R2", "B -> T"})
	ctx := context.Background()
	solver := milp.NewSolver()
	a := precursor.Of(network.Ref{ID: "A", Name: "A"})
	b := precursor.Of(network.Ref{ID: "B", Name: "B"})

	done, err := constraint.Complete(ctx, net, "T", solver, singleMode(), []*precursor.Set{a})
	require.NoError(t, err)
	require.False(t, done)

	done, err = constraint.Complete(ctx, net, "T", solver, singleMode(), []*precursor.Set{a, b})
	require.NoError(t, err)
	require.True(t, done)

	q := precursor.Of(network.Ref{ID: "Q", Name: "Q"})
	_, err = constraint.Complete(ctx, net, "T", solver, singleMode(), []*precursor.Set{q})
	require.ErrorIs(t, err, network.ErrCompoundNotFound)
}

func TestVariants(t *testing.T) {
	// R1: A + X → Y, R2: Y → X + T, R3: B → X.
	// X can circulate from nothing in the normal variant; duplicating
	// machinery requires B to actually supply it.
	net := build(t, []string{"A", "B"}, "T",
		reaction{"R1", "A + X -> Y"},
		reaction{"R2", "Y -> X + T"},
		reaction{"R3", "B -> X"})
	ctx := context.Background()

	run := func(kind constraint.Kind) [][]string {
		cfg := singleMode()
		cfg.Variant.Kind = kind
		sets, err := (&constraint.Strategy{Solver: milp.NewSolver(), Config: cfg}).Search(ctx, net, "T")
		require.NoError(t, err, kind.String())
		return ids(sets)
	}
	assert.Equal(t, [][]string{{"A"}}, run(constraint.Normal))
	assert.Equal(t, [][]string{{"A", "B"}}, run(constraint.DuplicatingMachinery))
	assert.Equal(t, [][]string{{"A"}}, run(constraint.SteadyState))
}

func TestSteadyStateBoundary(t *testing.T) {
	// A → X + W, X → T: W piles up, which steady state forbids unless W
	// is a boundary compound.
	net := build(t, []string{"A"}, "T",
		reaction{"R1", "A -> X + W"},
		reaction{"R2", "X -> T"})
	cfg := singleMode()
	cfg.Variant.Kind = constraint.SteadyState
	s := &constraint.Strategy{Solver: milp.NewSolver(), Config: cfg}

	sets, err := s.Search(context.Background(), net, "T")
	require.NoError(t, err)
	require.Empty(t, sets)

	require.NoError(t, net.SetFlag("W", network.FlagBoundary, true))
	sets, err = s.Search(context.Background(), net, "T")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A"}}, ids(sets))
}

func TestSolutionDetails(t *testing.T) {
	net := build(t, []string{"A", "B"}, "T",
		reaction{"R1", "A -> X"},
		reaction{"R2", "B + X + Z -> T"})
	require.NoError(t, net.SetFlag("Z", network.FlagBootstrap, true))
	cfg := singleMode()
	cfg.CollectReactions = true
	cfg.CollectCumulated = true

	e, err := constraint.NewEnumerator(net, "T", milp.NewSolver(), cfg)
	require.NoError(t, err)
	sets, err := e.All(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Equal(t, []string{"R1", "R2"}, sets[0].Reactions())
	require.Equal(t, []network.Ref{{ID: "Z", Name: "Z"}}, sets[0].Bootstraps())
	for _, c := range sets[0].Cumulated() {
		require.NotEqual(t, "T", c.ID, "the target is never reported as cumulated")
	}
}

func TestPopulationFallbacks(t *testing.T) {
	net := build(t, []string{"A", "B"}, "T",
		reaction{"R1", "A -> T"},
		reaction{"R2", "B -> T"})
	ctx := context.Background()

	cases := map[string]func(call int, m *milp.Model) (milp.Pool, error){
		"time limit": func(int, *milp.Model) (milp.Pool, error) {
			return milp.Pool{Status: milp.StatusTimeLimit}, nil
		},
		"non-integral": func(_ int, m *milp.Model) (milp.Pool, error) {
			sol := assignment(m, "A")
			sol.Objective = 0.5
			return milp.Pool{Status: milp.StatusOptimal, Solutions: []milp.Solution{sol}}, nil
		},
		"error": func(int, *milp.Model) (milp.Pool, error) {
			return milp.Pool{}, errors.New("boom")
		},
	}
	for name, hook := range cases {
		t.Run(name, func(t *testing.T) {
			solver := newScripted()
			solver.populate = hook
			e, err := constraint.NewEnumerator(net, "T", solver, constraint.DefaultConfig())
			require.NoError(t, err)
			require.False(t, e.SinglePass())

			sets, err := e.All(ctx)
			require.NoError(t, err)
			require.True(t, e.SinglePass())
			require.Equal(t, [][]string{{"A"}, {"B"}}, ids(sets))
			require.Equal(t, 1, solver.pools, "no second pool after the fallback")
		})
	}
}

func TestPoolKeepsMinimumObjective(t *testing.T) {
	net := build(t, []string{"A", "B", "C"}, "T",
		reaction{"R1", "A -> T"},
		reaction{"R2", "B + C -> T"})
	solver := newScripted()
	solver.populate = func(call int, m *milp.Model) (milp.Pool, error) {
		if call > 1 {
			return milp.Pool{Status: milp.StatusInfeasible}, nil
		}
		return milp.Pool{Status: milp.StatusOptimal, Solutions: []milp.Solution{
			assignment(m, "B", "C"),
			assignment(m, "A"),
			assignment(m, "A"),
		}}, nil
	}
	e, err := constraint.NewEnumerator(net, "T", solver, constraint.DefaultConfig())
	require.NoError(t, err)
	batch, err := e.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A"}}, ids(batch), "larger members and duplicates are dropped")
}

func TestInconsistentSolutionIsFatal(t *testing.T) {
	net := build(t, []string{"A", "B", "C"}, "T",
		reaction{"R1", "A + B -> T"},
		reaction{"R2", "C -> T"})
	solver := newScripted()
	solver.solve = func(call int, m *milp.Model) (milp.Solution, error) {
		if call == 1 {
			return assignment(m, "A", "B"), nil
		}
		return assignment(m, "C"), nil
	}
	e, err := constraint.NewEnumerator(net, "T", solver, singleMode())
	require.NoError(t, err)
	sets, err := e.All(context.Background())
	require.ErrorIs(t, err, constraint.ErrInconsistentSolution)
	require.True(t, constraint.IsFatal(err))
	require.Equal(t, constraint.Failed, e.State())
	require.Equal(t, [][]string{{"A", "B"}}, ids(sets), "accepted solutions survive the failure")
}

func TestRepeatedSolutionIsCollectedOnce(t *testing.T) {
	net := build(t, []string{"A", "B"}, "T",
		reaction{"R1", "A -> T"},
		reaction{"R2", "B -> T"})
	solver := newScripted()
	solver.solve = func(call int, m *milp.Model) (milp.Solution, error) {
		if call > 2 {
			return milp.Solution{Status: milp.StatusInfeasible}, nil
		}
		return assignment(m, "A"), nil
	}
	e, err := constraint.NewEnumerator(net, "T", solver, singleMode())
	require.NoError(t, err)
	sets, err := e.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A"}}, ids(sets), "the collection rejects a set equal to a member")
	require.Equal(t, 3, solver.solves)
}

func TestSolverFailure(t *testing.T) {
	net := build(t, []string{"A"}, "T", reaction{"R1", "A -> T"})
	ctx := context.Background()

	solver := newScripted()
	solver.solve = func(int, *milp.Model) (milp.Solution, error) {
		return milp.Solution{Status: milp.StatusNodeLimit}, nil
	}
	_, err := (&constraint.Strategy{Solver: solver, Config: singleMode()}).Search(ctx, net, "T")
	require.ErrorIs(t, err, constraint.ErrSolverFailure)
	require.False(t, constraint.IsFatal(err))

	solver.solve = func(int, *milp.Model) (milp.Solution, error) {
		return milp.Solution{}, milp.ErrNumerical
	}
	_, err = (&constraint.Strategy{Solver: solver, Config: singleMode()}).Search(ctx, net, "T")
	require.ErrorIs(t, err, constraint.ErrSolverFailure)
	require.ErrorIs(t, err, milp.ErrNumerical)

	_, err = (&constraint.Strategy{Solver: milp.NewSolver(), Config: singleMode()}).Search(ctx, net, "nope")
	require.ErrorIs(t, err, network.ErrCompoundNotFound)
}

func TestVerification(t *testing.T) {
	net := build(t, []string{"A", "B"}, "T",
		reaction{"R1", "A -> X"},
		reaction{"R2", "B + X -> T"})
	ctx := context.Background()

	cfg := singleMode()
	cfg.Verify = true
	sets, err := (&constraint.Strategy{Solver: milp.NewSolver(), Config: cfg}).Search(ctx, net, "T")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A", "B"}}, ids(sets))

	_, err = constraint.NewEnumerator(net, "T", milp.NewSolver(), cfg)
	require.ErrorIs(t, err, constraint.ErrInvalidConfig, "verify needs a verifier")

	e, err := constraint.NewEnumerator(net, "T", milp.NewSolver(), cfg,
		constraint.WithVerifier(fixedVerifier{ok: false}))
	require.NoError(t, err)
	_, err = e.All(ctx)
	require.ErrorIs(t, err, constraint.ErrSolverFailure)
	require.ErrorIs(t, err, constraint.ErrInfeasibleModel)

	pooled := constraint.DefaultConfig()
	pooled.Verify = true
	e, err = constraint.NewEnumerator(net, "T", milp.NewSolver(), pooled,
		constraint.WithVerifier(fixedVerifier{ok: false}))
	require.NoError(t, err)
	_, err = e.All(ctx)
	require.ErrorIs(t, err, constraint.ErrInfeasibleModel)
	require.True(t, e.SinglePass(), "a fully rejected pool falls back first")

	var _ constraint.Verifier = (*fba.Verifier)(nil)
}

func TestConfigValidation(t *testing.T) {
	require.NoError(t, constraint.DefaultConfig().Validate())

	bad := constraint.DefaultConfig()
	bad.Verify = true
	bad.Variant.Kind = constraint.SteadyState
	require.ErrorIs(t, bad.Validate(), constraint.ErrInvalidConfig)

	bad = constraint.DefaultConfig()
	bad.BigM = 0.01
	require.ErrorIs(t, bad.Validate(), constraint.ErrInvalidConfig)

	bad = constraint.DefaultConfig()
	bad.Variant = constraint.Variant{Kind: constraint.DuplicatingMachinery}
	require.ErrorIs(t, bad.Validate(), constraint.ErrInvalidConfig)

	k, err := constraint.ParseKind("Steady-State")
	require.NoError(t, err)
	require.Equal(t, constraint.SteadyState, k)
	_, err = constraint.ParseKind("quantum")
	require.ErrorIs(t, err, constraint.ErrInvalidConfig)
}
