package finder_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/precursor/constraint"
	"github.com/katalvlaran/precursor/finder"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/netgen"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
	"github.com/katalvlaran/precursor/traversal"
)

// twoTargets has A → T1 and B → T2; A and B are graph sources.
func twoTargets(t testing.TB, extra ...netgen.Constructor) *network.Network {
	t.Helper()
	cons := append([]netgen.Constructor{
		netgen.Equations("R1: A -> T1", "R2: B -> T2"),
		netgen.Mark(network.FlagTarget, "T1", "T2"),
	}, extra...)
	n, err := netgen.Build(nil, nil, cons...)
	require.NoError(t, err)
	return n
}

func ids(sets []*precursor.Set) [][]string {
	out := make([][]string, 0, len(sets))
	for _, s := range sets {
		out = append(out, s.IDs())
	}
	return out
}

// stub answers from fixed tables and records the targets it saw.
type stub struct {
	sets map[string][]*precursor.Set
	errs map[string]error
	seen []string
}

func (s *stub) Name() string { return "stub" }

func (s *stub) Search(_ context.Context, _ *network.Network, target string) ([]*precursor.Set, error) {
	s.seen = append(s.seen, target)
	return s.sets[target], s.errs[target]
}

func set(ids ...string) *precursor.Set {
	s := precursor.New()
	for _, id := range ids {
		s.AddPrecursor(network.Ref{ID: id, Name: id})
	}
	return s
}

// EngineSuite runs the engine with the real strategies.
type EngineSuite struct {
	suite.Suite
	ctx     context.Context
	metrics *finder.Metrics
	solver  milp.Solver
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.metrics = finder.NewMetrics("mps")
	s.solver = s.metrics.InstrumentSolver(milp.NewSolver())
}

func (s *EngineSuite) constraintEngine(opts ...finder.Option) *finder.Engine {
	st := &constraint.Strategy{Solver: s.solver, Config: constraint.DefaultConfig()}
	e, err := finder.New(st, append([]finder.Option{finder.WithMetrics(s.metrics)}, opts...)...)
	s.Require().NoError(err)
	return e
}

func (s *EngineSuite) TestOneByOne() {
	net := twoTargets(s.T())
	rep, err := s.constraintEngine().Run(s.ctx, net)
	s.Require().NoError(err)

	s.NotEmpty(rep.RunID)
	s.Equal("constraint", rep.Strategy)
	s.ElementsMatch([]string{"A", "B"}, rep.Precursors)
	s.Require().Len(rep.Targets, 2)
	s.Equal([][]string{{"A"}}, ids(rep.Solutions("T1")))
	s.Equal([][]string{{"B"}}, ids(rep.Solutions("T2")))
	for _, tr := range rep.Targets {
		s.True(tr.Reachable)
		s.Empty(tr.Violations)
		s.NoError(tr.Err)
	}
	s.False(rep.Failed())

	s.Equal(2.0, testutil.ToFloat64(s.metrics.Targets.WithLabelValues("constraint", "one-by-one")))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Solutions.WithLabelValues("constraint")))
	s.Positive(testutil.CollectAndCount(s.metrics.SolverCalls))
	s.Positive(testutil.ToFloat64(s.metrics.SolverCalls.WithLabelValues("populate", "optimal")))
}

func (s *EngineSuite) TestJoint() {
	net := twoTargets(s.T())
	rep, err := s.constraintEngine(finder.WithMode(finder.Joint)).Run(s.ctx, net)
	s.Require().NoError(err)
	s.Require().Len(rep.Targets, 1)

	tr := rep.Targets[0]
	s.Equal(network.ArtificialTargetID, tr.Target)
	s.Equal([]string{"T1", "T2"}, tr.Targets)
	s.Equal([][]string{{"A", "B"}}, ids(tr.Solutions))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Targets.WithLabelValues("constraint", "joint")))
}

func (s *EngineSuite) TestInputUntouched() {
	net := twoTargets(s.T(), netgen.Mark(network.FlagForbidden, "A"))
	_, err := s.constraintEngine(finder.WithMode(finder.Joint)).Run(s.ctx, net)
	s.Require().NoError(err)

	s.False(net.IsPrecursor("A"))
	s.True(net.HasCompound("A"))
	s.False(net.HasCompound(network.ArtificialTargetID))
	s.True(net.Is("T1", network.FlagTarget))
}

func (s *EngineSuite) TestForbiddenPrecursor() {
	net, err := netgen.Build(nil, nil,
		netgen.Equations("R1: A -> T", "R2: B -> T"),
		netgen.Mark(network.FlagForbidden, "A"),
		netgen.MarkTarget())
	s.Require().NoError(err)

	rep, err := s.constraintEngine().Run(s.ctx, net)
	s.Require().NoError(err)
	s.Equal([]string{"A"}, rep.Removed)
	s.Equal([]string{"B"}, rep.Precursors)
	s.Equal([][]string{{"B"}}, ids(rep.Solutions("T")))
}

func (s *EngineSuite) TestUnreachableTarget() {
	net := twoTargets(s.T(), netgen.Equations("R3: T3 + Y -> Z"), netgen.Mark(network.FlagTarget, "T3"))
	rep, err := s.constraintEngine().Run(s.ctx, net, "T3")
	s.Require().NoError(err)
	s.Require().Len(rep.Targets, 1)
	s.False(rep.Targets[0].Reachable)
	s.Empty(rep.Targets[0].Solutions)
}

func (s *EngineSuite) TestTraversalStrategy() {
	net := twoTargets(s.T())
	e, err := finder.New(&traversal.Strategy{Solver: s.solver}, finder.WithMetrics(s.metrics))
	s.Require().NoError(err)
	rep, err := e.Run(s.ctx, net, "T2")
	s.Require().NoError(err)
	s.Equal("traversal", rep.Strategy)
	s.Equal([][]string{{"B"}}, ids(rep.Solutions("T2")))
	s.Nil(rep.Solutions("T1"))
}

func TestEngine(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func TestRecoverableErrorEndsOnlyItsTarget(t *testing.T) {
	m := finder.NewMetrics("mps")
	st := &stub{
		sets: map[string][]*precursor.Set{"T1": {set("A")}, "T2": {set("B")}},
		errs: map[string]error{"T1": constraint.ErrSolverFailure},
	}
	e, err := finder.New(st, finder.WithMetrics(m))
	require.NoError(t, err)

	rep, err := e.Run(context.Background(), twoTargets(t), "T1", "T2")
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, st.seen)
	assert.True(t, rep.Failed())
	assert.ErrorIs(t, rep.Targets[0].Err, constraint.ErrSolverFailure)
	assert.Equal(t, [][]string{{"A"}}, ids(rep.Targets[0].Solutions), "partial solutions are kept")
	assert.NoError(t, rep.Targets[1].Err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("stub")))
	for _, s := range rep.Targets[0].Solutions {
		assert.True(t, s.Frozen())
	}
}

func TestFatalErrorAbortsRun(t *testing.T) {
	st := &stub{errs: map[string]error{"T1": fmt.Errorf("enumerate: %w", constraint.ErrInconsistentSolution)}}
	e, err := finder.New(st)
	require.NoError(t, err)

	rep, err := e.Run(context.Background(), twoTargets(t), "T1", "T2")
	require.ErrorIs(t, err, constraint.ErrInconsistentSolution)
	require.NotNil(t, rep)
	assert.Len(t, rep.Targets, 1)
	assert.Equal(t, []string{"T1"}, st.seen)
}

func TestMinimalityAudit(t *testing.T) {
	m := finder.NewMetrics("mps")
	st := &stub{sets: map[string][]*precursor.Set{"T1": {set("A", "B"), set("A")}}}
	e, err := finder.New(st, finder.WithMetrics(m))
	require.NoError(t, err)

	rep, err := e.Run(context.Background(), twoTargets(t), "T1")
	require.NoError(t, err)
	tr := rep.Targets[0]
	assert.Equal(t, [][]string{{"A"}, {"A", "B"}}, ids(tr.Solutions), "sorted by size")
	require.Len(t, tr.Violations, 1)
	assert.Equal(t, precursor.Violation{Subset: 0, Superset: 1}, tr.Violations[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Violations))
}

func TestMinimalityAuditFollowsRule(t *testing.T) {
	// {A}+{Z} and {A, B} share precursors but not their bootstrap unions.
	withBoot := set("A")
	withBoot.AddBootstrap(network.Ref{ID: "Z", Name: "Z"})
	sets := func() map[string][]*precursor.Set {
		return map[string][]*precursor.Set{"T1": {set("A", "B"), withBoot.Clone()}}
	}

	e, err := finder.New(&stub{sets: sets()})
	require.NoError(t, err)
	rep, err := e.Run(context.Background(), twoTargets(t), "T1")
	require.NoError(t, err)
	assert.Len(t, rep.Targets[0].Violations, 1, "precursor-subset sees {A} inside {A, B}")

	m := finder.NewMetrics("mps")
	e, err = finder.New(&stub{sets: sets()},
		finder.WithRule(precursor.Rule{Definition: precursor.PrecursorBootstrap}),
		finder.WithMetrics(m))
	require.NoError(t, err)
	assert.Equal(t, precursor.PrecursorBootstrap, e.Options().Rule.Definition)
	rep, err = e.Run(context.Background(), twoTargets(t), "T1")
	require.NoError(t, err)
	assert.Empty(t, rep.Targets[0].Violations)
	assert.Zero(t, testutil.ToFloat64(m.Violations))
}

func TestEngineErrors(t *testing.T) {
	_, err := finder.New(nil)
	require.ErrorIs(t, err, finder.ErrNilStrategy)

	e, err := finder.New(&stub{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = e.Run(ctx, nil)
	require.ErrorIs(t, err, finder.ErrNilNetwork)

	bare := netgen.MustBuild(nil, netgen.Equations("R1: A -> B"))
	_, err = e.Run(ctx, bare)
	require.ErrorIs(t, err, finder.ErrNoTargets)

	_, err = e.Run(ctx, bare, "Q")
	require.ErrorIs(t, err, network.ErrCompoundNotFound)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.Run(canceled, twoTargets(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseMode(t *testing.T) {
	for _, m := range []finder.Mode{finder.OneByOne, finder.Joint} {
		got, err := finder.ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := finder.ParseMode("all")
	require.Error(t, err)
}

func TestInstrumentNilMetrics(t *testing.T) {
	var m *finder.Metrics
	s := milp.NewSolver()
	assert.Same(t, s, m.InstrumentSolver(s))
}
