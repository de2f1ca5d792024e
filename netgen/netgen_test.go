package netgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/precursor/netgen"
	"github.com/katalvlaran/precursor/network"
)

func TestParseEquation(t *testing.T) {
	eq, err := netgen.ParseEquation("R1: A + 2 B -> X")
	require.NoError(t, err)
	assert.Equal(t, "R1", eq.ID)
	assert.False(t, eq.Reversible)
	assert.Equal(t, []network.Term{{Compound: "A", Coef: 1}, {Compound: "B", Coef: 2}}, eq.Substrates)
	assert.Equal(t, []network.Term{{Compound: "X", Coef: 1}}, eq.Products)

	eq, err = netgen.ParseEquation("X <-> Y")
	require.NoError(t, err)
	assert.Empty(t, eq.ID)
	assert.True(t, eq.Reversible)

	eq, err = netgen.ParseEquation("UP: -> A")
	require.NoError(t, err)
	assert.Empty(t, eq.Substrates)

	for _, bad := range []string{"R: A B", "R: A => B", "R: -> ", "R: x A -> B", "R: -1 A -> B", "R: 1 2 A -> B"} {
		_, err = netgen.ParseEquation(bad)
		assert.ErrorIs(t, err, netgen.ErrBadEquation, bad)
	}
}

func TestEquations(t *testing.T) {
	n, err := netgen.Build(nil, nil,
		netgen.Equations("R1: A -> X", "B + X -> T", "R3: X <-> Y"),
		netgen.Mark(network.FlagUserPrecursor, "A", "B"),
		netgen.MarkTarget())
	require.NoError(t, err)

	require.True(t, n.IsPrecursor("A"))
	require.True(t, n.Is("T", network.FlagTarget))
	_, err = n.Reaction("E1")
	require.NoError(t, err, "unnamed lines are named after their position")
	rev, err := n.IsReversible("R3")
	require.NoError(t, err)
	require.True(t, rev)

	_, err = netgen.Build(nil, nil, netgen.Equations("R1: A -> X", "R1: B -> X"))
	require.ErrorIs(t, err, network.ErrDuplicateReaction)
	_, err = netgen.Build(nil, nil, nil)
	require.ErrorIs(t, err, netgen.ErrConstructFailed)
}

func TestShapes(t *testing.T) {
	cases := []struct {
		name       string
		con        netgen.Constructor
		precursors int
		reactions  int
	}{
		{"chain", netgen.Chain(4), 1, 4},
		{"fan-in", netgen.FanIn(3), 3, 3},
		{"ladder", netgen.Ladder(3), 6, 7},
		{"cycle", netgen.Cycle(3), 0, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := netgen.Build(nil, nil, tc.con)
			require.NoError(t, err)
			assert.Len(t, n.Precursors(), tc.precursors)
			assert.Len(t, n.Reactions(), tc.reactions)
			assert.Equal(t, []network.Ref{{ID: "T", Name: "T"}}, n.Targets())
		})
	}

	_, err := netgen.Build(nil, nil, netgen.Chain(0))
	require.ErrorIs(t, err, netgen.ErrTooSmall)
	_, err = netgen.Build(nil, nil, netgen.Cycle(1))
	require.ErrorIs(t, err, netgen.ErrTooSmall)
}

func TestOptions(t *testing.T) {
	n, err := netgen.Build(nil, []netgen.Option{
		netgen.WithTarget("GOAL"),
		netgen.WithIDScheme(netgen.PrefixIDFn("m")),
	}, netgen.FanIn(2))
	require.NoError(t, err)
	require.True(t, n.HasCompound("m1"))
	require.True(t, n.Is("GOAL", network.FlagTarget))

	require.Panics(t, func() { netgen.WithTarget("") })
	require.Panics(t, func() { netgen.WithReversible(2) })
	require.Panics(t, func() { netgen.WithIDScheme(nil) })
}

func TestRandomSparse(t *testing.T) {
	_, err := netgen.Build(nil, nil, netgen.RandomSparse(10, 20, 2))
	require.ErrorIs(t, err, netgen.ErrNeedRandSource)

	build := func() *network.Network {
		n, err := netgen.Build(nil, []netgen.Option{netgen.WithSeed(7), netgen.WithReversible(0.3)},
			netgen.RandomSparse(12, 25, 3))
		require.NoError(t, err)
		return n
	}
	a, b := build(), build()
	require.Equal(t, len(a.Reactions()), len(b.Reactions()))
	for i, r := range a.Reactions() {
		assert.Equal(t, r.ID, b.Reactions()[i].ID)
		assert.Equal(t, r.Substrates, b.Reactions()[i].Substrates)
	}
	require.True(t, a.Is("T", network.FlagTarget))
}
