package traversal_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/netgen"
	"github.com/katalvlaran/precursor/traversal"
)

// BenchmarkEnumerate_Ladder measures the visit on a ladder with 2^8
// candidate sets.
func BenchmarkEnumerate_Ladder(b *testing.B) {
	net := netgen.MustBuild(nil, netgen.Ladder(8))
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := traversal.Enumerate(ctx, net, "T"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEnumerate_Chain measures deep single-route recursion.
func BenchmarkEnumerate_Chain(b *testing.B) {
	net := netgen.MustBuild(nil, netgen.Chain(200))
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := traversal.Enumerate(ctx, net, "T"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRun_FanIn measures enumeration plus cached flux balance
// verification of independent routes.
func BenchmarkRun_FanIn(b *testing.B) {
	net := netgen.MustBuild(nil, netgen.FanIn(32))
	v, err := fba.New(net, milp.NewSolver())
	if err != nil {
		b.Fatal(err)
	}
	s := traversal.New(v)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Run(ctx, net, "T"); err != nil {
			b.Fatal(err)
		}
	}
}
