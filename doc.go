// Package precursor finds minimal precursor sets of metabolic networks.
//
// A precursor set is a set of compounds that, supplied from outside,
// lets a network produce a target compound. A minimal precursor set
// (MPS) has no proper subset with the same property. This module
// enumerates all of them, up to the limits the caller sets.
//
// Two strategies answer the same question:
//
//   - constraint: a mixed-integer model over reaction fluxes and
//     precursor indicators, solved repeatedly with no-good cuts or in
//     one population call;
//   - traversal: a backward walk from the target that collects candidate
//     sets, checked and combined with flux balance analysis.
//
// Subpackages:
//
//	network/     compounds, reactions, flags, stoichiometry and forward scope
//	precursor/   precursor sets, minimality rules and reduction
//	milp/        LP relaxation (gonum simplex), branch and bound, solution pools
//	fba/         flux-balance verifier with a cached, concurrent CheckAll
//	constraint/  the constraint-based enumerator and strategy
//	traversal/   the backward traversal enumerator and strategy
//	finder/      the engine running a strategy over targets, with metrics
//	netgen/      network constructors for tests, examples and benchmarks
//	netio/       network descriptions, marks files and result documents
//	config/      file, dotenv and environment configuration
//	logging/     zap loggers with optional rotating files
//	cmd/mpsfind  the command line tool
//
// Quick example, two routes to T:
//
//	A ──R1──► X ──┐
//	              R2 ──► T
//	B ────────────┘
//	C ──R3──────────────► T
//
//	net := netgen.MustBuild(nil,
//		netgen.Equations("R1: A -> X", "R2: B + X -> T", "R3: C -> T"),
//		netgen.Mark(network.FlagUserPrecursor, "A", "B", "C"),
//		netgen.MarkTarget())
//	st := &constraint.Strategy{Solver: milp.NewSolver(), Config: constraint.DefaultConfig()}
//	eng, _ := finder.New(st)
//	rep, _ := eng.Run(ctx, net)
//	rep.Solutions("T") // {C}, {A, B}
package precursor
