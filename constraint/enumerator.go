// SPDX-License-Identifier: MIT
// File: enumerator.go
// Role: the iterative enumeration protocol over one live Model.
// States:
//   Unbuilt → Built → Solving → {SolutionFound → Solving, Exhausted, Failed}
// Steps (per Next):
//   1. Population mode: ask for a pool; keep the members of minimum
//      rounded objective that respect the size bound; any unproven,
//      fractional or fully rejected pool switches to single mode for the
//      rest of the target.
//   2. Single mode: one solve; infeasible means Exhausted.
//   3. Accept the batch: check it against the size bound, exclude every
//      member, raise the bound, and add it to the collection kept under
//      the configured minimality rule.
// Errors:
//   - ErrSolverFailure, ErrInconsistentSolution and context errors move
//     the enumerator to Failed; solutions found so far remain available.

package constraint

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// integralityTol bounds |obj - round(obj)| for pool members.
const integralityTol = 1e-6

// State is the lifecycle of an Enumerator.
type State uint8

const (
	Unbuilt State = iota
	Built
	Solving
	SolutionFound
	Exhausted
	Failed
)

var stateNames = [...]string{"unbuilt", "built", "solving", "solution-found", "exhausted", "failed"}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}

	return fmt.Sprintf("state(%d)", s)
}

// Terminal reports whether no further Next call can succeed.
func (s State) Terminal() bool { return s == Exhausted || s == Failed }

// Verifier re-checks a solution; *fba.Verifier satisfies it.
type Verifier interface {
	Feasible(ctx context.Context, req fba.Request) (bool, error)
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(e *Enumerator) {
		if l != nil {
			e.log = l
		}
	}
}

// WithVerifier sets the verifier used when Config.Verify is on.
func WithVerifier(v Verifier) Option { return func(e *Enumerator) { e.verifier = v } }

// Enumerator finds the minimal precursor sets of one target, batch by batch.
type Enumerator struct {
	net      *network.Network
	target   string
	cfg      Config
	solver   milp.Solver
	verifier Verifier
	log      *zap.Logger

	model    *Model
	state    State
	single   bool
	accepted *precursor.Collection
	largest  int
}

// NewEnumerator validates cfg and prepares an enumerator in state Unbuilt.
// The model is built lazily by the first Next.
func NewEnumerator(net *network.Network, target string, solver milp.Solver, cfg Config, opts ...Option) (*Enumerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Enumerator{
		net:      net,
		target:   target,
		cfg:      cfg,
		solver:   solver,
		log:      zap.NewNop(),
		single:   !cfg.populate(),
		accepted: precursor.NewCollection(cfg.Rule),
	}
	for _, fn := range opts {
		fn(e)
	}
	if cfg.Verify && e.verifier == nil {
		return nil, fmt.Errorf("%w: verify requested without a verifier", ErrInvalidConfig)
	}
	e.log = e.log.With(zap.String("target", target), zap.Stringer("variant", cfg.Variant.Kind))

	return e, nil
}

// State returns the current state.
func (e *Enumerator) State() State { return e.state }

// SinglePass reports whether the enumerator runs in single-solution mode.
func (e *Enumerator) SinglePass() bool { return e.single }

// Solutions returns the accepted solutions ordered by size, then key.
func (e *Enumerator) Solutions() []*precursor.Set { return e.accepted.Sets() }

// Model returns the live model, nil before the first Next.
func (e *Enumerator) Model() *Model { return e.model }

// Next performs one protocol step and returns the newly accepted batch.
// An empty batch with a nil error and a non-terminal state means the
// step switched modes; call Next again.
func (e *Enumerator) Next(ctx context.Context) ([]*precursor.Set, error) {
	if e.state.Terminal() {
		return nil, ErrNotSolving
	}
	if e.state == Unbuilt {
		m, err := Build(e.net, e.target, e.cfg)
		if err != nil {
			return nil, e.fail(err)
		}
		e.model = m
		e.state = Built
		e.log.Debug("model built",
			zap.Int("sources", len(m.sources)),
			zap.Int("vars", m.prog.NumVars()),
			zap.Int("constraints", m.prog.NumConstraints()))
	}
	e.state = Solving

	var (
		batch []*precursor.Set
		err   error
	)
	if e.single {
		batch, err = e.solveSingle(ctx)
	} else {
		batch, err = e.solvePool(ctx)
	}
	if err != nil {
		return nil, e.fail(err)
	}
	if e.state == Exhausted || len(batch) == 0 {
		return nil, nil
	}
	if err := e.accept(batch); err != nil {
		return nil, e.fail(err)
	}
	e.state = SolutionFound

	return batch, nil
}

// All runs Next until the enumerator is exhausted or fails. It returns
// every accepted solution together with the terminal error, if any.
func (e *Enumerator) All(ctx context.Context) ([]*precursor.Set, error) {
	for !e.state.Terminal() {
		if _, err := e.Next(ctx); err != nil {
			return e.Solutions(), err
		}
	}

	return e.Solutions(), nil
}

func (e *Enumerator) fail(err error) error {
	e.state = Failed
	e.log.Error("enumeration failed", zap.Error(err), zap.Int("solutions", e.accepted.Len()))

	return err
}

func (e *Enumerator) solveSingle(ctx context.Context) ([]*precursor.Set, error) {
	sol, err := e.solver.Solve(ctx, e.model.prog)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSolverFailure, err)
	}
	switch sol.Status {
	case milp.StatusOptimal:
	case milp.StatusInfeasible:
		e.state = Exhausted
		e.log.Debug("no more solutions", zap.Int("solutions", e.accepted.Len()))
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: status %s", ErrSolverFailure, sol.Status)
	}

	s := e.model.extract(sol)
	if e.cfg.Verify {
		ok, err := e.verifier.Feasible(ctx, fba.RequestFor(e.target, s))
		if err != nil {
			return nil, fmt.Errorf("%w: verify: %w", ErrSolverFailure, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %w: %s (choose a larger epsilon1 or a smaller bigM)",
				ErrSolverFailure, ErrInfeasibleModel, s)
		}
	}

	return []*precursor.Set{s}, nil
}

func (e *Enumerator) solvePool(ctx context.Context) ([]*precursor.Set, error) {
	pool, err := e.solver.Populate(ctx, e.model.prog, e.cfg.Pool)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		e.fallback("populate error", zap.Error(err))
		return nil, nil
	}
	switch pool.Status {
	case milp.StatusOptimal:
	case milp.StatusInfeasible:
		e.state = Exhausted
		return nil, nil
	default:
		e.fallback("pool not proven optimal", zap.Stringer("status", pool.Status))
		return nil, nil
	}

	best := math.MaxInt
	for _, sol := range pool.Solutions {
		r := math.Round(sol.Objective)
		if math.Abs(sol.Objective-r) > integralityTol {
			e.fallback("pool validation failed",
				zap.Error(ErrNonIntegralObjective), zap.Float64("objective", sol.Objective))
			return nil, nil
		}
		if k := int(r); k >= e.model.sizeBound && k < best {
			best = k
		}
	}

	seen := make(map[string]bool)
	var batch []*precursor.Set
	for _, sol := range pool.Solutions {
		if int(math.Round(sol.Objective)) != best {
			continue
		}
		s := e.model.extract(sol)
		if seen[s.Key()] {
			continue
		}
		seen[s.Key()] = true
		batch = append(batch, s)
	}
	if len(batch) == 0 {
		e.fallback("pool has no member within the size bound")
		return nil, nil
	}

	if e.cfg.Verify {
		kept := batch[:0]
		for _, s := range batch {
			ok, err := e.verifier.Feasible(ctx, fba.RequestFor(e.target, s))
			if err != nil {
				return nil, fmt.Errorf("%w: verify: %w", ErrSolverFailure, err)
			}
			if ok {
				kept = append(kept, s)
				continue
			}
			e.log.Warn("pool member rejected by flux balance", zap.Stringer("set", s))
		}
		if len(kept) == 0 {
			e.fallback("every pool member rejected by flux balance")
			return nil, nil
		}
		batch = kept
	}

	return batch, nil
}

func (e *Enumerator) fallback(reason string, fields ...zap.Field) {
	e.single = true
	e.log.Warn("switching to single-solution mode: "+reason, fields...)
}

func (e *Enumerator) accept(batch []*precursor.Set) error {
	for _, s := range batch {
		if s.Size() < e.largest {
			return fmt.Errorf("%w: %s has %d precursors, bound is %d",
				ErrInconsistentSolution, s, s.Size(), e.largest)
		}
	}
	for _, s := range batch {
		if err := e.model.Exclude(s); err != nil {
			return err
		}
		e.largest = max(e.largest, s.Size())
		if !e.accepted.Add(s) {
			e.log.Warn("solution dominated by an accepted one",
				zap.Stringer("set", s), zap.Stringer("rule", e.cfg.Rule.Definition))
			continue
		}
		e.log.Info("solution found", zap.Stringer("set", s), zap.Int("size", s.Size()))
	}
	e.model.Bound(e.largest)

	return nil
}

// Complete reports whether known covers every minimal precursor set of
// target: one solve with all of them excluded must be infeasible.
func Complete(ctx context.Context, net *network.Network, target string, solver milp.Solver, cfg Config, known []*precursor.Set) (bool, error) {
	m, err := Build(net, target, cfg)
	if err != nil {
		return false, err
	}
	for _, s := range known {
		if err := m.Exclude(s); err != nil {
			return false, err
		}
	}
	sol, err := solver.Solve(ctx, m.prog)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrSolverFailure, err)
	}
	switch sol.Status {
	case milp.StatusInfeasible:
		return true, nil
	case milp.StatusOptimal:
		return false, nil
	default:
		return false, fmt.Errorf("%w: status %s", ErrSolverFailure, sol.Status)
	}
}

// IsFatal reports whether err must abort the whole run rather than the
// current target.
func IsFatal(err error) bool { return errors.Is(err, ErrInconsistentSolution) }
