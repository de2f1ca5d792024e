// SPDX-License-Identifier: MIT
// File: verifier.go
// Role: flux-balance feasibility check of a candidate precursor set.
// Model (one LP per request):
//   - v_r ∈ [0, BigM] per live reaction, p_c ∈ [0, BigM] per source and
//     bootstrap compound (an uptake from nothing).
//   - Σ_r S[c,r]·v_r + p_c >= 0 for every compound (== 0 for non-target
//     compounds when FreeAccumulate is off).
//   - maximize the net production of the target.
// Errors:
//   - network.ErrCompoundNotFound for an unknown target or source.
//   - ErrUnfinished when the solver stops on a limit.

package fba

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// productionTol separates "some production" from solver noise.
const productionTol = 1e-9

// ErrUnfinished indicates the solver hit a limit before proving optimality.
var ErrUnfinished = errors.New("fba: verification solve unfinished")

// Request names the target and the compounds available from outside.
type Request struct {
	Target     string
	Sources    []string
	Bootstraps []string
}

// RequestFor builds the request verifying s against target.
func RequestFor(target string, s *precursor.Set) Request {
	req := Request{Target: target}
	for _, r := range s.Precursors() {
		req.Sources = append(req.Sources, r.ID)
	}
	for _, r := range s.Bootstraps() {
		req.Bootstraps = append(req.Bootstraps, r.ID)
	}

	return req
}

// key is the canonical cache key: sorted, deduplicated ID lists.
func (r Request) key() string {
	norm := func(ids []string) string {
		c := slices.Clone(ids)
		slices.Sort(c)
		return strings.Join(slices.Compact(c), ",")
	}

	return r.Target + "|" + norm(r.Sources) + "|" + norm(r.Bootstraps)
}

// Result is the outcome of one check.
type Result struct {
	Request    Request
	Production float64
	Feasible   bool
}

// Verifier checks requests against a fixed snapshot of a network. It is
// safe for concurrent use when its Solver is.
type Verifier struct {
	st     *network.Stoichiometry
	solver milp.Solver
	opts   Options
	cache  *lru.Cache[string, float64]
	log    *zap.Logger
}

// New snapshots net and returns a Verifier using solver.
func New(net *network.Network, solver milp.Solver, opts ...Option) (*Verifier, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	v := &Verifier{
		st:     net.Stoichiometry(),
		solver: solver,
		opts:   o,
		log:    o.Logger.With(zap.String("component", "fba")),
	}
	if o.CacheSize > 0 {
		cache, err := lru.New[string, float64](o.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("fba: cache: %w", err)
		}
		v.cache = cache
	}

	return v, nil
}

// Options returns the effective options.
func (v *Verifier) Options() Options { return v.opts }

// MaxProduction returns the largest achievable net production of the
// target, or 0 when the model is infeasible.
func (v *Verifier) MaxProduction(ctx context.Context, req Request) (float64, error) {
	key := req.key()
	if v.cache != nil {
		if prod, ok := v.cache.Get(key); ok {
			return prod, nil
		}
	}

	m, err := v.model(req)
	if err != nil {
		return 0, err
	}
	sol, err := v.solver.Solve(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("fba: %s: %w", req.Target, err)
	}

	var prod float64
	switch sol.Status {
	case milp.StatusOptimal:
		prod = math.Max(sol.Objective, 0)
	case milp.StatusInfeasible:
	default:
		return 0, fmt.Errorf("%w: %s: %s", ErrUnfinished, req.Target, sol.Status)
	}
	if v.cache != nil {
		v.cache.Add(key, prod)
	}
	v.log.Debug("max production",
		zap.String("target", req.Target),
		zap.Strings("sources", req.Sources),
		zap.Float64("production", prod))

	return prod, nil
}

// Feasible reports whether the request produces the target.
func (v *Verifier) Feasible(ctx context.Context, req Request) (bool, error) {
	prod, err := v.MaxProduction(ctx, req)
	if err != nil {
		return false, err
	}

	return v.accepts(prod), nil
}

// Check returns the full Result of one request.
func (v *Verifier) Check(ctx context.Context, req Request) (Result, error) {
	prod, err := v.MaxProduction(ctx, req)
	if err != nil {
		return Result{Request: req}, err
	}

	return Result{Request: req, Production: prod, Feasible: v.accepts(prod)}, nil
}

// CheckAll checks every request with at most Threads solves in flight.
// Results keep the order of reqs. The first error cancels the rest.
func (v *Verifier) CheckAll(ctx context.Context, reqs []Request) ([]Result, error) {
	out := make([]Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.opts.Threads)
	for i := range reqs {
		i := i
		g.Go(func() error {
			res, err := v.Check(gctx, reqs[i])
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (v *Verifier) accepts(prod float64) bool {
	if v.opts.Strict {
		return prod >= v.opts.Epsilon1-productionTol
	}

	return prod > productionTol
}

// model builds the LP of req.
func (v *Verifier) model(req Request) (*milp.Model, error) {
	st := v.st
	target := st.Row(req.Target)
	if target < 0 {
		return nil, fmt.Errorf("fba: target %q: %w", req.Target, network.ErrCompoundNotFound)
	}

	uptake := make(map[int]bool, len(req.Sources)+len(req.Bootstraps))
	for _, id := range append(slices.Clone(req.Sources), req.Bootstraps...) {
		row := st.Row(id)
		if row < 0 {
			return nil, fmt.Errorf("fba: source %q: %w", id, network.ErrCompoundNotFound)
		}
		uptake[row] = true
	}
	for row, f := range st.Flags {
		if f.Has(network.FlagBootstrap) {
			uptake[row] = true
		}
	}
	delete(uptake, target)

	m := milp.NewModel()
	flux := make([]milp.Var, st.NumCols())
	for j, id := range st.Reactions {
		flux[j] = m.Continuous(id, 0, v.opts.BigM)
	}
	for row := 0; row < st.NumRows(); row++ {
		terms := make([]milp.Term, 0, len(st.Rows[row])+1)
		for _, e := range st.Rows[row] {
			terms = append(terms, milp.Term{Var: flux[e.Col], Coef: e.Coef})
		}
		if uptake[row] {
			p := m.Continuous(st.Refs[row].ID+"_producer", 0, v.opts.BigM)
			terms = append(terms, milp.Term{Var: p, Coef: 1})
		}
		if row == target {
			m.Maximize(terms...)
		}
		sense := milp.GreaterEq
		if !v.opts.FreeAccumulate && row != target {
			sense = milp.Equal
		}
		if len(terms) == 0 {
			continue
		}
		m.AddConstraint(milp.Constraint{Name: st.Refs[row].ID, Terms: terms, Sense: sense})
	}

	return m, nil
}
