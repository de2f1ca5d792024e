// SPDX-License-Identifier: MIT
// File: search.go
// Role: Enumerate and Run, the two entry points of the traversal search.
// Run steps:
//   1. Enumerate candidates on the many-to-one graph and rewrite their
//      derived edges to the original reaction IDs.
//   2. Verify all candidates in one batch; feasible ones are solutions,
//      the rest feed the combination loop.
//   3. For k = 2..MaxK, while at least two rejected sets remain and the
//      completeness check (if any) does not report a complete list:
//      merge every pair (o, p) where p does not already contain o's
//      precursors, verify the merged sets in one batch, keep the feasible
//      ones and carry the rest into the next round.
//   4. Every feasible set goes through a precursor.Collection under
//      Options.Rule, so the result is minimal, frozen and sorted.

package traversal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// Enumerate returns the candidate precursor sets of target found by the
// visit, before any verification. Candidates may carry stop compounds and
// the StoppedPremature or ReachedSizeK status. Reaction IDs are those of
// net; artificial source edges are dropped.
//
// Errors: ErrNilNetwork, network.ErrCompoundNotFound, ErrBadOption,
// context errors.
func Enumerate(ctx context.Context, net *network.Network, target string, opts ...Option) ([]*precursor.Set, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	sets, _, err := enumerate(ctx, net, target, o)

	return sets, err
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o, o.validate()
}

func enumerate(ctx context.Context, net *network.Network, target string, o Options) ([]*precursor.Set, int, error) {
	if net == nil {
		return nil, 0, ErrNilNetwork
	}
	g := derive(net)
	t, ok := g.nodeOf[target]
	if !ok {
		return nil, 0, fmt.Errorf("traversal: target %q: %w", target, network.ErrCompoundNotFound)
	}
	o.Logger.Debug("many-to-one network",
		zap.Int("nodes", len(g.nodes)),
		zap.Int("edges", len(g.edges)),
		zap.Int("sources", g.sources()))

	w := newWalker(ctx, g, o.MaxDepth, o.StopInByProducts)
	raw, err := w.root(t)
	if err != nil {
		return nil, w.recursions, err
	}
	out := make([]*precursor.Set, len(raw))
	for i, s := range raw {
		out[i] = g.remap(s)
	}

	return out, w.recursions, nil
}

// remap copies s with derived edge IDs replaced by original reaction IDs.
func (g *graph) remap(s *precursor.Set) *precursor.Set {
	out := precursor.Of(s.Precursors()...)
	for _, b := range s.Bootstraps() {
		out.AddBootstrap(b)
	}
	for _, c := range s.StopSubstrates() {
		out.AddStopSubstrate(c)
	}
	for _, c := range s.StopByProducts() {
		out.AddStopByProduct(c)
	}
	for _, c := range s.Visited() {
		out.AddVisited(c)
	}
	for _, id := range s.Reactions() {
		if orig := g.origOf[id]; orig != "" {
			out.AddReaction(orig)
		}
	}
	if st := s.Status(); st != 0 {
		out.Mark(st)
	}

	return out
}

// Searcher runs the full traversal search with a verifier.
type Searcher struct {
	verifier Verifier
	opts     Options
}

// New returns a Searcher. Options are validated by Run.
func New(v Verifier, opts ...Option) *Searcher {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return &Searcher{verifier: v, opts: o}
}

// Options returns the effective options.
func (s *Searcher) Options() Options { return s.opts }

// Run enumerates, verifies and combines the precursor sets of target.
func (s *Searcher) Run(ctx context.Context, net *network.Network, target string) (*Result, error) {
	if s.verifier == nil {
		return nil, ErrNilVerifier
	}
	if err := s.opts.validate(); err != nil {
		return nil, err
	}
	log := s.opts.Logger.With(zap.String("target", target))

	// 1. Candidates
	cands, recursions, err := enumerate(ctx, net, target, s.opts)
	res := &Result{Target: target, Candidates: len(cands), Recursions: recursions}
	if err != nil {
		return res, err
	}
	log.Debug("candidates enumerated", zap.Int("candidates", len(cands)), zap.Int("recursions", recursions))

	// 2. First verification
	acc := precursor.NewCollection(s.opts.Rule)
	combiner, err := s.split(ctx, target, cands, acc)
	if err != nil {
		return res, err
	}

	// 3. Combination rounds
	for k := 2; len(combiner) > 1 && k <= s.opts.MaxK; k++ {
		if s.opts.Complete != nil {
			done, err := s.opts.Complete(ctx, acc.Sets())
			if err != nil {
				return res, fmt.Errorf("traversal: completeness check: %w", err)
			}
			if done {
				res.Complete = true
				break
			}
		}
		merged := combine(combiner)
		res.Combinations += len(merged)
		res.Rounds++
		log.Debug("combination round",
			zap.Int("k", k), zap.Int("rejected", len(combiner)), zap.Int("merged", len(merged)))
		if combiner, err = s.split(ctx, target, merged, acc); err != nil {
			return res, err
		}
	}

	// 4. The collection holds only minimal, frozen members.
	res.Solutions = acc.Sets()
	log.Info("traversal finished",
		zap.Int("solutions", len(res.Solutions)),
		zap.Int("rounds", res.Rounds),
		zap.Bool("complete", res.Complete))

	return res, nil
}

// split verifies sets, adds the feasible ones to acc under its rule and
// returns the rejected ones.
func (s *Searcher) split(ctx context.Context, target string, sets []*precursor.Set, acc *precursor.Collection) ([]*precursor.Set, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	reqs := make([]fba.Request, len(sets))
	for i, c := range sets {
		reqs[i] = fba.RequestFor(target, c)
	}
	results, err := s.verifier.CheckAll(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("traversal: verify: %w", err)
	}
	if len(results) != len(sets) {
		return nil, fmt.Errorf("traversal: verifier answered %d of %d requests", len(results), len(sets))
	}

	var rejected []*precursor.Set
	for i, r := range results {
		if !r.Feasible {
			rejected = append(rejected, sets[i])
			continue
		}
		acc.Add(sets[i])
	}

	return rejected, nil
}

// combine merges every ordered pair (o, p) of rejected sets where p does
// not already hold all precursors of o. Each merged set appears once.
func combine(rejected []*precursor.Set) []*precursor.Set {
	var out []*precursor.Set
	seen := make(map[string]struct{})
	for _, o := range rejected {
		for _, p := range rejected {
			if covers(p, o) {
				continue
			}
			u := p.Union(o)
			k := u.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, u)
		}
	}

	return out
}

// covers reports whether p holds every precursor of o.
func covers(p, o *precursor.Set) bool {
	for _, r := range o.Precursors() {
		if !p.HasPrecursor(r) {
			return false
		}
	}

	return true
}
