// SPDX-License-Identifier: MIT
// File: visit.go
// Role: recursive enumeration of candidate precursor sets on the derived
//       many-to-one graph.
// Steps (visit of node a reached through edge in):
//   1. Artificial source: {precursor}. Bootstrap: {bootstrap}.
//   2. a already on the path: a stop-compound branch (StoppedPremature).
//      Depth bound reached: a stop-compound branch (ReachedSizeK).
//   3. For every producer edge e of a not on the path and whose mirror
//      reaction is not on the path: visit each substrate with the other
//      substrates added to the path, and combine the per-substrate
//      results by Cartesian union. A substrate with no result discards e.
//      With by-product cuts on, an edge whose reaction also yields a
//      compound an enclosing visit is producing is not expanded: it ends in a by-product
//      stop flagged PositiveZeroCycle.
//   4. Reduce the union over all edges under reaction-subset minimality.
// Path tables (nodes, edges, reactions) are bitsets owned by each call.

package traversal

import (
	"context"

	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

var localRule = precursor.Rule{Definition: precursor.ReactionSubset}

// path is the per-branch bookkeeping of one visit call.
type path struct {
	nodes     bitset // compounds on the path or reserved by siblings
	stack     bitset // compounds on the path only
	edges     bitset // derived edges on the path
	reactions bitset // original reactions on the path, by arena index
	depth     int
}

func (p path) clone() path {
	return path{
		nodes:     p.nodes.clone(),
		stack:     p.stack.clone(),
		edges:     p.edges.clone(),
		reactions: p.reactions.clone(),
		depth:     p.depth,
	}
}

// walker holds the state shared by the whole recursion.
type walker struct {
	ctx        context.Context
	g          *graph
	maxDepth   int
	byProducts bool
	recursions int
}

func newWalker(ctx context.Context, g *graph, maxDepth int, byProducts bool) *walker {
	return &walker{ctx: ctx, g: g, maxDepth: maxDepth, byProducts: byProducts}
}

func (w *walker) root(target int) ([]*precursor.Set, error) {
	p := path{
		nodes:     newBitset(len(w.g.nodes)),
		stack:     newBitset(len(w.g.nodes)),
		edges:     newBitset(len(w.g.edges)),
		reactions: newBitset(w.g.slots),
	}

	return w.visit(target, -1, p)
}

func (w *walker) visit(a, in int, p path) ([]*precursor.Set, error) {
	// 1. Cancellation check
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}
	w.recursions++
	if in >= 0 {
		p.edges.set(in)
		if o := w.g.edges[in].orig; o >= 0 {
			p.reactions.set(o)
		}
	}

	// 2. Leaves
	nd := w.g.nodes[a]
	switch {
	case nd.of >= 0:
		s := w.leaf(p)
		s.AddPrecursor(w.g.nodes[nd.of].ref)
		return []*precursor.Set{s}, nil
	case nd.bootstrap:
		s := w.leaf(p)
		s.AddBootstrap(nd.ref)
		return []*precursor.Set{s}, nil
	case p.nodes.has(a):
		return []*precursor.Set{w.stop(nd.ref, p, precursor.StoppedPremature)}, nil
	case w.maxDepth > 0 && p.depth >= w.maxDepth:
		return []*precursor.Set{w.stop(nd.ref, p, precursor.ReachedSizeK)}, nil
	}
	p.nodes.set(a)
	p.stack.set(a)

	// 3. Producer edges
	var (
		all  []*precursor.Set
		seen = make(map[string]struct{})
	)
	for _, ei := range w.g.producedBy[a] {
		e := w.g.edges[ei]
		if p.edges.has(ei) {
			continue
		}
		if e.orig >= 0 {
			if rev := w.g.reverse[e.orig]; rev >= 0 && p.reactions.has(rev) {
				continue
			}
		}
		var sets []*precursor.Set
		if q := w.byProduct(e, p); q >= 0 {
			sets = []*precursor.Set{w.cut(ei, q, p)}
		} else {
			var err error
			if sets, err = w.expand(ei, p); err != nil {
				return nil, err
			}
		}
		for _, s := range sets {
			k := s.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			all = append(all, s)
		}
	}

	// 4. Local minimality
	return precursor.Reduce(all, localRule), nil
}

// expand visits every substrate of edge ei and combines the results.
func (w *walker) expand(ei int, p path) ([]*precursor.Set, error) {
	e := w.g.edges[ei]
	if len(e.subs) == 0 {
		q := p.clone()
		q.edges.set(ei)
		if e.orig >= 0 {
			q.reactions.set(e.orig)
		}
		return []*precursor.Set{w.leaf(q)}, nil
	}

	var acc []*precursor.Set
	for i, sub := range e.subs {
		q := p.clone()
		q.depth++
		for j, other := range e.subs {
			if j != i {
				q.nodes.set(other)
			}
		}
		sets, err := w.visit(sub, ei, q)
		if err != nil {
			return nil, err
		}
		if len(sets) == 0 {
			return nil, nil
		}
		acc = cartesian(acc, sets, i == 0)
	}

	return acc, nil
}

// cartesian returns {a ∪ b : a ∈ acc, b ∈ next}, one set per key.
func cartesian(acc, next []*precursor.Set, first bool) []*precursor.Set {
	if first {
		return next
	}
	out := make([]*precursor.Set, 0, len(acc)*len(next))
	seen := make(map[string]struct{}, cap(out))
	for _, b := range next {
		for _, a := range acc {
			u := a.Union(b)
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

// leaf returns a set holding the derived edges of the path.
func (w *walker) leaf(p path) *precursor.Set {
	s := precursor.New()
	p.edges.each(func(i int) { s.AddReaction(w.g.edges[i].id) })

	return s
}

// stop returns a branch cut at c, recording the compounds of the path.
func (w *walker) stop(c network.Ref, p path, why precursor.Status) *precursor.Set {
	s := w.leaf(p)
	s.AddStopSubstrate(c)
	s.Mark(why)
	p.nodes.each(func(i int) { s.AddVisited(w.g.nodes[i].ref) })

	return s
}

// byProduct returns the first co-product of e that an enclosing visit is
// producing, or -1. Sibling reservations do not count.
func (w *walker) byProduct(e edge, p path) int {
	if !w.byProducts {
		return -1
	}
	for _, q := range e.co {
		if p.stack.has(q) {
			return q
		}
	}

	return -1
}

// cut returns the branch of edge ei stopped at by-product q.
func (w *walker) cut(ei, q int, p path) *precursor.Set {
	e := w.g.edges[ei]
	p = p.clone()
	p.edges.set(ei)
	if e.orig >= 0 {
		p.reactions.set(e.orig)
	}
	s := w.leaf(p)
	s.AddStopByProduct(w.g.nodes[q].ref)
	s.Mark(precursor.PositiveZeroCycle)
	p.nodes.each(func(i int) { s.AddVisited(w.g.nodes[i].ref) })

	return s
}
