// SPDX-License-Identifier: MIT
// File: derive.go
// Role: the many-to-one view of a Network used by the visit.
// Construction:
//   1. One node per live compound, carrying its bootstrap flag.
//   2. For every precursor c, an artificial source node ___c and an edge
//      SR_c: ___c → c. Only artificial nodes count as sources, so a
//      precursor that is also produced internally is still reached
//      through its own source edge.
//   3. Every live reaction r with products p₁..pₖ becomes k edges
//      r_MTO_pᵢ, each with all substrates of r and the single product pᵢ.
//      Each edge remembers the other products of r as its co-products.
// The network is only read; nothing is added to it.

package traversal

import (
	"slices"

	"github.com/katalvlaran/precursor/network"
)

const (
	mtoSep         = "_MTO_"
	artificialPref = "___"
	sourcePref     = "SR_"
)

type node struct {
	ref       network.Ref
	bootstrap bool
	// of is the compound node an artificial source feeds, -1 otherwise.
	of int
}

type edge struct {
	id      string
	orig    int // reaction arena index, -1 for artificial source edges
	origID  string
	product int
	subs    []int
	// co lists the other products of the same reaction.
	co []int
}

// graph is the derived many-to-one network. All indices are local.
type graph struct {
	nodes      []node
	edges      []edge
	producedBy [][]int
	nodeOf     map[string]int
	origOf     map[string]string // edge ID → reaction ID, "" for artificial edges
	// reverse maps a reaction arena index to its mirror, -1 if none.
	reverse []int
	slots   int
}

func derive(net *network.Network) *graph {
	g := &graph{
		nodeOf: make(map[string]int),
		origOf: make(map[string]string),
		slots:  net.ReactionSlots(),
	}
	live := net.LiveCompounds()
	local := make(map[int]int, len(live))

	// 1) Compound nodes.
	for _, ci := range live {
		c, _ := net.CompoundAt(ci)
		local[ci] = len(g.nodes)
		g.nodeOf[c.ID] = len(g.nodes)
		g.nodes = append(g.nodes, node{
			ref:       c.Ref(),
			bootstrap: net.FlagsAt(ci).Has(network.FlagBootstrap),
			of:        -1,
		})
	}

	// 2) Artificial sources.
	var sourceEdges []edge
	for _, ci := range live {
		if !net.IsPrecursorAt(ci) {
			continue
		}
		cn := local[ci]
		id := g.nodes[cn].ref.ID
		src := len(g.nodes)
		g.nodes = append(g.nodes, node{
			ref: network.Ref{ID: artificialPref + id, Name: artificialPref + g.nodes[cn].ref.Name},
			of:  cn,
		})
		sourceEdges = append(sourceEdges, edge{id: sourcePref + id, orig: -1, product: cn, subs: []int{src}})
	}
	g.producedBy = make([][]int, len(g.nodes))
	for _, e := range sourceEdges {
		g.add(e)
	}

	// 3) Split reactions.
	g.reverse = make([]int, g.slots)
	for i := range g.reverse {
		g.reverse[i] = -1
	}
	for _, ri := range net.LiveReactions() {
		r, _ := net.ReactionAt(ri)
		g.reverse[ri] = net.ReverseAt(ri)

		var subs []int
		for _, s := range net.SubstratesAt(ri) {
			if n := local[s.Compound]; !slices.Contains(subs, n) {
				subs = append(subs, n)
			}
		}
		var prods []int
		for _, p := range net.ProductsAt(ri) {
			if n := local[p.Compound]; !slices.Contains(prods, n) {
				prods = append(prods, n)
			}
		}
		for _, n := range prods {
			g.add(edge{
				id:      r.ID + mtoSep + g.nodes[n].ref.ID,
				orig:    ri,
				origID:  r.ID,
				product: n,
				subs:    subs,
				co:      slices.DeleteFunc(slices.Clone(prods), func(m int) bool { return m == n }),
			})
		}
	}

	return g
}

func (g *graph) add(e edge) {
	g.producedBy[e.product] = append(g.producedBy[e.product], len(g.edges))
	g.origOf[e.id] = e.origID
	g.edges = append(g.edges, e)
}

// sources counts the artificial source nodes.
func (g *graph) sources() int {
	n := 0
	for _, nd := range g.nodes {
		if nd.of >= 0 {
			n++
		}
	}

	return n
}
