// SPDX-License-Identifier: MIT
// Package: precursor/netgen
//
// impl_shapes.go: deterministic network shapes with known answers.
//
//   • Chain(n):  C0 → C1 → … → Cn-1 → T; one solution {C0}.
//   • FanIn(k):  Ci → T for i < k; k singleton solutions.
//   • Ladder(k): Ai → Xi and Bi → Xi for each stage, X0+…+Xk-1 → T;
//                2^k solutions of size k.
//   • Cycle(n):  C0 → C1 → … → Cn-1 → C0 and C0 → T; no precursors.
// Every shape marks its precursors as user-defined and the target.

package netgen

import (
	"fmt"

	"github.com/katalvlaran/precursor/network"
)

const (
	methodChain  = "Chain"
	methodFanIn  = "FanIn"
	methodLadder = "Ladder"
	methodCycle  = "Cycle"

	minChain  = 1
	minFanIn  = 1
	minLadder = 1
	minCycle  = 2
)

// Chain builds a linear pathway of n compounds ending in the target.
func Chain(n int) Constructor {
	return func(net *network.Network, cfg genConfig) error {
		if n < minChain {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodChain, n, minChain, ErrTooSmall)
		}
		for i := 0; i < n; i++ {
			next := cfg.target
			if i+1 < n {
				next = cfg.idFn(i + 1)
			}
			id := fmt.Sprintf("chain%d", i)
			if err := addReaction(net, id, terms(cfg, cfg.idFn(i)), terms(cfg, next), false); err != nil {
				return fmt.Errorf("%s: %w", methodChain, err)
			}
		}
		return finish(net, cfg, methodChain, cfg.idFn(0))
	}
}

// FanIn builds k independent one-step routes to the target.
func FanIn(k int) Constructor {
	return func(net *network.Network, cfg genConfig) error {
		if k < minFanIn {
			return fmt.Errorf("%s: k=%d < min=%d: %w", methodFanIn, k, minFanIn, ErrTooSmall)
		}
		sources := make([]string, k)
		for i := range sources {
			sources[i] = cfg.idFn(i)
			id := fmt.Sprintf("fan%d", i)
			if err := addReaction(net, id, terms(cfg, sources[i]), terms(cfg, cfg.target), false); err != nil {
				return fmt.Errorf("%s: %w", methodFanIn, err)
			}
		}
		return finish(net, cfg, methodFanIn, sources...)
	}
}

// Ladder builds k stages of two alternative precursors joined by one
// final reaction. Stage i uses IDs idFn(3i) for Xi, idFn(3i+1) for Ai and
// idFn(3i+2) for Bi.
func Ladder(k int) Constructor {
	return func(net *network.Network, cfg genConfig) error {
		if k < minLadder {
			return fmt.Errorf("%s: k=%d < min=%d: %w", methodLadder, k, minLadder, ErrTooSmall)
		}
		joins := make([]string, k)
		var sources []string
		for i := 0; i < k; i++ {
			x, a, b := cfg.idFn(3*i), cfg.idFn(3*i+1), cfg.idFn(3*i+2)
			joins[i] = x
			sources = append(sources, a, b)
			if err := addReaction(net, fmt.Sprintf("ladder%da", i), terms(cfg, a), terms(cfg, x), false); err != nil {
				return fmt.Errorf("%s: %w", methodLadder, err)
			}
			if err := addReaction(net, fmt.Sprintf("ladder%db", i), terms(cfg, b), terms(cfg, x), false); err != nil {
				return fmt.Errorf("%s: %w", methodLadder, err)
			}
		}
		if err := addReaction(net, "ladder_join", terms(cfg, joins...), terms(cfg, cfg.target), false); err != nil {
			return fmt.Errorf("%s: %w", methodLadder, err)
		}
		return finish(net, cfg, methodLadder, sources...)
	}
}

// Cycle builds a directed ring of n compounds with an exit to the target
// and no precursor anywhere.
func Cycle(n int) Constructor {
	return func(net *network.Network, cfg genConfig) error {
		if n < minCycle {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycle, ErrTooSmall)
		}
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("cycle%d", i)
			if err := addReaction(net, id, terms(cfg, cfg.idFn(i)), terms(cfg, cfg.idFn((i+1)%n)), false); err != nil {
				return fmt.Errorf("%s: %w", methodCycle, err)
			}
		}
		if err := addReaction(net, "cycle_exit", terms(cfg, cfg.idFn(0)), terms(cfg, cfg.target), false); err != nil {
			return fmt.Errorf("%s: %w", methodCycle, err)
		}
		return finish(net, cfg, methodCycle)
	}
}

// finish flags sources as user precursors and the target as target.
func finish(net *network.Network, cfg genConfig, method string, sources ...string) error {
	if err := Mark(network.FlagUserPrecursor, sources...)(net, cfg); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if err := MarkTarget()(net, cfg); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	return nil
}
