// SPDX-License-Identifier: MIT
// Package: precursor/netgen
//
// api.go: the Build orchestrator and shared constructor helpers.
//
// Contract:
//   • One orchestrator: Build(nopts, gopts, cons...). Creates the network,
//     resolves the config, runs the constructors in order.
//   • Constructors add missing compounds on demand, so they compose: a
//     later constructor may attach reactions to compounds of an earlier one.
//   • Determinism: same inputs, options, seed and order give the same network.

package netgen

import (
	"fmt"

	"github.com/katalvlaran/precursor/network"
)

// Constructor mutates a network using the resolved configuration.
type Constructor func(n *network.Network, cfg genConfig) error

// Build creates a network with nopts, resolves gopts and applies cons in
// order. The first constructor error is returned wrapped.
func Build(nopts []network.Option, gopts []Option, cons ...Constructor) (*network.Network, error) {
	n := network.New(nopts...)
	cfg := newConfig(gopts...)
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("Build: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(n, cfg); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}

	return n, nil
}

// MustBuild is Build for tests and benchmarks; it panics on error.
func MustBuild(gopts []Option, cons ...Constructor) *network.Network {
	n, err := Build(nil, gopts, cons...)
	if err != nil {
		panic(err)
	}

	return n
}

// Mark sets flag on every listed compound, creating missing ones.
func Mark(flag network.Flag, ids ...string) Constructor {
	return func(n *network.Network, _ genConfig) error {
		for _, id := range ids {
			if err := ensure(n, id); err != nil {
				return err
			}
			if err := n.SetFlag(id, flag, true); err != nil {
				return fmt.Errorf("Mark(%s): %w", id, err)
			}
		}
		return nil
	}
}

// MarkTarget flags the configured target compound.
func MarkTarget() Constructor {
	return func(n *network.Network, cfg genConfig) error {
		return Mark(network.FlagTarget, cfg.target)(n, cfg)
	}
}

// ensure adds id as a compound named after itself when absent.
func ensure(n *network.Network, id string) error {
	if n.HasCompound(id) {
		return nil
	}
	if err := n.AddCompound(network.Compound{ID: id, Name: id}, 0); err != nil {
		return fmt.Errorf("AddCompound(%s): %w", id, err)
	}

	return nil
}

// addReaction adds a reaction between existing-or-new compounds.
func addReaction(n *network.Network, id string, subs, prods []network.Term, reversible bool) error {
	for _, t := range subs {
		if err := ensure(n, t.Compound); err != nil {
			return err
		}
	}
	for _, t := range prods {
		if err := ensure(n, t.Compound); err != nil {
			return err
		}
	}
	r := network.Reaction{ID: id, Name: id, Substrates: subs, Products: prods}
	if err := n.AddReaction(r, reversible); err != nil {
		return fmt.Errorf("AddReaction(%s): %w", id, err)
	}

	return nil
}

func terms(cfg genConfig, ids ...string) []network.Term {
	out := make([]network.Term, len(ids))
	for i, id := range ids {
		out[i] = network.Term{Compound: id, Coef: cfg.coefFn(cfg.rng)}
	}

	return out
}
