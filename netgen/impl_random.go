// SPDX-License-Identifier: MIT
// Package: precursor/netgen
//
// impl_random.go: RandomSparse(compounds, reactions, maxSide).
//
// Model:
//   • Compounds idFn(0..compounds-1).
//   • Each reaction draws 1..maxSide distinct substrates and 1..maxSide
//     distinct products from the remaining compounds; it is reversible
//     with probability revP (WithReversible).
//   • One extra reaction "rand_exit" turns a random compound into the target.
//   • Precursors are not marked; call MarkTopologicalPrecursors afterwards.
//
// Contract: compounds ≥ 2, reactions ≥ 1, maxSide ≥ 1, rng required.
// Deterministic per seed.

package netgen

import (
	"fmt"

	"github.com/katalvlaran/precursor/network"
)

const (
	methodRandom = "RandomSparse"
	minRandomC   = 2
)

// RandomSparse builds a random reaction network.
func RandomSparse(compounds, reactions, maxSide int) Constructor {
	return func(net *network.Network, cfg genConfig) error {
		switch {
		case compounds < minRandomC:
			return fmt.Errorf("%s: compounds=%d < min=%d: %w", methodRandom, compounds, minRandomC, ErrTooSmall)
		case reactions < 1 || maxSide < 1:
			return fmt.Errorf("%s: reactions=%d maxSide=%d: %w", methodRandom, reactions, maxSide, ErrTooSmall)
		case cfg.rng == nil:
			return fmt.Errorf("%s: %w", methodRandom, ErrNeedRandSource)
		}
		rng := cfg.rng
		for i := 0; i < reactions; i++ {
			perm := rng.Perm(compounds)
			ns := 1 + rng.Intn(min(maxSide, compounds-1))
			np := 1 + rng.Intn(min(maxSide, compounds-ns))
			subs := make([]string, ns)
			prods := make([]string, np)
			for j := range subs {
				subs[j] = cfg.idFn(perm[j])
			}
			for j := range prods {
				prods[j] = cfg.idFn(perm[ns+j])
			}
			rev := cfg.revP > 0 && rng.Float64() < cfg.revP
			id := fmt.Sprintf("rand%d", i)
			if err := addReaction(net, id, terms(cfg, subs...), terms(cfg, prods...), rev); err != nil {
				return fmt.Errorf("%s: %w", methodRandom, err)
			}
		}
		exit := cfg.idFn(rng.Intn(compounds))
		if err := addReaction(net, "rand_exit", terms(cfg, exit), terms(cfg, cfg.target), false); err != nil {
			return fmt.Errorf("%s: %w", methodRandom, err)
		}
		return MarkTarget()(net, cfg)
	}
}
