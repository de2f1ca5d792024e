// SPDX-License-Identifier: MIT
// Package: precursor/netgen
//
// config.go: internal configuration, deterministic defaults and options.
//
// Deterministic defaults:
//   • idFn     = "C0","C1",...
//   • target   = "T"
//   • rng      = nil (pure unless seeded)
//   • coef     = 1
//   • revP     = 0 (no reversible reactions in random networks)

package netgen

import (
	"math/rand"
	"strconv"
)

const (
	defaultTarget = "T"
	defaultPrefix = "C"
)

// genConfig is passed by value to constructors.
type genConfig struct {
	idFn   func(int) string
	target string
	rng    *rand.Rand
	coefFn func(*rand.Rand) float64
	revP   float64
}

// Option customizes generation.
type Option func(*genConfig)

func newConfig(opts ...Option) genConfig {
	cfg := genConfig{
		idFn:   PrefixIDFn(defaultPrefix),
		target: defaultTarget,
		coefFn: func(*rand.Rand) float64 { return 1 },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// PrefixIDFn returns prefix + decimal index, e.g. "C0", "C1".
func PrefixIDFn(prefix string) func(int) string {
	return func(i int) string { return prefix + strconv.Itoa(i) }
}

// WithIDScheme sets the compound ID generator for intermediates.
// Panics on nil.
func WithIDScheme(fn func(int) string) Option {
	if fn == nil {
		panic("netgen: WithIDScheme(nil)")
	}
	return func(c *genConfig) { c.idFn = fn }
}

// WithTarget sets the ID of the target compound. Panics on "".
func WithTarget(id string) Option {
	if id == "" {
		panic("netgen: WithTarget(\"\")")
	}
	return func(c *genConfig) { c.target = id }
}

// WithSeed attaches a seeded RNG for stochastic constructors.
func WithSeed(seed int64) Option {
	return func(c *genConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand attaches an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("netgen: WithRand(nil)")
	}
	return func(c *genConfig) { c.rng = r }
}

// WithCoefFn sets the stoichiometric coefficient generator. It must
// return positive values. Panics on nil.
func WithCoefFn(fn func(*rand.Rand) float64) Option {
	if fn == nil {
		panic("netgen: WithCoefFn(nil)")
	}
	return func(c *genConfig) { c.coefFn = fn }
}

// WithReversible sets the probability that a random reaction is
// reversible. Panics outside [0,1].
func WithReversible(p float64) Option {
	if p < 0 || p > 1 {
		panic("netgen: WithReversible(p outside [0,1])")
	}
	return func(c *genConfig) { c.revP = p }
}
