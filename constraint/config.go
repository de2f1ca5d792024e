// SPDX-License-Identifier: MIT

package constraint

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/precursor"
)

// Sentinel errors.
var (
	// ErrSolverFailure: the solver failed or stopped without a usable status.
	ErrSolverFailure = errors.New("constraint: solver failure")

	// ErrInconsistentSolution: a solution is smaller than the largest one
	// already accepted, so the exclusion constraints are wrong. Fatal.
	ErrInconsistentSolution = errors.New("constraint: inconsistent solution")

	// ErrInfeasibleModel: a solution failed the flux-balance re-check.
	ErrInfeasibleModel = errors.New("constraint: solution rejected by flux balance")

	// ErrNonIntegralObjective: a pool member has a fractional objective.
	// Recovered by falling back to single-solution mode.
	ErrNonIntegralObjective = errors.New("constraint: non-integral pool objective")

	// ErrInvalidConfig: the configuration is inconsistent.
	ErrInvalidConfig = errors.New("constraint: invalid configuration")

	// ErrNotSolving: Next was called after a terminal state.
	ErrNotSolving = errors.New("constraint: enumeration finished")
)

// Kind selects the structural model variant.
type Kind uint8

const (
	// Normal lets every compound accumulate; bootstraps are free.
	Normal Kind = iota
	// DuplicatingMachinery forbids internal production of sources and
	// requires every intermediate to be either net produced (>= ε₂) or
	// not consumed at all.
	DuplicatingMachinery
	// SteadyState holds every intermediate at zero net production.
	SteadyState
)

var kindNames = [...]string{"normal", "duplicating-machinery", "steady-state"}

// String returns the configuration name of k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind maps a configuration name to a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}

	return Normal, fmt.Errorf("%w: unknown model variant %q", ErrInvalidConfig, s)
}

// Variant is the tagged model variant consumed by Build.
type Variant struct {
	Kind Kind
	// Epsilon2 is the production threshold of DuplicatingMachinery.
	Epsilon2 float64
}

// Config is the immutable configuration of one constraint-based search.
type Config struct {
	Variant Variant
	// Epsilon1 is the minimum net production of the target.
	Epsilon1 float64
	// BigM bounds every flux and producer variable.
	BigM float64
	// IndicatorEpsilon is the smallest producer flux counted as "used".
	IndicatorEpsilon float64

	// Population asks the solver for pools of equal-size solutions.
	// Only the Normal variant supports it.
	Population bool
	Pool       milp.PoolParams

	CollectReactions bool
	CollectCumulated bool
	// Rule governs the accepted collection. The zero value is the
	// non-strict precursor-subset rule.
	Rule precursor.Rule
	// Verify re-checks every solution with flux balance (Normal only).
	Verify bool
}

// DefaultConfig returns ε₁ = ε₂ = 0.1, bigM 1000, population mode on with
// capacity 100, gap 0.5 and a one-hour limit.
func DefaultConfig() Config {
	return Config{
		Variant:          Variant{Kind: Normal, Epsilon2: 0.1},
		Epsilon1:         0.1,
		BigM:             1000,
		IndicatorEpsilon: 1e-6,
		Population:       true,
		Pool:             milp.PoolParams{Capacity: 100, AbsGap: 0.5, TimeLimit: time.Hour},
	}
}

// Validate checks ranges and cross-field rules.
func (c Config) Validate() error {
	switch {
	case c.Epsilon1 <= 0:
		return fmt.Errorf("%w: epsilon1 must be positive", ErrInvalidConfig)
	case c.BigM <= c.Epsilon1:
		return fmt.Errorf("%w: bigM must exceed epsilon1", ErrInvalidConfig)
	case c.IndicatorEpsilon <= 0 || c.IndicatorEpsilon >= c.BigM:
		return fmt.Errorf("%w: indicator epsilon out of (0, bigM)", ErrInvalidConfig)
	case c.Variant.Kind > SteadyState:
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Variant.Kind)
	case c.Variant.Kind == DuplicatingMachinery && c.Variant.Epsilon2 <= 0:
		return fmt.Errorf("%w: epsilon2 must be positive", ErrInvalidConfig)
	case c.Verify && c.Variant.Kind != Normal:
		return fmt.Errorf("%w: verification needs the normal variant", ErrInvalidConfig)
	case c.Population && c.Pool.Capacity < 1:
		return fmt.Errorf("%w: pool capacity must be positive", ErrInvalidConfig)
	}

	return nil
}

// populate reports whether pools are used for this variant.
func (c Config) populate() bool { return c.Population && c.Variant.Kind == Normal }
