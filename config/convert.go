package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/constraint"
	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/finder"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/netio"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
	"github.com/katalvlaran/precursor/traversal"
)

// NetworkOptions returns the options of network.New.
func (c *Config) NetworkOptions() []network.Option {
	opts := []network.Option{
		network.WithReversibleRule(c.Network.ReversibleRule),
		network.WithReverseSuffix(c.Network.ReverseSuffix),
	}
	if c.Network.UserDefinedOnly {
		opts = append(opts, network.WithUserDefinedOnly())
	}

	return opts
}

// SolverOptions returns the options of milp.NewSolver.
func (c *Config) SolverOptions() []milp.Option {
	return []milp.Option{
		milp.WithFeasibilityTol(c.Solver.FeasibilityTol),
		milp.WithIntegralityTol(c.Solver.IntegralityTol),
		milp.WithSimplexTol(c.Solver.SimplexTol),
		milp.WithMaxNodes(c.Solver.MaxNodes),
	}
}

// VerifierOptions returns the options of fba.New.
func (c *Config) VerifierOptions() []fba.Option {
	opts := []fba.Option{
		fba.WithBigM(c.Search.BigM),
		fba.WithEpsilon1(c.Search.Epsilon1),
		fba.WithStrict(c.Search.Strict),
		fba.WithCacheSize(c.Solver.CacheSize),
		fba.WithThreads(c.Solver.Threads),
	}
	if c.Search.Variant == "steady-state" {
		opts = append(opts, fba.WithSteadyState())
	}

	return opts
}

// Constraint returns the constraint-search configuration.
func (c *Config) Constraint() (constraint.Config, error) {
	kind, err := constraint.ParseKind(c.Search.Variant)
	if err != nil {
		return constraint.Config{}, errors.Wrap(ErrInvalid, err.Error())
	}
	rule, err := c.Rule()
	if err != nil {
		return constraint.Config{}, err
	}
	s := c.Search
	cc := constraint.Config{
		Variant:          constraint.Variant{Kind: kind, Epsilon2: s.Epsilon2},
		Epsilon1:         s.Epsilon1,
		BigM:             s.BigM,
		IndicatorEpsilon: s.IndicatorEpsilon,
		Population:       s.Population,
		Pool: milp.PoolParams{
			Capacity:  s.PoolCapacity,
			AbsGap:    s.PoolGap,
			TimeLimit: s.PoolTimeLimit.Std(),
		},
		CollectReactions: c.Output.Reactions,
		CollectCumulated: c.Output.Cumulated,
		Rule:             rule,
		Verify:           s.Verify,
	}
	if err := cc.Validate(); err != nil {
		return cc, errors.Wrap(ErrInvalid, err.Error())
	}

	return cc, nil
}

// Rule returns the final minimality rule.
func (c *Config) Rule() (precursor.Rule, error) {
	d, err := precursor.ParseDefinition(c.Search.Minimality)
	if err != nil {
		return precursor.Rule{}, errors.Wrap(ErrInvalid, err.Error())
	}

	return precursor.Rule{Definition: d, Strict: c.Search.StrictMinimality}, nil
}

// TraversalOptions returns the options of the traversal search.
func (c *Config) TraversalOptions() ([]traversal.Option, error) {
	rule, err := c.Rule()
	if err != nil {
		return nil, err
	}

	return []traversal.Option{
		traversal.WithMaxK(c.Search.MaxK),
		traversal.WithMaxDepth(c.Search.MaxDepth),
		traversal.WithStopInByProducts(c.Search.StopInByProducts),
		traversal.WithRule(rule),
	}, nil
}

// FinderOptions returns the engine options, without metrics.
func (c *Config) FinderOptions(log *zap.Logger) ([]finder.Option, error) {
	mode, err := finder.ParseMode(c.Search.Mode)
	if err != nil {
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	rule, err := c.Rule()
	if err != nil {
		return nil, err
	}

	return []finder.Option{
		finder.WithMode(mode),
		finder.WithRule(rule),
		finder.WithTopological(c.Network.Topological),
		finder.WithRemoveForbidden(c.Network.RemoveForbidden),
		finder.WithLogger(log),
	}, nil
}

// Strategy returns the configured search strategy over solver.
func (c *Config) Strategy(solver milp.Solver, log *zap.Logger) (finder.Strategy, error) {
	cc, err := c.Constraint()
	if err != nil {
		return nil, err
	}
	switch c.Search.Strategy {
	case "constraint":
		return &constraint.Strategy{
			Solver:          solver,
			Config:          cc,
			VerifierOptions: c.VerifierOptions(),
			Logger:          log,
		}, nil
	case "traversal":
		opts, err := c.TraversalOptions()
		if err != nil {
			return nil, err
		}
		return &traversal.Strategy{
			Solver:          solver,
			Options:         opts,
			VerifierOptions: c.VerifierOptions(),
			CheckComplete:   c.Search.CheckComplete,
			Constraint:      cc,
			Logger:          log,
		}, nil
	}

	return nil, errors.Wrapf(ErrInvalid, "unknown strategy %q", c.Search.Strategy)
}

// Detail returns the optional solution parts written to result files.
func (c *Config) Detail() netio.Detail {
	return netio.Detail{Reactions: c.Output.Reactions, Cumulated: c.Output.Cumulated}
}
