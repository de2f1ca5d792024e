package traversal

import (
	"context"

	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/constraint"
	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// Strategy runs the traversal search with a flux-balance verifier built
// on the searched network.
type Strategy struct {
	Solver          milp.Solver
	Options         []Option
	VerifierOptions []fba.Option
	// CheckComplete stops the combination loop as soon as one MILP solve
	// proves the accepted list exhaustive.
	CheckComplete bool
	// Constraint configures that MILP; only its numeric fields matter.
	// The zero value means constraint.DefaultConfig.
	Constraint constraint.Config
	Logger     *zap.Logger
}

// Name identifies the strategy in reports and metrics.
func (s *Strategy) Name() string { return "traversal" }

// Search returns the minimal precursor sets of target in net.
func (s *Strategy) Search(ctx context.Context, net *network.Network, target string) ([]*precursor.Set, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	v, err := fba.New(net, s.Solver, append([]fba.Option{fba.WithLogger(log)}, s.VerifierOptions...)...)
	if err != nil {
		return nil, err
	}
	opts := append([]Option{WithLogger(log)}, s.Options...)
	if s.CheckComplete {
		cfg := s.Constraint
		if cfg.BigM == 0 {
			cfg = constraint.DefaultConfig()
		}
		cfg.Variant = constraint.Variant{Kind: constraint.Normal}
		cfg.Population = false
		cfg.Verify = false
		opts = append(opts, WithCompleteness(func(ctx context.Context, known []*precursor.Set) (bool, error) {
			return constraint.Complete(ctx, net, target, s.Solver, cfg, known)
		}))
	}
	res, err := New(v, opts...).Run(ctx, net, target)
	if err != nil {
		return nil, err
	}

	return res.Solutions, nil
}
