package constraint

import (
	"context"

	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// Strategy runs an Enumerator to completion for each target it is given.
type Strategy struct {
	Solver milp.Solver
	Config Config
	// VerifierOptions configure the flux-balance verifier built per target
	// when Config.Verify is on.
	VerifierOptions []fba.Option
	Logger          *zap.Logger
}

// Name identifies the strategy in reports and metrics.
func (s *Strategy) Name() string { return "constraint" }

// Search enumerates the minimal precursor sets of target in net.
// Accepted solutions are returned even when err is non-nil.
func (s *Strategy) Search(ctx context.Context, net *network.Network, target string) ([]*precursor.Set, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	opts := []Option{WithLogger(log)}
	if s.Config.Verify {
		v, err := fba.New(net, s.Solver, append([]fba.Option{fba.WithLogger(log)}, s.VerifierOptions...)...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithVerifier(v))
	}
	e, err := NewEnumerator(net, target, s.Solver, s.Config, opts...)
	if err != nil {
		return nil, err
	}

	return e.All(ctx)
}
