// SPDX-License-Identifier: MIT
// File: engine.go
// Role: per-target orchestration of a search strategy.
// Run steps:
//   1. Clone the input network (copy-on-write) and flag the targets.
//   2. Optionally derive topological precursors and remove forbidden
//      ones on that base copy.
//   3. For every target (one-by-one) or for the artificial joint target,
//      clone the base again, check forward reachability from the
//      precursors, call the strategy and audit minimality of its result.
//   4. Fatal errors abort the run; other errors end only their target.
// The caller's network is never modified.

package finder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/constraint"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// Engine runs one strategy over the targets of a network.
type Engine struct {
	strategy Strategy
	opts     Options
}

// New returns an Engine using s.
func New(s Strategy, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, ErrNilStrategy
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return &Engine{strategy: s, opts: o}, nil
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Run searches every target and returns the report. When targets is
// empty, the compounds flagged FlagTarget in net are used. The report is
// returned with the error of a fatal failure, holding the targets
// finished so far.
func (e *Engine) Run(ctx context.Context, net *network.Network, targets ...string) (*Report, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	rep := &Report{
		RunID:    uuid.NewString(),
		Strategy: e.strategy.Name(),
		Mode:     e.opts.Mode,
		Started:  time.Now(),
	}
	log := e.opts.Logger.With(zap.String("run", rep.RunID), zap.String("strategy", rep.Strategy))
	defer func() { rep.Duration = time.Since(rep.Started) }()

	// 1. Base copy
	base, targets, err := e.prepare(net, targets)
	if err != nil {
		return rep, err
	}

	// 2. Preprocessing
	if e.opts.RemoveForbidden {
		rep.Removed = base.RemoveForbiddenPrecursors()
		if len(rep.Removed) > 0 {
			log.Info("forbidden precursors removed", zap.Strings("compounds", rep.Removed))
		}
	}
	for _, p := range base.Precursors() {
		rep.Precursors = append(rep.Precursors, p.ID)
	}
	log.Info("search started",
		zap.Stringer("mode", e.opts.Mode),
		zap.Strings("targets", targets),
		zap.Int("precursors", len(rep.Precursors)))

	// 3. Targets
	if e.opts.Mode == Joint && len(targets) > 1 {
		work := base.Clone()
		id, err := work.AddArtificialTarget(targets)
		if err != nil {
			return rep, fmt.Errorf("finder: joint target: %w", err)
		}
		tr, err := e.search(ctx, log, work, id)
		tr.Targets = targets
		rep.Targets = append(rep.Targets, tr)
		if err != nil {
			return rep, err
		}
	} else {
		for _, t := range targets {
			tr, err := e.search(ctx, log, base.Clone(), t)
			rep.Targets = append(rep.Targets, tr)
			if err != nil {
				return rep, err
			}
		}
	}
	log.Info("search finished", zap.Int("targets", len(rep.Targets)), zap.Bool("failed", rep.Failed()))

	return rep, nil
}

// prepare clones net, resolves and flags the targets and derives the
// topological precursors.
func (e *Engine) prepare(net *network.Network, targets []string) (*network.Network, []string, error) {
	base := net.Clone()
	if len(targets) == 0 {
		for _, t := range base.Targets() {
			targets = append(targets, t.ID)
		}
	}
	if len(targets) == 0 {
		return nil, nil, ErrNoTargets
	}
	for _, t := range targets {
		if err := base.SetFlag(t, network.FlagTarget, true); err != nil {
			return nil, nil, fmt.Errorf("finder: target %q: %w", t, err)
		}
	}
	if e.opts.Topological {
		base.MarkTopologicalPrecursors()
	}

	return base, targets, nil
}

// search runs the strategy on work for one target. Only fatal errors are
// returned; the others are recorded in the report.
func (e *Engine) search(ctx context.Context, log *zap.Logger, work *network.Network, target string) (TargetReport, error) {
	tr := TargetReport{Target: target}
	log = log.With(zap.String("target", target))
	name := e.strategy.Name()
	m := e.opts.Metrics
	if m != nil {
		m.Targets.WithLabelValues(name, e.opts.Mode.String()).Inc()
	}

	// Reachability
	var seeds []string
	for _, p := range work.Precursors() {
		seeds = append(seeds, p.ID)
	}
	for _, b := range work.Bootstraps() {
		seeds = append(seeds, b.ID)
	}
	scope, err := work.ForwardScope(ctx, seeds)
	if err != nil {
		return tr, err
	}
	tr.Reachable = scope.Contains(target)
	if !tr.Reachable {
		log.Warn("target outside the forward scope of the precursors")
	}

	// Search
	start := time.Now()
	sets, err := e.strategy.Search(ctx, work, target)
	tr.Duration = time.Since(start)
	if m != nil {
		m.Duration.WithLabelValues(name).Observe(tr.Duration.Seconds())
	}
	tr.Solutions = finalize(sets)
	if m != nil {
		m.Solutions.WithLabelValues(name).Add(float64(len(tr.Solutions)))
	}
	if err != nil {
		if m != nil {
			m.Errors.WithLabelValues(name).Inc()
		}
		if fatal(err) {
			log.Error("search aborted", zap.Error(err))
			return tr, err
		}
		tr.Err = err
		log.Warn("search ended early", zap.Error(err), zap.Int("solutions", len(tr.Solutions)))
	}

	// Minimality audit
	tr.Violations = e.opts.Rule.Violations(tr.Solutions)
	for _, v := range tr.Violations {
		log.Error("solution is not minimal",
			zap.Stringer("subset", tr.Solutions[v.Subset]),
			zap.Stringer("superset", tr.Solutions[v.Superset]))
	}
	if m != nil && len(tr.Violations) > 0 {
		m.Violations.Add(float64(len(tr.Violations)))
	}
	log.Info("target done",
		zap.Int("solutions", len(tr.Solutions)),
		zap.Duration("took", tr.Duration))

	return tr, nil
}

// finalize returns a sorted copy of sets with every member frozen.
func finalize(sets []*precursor.Set) []*precursor.Set {
	out := append([]*precursor.Set(nil), sets...)
	precursor.Sort(out)
	for _, s := range out {
		s.Freeze()
	}

	return out
}

// fatal reports errors that invalidate the whole run.
func fatal(err error) bool {
	return constraint.IsFatal(err) ||
		errors.Is(err, network.ErrCompoundNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
