// SPDX-License-Identifier: MIT

package finder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// Sentinel errors.
var (
	// ErrNilStrategy is returned by New when no strategy is given.
	ErrNilStrategy = errors.New("finder: strategy is nil")
	// ErrNilNetwork is returned by Run for a nil network.
	ErrNilNetwork = errors.New("finder: network is nil")
	// ErrNoTargets is returned when neither the caller nor the network
	// names a target.
	ErrNoTargets = errors.New("finder: no target compounds")
)

// Strategy searches the minimal precursor sets of one target. The network
// handed to Search is a private copy; the strategy may mutate it.
// Solutions accepted before an error are returned with it.
type Strategy interface {
	Name() string
	Search(ctx context.Context, net *network.Network, target string) ([]*precursor.Set, error)
}

// Mode selects how several targets are searched.
type Mode uint8

const (
	// OneByOne searches every target on its own copy of the network.
	OneByOne Mode = iota
	// Joint searches one artificial target that consumes every target.
	Joint
)

// String returns "one-by-one" or "joint".
func (m Mode) String() string {
	if m == Joint {
		return "joint"
	}

	return "one-by-one"
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "one-by-one":
		return OneByOne, nil
	case "joint":
		return Joint, nil
	}

	return 0, fmt.Errorf("finder: unknown mode %q", s)
}

// Options configures an Engine.
type Options struct {
	Mode Mode
	// Topological flags graph-source compounds as precursors before
	// searching.
	Topological bool
	// RemoveForbidden drops forbidden precursors and their reactions.
	RemoveForbidden bool
	// Rule is the minimality definition the final audit checks.
	Rule precursor.Rule
	// Metrics records run statistics when set.
	Metrics *Metrics
	Logger  *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns one-by-one mode, topological derivation and
// forbidden-precursor removal on, the default minimality rule, no metrics
// and a no-op logger.
func DefaultOptions() Options {
	return Options{
		Mode:            OneByOne,
		Topological:     true,
		RemoveForbidden: true,
		Rule:            precursor.DefaultRule(),
		Logger:          zap.NewNop(),
	}
}

// WithMode sets the multi-target mode.
func WithMode(m Mode) Option { return func(o *Options) { o.Mode = m } }

// WithTopological toggles topological precursor derivation.
func WithTopological(on bool) Option { return func(o *Options) { o.Topological = on } }

// WithRemoveForbidden toggles forbidden-precursor removal.
func WithRemoveForbidden(on bool) Option { return func(o *Options) { o.RemoveForbidden = on } }

// WithRule sets the minimality rule of the audit.
func WithRule(r precursor.Rule) Option { return func(o *Options) { o.Rule = r } }

// WithMetrics attaches a metrics collector.
func WithMetrics(m *Metrics) Option { return func(o *Options) { o.Metrics = m } }

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// TargetReport is the outcome of one searched target.
type TargetReport struct {
	Target string
	// Targets lists the original targets a joint search stands for.
	Targets []string
	// Solutions is sorted and frozen.
	Solutions []*precursor.Set
	// Reachable is false when the forward scope of all precursors does
	// not contain the target.
	Reachable bool
	// Violations lists nested pairs found by the minimality audit.
	Violations []precursor.Violation
	Duration   time.Duration
	// Err is the non-fatal error that ended the search early.
	Err error
}

// Report is the outcome of Engine.Run.
type Report struct {
	RunID    string
	Strategy string
	Mode     Mode
	Started  time.Time
	Duration time.Duration
	// Precursors lists the precursor IDs of the prepared network.
	Precursors []string
	// Removed lists forbidden precursors dropped before searching.
	Removed []string
	Targets []TargetReport
}

// Solutions returns the solutions recorded for target, or nil.
func (r *Report) Solutions(target string) []*precursor.Set {
	for _, t := range r.Targets {
		if t.Target == target {
			return t.Solutions
		}
	}

	return nil
}

// Failed reports whether any target ended with an error.
func (r *Report) Failed() bool {
	for _, t := range r.Targets {
		if t.Err != nil {
			return true
		}
	}

	return false
}
