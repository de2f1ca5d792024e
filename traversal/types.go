package traversal

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/precursor"
)

// Sentinel errors.
var (
	// ErrNilNetwork is returned when the network argument is nil.
	ErrNilNetwork = errors.New("traversal: network is nil")
	// ErrNilVerifier is returned by Run when no verifier was supplied.
	ErrNilVerifier = errors.New("traversal: verifier is nil")
	// ErrBadOption reports an option outside its valid range.
	ErrBadOption = errors.New("traversal: invalid option")
)

// Verifier decides, in one batch, which candidates produce the target.
// *fba.Verifier satisfies it; results must follow the request order.
type Verifier interface {
	CheckAll(ctx context.Context, reqs []fba.Request) ([]fba.Result, error)
}

// CompletenessFunc reports whether known already holds every minimal
// precursor set of the target. It lets Run stop combining early.
type CompletenessFunc func(ctx context.Context, known []*precursor.Set) (bool, error)

// Options configures a traversal search.
type Options struct {
	// MaxK bounds the number of rejected candidates merged into one
	// combination. Values below 2 disable combination.
	MaxK int
	// MaxDepth bounds the recursion depth of the visit; 0 means unbounded.
	// A branch cut by it ends in a stop compound flagged ReachedSizeK.
	MaxDepth int
	// StopInByProducts cuts a branch whose reaction also yields a compound
	// already on the path. The cut set records that compound as a
	// by-product stop and carries PositiveZeroCycle.
	StopInByProducts bool
	// Rule is the minimality definition of the final reduction.
	Rule precursor.Rule
	// Complete is consulted before every combination round when set.
	Complete CompletenessFunc
	Logger   *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns MaxK 4, an unbounded depth, non-strict
// precursor-subset minimality and a no-op logger.
func DefaultOptions() Options {
	return Options{
		MaxK:   4,
		Rule:   precursor.DefaultRule(),
		Logger: zap.NewNop(),
	}
}

// WithMaxK sets the combination bound.
func WithMaxK(k int) Option { return func(o *Options) { o.MaxK = k } }

// WithMaxDepth sets the recursion bound (0 = unbounded).
func WithMaxDepth(d int) Option { return func(o *Options) { o.MaxDepth = d } }

// WithStopInByProducts enables by-product cuts.
func WithStopInByProducts(on bool) Option { return func(o *Options) { o.StopInByProducts = on } }

// WithRule sets the final minimality rule.
func WithRule(r precursor.Rule) Option { return func(o *Options) { o.Rule = r } }

// WithCompleteness installs an early-stop check for the combination loop.
func WithCompleteness(fn CompletenessFunc) Option { return func(o *Options) { o.Complete = fn } }

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func (o Options) validate() error {
	switch {
	case o.MaxK < 0:
		return fmt.Errorf("%w: MaxK must be >= 0", ErrBadOption)
	case o.MaxDepth < 0:
		return fmt.Errorf("%w: MaxDepth must be >= 0", ErrBadOption)
	}

	return nil
}

// Result is the outcome of Run for one target.
type Result struct {
	Target string
	// Solutions is the reduced, sorted and frozen list of verified sets.
	Solutions []*precursor.Set
	// Candidates counts the sets produced by the visit.
	Candidates int
	// Combinations counts the merged candidates sent to the verifier.
	Combinations int
	// Rounds counts the combination rounds actually run.
	Rounds int
	// Complete is true when the completeness check stopped the loop.
	Complete bool
	// Recursions counts visit calls.
	Recursions int
}
