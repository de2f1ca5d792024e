package milp

// Options configures the branch-and-bound solver.
//   - FeasibilityTol: constraint violation tolerance (EpRHS), default 1e-9.
//   - IntegralityTol: distance from an integer accepted for binaries (EpInt), default 1e-9.
//   - SimplexTol: reduced-cost tolerance handed to the LP engine, default 1e-10.
//   - MaxNodes: branch-and-bound node budget per solve, 0 = unlimited.
type Options struct {
	FeasibilityTol float64
	IntegralityTol float64
	SimplexTol     float64
	MaxNodes       int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns tolerances below 1e-8 and a one-million node budget.
func DefaultOptions() Options {
	return Options{
		FeasibilityTol: 1e-9,
		IntegralityTol: 1e-9,
		SimplexTol:     1e-10,
		MaxNodes:       1_000_000,
	}
}

// WithFeasibilityTol sets FeasibilityTol; non-positive values are ignored.
func WithFeasibilityTol(tol float64) Option {
	return func(o *Options) {
		if tol > 0 {
			o.FeasibilityTol = tol
		}
	}
}

// WithIntegralityTol sets IntegralityTol; non-positive values are ignored.
func WithIntegralityTol(tol float64) Option {
	return func(o *Options) {
		if tol > 0 {
			o.IntegralityTol = tol
		}
	}
}

// WithSimplexTol sets SimplexTol; non-positive values are ignored.
func WithSimplexTol(tol float64) Option {
	return func(o *Options) {
		if tol > 0 {
			o.SimplexTol = tol
		}
	}
}

// WithMaxNodes sets the node budget; 0 removes it.
func WithMaxNodes(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MaxNodes = n
		}
	}
}
