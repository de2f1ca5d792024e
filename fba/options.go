package fba

import "go.uber.org/zap"

// Options configures a Verifier.
//   - BigM: upper bound of every reaction flux and producer, default 1000.
//   - Epsilon1: minimum target production accepted in Strict mode, default 0.1.
//   - Strict: require production >= Epsilon1 instead of > 0.
//   - FreeAccumulate: let every compound accumulate (net >= 0) instead of
//     holding non-target compounds at steady state, default true.
//   - CacheSize: number of memoized productions, default 4096 (0 disables).
//   - Threads: bound on concurrent solves in CheckAll, default 1.
type Options struct {
	BigM           float64
	Epsilon1       float64
	Strict         bool
	FreeAccumulate bool
	CacheSize      int
	Threads        int
	Logger         *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults with a no-op logger.
func DefaultOptions() Options {
	return Options{
		BigM:           1000,
		Epsilon1:       0.1,
		FreeAccumulate: true,
		CacheSize:      4096,
		Threads:        1,
		Logger:         zap.NewNop(),
	}
}

// WithBigM sets the flux bound.
func WithBigM(m float64) Option { return func(o *Options) { o.BigM = m } }

// WithEpsilon1 sets the strict production threshold.
func WithEpsilon1(eps float64) Option { return func(o *Options) { o.Epsilon1 = eps } }

// WithStrict toggles the Epsilon1 threshold.
func WithStrict(on bool) Option { return func(o *Options) { o.Strict = on } }

// WithSteadyState holds every non-target compound at zero net production.
func WithSteadyState() Option { return func(o *Options) { o.FreeAccumulate = false } }

// WithCacheSize sets the memoization capacity; 0 disables the cache.
func WithCacheSize(n int) Option { return func(o *Options) { o.CacheSize = n } }

// WithThreads bounds CheckAll concurrency; values below 1 mean 1.
func WithThreads(n int) Option {
	return func(o *Options) {
		if n < 1 {
			n = 1
		}
		o.Threads = n
	}
}

// WithLogger sets the logger; nil keeps the current one.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
