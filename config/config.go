// Package config holds the immutable run configuration of the command
// line tool and converts it into the options of each library package.
//
// Sources, lowest priority first: Default, a YAML or TOML file, a .env
// file, then MPS_* environment variables. Load validates the result.
package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/katalvlaran/precursor/logging"
)

// Config is the full run configuration.
type Config struct {
	Network NetworkConfig   `yaml:"network" toml:"network"`
	Search  SearchConfig    `yaml:"search" toml:"search"`
	Solver  SolverConfig    `yaml:"solver" toml:"solver"`
	Output  OutputConfig    `yaml:"output" toml:"output"`
	Log     logging.Options `yaml:"log" toml:"log"`
	Metrics MetricsConfig   `yaml:"metrics" toml:"metrics"`
}

// NetworkConfig controls preprocessing of the loaded network.
type NetworkConfig struct {
	// UserDefinedOnly ignores topological precursors.
	UserDefinedOnly bool `yaml:"user_defined_only" toml:"user_defined_only"`
	// ReversibleRule also derives precursors produced only by one
	// reversible reaction.
	ReversibleRule  bool   `yaml:"reversible_rule" toml:"reversible_rule"`
	Topological     bool   `yaml:"topological" toml:"topological"`
	RemoveForbidden bool   `yaml:"remove_forbidden" toml:"remove_forbidden"`
	ReverseSuffix   string `yaml:"reverse_suffix" toml:"reverse_suffix" validate:"required"`
}

// SearchConfig selects and tunes the search strategy.
type SearchConfig struct {
	Strategy string `yaml:"strategy" toml:"strategy" validate:"oneof=constraint traversal"`
	Mode     string `yaml:"mode" toml:"mode" validate:"oneof=one-by-one joint"`
	Variant  string `yaml:"variant" toml:"variant" validate:"oneof=normal duplicating-machinery steady-state"`

	Epsilon1         float64 `yaml:"epsilon1" toml:"epsilon1" validate:"gt=0"`
	Epsilon2         float64 `yaml:"epsilon2" toml:"epsilon2" validate:"gt=0"`
	BigM             float64 `yaml:"big_m" toml:"big_m" validate:"gtfield=Epsilon1"`
	IndicatorEpsilon float64 `yaml:"indicator_epsilon" toml:"indicator_epsilon" validate:"gt=0"`

	Population    bool     `yaml:"population" toml:"population"`
	PoolCapacity  int      `yaml:"pool_capacity" toml:"pool_capacity" validate:"gte=1"`
	PoolGap       float64  `yaml:"pool_gap" toml:"pool_gap" validate:"gte=0"`
	PoolTimeLimit Duration `yaml:"pool_time_limit" toml:"pool_time_limit" validate:"gte=0"`

	// Verify re-checks constraint solutions with flux balance.
	Verify bool `yaml:"verify" toml:"verify"`
	// Strict requires production >= Epsilon1 in flux balance checks.
	Strict bool `yaml:"strict" toml:"strict"`

	MaxK          int  `yaml:"max_k" toml:"max_k" validate:"gte=0"`
	MaxDepth      int  `yaml:"max_depth" toml:"max_depth" validate:"gte=0"`
	CheckComplete bool `yaml:"check_complete" toml:"check_complete"`
	// StopInByProducts cuts traversal branches whose reaction also yields
	// a compound already on the path.
	StopInByProducts bool `yaml:"stop_in_by_products" toml:"stop_in_by_products"`

	Minimality       string `yaml:"minimality" toml:"minimality" validate:"oneof=precursor-subset precursor-bootstrap"`
	StrictMinimality bool   `yaml:"strict_minimality" toml:"strict_minimality"`
}

// SolverConfig tunes the MILP solver and the flux-balance verifier.
type SolverConfig struct {
	FeasibilityTol float64 `yaml:"feasibility_tol" toml:"feasibility_tol" validate:"gt=0,lt=1e-8"`
	IntegralityTol float64 `yaml:"integrality_tol" toml:"integrality_tol" validate:"gt=0,lt=1e-8"`
	SimplexTol     float64 `yaml:"simplex_tol" toml:"simplex_tol" validate:"gt=0,lt=1e-8"`
	MaxNodes       int     `yaml:"max_nodes" toml:"max_nodes" validate:"gte=0"`
	Threads        int     `yaml:"threads" toml:"threads" validate:"gte=1"`
	CacheSize      int     `yaml:"cache_size" toml:"cache_size" validate:"gte=0"`
}

// OutputConfig controls result files.
type OutputConfig struct {
	Dir       string `yaml:"dir" toml:"dir"`
	Format    string `yaml:"format" toml:"format" validate:"oneof=xml yaml"`
	Reactions bool   `yaml:"reactions" toml:"reactions"`
	Cumulated bool   `yaml:"cumulated" toml:"cumulated"`
}

// MetricsConfig names the Prometheus namespace and an optional text file
// the collected metrics are written to when the run ends.
type MetricsConfig struct {
	Namespace string `yaml:"namespace" toml:"namespace" validate:"required"`
	File      string `yaml:"file" toml:"file"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			ReversibleRule:  true,
			Topological:     true,
			RemoveForbidden: true,
			ReverseSuffix:   "_REV",
		},
		Search: SearchConfig{
			Strategy:         "constraint",
			Mode:             "one-by-one",
			Variant:          "normal",
			Epsilon1:         0.1,
			Epsilon2:         0.1,
			BigM:             1000,
			IndicatorEpsilon: 1e-6,
			Population:       true,
			PoolCapacity:     100,
			PoolGap:          0.5,
			PoolTimeLimit:    Duration(time.Hour),
			MaxK:             4,
			Minimality:       "precursor-subset",
		},
		Solver: SolverConfig{
			FeasibilityTol: 1e-9,
			IntegralityTol: 1e-9,
			SimplexTol:     1e-10,
			MaxNodes:       1_000_000,
			Threads:        1,
			CacheSize:      4096,
		},
		Output:  OutputConfig{Dir: ".", Format: "xml"},
		Log:     logging.DefaultOptions(),
		Metrics: MetricsConfig{Namespace: "mpsfind"},
	}
}

// Duration is a time.Duration written as "90s" or "1h" in files.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrapf(err, "duration %q", b)
	}
	*d = Duration(v)

	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
