package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MPS_"

// Load builds the configuration from defaults, the file at path (skipped
// when empty), the .env file envFile (".env" when empty, ignored if that
// file is missing) and the environment, then validates it.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := loadDotenv(envFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return errors.Wrapf(err, "parse YAML config %s", path)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return errors.Wrapf(err, "parse TOML config %s", path)
		}
	default:
		return errors.Wrapf(ErrInvalid, "config file %s: unsupported extension", path)
	}

	return nil
}

// loadDotenv exports the variables of a .env file that are not set yet.
func loadDotenv(envFile string) error {
	if envFile == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		envFile = ".env"
	}

	return errors.Wrapf(godotenv.Load(envFile), "load %s", envFile)
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from MPS_* variables read through lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(p *string) func(string) error {
		return func(v string) error { *p = v; return nil }
	}
	boolean := func(p *bool) func(string) error {
		return func(v string) error {
			b, err := strconv.ParseBool(v)
			if err == nil {
				*p = b
			}
			return err
		}
	}
	integer := func(p *int) func(string) error {
		return func(v string) error {
			n, err := strconv.Atoi(v)
			if err == nil {
				*p = n
			}
			return err
		}
	}
	float := func(p *float64) func(string) error {
		return func(v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err == nil {
				*p = f
			}
			return err
		}
	}
	duration := func(p *Duration) func(string) error {
		return func(v string) error {
			d, err := time.ParseDuration(v)
			if err == nil {
				*p = Duration(d)
			}
			return err
		}
	}

	s := &c.Search
	overrides := []struct {
		key string
		set func(string) error
	}{
		{"USER_DEFINED_ONLY", boolean(&c.Network.UserDefinedOnly)},
		{"REVERSIBLE_RULE", boolean(&c.Network.ReversibleRule)},
		{"STRATEGY", str(&s.Strategy)},
		{"MODE", str(&s.Mode)},
		{"VARIANT", str(&s.Variant)},
		{"EPSILON1", float(&s.Epsilon1)},
		{"EPSILON2", float(&s.Epsilon2)},
		{"BIG_M", float(&s.BigM)},
		{"POPULATION", boolean(&s.Population)},
		{"POOL_CAPACITY", integer(&s.PoolCapacity)},
		{"POOL_TIME_LIMIT", duration(&s.PoolTimeLimit)},
		{"VERIFY", boolean(&s.Verify)},
		{"MAX_K", integer(&s.MaxK)},
		{"MAX_DEPTH", integer(&s.MaxDepth)},
		{"STOP_IN_BY_PRODUCTS", boolean(&s.StopInByProducts)},
		{"THREADS", integer(&c.Solver.Threads)},
		{"MAX_NODES", integer(&c.Solver.MaxNodes)},
		{"OUTPUT_DIR", str(&c.Output.Dir)},
		{"OUTPUT_FORMAT", str(&c.Output.Format)},
		{"LOG_LEVEL", str(&c.Log.Level)},
		{"LOG_FILE", str(&c.Log.File)},
		{"METRICS_FILE", str(&c.Metrics.File)},
	}
	for _, o := range overrides {
		v, ok := lookup(EnvPrefix + o.key)
		if !ok {
			continue
		}
		if err := o.set(strings.TrimSpace(v)); err != nil {
			return errors.Wrapf(ErrInvalid, "%s%s=%q: %v", EnvPrefix, o.key, v, err)
		}
	}

	return nil
}
