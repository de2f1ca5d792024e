package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/config"
	"github.com/katalvlaran/precursor/logging"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// errTargetsFailed: at least one target ended with a recoverable error.
	errTargetsFailed = errors.New("some targets ended early, see the log")
	// errRejectedSets: flux balance rejected at least one checked set.
	errRejectedSets = errors.New("rejected by flux balance")
)

// app carries what the persistent flags resolve to.
type app struct {
	configFile string
	envFile    string
	logLevel   string

	cfg    *config.Config
	log    *zap.Logger
	closer io.Closer
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mpsfind",
		Short: "Minimal precursor set finder",
		Long: `mpsfind enumerates the minimal sets of precursor compounds from which a
metabolic network can produce its target compounds.

Settings come from defaults, an optional YAML or TOML file (--config), a .env
file and MPS_* environment variables, in increasing priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "configuration file (.yaml, .yml or .toml)")
	root.PersistentFlags().StringVar(&a.envFile, "env", "", "dotenv file (default .env when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(newSearchCommand(a), newCheckCommand(a), newVersionCommand())

	return root
}

// setup loads the configuration, applies edit and builds the logger.
// Callers must defer a.close.
func (a *app) setup(edit func(*config.Config)) error {
	cfg, err := config.Load(a.configFile, a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if edit != nil {
		edit(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, log, closer

	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mpsfind %s\n", version)
		},
	}
}
