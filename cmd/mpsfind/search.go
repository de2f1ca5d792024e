package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/precursor/config"
	"github.com/katalvlaran/precursor/finder"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/netio"
	"github.com/katalvlaran/precursor/network"
)

type searchFlags struct {
	network  string
	marks    string
	targets  []string
	strategy string
	mode     string
	out      string
}

func newSearchCommand(a *app) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Enumerate minimal precursor sets",
		Long: `search loads a network description, applies an optional marks file and
writes one result file per target into the output directory.

Without --target every compound marked as target is searched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.setup(func(c *config.Config) {
				flags := cmd.Flags()
				if flags.Changed("strategy") {
					c.Search.Strategy = f.strategy
				}
				if flags.Changed("mode") {
					c.Search.Mode = f.mode
				}
				if flags.Changed("out") {
					c.Output.Dir = f.out
				}
			})
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runSearch(ctx, a, f, cmd)
		},
	}
	cmd.Flags().StringVarP(&f.network, "network", "n", "", "network description (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&f.marks, "marks", "m", "", "marks file listing inputs, precursors, bootstraps, targets and forbidden compounds")
	cmd.Flags().StringSliceVarP(&f.targets, "target", "t", nil, "target compound; repeat or separate with commas")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "override search.strategy (constraint, traversal)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "override search.mode (one-by-one, joint)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "override output.dir")
	_ = cmd.MarkFlagRequired("network")

	return cmd
}

func runSearch(ctx context.Context, a *app, f *searchFlags, cmd *cobra.Command) error {
	cfg, log := a.cfg, a.log

	net, err := netio.ReadNetwork(f.network, cfg.NetworkOptions()...)
	if err != nil {
		return err
	}
	if f.marks != "" {
		marks, err := netio.ReadMarks(f.marks)
		if err != nil {
			return err
		}
		if err := marks.Apply(net); err != nil {
			log.Warn("marks reference unknown compounds", zap.Error(err))
		}
	}

	metrics := finder.NewMetrics(cfg.Metrics.Namespace)
	solver := metrics.InstrumentSolver(milp.NewSolver(cfg.SolverOptions()...))
	strategy, err := cfg.Strategy(solver, log)
	if err != nil {
		return err
	}
	opts, err := cfg.FinderOptions(log)
	if err != nil {
		return err
	}
	engine, err := finder.New(strategy, append(opts, finder.WithMetrics(metrics))...)
	if err != nil {
		return err
	}

	rep, err := engine.Run(ctx, net, f.targets...)
	if err != nil {
		return err
	}
	if err := writeReport(cfg, net, rep, cmd); err != nil {
		return err
	}
	if cfg.Metrics.File != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.File, metrics.Registry()); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	if rep.Failed() {
		return errors.Wrapf(errTargetsFailed, "run %s", rep.RunID)
	}

	return nil
}

// writeReport writes one result file per target and prints a summary line
// for each.
func writeReport(cfg *config.Config, net *network.Network, rep *finder.Report, cmd *cobra.Command) error {
	format, err := netio.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}
	out := cmd.OutOrStdout()
	for _, tr := range rep.Targets {
		name := tr.Target
		if len(tr.Targets) > 0 {
			name = "joint"
		}
		path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("%s_PS.%s", fileName(name), format))
		doc := netio.NewDocument(tr.Target, net, tr.Solutions, cfg.Detail())
		if err := netio.WriteResults(path, doc); err != nil {
			return err
		}
		status := "ok"
		switch {
		case tr.Err != nil:
			status = "partial"
		case !tr.Reachable:
			status = "unreachable"
		}
		fmt.Fprintf(out, "%s\t%d sets\t%s\t%s\n", name, len(tr.Solutions), status, path)
	}

	return nil
}

// fileName replaces path separators so compound IDs stay single file names.
func fileName(id string) string {
	return strings.NewReplacer("/", "_", "\\", "_", string(filepath.Separator), "_").Replace(id)
}
