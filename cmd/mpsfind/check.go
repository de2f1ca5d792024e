package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/precursor/fba"
	"github.com/katalvlaran/precursor/milp"
	"github.com/katalvlaran/precursor/netio"
	"github.com/katalvlaran/precursor/network"
)

type checkFlags struct {
	network string
	marks   string
	results string
	targets []string
}

func newCheckCommand(a *app) *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Re-check a result file with flux balance",
		Long: `check reads a result file and computes, for every precursor set in it, the
maximum production of the target when only the set and the bootstraps are
supplied. Joint results are checked against the targets given with --target,
or the targets marked in the network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(nil); err != nil {
				return err
			}
			defer a.close()

			return runCheck(cmd, a, f)
		},
	}
	cmd.Flags().StringVarP(&f.network, "network", "n", "", "network description (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&f.marks, "marks", "m", "", "marks file applied before checking")
	cmd.Flags().StringVarP(&f.results, "results", "r", "", "result file (.xml or .yaml)")
	cmd.Flags().StringSliceVarP(&f.targets, "target", "t", nil, "targets of a joint result")
	_ = cmd.MarkFlagRequired("network")
	_ = cmd.MarkFlagRequired("results")

	return cmd
}

func runCheck(cmd *cobra.Command, a *app, f *checkFlags) error {
	net, err := netio.ReadNetwork(f.network, a.cfg.NetworkOptions()...)
	if err != nil {
		return err
	}
	if f.marks != "" {
		marks, err := netio.ReadMarks(f.marks)
		if err != nil {
			return err
		}
		if err := marks.Apply(net); err != nil {
			return err
		}
	}
	doc, err := netio.ReadResults(f.results)
	if err != nil {
		return err
	}
	if doc.Target == network.ArtificialTargetID {
		targets := f.targets
		if len(targets) == 0 {
			for _, r := range net.Targets() {
				targets = append(targets, r.ID)
			}
		}
		if _, err := net.AddArtificialTarget(targets); err != nil {
			return err
		}
	}

	v, err := fba.New(net, milp.NewSolver(a.cfg.SolverOptions()...), append(a.cfg.VerifierOptions(), fba.WithLogger(a.log))...)
	if err != nil {
		return err
	}
	sets := doc.Sets()
	reqs := make([]fba.Request, len(sets))
	for i, s := range sets {
		reqs[i] = fba.RequestFor(doc.Target, s)
	}
	results, err := v.CheckAll(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rejected := 0
	for i, r := range results {
		verdict := "feasible"
		if !r.Feasible {
			verdict = "infeasible"
			rejected++
		}
		fmt.Fprintf(out, "%s\t%s\t%.6g\t%s\n", doc.Target, sets[i], r.Production, verdict)
	}
	if rejected > 0 {
		return errors.Wrapf(errRejectedSets, "%d of %d sets cannot produce %s", rejected, len(results), doc.Target)
	}

	return nil
}
