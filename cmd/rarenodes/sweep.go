package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/netlist"
	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/sweep"
)

type sweepOptions struct {
	plan              string
	parallel          int
	seed              int64
	progressInterval  time.Duration
	transitions       string
	transitionVectors int
}

func newSweepCmd(stdout io.Writer) *cobra.Command {
	o := sweepOptions{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Simulate the benchmarks and write the threshold and vector sweep CSVs",
		Long: "Runs random-vector simulation over every benchmark of the plan. Without --plan the built-in\n" +
			"benchmark list and operating points are used. With --transitions only the single-circuit\n" +
			"threshold transition table is printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if !cmd.Flags().Changed("seed") {
				o.seed = -1
			}
			return runSweep(ctx, stdout, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.plan, "plan", "", "YAML sweep plan (benchmarks, thresholds, vector counts, output CSVs)")
	f.IntVar(&o.parallel, "parallel", runtime.NumCPU(), "Maximum circuits simulated concurrently")
	f.Int64Var(&o.seed, "seed", 0, "Random seed overriding the plan (0 = time based)")
	f.DurationVar(&o.progressInterval, "progress-interval", 5*time.Second, "Interval for progress logging (0 disables)")
	f.StringVar(&o.transitions, "transitions", "", "Print the threshold transition table for this circuit (name or .bench path) and exit")
	f.IntVar(&o.transitionVectors, "transition-vectors", 10000, "Vectors simulated for --transitions")
	return cmd
}

// runSweep treats a negative seed as "keep the plan's seed".
func runSweep(ctx context.Context, w io.Writer, o sweepOptions) error {
	plan := sweep.DefaultPlan()
	if o.plan != "" {
		p, err := sweep.LoadPlan(o.plan)
		if err != nil {
			return fmt.Errorf("load plan: %w", err)
		}
		plan = p
		sweep.Infof("loaded plan %s (%d benchmarks)", o.plan, len(plan.Benchmarks))
	}
	if o.seed >= 0 {
		plan.Seed = o.seed
	}

	if o.transitions != "" {
		path := resolveBenchmark(plan, o.transitions)
		rep, err := sweep.TransitionCounts(ctx, path, o.transitionVectors, sweep.DefaultTransitionRatios, plan.Seed)
		if err != nil {
			return err
		}
		rep.Print(w)
		return nil
	}

	r := &sweep.Runner{Plan: plan, Parallel: o.parallel, ProgressInterval: o.progressInterval}
	res, err := r.RunAndWrite(ctx)
	if err != nil {
		return err
	}
	if len(res.Skipped) > 0 {
		sweep.Warnf("skipped %d benchmark(s): %s", len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
	fmt.Fprintf(w, "Threshold sweep: %d rows -> %s\n", len(res.Thresholds), plan.ThresholdCSV)
	fmt.Fprintf(w, "Vector sweep: %d rows -> %s\n", len(res.Vectors), plan.VectorCSV)
	return nil
}

// resolveBenchmark maps a circuit name to the plan benchmark with that stem; anything else is used as a path.
func resolveBenchmark(plan sweep.Plan, name string) string {
	for _, b := range plan.Benchmarks {
		if netlist.CircuitName(b) == name {
			return b
		}
	}
	return name
}
