// rarenodes entrypoint.
//
// Two modes:
//  1. report (default): load the threshold and vector sweep CSVs, render the two comparison figures and
//     print the validation summary tables. Optional workbook and JSON exports.
//  2. sweep: simulate the benchmark netlists with random vectors and write the two CSVs that report reads.
//
// Console output of report is the product and goes to stdout; diagnostics go through the leveled logger
// on stderr.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/analysis"
	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/sweep"
)

func newRootCmd(stdout io.Writer) *cobra.Command {
	var logLevel string
	ro := defaultReportOptions()
	root := &cobra.Command{
		Use:           "rarenodes",
		Short:         "Rare-node statistics for benchmark netlists",
		Long:          "Runs random-vector rare-node sweeps over .bench netlists and reports the results as figures and tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			sweep.SetLogLevel(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(stdout, ro)
		},
	}
	root.SetOut(stdout)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	bindReportFlags(root, &ro)

	root.AddCommand(newReportCmd(stdout), newSweepCmd(stdout))
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		// the guard already printed its message
		if !errors.Is(err, analysis.ErrInputMissing) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
