package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/analysis"
	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/charts"
	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/sweep"
	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

type reportOptions struct {
	thresholdCSV   string
	vectorCSV      string
	outDir         string
	width, height  int
	vectors        int
	threshold      float64
	xlsx           string
	reportJSON     string
	anomalyCircuit string
}

func defaultReportOptions() reportOptions {
	return reportOptions{
		thresholdCSV:   types.DefaultThresholdCSV,
		vectorCSV:      types.DefaultVectorCSV,
		outDir:         ".",
		width:          charts.DefaultWidth,
		height:         charts.DefaultHeight,
		vectors:        10000,
		threshold:      20,
		anomalyCircuit: analysis.DefaultOptions().AnomalyCircuit,
	}
}

func bindReportFlags(cmd *cobra.Command, o *reportOptions) {
	f := cmd.Flags()
	f.StringVar(&o.thresholdCSV, "fig2", o.thresholdCSV, "Threshold sweep CSV")
	f.StringVar(&o.vectorCSV, "fig3", o.vectorCSV, "Vector sweep CSV")
	f.StringVar(&o.outDir, "out-dir", o.outDir, "Directory for the PNG figures (created if missing)")
	f.IntVar(&o.width, "width", o.width, "Figure width in pixels")
	f.IntVar(&o.height, "height", o.height, "Figure height in pixels")
	f.IntVar(&o.vectors, "fig2-vectors", o.vectors, "Test vector count named in the figure 2 subtitle")
	f.Float64Var(&o.threshold, "fig3-threshold", o.threshold, "Threshold percent named in the figure 3 subtitle")
	f.StringVar(&o.xlsx, "xlsx", "", "Also write the tables and both datasets to this .xlsx workbook")
	f.StringVar(&o.reportJSON, "report-json", "", "Also write the summary tables as JSON to this path")
	f.StringVar(&o.anomalyCircuit, "anomaly-circuit", o.anomalyCircuit, "Circuit checked by the anomaly rules")
}

func (o reportOptions) chartOptions() charts.Options {
	return charts.Options{Width: o.width, Height: o.height, Vectors: o.vectors, Threshold: o.threshold}
}

func newReportCmd(stdout io.Writer) *cobra.Command {
	o := defaultReportOptions()
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render figures 2 and 3 and print the validation summary tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(stdout, o)
		},
	}
	bindReportFlags(cmd, &o)
	return cmd
}

func runReport(w io.Writer, o reportOptions) error {
	defer sweep.TimeTrack(time.Now(), "report")
	fmt.Fprintln(w, ">> Generating Algorithm 1 Validation Visualizations...")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, p := range []string{o.thresholdCSV, o.vectorCSV} {
		if err := analysis.CheckInputs(p); err != nil {
			if errors.Is(err, analysis.ErrInputMissing) {
				fmt.Fprintf(w, "ERROR: %s not found!\n", filepath.Base(p))
			}
			return err
		}
	}

	th, err := analysis.LoadThresholdCSV(o.thresholdCSV)
	if err != nil {
		return err
	}
	vec, err := analysis.LoadVectorCSV(o.vectorCSV)
	if err != nil {
		return err
	}
	sweep.Debugf("loaded %d threshold rows and %d vector rows", len(th), len(vec))

	copts := o.chartOptions()
	fig2Path := filepath.Join(o.outDir, types.DefaultThresholdPNG)
	fig2, err := charts.ThresholdFigure(th, copts)
	if err != nil {
		return fmt.Errorf("figure 2: %w", err)
	}
	if err := fig2.Save(fig2Path); err != nil {
		return err
	}
	fmt.Fprintf(w, "[OK] Figure 2 plot saved: %s\n", fig2Path)

	fig3Path := filepath.Join(o.outDir, types.DefaultVectorPNG)
	fig3, err := charts.VectorFigure(vec, copts)
	if err != nil {
		return fmt.Errorf("figure 3: %w", err)
	}
	if err := fig3.Save(fig3Path); err != nil {
		return err
	}
	fmt.Fprintf(w, "[OK] Figure 3 plot saved: %s\n", fig3Path)

	aopts := analysis.DefaultOptions()
	aopts.AnomalyCircuit = o.anomalyCircuit
	summary := analysis.Summarize(th, vec, aopts)
	analysis.PrintSummary(w, summary)

	generated := []string{
		fig2Path + " - Rare nodes vs. Threshold",
		fig3Path + " - Rare nodes vs. Test vectors",
	}
	if o.xlsx != "" {
		if err := analysis.WriteWorkbook(o.xlsx, th, vec, summary); err != nil {
			return err
		}
		generated = append(generated, o.xlsx+" - Summary workbook")
	}
	if o.reportJSON != "" {
		rep := analysis.Report{
			ThresholdCSV: o.thresholdCSV,
			VectorCSV:    o.vectorCSV,
			Charts:       []string{fig2Path, fig3Path},
			Summary:      summary,
		}
		if err := analysis.WriteJSONReport(o.reportJSON, rep); err != nil {
			return err
		}
		generated = append(generated, o.reportJSON+" - Summary JSON")
	}

	fmt.Fprintln(w, "\n[SUCCESS] Visualization complete!")
	fmt.Fprintln(w, "\nGenerated files:")
	for i, g := range generated {
		fmt.Fprintf(w, "  %d. %s\n", i+1, g)
	}
	fmt.Fprintln(w, "\nNext step: Review plots and compare with paper Figures 2 & 3")
	return nil
}
