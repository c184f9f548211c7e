package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/babyworm/hdlkit/internal/lint"
	"github.com/babyworm/hdlkit/internal/lsp"
	"github.com/babyworm/hdlkit/internal/sim"
	"github.com/babyworm/hdlkit/internal/synth"
	"github.com/babyworm/hdlkit/internal/tool"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Detect installed HDL tools",
	Long: `Tools probes every known tool in every category and prints what is
installed, with versions. Detection never fails: an unprobeable tool is
simply reported as absent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		lintMgr, err := lint.NewManager(cfg.Lint, cfg.LintTimeout(), run)
		if err != nil {
			return err
		}
		simMgr, err := sim.NewManager(cfg.Sim, cfg.SimTimeout(), run)
		if err != nil {
			return err
		}
		synthMgr, err := synth.NewManager(cfg.Synth, cfg.SynthTimeout(), run)
		if err != nil {
			return err
		}

		printDetection(out, "lint", lintMgr.Detect(ctx))
		printDetection(out, "sim", simMgr.Detect(ctx))
		printDetection(out, "synth", synthMgr.Detect(ctx))

		selector := lsp.NewSelector(run)
		fmt.Fprintf(out, "lsp:\n  selected: %s\n", selector.SelectedName(ctx))
		return nil
	},
}

func printDetection(out io.Writer, category string, results map[string]tool.DetectionResult) {
	names := make([]string, 0, len(results))
	for name := range results {
		if name == "noop" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "%s:\n", category)
	for _, name := range names {
		r := results[name]
		status := renderVerdict(r.Installed, "installed", "not found")
		if r.Installed {
			fmt.Fprintf(out, "  %-12s %s (%s)\n", name, status, r.Version)
		} else {
			fmt.Fprintf(out, "  %-12s %s\n", name, status)
		}
	}
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
