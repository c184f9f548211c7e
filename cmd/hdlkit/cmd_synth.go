package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/babyworm/hdlkit/internal/synth"
)

var (
	synthTool  string
	synthTop   string
	synthTech  string
	synthClock float64
)

var synthCmd = &cobra.Command{
	Use:   "synth [files...]",
	Short: "Synthesize HDL sources to a netlist",
	Long: `Synth runs the selected synthesis tool and reports the produced netlist.
When timing analysis and PPA estimation succeed against the netlist their
figures are printed too; their failure never fails the synthesis itself.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, files []string) error {
		mgr, err := synth.NewManager(cfg.Synth, cfg.SynthTimeout(), run)
		if err != nil {
			return err
		}

		opts := synth.Options{Top: synthTop, Technology: synthTech, ClockMHz: synthClock}
		result := mgr.Synthesize(cmd.Context(), files, opts, synthTool)

		out := cmd.OutOrStdout()
		if !result.Success {
			if result.Stderr != "" {
				fmt.Fprintln(out, result.Stderr)
			}
			return fmt.Errorf("synthesis failed")
		}

		fmt.Fprintf(out, "%s netlist: %s\n", renderVerdict(true, "ok", ""), result.Netlist)
		if t := result.Timing; t != nil {
			fmt.Fprintf(out, "timing: %.3f ns critical path (%s -> %s), slack %.3f ns, %.1f MHz\n",
				t.CriticalPath.DelayNs, t.CriticalPath.Start, t.CriticalPath.End, t.SlackNs, t.FrequencyMHz)
		}
		if p := result.PPA; p != nil {
			fmt.Fprintf(out, "area:   %d cells, %.1f um2\n", p.Area.Cells, p.Area.AreaUm2)
			fmt.Fprintf(out, "power:  %.3f mW dynamic, %.3f mW static, %.3f mW total\n",
				p.Power.DynamicMw, p.Power.StaticMw, p.Power.TotalMw)
			fmt.Fprintf(out, "perf:   %.1f MHz\n", p.Performance.FrequencyMHz)
		}
		return nil
	},
}

func init() {
	synthCmd.Flags().StringVar(&synthTool, "tool", "", "override the configured synthesis tool")
	synthCmd.Flags().StringVar(&synthTop, "top", "", "top-level module (default from config)")
	synthCmd.Flags().StringVar(&synthTech, "tech", "", "target technology (default from config)")
	synthCmd.Flags().Float64Var(&synthClock, "clock", 0, "target clock in MHz (default from config)")
	rootCmd.AddCommand(synthCmd)
}
