package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/babyworm/hdlkit/internal/sim"
)

var (
	simTool  string
	simTop   string
	simWaves bool
)

var simCmd = &cobra.Command{
	Use:   "sim [files...]",
	Short: "Compile and run an HDL simulation",
	Long: `Sim compiles the given sources with the selected simulator and runs the
result. The testbench verdict is derived from the simulation output:
failure markers take precedence over pass markers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, files []string) error {
		mgr, err := sim.NewManager(cfg.Sim, cfg.SimTimeout(), run)
		if err != nil {
			return err
		}

		opts := sim.Options{Top: simTop, Waves: simWaves || cfg.Sim.Waves}
		result := mgr.Simulate(cmd.Context(), files, opts, simTool)

		out := cmd.OutOrStdout()
		if !result.Success {
			if result.Stderr != "" {
				fmt.Fprintln(out, result.Stderr)
			}
			return fmt.Errorf("simulation failed")
		}

		fmt.Fprintf(out, "%s\n", renderVerdict(result.Passed, "PASSED", "FAILED"))
		if result.Coverage != nil {
			c := result.Coverage
			fmt.Fprintf(out, "coverage: line %.1f%%, toggle %.1f%%, fsm %.1f%%", c.Line, c.Toggle, c.FSM)
			if c.Functional != nil {
				fmt.Fprintf(out, ", functional %.1f%%", *c.Functional)
			}
			fmt.Fprintln(out)
		}
		if result.Waveform != "" {
			fmt.Fprintf(out, "waveform: %s\n", result.Waveform)
		}
		if !result.Passed {
			return fmt.Errorf("testbench reported failure")
		}
		return nil
	},
}

func init() {
	simCmd.Flags().StringVar(&simTool, "tool", "", "override the configured simulator")
	simCmd.Flags().StringVar(&simTop, "top", "", "top-level module (default from config)")
	simCmd.Flags().BoolVar(&simWaves, "waves", false, "enable waveform dumping")
	rootCmd.AddCommand(simCmd)
}
