// Package main implements the hdlkit CLI, the boundary consumer of the HDL
// tool orchestration layer. Commands degrade gracefully: a missing
// toolchain prints a structured "no tool available" message and exits
// non-zero, it never crashes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/babyworm/hdlkit/internal/config"
	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
)

var (
	// Global flags
	cfgPath string
	debug   bool

	// Shared state built in PersistentPreRunE
	cfg *config.Config
	run runner.Runner
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "hdlkit",
	Short: "hdlkit - HDL tool orchestration",
	Long: `hdlkit detects, selects, and drives interchangeable HDL command-line
tools (lint, simulation, synthesis, language servers) and normalizes
their output into uniform structured results.

Tool preference is configured in .hdlkit.yaml or via HDLKIT_* environment
variables; --tool overrides it per invocation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := logging.Initialize(debug || cfg.Logging.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		run = runner.NewDefault()
		logging.L(logging.CategoryBoot).Debugw("hdlkit starting", "config", cfgPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default .hdlkit.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
