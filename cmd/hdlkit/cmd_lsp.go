package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/babyworm/hdlkit/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp [files...]",
	Short: "Select a language server and optionally check files",
	Long: `Lsp probes the fixed language-server chain and prints the selected
server, or "none" when nothing is installed. With file arguments it also
runs the server's batch checker and prints its diagnostics; a missing
server degrades to an empty list.`,
	RunE: func(cmd *cobra.Command, files []string) error {
		selector := lsp.NewSelector(run)
		out := cmd.OutOrStdout()

		name := selector.SelectedName(cmd.Context())
		fmt.Fprintf(out, "language server: %s\n", name)

		if len(files) > 0 {
			diags := selector.Diagnostics(cmd.Context(), files)
			fmt.Fprint(out, renderDiagnostics(diags))
			fmt.Fprintf(out, "%d diagnostic(s)\n", len(diags))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
}
