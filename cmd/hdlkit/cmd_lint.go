package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/babyworm/hdlkit/internal/lint"
	"github.com/babyworm/hdlkit/internal/logging"
)

var (
	lintTool  string
	lintWatch bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Run static analysis on HDL sources",
	Long: `Lint runs the selected static-analysis tool over the given files and
prints normalized diagnostics. With --watch it re-lints whenever a
source file changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, files []string) error {
		mgr, err := lint.NewManager(cfg.Lint, cfg.LintTimeout(), run)
		if err != nil {
			return err
		}

		if lintWatch {
			return watchAndLint(cmd, mgr, files)
		}
		return lintOnce(cmd, mgr, files)
	},
}

func init() {
	lintCmd.Flags().StringVar(&lintTool, "tool", "", "override the configured lint tool")
	lintCmd.Flags().BoolVar(&lintWatch, "watch", false, "re-lint on file changes")
	rootCmd.AddCommand(lintCmd)
}

func lintOnce(cmd *cobra.Command, mgr *lint.Manager, files []string) error {
	result := mgr.Lint(cmd.Context(), files, lintTool)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderDiagnostics(result.Errors))
	fmt.Fprint(out, renderDiagnostics(result.Warnings))

	if result.Success {
		fmt.Fprintf(out, "%s %d warning(s)\n", renderVerdict(true, "clean", ""), len(result.Warnings))
		return nil
	}
	if len(result.Errors) == 0 && len(result.Warnings) == 0 && result.Stderr != "" {
		// Degradation path or unparsed tool failure: show the raw reason.
		fmt.Fprintln(out, result.Stderr)
	}
	return fmt.Errorf("lint failed: %d error(s), %d warning(s)", len(result.Errors), len(result.Warnings))
}

// watchAndLint re-runs the linter whenever one of the watched files is
// written. It returns on interrupt; per-run failures keep the watch alive.
func watchAndLint(cmd *cobra.Command, mgr *lint.Manager, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	// Watch parent directories: editors replace files on save, which
	// drops per-file watches.
	dirs := map[string]struct{}{}
	for _, f := range files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	watched := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		watched[abs] = struct{}{}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	log := logging.L(logging.CategoryCLI)
	if err := lintOnce(cmd, mgr, files); err != nil {
		log.Debugw("initial lint failed", "err", err)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				abs = ev.Name
			}
			if _, tracked := watched[abs]; !tracked {
				continue
			}
			log.Debugw("change detected", "file", ev.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "\n-- %s changed --\n", ev.Name)
			if err := lintOnce(cmd, mgr, files); err != nil {
				log.Debugw("lint failed", "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watch error", "err", err)

		case <-interrupt:
			return nil

		case <-cmd.Context().Done():
			return nil
		}
	}
}
