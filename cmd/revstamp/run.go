package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"revstamp/internal/logging"
	"revstamp/internal/rewrite"
)

var (
	// forceFlag runs the pass regardless of environment gating
	forceFlag bool
	// watchModeFlag marks an on-demand/incremental invocation
	watchModeFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fingerprint assets and rewrite references",
	Long: `Run one fingerprinting pass over the public root. When the active
environment is not in the configured allow-list (and --force is not given),
placeholders are stripped to plain paths instead and nothing is renamed.`,
	Run: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&forceFlag, "force", false,
		"Run the pass even if the environment is not in the allow-list")
	runCmd.Flags().BoolVar(&watchModeFlag, "watch-mode", false,
		"Mark this as an incremental/watch invocation")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	root := mustResolveRoot(cfg)

	if watchModeFlag {
		logger.Warn("file renames are irreversible and unsuited to incremental builds", logging.Fields{
			"environment": envFlag,
		})
	}
	if forceFlag {
		cfg.AlwaysRun = true
	}

	if !cfg.ShouldRun(envFlag) {
		result, err := rewrite.StripPass(cfg, envFlag, root, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Environment %q not in allow-list: stripped placeholders in %d reference files\n",
			envFlag, result.ReferenceFiles)
		return
	}

	result, err := rewrite.Pass(cfg, envFlag, root, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rewrote %d reference files, renamed %d assets\n", result.ReferenceFiles, result.Renamed)
	if cfg.Manifest != "" {
		fmt.Printf("Manifest written to %s (%d entries)\n", cfg.Manifest, len(result.Manifest))
	}
}
