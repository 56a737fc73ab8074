package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"revstamp/internal/config"
	"revstamp/internal/logging"
	"revstamp/internal/version"
)

var (
	// rootFlag overrides the configured public root directory
	rootFlag string
	// envFlag is the active build environment
	envFlag string
	// configDirFlag is the directory holding revstamp.{yaml,json}
	configDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "revstamp",
	Short: "revstamp - content-addressable asset fingerprinting",
	Long: `revstamp scans a static build output tree for asset-path placeholders,
renames each referenced file to embed its content hash, rewrites the references
to point at the renamed files, and emits a manifest mapping original paths to
hashed paths. Reference files are processed in dependency order, so a file that
is itself referenced elsewhere is always rewritten and hashed first.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("revstamp version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"Public root directory containing the build output (default: from config)")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "production",
		"Active build environment")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", ".",
		"Directory containing revstamp.{yaml,json}")
}

// mustLoadConfig loads and validates configuration, exiting on any error.
// Validation runs before any file I/O.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configDirFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustResolveRoot returns the absolute public root, flag over config.
func mustResolveRoot(cfg *config.Config) string {
	root := cfg.Root
	if rootFlag != "" {
		root = rootFlag
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving root %s: %v\n", root, err)
		os.Exit(1)
	}
	return abs
}

// newLogger builds the run logger from the logging config block.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
}
