package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"revstamp/internal/rewrite"
)

var stripCmd = &cobra.Command{
	Use:   "strip",
	Short: "Strip placeholders to plain paths without fingerprinting",
	Long: `Reduce every placeholder in the reference files to just its captured
path. No files are hashed or renamed. Useful for producing clean references in
environments where fingerprinting is skipped. Running it twice is a no-op.`,
	Run: runStrip,
}

func init() {
	rootCmd.AddCommand(stripCmd)
}

func runStrip(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	root := mustResolveRoot(cfg)

	result, err := rewrite.StripPass(cfg, envFlag, root, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Stripped placeholders in %d reference files\n", result.ReferenceFiles)
}
