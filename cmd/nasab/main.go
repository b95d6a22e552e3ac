// Package main provides the entry point for the nasab CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version          = "0.1.0-dev"
	globalConfigPath string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "nasab",
		Short:   "A genealogical relationship graph with kinship traversal",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfigPath, "config", "c", "", "Path to YAML config file (default: env only)")

	rootCmd.AddCommand(
		newRelateCmd(),
		newRelationsCmd(),
		newFamilyCmd(),
		newAncestorsCmd(),
		newDescendantsCmd(),
		newDegreeCmd(),
		newPersonCmd(),
		newImportCmd(),
		newExportCmd(),
		newStatsCmd(),
		newWatchCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
