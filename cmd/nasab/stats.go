package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nasabhq/nasab/pkg/types"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show relationship graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd)
		},
	}
}

func runStats(cmd *cobra.Command) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		stats, err := d.Engine.Statistics(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Relationships: %d total\n", stats.Total)
		fmt.Printf("  Active: %d  Dissolved: %d  Deceased: %d\n",
			stats.Active, stats.Dissolved, stats.Deceased)
		fmt.Printf("  Biological: %d  Non-biological: %d\n",
			stats.Biological, stats.NonBiological)
		fmt.Printf("  Verified: %d  Unverified: %d\n",
			stats.Verified, stats.Unverified)

		if len(stats.ByType) > 0 {
			fmt.Println("\nBy type:")
			keys := make([]string, 0, len(stats.ByType))
			for t := range stats.ByType {
				keys = append(keys, string(t))
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %-20s %d\n", k, stats.ByType[types.RelationshipType(k)])
			}
		}
		return nil
	})
}
