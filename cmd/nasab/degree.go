package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDegreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "degree <person-a> <person-b>",
		Short: "Compute the kinship degree between two persons",
		Long:  "Finds the nearest common ancestor and labels the relationship (sibling, first cousin once removed, ...).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDegree(cmd, args[0], args[1])
		},
	}
}

func runDegree(cmd *cobra.Command, personA, personB string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.Engine.Degree(ctx, personA, personB)
		if err != nil {
			return err
		}

		fmt.Printf("%s <-> %s: %s (%s)\n", personA, personB, result.Label, result.Description)
		if result.CommonAncestorID != "" {
			fmt.Printf("  Common ancestor: %s (%d and %d generations up)\n",
				result.CommonAncestorID, result.GenerationA, result.GenerationB)
		}
		return nil
	})
}
