package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nasabhq/nasab/internal/kinship"
)

func newFamilyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "family <person-id>",
		Short: "Show a person's immediate family",
		Long:  "Shows parents, spouse, children and siblings; siblings are derived through shared parents.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFamily(cmd, args[0])
		},
	}
}

func runFamily(cmd *cobra.Command, personID string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		family, err := d.Engine.ImmediateFamily(ctx, personID)
		if err != nil {
			return err
		}

		fmt.Printf("Immediate family of %s:\n", personID)
		printMember("Father", family.Father)
		printMember("Mother", family.Mother)
		printMember("Spouse", family.Spouse)

		fmt.Printf("  Children (%d):\n", len(family.Children))
		for _, child := range family.Children {
			fmt.Printf("    %s\n", child.RelatedID)
		}
		fmt.Printf("  Siblings (%d):\n", len(family.Siblings))
		for _, sibling := range family.Siblings {
			fmt.Printf("    %s\n", sibling.RelatedID)
		}
		return nil
	})
}

func printMember(label string, member *kinship.FamilyMember) {
	if member == nil {
		fmt.Printf("  %s: (none)\n", label)
		return
	}
	fmt.Printf("  %s: %s\n", label, member.RelatedID)
}

func newAncestorsCmd() *cobra.Command {
	var maxGenerations int

	cmd := &cobra.Command{
		Use:   "ancestors <person-id>",
		Short: "Walk a person's ancestor tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAncestors(cmd, args[0], maxGenerations)
		},
	}

	cmd.Flags().IntVarP(&maxGenerations, "generations", "g", 0, "Generation bound (default: configured traversal limit)")

	return cmd
}

func runAncestors(cmd *cobra.Command, personID string, maxGenerations int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		if maxGenerations <= 0 {
			maxGenerations = d.Config.Traversal.MaxGenerations
		}

		result, err := d.Engine.Ancestors(ctx, personID, maxGenerations)
		if err != nil {
			return err
		}

		fmt.Printf("Ancestors of %s (%d edges):\n", personID, len(result.Entries))
		for gen := 1; gen <= maxGenerations; gen++ {
			entries, ok := result.ByGeneration[gen]
			if !ok {
				break
			}
			fmt.Printf("  Generation %d:\n", gen)
			for _, entry := range entries {
				fmt.Printf("    %s (via %s)\n", entry.AncestorID, entry.Edge.Type)
			}
		}
		return nil
	})
}

func newDescendantsCmd() *cobra.Command {
	var maxGenerations int

	cmd := &cobra.Command{
		Use:   "descendants <person-id>",
		Short: "Walk a person's descendant tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescendants(cmd, args[0], maxGenerations)
		},
	}

	cmd.Flags().IntVarP(&maxGenerations, "generations", "g", 0, "Generation bound (default: configured traversal limit)")

	return cmd
}

func runDescendants(cmd *cobra.Command, personID string, maxGenerations int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		if maxGenerations <= 0 {
			maxGenerations = d.Config.Traversal.MaxGenerations
		}

		result, err := d.Engine.Descendants(ctx, personID, maxGenerations)
		if err != nil {
			return err
		}

		fmt.Printf("Descendants of %s (%d edges):\n", personID, len(result.Entries))
		printDescendantNode(result.Tree, 0)
		return nil
	})
}

func printDescendantNode(node *kinship.DescendantNode, depth int) {
	if node == nil {
		return
	}
	fmt.Printf("  %s%s\n", strings.Repeat("  ", depth), node.PersonID)
	for _, child := range node.Children {
		printDescendantNode(child, depth+1)
	}
}
