package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nasabhq/nasab/internal/kinship"
	"github.com/nasabhq/nasab/pkg/types"
)

type relationsFlags struct {
	types      string
	activeOnly bool
	reciprocal bool
	page       int
	limit      int
}

func newRelationsCmd() *cobra.Command {
	var flags relationsFlags

	cmd := &cobra.Command{
		Use:   "relations <person-id>",
		Short: "List a person's relationships",
		Long:  "Lists relationship edges where the person is the subject; --reciprocal adds the edges where they are the object.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelations(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.types, "types", "t", "", "Comma-separated relationship types to include")
	cmd.Flags().BoolVar(&flags.activeOnly, "active", false, "Only ACTIVE relationships")
	cmd.Flags().BoolVarP(&flags.reciprocal, "reciprocal", "r", false, "Include edges where the person is the object")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Result page")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", 50, "Page size")

	return cmd
}

func runRelations(cmd *cobra.Command, personID string, flags relationsFlags) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.Engine.GetPersonRelationships(ctx, personID, kinship.RelationshipsOptions{
			Types:             parseTypeList(flags.types),
			ActiveOnly:        flags.activeOnly,
			IncludeReciprocal: flags.reciprocal,
			Page:              flags.page,
			Limit:             flags.limit,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Relationships of %s (%d total):\n", personID, result.Edges.Total)
		for _, edge := range result.Edges.Items {
			printEdge(edge)
		}

		if result.Reciprocal != nil {
			fmt.Printf("\nAs related person (%d total):\n", result.Reciprocal.Total)
			for _, edge := range result.Reciprocal.Items {
				printEdge(edge)
			}
		}
		return nil
	})
}

func printEdge(edge types.RelationshipEdge) {
	marks := ""
	if edge.IsVerified() {
		marks += " [verified]"
	}
	if !edge.IsBiological {
		marks += " [non-biological]"
	}
	fmt.Printf("  %s  %s -[%s]-> %s  %s/%s%s\n",
		edge.ID, edge.PersonID, edge.Type, edge.RelatedPersonID,
		edge.Status, edge.Certainty, marks)
}

// parseTypeList splits a comma-separated --types value.
func parseTypeList(value string) []types.RelationshipType {
	if value == "" {
		return nil
	}
	var out []types.RelationshipType
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, types.RelationshipType(part))
		}
	}
	return out
}
