package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nasabhq/nasab/internal/kinship"
	"github.com/nasabhq/nasab/pkg/types"
)

type relateFlags struct {
	relType    string
	status     string
	certainty  string
	biological bool
	startDate  string
	endDate    string
	createdBy  string
	notes      string
}

func newRelateCmd() *cobra.Command {
	var flags relateFlags

	cmd := &cobra.Command{
		Use:   "relate <person-id> <related-person-id>",
		Short: "Record a relationship between two persons",
		Long:  "Records a directed relationship edge; the reciprocal view is derived, never stored.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.relType, "type", "t", "", "Relationship type, e.g. FATHER, WIFE, BROTHER (required)")
	cmd.Flags().StringVar(&flags.status, "status", "", "Relationship status (ACTIVE, DISSOLVED, DECEASED)")
	cmd.Flags().StringVar(&flags.certainty, "certainty", "", "Certainty level (CONFIRMED, LIKELY, POSSIBLE, UNCERTAIN)")
	cmd.Flags().BoolVar(&flags.biological, "biological", true, "Whether the relationship is biological")
	cmd.Flags().StringVar(&flags.startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.endDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.createdBy, "by", "", "Recording user ID")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "Initial note text")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runRelate(cmd *cobra.Command, args []string, flags relateFlags) error {
	start, err := parseDateFlag(flags.startDate)
	if err != nil {
		return err
	}
	end, err := parseDateFlag(flags.endDate)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		input := kinship.CreateInput{
			PersonID:        args[0],
			RelatedPersonID: args[1],
			Type:            types.RelationshipType(flags.relType),
			Status:          types.RelationshipStatus(flags.status),
			Certainty:       types.CertaintyLevel(flags.certainty),
			IsBiological:    &flags.biological,
			StartDate:       start,
			EndDate:         end,
			CreatedBy:       flags.createdBy,
			Notes:           flags.notes,
		}
		edge, err := d.Engine.CreateRelationship(ctx, input)
		if err != nil {
			return err
		}

		fmt.Printf("Created relationship %s\n", edge.ID)
		fmt.Printf("  %s -[%s]-> %s (reciprocal: %s)\n",
			edge.PersonID, edge.Type, edge.RelatedPersonID, edge.ReciprocalType)
		return nil
	})
}

// parseDateFlag accepts YYYY-MM-DD or empty.
func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return &t, nil
}
