package kinship

import (
	"fmt"

	"github.com/nasabhq/nasab/pkg/types"
)

// ValidateEdge runs the stateless rule checks on a proposed relationship
// edge and returns the list of violations (empty means valid). Every rule is
// checked independently so the caller sees all problems at once, not just
// the first.
//
// Existence and duplicate checks are deliberately not here: they require
// store I/O and belong to the engine.
func ValidateEdge(edge *types.RelationshipEdge, isUpdate bool) []string {
	var violations []string

	if edge == nil {
		return []string{"relationship edge is required"}
	}

	if !isUpdate {
		if edge.PersonID == "" {
			violations = append(violations, "person_id is required")
		}
		if edge.RelatedPersonID == "" {
			violations = append(violations, "related_person_id is required")
		}
		if edge.Type == "" {
			violations = append(violations, "relationship_type is required")
		}
	}

	if edge.PersonID != "" && edge.PersonID == edge.RelatedPersonID {
		violations = append(violations, "person_id and related_person_id must differ")
	}

	if edge.Type != "" && !types.ValidType(edge.Type) {
		violations = append(violations, fmt.Sprintf("unknown relationship_type %q", edge.Type))
	}

	if edge.Status != "" && !types.ValidStatus(edge.Status) {
		violations = append(violations, fmt.Sprintf("unknown relationship_status %q", edge.Status))
	}

	if edge.Certainty != "" && !types.ValidCertainty(edge.Certainty) {
		violations = append(violations, fmt.Sprintf("unknown certainty_level %q", edge.Certainty))
	}

	if edge.StartDate != nil && edge.EndDate != nil && edge.StartDate.After(*edge.EndDate) {
		violations = append(violations, "start_date must not be after end_date")
	}

	return violations
}
