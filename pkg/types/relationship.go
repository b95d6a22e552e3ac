package types

import (
	"fmt"
	"time"
)

// RelationshipType identifies the kind of directed family link between two
// persons. The subject of the edge holds this role toward the object
// (e.g. TypeFather means "person_id is the FATHER of related_person_id").
type RelationshipType string

// Relationship types form a closed enumeration. Adding a type requires a
// matching entry in the reciprocal catalog (see catalog.go).
const (
	TypeFather   RelationshipType = "FATHER"
	TypeMother   RelationshipType = "MOTHER"
	TypeSon      RelationshipType = "SON"
	TypeDaughter RelationshipType = "DAUGHTER"
	TypeBrother  RelationshipType = "BROTHER"
	TypeSister   RelationshipType = "SISTER"
	TypeHusband  RelationshipType = "HUSBAND"
	TypeWife     RelationshipType = "WIFE"

	TypeGrandfather   RelationshipType = "GRANDFATHER"
	TypeGrandmother   RelationshipType = "GRANDMOTHER"
	TypeGrandson      RelationshipType = "GRANDSON"
	TypeGranddaughter RelationshipType = "GRANDDAUGHTER"

	TypeUncle  RelationshipType = "UNCLE"
	TypeAunt   RelationshipType = "AUNT"
	TypeNephew RelationshipType = "NEPHEW"
	TypeNiece  RelationshipType = "NIECE"
	TypeCousin RelationshipType = "COUSIN"

	TypeFatherInLaw   RelationshipType = "FATHER_IN_LAW"
	TypeMotherInLaw   RelationshipType = "MOTHER_IN_LAW"
	TypeSonInLaw      RelationshipType = "SON_IN_LAW"
	TypeDaughterInLaw RelationshipType = "DAUGHTER_IN_LAW"
	TypeBrotherInLaw  RelationshipType = "BROTHER_IN_LAW"
	TypeSisterInLaw   RelationshipType = "SISTER_IN_LAW"

	TypeStepFather   RelationshipType = "STEP_FATHER"
	TypeStepMother   RelationshipType = "STEP_MOTHER"
	TypeStepSon      RelationshipType = "STEP_SON"
	TypeStepDaughter RelationshipType = "STEP_DAUGHTER"
	TypeStepBrother  RelationshipType = "STEP_BROTHER"
	TypeStepSister   RelationshipType = "STEP_SISTER"

	TypeAdoptiveFather  RelationshipType = "ADOPTIVE_FATHER"
	TypeAdoptiveMother  RelationshipType = "ADOPTIVE_MOTHER"
	TypeAdoptedSon      RelationshipType = "ADOPTED_SON"
	TypeAdoptedDaughter RelationshipType = "ADOPTED_DAUGHTER"

	// TypeOther is the catch-all reciprocal for unmapped types. It is a valid
	// stored type so imported legacy data never loses its edge.
	TypeOther RelationshipType = "OTHER"
)

// RelationshipStatus tracks the lifecycle of a relationship edge.
type RelationshipStatus string

const (
	// StatusActive is the initial status of every new edge.
	StatusActive RelationshipStatus = "ACTIVE"

	// StatusDissolved marks a relationship ended while both persons live
	// (e.g. divorce). Terminal; requires EndDate.
	StatusDissolved RelationshipStatus = "DISSOLVED"

	// StatusDeceased marks a relationship ended by death. Terminal; requires
	// EndDate.
	StatusDeceased RelationshipStatus = "DECEASED"
)

// CertaintyLevel classifies the confidence of a genealogical claim.
type CertaintyLevel string

const (
	CertaintyConfirmed CertaintyLevel = "CONFIRMED"
	CertaintyLikely    CertaintyLevel = "LIKELY"
	CertaintyPossible  CertaintyLevel = "POSSIBLE"
	CertaintyUncertain CertaintyLevel = "UNCERTAIN"
)

// RelationshipEdge is a single directed, typed fact linking two persons.
// Directionality matters: PersonID is the subject and RelatedPersonID the
// object of Type. The reciprocal view (B sees A as SON when A is B's FATHER)
// is obtained by querying edges where related_person_id = B, never by storing
// a mirror edge.
type RelationshipEdge struct {
	// Core identification fields
	ID              string           `json:"id"`                // Unique identifier, assigned at creation, immutable
	PersonID        string           `json:"person_id"`         // Subject person reference
	RelatedPersonID string           `json:"related_person_id"` // Object person reference
	Type            RelationshipType `json:"relationship_type"` // Role of PersonID toward RelatedPersonID

	// ReciprocalType is derived once at creation from the catalog and stored
	// as metadata only. It is never materialized as a second edge.
	ReciprocalType RelationshipType `json:"reciprocal_relationship_type"`

	// Lifecycle and confidence
	Status       RelationshipStatus `json:"relationship_status"` // ACTIVE initially; DISSOLVED/DECEASED are terminal
	Certainty    CertaintyLevel     `json:"certainty_level"`     // Forced to CONFIRMED on verification
	IsBiological bool               `json:"is_biological"`       // Defaults to true

	// Optional validity window. When both are set, StartDate <= EndDate.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// Verification provenance, set at most once.
	VerifiedBy string     `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	// Audit fields
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"` // Soft-delete tombstone; edges are never hard-deleted

	// Notes is an append-only audit trail. New notes are concatenated with a
	// timestamp prefix, never overwritten.
	Notes string `json:"notes,omitempty"`
}

// IsDeleted reports whether the edge has been soft-deleted.
func (e *RelationshipEdge) IsDeleted() bool {
	return e.DeletedAt != nil
}

// IsVerified reports whether the edge has been verified.
func (e *RelationshipEdge) IsVerified() bool {
	return e.VerifiedAt != nil
}

// AppendNote concatenates text onto the audit trail with a timestamp prefix.
// Existing notes are never modified.
func (e *RelationshipEdge) AppendNote(text string, at time.Time) {
	entry := fmt.Sprintf("[%s] %s", at.UTC().Format(time.RFC3339), text)
	if e.Notes == "" {
		e.Notes = entry
		return
	}
	e.Notes = e.Notes + "\n" + entry
}

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s RelationshipStatus) bool {
	switch s {
	case StatusActive, StatusDissolved, StatusDeceased:
		return true
	}
	return false
}

// TerminalStatus reports whether s ends the relationship lifecycle.
// Terminal statuses require an EndDate on the edge.
func TerminalStatus(s RelationshipStatus) bool {
	return s == StatusDissolved || s == StatusDeceased
}

// ValidCertainty reports whether c is a member of the certainty enumeration.
func ValidCertainty(c CertaintyLevel) bool {
	switch c {
	case CertaintyConfirmed, CertaintyLikely, CertaintyPossible, CertaintyUncertain:
		return true
	}
	return false
}
