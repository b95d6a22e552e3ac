package types

// reciprocalCatalog is the fixed lookup table mapping a relationship type to
// the type implied from the other person's side. Symmetric types (BROTHER,
// COUSIN, ...) map to themselves. The table is keyed by type alone, so
// gendered reciprocals follow the source convention of pairing the
// male-labeled role with SON-side types and the female-labeled role with
// DAUGHTER-side types; callers that know the counterpart's gender may refine
// the label for display.
var reciprocalCatalog = map[RelationshipType]RelationshipType{
	TypeFather:   TypeSon,
	TypeMother:   TypeDaughter,
	TypeSon:      TypeFather,
	TypeDaughter: TypeMother,
	TypeBrother:  TypeBrother,
	TypeSister:   TypeSister,
	TypeHusband:  TypeWife,
	TypeWife:     TypeHusband,

	TypeGrandfather:   TypeGrandson,
	TypeGrandmother:   TypeGranddaughter,
	TypeGrandson:      TypeGrandfather,
	TypeGranddaughter: TypeGrandmother,

	TypeUncle:  TypeNephew,
	TypeAunt:   TypeNiece,
	TypeNephew: TypeUncle,
	TypeNiece:  TypeAunt,
	TypeCousin: TypeCousin,

	TypeFatherInLaw:   TypeSonInLaw,
	TypeMotherInLaw:   TypeDaughterInLaw,
	TypeSonInLaw:      TypeFatherInLaw,
	TypeDaughterInLaw: TypeMotherInLaw,
	TypeBrotherInLaw:  TypeBrotherInLaw,
	TypeSisterInLaw:   TypeSisterInLaw,

	TypeStepFather:   TypeStepSon,
	TypeStepMother:   TypeStepDaughter,
	TypeStepSon:      TypeStepFather,
	TypeStepDaughter: TypeStepMother,
	TypeStepBrother:  TypeStepBrother,
	TypeStepSister:   TypeStepSister,

	TypeAdoptiveFather:  TypeAdoptedSon,
	TypeAdoptiveMother:  TypeAdoptedDaughter,
	TypeAdoptedSon:      TypeAdoptiveFather,
	TypeAdoptedDaughter: TypeAdoptiveMother,

	TypeOther: TypeOther,
}

// ReciprocalOf returns the reciprocal relationship type for t.
// It is total: unmapped types return TypeOther, never an error.
func ReciprocalOf(t RelationshipType) RelationshipType {
	if r, ok := reciprocalCatalog[t]; ok {
		return r
	}
	return TypeOther
}

// ValidType reports whether t is a member of the closed type enumeration.
func ValidType(t RelationshipType) bool {
	_, ok := reciprocalCatalog[t]
	return ok
}

// AllTypes returns every relationship type in the catalog. The order is not
// specified; callers that need determinism must sort.
func AllTypes() []RelationshipType {
	out := make([]RelationshipType, 0, len(reciprocalCatalog))
	for t := range reciprocalCatalog {
		out = append(out, t)
	}
	return out
}

// parentTypes are the edge types traversed when walking toward ancestors.
var parentTypes = map[RelationshipType]bool{
	TypeFather: true,
	TypeMother: true,
}

// childTypes are the edge types traversed when walking toward descendants.
var childTypes = map[RelationshipType]bool{
	TypeSon:      true,
	TypeDaughter: true,
}

// spouseTypes are the edge types that identify a spouse.
var spouseTypes = map[RelationshipType]bool{
	TypeHusband: true,
	TypeWife:    true,
}

// IsParentType reports whether t points from a parent to a child's ancestor
// slot (FATHER or MOTHER).
func IsParentType(t RelationshipType) bool { return parentTypes[t] }

// IsChildType reports whether t points from a parent to a child (SON or
// DAUGHTER).
func IsChildType(t RelationshipType) bool { return childTypes[t] }

// IsSpouseType reports whether t identifies a spouse (HUSBAND or WIFE).
func IsSpouseType(t RelationshipType) bool { return spouseTypes[t] }
