package types

import "testing"

// TestReciprocalOf_Totality asserts every catalog type has a non-empty
// reciprocal and unknown types fall back to OTHER instead of failing.
func TestReciprocalOf_Totality(t *testing.T) {
	for _, typ := range AllTypes() {
		r := ReciprocalOf(typ)
		if r == "" {
			t.Errorf("ReciprocalOf(%s) returned empty reciprocal", typ)
		}
		if !ValidType(r) {
			t.Errorf("ReciprocalOf(%s) = %s, which is not a catalog member", typ, r)
		}
	}

	if got := ReciprocalOf("GODPARENT"); got != TypeOther {
		t.Errorf("ReciprocalOf(unmapped) = %s, want %s", got, TypeOther)
	}
}

// TestReciprocalOf_Involution asserts that taking the reciprocal twice returns
// the original type for every gendered pair and every symmetric type.
func TestReciprocalOf_Involution(t *testing.T) {
	for _, typ := range AllTypes() {
		back := ReciprocalOf(ReciprocalOf(typ))
		if back != typ {
			t.Errorf("ReciprocalOf(ReciprocalOf(%s)) = %s, want %s", typ, back, typ)
		}
	}
}

// TestReciprocalOf_SymmetricTypes asserts symmetric types map to themselves.
func TestReciprocalOf_SymmetricTypes(t *testing.T) {
	symmetric := []RelationshipType{
		TypeBrother, TypeSister, TypeCousin,
		TypeBrotherInLaw, TypeSisterInLaw,
		TypeStepBrother, TypeStepSister,
		TypeOther,
	}
	for _, typ := range symmetric {
		if got := ReciprocalOf(typ); got != typ {
			t.Errorf("ReciprocalOf(%s) = %s, want itself", typ, got)
		}
	}
}

func TestReciprocalOf_GenderedPairs(t *testing.T) {
	cases := map[RelationshipType]RelationshipType{
		TypeFather:        TypeSon,
		TypeMother:        TypeDaughter,
		TypeHusband:       TypeWife,
		TypeGrandfather:   TypeGrandson,
		TypeUncle:         TypeNephew,
		TypeAunt:          TypeNiece,
		TypeFatherInLaw:   TypeSonInLaw,
		TypeAdoptedSon:    TypeAdoptiveFather,
		TypeStepDaughter:  TypeStepMother,
		TypeGranddaughter: TypeGrandmother,
	}
	for typ, want := range cases {
		if got := ReciprocalOf(typ); got != want {
			t.Errorf("ReciprocalOf(%s) = %s, want %s", typ, got, want)
		}
	}
}

func TestTypePredicates(t *testing.T) {
	if !IsParentType(TypeFather) || !IsParentType(TypeMother) {
		t.Error("FATHER and MOTHER must be parent types")
	}
	if IsParentType(TypeGrandfather) {
		t.Error("GRANDFATHER must not be a parent-step type")
	}
	if !IsChildType(TypeSon) || !IsChildType(TypeDaughter) {
		t.Error("SON and DAUGHTER must be child types")
	}
	if !IsSpouseType(TypeHusband) || !IsSpouseType(TypeWife) {
		t.Error("HUSBAND and WIFE must be spouse types")
	}
	if IsSpouseType(TypeBrother) {
		t.Error("BROTHER must not be a spouse type")
	}
}
