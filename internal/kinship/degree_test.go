package kinship

import (
	"context"
	"testing"

	"github.com/nasabhq/nasab/pkg/types"
)

// buildCousinClan seeds:
//
//	g ─┬─ pa ── a ── ac
//	   └─ pb ── b
//
// All parent facts use FATHER edges recorded parent-first.
func buildCousinClan(t *testing.T, e *Engine) {
	t.Helper()
	mustRelate(t, e, "g", "pa", types.TypeFather)
	mustRelate(t, e, "g", "pb", types.TypeFather)
	mustRelate(t, e, "pa", "a", types.TypeFather)
	mustRelate(t, e, "pb", "b", types.TypeFather)
	mustRelate(t, e, "a", "ac", types.TypeFather)
}

func newDegreeEngine(t *testing.T) *Engine {
	t.Helper()
	e, dir := newTestEngine(t)
	seedIDs(t, dir, "g", "gm", "pa", "pb", "a", "b", "ac", "x")
	return e
}

func TestDegreeSelf(t *testing.T) {
	e := newDegreeEngine(t)

	result, err := e.Degree(context.Background(), "a", "a")
	if err != nil {
		t.Fatalf("degree: %v", err)
	}
	if result.Label != DegreeSelf {
		t.Errorf("label = %s, want SELF", result.Label)
	}
}

func TestDegreeUnrelated(t *testing.T) {
	e := newDegreeEngine(t)
	buildCousinClan(t, e)

	result, err := e.Degree(context.Background(), "a", "x")
	if err != nil {
		t.Fatalf("degree: %v", err)
	}
	if result.Label != DegreeUnrelated {
		t.Errorf("label = %s, want UNRELATED", result.Label)
	}
	if result.CommonAncestorID != "" {
		t.Errorf("unexpected common ancestor %s", result.CommonAncestorID)
	}
}

func TestDegreeSibling(t *testing.T) {
	e := newDegreeEngine(t)
	buildCousinClan(t, e)

	result, err := e.Degree(context.Background(), "pa", "pb")
	if err != nil {
		t.Fatalf("degree: %v", err)
	}
	if result.Label != DegreeSibling {
		t.Errorf("label = %s, want SIBLING", result.Label)
	}
	if result.CommonAncestorID != "g" {
		t.Errorf("common ancestor = %s, want g", result.CommonAncestorID)
	}
}

func TestDegreeAvuncular(t *testing.T) {
	e := newDegreeEngine(t)
	buildCousinClan(t, e)

	ctx := context.Background()

	// pa is one generation from g, b is two: aunt/uncle side.
	result, err := e.Degree(ctx, "pa", "b")
	if err != nil {
		t.Fatalf("degree: %v", err)
	}
	if result.Label != DegreeAvuncular {
		t.Errorf("label = %s, want AVUNCULAR", result.Label)
	}
	if result.Description != "aunt or uncle" {
		t.Errorf("description = %q, want aunt or uncle", result.Description)
	}

	// Reversed arguments flip the perspective.
	result, err = e.Degree(ctx, "b", "pa")
	if err != nil {
		t.Fatalf("degree: %v", err)
	}
	if result.Description != "niece or nephew" {
		t.Errorf("description = %q, want niece or nephew", result.Description)
	}
}

func TestDegreeFirstCousin(t *testing.T) {
	e := newDegreeEngine(t)
	buildCousinClan(t, e)

	result, err := e.Degree(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("degree: %v", err)
	}
	if result.Label != "COUSIN_1" {
		t.Errorf("label = %s, want COUSIN_1", result.Label)
	}
	if result.Description != "first cousin" {
		t.Errorf("description = %q, want first cousin", result.Description)
	}
	if result.Removal != 0 {
		t.Errorf("removal = %d, want 0", result.Removal)
	}
}

func TestDegreeCousinOnceRemoved(t *testing.T) {
	e := newDegreeEngine(t)
	buildCousinClan(t, e)

	result, err := e.Degree(context.Background(), "ac", "b")
	if err != nil {
		t.Fatalf("degree: %v", err)
	}
	if result.Label != "COUSIN_1_REMOVED_1" {
		t.Errorf("label = %s, want COUSIN_1_REMOVED_1", result.Label)
	}
	if result.Description != "first cousin once removed" {
		t.Errorf("description = %q, want first cousin once removed", result.Description)
	}
}

func TestDegreeLineal(t *testing.T) {
	e := newDegreeEngine(t)
	buildCousinClan(t, e)

	ctx := context.Background()

	tests := []struct {
		a, b  string
		label string
	}{
		{"g", "pa", DegreeParent},
		{"pa", "g", DegreeChild},
		{"g", "a", DegreeGrandparent},
		{"a", "g", DegreeGrandchild},
		{"g", "ac", DegreeGreatGrandparent},
		{"ac", "g", DegreeGreatGrandchild},
	}
	for _, tt := range tests {
		result, err := e.Degree(ctx, tt.a, tt.b)
		if err != nil {
			t.Fatalf("degree(%s, %s): %v", tt.a, tt.b, err)
		}
		if result.Label != tt.label {
			t.Errorf("degree(%s, %s) = %s, want %s", tt.a, tt.b, result.Label, tt.label)
		}
	}
}

func TestDegreeTieBreakDeterministic(t *testing.T) {
	e := newDegreeEngine(t)
	buildCousinClan(t, e)

	// Both g and gm are common ancestors of pa and pb at equal combined
	// distance; the lower person ID must win every time.
	mustRelate(t, e, "gm", "pa", types.TypeMother)
	mustRelate(t, e, "gm", "pb", types.TypeMother)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		result, err := e.Degree(ctx, "pa", "pb")
		if err != nil {
			t.Fatalf("degree: %v", err)
		}
		if result.CommonAncestorID != "g" {
			t.Fatalf("run %d chose %s, want g (lowest ID)", i, result.CommonAncestorID)
		}
	}
}

func TestDegreeValidation(t *testing.T) {
	e := newDegreeEngine(t)

	if _, err := e.Degree(context.Background(), "", "b"); err == nil {
		t.Fatal("expected validation error for empty person ID")
	}
}
