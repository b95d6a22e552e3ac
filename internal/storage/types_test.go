package storage

import (
	"testing"

	"github.com/nasabhq/nasab/pkg/types"
)

func TestQueryOptionsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		opts      QueryOptions
		wantPage  int
		wantLimit int
	}{
		{"defaults", QueryOptions{}, 1, 50},
		{"negative page", QueryOptions{Page: -3, Limit: 10}, 1, 10},
		{"limit clamped", QueryOptions{Page: 2, Limit: 9999}, 2, 500},
		{"kept as-is", QueryOptions{Page: 4, Limit: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Normalize()
			if tt.opts.Page != tt.wantPage || tt.opts.Limit != tt.wantLimit {
				t.Errorf("normalized = page %d limit %d, want page %d limit %d",
					tt.opts.Page, tt.opts.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestQueryOptionsOffset(t *testing.T) {
	opts := QueryOptions{Page: 3, Limit: 20}
	if got := opts.Offset(); got != 40 {
		t.Errorf("offset = %d, want 40", got)
	}
}

func TestQueryOptionsWantsType(t *testing.T) {
	unfiltered := QueryOptions{}
	if !unfiltered.WantsType(types.TypeFather) {
		t.Error("empty filter must accept every type")
	}

	filtered := QueryOptions{Types: []types.RelationshipType{types.TypeFather, types.TypeMother}}
	if !filtered.WantsType(types.TypeMother) {
		t.Error("filter should accept MOTHER")
	}
	if filtered.WantsType(types.TypeHusband) {
		t.Error("filter should reject HUSBAND")
	}
}
