package persons

import (
	"context"
	"fmt"
	"testing"

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// countingDirectory serves from a map and counts inner lookups.
type countingDirectory struct {
	people map[string]*types.Person
	calls  int
}

func (d *countingDirectory) GetPerson(_ context.Context, id string) (*types.Person, error) {
	d.calls++
	if p, ok := d.people[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: person %s", storage.ErrNotFound, id)
}

func TestCachedDirectoryReadThrough(t *testing.T) {
	inner := &countingDirectory{people: map[string]*types.Person{
		"p1": {ID: "p1", Gender: types.GenderMale, IsAlive: true},
	}}
	cached, err := NewCachedDirectory(inner, 4)
	if err != nil {
		t.Fatalf("building cache: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		p, err := cached.GetPerson(ctx, "p1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if p.ID != "p1" {
			t.Errorf("person = %+v", p)
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner lookups = %d, want 1 (rest from cache)", inner.calls)
	}
}

func TestCachedDirectoryNoNegativeCaching(t *testing.T) {
	inner := &countingDirectory{people: map[string]*types.Person{}}
	cached, err := NewCachedDirectory(inner, 4)
	if err != nil {
		t.Fatalf("building cache: %v", err)
	}

	ctx := context.Background()
	if _, err := cached.GetPerson(ctx, "late"); err == nil {
		t.Fatal("expected miss")
	}

	// The person appears later; the earlier miss must not stick.
	inner.people["late"] = &types.Person{ID: "late"}
	if _, err := cached.GetPerson(ctx, "late"); err != nil {
		t.Fatalf("second lookup should succeed: %v", err)
	}
}

func TestCachedDirectoryInvalidate(t *testing.T) {
	inner := &countingDirectory{people: map[string]*types.Person{
		"p1": {ID: "p1", IsAlive: true},
	}}
	cached, err := NewCachedDirectory(inner, 4)
	if err != nil {
		t.Fatalf("building cache: %v", err)
	}

	ctx := context.Background()
	if _, err := cached.GetPerson(ctx, "p1"); err != nil {
		t.Fatalf("get: %v", err)
	}

	inner.people["p1"] = &types.Person{ID: "p1", IsAlive: false}
	cached.Invalidate("p1")

	p, err := cached.GetPerson(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.IsAlive {
		t.Error("invalidate should force a re-read")
	}
	if inner.calls != 2 {
		t.Errorf("inner lookups = %d, want 2", inner.calls)
	}
}

func TestCachedDirectoryEviction(t *testing.T) {
	inner := &countingDirectory{people: map[string]*types.Person{
		"p1": {ID: "p1"},
		"p2": {ID: "p2"},
		"p3": {ID: "p3"},
	}}
	cached, err := NewCachedDirectory(inner, 2)
	if err != nil {
		t.Fatalf("building cache: %v", err)
	}

	ctx := context.Background()
	for _, id := range []string{"p1", "p2", "p3", "p1"} {
		if _, err := cached.GetPerson(ctx, id); err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
	}

	// p1 was evicted by p3, so it costs a second inner lookup.
	if inner.calls != 4 {
		t.Errorf("inner lookups = %d, want 4", inner.calls)
	}
}
