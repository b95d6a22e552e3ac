// Package storage provides the persistence contracts for the Nasab
// relationship graph.
//
// The interfaces are deliberately small: the engine consumes them, and any
// conforming backend (SQLite, PostgreSQL, in-memory) satisfies the rest of
// the system. The authoritative guard against duplicate relationship triples
// is a uniqueness constraint on (person_id, related_person_id,
// relationship_type) among non-deleted rows, enforced by the backend;
// the engine's pre-check is an optimization only.
package storage

import (
	"context"
	"time"

	"github.com/nasabhq/nasab/pkg/types"
)

// RelationshipStore is the persistence gateway for relationship edges.
// All reads exclude soft-deleted rows.
type RelationshipStore interface {
	// Create persists a new edge. Returns ErrDuplicate when a non-deleted
	// edge with the same (person, related, type) triple already exists.
	Create(ctx context.Context, edge *types.RelationshipEdge) error

	// Get retrieves an edge by ID. Returns ErrNotFound for unknown or
	// soft-deleted edges.
	Get(ctx context.Context, id string) (*types.RelationshipEdge, error)

	// FindEdge looks up the non-deleted edge with the exact
	// (personID, relatedID, relType) triple. Returns ErrNotFound when absent.
	// Used for duplicate detection and import merge decisions.
	FindEdge(ctx context.Context, personID, relatedID string, relType types.RelationshipType) (*types.RelationshipEdge, error)

	// Update replaces the mutable fields of an existing edge.
	// Returns ErrNotFound for unknown or soft-deleted edges.
	Update(ctx context.Context, edge *types.RelationshipEdge) error

	// SoftDelete sets the deleted_at tombstone. Deleting an already-deleted
	// edge is a no-op, not an error.
	SoftDelete(ctx context.Context, id string) error

	// UpdateStatus transitions the lifecycle status. endDate may be nil for
	// non-terminal statuses.
	UpdateStatus(ctx context.Context, id string, status types.RelationshipStatus, endDate *time.Time) error

	// SetVerified records the verification provenance and forces certainty
	// to CONFIRMED. Returns ErrNotFound for unknown edges.
	SetVerified(ctx context.Context, id, verifierID string, at time.Time) error

	// AppendNote appends a timestamped note to the edge's audit trail.
	AppendNote(ctx context.Context, id, text string, at time.Time) error

	// Query returns edges where person_id = personID, filtered and paginated
	// by opts.
	Query(ctx context.Context, personID string, opts QueryOptions) (*PaginatedResult[types.RelationshipEdge], error)

	// QueryReciprocal returns edges where related_person_id = personID. This
	// is the first-class read path for reciprocal visibility; it never
	// mutates the graph.
	QueryReciprocal(ctx context.Context, personID string, opts QueryOptions) (*PaginatedResult[types.RelationshipEdge], error)

	// Stats returns aggregate counts over all non-deleted edges.
	Stats(ctx context.Context) (*StoreStats, error)

	// Close releases any resources held by the store.
	Close() error
}

// PersonDirectory is the external identity source consumed by the engine.
// Persons are read-only from the graph's point of view.
type PersonDirectory interface {
	// GetPerson returns the person record for id, or ErrNotFound.
	GetPerson(ctx context.Context, id string) (*types.Person, error)
}

// StoreStats carries the raw counts used by the statistics aggregator.
type StoreStats struct {
	Total       int                              // All non-deleted edges
	ByStatus    map[types.RelationshipStatus]int // Edge counts per lifecycle status
	ByType      map[types.RelationshipType]int   // Edge counts per relationship type
	ByCertainty map[types.CertaintyLevel]int     // Edge counts per certainty level
	Biological  int                              // Edges with is_biological = true
	Verified    int                              // Edges with verified_at set
}
