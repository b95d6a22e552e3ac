package kinship

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// DefaultDegreeBound is the generation depth used for ancestor walks during
// degree computation. Genealogical ancestor sets are bounded by 2^n entries,
// so 10 keeps the O(A*B) common-ancestor scan tractable while reaching well
// past documented family depth.
const DefaultDegreeBound = 10

// MaxGenerations caps caller-supplied traversal bounds.
const MaxGenerations = 20

// Engine orchestrates the validator, the person directory and the
// relationship store. It holds no state of its own between calls.
type Engine struct {
	store     storage.RelationshipStore
	directory storage.PersonDirectory

	nowFn func() time.Time
	idFn  func() string

	degreeBound int

	// limiter throttles bulk operations when configured via WithRateLimit.
	limiter *rate.Limiter
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source (used primarily in tests).
func WithClock(nowFn func() time.Time) Option {
	return func(e *Engine) {
		if nowFn != nil {
			e.nowFn = nowFn
		}
	}
}

// WithIDGenerator overrides edge ID generation (used primarily in tests).
func WithIDGenerator(idFn func() string) Option {
	return func(e *Engine) {
		if idFn != nil {
			e.idFn = idFn
		}
	}
}

// WithDegreeBound overrides the ancestor depth used by Degree.
func WithDegreeBound(bound int) Option {
	return func(e *Engine) {
		if bound > 0 {
			e.degreeBound = bound
		}
	}
}

// NewEngine constructs an Engine over the given store and person directory.
func NewEngine(store storage.RelationshipStore, directory storage.PersonDirectory, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		directory:   directory,
		nowFn:       time.Now,
		idFn:        uuid.NewString,
		degreeBound: DefaultDegreeBound,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateRelationship validates, defaults and persists a new edge.
//
// Failure modes: *ValidationError on rule violations, *NotFoundError when
// either person is unknown, *ConflictError on a duplicate triple, and
// *StoreError for backend failures. The duplicate pre-check here is an
// optimization; the store's uniqueness constraint is the authoritative
// guard, so a racing insert still surfaces as *ConflictError.
func (e *Engine) CreateRelationship(ctx context.Context, input CreateInput) (*types.RelationshipEdge, error) {
	now := e.nowFn().UTC()

	edge := &types.RelationshipEdge{
		PersonID:        input.PersonID,
		RelatedPersonID: input.RelatedPersonID,
		Type:            input.Type,
		Status:          input.Status,
		Certainty:       input.Certainty,
		IsBiological:    true,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		CreatedBy:       input.CreatedBy,
	}
	if input.IsBiological != nil {
		edge.IsBiological = *input.IsBiological
	}

	// Terminal statuses require an end date; default it to the creation time
	// the same way UpdateStatus defaults it to the transition time.
	if types.TerminalStatus(edge.Status) && edge.EndDate == nil {
		end := now
		edge.EndDate = &end
	}

	if violations := ValidateEdge(edge, false); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	for _, personID := range []string{input.PersonID, input.RelatedPersonID} {
		if _, err := e.directory.GetPerson(ctx, personID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, &NotFoundError{Resource: "person", ID: personID}
			}
			return nil, &StoreError{Op: "person lookup", Err: err}
		}
	}

	if _, err := e.store.FindEdge(ctx, input.PersonID, input.RelatedPersonID, input.Type); err == nil {
		return nil, &ConflictError{Reason: duplicateReason(input.PersonID, input.RelatedPersonID, input.Type)}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, &StoreError{Op: "duplicate check", Err: err}
	}

	edge.ID = e.idFn()
	edge.ReciprocalType = types.ReciprocalOf(edge.Type)
	if edge.Status == "" {
		edge.Status = types.StatusActive
	}
	if edge.Certainty == "" {
		edge.Certainty = types.CertaintyConfirmed
	}
	edge.CreatedAt = now
	edge.UpdatedAt = now
	if input.Notes != "" {
		edge.AppendNote(input.Notes, now)
	}

	if err := e.store.Create(ctx, edge); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, &ConflictError{Reason: duplicateReason(input.PersonID, input.RelatedPersonID, input.Type)}
		}
		return nil, &StoreError{Op: "create", Err: err}
	}
	return edge, nil
}

// GetRelationship retrieves a single edge by ID.
func (e *Engine) GetRelationship(ctx context.Context, id string) (*types.RelationshipEdge, error) {
	edge, err := e.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "relationship", ID: id}
		}
		return nil, &StoreError{Op: "get", Err: err}
	}
	return edge, nil
}

// GetPersonRelationships returns the directional edge views for a person.
// With IncludeReciprocal it performs a second query for edges where the
// person is the object; the graph is never mutated to provide reciprocal
// visibility.
func (e *Engine) GetPersonRelationships(ctx context.Context, personID string, opts RelationshipsOptions) (*RelationshipsResult, error) {
	queryOpts := storage.QueryOptions{
		Types:      opts.Types,
		ActiveOnly: opts.ActiveOnly,
		Page:       opts.Page,
		Limit:      opts.Limit,
	}

	edges, err := e.store.Query(ctx, personID, queryOpts)
	if err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}

	result := &RelationshipsResult{Edges: edges}

	if opts.IncludeReciprocal {
		reciprocal, err := e.store.QueryReciprocal(ctx, personID, queryOpts)
		if err != nil {
			return nil, &StoreError{Op: "reciprocal query", Err: err}
		}
		result.Reciprocal = reciprocal
	}
	return result, nil
}

// UpdateStatus transitions an edge's lifecycle status. Terminal statuses
// (DISSOLVED, DECEASED) require an end date; when the caller omits one, the
// transition time is used.
func (e *Engine) UpdateStatus(ctx context.Context, id string, status types.RelationshipStatus, endDate *time.Time) error {
	if !types.ValidStatus(status) {
		return &ValidationError{Violations: []string{
			"unknown relationship_status " + string(status),
		}}
	}

	if types.TerminalStatus(status) && endDate == nil {
		now := e.nowFn().UTC()
		endDate = &now
	}

	if err := e.store.UpdateStatus(ctx, id, status, endDate); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Resource: "relationship", ID: id}
		}
		return &StoreError{Op: "update status", Err: err}
	}
	return nil
}

// Verify records verification provenance on an edge. Verification is
// set-once: re-verifying a verified edge is a conflict. Certainty is forced
// to CONFIRMED.
func (e *Engine) Verify(ctx context.Context, id, verifierID string) error {
	if verifierID == "" {
		return &ValidationError{Violations: []string{"verifier id is required"}}
	}

	edge, err := e.GetRelationship(ctx, id)
	if err != nil {
		return err
	}
	if edge.IsVerified() {
		return &ConflictError{Reason: "relationship " + id + " is already verified"}
	}

	if err := e.store.SetVerified(ctx, id, verifierID, e.nowFn().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Resource: "relationship", ID: id}
		}
		return &StoreError{Op: "verify", Err: err}
	}
	return nil
}

// AddNote appends to an edge's audit trail. Notes are never overwritten.
func (e *Engine) AddNote(ctx context.Context, id, text string) error {
	if text == "" {
		return &ValidationError{Violations: []string{"note text is required"}}
	}
	if err := e.store.AppendNote(ctx, id, text, e.nowFn().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Resource: "relationship", ID: id}
		}
		return &StoreError{Op: "append note", Err: err}
	}
	return nil
}

// DeleteRelationship soft-deletes an edge. Idempotent: deleting an unknown
// or already-deleted edge succeeds, preserving the tombstone-only contract.
func (e *Engine) DeleteRelationship(ctx context.Context, id string) error {
	if err := e.store.SoftDelete(ctx, id); err != nil {
		return &StoreError{Op: "soft delete", Err: err}
	}
	return nil
}

// duplicateReason formats the conflict message for a duplicate triple.
func duplicateReason(personID, relatedID string, relType types.RelationshipType) string {
	return "relationship (" + personID + ", " + relatedID + ", " + string(relType) + ") already exists"
}

// lookupPerson resolves a person record, mapping directory misses to nil
// rather than an error. Used where person data only enriches a result.
func (e *Engine) lookupPerson(ctx context.Context, id string) *types.Person {
	p, err := e.directory.GetPerson(ctx, id)
	if err != nil {
		return nil
	}
	return p
}
