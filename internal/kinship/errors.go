// Package kinship implements the relationship graph engine: validated edge
// creation, bounded ancestor/descendant traversal, consanguinity-degree
// computation, bulk import/export and statistics.
//
// The engine is stateless between calls; all state lives behind the
// storage.RelationshipStore contract. Callers are responsible for
// authorization; none is performed here.
package kinship

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed input. All field violations are
// collected, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// NotFoundError reports an unknown person or relationship.
type NotFoundError struct {
	Resource string // "person" or "relationship"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a duplicate triple or an illegal repeat of a
// set-once operation (e.g. re-verifying a verified edge).
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// StoreError wraps an underlying persistence failure. The engine never
// retries; retries, if any, belong to the storage adapter.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
