package storage

import (
	"errors"

	"github.com/nasabhq/nasab/pkg/types"
)

var (
	// ErrNotFound indicates that the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicate indicates that a non-deleted edge with the same
	// (person, related, type) triple already exists.
	ErrDuplicate = errors.New("duplicate relationship triple")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// PaginatedResult represents a paginated result set with type safety using generics.
type PaginatedResult[T any] struct {
	// Items is the slice of results for the current page.
	Items []T

	// Total is the total number of items across all pages.
	Total int

	// Page is the current page number (1-indexed).
	Page int

	// PageSize is the number of items per page.
	PageSize int

	// HasMore indicates whether there are more pages available.
	HasMore bool
}

// QueryOptions provides filtering and pagination for edge queries.
type QueryOptions struct {
	// Types restricts results to the given relationship types.
	// Empty means no type filter.
	Types []types.RelationshipType

	// ActiveOnly restricts results to edges with status ACTIVE.
	ActiveOnly bool

	// Page is the page number to retrieve (1-indexed, default: 1).
	Page int

	// Limit is the number of items per page (default: 50, max: 500).
	Limit int
}

// Normalize applies defaults and clamps the QueryOptions.
func (o *QueryOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 50
	}
	if o.Limit > 500 {
		o.Limit = 500
	}
}

// Offset calculates the offset for SQL queries based on page and limit.
func (o *QueryOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// WantsType reports whether t passes the Types filter.
func (o *QueryOptions) WantsType(t types.RelationshipType) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, want := range o.Types {
		if want == t {
			return true
		}
	}
	return false
}
