package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nasabhq/nasab/pkg/types"
)

// ErrCircuitOpen is returned when the storage circuit breaker is open and
// rejects calls to prevent hammering a failing backend.
var ErrCircuitOpen = errors.New("storage circuit breaker is open")

// BreakerConfig holds the configuration for the storage circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures required to trip the
	// circuit. Default: 5.
	MaxFailures uint32

	// Timeout is the duration the circuit stays open before transitioning to
	// half-open. Default: 15 seconds.
	Timeout time.Duration

	// HalfOpenMaxSuccesses is the number of consecutive successes required in
	// half-open state to close the circuit again. Default: 2.
	HalfOpenMaxSuccesses uint32
}

// BreakerStore decorates a RelationshipStore with a circuit breaker so that
// a persistently failing backend degrades fast instead of stacking up
// timeouts. Domain errors (not found, duplicates, invalid input) do not
// count as failures; only genuine backend errors trip the circuit.
type BreakerStore struct {
	inner   RelationshipStore
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerStore wraps inner with a circuit breaker using cfg. Zero-valued
// fields fall back to defaults.
func NewBreakerStore(inner RelationshipStore, cfg BreakerConfig) *BreakerStore {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.HalfOpenMaxSuccesses == 0 {
		cfg.HalfOpenMaxSuccesses = 2
	}

	settings := gobreaker.Settings{
		Name:        "RelationshipStore",
		MaxRequests: cfg.HalfOpenMaxSuccesses,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	}

	return &BreakerStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// State returns the current breaker state: "closed", "open" or "half-open".
func (b *BreakerStore) State() string {
	switch b.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// do runs fn through the breaker, hiding domain errors from the failure
// counter by re-wrapping them as successes.
func (b *BreakerStore) do(fn func() (interface{}, error)) (interface{}, error) {
	type domainFailure struct {
		err error
	}

	result, err := b.breaker.Execute(func() (interface{}, error) {
		v, err := fn()
		if isDomainError(err) {
			// Expected outcome for the caller, healthy backend for the breaker.
			return domainFailure{err: err}, nil
		}
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}
	if df, ok := result.(domainFailure); ok {
		return nil, df.err
	}
	return result, nil
}

// isDomainError reports whether err represents an expected domain outcome
// rather than a backend failure.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInvalidInput)
}

func (b *BreakerStore) Create(ctx context.Context, edge *types.RelationshipEdge) error {
	_, err := b.do(func() (interface{}, error) { return nil, b.inner.Create(ctx, edge) })
	return err
}

func (b *BreakerStore) Get(ctx context.Context, id string) (*types.RelationshipEdge, error) {
	v, err := b.do(func() (interface{}, error) { return b.inner.Get(ctx, id) })
	if err != nil {
		return nil, err
	}
	return v.(*types.RelationshipEdge), nil
}

func (b *BreakerStore) FindEdge(ctx context.Context, personID, relatedID string, relType types.RelationshipType) (*types.RelationshipEdge, error) {
	v, err := b.do(func() (interface{}, error) { return b.inner.FindEdge(ctx, personID, relatedID, relType) })
	if err != nil {
		return nil, err
	}
	return v.(*types.RelationshipEdge), nil
}

func (b *BreakerStore) Update(ctx context.Context, edge *types.RelationshipEdge) error {
	_, err := b.do(func() (interface{}, error) { return nil, b.inner.Update(ctx, edge) })
	return err
}

func (b *BreakerStore) SoftDelete(ctx context.Context, id string) error {
	_, err := b.do(func() (interface{}, error) { return nil, b.inner.SoftDelete(ctx, id) })
	return err
}

func (b *BreakerStore) UpdateStatus(ctx context.Context, id string, status types.RelationshipStatus, endDate *time.Time) error {
	_, err := b.do(func() (interface{}, error) { return nil, b.inner.UpdateStatus(ctx, id, status, endDate) })
	return err
}

func (b *BreakerStore) SetVerified(ctx context.Context, id, verifierID string, at time.Time) error {
	_, err := b.do(func() (interface{}, error) { return nil, b.inner.SetVerified(ctx, id, verifierID, at) })
	return err
}

func (b *BreakerStore) AppendNote(ctx context.Context, id, text string, at time.Time) error {
	_, err := b.do(func() (interface{}, error) { return nil, b.inner.AppendNote(ctx, id, text, at) })
	return err
}

func (b *BreakerStore) Query(ctx context.Context, personID string, opts QueryOptions) (*PaginatedResult[types.RelationshipEdge], error) {
	v, err := b.do(func() (interface{}, error) { return b.inner.Query(ctx, personID, opts) })
	if err != nil {
		return nil, err
	}
	return v.(*PaginatedResult[types.RelationshipEdge]), nil
}

func (b *BreakerStore) QueryReciprocal(ctx context.Context, personID string, opts QueryOptions) (*PaginatedResult[types.RelationshipEdge], error) {
	v, err := b.do(func() (interface{}, error) { return b.inner.QueryReciprocal(ctx, personID, opts) })
	if err != nil {
		return nil, err
	}
	return v.(*PaginatedResult[types.RelationshipEdge]), nil
}

func (b *BreakerStore) Stats(ctx context.Context) (*StoreStats, error) {
	v, err := b.do(func() (interface{}, error) { return b.inner.Stats(ctx) })
	if err != nil {
		return nil, err
	}
	return v.(*StoreStats), nil
}

func (b *BreakerStore) Close() error {
	return b.inner.Close()
}
