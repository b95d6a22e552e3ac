package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nasabhq/nasab/pkg/types"
)

// stubStore returns canned results and lets tests inject backend failures.
type stubStore struct {
	err   error
	edge  *types.RelationshipEdge
	calls int
}

func (s *stubStore) result() (*types.RelationshipEdge, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.edge != nil {
		return s.edge, nil
	}
	return &types.RelationshipEdge{ID: "stub"}, nil
}

func (s *stubStore) Create(ctx context.Context, edge *types.RelationshipEdge) error {
	_, err := s.result()
	return err
}

func (s *stubStore) Get(ctx context.Context, id string) (*types.RelationshipEdge, error) {
	return s.result()
}

func (s *stubStore) FindEdge(ctx context.Context, personID, relatedID string, relType types.RelationshipType) (*types.RelationshipEdge, error) {
	return s.result()
}

func (s *stubStore) Update(ctx context.Context, edge *types.RelationshipEdge) error {
	_, err := s.result()
	return err
}

func (s *stubStore) SoftDelete(ctx context.Context, id string) error {
	_, err := s.result()
	return err
}

func (s *stubStore) UpdateStatus(ctx context.Context, id string, status types.RelationshipStatus, endDate *time.Time) error {
	_, err := s.result()
	return err
}

func (s *stubStore) SetVerified(ctx context.Context, id, verifierID string, at time.Time) error {
	_, err := s.result()
	return err
}

func (s *stubStore) AppendNote(ctx context.Context, id, text string, at time.Time) error {
	_, err := s.result()
	return err
}

func (s *stubStore) Query(ctx context.Context, personID string, opts QueryOptions) (*PaginatedResult[types.RelationshipEdge], error) {
	_, err := s.result()
	if err != nil {
		return nil, err
	}
	return &PaginatedResult[types.RelationshipEdge]{}, nil
}

func (s *stubStore) QueryReciprocal(ctx context.Context, personID string, opts QueryOptions) (*PaginatedResult[types.RelationshipEdge], error) {
	return s.Query(ctx, personID, opts)
}

func (s *stubStore) Stats(ctx context.Context) (*StoreStats, error) {
	_, err := s.result()
	if err != nil {
		return nil, err
	}
	return &StoreStats{}, nil
}

func (s *stubStore) Close() error { return nil }

func TestBreakerPassesThroughHealthyCalls(t *testing.T) {
	stub := &stubStore{}
	breaker := NewBreakerStore(stub, BreakerConfig{})

	edge, err := breaker.Get(context.Background(), "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if edge.ID != "stub" {
		t.Errorf("edge = %+v", edge)
	}
	if breaker.State() != "closed" {
		t.Errorf("state = %s, want closed", breaker.State())
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubStore{err: errors.New("disk exploded")}
	breaker := NewBreakerStore(stub, BreakerConfig{MaxFailures: 3})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := breaker.Get(ctx, "e1"); err == nil {
			t.Fatalf("call %d should fail", i+1)
		}
	}
	if breaker.State() != "open" {
		t.Fatalf("state = %s, want open", breaker.State())
	}

	// Open circuit rejects without touching the backend.
	callsBefore := stub.calls
	_, err := breaker.Get(ctx, "e1")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if stub.calls != callsBefore {
		t.Error("open circuit must not call the backend")
	}
}

func TestBreakerIgnoresDomainErrors(t *testing.T) {
	stub := &stubStore{err: ErrNotFound}
	breaker := NewBreakerStore(stub, BreakerConfig{MaxFailures: 2})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := breaker.Get(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("call %d: expected ErrNotFound, got %v", i+1, err)
		}
	}
	if breaker.State() != "closed" {
		t.Errorf("state = %s, domain errors must not trip the circuit", breaker.State())
	}
}

func TestBreakerRecoversAfterTimeout(t *testing.T) {
	stub := &stubStore{err: errors.New("transient outage")}
	breaker := NewBreakerStore(stub, BreakerConfig{
		MaxFailures: 1,
		Timeout:     50 * time.Millisecond,
	})

	ctx := context.Background()
	if _, err := breaker.Get(ctx, "e1"); err == nil {
		t.Fatal("first call should fail")
	}
	if breaker.State() != "open" {
		t.Fatalf("state = %s, want open", breaker.State())
	}

	stub.err = nil
	time.Sleep(100 * time.Millisecond)

	if _, err := breaker.Get(ctx, "e1"); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
}
