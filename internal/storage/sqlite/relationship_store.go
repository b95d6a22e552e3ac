// Package sqlite implements the storage contracts on SQLite via the CGO-free
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// RelationshipStore implements storage.RelationshipStore using SQLite.
type RelationshipStore struct {
	db *sql.DB
}

// NewRelationshipStore opens a SQLite database, configures WAL mode, and
// creates the schema.
func NewRelationshipStore(dsn string) (*RelationshipStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Using a single open
	// connection serialises writes and avoids SQLITE_BUSY errors under
	// concurrent load. WAL mode lets readers proceed without blocking the
	// writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to create schema: %w", err)
	}

	return &RelationshipStore{db: db}, nil
}

// GetDB exposes the underlying connection for tests and tooling.
func (s *RelationshipStore) GetDB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *RelationshipStore) Close() error {
	return s.db.Close()
}

// edgeColumns is the canonical SELECT column list, kept in one place so every
// read path scans identically.
const edgeColumns = `
	id, person_id, related_person_id, relationship_type,
	reciprocal_relationship_type, relationship_status, certainty_level,
	is_biological, start_date, end_date,
	verified_by, verified_at,
	created_by, created_at, updated_at, deleted_at, notes
`

// Create persists a new edge. A partial unique index on the triple rejects
// duplicates; constraint violations map to storage.ErrDuplicate.
func (s *RelationshipStore) Create(ctx context.Context, edge *types.RelationshipEdge) error {
	if edge == nil || edge.ID == "" {
		return fmt.Errorf("%w: edge with ID is required", storage.ErrInvalidInput)
	}

	query := `
		INSERT INTO relationships (
			id, person_id, related_person_id, relationship_type,
			reciprocal_relationship_type, relationship_status, certainty_level,
			is_biological, start_date, end_date,
			verified_by, verified_at,
			created_by, created_at, updated_at, deleted_at, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		edge.ID, edge.PersonID, edge.RelatedPersonID, string(edge.Type),
		string(edge.ReciprocalType), string(edge.Status), string(edge.Certainty),
		boolToInt(edge.IsBiological), nullTime(edge.StartDate), nullTime(edge.EndDate),
		nullString(edge.VerifiedBy), nullTime(edge.VerifiedAt),
		nullString(edge.CreatedBy), edge.CreatedAt, edge.UpdatedAt, nullTime(edge.DeletedAt), edge.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: (%s, %s, %s)", storage.ErrDuplicate,
				edge.PersonID, edge.RelatedPersonID, edge.Type)
		}
		return fmt.Errorf("sqlite: Create: %w", err)
	}
	return nil
}

// Get retrieves a non-deleted edge by ID.
func (s *RelationshipStore) Get(ctx context.Context, id string) (*types.RelationshipEdge, error) {
	query := fmt.Sprintf(`SELECT %s FROM relationships WHERE id = ? AND deleted_at IS NULL`, edgeColumns)
	edge, err := scanEdge(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: relationship %s", storage.ErrNotFound, id)
		}
		return nil, fmt.Errorf("sqlite: Get: %w", err)
	}
	return edge, nil
}

// FindEdge looks up the non-deleted edge with the exact triple.
func (s *RelationshipStore) FindEdge(ctx context.Context, personID, relatedID string, relType types.RelationshipType) (*types.RelationshipEdge, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM relationships
		WHERE person_id = ? AND related_person_id = ? AND relationship_type = ?
		  AND deleted_at IS NULL
	`, edgeColumns)
	edge, err := scanEdge(s.db.QueryRowContext(ctx, query, personID, relatedID, string(relType)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: (%s, %s, %s)", storage.ErrNotFound, personID, relatedID, relType)
		}
		return nil, fmt.Errorf("sqlite: FindEdge: %w", err)
	}
	return edge, nil
}

// Update replaces the mutable fields of an existing non-deleted edge.
// ID, person references, type and creation audit fields are immutable.
func (s *RelationshipStore) Update(ctx context.Context, edge *types.RelationshipEdge) error {
	if edge == nil || edge.ID == "" {
		return fmt.Errorf("%w: edge with ID is required", storage.ErrInvalidInput)
	}

	query := `
		UPDATE relationships SET
			relationship_status = ?, certainty_level = ?, is_biological = ?,
			start_date = ?, end_date = ?, notes = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	res, err := s.db.ExecContext(ctx, query,
		string(edge.Status), string(edge.Certainty), boolToInt(edge.IsBiological),
		nullTime(edge.StartDate), nullTime(edge.EndDate), edge.Notes, edge.UpdatedAt,
		edge.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: Update: %w", err)
	}
	return requireRow(res, edge.ID)
}

// SoftDelete sets the deleted_at tombstone. Idempotent: deleting an unknown
// or already-deleted edge is a no-op.
func (s *RelationshipStore) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE relationships SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
	if err != nil {
		return fmt.Errorf("sqlite: SoftDelete: %w", err)
	}
	return nil
}

// UpdateStatus transitions the lifecycle status of an edge.
func (s *RelationshipStore) UpdateStatus(ctx context.Context, id string, status types.RelationshipStatus, endDate *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE relationships
		SET relationship_status = ?, end_date = COALESCE(?, end_date), updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, string(status), nullTime(endDate), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("sqlite: UpdateStatus: %w", err)
	}
	return requireRow(res, id)
}

// SetVerified records verification provenance and forces certainty to
// CONFIRMED. The engine guards against re-verification; the store just
// writes.
func (s *RelationshipStore) SetVerified(ctx context.Context, id, verifierID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE relationships
		SET verified_by = ?, verified_at = ?, certainty_level = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, verifierID, at, string(types.CertaintyConfirmed), at, id)
	if err != nil {
		return fmt.Errorf("sqlite: SetVerified: %w", err)
	}
	return requireRow(res, id)
}

// AppendNote appends a timestamped note line to the edge's audit trail.
func (s *RelationshipStore) AppendNote(ctx context.Context, id, text string, at time.Time) error {
	entry := fmt.Sprintf("[%s] %s", at.UTC().Format(time.RFC3339), text)
	res, err := s.db.ExecContext(ctx, `
		UPDATE relationships
		SET notes = CASE WHEN notes = '' THEN ? ELSE notes || char(10) || ? END,
		    updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, entry, entry, at, id)
	if err != nil {
		return fmt.Errorf("sqlite: AppendNote: %w", err)
	}
	return requireRow(res, id)
}

// Query returns edges where person_id = personID.
func (s *RelationshipStore) Query(ctx context.Context, personID string, opts storage.QueryOptions) (*storage.PaginatedResult[types.RelationshipEdge], error) {
	return s.queryBySubject(ctx, "person_id", personID, opts)
}

// QueryReciprocal returns edges where related_person_id = personID.
func (s *RelationshipStore) QueryReciprocal(ctx context.Context, personID string, opts storage.QueryOptions) (*storage.PaginatedResult[types.RelationshipEdge], error) {
	return s.queryBySubject(ctx, "related_person_id", personID, opts)
}

// queryBySubject is the shared implementation behind Query and
// QueryReciprocal. column must be one of the two indexed person columns.
func (s *RelationshipStore) queryBySubject(ctx context.Context, column, personID string, opts storage.QueryOptions) (*storage.PaginatedResult[types.RelationshipEdge], error) {
	opts.Normalize()

	where := fmt.Sprintf("%s = ? AND deleted_at IS NULL", column)
	args := []interface{}{personID}

	if len(opts.Types) > 0 {
		placeholders := make([]string, len(opts.Types))
		for i, t := range opts.Types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		where += fmt.Sprintf(" AND relationship_type IN (%s)", strings.Join(placeholders, ","))
	}
	if opts.ActiveOnly {
		where += " AND relationship_status = ?"
		args = append(args, string(types.StatusActive))
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM relationships WHERE %s", where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("sqlite: query count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM relationships
		WHERE %s
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`, edgeColumns, where)
	args = append(args, opts.Limit, opts.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	var items []types.RelationshipEdge
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: query scan: %w", err)
		}
		items = append(items, *edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: query rows: %w", err)
	}

	return &storage.PaginatedResult[types.RelationshipEdge]{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.Limit,
		HasMore:  opts.Offset()+len(items) < total,
	}, nil
}

// Stats returns aggregate counts over all non-deleted edges.
func (s *RelationshipStore) Stats(ctx context.Context) (*storage.StoreStats, error) {
	stats := &storage.StoreStats{
		ByStatus:    make(map[types.RelationshipStatus]int),
		ByType:      make(map[types.RelationshipType]int),
		ByCertainty: make(map[types.CertaintyLevel]int),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT relationship_status, relationship_type, certainty_level,
		       is_biological, verified_at IS NOT NULL, COUNT(*)
		FROM relationships
		WHERE deleted_at IS NULL
		GROUP BY relationship_status, relationship_type, certainty_level,
		         is_biological, verified_at IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: Stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status, relType, certainty string
			biological, verified       bool
			count                      int
		)
		if err := rows.Scan(&status, &relType, &certainty, &biological, &verified, &count); err != nil {
			return nil, fmt.Errorf("sqlite: Stats scan: %w", err)
		}
		stats.Total += count
		stats.ByStatus[types.RelationshipStatus(status)] += count
		stats.ByType[types.RelationshipType(relType)] += count
		stats.ByCertainty[types.CertaintyLevel(certainty)] += count
		if biological {
			stats.Biological += count
		}
		if verified {
			stats.Verified += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: Stats rows: %w", err)
	}
	return stats, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEdge scans a relationship row using the edgeColumns ordering.
func scanEdge(row rowScanner) (*types.RelationshipEdge, error) {
	var (
		edge                  types.RelationshipEdge
		relType, reciprocal   string
		status, certainty     string
		biological            int
		startDate, endDate    sql.NullTime
		verifiedBy, createdBy sql.NullString
		verifiedAt, deletedAt sql.NullTime
	)

	err := row.Scan(
		&edge.ID, &edge.PersonID, &edge.RelatedPersonID, &relType,
		&reciprocal, &status, &certainty,
		&biological, &startDate, &endDate,
		&verifiedBy, &verifiedAt,
		&createdBy, &edge.CreatedAt, &edge.UpdatedAt, &deletedAt, &edge.Notes,
	)
	if err != nil {
		return nil, err
	}

	edge.Type = types.RelationshipType(relType)
	edge.ReciprocalType = types.RelationshipType(reciprocal)
	edge.Status = types.RelationshipStatus(status)
	edge.Certainty = types.CertaintyLevel(certainty)
	edge.IsBiological = biological != 0
	edge.StartDate = timePtr(startDate)
	edge.EndDate = timePtr(endDate)
	edge.VerifiedAt = timePtr(verifiedAt)
	edge.DeletedAt = timePtr(deletedAt)
	if verifiedBy.Valid {
		edge.VerifiedBy = verifiedBy.String
	}
	if createdBy.Valid {
		edge.CreatedBy = createdBy.String
	}
	return &edge, nil
}

// requireRow translates "zero rows affected" into ErrNotFound.
func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: relationship %s", storage.ErrNotFound, id)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
