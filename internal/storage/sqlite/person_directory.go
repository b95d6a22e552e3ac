package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// PersonDirectory implements storage.PersonDirectory on the persons table.
// The directory is an external identity source from the engine's point of
// view; this adapter exists so the whole graph can run on a single SQLite
// file.
type PersonDirectory struct {
	db *sql.DB
}

// NewPersonDirectory wraps the given store's database as a person directory.
func NewPersonDirectory(store *RelationshipStore) *PersonDirectory {
	return &PersonDirectory{db: store.GetDB()}
}

// GetPerson returns the person record for id, or storage.ErrNotFound.
func (d *PersonDirectory) GetPerson(ctx context.Context, id string) (*types.Person, error) {
	var (
		p         types.Person
		gender    sql.NullString
		birthDate sql.NullTime
		isAlive   int
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT id, gender, birth_date, is_alive FROM persons WHERE id = ?`, id).
		Scan(&p.ID, &gender, &birthDate, &isAlive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: person %s", storage.ErrNotFound, id)
		}
		return nil, fmt.Errorf("sqlite: GetPerson: %w", err)
	}
	if gender.Valid {
		p.Gender = gender.String
	}
	p.BirthDate = timePtr(birthDate)
	p.IsAlive = isAlive != 0
	return &p, nil
}

// PutPerson upserts a person row. Used by tooling and tests; the engine
// itself never writes persons.
func (d *PersonDirectory) PutPerson(ctx context.Context, p *types.Person) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: person with ID is required", storage.ErrInvalidInput)
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO persons (id, gender, birth_date, is_alive)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			gender = excluded.gender,
			birth_date = excluded.birth_date,
			is_alive = excluded.is_alive
	`, p.ID, nullString(p.Gender), nullTime(p.BirthDate), boolToInt(p.IsAlive))
	if err != nil {
		return fmt.Errorf("sqlite: PutPerson: %w", err)
	}
	return nil
}
