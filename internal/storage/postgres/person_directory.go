package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// PersonDirectory implements storage.PersonDirectory on the persons table.
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
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT id, gender, birth_date, is_alive FROM persons WHERE id = $1`, id).
		Scan(&p.ID, &gender, &birthDate, &p.IsAlive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: person %s", storage.ErrNotFound, id)
		}
		return nil, fmt.Errorf("postgres: GetPerson: %w", err)
	}
	if gender.Valid {
		p.Gender = gender.String
	}
	p.BirthDate = timePtr(birthDate)
	return &p, nil
}

// PutPerson upserts a person row. Used by tooling; the engine never writes
// persons.
func (d *PersonDirectory) PutPerson(ctx context.Context, p *types.Person) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: person with ID is required", storage.ErrInvalidInput)
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO persons (id, gender, birth_date, is_alive)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			gender = EXCLUDED.gender,
			birth_date = EXCLUDED.birth_date,
			is_alive = EXCLUDED.is_alive
	`, p.ID, nullString(p.Gender), p.BirthDate, p.IsAlive)
	if err != nil {
		return fmt.Errorf("postgres: PutPerson: %w", err)
	}
	return nil
}
