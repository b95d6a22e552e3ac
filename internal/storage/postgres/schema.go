package postgres

// Schema contains the PostgreSQL DDL for the relationship graph. All
// statements are idempotent so the schema can be applied on every startup.
//
// The partial unique index on the (person_id, related_person_id,
// relationship_type) triple among non-deleted rows is the authoritative
// duplicate guard.
const Schema = `
CREATE TABLE IF NOT EXISTS relationships (
    id                           TEXT PRIMARY KEY,
    person_id                    TEXT NOT NULL,
    related_person_id            TEXT NOT NULL,
    relationship_type            TEXT NOT NULL,
    reciprocal_relationship_type TEXT NOT NULL DEFAULT 'OTHER',
    relationship_status          TEXT NOT NULL DEFAULT 'ACTIVE',
    certainty_level              TEXT NOT NULL DEFAULT 'CONFIRMED',
    is_biological                BOOLEAN NOT NULL DEFAULT TRUE,
    start_date                   TIMESTAMPTZ,
    end_date                     TIMESTAMPTZ,
    verified_by                  TEXT,
    verified_at                  TIMESTAMPTZ,
    created_by                   TEXT,
    created_at                   TIMESTAMPTZ NOT NULL,
    updated_at                   TIMESTAMPTZ NOT NULL,
    deleted_at                   TIMESTAMPTZ,
    notes                        TEXT NOT NULL DEFAULT '',

    CHECK (person_id <> related_person_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_relationships_triple
    ON relationships(person_id, related_person_id, relationship_type)
    WHERE deleted_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_relationships_person
    ON relationships(person_id) WHERE deleted_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_relationships_related
    ON relationships(related_person_id) WHERE deleted_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_relationships_type
    ON relationships(relationship_type) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS persons (
    id         TEXT PRIMARY KEY,
    gender     TEXT,
    birth_date TIMESTAMPTZ,
    is_alive   BOOLEAN NOT NULL DEFAULT TRUE
);
`
