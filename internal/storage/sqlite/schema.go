package sqlite

// Schema contains the SQLite DDL for the relationship graph.
//
// The partial unique index on (person_id, related_person_id,
// relationship_type) WHERE deleted_at IS NULL is the authoritative guard
// against duplicate triples: the engine's duplicate pre-check narrows the
// window but the index closes it.
const Schema = `
CREATE TABLE IF NOT EXISTS relationships (
    id                           TEXT PRIMARY KEY,
    person_id                    TEXT NOT NULL,
    related_person_id            TEXT NOT NULL,
    relationship_type            TEXT NOT NULL,
    reciprocal_relationship_type TEXT NOT NULL DEFAULT 'OTHER',
    relationship_status          TEXT NOT NULL DEFAULT 'ACTIVE',
    certainty_level              TEXT NOT NULL DEFAULT 'CONFIRMED',
    is_biological                INTEGER NOT NULL DEFAULT 1,
    start_date                   TIMESTAMP,
    end_date                     TIMESTAMP,
    verified_by                  TEXT,
    verified_at                  TIMESTAMP,
    created_by                   TEXT,
    created_at                   TIMESTAMP NOT NULL,
    updated_at                   TIMESTAMP NOT NULL,
    deleted_at                   TIMESTAMP,
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
    birth_date TIMESTAMP,
    is_alive   INTEGER NOT NULL DEFAULT 1
);
`
