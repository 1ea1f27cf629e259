// Database schema migration management.
package db

import (
	"database/sql"
	"time"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/logging"
)

// Migration is one ordered schema upgrade step.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations is the ordered list of schema steps. Versions are contiguous
// and append-only; never edit a shipped step.
var migrations = []Migration{
	{
		Version:     1,
		Description: "base_schema",
		SQL: `
		CREATE TABLE link (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT,
			description TEXT,
			content TEXT,
			is_primary INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			modified_at TEXT NOT NULL
		);

		CREATE TABLE note (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			title TEXT NOT NULL UNIQUE,
			link_id TEXT REFERENCES link(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL,
			modified_at TEXT NOT NULL
		);
		CREATE INDEX idx_note_link ON note(link_id);

		CREATE TABLE tag (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			slug TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			modified_at TEXT NOT NULL
		);

		CREATE TABLE item_tag (
			tag_id TEXT NOT NULL REFERENCES tag(id) ON DELETE CASCADE,
			link_id TEXT REFERENCES link(id) ON DELETE CASCADE,
			note_id TEXT REFERENCES note(id) ON DELETE CASCADE,
			UNIQUE (tag_id, link_id, note_id),
			CHECK ((link_id IS NULL) <> (note_id IS NULL))
		);
		CREATE INDEX idx_item_tag_link ON item_tag(link_id);
		CREATE INDEX idx_item_tag_note ON item_tag(note_id);

		CREATE TABLE related_link (
			primary_link_id TEXT NOT NULL REFERENCES link(id) ON DELETE CASCADE,
			related_link_id TEXT NOT NULL REFERENCES link(id) ON DELETE CASCADE,
			relationship TEXT,
			UNIQUE (primary_link_id, related_link_id)
		);
		CREATE INDEX idx_related_link_related ON related_link(related_link_id);
		`,
	},
	{
		// Move link content out of the base table into a full-text
		// index: create, back-fill, drop. The FTS copy becomes the only
		// home of extracted page text.
		Version:     2,
		Description: "link_content_fts",
		SQL: `
		CREATE VIRTUAL TABLE link_content USING fts5(
			link_id UNINDEXED,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);

		INSERT INTO link_content (link_id, content)
			SELECT id, content FROM link
			WHERE content IS NOT NULL AND content <> '';

		ALTER TABLE link DROP COLUMN content;
		`,
	},
	{
		// Note text stays authoritative in the base table; the FTS copy
		// is an index only.
		Version:     3,
		Description: "note_content_fts",
		SQL: `
		CREATE VIRTUAL TABLE note_content USING fts5(
			note_id UNINDEXED,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);

		INSERT INTO note_content (note_id, content)
			SELECT id, content FROM note;
		`,
	},
}

// Migrator applies pending schema migrations.
type Migrator struct {
	db    *sql.DB
	steps []Migration
}

// NewMigrator creates a Migrator for the built-in migration list.
func NewMigrator(db *DB) *Migrator {
	return &Migrator{db: db.DB, steps: migrations}
}

// Initialize creates the schema_migrations table if it doesn't exist.
func (m *Migrator) Initialize() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY CHECK(version > 0),
		applied_at INTEGER NOT NULL CHECK(applied_at > 0),
		description TEXT NOT NULL CHECK(length(description) > 0)
	);`
	if _, err := m.db.Exec(query); err != nil {
		return apperr.Wrap(apperr.ErrMigration, err, "failed to initialize migration bookkeeping")
	}
	return nil
}

// CurrentVersion returns the highest applied schema version, 0 for a
// fresh database.
func (m *Migrator) CurrentVersion() (int, error) {
	var version int
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

// Up applies all pending migrations strictly in order, one transaction
// per step. The version row commits together with the step's statements,
// so a failure leaves the database at its last fully-committed version.
// A second run over an up-to-date database is a no-op.
func (m *Migrator) Up() error {
	if err := m.Initialize(); err != nil {
		return err
	}

	current, err := m.CurrentVersion()
	if err != nil {
		return apperr.Wrap(apperr.ErrMigration, err, "failed to read schema version")
	}

	for _, step := range m.steps {
		if step.Version <= current {
			continue
		}
		if err := m.apply(step); err != nil {
			return apperr.Wrap(apperr.ErrMigration, err,
				"migration %d (%s) failed", step.Version, step.Description)
		}
		logging.Debug("applied migration", logging.Fields{
			"version":     step.Version,
			"description": step.Description,
		})
	}
	return nil
}

// apply runs a single step inside its own transaction.
func (m *Migrator) apply(step Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(step.SQL); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, applied_at, description) VALUES (?, ?, ?)",
		step.Version, time.Now().Unix(), step.Description,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Migrate opens-and-upgrades in one call: the startup path for every
// command. A failure here is fatal to the caller.
func Migrate(db *DB) error {
	return NewMigrator(db).Up()
}
