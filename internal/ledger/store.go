// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a local SQLite history of DOIs registered from a
// blog, so an operator can see what was minted and when.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doi-jekyll/pkg/types"
)

// DefaultPath is the ledger location relative to the blog root.
const DefaultPath = ".doi-jekyll/registrations.db"

const defaultLimit = 20

// Store manages the registration ledger database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the ledger at path, creating parent
// directories and the schema as needed.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS registrations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			doi TEXT NOT NULL,
			post_path TEXT NOT NULL,
			url TEXT,
			metadata_registered INTEGER NOT NULL,
			url_registered INTEGER NOT NULL,
			registered_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_doi ON registrations(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends reg to the ledger. ID and RegisteredAt are filled in when
// empty; the stored entry is returned.
func (s *Store) Record(ctx context.Context, reg types.Registration) (types.Registration, error) {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now()
	}
	reg.RegisteredAt = reg.RegisteredAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO registrations (id, doi, post_path, url, metadata_registered, url_registered, registered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reg.ID, reg.DOI, reg.PostPath, reg.URL,
		reg.MetadataRegistered, reg.URLRegistered,
		reg.RegisteredAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return reg, fmt.Errorf("recording registration of %s: %w", reg.DOI, err)
	}
	return reg, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// means 20.
func (s *Store) List(ctx context.Context, limit int) ([]types.Registration, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doi, post_path, url, metadata_registered, url_registered, registered_at
		 FROM registrations ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying registrations: %w", err)
	}
	defer rows.Close()

	var out []types.Registration
	for rows.Next() {
		var (
			reg types.Registration
			url sql.NullString
			at  string
		)
		if err := rows.Scan(&reg.ID, &reg.DOI, &reg.PostPath, &url,
			&reg.MetadataRegistered, &reg.URLRegistered, &at); err != nil {
			return nil, fmt.Errorf("scanning registration: %w", err)
		}
		reg.URL = url.String
		reg.RegisteredAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parsing registration time %q: %w", at, err)
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

// LastFor returns the newest entry for doi, or false when none exists.
func (s *Store) LastFor(ctx context.Context, doi string) (types.Registration, bool, error) {
	var (
		reg types.Registration
		url sql.NullString
		at  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, doi, post_path, url, metadata_registered, url_registered, registered_at
		 FROM registrations WHERE doi = ? ORDER BY rowid DESC LIMIT 1`, doi).
		Scan(&reg.ID, &reg.DOI, &reg.PostPath, &url, &reg.MetadataRegistered, &reg.URLRegistered, &at)
	if err == sql.ErrNoRows {
		return reg, false, nil
	}
	if err != nil {
		return reg, false, fmt.Errorf("looking up %s: %w", doi, err)
	}
	reg.URL = url.String
	if reg.RegisteredAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return reg, false, fmt.Errorf("parsing registration time %q: %w", at, err)
	}
	return reg, true, nil
}
