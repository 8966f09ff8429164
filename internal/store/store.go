package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migrations upgrade a log from user_version i to i+1. Fresh logs get the
// tables from schema.sql and then run every migration.
var migrations = []string{
	// 1: run listing and per-pass attempt queries
	`CREATE INDEX IF NOT EXISTS idx_runs_started_seq ON runs(started_seq);
	 CREATE INDEX IF NOT EXISTS idx_attempts_pass ON attempts(pass, outcome);`,
}

// SchemaVersion is the user_version of an up-to-date run log.
var SchemaVersion = len(migrations)

// Store is the durable run log.
type Store struct {
	db       *sql.DB
	readOnly bool
}

// Open creates or opens the run log at path, creating tables and applying
// pending migrations. path may be ":memory:".
//
// Safe to call repeatedly on the same file.
func Open(path string) (*Store, error) {
	s, err := open(path, false)
	if err != nil {
		return nil, err
	}
	if err := s.migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// OpenReadOnly opens an existing run log without writing to it. It fails if
// the file does not exist or was written by an older schema.
func OpenReadOnly(path string) (*Store, error) {
	s, err := open(path, true)
	if err != nil {
		return nil, err
	}
	version, err := s.userVersion()
	if err != nil {
		s.Close()
		return nil, err
	}
	if version != SchemaVersion {
		s.Close()
		return nil, fmt.Errorf("run log %s has schema version %d, want %d", path, version, SchemaVersion)
	}
	return s, nil
}

// dsn builds a go-sqlite3 URI. Connection settings travel in the DSN so
// every pooled connection gets them, not only the first.
func dsn(path string, readOnly bool) string {
	params := url.Values{}
	params.Set("_busy_timeout", "5000")
	params.Set("_foreign_keys", "on")
	if readOnly {
		params.Set("mode", "ro")
	} else {
		params.Set("_journal_mode", "WAL")
		params.Set("_synchronous", "NORMAL")
	}
	return "file:" + path + "?" + params.Encode()
}

func open(path string, readOnly bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path, readOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	// One writer; also keeps a ":memory:" log on a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db, readOnly: readOnly}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) userVersion() (int, error) {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// migrate creates missing tables and applies each pending migration in its
// own transaction, bumping user_version as it goes.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	version, err := s.userVersion()
	if err != nil {
		return err
	}

	for v := version; v < len(migrations); v++ {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("set user_version %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
