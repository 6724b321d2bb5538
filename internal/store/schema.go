package store

import (
	"database/sql"
	"fmt"

	"stabl/internal/errors"
)

const currentSchemaVersion = 1

var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS types (
		qualified_name TEXT PRIMARY KEY,
		simple_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		modality TEXT NOT NULL,
		type_params TEXT NOT NULL DEFAULT '[]',
		annotations TEXT NOT NULL DEFAULT '[]',
		wrapped_name TEXT,
		wrapped_type TEXT,
		wrapped_mutable INTEGER,
		inferred_stability INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		owner TEXT NOT NULL,
		ord INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		mutable INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (owner, ord)
	)`,
	`CREATE TABLE IF NOT EXISTS supertypes (
		owner TEXT NOT NULL,
		ord INTEGER NOT NULL,
		type TEXT NOT NULL,
		PRIMARY KEY (owner, ord)
	)`,
	`CREATE TABLE IF NOT EXISTS aliases (
		name TEXT PRIMARY KEY,
		target TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS callables (
		id TEXT PRIMARY KEY,
		type_params TEXT NOT NULL DEFAULT '[]',
		params TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS call_edges (
		caller TEXT NOT NULL,
		ord INTEGER NOT NULL,
		callee TEXT NOT NULL,
		PRIMARY KEY (caller, ord)
	)`,
}

func (s *Store) initializeSchema() error {
	return s.WithTx(func(tx *sql.Tx) error {
		for _, ddl := range tableDDL {
			if _, err := tx.Exec(ddl); err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
		s.logger.Debug("Database schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})
		return nil
	})
}

func (s *Store) checkSchemaVersion() error {
	var version int
	err := s.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return errors.New(errors.StoreUnavailable, "cannot read schema version", err)
	}
	if version != currentSchemaVersion {
		return errors.New(errors.StoreUnavailable,
			fmt.Sprintf("unsupported schema version %d (expected %d), re-import the graph", version, currentSchemaVersion), nil)
	}
	return nil
}
