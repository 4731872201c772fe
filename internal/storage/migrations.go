package storage

import "fmt"

// schemaVersion is bumped whenever initializeSchema changes shape
const schemaVersion = 1

// initializeSchema sets up the necessary database tables
func (s *SQLiteStore) initializeSchema() error {
	// Create meta table
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`)
	if err != nil {
		return err
	}

	// Create users table
	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			encrypt_data INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	var version int
	err = s.db.QueryRow("SELECT COALESCE(MAX(CAST(value AS INTEGER)), 0) FROM meta WHERE key = 'schema_version'").Scan(&version)
	if err != nil {
		return err
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}

	_, err = s.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

// SchemaVersion returns the schema version recorded in the database
func (s *SQLiteStore) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT CAST(value AS INTEGER) FROM meta WHERE key = 'schema_version'").Scan(&version)
	return version, err
}
