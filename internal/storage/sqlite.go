package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loganmanery/tuikit/pkg/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements CredentialStore using SQLite
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// newSQLiteStore creates a new SQLite credential store
func newSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Initialize opens the database connection and creates the schema
func (s *SQLiteStore) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer; keeps the file handle count predictable.
	db.SetMaxOpenConns(1)
	s.db = db

	return s.initializeSchema()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads every user row
func (s *SQLiteStore) Load() (map[string]models.Credential, error) {
	rows, err := s.db.Query("SELECT username, password_hash, encrypt_data FROM users")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := map[string]models.Credential{}
	for rows.Next() {
		var username string
		var cred models.Credential
		if err := rows.Scan(&username, &cred.PasswordHash, &cred.EncryptData); err != nil {
			return nil, err
		}
		users[username] = cred
	}

	return users, rows.Err()
}

// Save replaces the users table in a single transaction
func (s *SQLiteStore) Save(users map[string]models.Credential) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM users"); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO users (username, password_hash, encrypt_data) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for username, cred := range users {
		if _, err := stmt.Exec(username, cred.PasswordHash, cred.EncryptData); err != nil {
			return fmt.Errorf("failed to save user %s: %w", username, err)
		}
	}

	return tx.Commit()
}

// ImportJSON copies the users of a JSON credential file into the database,
// normalizing legacy entries. Existing rows with the same username are replaced.
func (s *SQLiteStore) ImportJSON(path string) (int, error) {
	imported, err := NewJSONStore(path).Load()
	if err != nil {
		return 0, err
	}

	users, err := s.Load()
	if err != nil {
		return 0, err
	}
	for username, cred := range imported {
		users[username] = cred
	}

	if err := s.Save(users); err != nil {
		return 0, err
	}
	return len(imported), nil
}
