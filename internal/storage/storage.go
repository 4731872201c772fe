package storage

import (
	"fmt"

	"github.com/loganmanery/tuikit/pkg/models"
)

// Backend names accepted by NewCredentialStore
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// CredentialStore defines the interface for persisting the username to
// credential mapping of one application namespace
type CredentialStore interface {
	// Load returns every stored credential. A store that was never
	// written yields an empty map.
	Load() (map[string]models.Credential, error)

	// Save replaces the stored mapping with users
	Save(users map[string]models.Credential) error

	// Close releases any handle held by the store
	Close() error
}

// NewCredentialStore creates the store for the given backend at path
func NewCredentialStore(backend, path string) (CredentialStore, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path), nil
	case BackendSQLite:
		s := newSQLiteStore(path)
		if err := s.Initialize(); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", backend)
	}
}
