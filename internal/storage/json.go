package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	"github.com/loganmanery/tuikit/pkg/models"

	"github.com/natefinch/atomic"
)

// JSONStore implements CredentialStore on a single pretty-printed JSON file
type JSONStore struct {
	path   string
	legacy int
}

// NewJSONStore creates a store backed by the JSON file at path
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the file backing the store
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the credential file, normalizing legacy entries in memory
func (s *JSONStore) Load() (map[string]models.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]models.Credential{}, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	users, legacy, err := decodeCredentials(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.legacy = legacy
	return users, nil
}

// LegacyEntries reports how many entries the last Load read in the legacy
// bare-hash shape. They are rewritten in the current shape on the next Save.
func (s *JSONStore) LegacyEntries() int {
	return s.legacy
}

// Save rewrites the whole credential file in the current format
func (s *JSONStore) Save(users map[string]models.Credential) error {
	data, err := encodeCredentials(users)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save
func (s *JSONStore) Close() error {
	return nil
}

// entryVersion tags which on-disk shape a credential entry was decoded from
type entryVersion int

const (
	// legacyEntry is a bare password hash string
	legacyEntry entryVersion = iota + 1
	// currentEntry is an object with password and encrypt_data
	currentEntry
)

// currentRecord is the on-disk shape written by Save
type currentRecord struct {
	Password    string `json:"password"`
	EncryptData bool   `json:"encrypt_data"`
}

// credentialEntry decodes either on-disk shape into one canonical credential
type credentialEntry struct {
	version    entryVersion
	credential models.Credential
}

func (e *credentialEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return kerrors.ErrInvalidCredentialFile
	}

	switch data[0] {
	case 'n':
		if !bytes.Equal(data, []byte("null")) {
			return fmt.Errorf("%w: unexpected entry %s", kerrors.ErrInvalidCredentialFile, data)
		}
		// A null entry has no hash, so the user cannot log in.
		e.version = legacyEntry
		e.credential = models.Credential{}
	case '"':
		var hash string
		if err := json.Unmarshal(data, &hash); err != nil {
			return err
		}
		e.version = legacyEntry
		e.credential = models.Credential{PasswordHash: hash, EncryptData: false}
	case '{':
		var rec currentRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		e.version = currentEntry
		e.credential = models.Credential{PasswordHash: rec.Password, EncryptData: rec.EncryptData}
	default:
		return fmt.Errorf("%w: unexpected entry %s", kerrors.ErrInvalidCredentialFile, data)
	}
	return nil
}

func decodeCredentials(data []byte) (map[string]models.Credential, int, error) {
	var raw map[string]credentialEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		if errors.Is(err, kerrors.ErrInvalidCredentialFile) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %v", kerrors.ErrInvalidCredentialFile, err)
	}

	users := make(map[string]models.Credential, len(raw))
	legacy := 0
	for username, entry := range raw {
		if entry.version == legacyEntry {
			legacy++
		}
		users[username] = entry.credential
	}
	return users, legacy, nil
}

func encodeCredentials(users map[string]models.Credential) ([]byte, error) {
	out := make(map[string]currentRecord, len(users))
	for username, cred := range users {
		out[username] = currentRecord{Password: cred.PasswordHash, EncryptData: cred.EncryptData}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}
	return append(data, '\n'), nil
}
