// Package paths builds the on-disk locations of credential and data files.
//
// A Paths value is constructed once from configuration and passed to the
// components that need it. The Keyed Path convention lives here: a data file
// is encrypted exactly when its path contains the literal ".enc.".
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Vendor groups every tracker's data directory under one parent.
const Vendor = "textual-apps"

// EncryptedMarker is the infix that declares a file encrypted.
const EncryptedMarker = ".enc."

const (
	usersJSONFile   = "users.json"
	usersSQLiteFile = "users.db"
	configFile      = "config.json"
)

// Paths resolves file locations below DataRoot.
type Paths struct {
	DataRoot string
}

// New returns Paths rooted at dataRoot.
func New(dataRoot string) Paths {
	return Paths{DataRoot: dataRoot}
}

// DefaultDataRoot returns $XDG_DATA_HOME/textual-apps, falling back to
// ~/.local/share/textual-apps.
func DefaultDataRoot() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, Vendor), nil
}

// AppDataDir returns the data directory for app, creating it if needed.
func (p Paths) AppDataDir(app string) (string, error) {
	dir := filepath.Join(p.DataRoot, app)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return dir, nil
}

// UserDataPath returns <app dir>/<username>_<filename>. When encrypted is
// set, ".enc" is inserted before the final extension:
// "alice_tasks.csv" becomes "alice_tasks.enc.csv".
func (p Paths) UserDataPath(app, username, filename string, encrypted bool) (string, error) {
	dir, err := p.AppDataDir(app)
	if err != nil {
		return "", err
	}

	name := username + "_" + filename
	if encrypted {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext) + ".enc" + ext
	}
	return filepath.Join(dir, name), nil
}

// UserConfigPath returns the path of a user's JSON config file.
func (p Paths) UserConfigPath(app, username string, encrypted bool) (string, error) {
	return p.UserDataPath(app, username, configFile, encrypted)
}

// UsersDBPath returns the JSON credential file for app.
func (p Paths) UsersDBPath(app string) (string, error) {
	dir, err := p.AppDataDir(app)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, usersJSONFile), nil
}

// UsersSQLitePath returns the SQLite credential database for app.
func (p Paths) UsersSQLitePath(app string) (string, error) {
	dir, err := p.AppDataDir(app)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, usersSQLiteFile), nil
}

// IsEncrypted reports whether path names an encrypted file.
func IsEncrypted(path string) bool {
	return strings.Contains(path, EncryptedMarker)
}
