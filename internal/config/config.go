// Package config loads tuikit configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/loganmanery/tuikit/internal/paths"
	"github.com/loganmanery/tuikit/internal/storage"
)

// Config holds the process-wide settings, built once at startup and passed
// to the credential and data components.
type Config struct {
	DataDir           string
	CredentialBackend string

	// Password, when set, is used instead of prompting. Intended for
	// scripting; it is never written anywhere.
	Password string
}

// HasPassword reports whether a password was supplied through the environment.
func (c *Config) HasPassword() bool {
	return c.Password != ""
}

// Paths returns the path resolver rooted at DataDir.
func (c *Config) Paths() paths.Paths {
	return paths.New(c.DataDir)
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables: TUIKIT_DATA_DIR (default $XDG_DATA_HOME/textual-apps),
// TUIKIT_CREDENTIAL_BACKEND (json or sqlite, default json), TUIKIT_PASSWORD.
func Load() (*Config, error) {
	dataDir := os.Getenv("TUIKIT_DATA_DIR")
	if dataDir == "" {
		var err error
		dataDir, err = paths.DefaultDataRoot()
		if err != nil {
			return nil, err
		}
	}

	backend := storage.BackendJSON
	if v, ok := os.LookupEnv("TUIKIT_CREDENTIAL_BACKEND"); ok && v != "" {
		backend = strings.ToLower(strings.TrimSpace(v))
	}
	switch backend {
	case storage.BackendJSON, storage.BackendSQLite:
	default:
		return nil, fmt.Errorf("TUIKIT_CREDENTIAL_BACKEND has invalid value %q: want %q or %q",
			backend, storage.BackendJSON, storage.BackendSQLite)
	}

	return &Config{
		DataDir:           dataDir,
		CredentialBackend: backend,
		Password:          os.Getenv("TUIKIT_PASSWORD"),
	}, nil
}

// OpenCredentialStore opens the configured credential backend for app.
func (c *Config) OpenCredentialStore(app string) (storage.CredentialStore, error) {
	p := c.Paths()

	var (
		path string
		err  error
	)
	if c.CredentialBackend == storage.BackendSQLite {
		path, err = p.UsersSQLitePath(app)
	} else {
		path, err = p.UsersDBPath(app)
	}
	if err != nil {
		return nil, err
	}

	return storage.NewCredentialStore(c.CredentialBackend, path)
}
