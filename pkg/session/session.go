// Package session ties a logged-in user to their data files.
//
// A Session carries the password only when the user registered with
// encryption, so every path it builds and every codec call it makes agree
// on the file's mode.
package session

import (
	"strconv"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	"github.com/loganmanery/tuikit/internal/paths"
	"github.com/loganmanery/tuikit/pkg/auth"
	"github.com/loganmanery/tuikit/pkg/datafile"
)

// Session is an authenticated user of one application namespace
type Session struct {
	App      string
	Username string

	password *string
	paths    paths.Paths
	codec    *datafile.Codec
}

// Login verifies the user's password and opens a session. The session holds
// the password only if the user registered with encryption.
func Login(provider auth.Provider, p paths.Paths, codec *datafile.Codec, app, username, password string) (*Session, error) {
	ok, err := provider.VerifyUser(username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, kerrors.ErrInvalidCredentials
	}

	encrypt, err := provider.UserWantsEncryption(username)
	if err != nil {
		return nil, err
	}

	s := &Session{App: app, Username: username, paths: p, codec: codec}
	if encrypt {
		s.password = datafile.Password(password)
	}
	return s, nil
}

// Register creates the user and returns a session for them
func Register(provider auth.Provider, p paths.Paths, codec *datafile.Codec, app, username, password string, encrypt bool) (*Session, error) {
	if err := provider.CreateUser(username, password, encrypt); err != nil {
		return nil, err
	}
	return Login(provider, p, codec, app, username, password)
}

// Encrypted reports whether the session's data files are encrypted
func (s *Session) Encrypted() bool {
	return s.password != nil
}

// DataPath returns the session user's file for filename, with the ".enc."
// marker when the session is encrypted
func (s *Session) DataPath(filename string) (string, error) {
	return s.paths.UserDataPath(s.App, s.Username, filename, s.Encrypted())
}

// ConfigPath returns the session user's config file
func (s *Session) ConfigPath() (string, error) {
	return s.paths.UserConfigPath(s.App, s.Username, s.Encrypted())
}

// Password returns the password to pass to the codec, nil when plaintext
func (s *Session) Password() *string {
	return s.password
}

// LoadConfig loads the user's config, starting from defaults on first run
func (s *Session) LoadConfig(defaults map[string]any) (map[string]any, error) {
	path, err := s.ConfigPath()
	if err != nil {
		return nil, err
	}
	return s.codec.LoadConfig(path, defaults, s.password)
}

// SaveConfig writes the user's config
func (s *Session) SaveConfig(cfg map[string]any) error {
	path, err := s.ConfigPath()
	if err != nil {
		return err
	}
	return s.codec.SaveConfig(path, cfg, s.password)
}

// intValue reads a JSON number as an int, defaulting when absent or invalid
func intValue(cfg map[string]any, key string, def int) int {
	switch v := cfg[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// floatValue reads a JSON number as a float64, defaulting when absent or invalid
func floatValue(cfg map[string]any, key string, def float64) float64 {
	switch v := cfg[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}
