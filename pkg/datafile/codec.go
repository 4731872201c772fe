package datafile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/loganmanery/tuikit/internal/crypto"
	kerrors "github.com/loganmanery/tuikit/internal/errors"
	logger "github.com/loganmanery/tuikit/internal/logging"
	"github.com/loganmanery/tuikit/internal/paths"

	"github.com/natefinch/atomic"
)

// Codec loads and saves tabular and JSON data files, encrypting those
// whose path carries the ".enc." marker
type Codec struct {
	crypto crypto.CryptoService
	log    logger.Logger
}

// Option configures a Codec
type Option func(*Codec)

// WithCryptoService replaces the default PBKDF2/AES-GCM service
func WithCryptoService(svc crypto.CryptoService) Option {
	return func(c *Codec) {
		c.crypto = svc
	}
}

// WithLogger sets the logger used for mode mismatch diagnostics
func WithLogger(log logger.Logger) Option {
	return func(c *Codec) {
		c.log = log
	}
}

// NewCodec creates a Codec
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		crypto: crypto.NewCryptoService(),
		log:    logger.Silent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Password returns a pointer to pw for use as a codec password argument.
// A nil password means the caller holds no password.
func Password(pw string) *string {
	return &pw
}

// checkMode enforces that the path's declared mode agrees with the password
func (c *Codec) checkMode(path string, password *string) (bool, error) {
	encrypted := paths.IsEncrypted(path)

	if encrypted && password == nil {
		c.log.Errorf("%s is encrypted but the session has no password", path)
		return false, fmt.Errorf("%w: %s", kerrors.ErrMissingPassword, path)
	}
	if !encrypted && password != nil {
		c.log.Errorf("%s is plaintext but the session holds a password", path)
		return false, fmt.Errorf("%w: %s", kerrors.ErrUnexpectedPassword, path)
	}
	return encrypted, nil
}

// readText returns the file's text, decrypting it when encrypted is set.
// A missing file yields found == false.
func (c *Codec) readText(path string, password *string, encrypted bool) (text string, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !encrypted {
		return string(data), true, nil
	}

	text, err = c.crypto.Decrypt(data, *password)
	if err != nil {
		return "", true, fmt.Errorf("failed to decrypt %s: %w", path, err)
	}
	return text, true, nil
}

// writeText writes text to path, encrypting it when encrypted is set
func (c *Codec) writeText(path, text string, password *string, encrypted bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	data := []byte(text)
	if encrypted {
		var err error
		data, err = c.crypto.Encrypt(text, *password)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", path, err)
		}
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	c.log.Debugf("wrote %d bytes to %s (encrypted=%t)", len(data), path, encrypted)
	return nil
}
