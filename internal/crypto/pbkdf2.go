package crypto

import (
	"crypto/sha256"
	"fmt"

	kerrors "github.com/loganmanery/tuikit/internal/errors"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters
const (
	pbkdf2Iterations = 100_000 // HMAC-SHA256 rounds
	keyLen           = 32      // AES-256
)

// DeriveKey derives an encryption key from a password and salt using
// PBKDF2-HMAC-SHA256. An empty password is accepted here; callers that
// register users reject it before any data is written.
func (s *aesCryptoService) DeriveKey(password string, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", kerrors.ErrInvalidSalt, len(salt), SaltSize)
	}

	return pbkdf2.Key([]byte(password), salt, s.iterations, keyLen, sha256.New), nil
}
