package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"unicode/utf8"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
)

// aesCryptoService implements CryptoService using PBKDF2 and AES-GCM
type aesCryptoService struct {
	iterations int
}

// Encrypt encrypts a string under a key derived from password with a fresh salt
func (s *aesCryptoService) Encrypt(plaintext string, password string) ([]byte, error) {
	salt, err := s.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := s.newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// salt || nonce || sealed
	out := make([]byte, 0, SaltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, []byte(plaintext), nil), nil
}

// Decrypt splits off the salt and nonce, then opens and verifies the payload
func (s *aesCryptoService) Decrypt(blob []byte, password string) (string, error) {
	if len(blob) < SaltSize {
		return "", fmt.Errorf("%w: payload too short", kerrors.ErrAuthenticationFailure)
	}
	salt, rest := blob[:SaltSize], blob[SaltSize:]

	gcm, err := s.newGCM(password, salt)
	if err != nil {
		return "", err
	}

	if len(rest) < gcm.NonceSize()+gcm.Overhead() {
		return "", fmt.Errorf("%w: payload too short", kerrors.ErrAuthenticationFailure)
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrAuthenticationFailure, err)
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", kerrors.ErrAuthenticationFailure)
	}

	return string(plaintext), nil
}

// GenerateSalt generates a cryptographically secure random salt
func (s *aesCryptoService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	_, err := io.ReadFull(rand.Reader, salt)
	return salt, err
}

func (s *aesCryptoService) newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key, err := s.DeriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
