package crypto

// SaltSize is the length of the random salt prefixed to every payload.
const SaltSize = 16

// CryptoService defines the interface for password-based encryption
type CryptoService interface {
	// DeriveKey derives an encryption key from a password and salt
	DeriveKey(password string, salt []byte) ([]byte, error)

	// GenerateSalt generates a cryptographically secure random salt
	GenerateSalt() ([]byte, error)

	// Encrypt encrypts plaintext under a key derived from password.
	// The returned blob is self-describing: salt || nonce || ciphertext.
	Encrypt(plaintext string, password string) ([]byte, error)

	// Decrypt reverses Encrypt. A wrong password or a damaged blob
	// yields an error matching errors.ErrAuthenticationFailure.
	Decrypt(blob []byte, password string) (string, error)
}

// NewCryptoService creates a new instance of the default crypto service
func NewCryptoService() CryptoService {
	return &aesCryptoService{iterations: pbkdf2Iterations}
}
