package auth

import (
	"errors"
	"fmt"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	logger "github.com/loganmanery/tuikit/internal/logging"
	"github.com/loganmanery/tuikit/internal/storage"
	"github.com/loganmanery/tuikit/pkg/models"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost factor used for new password hashes
const DefaultCost = 12

// Authenticator is the capability set the trackers log in with
type Authenticator interface {
	// CreateUser registers username with a hash of password
	CreateUser(username, password string, encryptData bool) error

	// VerifyUser reports whether password matches the stored hash.
	// A wrong password or unknown user is false, not an error.
	VerifyUser(username, password string) (bool, error)

	// UserExists reports whether username is registered
	UserExists(username string) (bool, error)
}

// Provider is an Authenticator that also records each user's encryption choice
type Provider interface {
	Authenticator

	// UserWantsEncryption returns the encrypt_data flag fixed at registration
	UserWantsEncryption(username string) (bool, error)
}

// BcryptAuth authenticates users of one application namespace against a
// credential store using bcrypt password hashes
type BcryptAuth struct {
	app   string
	store storage.CredentialStore
	cost  int
	log   logger.Logger
}

// Option configures a BcryptAuth
type Option func(*BcryptAuth)

// WithCost overrides the bcrypt cost factor
func WithCost(cost int) Option {
	return func(a *BcryptAuth) {
		a.cost = cost
	}
}

// WithLogger sets the logger used for store diagnostics
func WithLogger(log logger.Logger) Option {
	return func(a *BcryptAuth) {
		a.log = log
	}
}

// NewBcryptAuth creates an authenticator for app backed by store
func NewBcryptAuth(app string, store storage.CredentialStore, opts ...Option) *BcryptAuth {
	a := &BcryptAuth{
		app:   app,
		store: store,
		cost:  DefaultCost,
		log:   logger.Silent(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateUser registers a new user with a hashed password and encryption flag
func (a *BcryptAuth) CreateUser(username, password string, encryptData bool) error {
	if username == "" || password == "" {
		return kerrors.ErrInvalidInput
	}

	users, err := a.load()
	if err != nil {
		return err
	}

	if _, ok := users[username]; ok {
		return fmt.Errorf("%w: %s", kerrors.ErrUserExists, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return fmt.Errorf("%w: password must be at most 72 bytes", kerrors.ErrInvalidInput)
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users[username] = models.Credential{
		PasswordHash: string(hash),
		EncryptData:  encryptData,
	}

	if err := a.store.Save(users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}

	a.log.Debugf("created user %s in %s (encrypt_data=%t)", username, a.app, encryptData)
	return nil
}

// VerifyUser checks password against the stored bcrypt hash
func (a *BcryptAuth) VerifyUser(username, password string) (bool, error) {
	users, err := a.load()
	if err != nil {
		return false, err
	}

	cred, ok := users[username]
	if !ok || cred.PasswordHash == "" {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password))
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			a.log.Debugf("stored hash for %s could not be compared: %v", username, err)
		}
		return false, nil
	}
	return true, nil
}

// UserExists checks if a user is registered
func (a *BcryptAuth) UserExists(username string) (bool, error) {
	users, err := a.load()
	if err != nil {
		return false, err
	}

	_, ok := users[username]
	return ok, nil
}

// UserWantsEncryption reports whether username registered with encryption
func (a *BcryptAuth) UserWantsEncryption(username string) (bool, error) {
	users, err := a.load()
	if err != nil {
		return false, err
	}

	return users[username].EncryptData, nil
}

// Close releases the credential store
func (a *BcryptAuth) Close() error {
	return a.store.Close()
}

func (a *BcryptAuth) load() (map[string]models.Credential, error) {
	users, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	if js, ok := a.store.(*storage.JSONStore); ok && js.LegacyEntries() > 0 {
		a.log.Debugf("%d legacy credential entries in %s will be upgraded on next save", js.LegacyEntries(), js.Path())
	}
	return users, nil
}
