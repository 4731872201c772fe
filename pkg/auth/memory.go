package auth

import (
	"crypto/subtle"
	"fmt"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
)

type memoryUser struct {
	password    string
	encryptData bool
}

// MemoryAuth is an in-process Provider with no persistence. It keeps
// passwords in memory and is meant for tests and demos.
type MemoryAuth struct {
	users map[string]memoryUser
}

// NewMemoryAuth returns an empty MemoryAuth
func NewMemoryAuth() *MemoryAuth {
	return &MemoryAuth{users: map[string]memoryUser{}}
}

func (m *MemoryAuth) CreateUser(username, password string, encryptData bool) error {
	if username == "" || password == "" {
		return kerrors.ErrInvalidInput
	}
	if _, ok := m.users[username]; ok {
		return fmt.Errorf("%w: %s", kerrors.ErrUserExists, username)
	}
	m.users[username] = memoryUser{password: password, encryptData: encryptData}
	return nil
}

func (m *MemoryAuth) VerifyUser(username, password string) (bool, error) {
	u, ok := m.users[username]
	if !ok {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(u.password), []byte(password)) == 1, nil
}

func (m *MemoryAuth) UserExists(username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *MemoryAuth) UserWantsEncryption(username string) (bool, error) {
	return m.users[username].encryptData, nil
}
