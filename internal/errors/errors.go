package errors

import "errors"

// Registration errors are surfaced to the user as validation messages.
var (
	// ErrInvalidInput indicates an empty username or password at registration.
	ErrInvalidInput = errors.New("username and password are required")

	// ErrUserExists indicates the username is already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates a login attempt with an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Cryptographic errors indicate failures while deriving keys or opening payloads.
var (
	// ErrAuthenticationFailure indicates a payload could not be decrypted,
	// either because the password is wrong or the bytes were corrupted.
	ErrAuthenticationFailure = errors.New("invalid credentials or corrupted data: cannot decrypt")

	// ErrInvalidSalt indicates a salt of the wrong length was supplied.
	ErrInvalidSalt = errors.New("invalid salt length")
)

// Data file errors indicate a mismatch between a file's declared mode and the
// caller's session state. These are programming errors, not user input errors.
var (
	// ErrMissingPassword indicates an encrypted path was accessed without a password.
	ErrMissingPassword = errors.New("file is encrypted but no password was provided")

	// ErrUnexpectedPassword indicates a plaintext path was accessed with a password.
	ErrUnexpectedPassword = errors.New("file is plaintext but a password was provided")
)

// Store errors indicate malformed persisted state.
var (
	// ErrInvalidCredentialFile indicates the credential file holds an entry of unknown shape.
	ErrInvalidCredentialFile = errors.New("credential file is invalid")

	// ErrRecordNotFound indicates no row carries the requested serial.
	ErrRecordNotFound = errors.New("record not found")
)
