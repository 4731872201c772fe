package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"
	"unicode/utf8"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	"github.com/loganmanery/tuikit/pkg/auth"
	"github.com/loganmanery/tuikit/pkg/datafile"
	"github.com/loganmanery/tuikit/pkg/session"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// addUserFlag registers the --user flag required by every per-user command.
func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	_ = cmd.MarkFlagRequired("user")
}

// startSpinner shows a spinner while slow key stretching runs. The returned
// function stops it.
func startSpinner(message string) func() {
	if verbose || debug || !term.IsTerminal(int(os.Stdout.Fd())) {
		Logger.Infof("%s", message)
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}
	log.SetOutput(io.Discard)
	s.Start()

	return func() {
		s.Stop()
		log.SetOutput(os.Stderr)
	}
}

// openAuth opens the credential store of app.
func openAuth(app string) (*auth.BcryptAuth, error) {
	store, err := cfg.OpenCredentialStore(app)
	if err != nil {
		return nil, err
	}
	return auth.NewBcryptAuth(app, store, auth.WithLogger(Logger)), nil
}

func newCodec() *datafile.Codec {
	return datafile.NewCodec(datafile.WithLogger(Logger))
}

// readPassword takes the password from TUIKIT_PASSWORD or prompts for it
// without echo.
func readPassword(prompt string) (string, error) {
	if cfg.HasPassword() {
		return cfg.Password, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// login authenticates --user against app and returns their session.
func login(app string) (*session.Session, func(), error) {
	a, err := openAuth(app)
	if err != nil {
		return nil, nil, err
	}
	closeAuth := func() {
		if err := a.Close(); err != nil {
			Logger.Warnf("Failed to close credential store: %v", err)
		}
	}

	password, err := readPassword("Password: ")
	if err != nil {
		closeAuth()
		return nil, nil, err
	}

	stop := startSpinner("Verifying credentials...")
	s, err := session.Login(a, cfg.Paths(), newCodec(), app, username, password)
	stop()
	if err != nil {
		closeAuth()
		return nil, nil, err
	}

	Logger.Infof("Logged in as %s (encrypted=%t)", s.Username, s.Encrypted())
	return s, closeAuth, nil
}

// errorText maps error kinds to user-facing messages.
func errorText(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrInvalidCredentials):
		return color.RedString("✗") + " Invalid username or password"
	case errors.Is(err, kerrors.ErrAuthenticationFailure):
		return color.RedString("✗") + " Cannot decrypt data: wrong password or corrupted file"
	case errors.Is(err, kerrors.ErrUserExists):
		return color.RedString("✗") + " That username is taken, choose another"
	case errors.Is(err, kerrors.ErrInvalidInput):
		return color.RedString("✗") + " " + err.Error()
	case errors.Is(err, kerrors.ErrMissingPassword), errors.Is(err, kerrors.ErrUnexpectedPassword):
		// Mode mismatches are bugs; show the full chain.
		return color.RedString("[internal error] ") + err.Error()
	default:
		return color.RedString("Error: ") + err.Error()
	}
}

// truncateString shortens s to at most max characters
func truncateString(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
