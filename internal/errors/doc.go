// Package errors defines the sentinel errors shared across tuikit.
//
// Errors are grouped by concern. Callers wrap them with fmt.Errorf and %w
// and test for them with the standard library's errors.Is:
//
//	if errors.Is(err, kerrors.ErrUserExists) {
//		// prompt for a different username
//	}
//
// ErrMissingPassword and ErrUnexpectedPassword signal a caller bug (the
// session's encryption mode disagrees with the file name) and should be
// logged rather than shown as validation messages. ErrAuthenticationFailure
// is the only error a user experiences as lost data: no recovery exists
// without the original password.
package errors
