package main

import (
	"errors"
	"fmt"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	"github.com/loganmanery/tuikit/internal/storage"
	"github.com/loganmanery/tuikit/pkg/generator"
	"github.com/loganmanery/tuikit/pkg/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const minPasswordLength = 8

func newRegisterCmd(app string) *cobra.Command {
	var encrypt, generate bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Long: `Creates a user account. With --encrypt every data file of the user is
encrypted with a key derived from the password. This choice is permanent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openAuth(app)
			if err != nil {
				return err
			}
			defer a.Close()

			exists, err := a.UserExists(username)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: %s", kerrors.ErrUserExists, username)
			}

			password, err := choosePassword(generate)
			if err != nil {
				return err
			}

			stop := startSpinner("Creating account...")
			_, err = session.Register(a, cfg.Paths(), newCodec(), app, username, password, encrypt)
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Registered %s", color.GreenString("✓"), color.CyanString(username))
			if encrypt {
				fmt.Fprint(cmd.OutOrStdout(), " with encrypted data")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if generate {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated password: %s\n", color.YellowString(password))
				fmt.Fprintln(cmd.OutOrStdout(), "Store it somewhere safe. It is shown only once.")
			}
			return nil
		},
	}

	addUserFlag(cmd)
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "encrypt this user's data files")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random password")
	return cmd
}

func choosePassword(generate bool) (string, error) {
	if generate {
		return generator.Generate(generator.DefaultOptions())
	}

	password, err := readPassword("Choose a password: ")
	if err != nil {
		return "", err
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if cfg.HasPassword() {
		return password, nil
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func newImportUsersCmd(app string) *cobra.Command {
	return &cobra.Command{
		Use:   "import-users <users.json>",
		Short: "Copy users from a JSON credential file into the SQLite backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cfg.OpenCredentialStore(app)
			if err != nil {
				return err
			}
			defer store.Close()

			db, ok := store.(*storage.SQLiteStore)
			if !ok {
				return fmt.Errorf("import-users requires TUIKIT_CREDENTIAL_BACKEND=%s", storage.BackendSQLite)
			}

			n, err := db.ImportJSON(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d users\n", color.GreenString("✓"), n)
			return nil
		},
	}
}
